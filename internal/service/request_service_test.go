package service

import (
	"context"
	"testing"
	"time"

	"github.com/Asamaludi26/inventory-be/internal/model"
	"github.com/Asamaludi26/inventory-be/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var (
	staffID    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	logistikID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	ceoID      = uuid.MustParse("33333333-3333-3333-3333-333333333333")
)

func usersByID() map[string]*model.User {
	return map[string]*model.User{
		staffID.String():    {ID: staffID, Username: "budi", Role: workflow.RoleStaff.String(), Division: "IT"},
		logistikID.String(): {ID: logistikID, Username: "sari", Role: workflow.RoleAdminLogistik.String(), Division: "Logistics"},
		ceoID.String():      {ID: ceoID, Username: "dewi", Role: workflow.RoleSuperAdmin.String(), Division: "Management"},
	}
}

type fixture struct {
	service  *requestService
	requests *mockRequestRepo
	assets   *mockAssetRepo
	audits   *mockAuditRepo
	notifier *mockNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	users := usersByID()
	f := &fixture{
		requests: &mockRequestRepo{},
		assets:   &mockAssetRepo{},
		audits:   &mockAuditRepo{},
		notifier: &mockNotifier{},
	}
	userRepo := &mockUserRepo{
		GetByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			if u, ok := users[id]; ok {
				return u, nil
			}
			return nil, assert.AnError
		},
	}
	f.service = &requestService{
		requestRepo: f.requests,
		assetRepo:   f.assets,
		userRepo:    userRepo,
		auditRepo:   f.audits,
		txManager:   mockTxManager{},
		notifier:    f.notifier,
		log:         zap.NewNop(),
		now:         time.Now,
	}
	return f
}

// storedRequest wires the mock repo to a single in-memory request
func (f *fixture) storedRequest(req *model.Request) {
	f.requests.FindByIDFn = func(ctx context.Context, id string) (*model.Request, error) {
		return req, nil
	}
	f.requests.UpdateFn = func(ctx context.Context, updated *model.Request) error {
		*req = *updated
		return nil
	}
	f.requests.UpdateItemFn = func(ctx context.Context, item *model.RequestItem) error {
		return nil
	}
}

func pendingRequest(items ...model.RequestItem) *model.Request {
	return &model.Request{
		ID:          "REQ-001",
		RequesterID: &staffID,
		Division:    "IT",
		OrderType:   model.OrderTypeRegularStock,
		Status:      workflow.StatusPending.String(),
		Items:       items,
	}
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name string
		dto  CreateRequestDTO
	}{
		{
			"urgent without justification",
			CreateRequestDTO{
				OrderType: model.OrderTypeUrgent,
				Items:     []RequestItemInput{{ItemName: "Laptop", Quantity: 1}},
			},
		},
		{
			"project-based without project",
			CreateRequestDTO{
				OrderType: model.OrderTypeProjectBased,
				Items:     []RequestItemInput{{ItemName: "Laptop", Quantity: 1}},
			},
		},
		{
			"no items",
			CreateRequestDTO{OrderType: model.OrderTypeRegularStock},
		},
		{
			"zero quantity",
			CreateRequestDTO{
				OrderType: model.OrderTypeRegularStock,
				Items:     []RequestItemInput{{ItemName: "Laptop", Quantity: 0}},
			},
		},
		{
			"unknown order type",
			CreateRequestDTO{
				OrderType: "WHATEVER",
				Items:     []RequestItemInput{{ItemName: "Laptop", Quantity: 1}},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.service.Create(context.Background(), staffID.String(), tc.dto)
			assert.True(t, workflow.IsValidation(err), "got %v", err)
		})
	}
}

func TestCreateNotifiesLogistics(t *testing.T) {
	f := newFixture(t)

	var created *model.Request
	f.requests.CreateFn = func(ctx context.Context, req *model.Request) error {
		created = req
		return nil
	}
	f.requests.FindByIDWithRelationsFn = func(ctx context.Context, id string) (*model.Request, error) {
		return created, nil
	}

	req, err := f.service.Create(context.Background(), staffID.String(), CreateRequestDTO{
		OrderType:     model.OrderTypeUrgent,
		Justification: "server down",
		Items:         []RequestItemInput{{ItemName: "Laptop", Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "REQ-001", req.ID)
	assert.Equal(t, workflow.StatusPending.String(), req.Status)
	assert.Equal(t, "IT", req.Division)

	notifs := f.notifier.ofType(model.NotifNewRequest)
	require.Len(t, notifs, 1)
	assert.Equal(t, workflow.RoleAdminLogistik, notifs[0].Role)
	assert.Equal(t, "REQ-001", notifs[0].ReferenceID)

	require.Len(t, f.audits.entries, 1)
	assert.Equal(t, model.ActionCreateRequest, f.audits.entries[0].Action)
}

func TestReviewStaffForbidden(t *testing.T) {
	f := newFixture(t)
	f.storedRequest(pendingRequest())

	_, err := f.service.Review(context.Background(), "REQ-001", staffID.String(), ReviewRequestDTO{})
	assert.ErrorIs(t, err, workflow.ErrNotPermitted)
}

func TestReviewAdvancesAndNotifiesPurchase(t *testing.T) {
	f := newFixture(t)
	itemID := uuid.New()
	req := pendingRequest(model.RequestItem{ID: itemID, RequestID: "REQ-001", ItemName: "Laptop", Quantity: 5})
	f.storedRequest(req)

	out, err := f.service.Review(context.Background(), "REQ-001", logistikID.String(), ReviewRequestDTO{
		Decisions: map[string]ReviewDecisionDTO{
			itemID.String(): {ApprovedQuantity: 3, Reason: "budget"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, workflow.StatusLogisticApproved.String(), out.Status)
	require.NotNil(t, out.LogisticApproverID)
	assert.Equal(t, logistikID, *out.LogisticApproverID)
	assert.NotNil(t, out.LogisticApprovedAt)

	notifs := f.notifier.ofType(model.NotifRequestLogisticOK)
	require.Len(t, notifs, 1)
	assert.Equal(t, workflow.RoleAdminPurchase, notifs[0].Role)
}

func TestReviewAllZeroRejects(t *testing.T) {
	f := newFixture(t)
	itemID := uuid.New()
	req := pendingRequest(model.RequestItem{ID: itemID, RequestID: "REQ-001", ItemName: "Laptop", Quantity: 5})
	f.storedRequest(req)

	out, err := f.service.Review(context.Background(), "REQ-001", logistikID.String(), ReviewRequestDTO{
		Decisions: map[string]ReviewDecisionDTO{
			itemID.String(): {ApprovedQuantity: 0, Reason: "not needed"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, workflow.StatusRejected.String(), out.Status)
	assert.Equal(t, "sari", out.RejectedBy)
	assert.Equal(t, "Logistics", out.RejectedByDivision)
	assert.NotNil(t, out.RejectionDate)

	notifs := f.notifier.ofType(model.NotifRequestRejected)
	require.Len(t, notifs, 1)
	assert.Equal(t, []uuid.UUID{staffID}, notifs[0].RecipientIDs)
}

func TestReviewTerminalRequestConflicts(t *testing.T) {
	f := newFixture(t)
	req := pendingRequest()
	req.Status = workflow.StatusCancelled.String()
	f.storedRequest(req)

	_, err := f.service.Review(context.Background(), "REQ-001", logistikID.String(), ReviewRequestDTO{})
	assert.ErrorIs(t, err, workflow.ErrTerminalState)
}

func TestFinalApproveNotifiesPurchaseAndRequester(t *testing.T) {
	f := newFixture(t)
	req := pendingRequest()
	req.Status = workflow.StatusAwaitingCEOApproval.String()
	f.storedRequest(req)

	out, err := f.service.FinalApprove(context.Background(), "REQ-001", ceoID.String())
	require.NoError(t, err)

	assert.Equal(t, workflow.StatusApproved.String(), out.Status)
	require.NotNil(t, out.FinalApproverID)
	assert.Equal(t, ceoID, *out.FinalApproverID)

	notifs := f.notifier.ofType(model.NotifRequestApproved)
	require.Len(t, notifs, 2)
	assert.Equal(t, workflow.RoleAdminPurchase, notifs[0].Role)
	assert.Equal(t, []uuid.UUID{staffID}, notifs[1].RecipientIDs)
}

func TestFinalApproveRequiresSuperAdmin(t *testing.T) {
	f := newFixture(t)
	req := pendingRequest()
	req.Status = workflow.StatusAwaitingCEOApproval.String()
	f.storedRequest(req)

	_, err := f.service.FinalApprove(context.Background(), "REQ-001", logistikID.String())
	assert.ErrorIs(t, err, workflow.ErrNotPermitted)
}

func TestStartProcurementRequiresDeliveryDate(t *testing.T) {
	f := newFixture(t)
	req := pendingRequest()
	req.Status = workflow.StatusApproved.String()
	f.storedRequest(req)

	_, err := f.service.StartProcurement(context.Background(), "REQ-001", logistikID.String(), StartProcurementDTO{})
	assert.True(t, workflow.IsValidation(err), "got %v", err)

	eta := time.Now().Add(7 * 24 * time.Hour)
	out, err := f.service.StartProcurement(context.Background(), "REQ-001", logistikID.String(), StartProcurementDTO{
		EstimatedDeliveryDate: eta,
	})
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusPurchasing.String(), out.Status)
	require.NotNil(t, out.EstimatedDeliveryDate)
	assert.True(t, out.EstimatedDeliveryDate.Equal(eta))
}

func TestRegisterItemsPartialThenComplete(t *testing.T) {
	f := newFixture(t)
	itemID := uuid.New()
	req := pendingRequest(model.RequestItem{ID: itemID, RequestID: "REQ-001", ItemName: "Laptop", Quantity: 5})
	req.Status = workflow.StatusArrived.String()
	f.storedRequest(req)

	counts := func(n int) RegisterItemsDTO {
		return RegisterItemsDTO{Counts: map[string]int{itemID.String(): n}}
	}

	out, err := f.service.RegisterItems(context.Background(), "REQ-001", logistikID.String(), counts(3))
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusArrived.String(), out.Status)
	assert.False(t, out.IsRegistered)
	assert.Empty(t, f.notifier.ofType(model.NotifRequestCompleted))
	require.Len(t, f.assets.created, 1)
	assert.Equal(t, 3, f.assets.created[0].Quantity)
	assert.Equal(t, model.AssetStatusInStorage, f.assets.created[0].Status)

	req.Items[0].RegisteredCount = 3
	out, err = f.service.RegisterItems(context.Background(), "REQ-001", logistikID.String(), counts(2))
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusCompleted.String(), out.Status)
	assert.True(t, out.IsRegistered)
	require.Len(t, f.assets.created, 2)
	assert.Equal(t, 2, f.assets.created[1].Quantity)

	notifs := f.notifier.ofType(model.NotifRequestCompleted)
	require.Len(t, notifs, 2) // requester + logistics role
	assert.Equal(t, []uuid.UUID{staffID}, notifs[0].RecipientIDs)
	assert.Equal(t, workflow.RoleAdminLogistik, notifs[1].Role)
}

func TestRegisterItemsOverTarget(t *testing.T) {
	f := newFixture(t)
	itemID := uuid.New()
	req := pendingRequest(model.RequestItem{ID: itemID, RequestID: "REQ-001", ItemName: "Laptop", Quantity: 5, RegisteredCount: 4})
	req.Status = workflow.StatusArrived.String()
	f.storedRequest(req)

	_, err := f.service.RegisterItems(context.Background(), "REQ-001", logistikID.String(), RegisterItemsDTO{
		Counts: map[string]int{itemID.String(): 2},
	})
	assert.True(t, workflow.IsValidation(err), "got %v", err)
	assert.Empty(t, f.assets.created)
}

func TestCancelOwnershipRule(t *testing.T) {
	f := newFixture(t)
	otherRequester := uuid.New()
	req := pendingRequest()
	req.RequesterID = &otherRequester
	f.storedRequest(req)

	_, err := f.service.Cancel(context.Background(), "REQ-001", staffID.String(), CancelRequestDTO{})
	assert.ErrorIs(t, err, workflow.ErrNotPermitted)

	// Approver roles may cancel any request
	out, err := f.service.Cancel(context.Background(), "REQ-001", logistikID.String(), CancelRequestDTO{Reason: "duplicate"})
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusCancelled.String(), out.Status)
}

func TestFollowUpCooldownScenario(t *testing.T) {
	f := newFixture(t)
	req := pendingRequest()
	f.storedRequest(req)

	clock := time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	f.service.now = func() time.Time { return clock }

	// t=0: first follow-up passes and routes to the stage owner
	out, err := f.service.FollowUp(context.Background(), "REQ-001", staffID.String())
	require.NoError(t, err)
	require.NotNil(t, out.LastFollowUpAt)
	assert.True(t, out.LastFollowUpAt.Equal(clock))

	notifs := f.notifier.ofType(model.NotifFollowUp)
	require.Len(t, notifs, 1)
	assert.Equal(t, workflow.RoleAdminLogistik, notifs[0].Role)

	// t+1h: blocked, nothing changes
	firstFollowUp := *req.LastFollowUpAt
	clock = clock.Add(time.Hour)
	_, err = f.service.FollowUp(context.Background(), "REQ-001", staffID.String())
	var cooldown *workflow.CooldownError
	require.ErrorAs(t, err, &cooldown)
	assert.Equal(t, 23, cooldown.RemainingHours())
	assert.True(t, req.LastFollowUpAt.Equal(firstFollowUp), "blocked follow-up must not move the timestamp")
	assert.Len(t, f.notifier.ofType(model.NotifFollowUp), 1)

	// t+25h: allowed again
	clock = clock.Add(24 * time.Hour)
	out, err = f.service.FollowUp(context.Background(), "REQ-001", staffID.String())
	require.NoError(t, err)
	assert.True(t, out.LastFollowUpAt.Equal(clock))
	assert.Len(t, f.notifier.ofType(model.NotifFollowUp), 2)
}

func TestFollowUpOnlyByRequester(t *testing.T) {
	f := newFixture(t)
	otherRequester := uuid.New()
	req := pendingRequest()
	req.RequesterID = &otherRequester
	f.storedRequest(req)

	_, err := f.service.FollowUp(context.Background(), "REQ-001", staffID.String())
	assert.ErrorIs(t, err, workflow.ErrNotPermitted)
}

func TestFollowUpAtCEOStageSetsFlag(t *testing.T) {
	f := newFixture(t)
	req := pendingRequest()
	req.Status = workflow.StatusAwaitingCEOApproval.String()
	f.storedRequest(req)

	out, err := f.service.FollowUp(context.Background(), "REQ-001", staffID.String())
	require.NoError(t, err)
	assert.True(t, out.CEOFollowUpSent)

	notifs := f.notifier.ofType(model.NotifFollowUp)
	require.Len(t, notifs, 1)
	assert.Equal(t, workflow.RoleSuperAdmin, notifs[0].Role)
}

func TestPrioritizeSetsDisposition(t *testing.T) {
	f := newFixture(t)
	req := pendingRequest()
	req.Status = workflow.StatusPurchasing.String()
	f.storedRequest(req)

	out, err := f.service.Prioritize(context.Background(), "REQ-001", ceoID.String())
	require.NoError(t, err)
	assert.True(t, out.IsPrioritizedByCEO)
	assert.NotNil(t, out.CEODispositionDate)
	assert.True(t, out.CEODispositionFeedbackSent)

	notifs := f.notifier.ofType(model.NotifCEODisposition)
	require.Len(t, notifs, 2)
	assert.Equal(t, workflow.RoleAdminPurchase, notifs[0].Role)
	assert.Equal(t, []uuid.UUID{staffID}, notifs[1].RecipientIDs)
}

func TestProgressUpdateRoundTrip(t *testing.T) {
	f := newFixture(t)
	req := pendingRequest()
	req.Status = workflow.StatusPurchasing.String()
	f.storedRequest(req)

	out, err := f.service.RequestProgressUpdate(context.Background(), "REQ-001", staffID.String())
	require.NoError(t, err)
	assert.Equal(t, "budi", out.ProgressUpdate.RequestedBy)
	assert.NotNil(t, out.ProgressUpdate.RequestDate)
	assert.False(t, out.ProgressUpdate.IsAcknowledged)

	// A second ask while one is pending is rejected
	_, err = f.service.RequestProgressUpdate(context.Background(), "REQ-001", staffID.String())
	assert.True(t, workflow.IsValidation(err), "got %v", err)

	out, err = f.service.AcknowledgeProgressUpdate(context.Background(), "REQ-001", logistikID.String())
	require.NoError(t, err)
	assert.True(t, out.ProgressUpdate.IsAcknowledged)
	assert.Equal(t, "sari", out.ProgressUpdate.AcknowledgedBy)
	assert.True(t, out.ProgressUpdate.FeedbackSent)

	acks := f.notifier.ofType(model.NotifProgressUpdateAck)
	require.Len(t, acks, 1)
	assert.Equal(t, []uuid.UUID{staffID}, acks[0].RecipientIDs)
}

func TestProgressUpdateBeforeApproval(t *testing.T) {
	f := newFixture(t)
	req := pendingRequest()
	f.storedRequest(req)

	_, err := f.service.RequestProgressUpdate(context.Background(), "REQ-001", staffID.String())
	assert.True(t, workflow.IsValidation(err), "got %v", err)
}
