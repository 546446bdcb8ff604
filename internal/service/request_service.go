package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Asamaludi26/inventory-be/internal/model"
	"github.com/Asamaludi26/inventory-be/internal/repository"
	"github.com/Asamaludi26/inventory-be/internal/workflow"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// --- DTOs ---

type RequestItemInput struct {
	ItemName      string `json:"item_name" binding:"required"`
	ItemTypeBrand string `json:"item_type_brand"`
	Quantity      int    `json:"quantity" binding:"required,gt=0"`
	Keterangan    string `json:"keterangan"`
	StockSnapshot int    `json:"stock_snapshot"`
}

type CreateRequestDTO struct {
	OrderType     string             `json:"order_type" binding:"required"`
	Justification string             `json:"justification"`
	Project       string             `json:"project"`
	Items         []RequestItemInput `json:"items" binding:"required"`
}

// ReviewDecisionDTO is the reviewer's verdict for one item. Items without a
// decision are implicitly fully approved.
type ReviewDecisionDTO struct {
	ApprovedQuantity int    `json:"approved_quantity"`
	Reason           string `json:"reason"`
}

type ReviewRequestDTO struct {
	Decisions map[string]ReviewDecisionDTO `json:"decisions"`
}

type PurchaseDetailDTO struct {
	ItemID    string `json:"item_id" binding:"required"`
	Vendor    string `json:"vendor" binding:"required"`
	UnitPrice string `json:"unit_price" binding:"required"`
}

type SubmitForCEODTO struct {
	Details []PurchaseDetailDTO `json:"details" binding:"required"`
}

type StartProcurementDTO struct {
	EstimatedDeliveryDate time.Time `json:"estimated_delivery_date" binding:"required"`
}

type ConfirmArrivalDTO struct {
	ReceivedBy string `json:"received_by"`
}

type RegisterItemsDTO struct {
	Counts map[string]int `json:"counts" binding:"required"`
}

type CancelRequestDTO struct {
	Reason string `json:"reason"`
}

type RequestFilter struct {
	Status string
	Page   int
	Limit  int
}

// --- Interface ---

type RequestService interface {
	Create(ctx context.Context, userID string, dto CreateRequestDTO) (*model.Request, error)
	Get(ctx context.Context, id string) (*model.Request, error)
	List(ctx context.Context, filter RequestFilter) ([]model.Request, int64, error)
	Review(ctx context.Context, id, userID string, dto ReviewRequestDTO) (*model.Request, error)
	SubmitForCEO(ctx context.Context, id, userID string, dto SubmitForCEODTO) (*model.Request, error)
	FinalApprove(ctx context.Context, id, userID string) (*model.Request, error)
	StartProcurement(ctx context.Context, id, userID string, dto StartProcurementDTO) (*model.Request, error)
	ConfirmShipment(ctx context.Context, id, userID string) (*model.Request, error)
	ConfirmArrival(ctx context.Context, id, userID string, dto ConfirmArrivalDTO) (*model.Request, error)
	RegisterItems(ctx context.Context, id, userID string, dto RegisterItemsDTO) (*model.Request, error)
	Cancel(ctx context.Context, id, userID string, dto CancelRequestDTO) (*model.Request, error)
	FollowUp(ctx context.Context, id, userID string) (*model.Request, error)
	Prioritize(ctx context.Context, id, userID string) (*model.Request, error)
	RequestProgressUpdate(ctx context.Context, id, userID string) (*model.Request, error)
	AcknowledgeProgressUpdate(ctx context.Context, id, userID string) (*model.Request, error)
}

type requestService struct {
	requestRepo repository.RequestRepository
	assetRepo   repository.AssetRepository
	userRepo    repository.UserRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	notifier    NotificationDispatcher
	log         *zap.Logger
	now         func() time.Time
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	assetRepo repository.AssetRepository,
	userRepo repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	notifier NotificationDispatcher,
	log *zap.Logger,
) RequestService {
	return &requestService{
		requestRepo: requestRepo,
		assetRepo:   assetRepo,
		userRepo:    userRepo,
		auditRepo:   auditRepo,
		txManager:   txManager,
		notifier:    notifier,
		log:         log,
		now:         time.Now,
	}
}

// --- Helpers ---

func (s *requestService) loadActor(ctx context.Context, userID string) (*model.User, workflow.Role, error) {
	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, "", fmt.Errorf("actor not found: %w", err)
	}
	role := workflow.Role(actor.Role)
	if !role.IsValid() {
		return nil, "", workflow.ErrNotPermitted
	}
	return actor, role, nil
}

func (s *requestService) audit(ctx context.Context, actorID uuid.UUID, action, entityID string, details map[string]interface{}) error {
	payload, _ := json.Marshal(details)
	entry := &model.AuditLog{
		UserID:   &actorID,
		Action:   action,
		EntityID: entityID,
		Details:  string(payload),
	}
	return s.auditRepo.Log(ctx, entry)
}

func (s *requestService) notifyRequester(ctx context.Context, req *model.Request, actorName, notifType, message string) error {
	if req.RequesterID == nil {
		return nil
	}
	return s.notifier.Dispatch(ctx, []uuid.UUID{*req.RequesterID}, actorName, notifType, req.ID, message)
}

// --- Implementation ---

func (s *requestService) Create(ctx context.Context, userID string, dto CreateRequestDTO) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionCreate) {
		return nil, workflow.ErrNotPermitted
	}

	if err := validateCreate(dto); err != nil {
		return nil, err
	}

	var req *model.Request
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		code, codeErr := s.requestRepo.NextCode(txCtx)
		if codeErr != nil {
			return fmt.Errorf("failed to generate request code: %w", codeErr)
		}

		items := make([]model.RequestItem, 0, len(dto.Items))
		for _, in := range dto.Items {
			items = append(items, model.RequestItem{
				RequestID:     code,
				ItemName:      in.ItemName,
				ItemTypeBrand: in.ItemTypeBrand,
				Quantity:      in.Quantity,
				Keterangan:    in.Keterangan,
				StockSnapshot: in.StockSnapshot,
				UnitPrice:     decimal.Zero,
			})
		}

		req = &model.Request{
			ID:            code,
			RequesterID:   &actor.ID,
			Division:      actor.Division,
			OrderType:     dto.OrderType,
			Justification: dto.Justification,
			Project:       dto.Project,
			Status:        workflow.StatusPending.String(),
			Items:         items,
		}

		if createErr := s.requestRepo.Create(txCtx, req); createErr != nil {
			return fmt.Errorf("failed to create request: %w", createErr)
		}

		if auditErr := s.audit(txCtx, actor.ID, model.ActionCreateRequest, code, map[string]interface{}{
			"order_type": dto.OrderType,
			"items":      len(items),
		}); auditErr != nil {
			return auditErr
		}

		return s.notifier.NotifyRole(txCtx, workflow.RoleAdminLogistik, actor.Username,
			model.NotifNewRequest, code,
			fmt.Sprintf("%s submitted request %s for review", actor.Username, code))
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, req.ID)
}

func validateCreate(dto CreateRequestDTO) error {
	switch dto.OrderType {
	case model.OrderTypeRegularStock:
	case model.OrderTypeUrgent:
		if dto.Justification == "" {
			return workflow.NewValidationError("justification is required for urgent requests")
		}
	case model.OrderTypeProjectBased:
		if dto.Project == "" {
			return workflow.NewValidationError("project is required for project-based requests")
		}
	default:
		return workflow.NewValidationError("unknown order type %q", dto.OrderType)
	}

	if len(dto.Items) == 0 {
		return workflow.NewValidationError("a request needs at least one item")
	}
	for _, item := range dto.Items {
		if item.ItemName == "" {
			return workflow.NewValidationError("item name is required")
		}
		if item.Quantity <= 0 {
			return workflow.NewValidationError("quantity for %q must be positive", item.ItemName)
		}
	}
	return nil
}

func (s *requestService) Get(ctx context.Context, id string) (*model.Request, error) {
	return s.requestRepo.FindByIDWithRelations(ctx, id)
}

func (s *requestService) List(ctx context.Context, filter RequestFilter) ([]model.Request, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.requestRepo.List(ctx, filter.Status, filter.Page, filter.Limit)
}

// Review applies per-item approval decisions at the request's current stage.
// A PENDING request is reviewed by the logistics team, a LOGISTIC_APPROVED
// one by the purchase team; all items at zero reject the whole request.
func (s *requestService) Review(ctx context.Context, id, userID string, dto ReviewRequestDTO) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionReview) {
		return nil, workflow.ErrNotPermitted
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requestRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}

		stage := workflow.Status(req.Status)
		if stage.IsTerminal() {
			return workflow.ErrTerminalState
		}
		if !workflow.CanReviewAt(role, stage) {
			return workflow.ErrNotPermitted
		}

		items := make([]workflow.ReviewItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, workflow.ReviewItem{
				ID:       it.ID.String(),
				Name:     it.ItemName,
				Quantity: it.Quantity,
			})
		}
		decisions := make(map[string]workflow.ReviewDecision, len(dto.Decisions))
		for itemID, d := range dto.Decisions {
			decisions[itemID] = workflow.ReviewDecision{
				ApprovedQuantity: d.ApprovedQuantity,
				Reason:           d.Reason,
			}
		}

		outcome, resolveErr := workflow.ResolveReview(stage, items, decisions)
		if resolveErr != nil {
			return resolveErr
		}

		now := s.now()
		for i := range req.Items {
			st, ok := outcome.ItemStatuses[req.Items[i].ID.String()]
			if !ok {
				continue
			}
			approved := st.ApprovedQuantity
			req.Items[i].ItemStatus = st.Status
			req.Items[i].ApprovedQuantity = &approved
			req.Items[i].ReviewReason = st.Reason
			if updErr := s.requestRepo.UpdateItem(txCtx, &req.Items[i]); updErr != nil {
				return fmt.Errorf("failed to update item review state: %w", updErr)
			}
		}

		req.Status = outcome.NextStatus.String()
		if outcome.AllRejected {
			req.RejectionReason = "All requested items were rejected during review"
			req.RejectedBy = actor.Username
			req.RejectedByDivision = actor.Division
			req.RejectionDate = &now
		} else if stage == workflow.StatusPending {
			req.LogisticApproverID = &actor.ID
			req.LogisticApprovedAt = &now
		}

		if updErr := s.requestRepo.Update(txCtx, req); updErr != nil {
			return fmt.Errorf("failed to update request: %w", updErr)
		}

		auditAction := model.ActionReviewRequest
		if outcome.AllRejected {
			auditAction = model.ActionRejectRequest
		}
		if auditErr := s.audit(txCtx, actor.ID, auditAction, req.ID, map[string]interface{}{
			"stage":       stage.String(),
			"next_status": outcome.NextStatus.String(),
			"reductions":  len(outcome.ItemStatuses),
		}); auditErr != nil {
			return auditErr
		}

		switch {
		case outcome.AllRejected:
			return s.notifyRequester(txCtx, req, actor.Username, model.NotifRequestRejected,
				fmt.Sprintf("Request %s was rejected: %s", req.ID, req.RejectionReason))
		case stage == workflow.StatusPending:
			return s.notifier.NotifyRole(txCtx, workflow.RoleAdminPurchase, actor.Username,
				model.NotifRequestLogisticOK, req.ID,
				fmt.Sprintf("Request %s passed logistics review", req.ID))
		default:
			if notifyErr := s.notifyRequester(txCtx, req, actor.Username, model.NotifRequestAwaitingCEO,
				fmt.Sprintf("Request %s is awaiting CEO approval", req.ID)); notifyErr != nil {
				return notifyErr
			}
			return s.notifier.NotifyRole(txCtx, workflow.RoleSuperAdmin, actor.Username,
				model.NotifRequestAwaitingCEO, req.ID,
				fmt.Sprintf("Request %s needs final approval", req.ID))
		}
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, id)
}

// SubmitForCEO attaches per-item purchase details and forwards the request
// to the CEO stage. There is no shortcut past this stage.
func (s *requestService) SubmitForCEO(ctx context.Context, id, userID string, dto SubmitForCEODTO) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionSubmitForCEO) {
		return nil, workflow.ErrNotPermitted
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requestRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}

		next, nextErr := workflow.Next(workflow.Status(req.Status), workflow.ActionSubmitForCEO)
		if nextErr != nil {
			return nextErr
		}

		byID := make(map[string]*model.RequestItem, len(req.Items))
		for i := range req.Items {
			byID[req.Items[i].ID.String()] = &req.Items[i]
		}
		for _, d := range dto.Details {
			item, ok := byID[d.ItemID]
			if !ok {
				return workflow.NewValidationError("purchase detail references unknown item %q", d.ItemID)
			}
			price, priceErr := decimal.NewFromString(d.UnitPrice)
			if priceErr != nil || price.IsNegative() {
				return workflow.NewValidationError("invalid unit price for %q", item.ItemName)
			}
			item.Vendor = d.Vendor
			item.UnitPrice = price
			if updErr := s.requestRepo.UpdateItem(txCtx, item); updErr != nil {
				return fmt.Errorf("failed to save purchase details: %w", updErr)
			}
		}

		req.Status = next.String()
		if updErr := s.requestRepo.Update(txCtx, req); updErr != nil {
			return fmt.Errorf("failed to update request: %w", updErr)
		}

		if auditErr := s.audit(txCtx, actor.ID, model.ActionSubmitForCEO, req.ID, map[string]interface{}{
			"details": len(dto.Details),
		}); auditErr != nil {
			return auditErr
		}

		return s.notifier.NotifyRole(txCtx, workflow.RoleSuperAdmin, actor.Username,
			model.NotifRequestAwaitingCEO, req.ID,
			fmt.Sprintf("Request %s needs final approval", req.ID))
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, id)
}

func (s *requestService) FinalApprove(ctx context.Context, id, userID string) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionFinalApprove) {
		return nil, workflow.ErrNotPermitted
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requestRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}

		next, nextErr := workflow.Next(workflow.Status(req.Status), workflow.ActionFinalApprove)
		if nextErr != nil {
			return nextErr
		}

		now := s.now()
		req.Status = next.String()
		req.FinalApproverID = &actor.ID
		req.FinalApprovedAt = &now

		if updErr := s.requestRepo.Update(txCtx, req); updErr != nil {
			return fmt.Errorf("failed to update request: %w", updErr)
		}

		if auditErr := s.audit(txCtx, actor.ID, model.ActionFinalApproveRequest, req.ID, nil); auditErr != nil {
			return auditErr
		}

		if notifyErr := s.notifier.NotifyRole(txCtx, workflow.RoleAdminPurchase, actor.Username,
			model.NotifRequestApproved, req.ID,
			fmt.Sprintf("Request %s received final approval", req.ID)); notifyErr != nil {
			return notifyErr
		}
		return s.notifyRequester(txCtx, req, actor.Username, model.NotifRequestApproved,
			fmt.Sprintf("Your request %s has been approved", req.ID))
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, id)
}

func (s *requestService) StartProcurement(ctx context.Context, id, userID string, dto StartProcurementDTO) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionStartProcurement) {
		return nil, workflow.ErrNotPermitted
	}
	if dto.EstimatedDeliveryDate.IsZero() {
		return nil, workflow.NewValidationError("estimated delivery date is required")
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requestRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}

		next, nextErr := workflow.Next(workflow.Status(req.Status), workflow.ActionStartProcurement)
		if nextErr != nil {
			return nextErr
		}

		estimated := dto.EstimatedDeliveryDate
		req.Status = next.String()
		req.EstimatedDeliveryDate = &estimated

		if updErr := s.requestRepo.Update(txCtx, req); updErr != nil {
			return fmt.Errorf("failed to update request: %w", updErr)
		}

		return s.audit(txCtx, actor.ID, model.ActionStartProcurement, req.ID, map[string]interface{}{
			"estimated_delivery_date": estimated.Format(time.RFC3339),
		})
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, id)
}

func (s *requestService) ConfirmShipment(ctx context.Context, id, userID string) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionConfirmShipment) {
		return nil, workflow.ErrNotPermitted
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requestRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}

		next, nextErr := workflow.Next(workflow.Status(req.Status), workflow.ActionConfirmShipment)
		if nextErr != nil {
			return nextErr
		}

		now := s.now()
		req.Status = next.String()
		req.ActualShipmentDate = &now

		if updErr := s.requestRepo.Update(txCtx, req); updErr != nil {
			return fmt.Errorf("failed to update request: %w", updErr)
		}

		return s.audit(txCtx, actor.ID, model.ActionConfirmShipment, req.ID, nil)
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, id)
}

func (s *requestService) ConfirmArrival(ctx context.Context, id, userID string, dto ConfirmArrivalDTO) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionConfirmArrival) {
		return nil, workflow.ErrNotPermitted
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requestRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}

		next, nextErr := workflow.Next(workflow.Status(req.Status), workflow.ActionConfirmArrival)
		if nextErr != nil {
			return nextErr
		}

		now := s.now()
		receivedBy := dto.ReceivedBy
		if receivedBy == "" {
			receivedBy = actor.Username
		}
		req.Status = next.String()
		req.ArrivalDate = &now
		req.ReceivedBy = receivedBy

		if updErr := s.requestRepo.Update(txCtx, req); updErr != nil {
			return fmt.Errorf("failed to update request: %w", updErr)
		}

		if auditErr := s.audit(txCtx, actor.ID, model.ActionConfirmArrival, req.ID, map[string]interface{}{
			"received_by": receivedBy,
		}); auditErr != nil {
			return auditErr
		}

		if notifyErr := s.notifyRequester(txCtx, req, actor.Username, model.NotifRequestArrived,
			fmt.Sprintf("Items for request %s have arrived", req.ID)); notifyErr != nil {
			return notifyErr
		}
		return s.notifier.NotifyRole(txCtx, workflow.RoleAdminLogistik, actor.Username,
			model.NotifRequestArrived, req.ID,
			fmt.Sprintf("Request %s arrived and is ready for registration", req.ID))
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, id)
}

// RegisterItems records a partial registration batch. Counts past an item's
// remaining quantity are a hard validation error. Each registered batch
// mints an asset record; once every item reaches its target the request
// completes and completion notifications fan out.
func (s *requestService) RegisterItems(ctx context.Context, id, userID string, dto RegisterItemsDTO) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionRegisterItems) {
		return nil, workflow.ErrNotPermitted
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requestRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}

		if _, nextErr := workflow.Next(workflow.Status(req.Status), workflow.ActionRegisterItems); nextErr != nil {
			return nextErr
		}

		regItems := make([]workflow.RegistrationItem, 0, len(req.Items))
		for _, it := range req.Items {
			regItems = append(regItems, workflow.RegistrationItem{
				ID:               it.ID.String(),
				Name:             it.ItemName,
				Quantity:         it.Quantity,
				ApprovedQuantity: it.ApprovedQuantity,
				Registered:       it.RegisteredCount,
			})
		}

		updated, complete, applyErr := workflow.ApplyRegistration(regItems, dto.Counts)
		if applyErr != nil {
			return applyErr
		}

		now := s.now()
		for i := range req.Items {
			item := &req.Items[i]
			newCount, ok := updated[item.ID.String()]
			if !ok {
				continue
			}
			batch := newCount - item.RegisteredCount
			item.RegisteredCount = newCount
			if updErr := s.requestRepo.UpdateItem(txCtx, item); updErr != nil {
				return fmt.Errorf("failed to update registered count: %w", updErr)
			}

			code, codeErr := s.assetRepo.NextCode(txCtx)
			if codeErr != nil {
				return fmt.Errorf("failed to generate asset code: %w", codeErr)
			}
			itemID := item.ID
			asset := &model.Asset{
				ID:            code,
				Name:          item.ItemName,
				TypeBrand:     item.ItemTypeBrand,
				Quantity:      batch,
				Status:        model.AssetStatusInStorage,
				RequestID:     &req.ID,
				RequestItemID: &itemID,
				RegisteredBy:  actor.Username,
				RegisteredAt:  now,
			}
			if createErr := s.assetRepo.Create(txCtx, asset); createErr != nil {
				return fmt.Errorf("failed to create asset: %w", createErr)
			}
			if auditErr := s.audit(txCtx, actor.ID, model.ActionRegisterAsset, code, map[string]interface{}{
				"request_id": req.ID,
				"item_name":  item.ItemName,
				"quantity":   batch,
			}); auditErr != nil {
				return auditErr
			}
		}

		auditAction := model.ActionRegisterItems
		if complete {
			req.IsRegistered = true
			req.Status = workflow.StatusCompleted.String()
			auditAction = model.ActionCompleteRequest
		}
		if updErr := s.requestRepo.Update(txCtx, req); updErr != nil {
			return fmt.Errorf("failed to update request: %w", updErr)
		}

		if auditErr := s.audit(txCtx, actor.ID, auditAction, req.ID, map[string]interface{}{
			"registered": dto.Counts,
			"complete":   complete,
		}); auditErr != nil {
			return auditErr
		}

		if !complete {
			return nil
		}
		if notifyErr := s.notifyRequester(txCtx, req, actor.Username, model.NotifRequestCompleted,
			fmt.Sprintf("All items of request %s are registered; the request is complete", req.ID)); notifyErr != nil {
			return notifyErr
		}
		return s.notifier.NotifyRole(txCtx, workflow.RoleAdminLogistik, actor.Username,
			model.NotifRequestCompleted, req.ID,
			fmt.Sprintf("Request %s is fully registered", req.ID))
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, id)
}

func (s *requestService) Cancel(ctx context.Context, id, userID string, dto CancelRequestDTO) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionCancel) {
		return nil, workflow.ErrNotPermitted
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requestRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}

		// Non-approver actors may only cancel their own requests
		if !role.IsApprover() {
			if req.RequesterID == nil || *req.RequesterID != actor.ID {
				return workflow.ErrNotPermitted
			}
		}

		next, nextErr := workflow.Next(workflow.Status(req.Status), workflow.ActionCancel)
		if nextErr != nil {
			return nextErr
		}

		req.Status = next.String()
		if updErr := s.requestRepo.Update(txCtx, req); updErr != nil {
			return fmt.Errorf("failed to update request: %w", updErr)
		}

		if auditErr := s.audit(txCtx, actor.ID, model.ActionCancelRequest, req.ID, map[string]interface{}{
			"reason": dto.Reason,
		}); auditErr != nil {
			return auditErr
		}

		return s.notifyRequester(txCtx, req, actor.Username, model.NotifRequestCancelled,
			fmt.Sprintf("Request %s was cancelled", req.ID))
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, id)
}

// FollowUp sends a rate-limited nudge to the approver role owning the
// request's current stage. A violation reports the remaining wait rounded
// up to whole hours and changes nothing.
func (s *requestService) FollowUp(ctx context.Context, id, userID string) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionFollowUp) {
		return nil, workflow.ErrNotPermitted
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requestRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}

		if req.RequesterID == nil || *req.RequesterID != actor.ID {
			return workflow.ErrNotPermitted
		}

		stage := workflow.Status(req.Status)
		if stage.IsTerminal() {
			return workflow.ErrTerminalState
		}

		now := s.now()
		if cooldownErr := workflow.CheckFollowUp(req.LastFollowUpAt, now); cooldownErr != nil {
			return cooldownErr
		}

		req.LastFollowUpAt = &now
		if stage == workflow.StatusAwaitingCEOApproval {
			req.CEOFollowUpSent = true
		}
		if updErr := s.requestRepo.Update(txCtx, req); updErr != nil {
			return fmt.Errorf("failed to update request: %w", updErr)
		}

		if auditErr := s.audit(txCtx, actor.ID, model.ActionFollowUpRequest, req.ID, map[string]interface{}{
			"stage": stage.String(),
		}); auditErr != nil {
			return auditErr
		}

		return s.notifier.NotifyRole(txCtx, workflow.StageOwner(stage), actor.Username,
			model.NotifFollowUp, req.ID,
			fmt.Sprintf("%s is following up on request %s", actor.Username, req.ID))
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, id)
}

// Prioritize marks a request as flagged by the CEO and alerts the purchase team
func (s *requestService) Prioritize(ctx context.Context, id, userID string) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionPrioritize) {
		return nil, workflow.ErrNotPermitted
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requestRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}
		if workflow.Status(req.Status).IsTerminal() {
			return workflow.ErrTerminalState
		}

		now := s.now()
		req.IsPrioritizedByCEO = true
		req.CEODispositionDate = &now
		req.CEODispositionFeedbackSent = true
		if updErr := s.requestRepo.Update(txCtx, req); updErr != nil {
			return fmt.Errorf("failed to update request: %w", updErr)
		}

		if auditErr := s.audit(txCtx, actor.ID, model.ActionPrioritizeRequest, req.ID, nil); auditErr != nil {
			return auditErr
		}

		if notifyErr := s.notifier.NotifyRole(txCtx, workflow.RoleAdminPurchase, actor.Username,
			model.NotifCEODisposition, req.ID,
			fmt.Sprintf("Request %s was prioritized by the CEO", req.ID)); notifyErr != nil {
			return notifyErr
		}
		return s.notifyRequester(txCtx, req, actor.Username, model.NotifCEODisposition,
			fmt.Sprintf("Your request %s was prioritized by the CEO", req.ID))
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, id)
}

func (s *requestService) RequestProgressUpdate(ctx context.Context, id, userID string) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionRequestProgress) {
		return nil, workflow.ErrNotPermitted
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requestRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}
		if req.RequesterID == nil || *req.RequesterID != actor.ID {
			return workflow.ErrNotPermitted
		}

		stage := workflow.Status(req.Status)
		if stage.IsTerminal() {
			return workflow.ErrTerminalState
		}
		if rank, ok := stage.Rank(); !ok || rank < 3 { // APPROVED and later
			return workflow.NewValidationError("progress updates are only available once a request is approved")
		}
		if req.ProgressUpdate.RequestDate != nil && !req.ProgressUpdate.IsAcknowledged {
			return workflow.NewValidationError("a progress update request is already pending")
		}

		now := s.now()
		req.ProgressUpdate = model.ProgressUpdateRequest{
			RequestedBy: actor.Username,
			RequestDate: &now,
		}
		if updErr := s.requestRepo.Update(txCtx, req); updErr != nil {
			return fmt.Errorf("failed to update request: %w", updErr)
		}

		if auditErr := s.audit(txCtx, actor.ID, model.ActionRequestProgress, req.ID, nil); auditErr != nil {
			return auditErr
		}

		return s.notifier.NotifyRole(txCtx, workflow.RoleAdminPurchase, actor.Username,
			model.NotifProgressUpdateRequest, req.ID,
			fmt.Sprintf("%s asked for a progress update on request %s", actor.Username, req.ID))
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, id)
}

func (s *requestService) AcknowledgeProgressUpdate(ctx context.Context, id, userID string) (*model.Request, error) {
	actor, role, err := s.loadActor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !workflow.Allowed(role, workflow.ActionAckProgress) {
		return nil, workflow.ErrNotPermitted
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		req, findErr := s.requestRepo.FindByID(txCtx, id)
		if findErr != nil {
			return findErr
		}
		if req.ProgressUpdate.RequestDate == nil || req.ProgressUpdate.IsAcknowledged {
			return workflow.NewValidationError("no pending progress update request")
		}

		now := s.now()
		req.ProgressUpdate.IsAcknowledged = true
		req.ProgressUpdate.AcknowledgedBy = actor.Username
		req.ProgressUpdate.AcknowledgedDate = &now
		req.ProgressUpdate.FeedbackSent = true
		if updErr := s.requestRepo.Update(txCtx, req); updErr != nil {
			return fmt.Errorf("failed to update request: %w", updErr)
		}

		if auditErr := s.audit(txCtx, actor.ID, model.ActionAcknowledgeProgress, req.ID, nil); auditErr != nil {
			return auditErr
		}

		return s.notifyRequester(txCtx, req, actor.Username, model.NotifProgressUpdateAck,
			fmt.Sprintf("Progress update for request %s: currently %s", req.ID, req.Status))
	})
	if err != nil {
		return nil, err
	}

	return s.requestRepo.FindByIDWithRelations(ctx, id)
}
