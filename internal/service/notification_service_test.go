package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Asamaludi26/inventory-be/internal/model"
	"github.com/Asamaludi26/inventory-be/internal/workflow"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newNotificationFixture(byRole map[string][]model.User) (*notificationService, *mockNotificationRepo, *mockPusher) {
	repo := &mockNotificationRepo{}
	push := &mockPusher{}
	svc := &notificationService{
		repo: repo,
		userRepo: &mockUserRepo{
			ListByRoleFn: func(ctx context.Context, role string) ([]model.User, error) {
				return byRole[role], nil
			},
		},
		hub: push,
		log: zap.NewNop(),
		now: time.Now,
	}
	return svc, repo, push
}

func TestDispatchOneRowPerRecipient(t *testing.T) {
	svc, repo, push := newNotificationFixture(nil)

	a, b := uuid.New(), uuid.New()
	err := svc.Dispatch(context.Background(), []uuid.UUID{a, b}, "sari",
		model.NotifRequestApproved, "REQ-001", "Request REQ-001 approved")
	require.NoError(t, err)

	require.Len(t, repo.batches, 1)
	batch := repo.batches[0]
	require.Len(t, batch, 2)
	assert.Equal(t, a, batch[0].RecipientID)
	assert.Equal(t, b, batch[1].RecipientID)
	for _, n := range batch {
		assert.Equal(t, model.NotifRequestApproved, n.Type)
		assert.Equal(t, "REQ-001", n.ReferenceID)
		assert.False(t, n.IsRead)
	}

	require.Len(t, push.userIDs, 1)
	assert.ElementsMatch(t, []string{a.String(), b.String()}, push.userIDs[0])

	var envelope map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(push.payloads[0], &envelope))
	assert.Contains(t, envelope, "event")
	assert.Contains(t, envelope, "data")
}

func TestDispatchIsAppendOnly(t *testing.T) {
	svc, repo, _ := newNotificationFixture(nil)

	recipient := uuid.New()
	for i := 0; i < 2; i++ {
		err := svc.Dispatch(context.Background(), []uuid.UUID{recipient}, "sari",
			model.NotifFollowUp, "REQ-001", "same message")
		require.NoError(t, err)
	}

	// Identical dispatches create duplicate rows, never upserts
	notifications, total, err := repo.ListByRecipient(context.Background(), recipient, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, notifications, 2)
}

func TestDispatchEmptyRecipientsIsNoop(t *testing.T) {
	svc, repo, push := newNotificationFixture(nil)

	err := svc.Dispatch(context.Background(), nil, "sari", model.NotifFollowUp, "REQ-001", "msg")
	require.NoError(t, err)
	assert.Empty(t, repo.batches)
	assert.Empty(t, push.userIDs)
}

func TestNotifyRoleFansOutToEveryMember(t *testing.T) {
	members := []model.User{
		{ID: uuid.New(), Username: "pa-1", Role: workflow.RoleAdminPurchase.String()},
		{ID: uuid.New(), Username: "pa-2", Role: workflow.RoleAdminPurchase.String()},
		{ID: uuid.New(), Username: "pa-3", Role: workflow.RoleAdminPurchase.String()},
	}
	svc, repo, _ := newNotificationFixture(map[string][]model.User{
		workflow.RoleAdminPurchase.String(): members,
	})

	err := svc.NotifyRole(context.Background(), workflow.RoleAdminPurchase, "dewi",
		model.NotifRequestApproved, "REQ-007", "Request REQ-007 received final approval")
	require.NoError(t, err)

	require.Len(t, repo.batches, 1)
	batch := repo.batches[0]
	require.Len(t, batch, 3)

	// Exactly one notification per member
	seen := make(map[uuid.UUID]int)
	for _, n := range batch {
		seen[n.RecipientID]++
	}
	for _, m := range members {
		assert.Equal(t, 1, seen[m.ID], "member %s", m.Username)
	}
}

func TestNotifyRoleWithNoMembers(t *testing.T) {
	svc, repo, _ := newNotificationFixture(nil)

	err := svc.NotifyRole(context.Background(), workflow.RoleAdminPurchase, "dewi",
		model.NotifRequestApproved, "REQ-007", "msg")
	require.NoError(t, err)
	assert.Empty(t, repo.batches)
}

func TestListIncludesUnreadCount(t *testing.T) {
	svc, repo, _ := newNotificationFixture(nil)

	recipient := uuid.New()
	repo.batches = append(repo.batches, []model.Notification{
		{ID: uuid.New(), RecipientID: recipient, Type: model.NotifFollowUp, IsRead: true},
		{ID: uuid.New(), RecipientID: recipient, Type: model.NotifRequestApproved},
		{ID: uuid.New(), RecipientID: uuid.New(), Type: model.NotifRequestApproved},
	})

	result, err := svc.List(context.Background(), recipient, 1, 10)
	require.NoError(t, err)
	assert.Len(t, result.Notifications, 2)
	assert.Equal(t, int64(1), result.Unread)
}
