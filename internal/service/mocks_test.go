package service

import (
	"context"

	"github.com/Asamaludi26/inventory-be/internal/model"
	"github.com/Asamaludi26/inventory-be/internal/workflow"

	"github.com/google/uuid"
)

// Function-field mocks so each test overrides only what it needs

type mockRequestRepo struct {
	CreateFn                func(ctx context.Context, req *model.Request) error
	FindByIDFn              func(ctx context.Context, id string) (*model.Request, error)
	FindByIDWithRelationsFn func(ctx context.Context, id string) (*model.Request, error)
	ListFn                  func(ctx context.Context, status string, page, limit int) ([]model.Request, int64, error)
	UpdateFn                func(ctx context.Context, req *model.Request) error
	UpdateItemFn            func(ctx context.Context, item *model.RequestItem) error
	FindItemFn              func(ctx context.Context, requestID string, itemID uuid.UUID) (*model.RequestItem, error)
	NextCodeFn              func(ctx context.Context) (string, error)
}

func (m *mockRequestRepo) Create(ctx context.Context, req *model.Request) error {
	return m.CreateFn(ctx, req)
}

func (m *mockRequestRepo) FindByID(ctx context.Context, id string) (*model.Request, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *mockRequestRepo) FindByIDWithRelations(ctx context.Context, id string) (*model.Request, error) {
	if m.FindByIDWithRelationsFn != nil {
		return m.FindByIDWithRelationsFn(ctx, id)
	}
	return m.FindByIDFn(ctx, id)
}

func (m *mockRequestRepo) List(ctx context.Context, status string, page, limit int) ([]model.Request, int64, error) {
	return m.ListFn(ctx, status, page, limit)
}

func (m *mockRequestRepo) Update(ctx context.Context, req *model.Request) error {
	return m.UpdateFn(ctx, req)
}

func (m *mockRequestRepo) UpdateItem(ctx context.Context, item *model.RequestItem) error {
	return m.UpdateItemFn(ctx, item)
}

func (m *mockRequestRepo) FindItem(ctx context.Context, requestID string, itemID uuid.UUID) (*model.RequestItem, error) {
	return m.FindItemFn(ctx, requestID, itemID)
}

func (m *mockRequestRepo) NextCode(ctx context.Context) (string, error) {
	if m.NextCodeFn != nil {
		return m.NextCodeFn(ctx)
	}
	return "REQ-001", nil
}

type mockAssetRepo struct {
	CreateFn   func(ctx context.Context, asset *model.Asset) error
	FindByIDFn func(ctx context.Context, id string) (*model.Asset, error)
	ListFn     func(ctx context.Context, status, category string, page, limit int) ([]model.Asset, int64, error)
	NextCodeFn func(ctx context.Context) (string, error)

	created []*model.Asset
}

func (m *mockAssetRepo) Create(ctx context.Context, asset *model.Asset) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, asset)
	}
	m.created = append(m.created, asset)
	return nil
}

func (m *mockAssetRepo) FindByID(ctx context.Context, id string) (*model.Asset, error) {
	return m.FindByIDFn(ctx, id)
}

func (m *mockAssetRepo) List(ctx context.Context, status, category string, page, limit int) ([]model.Asset, int64, error) {
	return m.ListFn(ctx, status, category, page, limit)
}

func (m *mockAssetRepo) NextCode(ctx context.Context) (string, error) {
	if m.NextCodeFn != nil {
		return m.NextCodeFn(ctx)
	}
	return "AST-001", nil
}

type mockUserRepo struct {
	GetByIDFn       func(ctx context.Context, id string) (*model.User, error)
	GetByEmailFn    func(ctx context.Context, email string) (*model.User, error)
	GetByUsernameFn func(ctx context.Context, username string) (*model.User, error)
	ListFn          func(ctx context.Context, page, limit int) ([]model.User, int64, error)
	ListByRoleFn    func(ctx context.Context, role string) ([]model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error { return nil }

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return m.GetByIDFn(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return m.GetByEmailFn(ctx, email)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return m.GetByUsernameFn(ctx, username)
}

func (m *mockUserRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	return m.ListFn(ctx, page, limit)
}

func (m *mockUserRepo) ListByRole(ctx context.Context, role string) ([]model.User, error) {
	return m.ListByRoleFn(ctx, role)
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepo) Delete(ctx context.Context, id string) error        { return nil }

func (m *mockUserRepo) CreateRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	return nil
}

func (m *mockUserRepo) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	return nil, nil
}

func (m *mockUserRepo) DeleteRefreshToken(ctx context.Context, token string) error { return nil }

type mockAuditRepo struct {
	entries []*model.AuditLog
}

func (m *mockAuditRepo) Log(ctx context.Context, entry *model.AuditLog) error {
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockAuditRepo) List(ctx context.Context, action string, page, limit int) ([]model.AuditLog, int64, error) {
	return nil, 0, nil
}

func (m *mockAuditRepo) ListByEntity(ctx context.Context, entityID string) ([]model.AuditLog, error) {
	return nil, nil
}

// mockTxManager runs the unit of work directly on the given context
type mockTxManager struct{}

func (mockTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type dispatched struct {
	RecipientIDs []uuid.UUID
	Role         workflow.Role
	NotifType    string
	ReferenceID  string
	Message      string
}

// mockNotifier records every dispatch for assertion
type mockNotifier struct {
	calls []dispatched
}

func (m *mockNotifier) Dispatch(ctx context.Context, recipientIDs []uuid.UUID, actorName, notifType, referenceID, message string) error {
	m.calls = append(m.calls, dispatched{
		RecipientIDs: recipientIDs,
		NotifType:    notifType,
		ReferenceID:  referenceID,
		Message:      message,
	})
	return nil
}

func (m *mockNotifier) NotifyRole(ctx context.Context, role workflow.Role, actorName, notifType, referenceID, message string) error {
	m.calls = append(m.calls, dispatched{
		Role:        role,
		NotifType:   notifType,
		ReferenceID: referenceID,
		Message:     message,
	})
	return nil
}

func (m *mockNotifier) ofType(notifType string) []dispatched {
	var out []dispatched
	for _, c := range m.calls {
		if c.NotifType == notifType {
			out = append(out, c)
		}
	}
	return out
}

type mockNotificationRepo struct {
	batches [][]model.Notification
}

func (m *mockNotificationRepo) CreateBatch(ctx context.Context, notifications []model.Notification) error {
	m.batches = append(m.batches, notifications)
	return nil
}

func (m *mockNotificationRepo) ListByRecipient(ctx context.Context, recipientID uuid.UUID, page, limit int) ([]model.Notification, int64, error) {
	var out []model.Notification
	for _, batch := range m.batches {
		for _, n := range batch {
			if n.RecipientID == recipientID {
				out = append(out, n)
			}
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockNotificationRepo) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	for _, batch := range m.batches {
		for _, n := range batch {
			if n.RecipientID == recipientID && !n.IsRead {
				count++
			}
		}
	}
	return count, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return nil
}

// mockPusher captures websocket pushes
type mockPusher struct {
	userIDs  [][]string
	payloads [][]byte
}

func (m *mockPusher) SendToUsers(userIDs []string, payload []byte) {
	m.userIDs = append(m.userIDs, userIDs)
	m.payloads = append(m.payloads, payload)
}
