package service

import (
	"context"

	"github.com/Asamaludi26/inventory-be/internal/model"
	"github.com/Asamaludi26/inventory-be/internal/repository"
)

type AuditLogResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Action    string `json:"action"`
	EntityID  string `json:"entity_id"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error)
	GetEntityTrail(ctx context.Context, entityID string) ([]AuditLogResponse, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func mapAuditLog(l *model.AuditLog) AuditLogResponse {
	username := "System"
	userID := ""
	if l.User != nil {
		username = l.User.Username
	}
	if l.UserID != nil {
		userID = l.UserID.String()
	}
	return AuditLogResponse{
		ID:        l.ID.String(),
		UserID:    userID,
		Username:  username,
		Action:    l.Action,
		EntityID:  l.EntityID,
		Details:   l.Details,
		CreatedAt: l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// GetAuditLogs retrieves strictly paginated records, newest first
func (s *auditService) GetAuditLogs(ctx context.Context, action string, page, limit int) ([]AuditLogResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	logs, total, err := s.repo.List(ctx, action, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for i := range logs {
		res = append(res, mapAuditLog(&logs[i]))
	}
	return res, total, nil
}

// GetEntityTrail returns the full history of one request or asset, oldest first
func (s *auditService) GetEntityTrail(ctx context.Context, entityID string) ([]AuditLogResponse, error) {
	logs, err := s.repo.ListByEntity(ctx, entityID)
	if err != nil {
		return nil, err
	}
	res := make([]AuditLogResponse, 0, len(logs))
	for i := range logs {
		res = append(res, mapAuditLog(&logs[i]))
	}
	return res, nil
}
