package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Asamaludi26/inventory-be/internal/model"
	"github.com/Asamaludi26/inventory-be/internal/repository"
	"github.com/Asamaludi26/inventory-be/internal/workflow"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// NotificationDispatcher is the fan-out port used by the request workflow.
// Dispatch is append-only and deliberately not idempotent: repeated calls
// with identical arguments create duplicate notifications.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, recipientIDs []uuid.UUID, actorName, notifType, referenceID, message string) error
	NotifyRole(ctx context.Context, role workflow.Role, actorName, notifType, referenceID, message string) error
}

type NotificationListResult struct {
	Notifications []model.Notification `json:"notifications"`
	Total         int64                `json:"total"`
	Unread        int64                `json:"unread"`
}

type NotificationService interface {
	NotificationDispatcher
	List(ctx context.Context, recipientID uuid.UUID, page, limit int) (*NotificationListResult, error)
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}

// pusher is the subset of the websocket hub the dispatcher needs
type pusher interface {
	SendToUsers(userIDs []string, payload []byte)
}

type notificationService struct {
	repo     repository.NotificationRepository
	userRepo repository.UserRepository
	hub      pusher
	log      *zap.Logger
	now      func() time.Time
}

func NewNotificationService(
	repo repository.NotificationRepository,
	userRepo repository.UserRepository,
	hub pusher,
	log *zap.Logger,
) NotificationService {
	return &notificationService{
		repo:     repo,
		userRepo: userRepo,
		hub:      hub,
		log:      log,
		now:      time.Now,
	}
}

func (s *notificationService) Dispatch(ctx context.Context, recipientIDs []uuid.UUID, actorName, notifType, referenceID, message string) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	now := s.now()
	notifications := make([]model.Notification, 0, len(recipientIDs))
	for _, recipientID := range recipientIDs {
		notifications = append(notifications, model.Notification{
			RecipientID: recipientID,
			ActorName:   actorName,
			Type:        notifType,
			ReferenceID: referenceID,
			Message:     message,
			IsRead:      false,
			CreatedAt:   now,
		})
	}

	if err := s.repo.CreateBatch(ctx, notifications); err != nil {
		return err
	}

	s.push(recipientIDs, notifications)
	return nil
}

func (s *notificationService) NotifyRole(ctx context.Context, role workflow.Role, actorName, notifType, referenceID, message string) error {
	users, err := s.userRepo.ListByRole(ctx, role.String())
	if err != nil {
		return err
	}

	recipientIDs := make([]uuid.UUID, 0, len(users))
	for _, u := range users {
		recipientIDs = append(recipientIDs, u.ID)
	}

	return s.Dispatch(ctx, recipientIDs, actorName, notifType, referenceID, message)
}

// push delivers a live copy over the websocket hub. The durable copy is
// already committed; offline recipients simply miss the live push.
func (s *notificationService) push(recipientIDs []uuid.UUID, notifications []model.Notification) {
	if s.hub == nil || len(notifications) == 0 {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"event": "notification",
		"data":  notifications[0],
	})
	if err != nil {
		s.log.Warn("failed to marshal notification payload", zap.Error(err))
		return
	}

	userIDs := make([]string, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		userIDs = append(userIDs, id.String())
	}
	s.hub.SendToUsers(userIDs, payload)
}

func (s *notificationService) List(ctx context.Context, recipientID uuid.UUID, page, limit int) (*NotificationListResult, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}

	notifications, total, err := s.repo.ListByRecipient(ctx, recipientID, page, limit)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.CountUnread(ctx, recipientID)
	if err != nil {
		return nil, err
	}

	return &NotificationListResult{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, recipientID)
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return s.repo.MarkAllRead(ctx, recipientID)
}
