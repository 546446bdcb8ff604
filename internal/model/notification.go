package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification type constants
const (
	NotifNewRequest            = "NEW_REQUEST"
	NotifRequestLogisticOK     = "REQUEST_LOGISTIC_APPROVED"
	NotifRequestAwaitingCEO    = "REQUEST_AWAITING_CEO"
	NotifRequestApproved       = "REQUEST_APPROVED"
	NotifRequestRejected       = "REQUEST_REJECTED"
	NotifRequestCancelled      = "REQUEST_CANCELLED"
	NotifRequestArrived        = "REQUEST_ARRIVED"
	NotifRequestCompleted      = "REQUEST_COMPLETED"
	NotifFollowUp              = "FOLLOW_UP"
	NotifCEODisposition        = "CEO_DISPOSITION"
	NotifProgressUpdateRequest = "PROGRESS_UPDATE_REQUEST"
	NotifProgressUpdateAck     = "PROGRESS_UPDATE_ACK"
)

// Notification is an append-only record addressed to a single recipient.
// Only IsRead is ever mutated after creation; duplicate dispatches produce
// duplicate rows on purpose.
type Notification struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index" json:"recipient_id"`
	ActorName   string    `gorm:"type:varchar(255);not null" json:"actor_name"`
	Type        string    `gorm:"type:varchar(50);not null;index" json:"type"`
	ReferenceID string    `gorm:"type:varchar(50);not null;index" json:"reference_id"`
	Message     string    `gorm:"type:text" json:"message,omitempty"`
	IsRead      bool      `gorm:"not null;default:false;index" json:"is_read"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}
