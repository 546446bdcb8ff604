package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateRequest        = "CREATE_REQUEST"
	ActionReviewRequest        = "REVIEW_REQUEST"
	ActionRejectRequest        = "REJECT_REQUEST"
	ActionSubmitForCEO         = "SUBMIT_FOR_CEO"
	ActionFinalApproveRequest  = "FINAL_APPROVE_REQUEST"
	ActionStartProcurement     = "START_PROCUREMENT"
	ActionConfirmShipment      = "CONFIRM_SHIPMENT"
	ActionConfirmArrival       = "CONFIRM_ARRIVAL"
	ActionRegisterItems        = "REGISTER_ITEMS"
	ActionCompleteRequest      = "COMPLETE_REQUEST"
	ActionCancelRequest        = "CANCEL_REQUEST"
	ActionFollowUpRequest      = "FOLLOW_UP_REQUEST"
	ActionPrioritizeRequest    = "PRIORITIZE_REQUEST"
	ActionRequestProgress      = "REQUEST_PROGRESS_UPDATE"
	ActionAcknowledgeProgress  = "ACKNOWLEDGE_PROGRESS_UPDATE"
	ActionRegisterAsset        = "REGISTER_ASSET"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated bot
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
