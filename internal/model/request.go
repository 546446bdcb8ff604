package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderType enum constants
const (
	OrderTypeRegularStock = "Regular Stock"
	OrderTypeUrgent       = "Urgent"
	OrderTypeProjectBased = "Project Based"
)

// Request is a purchase/asset requisition moving through the approval chain.
// The ID is a human-readable sequential code (REQ-001, REQ-002, ...).
type Request struct {
	ID          string     `gorm:"type:varchar(20);primaryKey" json:"id"`
	RequesterID *uuid.UUID `gorm:"type:uuid;index" json:"requester_id"`
	Requester   *User      `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	Division    string     `gorm:"type:varchar(100);not null" json:"division"`

	// Order variant: justification required iff Urgent, project iff Project Based
	OrderType     string `gorm:"type:varchar(30);not null" json:"order_type"`
	Justification string `gorm:"type:text" json:"justification,omitempty"`
	Project       string `gorm:"type:varchar(255)" json:"project,omitempty"`

	Status string `gorm:"type:varchar(30);not null;default:'PENDING';index" json:"status"`

	Items []RequestItem `gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE" json:"items"`

	// Approval trail
	LogisticApproverID *uuid.UUID `gorm:"type:uuid" json:"logistic_approver_id"`
	LogisticApprover   *User      `gorm:"foreignKey:LogisticApproverID" json:"logistic_approver,omitempty"`
	LogisticApprovedAt *time.Time `json:"logistic_approved_at"`
	FinalApproverID    *uuid.UUID `gorm:"type:uuid" json:"final_approver_id"`
	FinalApprover      *User      `gorm:"foreignKey:FinalApproverID" json:"final_approver,omitempty"`
	FinalApprovedAt    *time.Time `json:"final_approved_at"`

	// Procurement and delivery trail
	EstimatedDeliveryDate *time.Time `json:"estimated_delivery_date"`
	ActualShipmentDate    *time.Time `json:"actual_shipment_date"`
	ArrivalDate           *time.Time `json:"arrival_date"`
	ReceivedBy            string     `gorm:"type:varchar(255)" json:"received_by,omitempty"`

	// Rejection trail
	RejectionReason    string     `gorm:"type:text" json:"rejection_reason,omitempty"`
	RejectedBy         string     `gorm:"type:varchar(255)" json:"rejected_by,omitempty"`
	RejectionDate      *time.Time `json:"rejection_date"`
	RejectedByDivision string     `gorm:"type:varchar(100)" json:"rejected_by_division,omitempty"`

	// Registration bookkeeping; true only once every item reached its target
	IsRegistered bool `gorm:"not null;default:false" json:"is_registered"`

	// Follow-up cooldown bookkeeping
	LastFollowUpAt  *time.Time `json:"last_follow_up_at"`
	CEOFollowUpSent bool       `gorm:"not null;default:false" json:"ceo_follow_up_sent"`

	// CEO disposition
	IsPrioritizedByCEO         bool       `gorm:"not null;default:false" json:"is_prioritized_by_ceo"`
	CEODispositionDate         *time.Time `json:"ceo_disposition_date"`
	CEODispositionFeedbackSent bool       `gorm:"not null;default:false" json:"ceo_disposition_feedback_sent"`

	ProgressUpdate ProgressUpdateRequest `gorm:"embedded;embeddedPrefix:progress_" json:"progress_update"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RequestItem is one line of a request. Review outcomes and cumulative
// registration counts live on the line itself: a nil ApprovedQuantity means
// the reviewer never reduced the item (implicit full approval).
type RequestItem struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	RequestID     string    `gorm:"type:varchar(20);not null;index" json:"request_id"`
	ItemName      string    `gorm:"type:varchar(255);not null" json:"item_name"`
	ItemTypeBrand string    `gorm:"type:varchar(255)" json:"item_type_brand"`
	Quantity      int       `gorm:"type:int;not null" json:"quantity"`
	Keterangan    string    `gorm:"type:text" json:"keterangan,omitempty"`
	StockSnapshot int       `gorm:"type:int;not null;default:0" json:"stock_snapshot"`

	// Review outcome ("rejected" label covers partial approvals too)
	ItemStatus       string `gorm:"type:varchar(20)" json:"item_status,omitempty"`
	ApprovedQuantity *int   `gorm:"type:int" json:"approved_quantity"`
	ReviewReason     string `gorm:"type:text" json:"review_reason,omitempty"`

	// Purchase details attached when the request is submitted for CEO approval
	Vendor    string          `gorm:"type:varchar(255)" json:"vendor,omitempty"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"unit_price"`

	// Cumulative registered count, never above the item's target quantity
	RegisteredCount int `gorm:"type:int;not null;default:0" json:"registered_count"`
}

// ProgressUpdateRequest tracks a staff nudge for a procurement progress
// report and the approver's acknowledgement of it.
type ProgressUpdateRequest struct {
	RequestedBy      string     `gorm:"type:varchar(255)" json:"requested_by,omitempty"`
	RequestDate      *time.Time `json:"request_date"`
	IsAcknowledged   bool       `gorm:"not null;default:false" json:"is_acknowledged"`
	AcknowledgedBy   string     `gorm:"type:varchar(255)" json:"acknowledged_by,omitempty"`
	AcknowledgedDate *time.Time `json:"acknowledged_date"`
	FeedbackSent     bool       `gorm:"not null;default:false" json:"feedback_sent"`
}
