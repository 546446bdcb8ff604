package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AssetStatus constants
const (
	AssetStatusInStorage = "IN_STORAGE"
	AssetStatusInUse     = "IN_USE"
	AssetStatusInRepair  = "IN_REPAIR"
	AssetStatusRetired   = "RETIRED"
)

// Asset is a physical inventory item. Assets minted from request
// registration carry the source request code; the staging flow creates one
// asset row per registered unit batch.
type Asset struct {
	ID            string         `gorm:"type:varchar(20);primaryKey" json:"id"` // AST-001, AST-002, ...
	Name          string         `gorm:"type:varchar(255);not null" json:"name"`
	TypeBrand     string         `gorm:"type:varchar(255)" json:"type_brand"`
	Category      string         `gorm:"type:varchar(100);index" json:"category"`
	Quantity      int            `gorm:"type:int;not null;default:1" json:"quantity"`
	Status        string         `gorm:"type:varchar(30);not null;default:'IN_STORAGE';index" json:"status"`
	RequestID     *string        `gorm:"type:varchar(20);index" json:"request_id"`
	RequestItemID *uuid.UUID     `gorm:"type:uuid;index" json:"request_item_id"`
	RegisteredBy  string         `gorm:"type:varchar(255)" json:"registered_by"`
	RegisteredAt  time.Time      `json:"registered_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}
