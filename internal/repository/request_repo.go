package repository

import (
	"context"
	"fmt"

	"github.com/Asamaludi26/inventory-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RequestRepository interface {
	Create(ctx context.Context, req *model.Request) error
	FindByID(ctx context.Context, id string) (*model.Request, error)
	FindByIDWithRelations(ctx context.Context, id string) (*model.Request, error)
	List(ctx context.Context, status string, page, limit int) ([]model.Request, int64, error)
	Update(ctx context.Context, req *model.Request) error
	UpdateItem(ctx context.Context, item *model.RequestItem) error
	FindItem(ctx context.Context, requestID string, itemID uuid.UUID) (*model.RequestItem, error)
	NextCode(ctx context.Context) (string, error)
}

type requestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) RequestRepository {
	return &requestRepository{db: db}
}

func (r *requestRepository) Create(ctx context.Context, req *model.Request) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *requestRepository) FindByID(ctx context.Context, id string) (*model.Request, error) {
	var req model.Request
	if err := GetDB(ctx, r.db).Preload("Items").First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) FindByIDWithRelations(ctx context.Context, id string) (*model.Request, error) {
	var req model.Request
	if err := GetDB(ctx, r.db).
		Preload("Items").
		Preload("Requester").
		Preload("LogisticApprover").
		Preload("FinalApprover").
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requestRepository) List(ctx context.Context, status string, page, limit int) ([]model.Request, int64, error) {
	var requests []model.Request
	var total int64

	db := GetDB(ctx, r.db)
	query := db.Model(&model.Request{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	fetchQuery := db.Preload("Items").Preload("Requester")
	if status != "" {
		fetchQuery = fetchQuery.Where("status = ?", status)
	}
	if err := fetchQuery.Order("created_at DESC").Offset(offset).Limit(limit).Find(&requests).Error; err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

func (r *requestRepository) Update(ctx context.Context, req *model.Request) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *requestRepository) UpdateItem(ctx context.Context, item *model.RequestItem) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *requestRepository) FindItem(ctx context.Context, requestID string, itemID uuid.UUID) (*model.RequestItem, error) {
	var item model.RequestItem
	if err := GetDB(ctx, r.db).First(&item, "id = ? AND request_id = ?", itemID, requestID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// NextCode mints the next sequential REQ-### code. An advisory lock prevents
// concurrent transactions from producing duplicate codes.
func (r *requestRepository) NextCode(ctx context.Context) (string, error) {
	db := GetDB(ctx, r.db)
	db.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "requests_code_seq")

	var count int64
	if err := db.Model(&model.Request{}).Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("REQ-%03d", count+1), nil
}
