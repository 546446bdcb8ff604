package service

import (
	"context"

	"github.com/Asamaludi26/inventory-be/internal/model"
	"github.com/Asamaludi26/inventory-be/internal/repository"
)

type AssetFilter struct {
	Status   string
	Category string
	Page     int
	Limit    int
}

// AssetService exposes the read side of the asset register. Assets are
// minted by the request workflow when arrived items are registered.
type AssetService interface {
	Get(ctx context.Context, id string) (*model.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]model.Asset, int64, error)
}

type assetService struct {
	repo repository.AssetRepository
}

func NewAssetService(repo repository.AssetRepository) AssetService {
	return &assetService{repo: repo}
}

func (s *assetService) Get(ctx context.Context, id string) (*model.Asset, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *assetService) List(ctx context.Context, filter AssetFilter) ([]model.Asset, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter.Status, filter.Category, filter.Page, filter.Limit)
}
