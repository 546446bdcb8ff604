package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Asamaludi26/inventory-be/internal/model"

	"gorm.io/gorm"
)

type StatisticsRepository interface {
	CountRequestsByStatus(ctx context.Context, start, end time.Time) (map[string]int64, error)
	CountAssetsByStatus(ctx context.Context) (map[string]int64, error)
	MonthlyRequestCounts(ctx context.Context, start, end time.Time) ([]model.MonthlyCount, error)
}

type statisticsRepository struct {
	db *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) StatisticsRepository {
	return &statisticsRepository{db: db}
}

type statusCount struct {
	Status string
	Count  int64
}

func (r *statisticsRepository) CountRequestsByStatus(ctx context.Context, start, end time.Time) (map[string]int64, error) {
	var rows []statusCount
	if err := r.db.WithContext(ctx).Model(&model.Request{}).
		Select("status, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count requests by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *statisticsRepository) CountAssetsByStatus(ctx context.Context) (map[string]int64, error) {
	var rows []statusCount
	if err := r.db.WithContext(ctx).Model(&model.Asset{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count assets by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *statisticsRepository) MonthlyRequestCounts(ctx context.Context, start, end time.Time) ([]model.MonthlyCount, error) {
	var rows []model.MonthlyCount
	if err := r.db.WithContext(ctx).Model(&model.Request{}).
		Select("to_char(created_at, 'YYYY-MM') as month, COUNT(*) as count").
		Where("created_at >= ? AND created_at <= ?", start, end).
		Group("month").
		Order("month ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count monthly requests: %w", err)
	}
	return rows, nil
}
