package service

import (
	"context"
	"time"

	"github.com/Asamaludi26/inventory-be/internal/model"
	"github.com/Asamaludi26/inventory-be/internal/repository"
	"github.com/Asamaludi26/inventory-be/internal/workflow"
)

type StatisticsService interface {
	GetDashboard(ctx context.Context, startDate, endDate time.Time) (model.DashboardStatistics, error)
}

type statisticsService struct {
	repo repository.StatisticsRepository
}

func NewStatisticsService(repo repository.StatisticsRepository) StatisticsService {
	return &statisticsService{repo: repo}
}

// GetDashboard aggregates request and asset counts for the dashboard widgets
func (s *statisticsService) GetDashboard(ctx context.Context, startDate, endDate time.Time) (model.DashboardStatistics, error) {
	stats := model.DashboardStatistics{
		TimeRangeStartDate: startDate,
		TimeRangeEndDate:   endDate,
	}

	byStatus, err := s.repo.CountRequestsByStatus(ctx, startDate, endDate)
	if err != nil {
		return stats, err
	}
	stats.RequestsByStatus = byStatus
	stats.PendingReviewCount = byStatus[workflow.StatusPending.String()] +
		byStatus[workflow.StatusLogisticApproved.String()]
	stats.AwaitingCEOCount = byStatus[workflow.StatusAwaitingCEOApproval.String()]
	stats.InFlightCount = byStatus[workflow.StatusPurchasing.String()] +
		byStatus[workflow.StatusInDelivery.String()] +
		byStatus[workflow.StatusArrived.String()]

	assetCounts, err := s.repo.CountAssetsByStatus(ctx)
	if err != nil {
		return stats, err
	}
	stats.AssetsByStatus = assetCounts

	monthly, err := s.repo.MonthlyRequestCounts(ctx, startDate, endDate)
	if err != nil {
		return stats, err
	}
	stats.MonthlyRequests = monthly

	return stats, nil
}
