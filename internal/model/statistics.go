package model

import (
	"time"
)

// DashboardStatistics aggregates request pipeline and asset inventory counts
type DashboardStatistics struct {
	RequestsByStatus   map[string]int64 `json:"requests_by_status"`
	AssetsByStatus     map[string]int64 `json:"assets_by_status"`
	MonthlyRequests    []MonthlyCount   `json:"monthly_requests"`
	PendingReviewCount int64            `json:"pending_review_count"`
	AwaitingCEOCount   int64            `json:"awaiting_ceo_count"`
	InFlightCount      int64            `json:"in_flight_count"`
	TimeRangeStartDate time.Time        `json:"time_range_start_date"`
	TimeRangeEndDate   time.Time        `json:"time_range_end_date"`
}

// MonthlyCount is one bucket of the monthly request volume series
type MonthlyCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}
