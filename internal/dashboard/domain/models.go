package domain

import "time"

// Overview is the headline card set for a scoped dashboard.
type Overview struct {
	Revenue          int64   `json:"revenue"`
	PaidCount        int     `json:"paid_count"`
	PendingCount     int     `json:"pending_count"`
	PendingAmount    int64   `json:"pending_amount"`
	GrowthPercent    float64 `json:"growth_percent"`
	TotalBusinesses  int     `json:"total_businesses"`
	ActiveBusinesses int     `json:"active_businesses"`
}

// OverviewResponse is the API response for the dashboard overview.
type OverviewResponse struct {
	Overview Overview `json:"overview"`
}

// TrendPoint is one month of the revenue trend chart.
type TrendPoint struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
	Count   int    `json:"count"`
}

// TrendResponse is the API response for the revenue trend.
type TrendResponse struct {
	Points []TrendPoint `json:"points"`
}

// CollectorRank is one row of the top-collectors ranking.
type CollectorRank struct {
	CollectorID string `json:"collector_id"`
	Revenue     int64  `json:"revenue"`
	Count       int    `json:"count"`
}

// CollectorRanksResponse is the API response for top collectors.
type CollectorRanksResponse struct {
	Collectors []CollectorRank `json:"collectors"`
}

// DistrictRank is one row of the top-districts ranking.
type DistrictRank struct {
	District string `json:"district"`
	Revenue  int64  `json:"revenue"`
	Count    int    `json:"count"`
}

// DistrictRanksResponse is the API response for top districts.
type DistrictRanksResponse struct {
	Districts []DistrictRank `json:"districts"`
}

// RevenueTypeShare is one revenue type's slice of collected revenue.
type RevenueTypeShare struct {
	RevenueType string  `json:"revenue_type"`
	Revenue     int64   `json:"revenue"`
	Percent     float64 `json:"percent"`
}

// DistributionResponse is the API response for the revenue type split.
type DistributionResponse struct {
	Shares []RevenueTypeShare `json:"shares"`
}

// DistrictRollup is one district's figures inside a regional overview.
type DistrictRollup struct {
	District      string `json:"district"`
	Region        string `json:"region"`
	Status        string `json:"status"`
	Revenue       int64  `json:"revenue"`
	PendingCount  int    `json:"pending_count"`
	PendingAmount int64  `json:"pending_amount"`
	Businesses    int    `json:"businesses"`
}

// RegionalOverviewResponse is the API response for per-district rollups.
type RegionalOverviewResponse struct {
	Region    string           `json:"region,omitempty"`
	Districts []DistrictRollup `json:"districts"`
}

// CollectorPerformance summarises one collector's field activity.
type CollectorPerformance struct {
	CollectorID        string     `json:"collector_id"`
	Name               string     `json:"name,omitempty"`
	District           string     `json:"district,omitempty"`
	TotalCollected     int64      `json:"total_collected"`
	CollectionsCount   int        `json:"collections_count"`
	BusinessesAssigned int        `json:"businesses_assigned"`
	MonthlyTarget      int64      `json:"monthly_target"`
	Efficiency         float64    `json:"efficiency"`
	GrowthPercent      float64    `json:"growth_percent"`
	LastActive         *time.Time `json:"last_active,omitempty"`
	Performance        string     `json:"performance"`
}

// CollectorPerformanceResponse is the API response for collector performance.
type CollectorPerformanceResponse struct {
	Collectors []CollectorPerformance `json:"collectors"`
}
