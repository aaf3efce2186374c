package domain

import (
	"context"
	"errors"

	"github.com/localgov-gh/revhub/internal/principal"
)

// Service exposes scoped dashboard data.
type Service interface {
	Overview(ctx context.Context, p principal.Principal) (OverviewResponse, error)
	RevenueTrend(ctx context.Context, p principal.Principal, months int) (TrendResponse, error)
	TopCollectors(ctx context.Context, p principal.Principal, limit int) (CollectorRanksResponse, error)
	TopDistricts(ctx context.Context, p principal.Principal, limit int) (DistrictRanksResponse, error)
	RevenueTypeDistribution(ctx context.Context, p principal.Principal) (DistributionResponse, error)
	RegionalOverview(ctx context.Context, p principal.Principal) (RegionalOverviewResponse, error)
	CollectorPerformance(ctx context.Context, p principal.Principal) (CollectorPerformanceResponse, error)
}

var (
	ErrInvalidMonths = errors.New("invalid_months")
	ErrInvalidLimit  = errors.New("invalid_limit")
)
