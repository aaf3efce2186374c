package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/localgov-gh/revhub/internal/analytics"
	businessdomain "github.com/localgov-gh/revhub/internal/business/domain"
	"github.com/localgov-gh/revhub/internal/cache"
	"github.com/localgov-gh/revhub/internal/clock"
	collectiondomain "github.com/localgov-gh/revhub/internal/collection/domain"
	dashboarddomain "github.com/localgov-gh/revhub/internal/dashboard/domain"
	districtdomain "github.com/localgov-gh/revhub/internal/district/domain"
	"github.com/localgov-gh/revhub/internal/jurisdiction"
	"github.com/localgov-gh/revhub/internal/principal"
	"github.com/localgov-gh/revhub/internal/store"
)

const (
	cacheTTL = 30 * time.Second

	// Default field target per collector per month, in pesewas.
	defaultMonthlyTarget = 200000
)

type Service struct {
	store *store.Store
	clock clock.Clock
	log   *zap.Logger

	cache *cache.TTLCache[string, any]
}

type ServiceParam struct {
	fx.In

	Store *store.Store
	Clock clock.Clock
	Log   *zap.Logger
}

func NewService(p ServiceParam) dashboarddomain.Service {
	return &Service{
		store: p.Store,
		clock: p.Clock,
		log:   p.Log.Named("dashboard.service"),
		cache: cache.NewTTLCache[string, any](),
	}
}

// cacheKey folds the principal's scope and the store revision into the
// key, so any local mutation invalidates every cached figure at once.
func (s *Service) cacheKey(p principal.Principal, suffix string) string {
	return fmt.Sprintf("%d|%s|%s|%s|%s|%s",
		s.store.Revision(), p.Role, p.Region, p.District, p.Name, suffix)
}

func (s *Service) scoped(p principal.Principal) ([]collectiondomain.Collection, *jurisdiction.Resolver, error) {
	resolver := s.store.Resolver()
	if err := resolver.Require(p); err != nil {
		return nil, nil, err
	}
	return jurisdiction.Filter(resolver, p, s.store.Collections()), resolver, nil
}

func (s *Service) Overview(ctx context.Context, p principal.Principal) (dashboarddomain.OverviewResponse, error) {
	key := s.cacheKey(p, "overview")
	if hit, ok := s.cache.Get(key); ok {
		return hit.(dashboarddomain.OverviewResponse), nil
	}

	cols, resolver, err := s.scoped(p)
	if err != nil {
		return dashboarddomain.OverviewResponse{}, err
	}

	totals := analytics.Totals(cols, s.log)
	trend := analytics.MonthlyTrend(cols, 2, s.clock.Now(), s.log)
	var growth float64
	if len(trend) == 2 {
		growth = analytics.Growth(trend[1].Revenue, trend[0].Revenue) * 100
	}

	businesses := jurisdiction.Filter(resolver, p, s.store.Businesses())
	active := 0
	for _, b := range businesses {
		if b.Status == businessdomain.BusinessStatusActive {
			active++
		}
	}

	resp := dashboarddomain.OverviewResponse{Overview: dashboarddomain.Overview{
		Revenue:          totals.Revenue,
		PaidCount:        totals.PaidCount,
		PendingCount:     totals.PendingCount,
		PendingAmount:    totals.PendingAmount,
		GrowthPercent:    growth,
		TotalBusinesses:  len(businesses),
		ActiveBusinesses: active,
	}}
	s.cache.Set(key, resp, cacheTTL)
	return resp, nil
}

func (s *Service) RevenueTrend(ctx context.Context, p principal.Principal, months int) (dashboarddomain.TrendResponse, error) {
	if months <= 0 || months > 36 {
		return dashboarddomain.TrendResponse{}, dashboarddomain.ErrInvalidMonths
	}

	key := s.cacheKey(p, fmt.Sprintf("trend:%d", months))
	if hit, ok := s.cache.Get(key); ok {
		return hit.(dashboarddomain.TrendResponse), nil
	}

	cols, _, err := s.scoped(p)
	if err != nil {
		return dashboarddomain.TrendResponse{}, err
	}

	buckets := analytics.MonthlyTrend(cols, months, s.clock.Now(), s.log)
	points := make([]dashboarddomain.TrendPoint, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, dashboarddomain.TrendPoint{Month: b.Month, Revenue: b.Revenue, Count: b.Count})
	}

	resp := dashboarddomain.TrendResponse{Points: points}
	s.cache.Set(key, resp, cacheTTL)
	return resp, nil
}

func (s *Service) TopCollectors(ctx context.Context, p principal.Principal, limit int) (dashboarddomain.CollectorRanksResponse, error) {
	if limit <= 0 || limit > 100 {
		return dashboarddomain.CollectorRanksResponse{}, dashboarddomain.ErrInvalidLimit
	}

	key := s.cacheKey(p, fmt.Sprintf("top-collectors:%d", limit))
	if hit, ok := s.cache.Get(key); ok {
		return hit.(dashboarddomain.CollectorRanksResponse), nil
	}

	cols, _, err := s.scoped(p)
	if err != nil {
		return dashboarddomain.CollectorRanksResponse{}, err
	}

	ranked := analytics.TopN(cols, func(c collectiondomain.Collection) string {
		return c.CollectorID
	}, limit, s.log)
	rows := make([]dashboarddomain.CollectorRank, 0, len(ranked))
	for _, g := range ranked {
		rows = append(rows, dashboarddomain.CollectorRank{CollectorID: g.Key, Revenue: g.Revenue, Count: g.Count})
	}

	resp := dashboarddomain.CollectorRanksResponse{Collectors: rows}
	s.cache.Set(key, resp, cacheTTL)
	return resp, nil
}

func (s *Service) TopDistricts(ctx context.Context, p principal.Principal, limit int) (dashboarddomain.DistrictRanksResponse, error) {
	if limit <= 0 || limit > 100 {
		return dashboarddomain.DistrictRanksResponse{}, dashboarddomain.ErrInvalidLimit
	}
	if !crossDistrict(p.Role) {
		return dashboarddomain.DistrictRanksResponse{}, jurisdiction.ErrScopeDenied
	}

	key := s.cacheKey(p, fmt.Sprintf("top-districts:%d", limit))
	if hit, ok := s.cache.Get(key); ok {
		return hit.(dashboarddomain.DistrictRanksResponse), nil
	}

	cols, _, err := s.scoped(p)
	if err != nil {
		return dashboarddomain.DistrictRanksResponse{}, err
	}

	ranked := analytics.TopN(cols, func(c collectiondomain.Collection) string {
		return c.District
	}, limit, s.log)
	rows := make([]dashboarddomain.DistrictRank, 0, len(ranked))
	for _, g := range ranked {
		rows = append(rows, dashboarddomain.DistrictRank{District: g.Key, Revenue: g.Revenue, Count: g.Count})
	}

	resp := dashboarddomain.DistrictRanksResponse{Districts: rows}
	s.cache.Set(key, resp, cacheTTL)
	return resp, nil
}

func (s *Service) RevenueTypeDistribution(ctx context.Context, p principal.Principal) (dashboarddomain.DistributionResponse, error) {
	key := s.cacheKey(p, "distribution")
	if hit, ok := s.cache.Get(key); ok {
		return hit.(dashboarddomain.DistributionResponse), nil
	}

	cols, _, err := s.scoped(p)
	if err != nil {
		return dashboarddomain.DistributionResponse{}, err
	}

	names := make(map[string]string)
	for _, rt := range s.store.RevenueTypes() {
		names[rt.ID.String()] = rt.Name
	}
	shares := analytics.Distribution(cols, func(c collectiondomain.Collection) string {
		if name, ok := names[c.RevenueTypeID.String()]; ok {
			return name
		}
		return c.RevenueTypeID.String()
	}, s.log)
	rows := make([]dashboarddomain.RevenueTypeShare, 0, len(shares))
	for _, share := range shares {
		rows = append(rows, dashboarddomain.RevenueTypeShare{RevenueType: share.Key, Revenue: share.Revenue, Percent: share.Percent})
	}

	resp := dashboarddomain.DistributionResponse{Shares: rows}
	s.cache.Set(key, resp, cacheTTL)
	return resp, nil
}

func (s *Service) RegionalOverview(ctx context.Context, p principal.Principal) (dashboarddomain.RegionalOverviewResponse, error) {
	if !crossDistrict(p.Role) {
		return dashboarddomain.RegionalOverviewResponse{}, jurisdiction.ErrScopeDenied
	}

	key := s.cacheKey(p, "regional")
	if hit, ok := s.cache.Get(key); ok {
		return hit.(dashboarddomain.RegionalOverviewResponse), nil
	}

	cols, resolver, err := s.scoped(p)
	if err != nil {
		return dashboarddomain.RegionalOverviewResponse{}, err
	}

	byDistrict := make(map[string]analytics.Summary)
	for _, c := range cols {
		sum := byDistrict[c.District]
		if c.Amount >= 0 {
			switch c.Status {
			case collectiondomain.CollectionStatusPaid:
				sum.Revenue += c.Amount
				sum.PaidCount++
			case collectiondomain.CollectionStatusPending:
				sum.PendingCount++
				sum.PendingAmount += c.Amount
			}
		}
		byDistrict[c.District] = sum
	}

	businesses := jurisdiction.Filter(resolver, p, s.store.Businesses())
	businessCounts := make(map[string]int)
	for _, b := range businesses {
		businessCounts[b.District]++
	}

	districts := s.districtsInScope(p)
	rows := make([]dashboarddomain.DistrictRollup, 0, len(districts))
	for _, d := range districts {
		sum := byDistrict[d.Name]
		rows = append(rows, dashboarddomain.DistrictRollup{
			District:      d.Name,
			Region:        d.Region,
			Status:        string(d.Status),
			Revenue:       sum.Revenue,
			PendingCount:  sum.PendingCount,
			PendingAmount: sum.PendingAmount,
			Businesses:    businessCounts[d.Name],
		})
	}

	resp := dashboarddomain.RegionalOverviewResponse{Districts: rows}
	if p.Role == principal.RoleRegionalAdmin {
		resp.Region = p.Region
	}
	s.cache.Set(key, resp, cacheTTL)
	return resp, nil
}

func (s *Service) CollectorPerformance(ctx context.Context, p principal.Principal) (dashboarddomain.CollectorPerformanceResponse, error) {
	key := s.cacheKey(p, "collector-performance")
	if hit, ok := s.cache.Get(key); ok {
		return hit.(dashboarddomain.CollectorPerformanceResponse), nil
	}

	cols, resolver, err := s.scoped(p)
	if err != nil {
		return dashboarddomain.CollectorPerformanceResponse{}, err
	}

	now := s.clock.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevStart := monthStart.AddDate(0, -1, 0)

	type tally struct {
		total      int64
		count      int
		thisMonth  int64
		prevMonth  int64
		lastActive time.Time
	}
	order := make([]string, 0)
	tallies := make(map[string]*tally)
	for _, c := range cols {
		if c.Status != collectiondomain.CollectionStatusPaid || c.Amount < 0 {
			continue
		}
		t, ok := tallies[c.CollectorID]
		if !ok {
			t = &tally{}
			tallies[c.CollectorID] = t
			order = append(order, c.CollectorID)
		}
		t.total += c.Amount
		t.count++
		switch {
		case !c.Date.Before(monthStart):
			t.thisMonth += c.Amount
		case !c.Date.Before(prevStart):
			t.prevMonth += c.Amount
		}
		if c.Date.After(t.lastActive) {
			t.lastActive = c.Date
		}
	}

	assigned := make(map[string]int)
	for _, a := range jurisdiction.Filter(resolver, p, s.store.Assignments()) {
		if a.IsActive {
			assigned[a.CollectorID]++
		}
	}

	users := make(map[string]struct{ name, district string })
	for _, u := range s.store.Users() {
		users[u.ID.String()] = struct{ name, district string }{u.Name, u.District}
	}

	rows := make([]dashboarddomain.CollectorPerformance, 0, len(order))
	for _, id := range order {
		t := tallies[id]
		efficiency := float64(t.thisMonth) / float64(defaultMonthlyTarget) * 100
		row := dashboarddomain.CollectorPerformance{
			CollectorID:        id,
			TotalCollected:     t.total,
			CollectionsCount:   t.count,
			BusinessesAssigned: assigned[id],
			MonthlyTarget:      defaultMonthlyTarget,
			Efficiency:         efficiency,
			GrowthPercent:      analytics.Growth(t.thisMonth, t.prevMonth) * 100,
			Performance:        grade(efficiency),
		}
		if u, ok := users[id]; ok {
			row.Name = u.name
			row.District = u.district
		}
		if !t.lastActive.IsZero() {
			last := t.lastActive
			row.LastActive = &last
		}
		rows = append(rows, row)
	}

	resp := dashboarddomain.CollectorPerformanceResponse{Collectors: rows}
	s.cache.Set(key, resp, cacheTTL)
	return resp, nil
}

// crossDistrict reports whether a role may see figures spanning more
// than one district.
func crossDistrict(r principal.Role) bool {
	return r.NationalScope() || r == principal.RoleRegionalAdmin
}

func grade(efficiency float64) string {
	switch {
	case efficiency >= 90:
		return "excellent"
	case efficiency >= 70:
		return "good"
	case efficiency >= 50:
		return "average"
	default:
		return "poor"
	}
}

// districtsInScope lists the districts a cross-district principal may
// roll up: all of them for national roles, the home region's for a
// regional admin.
func (s *Service) districtsInScope(p principal.Principal) []districtdomain.District {
	districts := s.store.Districts()
	if p.Role.NationalScope() {
		return districts
	}
	scoped := make([]districtdomain.District, 0, len(districts))
	for _, d := range districts {
		if d.Region == p.Region {
			scoped = append(scoped, d)
		}
	}
	return scoped
}
