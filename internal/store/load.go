package store

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	assignmentdomain "github.com/localgov-gh/revhub/internal/assignment/domain"
	auditdomain "github.com/localgov-gh/revhub/internal/audit/domain"
	businessdomain "github.com/localgov-gh/revhub/internal/business/domain"
	collectiondomain "github.com/localgov-gh/revhub/internal/collection/domain"
	districtdomain "github.com/localgov-gh/revhub/internal/district/domain"
	revenuedomain "github.com/localgov-gh/revhub/internal/revenue/domain"
	userdomain "github.com/localgov-gh/revhub/internal/user/domain"
)

// BulkSource returns full collections from the remote store. Each call
// stands alone: one collection failing must not prevent the others.
type BulkSource interface {
	LoadBusinesses(ctx context.Context) ([]businessdomain.Business, error)
	LoadCollections(ctx context.Context) ([]collectiondomain.Collection, error)
	LoadAssignments(ctx context.Context) ([]assignmentdomain.Assignment, error)
	LoadRevenueTypes(ctx context.Context) ([]revenuedomain.RevenueType, error)
	LoadDistricts(ctx context.Context) ([]districtdomain.District, error)
	LoadUsers(ctx context.Context) ([]userdomain.SystemUser, error)
	LoadAuditLogs(ctx context.Context) ([]auditdomain.AuditLog, error)
}

// Load replaces every collection wholesale from the source. A failing
// collection degrades to empty and the joined error is retained on the
// store (LoadErr) and returned; partial success is allowed but always
// reported.
func (s *Store) Load(ctx context.Context, source BulkSource) error {
	var errs []error

	businesses, err := source.LoadBusinesses(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("businesses: %w", err))
		businesses = nil
	}
	collections, err := source.LoadCollections(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("collections: %w", err))
		collections = nil
	}
	assignments, err := source.LoadAssignments(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("assignments: %w", err))
		assignments = nil
	}
	revenueTypes, err := source.LoadRevenueTypes(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("revenue_types: %w", err))
		revenueTypes = nil
	}
	districts, err := source.LoadDistricts(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("districts: %w", err))
		districts = nil
	}
	users, err := source.LoadUsers(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("system_users: %w", err))
		users = nil
	}
	auditLogs, err := source.LoadAuditLogs(ctx)
	if err != nil {
		errs = append(errs, fmt.Errorf("audit_logs: %w", err))
		auditLogs = nil
	}

	loadErr := errors.Join(errs...)

	s.mu.Lock()
	s.businesses = businesses
	s.collections = collections
	s.assignments = assignments
	s.revenueTypes = revenueTypes
	s.districts = districts
	s.users = users
	s.auditLogs = auditLogs
	s.rebuildRegionsLocked()
	s.loadErr = loadErr
	s.bumpLocked()
	s.mu.Unlock()

	if loadErr != nil {
		s.metrics.IncLoadFailure()
		s.log.Error("bulk load degraded", zap.Error(loadErr))
	}
	return loadErr
}

// gormBulk loads collections through a gorm connection.
type gormBulk struct {
	db *gorm.DB
}

// NewGormBulkSource wraps a gorm connection as a BulkSource.
func NewGormBulkSource(db *gorm.DB) BulkSource {
	return &gormBulk{db: db}
}

func (g *gormBulk) LoadBusinesses(ctx context.Context) ([]businessdomain.Business, error) {
	var out []businessdomain.Business
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (g *gormBulk) LoadCollections(ctx context.Context) ([]collectiondomain.Collection, error) {
	var out []collectiondomain.Collection
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (g *gormBulk) LoadAssignments(ctx context.Context) ([]assignmentdomain.Assignment, error) {
	var out []assignmentdomain.Assignment
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (g *gormBulk) LoadRevenueTypes(ctx context.Context) ([]revenuedomain.RevenueType, error) {
	var out []revenuedomain.RevenueType
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (g *gormBulk) LoadDistricts(ctx context.Context) ([]districtdomain.District, error) {
	var out []districtdomain.District
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (g *gormBulk) LoadUsers(ctx context.Context) ([]userdomain.SystemUser, error) {
	var out []userdomain.SystemUser
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (g *gormBulk) LoadAuditLogs(ctx context.Context) ([]auditdomain.AuditLog, error) {
	var out []auditdomain.AuditLog
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}
