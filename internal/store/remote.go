package store

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// Table names understood by the remote store.
const (
	TableBusinesses   = "businesses"
	TableCollections  = "collections"
	TableAssignments  = "assignments"
	TableRevenueTypes = "revenue_types"
	TableDistricts    = "districts"
	TableSystemUsers  = "system_users"
	TableAuditLogs    = "audit_logs"
)

var (
	// ErrPersistenceFailure wraps any remote insert/update failure; the
	// local optimistic effect is rolled back before it is surfaced.
	ErrPersistenceFailure = errors.New("persistence_failure")
)

// Remote is the persistence boundary of the sync layer. Any tabular or
// key-value backend satisfying these two calls suffices.
type Remote interface {
	Insert(ctx context.Context, table string, record any) error
	Update(ctx context.Context, table string, id snowflake.ID, patch map[string]any) error
}

// gormRemote persists through a gorm connection.
type gormRemote struct {
	db *gorm.DB
}

// NewGormRemote wraps a gorm connection as a Remote.
func NewGormRemote(db *gorm.DB) Remote {
	return &gormRemote{db: db}
}

func (r *gormRemote) Insert(ctx context.Context, table string, record any) error {
	if r.db == nil {
		return ErrPersistenceFailure
	}
	return r.db.WithContext(ctx).Table(table).Create(record).Error
}

func (r *gormRemote) Update(ctx context.Context, table string, id snowflake.ID, patch map[string]any) error {
	if r.db == nil {
		return ErrPersistenceFailure
	}
	if len(patch) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Table(table).Where("id = ?", id).Updates(patch)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
