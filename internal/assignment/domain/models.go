package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Assignment ties a collector to a business or zone within a district.
// A collector may hold any number of concurrent assignments.
type Assignment struct {
	ID             snowflake.ID `gorm:"primaryKey" json:"id"`
	AssignmentCode string       `gorm:"type:text;not null;uniqueIndex" json:"assignment_code"`
	CollectorID    string       `gorm:"type:text;not null;index" json:"collector_id"`
	BusinessID     snowflake.ID `gorm:"index" json:"business_id,omitempty"`
	Zone           string       `gorm:"type:text" json:"zone,omitempty"`
	StartDate      time.Time    `gorm:"not null" json:"start_date"`
	EndDate        *time.Time   `json:"end_date,omitempty"`
	IsActive       bool         `gorm:"not null;default:true" json:"is_active"`
	AssignedBy     string       `gorm:"type:text" json:"assigned_by,omitempty"`
	District       string       `gorm:"type:text;not null;index" json:"district"`
}

// TableName sets the database table name.
func (Assignment) TableName() string { return "assignments" }

// ScopeDistrict implements jurisdiction.Scoped.
func (a Assignment) ScopeDistrict() string { return a.District }

// ScopeOwner implements jurisdiction.Scoped.
func (a Assignment) ScopeOwner() string { return "" }

var (
	ErrInvalidCollector = errors.New("invalid_collector")
	ErrInvalidDistrict  = errors.New("invalid_district")
	ErrNotFound         = errors.New("assignment_not_found")
)
