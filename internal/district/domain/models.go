package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// DistrictStatus is the administrative status of an assembly.
// Status transitions are independent of the entities registered under it;
// suspending a district does not cascade to its businesses or collections.
type DistrictStatus string

const (
	DistrictStatusActive    DistrictStatus = "active"
	DistrictStatusInactive  DistrictStatus = "inactive"
	DistrictStatusSuspended DistrictStatus = "suspended"
)

// District is a Metropolitan/Municipal/District Assembly (MMDA).
// Each district belongs to exactly one region.
type District struct {
	ID              snowflake.ID   `gorm:"primaryKey" json:"id"`
	Name            string         `gorm:"type:text;not null;uniqueIndex" json:"name"`
	Code            string         `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Region          string         `gorm:"type:text;not null;index" json:"region"`
	Status          DistrictStatus `gorm:"type:text;not null;default:active" json:"status"`
	AdminName       string         `gorm:"type:text" json:"admin_name,omitempty"`
	AdminEmail      string         `gorm:"type:text" json:"admin_email,omitempty"`
	Phone           string         `gorm:"type:text" json:"phone,omitempty"`
	TotalRevenue    int64          `gorm:"not null;default:0" json:"total_revenue"`
	TotalBusinesses int64          `gorm:"not null;default:0" json:"total_businesses"`
	TotalUsers      int64          `gorm:"not null;default:0" json:"total_users"`
	LastActivity    *time.Time     `json:"last_activity,omitempty"`
	CreatedDate     time.Time      `gorm:"not null" json:"created_date"`
}

// TableName sets the database table name.
func (District) TableName() string { return "districts" }

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidRegion = errors.New("invalid_region")
	ErrNotFound      = errors.New("district_not_found")
)
