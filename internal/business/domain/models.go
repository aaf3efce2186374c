package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// BusinessStatus tracks the registration lifecycle of a business.
type BusinessStatus string

const (
	BusinessStatusActive    BusinessStatus = "active"
	BusinessStatusPending   BusinessStatus = "pending"
	BusinessStatusInactive  BusinessStatus = "inactive"
	BusinessStatusSuspended BusinessStatus = "suspended"
)

// Business is a rate-paying establishment registered under a district.
// BusinessCode is assigned at creation and immutable afterwards.
type Business struct {
	ID               snowflake.ID   `gorm:"primaryKey" json:"id"`
	BusinessCode     string         `gorm:"type:text;not null;uniqueIndex" json:"business_code"`
	Name             string         `gorm:"type:text;not null" json:"name"`
	OwnerName        string         `gorm:"type:text;not null;index" json:"owner_name"`
	Category         string         `gorm:"type:text" json:"category"`
	Phone            string         `gorm:"type:text" json:"phone"`
	Email            string         `gorm:"type:text" json:"email,omitempty"`
	GPSLocation      string         `gorm:"type:text" json:"gps_location,omitempty"`
	PhysicalAddress  string         `gorm:"type:text" json:"physical_address,omitempty"`
	Status           BusinessStatus `gorm:"type:text;not null;default:pending" json:"status"`
	RegistrationDate time.Time      `gorm:"not null" json:"registration_date"`
	LastPayment      *time.Time     `json:"last_payment,omitempty"`
	BusinessLicense  string         `gorm:"type:text" json:"business_license,omitempty"`
	TINNumber        string         `gorm:"type:text" json:"tin_number,omitempty"`
	District         string         `gorm:"type:text;not null;index" json:"district"`
}

// TableName sets the database table name.
func (Business) TableName() string { return "businesses" }

// ScopeDistrict implements jurisdiction.Scoped.
func (b Business) ScopeDistrict() string { return b.District }

// ScopeOwner implements jurisdiction.Scoped.
func (b Business) ScopeOwner() string { return b.OwnerName }

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidOwner    = errors.New("invalid_owner")
	ErrInvalidDistrict = errors.New("invalid_district")
	ErrNotFound        = errors.New("business_not_found")
)
