package domain

import (
	"errors"

	"github.com/bwmarrin/snowflake"
)

// Frequency is how often a revenue type recurs.
type Frequency string

const (
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
	FrequencyMonthly   Frequency = "monthly"
	FrequencyQuarterly Frequency = "quarterly"
	FrequencyYearly    Frequency = "yearly"
	FrequencyOneTime   Frequency = "one-time"
)

// RevenueType is a global catalog entry for a levy, permit, or fee.
// It has no owning district.
type RevenueType struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id"`
	Code          string       `gorm:"type:text;not null;uniqueIndex" json:"code"`
	Name          string       `gorm:"type:text;not null" json:"name"`
	DefaultAmount int64        `gorm:"not null" json:"default_amount"`
	Frequency     Frequency    `gorm:"type:text;not null" json:"frequency"`
	Description   string       `gorm:"type:text" json:"description,omitempty"`
	Category      string       `gorm:"type:text" json:"category,omitempty"`
	IsActive      bool         `gorm:"not null;default:true" json:"is_active"`
}

// TableName sets the database table name.
func (RevenueType) TableName() string { return "revenue_types" }

var (
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidAmount = errors.New("invalid_amount")
	ErrNotFound      = errors.New("revenue_type_not_found")
)
