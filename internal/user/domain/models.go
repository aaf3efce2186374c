package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// UserStatus is the account lifecycle state.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// SystemUser is a console account. Region is populated only for
// regional_admin and district_admin accounts per the provisioning
// convention; collectors and officers carry District alone.
type SystemUser struct {
	ID          snowflake.ID                `gorm:"primaryKey" json:"id"`
	Name        string                      `gorm:"type:text;not null" json:"name"`
	Email       string                      `gorm:"type:text;not null;uniqueIndex" json:"email"`
	Role        string                      `gorm:"type:text;not null;index" json:"role"`
	District    string                      `gorm:"type:text;index" json:"district,omitempty"`
	Region      string                      `gorm:"type:text;index" json:"region,omitempty"`
	Phone       string                      `gorm:"type:text" json:"phone,omitempty"`
	Status      UserStatus                  `gorm:"type:text;not null;default:active" json:"status"`
	Permissions datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"permissions"`
	LastLogin   *time.Time                  `json:"last_login,omitempty"`
	CreatedDate time.Time                   `gorm:"not null" json:"created_date"`
}

// TableName sets the database table name.
func (SystemUser) TableName() string { return "system_users" }

// ScopeDistrict implements jurisdiction.Scoped.
func (u SystemUser) ScopeDistrict() string { return u.District }

// ScopeOwner implements jurisdiction.Scoped.
func (u SystemUser) ScopeOwner() string { return u.Name }

var (
	ErrInvalidEmail = errors.New("invalid_email")
	ErrInvalidRole  = errors.New("invalid_role")
	ErrNotFound     = errors.New("user_not_found")
)
