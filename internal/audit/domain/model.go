package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// EntityType classifies what an audit entry refers to.
type EntityType string

const (
	EntityTypeBusiness   EntityType = "business"
	EntityTypePayment    EntityType = "payment"
	EntityTypeAssignment EntityType = "assignment"
	EntityTypeDistrict   EntityType = "district"
	EntityTypeUser       EntityType = "user"
	EntityTypeSystem     EntityType = "system"
)

// AuditLog is an immutable record of a console action. Entries are
// append-only; nothing in the system updates or deletes them.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey" json:"id"`
	UserID     string            `gorm:"type:text;not null;index" json:"user_id"`
	UserName   string            `gorm:"type:text;not null" json:"user_name"`
	UserRole   string            `gorm:"type:text;not null" json:"user_role"`
	Action     string            `gorm:"type:text;not null;index" json:"action"`
	Details    string            `gorm:"type:text" json:"details,omitempty"`
	EntityType EntityType        `gorm:"type:text;index" json:"entity_type,omitempty"`
	EntityID   string            `gorm:"type:text" json:"entity_id,omitempty"`
	District   string            `gorm:"type:text;index" json:"district,omitempty"`
	IPAddress  string            `gorm:"type:text" json:"ip_address,omitempty"`
	Metadata   datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt  time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

// ScopeDistrict implements jurisdiction.Scoped.
func (l AuditLog) ScopeDistrict() string { return l.District }

// ScopeOwner implements jurisdiction.Scoped.
func (l AuditLog) ScopeOwner() string { return l.UserName }
