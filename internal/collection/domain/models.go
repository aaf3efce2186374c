package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

// CollectionStatus tracks a payment record's validation state.
// The only forward transition is pending -> paid; no reversal is modeled.
type CollectionStatus string

const (
	CollectionStatusPaid    CollectionStatus = "paid"
	CollectionStatusPending CollectionStatus = "pending"
)

// PaymentMethod is how a collection was settled in the field.
type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodMomo   PaymentMethod = "momo"
	PaymentMethodBank   PaymentMethod = "bank"
	PaymentMethodCheque PaymentMethod = "cheque"
	PaymentMethodPOS    PaymentMethod = "pos"
)

// Collection is a recorded tax/fee payment event. Amount is in pesewas.
// District is denormalized from the business at creation time so scoped
// filtering never needs a join.
type Collection struct {
	ID            snowflake.ID     `gorm:"primaryKey" json:"id"`
	ReceiptCode   string           `gorm:"type:text;not null;uniqueIndex" json:"receipt_code"`
	BusinessID    snowflake.ID     `gorm:"not null;index" json:"business_id"`
	RevenueTypeID snowflake.ID     `gorm:"not null;index" json:"revenue_type_id"`
	CollectorID   string           `gorm:"type:text;not null;index" json:"collector_id"`
	Amount        int64            `gorm:"not null" json:"amount"`
	PaymentMethod PaymentMethod    `gorm:"type:text;not null" json:"payment_method"`
	Date          time.Time        `gorm:"not null;index" json:"date"`
	Status        CollectionStatus `gorm:"type:text;not null;default:pending" json:"status"`
	District      string           `gorm:"type:text;not null;index" json:"district"`
	OwnerName     string           `gorm:"type:text" json:"owner_name,omitempty"`
	Notes         string           `gorm:"type:text" json:"notes,omitempty"`
}

// TableName sets the database table name.
func (Collection) TableName() string { return "collections" }

// ScopeDistrict implements jurisdiction.Scoped.
func (c Collection) ScopeDistrict() string { return c.District }

// ScopeOwner implements jurisdiction.Scoped.
func (c Collection) ScopeOwner() string { return c.OwnerName }

var (
	ErrInvalidAmount     = errors.New("invalid_amount")
	ErrInvalidBusiness   = errors.New("invalid_business")
	ErrInvalidMethod     = errors.New("invalid_payment_method")
	ErrAlreadyPaid       = errors.New("collection_already_paid")
	ErrImmutableWhenPaid = errors.New("collection_immutable_when_paid")
	ErrNotFound          = errors.New("collection_not_found")
)
