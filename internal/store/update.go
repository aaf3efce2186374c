package store

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"

	businessdomain "github.com/localgov-gh/revhub/internal/business/domain"
	collectiondomain "github.com/localgov-gh/revhub/internal/collection/domain"
	districtdomain "github.com/localgov-gh/revhub/internal/district/domain"
)

// BusinessPatch is a partial update; nil fields are left untouched.
// BusinessCode and District are deliberately absent: the code is
// immutable and moving a business between districts is not modeled.
type BusinessPatch struct {
	Name            *string
	OwnerName       *string
	Category        *string
	Phone           *string
	Email           *string
	PhysicalAddress *string
	Status          *businessdomain.BusinessStatus
	LastPayment     *time.Time
	BusinessLicense *string
	TINNumber       *string
}

func (p BusinessPatch) apply(b *businessdomain.Business) map[string]any {
	changes := map[string]any{}
	if p.Name != nil {
		b.Name = *p.Name
		changes["name"] = *p.Name
	}
	if p.OwnerName != nil {
		b.OwnerName = *p.OwnerName
		changes["owner_name"] = *p.OwnerName
	}
	if p.Category != nil {
		b.Category = *p.Category
		changes["category"] = *p.Category
	}
	if p.Phone != nil {
		b.Phone = *p.Phone
		changes["phone"] = *p.Phone
	}
	if p.Email != nil {
		b.Email = *p.Email
		changes["email"] = *p.Email
	}
	if p.PhysicalAddress != nil {
		b.PhysicalAddress = *p.PhysicalAddress
		changes["physical_address"] = *p.PhysicalAddress
	}
	if p.Status != nil {
		b.Status = *p.Status
		changes["status"] = string(*p.Status)
	}
	if p.LastPayment != nil {
		b.LastPayment = p.LastPayment
		changes["last_payment"] = *p.LastPayment
	}
	if p.BusinessLicense != nil {
		b.BusinessLicense = *p.BusinessLicense
		changes["business_license"] = *p.BusinessLicense
	}
	if p.TINNumber != nil {
		b.TINNumber = *p.TINNumber
		changes["tin_number"] = *p.TINNumber
	}
	return changes
}

// UpdateBusiness merges a partial change optimistically and restores the
// pre-update snapshot if the remote rejects it. Concurrent updates to
// the same entity are last-writer-wins locally.
func (s *Store) UpdateBusiness(ctx context.Context, id snowflake.ID, patch BusinessPatch) (businessdomain.Business, *Pending, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.businesses {
		if s.businesses[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return businessdomain.Business{}, nil, businessdomain.ErrNotFound
	}

	before := s.businesses[idx]
	updated := before
	changes := patch.apply(&updated)
	s.businesses[idx] = updated
	s.bumpLocked()
	s.mu.Unlock()
	s.metrics.IncApplied(TableBusinesses, "update")

	pending := s.persistUpdate(ctx, TableBusinesses, id, changes, func() {
		s.restoreBusinessLocked(before)
	})
	return updated, pending, nil
}

// ValidateCollection moves a pending payment to paid, the only allowed
// status transition. The owning business's last-payment marker and the
// district revenue counter move with it.
func (s *Store) ValidateCollection(ctx context.Context, id snowflake.ID) (collectiondomain.Collection, *Pending, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.collections {
		if s.collections[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return collectiondomain.Collection{}, nil, collectiondomain.ErrNotFound
	}

	before := s.collections[idx]
	if before.Status == collectiondomain.CollectionStatusPaid {
		s.mu.Unlock()
		return collectiondomain.Collection{}, nil, collectiondomain.ErrAlreadyPaid
	}

	updated := before
	updated.Status = collectiondomain.CollectionStatusPaid
	s.collections[idx] = updated
	paidAt := s.clock.Now()
	priorPayment := s.lastPaymentLocked(updated.BusinessID)
	s.markBusinessPaidLocked(updated.BusinessID, paidAt)
	s.bumpDistrictCountersLocked(updated.District, updated.Amount, 0)
	s.bumpLocked()
	s.mu.Unlock()
	s.metrics.IncApplied(TableCollections, "update")

	changes := map[string]any{"status": string(collectiondomain.CollectionStatusPaid)}
	pending := s.persistUpdate(ctx, TableCollections, id, changes, func() {
		s.restoreCollectionLocked(before)
		s.bumpDistrictCountersLocked(before.District, -updated.Amount, 0)
		s.restoreLastPaymentLocked(before.BusinessID, priorPayment)
	})
	return updated, pending, nil
}

// CollectionPatch corrects a payment record before validation; nil
// fields are left untouched.
type CollectionPatch struct {
	Amount        *int64
	PaymentMethod *collectiondomain.PaymentMethod
	Notes         *string
}

func (p CollectionPatch) apply(c *collectiondomain.Collection) map[string]any {
	changes := map[string]any{}
	if p.Amount != nil {
		c.Amount = *p.Amount
		changes["amount"] = *p.Amount
	}
	if p.PaymentMethod != nil {
		c.PaymentMethod = *p.PaymentMethod
		changes["payment_method"] = string(*p.PaymentMethod)
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
		changes["notes"] = *p.Notes
	}
	return changes
}

// UpdateCollection corrects a pending payment record optimistically.
// Paid collections are frozen; corrections stop at validation.
func (s *Store) UpdateCollection(ctx context.Context, id snowflake.ID, patch CollectionPatch) (collectiondomain.Collection, *Pending, error) {
	if patch.Amount != nil && *patch.Amount < 0 {
		return collectiondomain.Collection{}, nil, collectiondomain.ErrInvalidAmount
	}
	if patch.PaymentMethod != nil {
		switch *patch.PaymentMethod {
		case collectiondomain.PaymentMethodCash, collectiondomain.PaymentMethodMomo,
			collectiondomain.PaymentMethodBank, collectiondomain.PaymentMethodCheque,
			collectiondomain.PaymentMethodPOS:
		default:
			return collectiondomain.Collection{}, nil, collectiondomain.ErrInvalidMethod
		}
	}

	s.mu.Lock()
	idx := -1
	for i := range s.collections {
		if s.collections[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return collectiondomain.Collection{}, nil, collectiondomain.ErrNotFound
	}

	before := s.collections[idx]
	if before.Status == collectiondomain.CollectionStatusPaid {
		s.mu.Unlock()
		return collectiondomain.Collection{}, nil, collectiondomain.ErrImmutableWhenPaid
	}

	updated := before
	changes := patch.apply(&updated)
	s.collections[idx] = updated
	s.bumpLocked()
	s.mu.Unlock()
	s.metrics.IncApplied(TableCollections, "update")

	pending := s.persistUpdate(ctx, TableCollections, id, changes, func() {
		s.restoreCollectionLocked(before)
	})
	return updated, pending, nil
}

// UpdateDistrictStatus transitions an assembly's administrative status.
// The transition never cascades to businesses or collections.
func (s *Store) UpdateDistrictStatus(ctx context.Context, id snowflake.ID, status districtdomain.DistrictStatus) (districtdomain.District, *Pending, error) {
	s.mu.Lock()
	idx := -1
	for i := range s.districts {
		if s.districts[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return districtdomain.District{}, nil, districtdomain.ErrNotFound
	}

	before := s.districts[idx]
	updated := before
	updated.Status = status
	s.districts[idx] = updated
	s.bumpLocked()
	s.mu.Unlock()
	s.metrics.IncApplied(TableDistricts, "update")

	changes := map[string]any{"status": string(status)}
	pending := s.persistUpdate(ctx, TableDistricts, id, changes, func() {
		s.restoreDistrictLocked(before)
	})
	return updated, pending, nil
}

// Locked restore helpers for update rollbacks. If the entity vanished
// since the apply (a concurrent create rollback), restoring is a no-op.

func (s *Store) restoreBusinessLocked(before businessdomain.Business) {
	for i := range s.businesses {
		if s.businesses[i].ID == before.ID {
			s.businesses[i] = before
			return
		}
	}
}

func (s *Store) restoreCollectionLocked(before collectiondomain.Collection) {
	for i := range s.collections {
		if s.collections[i].ID == before.ID {
			s.collections[i] = before
			return
		}
	}
}

func (s *Store) restoreDistrictLocked(before districtdomain.District) {
	for i := range s.districts {
		if s.districts[i].ID == before.ID {
			s.districts[i] = before
			return
		}
	}
}

func (s *Store) markBusinessPaidLocked(id snowflake.ID, at time.Time) {
	for i := range s.businesses {
		if s.businesses[i].ID == id {
			s.businesses[i].LastPayment = &at
			return
		}
	}
}

func (s *Store) lastPaymentLocked(id snowflake.ID) *time.Time {
	for i := range s.businesses {
		if s.businesses[i].ID == id {
			return s.businesses[i].LastPayment
		}
	}
	return nil
}

func (s *Store) restoreLastPaymentLocked(id snowflake.ID, prior *time.Time) {
	for i := range s.businesses {
		if s.businesses[i].ID == id {
			s.businesses[i].LastPayment = prior
			return
		}
	}
}
