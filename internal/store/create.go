package store

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"

	assignmentdomain "github.com/localgov-gh/revhub/internal/assignment/domain"
	auditdomain "github.com/localgov-gh/revhub/internal/audit/domain"
	businessdomain "github.com/localgov-gh/revhub/internal/business/domain"
	"github.com/localgov-gh/revhub/internal/codes"
	collectiondomain "github.com/localgov-gh/revhub/internal/collection/domain"
	districtdomain "github.com/localgov-gh/revhub/internal/district/domain"
	revenuedomain "github.com/localgov-gh/revhub/internal/revenue/domain"
)

// BusinessDraft carries the caller-supplied fields for registration.
// ID, code, and registration date are assigned by the store.
type BusinessDraft struct {
	Name            string
	OwnerName       string
	Category        string
	Phone           string
	Email           string
	GPSLocation     string
	PhysicalAddress string
	BusinessLicense string
	TINNumber       string
	District        string
}

// CreateBusiness registers a business optimistically. The returned
// entity is already visible to scoped reads when this returns; the
// Pending resolves once the remote store confirms or the rollback ran.
func (s *Store) CreateBusiness(ctx context.Context, draft BusinessDraft) (businessdomain.Business, *Pending, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return businessdomain.Business{}, nil, businessdomain.ErrInvalidName
	}
	if strings.TrimSpace(draft.OwnerName) == "" {
		return businessdomain.Business{}, nil, businessdomain.ErrInvalidOwner
	}
	if strings.TrimSpace(draft.District) == "" {
		return businessdomain.Business{}, nil, businessdomain.ErrInvalidDistrict
	}

	s.mu.Lock()
	entity := businessdomain.Business{
		ID:               s.genID.Generate(),
		BusinessCode:     s.codegen.Generate(codes.KindBusiness, s.codeExistsLocked),
		Name:             strings.TrimSpace(draft.Name),
		OwnerName:        strings.TrimSpace(draft.OwnerName),
		Category:         draft.Category,
		Phone:            draft.Phone,
		Email:            draft.Email,
		GPSLocation:      draft.GPSLocation,
		PhysicalAddress:  draft.PhysicalAddress,
		Status:           businessdomain.BusinessStatusPending,
		RegistrationDate: s.clock.Now(),
		BusinessLicense:  draft.BusinessLicense,
		TINNumber:        draft.TINNumber,
		District:         strings.TrimSpace(draft.District),
	}
	s.businesses = append(s.businesses, entity)
	s.bumpDistrictCountersLocked(entity.District, 0, 1)
	s.bumpLocked()
	s.mu.Unlock()
	s.metrics.IncApplied(TableBusinesses, "create")

	pending := s.persist(ctx, TableBusinesses, &entity, func() {
		s.removeBusinessLocked(entity.ID)
		s.bumpDistrictCountersLocked(entity.District, 0, -1)
	})
	return entity, pending, nil
}

// CollectionDraft carries the caller-supplied fields for recording a
// payment. District and owner are denormalized from the business.
type CollectionDraft struct {
	BusinessID    snowflake.ID
	RevenueTypeID snowflake.ID
	CollectorID   string
	Amount        int64
	PaymentMethod collectiondomain.PaymentMethod
	Date          time.Time
	Status        collectiondomain.CollectionStatus
	Notes         string
}

// CreateCollection records a payment optimistically.
func (s *Store) CreateCollection(ctx context.Context, draft CollectionDraft) (collectiondomain.Collection, *Pending, error) {
	if draft.Amount < 0 {
		return collectiondomain.Collection{}, nil, collectiondomain.ErrInvalidAmount
	}
	switch draft.PaymentMethod {
	case collectiondomain.PaymentMethodCash, collectiondomain.PaymentMethodMomo,
		collectiondomain.PaymentMethodBank, collectiondomain.PaymentMethodCheque,
		collectiondomain.PaymentMethodPOS:
	default:
		return collectiondomain.Collection{}, nil, collectiondomain.ErrInvalidMethod
	}

	biz, ok := s.FindBusiness(draft.BusinessID)
	if !ok {
		return collectiondomain.Collection{}, nil, collectiondomain.ErrInvalidBusiness
	}

	status := draft.Status
	if status == "" {
		status = collectiondomain.CollectionStatusPending
	}
	date := draft.Date
	if date.IsZero() {
		date = s.clock.Now()
	}

	s.mu.Lock()
	entity := collectiondomain.Collection{
		ID:            s.genID.Generate(),
		ReceiptCode:   s.codegen.Generate(codes.KindReceipt, s.codeExistsLocked),
		BusinessID:    biz.ID,
		RevenueTypeID: draft.RevenueTypeID,
		CollectorID:   draft.CollectorID,
		Amount:        draft.Amount,
		PaymentMethod: draft.PaymentMethod,
		Date:          date,
		Status:        status,
		District:      biz.District,
		OwnerName:     biz.OwnerName,
		Notes:         draft.Notes,
	}
	s.collections = append(s.collections, entity)
	if status == collectiondomain.CollectionStatusPaid {
		s.bumpDistrictCountersLocked(entity.District, entity.Amount, 0)
	}
	s.bumpLocked()
	s.mu.Unlock()
	s.metrics.IncApplied(TableCollections, "create")

	pending := s.persist(ctx, TableCollections, &entity, func() {
		s.removeCollectionLocked(entity.ID)
		if entity.Status == collectiondomain.CollectionStatusPaid {
			s.bumpDistrictCountersLocked(entity.District, -entity.Amount, 0)
		}
	})
	return entity, pending, nil
}

// AssignmentDraft carries the caller-supplied fields for assigning a
// collector to a business or zone.
type AssignmentDraft struct {
	CollectorID string
	BusinessID  snowflake.ID
	Zone        string
	StartDate   time.Time
	EndDate     *time.Time
	AssignedBy  string
	District    string
}

// CreateAssignment stores a collector assignment optimistically. No
// uniqueness is enforced on (collector, business); concurrent
// assignments are allowed.
func (s *Store) CreateAssignment(ctx context.Context, draft AssignmentDraft) (assignmentdomain.Assignment, *Pending, error) {
	if strings.TrimSpace(draft.CollectorID) == "" {
		return assignmentdomain.Assignment{}, nil, assignmentdomain.ErrInvalidCollector
	}
	if strings.TrimSpace(draft.District) == "" {
		return assignmentdomain.Assignment{}, nil, assignmentdomain.ErrInvalidDistrict
	}
	start := draft.StartDate
	if start.IsZero() {
		start = s.clock.Now()
	}

	s.mu.Lock()
	entity := assignmentdomain.Assignment{
		ID:             s.genID.Generate(),
		AssignmentCode: s.codegen.Generate(codes.KindAssignment, s.codeExistsLocked),
		CollectorID:    strings.TrimSpace(draft.CollectorID),
		BusinessID:     draft.BusinessID,
		Zone:           draft.Zone,
		StartDate:      start,
		EndDate:        draft.EndDate,
		IsActive:       true,
		AssignedBy:     draft.AssignedBy,
		District:       strings.TrimSpace(draft.District),
	}
	s.assignments = append(s.assignments, entity)
	s.bumpLocked()
	s.mu.Unlock()
	s.metrics.IncApplied(TableAssignments, "create")

	pending := s.persist(ctx, TableAssignments, &entity, func() {
		s.removeAssignmentLocked(entity.ID)
	})
	return entity, pending, nil
}

// RevenueTypeDraft carries the caller-supplied fields for a catalog entry.
type RevenueTypeDraft struct {
	Name          string
	DefaultAmount int64
	Frequency     revenuedomain.Frequency
	Description   string
	Category      string
}

// CreateRevenueType adds a catalog entry optimistically.
func (s *Store) CreateRevenueType(ctx context.Context, draft RevenueTypeDraft) (revenuedomain.RevenueType, *Pending, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return revenuedomain.RevenueType{}, nil, revenuedomain.ErrInvalidName
	}
	if draft.DefaultAmount < 0 {
		return revenuedomain.RevenueType{}, nil, revenuedomain.ErrInvalidAmount
	}

	s.mu.Lock()
	entity := revenuedomain.RevenueType{
		ID:            s.genID.Generate(),
		Code:          s.codegen.Generate(codes.KindRevenueType, s.codeExistsLocked),
		Name:          strings.TrimSpace(draft.Name),
		DefaultAmount: draft.DefaultAmount,
		Frequency:     draft.Frequency,
		Description:   draft.Description,
		Category:      draft.Category,
		IsActive:      true,
	}
	s.revenueTypes = append(s.revenueTypes, entity)
	s.bumpLocked()
	s.mu.Unlock()
	s.metrics.IncApplied(TableRevenueTypes, "create")

	pending := s.persist(ctx, TableRevenueTypes, &entity, func() {
		s.removeRevenueTypeLocked(entity.ID)
	})
	return entity, pending, nil
}

// DistrictDraft carries the caller-supplied fields for onboarding an
// assembly under a region.
type DistrictDraft struct {
	Name       string
	Region     string
	AdminName  string
	AdminEmail string
	Phone      string
}

// CreateDistrict onboards an assembly optimistically. The region index
// is rebuilt so regional scoping sees the new district immediately.
func (s *Store) CreateDistrict(ctx context.Context, draft DistrictDraft) (districtdomain.District, *Pending, error) {
	if strings.TrimSpace(draft.Name) == "" {
		return districtdomain.District{}, nil, districtdomain.ErrInvalidName
	}
	if strings.TrimSpace(draft.Region) == "" {
		return districtdomain.District{}, nil, districtdomain.ErrInvalidRegion
	}

	s.mu.Lock()
	entity := districtdomain.District{
		ID:          s.genID.Generate(),
		Name:        strings.TrimSpace(draft.Name),
		Code:        s.codegen.Generate(codes.KindDistrict, s.codeExistsLocked),
		Region:      strings.TrimSpace(draft.Region),
		Status:      districtdomain.DistrictStatusActive,
		AdminName:   draft.AdminName,
		AdminEmail:  draft.AdminEmail,
		Phone:       draft.Phone,
		CreatedDate: s.clock.Now(),
	}
	s.districts = append(s.districts, entity)
	s.rebuildRegionsLocked()
	s.bumpLocked()
	s.mu.Unlock()
	s.metrics.IncApplied(TableDistricts, "create")

	pending := s.persist(ctx, TableDistricts, &entity, func() {
		s.removeDistrictLocked(entity.ID)
		s.rebuildRegionsLocked()
	})
	return entity, pending, nil
}

// AuditDraft carries the caller-supplied fields of an audit entry.
type AuditDraft struct {
	UserID     string
	UserName   string
	UserRole   string
	Action     string
	Details    string
	EntityType auditdomain.EntityType
	EntityID   string
	District   string
	IPAddress  string
	Metadata   map[string]any
}

// AppendAudit appends an immutable audit entry. Entries causally follow
// the mutation they describe; call this after the mutation's local
// apply returns.
func (s *Store) AppendAudit(ctx context.Context, draft AuditDraft) (auditdomain.AuditLog, *Pending) {
	entry := auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		UserID:     draft.UserID,
		UserName:   draft.UserName,
		UserRole:   draft.UserRole,
		Action:     draft.Action,
		Details:    draft.Details,
		EntityType: draft.EntityType,
		EntityID:   draft.EntityID,
		District:   draft.District,
		IPAddress:  draft.IPAddress,
		Metadata:   datatypes.JSONMap{},
		CreatedAt:  s.clock.Now(),
	}
	for k, v := range draft.Metadata {
		entry.Metadata[k] = v
	}

	s.mu.Lock()
	s.auditLogs = append(s.auditLogs, entry)
	s.bumpLocked()
	s.mu.Unlock()
	s.metrics.IncApplied(TableAuditLogs, "create")

	pending := s.persist(ctx, TableAuditLogs, &entry, func() {
		s.removeAuditLocked(entry.ID)
	})
	return entry, pending
}

// Locked removal helpers; all tolerate ids that are already gone so a
// late rollback against mutated state stays safe.

func (s *Store) removeBusinessLocked(id snowflake.ID) {
	for i, b := range s.businesses {
		if b.ID == id {
			s.businesses = append(s.businesses[:i], s.businesses[i+1:]...)
			return
		}
	}
}

func (s *Store) removeCollectionLocked(id snowflake.ID) {
	for i, c := range s.collections {
		if c.ID == id {
			s.collections = append(s.collections[:i], s.collections[i+1:]...)
			return
		}
	}
}

func (s *Store) removeAssignmentLocked(id snowflake.ID) {
	for i, a := range s.assignments {
		if a.ID == id {
			s.assignments = append(s.assignments[:i], s.assignments[i+1:]...)
			return
		}
	}
}

func (s *Store) removeRevenueTypeLocked(id snowflake.ID) {
	for i, rt := range s.revenueTypes {
		if rt.ID == id {
			s.revenueTypes = append(s.revenueTypes[:i], s.revenueTypes[i+1:]...)
			return
		}
	}
}

func (s *Store) removeDistrictLocked(id snowflake.ID) {
	for i, d := range s.districts {
		if d.ID == id {
			s.districts = append(s.districts[:i], s.districts[i+1:]...)
			return
		}
	}
}

func (s *Store) removeAuditLocked(id snowflake.ID) {
	for i, l := range s.auditLogs {
		if l.ID == id {
			s.auditLogs = append(s.auditLogs[:i], s.auditLogs[i+1:]...)
			return
		}
	}
}

// bumpDistrictCountersLocked keeps the denormalized per-district totals
// roughly current between bulk loads. Negative deltas undo a rollback.
func (s *Store) bumpDistrictCountersLocked(district string, revenueDelta, businessDelta int64) {
	for i := range s.districts {
		if s.districts[i].Name != district {
			continue
		}
		s.districts[i].TotalRevenue += revenueDelta
		s.districts[i].TotalBusinesses += businessDelta
		now := s.clock.Now()
		s.districts[i].LastActivity = &now
		return
	}
}
