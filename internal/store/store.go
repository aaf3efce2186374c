// Package store is the single authoritative in-process holder of the
// console's entity collections. Mutations apply optimistically: local
// first, remote persistence async, rollback on remote failure. No
// component mutates collections except through this package.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"

	assignmentdomain "github.com/localgov-gh/revhub/internal/assignment/domain"
	auditdomain "github.com/localgov-gh/revhub/internal/audit/domain"
	businessdomain "github.com/localgov-gh/revhub/internal/business/domain"
	"github.com/localgov-gh/revhub/internal/clock"
	"github.com/localgov-gh/revhub/internal/codes"
	collectiondomain "github.com/localgov-gh/revhub/internal/collection/domain"
	districtdomain "github.com/localgov-gh/revhub/internal/district/domain"
	"github.com/localgov-gh/revhub/internal/jurisdiction"
	"github.com/localgov-gh/revhub/internal/observability/metrics"
	revenuedomain "github.com/localgov-gh/revhub/internal/revenue/domain"
	userdomain "github.com/localgov-gh/revhub/internal/user/domain"
)

// Store owns all entity collections for the process lifetime.
type Store struct {
	mu sync.RWMutex

	businesses   []businessdomain.Business
	collections  []collectiondomain.Collection
	assignments  []assignmentdomain.Assignment
	revenueTypes []revenuedomain.RevenueType
	districts    []districtdomain.District
	users        []userdomain.SystemUser
	auditLogs    []auditdomain.AuditLog

	// regions is derived from districts and rebuilt on every district
	// mutation and bulk load.
	regions jurisdiction.RegionIndex

	revision uint64
	loadErr  error

	remote  Remote
	genID   *snowflake.Node
	codegen *codes.Generator
	clock   clock.Clock
	log     *zap.Logger
	metrics *metrics.StoreMetrics
}

// New constructs an empty Store. Call Load to hydrate from the remote.
func New(remote Remote, genID *snowflake.Node, codegen *codes.Generator, clk clock.Clock, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	if clk == nil {
		clk = clock.SystemClock{}
	}
	return &Store{
		remote:  remote,
		genID:   genID,
		codegen: codegen,
		clock:   clk,
		log:     log.Named("store"),
		regions: jurisdiction.RegionIndex{},
		metrics: metrics.Store(),
	}
}

// Revision increments on every local mutation so cached aggregates can
// key on it for invalidation.
func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// LoadErr reports the error from the most recent bulk load, nil when
// every collection loaded cleanly. Consumers must treat figures as
// incomplete while this is non-nil.
func (s *Store) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// Resolver returns a scope resolver over the current district catalog.
func (s *Store) Resolver() *jurisdiction.Resolver {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return jurisdiction.NewResolver(s.regions)
}

// Businesses returns a snapshot copy of the business collection.
func (s *Store) Businesses() []businessdomain.Business {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]businessdomain.Business, len(s.businesses))
	copy(out, s.businesses)
	return out
}

// Collections returns a snapshot copy of the payment records.
func (s *Store) Collections() []collectiondomain.Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]collectiondomain.Collection, len(s.collections))
	copy(out, s.collections)
	return out
}

// Assignments returns a snapshot copy of the assignment collection.
func (s *Store) Assignments() []assignmentdomain.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]assignmentdomain.Assignment, len(s.assignments))
	copy(out, s.assignments)
	return out
}

// RevenueTypes returns a snapshot copy of the revenue type catalog.
func (s *Store) RevenueTypes() []revenuedomain.RevenueType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]revenuedomain.RevenueType, len(s.revenueTypes))
	copy(out, s.revenueTypes)
	return out
}

// Districts returns a snapshot copy of the district catalog.
func (s *Store) Districts() []districtdomain.District {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]districtdomain.District, len(s.districts))
	copy(out, s.districts)
	return out
}

// Users returns a snapshot copy of the system user collection.
func (s *Store) Users() []userdomain.SystemUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]userdomain.SystemUser, len(s.users))
	copy(out, s.users)
	return out
}

// AuditLogs returns a snapshot copy of the audit trail.
func (s *Store) AuditLogs() []auditdomain.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]auditdomain.AuditLog, len(s.auditLogs))
	copy(out, s.auditLogs)
	return out
}

// FindBusiness looks up a business by id.
func (s *Store) FindBusiness(id snowflake.ID) (businessdomain.Business, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.businesses {
		if b.ID == id {
			return b, true
		}
	}
	return businessdomain.Business{}, false
}

// FindCollection looks up a payment record by id.
func (s *Store) FindCollection(id snowflake.ID) (collectiondomain.Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.collections {
		if c.ID == id {
			return c, true
		}
	}
	return collectiondomain.Collection{}, false
}

// FindRevenueType looks up a catalog entry by id.
func (s *Store) FindRevenueType(id snowflake.ID) (revenuedomain.RevenueType, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rt := range s.revenueTypes {
		if rt.ID == id {
			return rt, true
		}
	}
	return revenuedomain.RevenueType{}, false
}

// codeExistsLocked probes every collection carrying generated codes.
// Caller holds at least the read lock.
func (s *Store) codeExistsLocked(code string) bool {
	for _, b := range s.businesses {
		if b.BusinessCode == code {
			return true
		}
	}
	for _, c := range s.collections {
		if c.ReceiptCode == code {
			return true
		}
	}
	for _, a := range s.assignments {
		if a.AssignmentCode == code {
			return true
		}
	}
	for _, rt := range s.revenueTypes {
		if rt.Code == code {
			return true
		}
	}
	for _, d := range s.districts {
		if d.Code == code {
			return true
		}
	}
	return false
}

func (s *Store) rebuildRegionsLocked() {
	s.regions = jurisdiction.BuildRegionIndex(s.districts)
}

func (s *Store) bumpLocked() {
	s.revision++
}

// persist runs the remote leg of an optimistic create. rollback is
// invoked under the write lock when the remote rejects; it must
// tolerate state that moved on since the apply.
func (s *Store) persist(ctx context.Context, table string, record any, rollback func()) *Pending {
	pending := newPending()
	// In-flight persistence is never cancelled by the caller going away.
	ctx = context.WithoutCancel(ctx)
	go func() {
		err := s.remote.Insert(ctx, table, record)
		if err == nil {
			s.metrics.IncConfirmed(table, "create")
			pending.resolve(nil)
			return
		}
		s.mu.Lock()
		rollback()
		s.bumpLocked()
		s.mu.Unlock()
		s.metrics.IncRolledBack(table, "create")
		s.log.Warn("remote insert failed, rolled back",
			zap.String("table", table),
			zap.Error(err),
		)
		pending.resolve(fmt.Errorf("%w: %v", ErrPersistenceFailure, err))
	}()
	return pending
}

// persistUpdate runs the remote leg of an optimistic update.
func (s *Store) persistUpdate(ctx context.Context, table string, id snowflake.ID, patch map[string]any, rollback func()) *Pending {
	pending := newPending()
	ctx = context.WithoutCancel(ctx)
	go func() {
		err := s.remote.Update(ctx, table, id, patch)
		if err == nil {
			s.metrics.IncConfirmed(table, "update")
			pending.resolve(nil)
			return
		}
		s.mu.Lock()
		rollback()
		s.bumpLocked()
		s.mu.Unlock()
		s.metrics.IncRolledBack(table, "update")
		s.log.Warn("remote update failed, rolled back",
			zap.String("table", table),
			zap.String("id", id.String()),
			zap.Error(err),
		)
		pending.resolve(fmt.Errorf("%w: %v", ErrPersistenceFailure, err))
	}()
	return pending
}
