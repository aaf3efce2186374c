// Package jurisdiction decides which entities a principal may see based
// on role and place in the region -> district hierarchy. Filtering is
// pure: inputs are never mutated and results preserve input order.
package jurisdiction

import (
	"errors"
	"strings"

	districtdomain "github.com/localgov-gh/revhub/internal/district/domain"
	"github.com/localgov-gh/revhub/internal/principal"
)

var (
	// ErrScopeDenied means the principal lacks the jurisdiction data its
	// role requires. Absence of jurisdiction is never unrestricted access.
	ErrScopeDenied = errors.New("scope_denied")
)

// UnknownDistrict marks records whose district could not be established
// at ingest. They are excluded from any regional scope (fail closed).
const UnknownDistrict = "Unknown"

// Scoped is implemented by every entity collection the resolver filters.
// Entities without a meaningful owner return "" from ScopeOwner.
type Scoped interface {
	ScopeDistrict() string
	ScopeOwner() string
}

// RegionIndex maps district name -> region. It is derived data: build it
// from the district catalog and rebuild it whenever the catalog changes,
// never maintain it by hand.
type RegionIndex map[string]string

// BuildRegionIndex derives the district -> region lookup from the
// district catalog.
func BuildRegionIndex(districts []districtdomain.District) RegionIndex {
	index := make(RegionIndex, len(districts))
	for _, d := range districts {
		name := strings.TrimSpace(d.Name)
		region := strings.TrimSpace(d.Region)
		if name == "" || region == "" {
			continue
		}
		index[name] = region
	}
	return index
}

// Resolver applies role-based scope rules over entity collections.
type Resolver struct {
	regions RegionIndex
}

// NewResolver constructs a resolver over the given district index.
func NewResolver(regions RegionIndex) *Resolver {
	if regions == nil {
		regions = RegionIndex{}
	}
	return &Resolver{regions: regions}
}

// InScope reports whether a single entity is visible to the principal.
// The switch over roles is exhaustive; an unrecognized role sees nothing.
func (r *Resolver) InScope(p principal.Principal, entity Scoped) bool {
	switch p.Role {
	case principal.RoleSystemAdmin, principal.RoleAuditor, principal.RoleMonitoringBody:
		return true
	case principal.RoleRegionalAdmin:
		if p.Region == "" {
			return false
		}
		district := entity.ScopeDistrict()
		if district == "" || district == UnknownDistrict {
			return false
		}
		region, mapped := r.regions[district]
		return mapped && region == p.Region
	case principal.RoleDistrictAdmin, principal.RoleFinanceOfficer,
		principal.RoleCollector, principal.RoleRegistrationOfficer:
		if p.District == "" {
			return false
		}
		return entity.ScopeDistrict() == p.District
	case principal.RoleBusinessOwner:
		if p.Name == "" {
			return false
		}
		return entity.ScopeOwner() == p.Name
	default:
		return false
	}
}

// Require fails closed when the principal's role needs jurisdiction data
// it does not carry. National-scope roles always pass.
func (r *Resolver) Require(p principal.Principal) error {
	switch {
	case p.Role.NationalScope():
		return nil
	case p.Role == principal.RoleRegionalAdmin:
		if strings.TrimSpace(p.Region) == "" {
			return ErrScopeDenied
		}
	case p.Role.DistrictScoped():
		if strings.TrimSpace(p.District) == "" {
			return ErrScopeDenied
		}
	case p.Role == principal.RoleBusinessOwner:
		if strings.TrimSpace(p.Name) == "" {
			return ErrScopeDenied
		}
	default:
		return ErrScopeDenied
	}
	return nil
}

// Filter returns the subset of items visible to the principal, in input
// order, as a fresh slice. The input is never modified.
func Filter[T Scoped](r *Resolver, p principal.Principal, items []T) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if r.InScope(p, item) {
			out = append(out, item)
		}
	}
	return out
}
