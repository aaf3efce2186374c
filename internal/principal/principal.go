package principal

import (
	"errors"
	"strings"
)

// Role identifies one of the closed set of console roles.
type Role string

const (
	RoleSystemAdmin         Role = "system_admin"
	RoleRegionalAdmin       Role = "regional_admin"
	RoleDistrictAdmin       Role = "district_admin"
	RoleFinanceOfficer      Role = "finance_officer"
	RoleCollector           Role = "collector"
	RoleAuditor             Role = "auditor"
	RoleBusinessOwner       Role = "business_owner"
	RoleMonitoringBody      Role = "monitoring_body"
	RoleRegistrationOfficer Role = "registration_officer"
)

var (
	ErrInvalidRole = errors.New("invalid_role")
)

var allRoles = map[Role]struct{}{
	RoleSystemAdmin:         {},
	RoleRegionalAdmin:       {},
	RoleDistrictAdmin:       {},
	RoleFinanceOfficer:      {},
	RoleCollector:           {},
	RoleAuditor:             {},
	RoleBusinessOwner:       {},
	RoleMonitoringBody:      {},
	RoleRegistrationOfficer: {},
}

// ParseRole validates a raw role string against the closed role set.
func ParseRole(raw string) (Role, error) {
	role := Role(strings.TrimSpace(strings.ToLower(raw)))
	if _, ok := allRoles[role]; !ok {
		return "", ErrInvalidRole
	}
	return role, nil
}

// NationalScope reports whether the role sees every district unfiltered.
func (r Role) NationalScope() bool {
	switch r {
	case RoleSystemAdmin, RoleAuditor, RoleMonitoringBody:
		return true
	default:
		return false
	}
}

// DistrictScoped reports whether the role is confined to a single district.
func (r Role) DistrictScoped() bool {
	switch r {
	case RoleDistrictAdmin, RoleFinanceOfficer, RoleCollector, RoleRegistrationOfficer:
		return true
	default:
		return false
	}
}

// Principal is the read-only identity supplied by the auth collaborator
// once per session. Region is populated for regional_admin; District for
// district-scoped roles.
type Principal struct {
	UserID   string
	Name     string
	Role     Role
	Region   string
	District string
}

// HasPermission checks the role's default permission set.
func (p Principal) HasPermission(permission string) bool {
	for _, granted := range DefaultPermissions(p.Role) {
		if granted == permission {
			return true
		}
	}
	return false
}
