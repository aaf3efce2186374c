package principal

import (
	"errors"
	"testing"
)

func TestParseRole(t *testing.T) {
	for _, raw := range []string{
		"system_admin", "regional_admin", "district_admin", "finance_officer",
		"collector", "auditor", "business_owner", "monitoring_body",
		"registration_officer",
	} {
		role, err := ParseRole(raw)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", raw, err)
		}
		if string(role) != raw {
			t.Fatalf("ParseRole(%q) = %q", raw, role)
		}
	}

	for _, raw := range []string{"", "superuser", "admin"} {
		if _, err := ParseRole(raw); !errors.Is(err, ErrInvalidRole) {
			t.Fatalf("ParseRole(%q): expected ErrInvalidRole, got %v", raw, err)
		}
	}

	// Header casing is normalized rather than rejected.
	if role, err := ParseRole(" System_Admin "); err != nil || role != RoleSystemAdmin {
		t.Fatalf("ParseRole normalization: got %q, %v", role, err)
	}
}

func TestScopeHelpers(t *testing.T) {
	national := []Role{RoleSystemAdmin, RoleAuditor, RoleMonitoringBody}
	for _, r := range national {
		if !r.NationalScope() {
			t.Fatalf("%s should be national scope", r)
		}
		if r.DistrictScoped() {
			t.Fatalf("%s should not be district scoped", r)
		}
	}

	district := []Role{RoleDistrictAdmin, RoleFinanceOfficer, RoleCollector, RoleRegistrationOfficer}
	for _, r := range district {
		if !r.DistrictScoped() {
			t.Fatalf("%s should be district scoped", r)
		}
		if r.NationalScope() {
			t.Fatalf("%s should not be national scope", r)
		}
	}

	// Regional admins and business owners are neither: they scope by
	// region and by ownership respectively.
	for _, r := range []Role{RoleRegionalAdmin, RoleBusinessOwner} {
		if r.NationalScope() || r.DistrictScoped() {
			t.Fatalf("%s should be neither national nor district scoped", r)
		}
	}
}

func TestDefaultPermissions(t *testing.T) {
	collector := Principal{UserID: "u1", Role: RoleCollector}
	if !collector.HasPermission(PermRecordPayment) {
		t.Fatalf("collector should record payments")
	}
	if collector.HasPermission(PermValidatePayment) {
		t.Fatalf("collector must not validate payments")
	}

	finance := Principal{UserID: "u2", Role: RoleFinanceOfficer}
	if !finance.HasPermission(PermValidatePayment) {
		t.Fatalf("finance officer should validate payments")
	}

	regional := Principal{UserID: "u3", Role: RoleRegionalAdmin}
	if !regional.HasPermission(PermCreateDistrict) {
		t.Fatalf("regional admin should onboard assemblies")
	}

	// DefaultPermissions hands out copies; mutating one must not leak.
	perms := DefaultPermissions(RoleCollector)
	if len(perms) == 0 {
		t.Fatalf("collector permission set empty")
	}
	perms[0] = "tampered"
	if DefaultPermissions(RoleCollector)[0] == "tampered" {
		t.Fatalf("DefaultPermissions returned shared backing array")
	}
}
