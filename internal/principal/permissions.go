package principal

// Well-known permission names used by route gates.
const (
	PermViewDashboard            = "view_dashboard"
	PermManageUsers              = "manage_users"
	PermCreateDistrict           = "create_mmda"
	PermEditDistrict             = "edit_mmda"
	PermViewAllDistricts         = "view_all_mmdas"
	PermRegisterBusiness         = "register_business"
	PermEditBusiness             = "edit_business"
	PermViewBusiness             = "view_business"
	PermViewMyBusiness           = "view_my_business"
	PermCreateRevenueType        = "create_revenue_type"
	PermEditRevenueType          = "edit_revenue_type"
	PermViewRevenueTypes         = "view_revenue_types"
	PermAssignCollector          = "assign_collector"
	PermViewAssignments          = "view_assignments"
	PermViewMyAssignments        = "view_my_assignments"
	PermRecordPayment            = "record_payment"
	PermValidatePayment          = "validate_payment"
	PermViewCollections          = "view_collections"
	PermViewMyCollections        = "view_my_collections"
	PermMakePayment              = "make_payment"
	PermViewMyPayments           = "view_my_payments"
	PermViewReports              = "view_reports"
	PermExportReports            = "export_reports"
	PermViewCollectorPerformance = "view_collector_performance"
	PermViewAuditLogs            = "view_audit_logs"
)

var rolePermissions = map[Role][]string{
	RoleSystemAdmin: {
		PermViewDashboard, PermManageUsers, "view_users", "assign_roles",
		PermCreateDistrict, PermEditDistrict, "deactivate_mmda", PermViewAllDistricts,
		PermRegisterBusiness, PermEditBusiness, "delete_business", PermViewBusiness, PermViewMyBusiness,
		PermCreateRevenueType, PermEditRevenueType, "delete_revenue_type", PermViewRevenueTypes,
		PermAssignCollector, "edit_assignment", "delete_assignment", PermViewAssignments, PermViewMyAssignments,
		PermRecordPayment, "edit_payment", "delete_payment", PermValidatePayment,
		PermViewCollections, PermViewMyCollections, PermMakePayment, PermViewMyPayments, "generate_receipt",
		PermViewReports, PermExportReports, PermViewCollectorPerformance,
		PermViewAuditLogs, "search_logs", "flag_irregularities",
		"view_own_profile", "change_password", "set_notifications", "view_notifications", "send_notifications",
	},
	RoleDistrictAdmin: {
		PermViewDashboard, PermManageUsers, "view_users", "assign_roles", PermEditDistrict,
		PermRegisterBusiness, PermEditBusiness, "delete_business", PermViewBusiness,
		PermCreateRevenueType, PermEditRevenueType, "delete_revenue_type", PermViewRevenueTypes,
		PermAssignCollector, "edit_assignment", "delete_assignment", PermViewAssignments,
		PermValidatePayment, PermViewCollections,
		PermViewReports, PermExportReports, PermViewCollectorPerformance,
		PermViewAuditLogs, "search_logs",
		"view_own_profile", "change_password", "set_notifications", "view_notifications", "send_notifications",
	},
	RoleRegistrationOfficer: {
		PermViewDashboard, PermRegisterBusiness, PermEditBusiness, PermViewBusiness,
		PermViewRevenueTypes, PermViewReports,
		"view_own_profile", "change_password", "set_notifications", "view_notifications",
	},
	RoleFinanceOfficer: {
		PermViewDashboard, "view_users", PermViewBusiness,
		PermCreateRevenueType, PermEditRevenueType, PermViewRevenueTypes,
		PermValidatePayment, PermViewCollections,
		PermViewReports, PermExportReports, PermViewCollectorPerformance,
		PermViewAuditLogs, "search_logs",
		"view_own_profile", "change_password", "set_notifications", "view_notifications",
	},
	RoleCollector: {
		PermViewDashboard, PermViewBusiness, PermViewMyBusiness, PermViewMyAssignments,
		PermRecordPayment, "edit_payment", PermViewMyCollections, "generate_receipt",
		"view_own_profile", "change_password", "set_notifications", "view_notifications",
	},
	RoleAuditor: {
		PermViewDashboard, PermViewBusiness, PermViewRevenueTypes, PermViewAssignments,
		PermViewCollections, PermViewReports, PermExportReports, PermViewCollectorPerformance,
		PermViewAuditLogs, "search_logs", "flag_irregularities",
		"view_own_profile", "change_password", "set_notifications", "view_notifications",
	},
	RoleBusinessOwner: {
		PermViewDashboard, PermViewMyBusiness, PermViewMyPayments, PermMakePayment, "generate_receipt",
		"view_own_profile", "change_password", "set_notifications", "view_notifications",
	},
	RoleMonitoringBody: {
		PermViewDashboard, PermViewAllDistricts, PermViewBusiness, PermViewRevenueTypes,
		PermViewAssignments, PermViewCollections,
		PermViewReports, PermExportReports, PermViewCollectorPerformance,
		PermViewAuditLogs, "search_logs",
		"view_own_profile", "change_password", "set_notifications", "view_notifications",
	},
	RoleRegionalAdmin: {
		PermViewDashboard, PermManageUsers, "view_users", "assign_roles",
		PermCreateDistrict, PermEditDistrict, "deactivate_mmda", PermViewAllDistricts,
		PermRegisterBusiness, PermEditBusiness, "delete_business", PermViewBusiness,
		PermCreateRevenueType, PermEditRevenueType, "delete_revenue_type", PermViewRevenueTypes,
		PermAssignCollector, "edit_assignment", "delete_assignment", PermViewAssignments,
		PermValidatePayment, PermViewCollections,
		PermViewReports, PermExportReports, PermViewCollectorPerformance,
		PermViewAuditLogs, "search_logs",
		"view_own_profile", "change_password", "set_notifications", "view_notifications", "send_notifications",
	},
}

// DefaultPermissions returns the permission set granted to a role.
// The returned slice is a copy; callers may not mutate the catalog.
func DefaultPermissions(role Role) []string {
	granted, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(granted))
	copy(out, granted)
	return out
}
