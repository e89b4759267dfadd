package domain

// Application route paths. The core does not own route definitions; these
// mirror the admin UI's route table so the gate and CLI can reason about
// redirects.
const (
	RouteLogin            = "/login"
	RouteForgotPassword   = "/forgot-password"
	RouteResetPassword    = "/reset-password"
	RouteAcceptInvitation = "/accept-invitation"

	RouteDashboard = "/"

	RouteUsers       = "/users"
	RouteRoles       = "/users/roles"
	RoutePermissions = "/users/permissions"
	RouteInvitations = "/invitations"

	RouteProducts       = "/products"
	RouteCategories     = "/products/categories"
	RouteTags           = "/products/tags"
	RouteSpecifications = "/products/specifications"
	RoutePricingRules   = "/products/pricing-rules"

	RouteOrders = "/orders"

	RouteProduction        = "/production"
	RouteProductionBatches = "/production/batches"

	RouteCoupons = "/coupons"

	RouteAnalytics = "/analytics"
	RouteReports   = "/analytics/reports"

	RouteAuditLogs = "/audit-logs"

	RouteSettings        = "/settings"
	RoutePaymentSettings = "/settings/payments"
	RouteEmailSettings   = "/settings/email"
	RouteSystemSettings  = "/settings/system"
)

// PublicRoutes are the paths that render regardless of session status.
func PublicRoutes() []string {
	return []string{
		RouteLogin,
		RouteForgotPassword,
		RouteResetPassword,
		RouteAcceptInvitation,
	}
}

// MenuItem is one node of the declarative navigation tree supplied by the
// UI layer. A node with children and no path of its own is a pure group
// header and is dropped when all its children are filtered out.
type MenuItem struct {
	ID          string
	Label       string
	Path        string
	Permissions []string
	Children    []MenuItem
}

// FilterMenu prunes every node whose permission requirement fails CanAny
// for the given evaluator, recursing into children. Node order is
// preserved; the input tree is not modified.
func FilterMenu(items []MenuItem, ev Evaluator) []MenuItem {
	filtered := make([]MenuItem, 0, len(items))
	for _, item := range items {
		if !ev.CanAny(item.Permissions) {
			continue
		}

		item.Children = FilterMenu(item.Children, ev)
		if item.Path == "" && len(item.Children) == 0 {
			continue
		}

		filtered = append(filtered, item)
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

// DefaultMenu returns the admin sidebar tree with its permission
// requirements. It is static configuration, not computed state.
func DefaultMenu() []MenuItem {
	return []MenuItem{
		{
			ID:    "dashboard",
			Label: "Dashboard",
			Path:  RouteDashboard,
			// Everyone can see the dashboard.
			Permissions: nil,
		},
		{
			ID:          "users",
			Label:       "User Management",
			Permissions: []string{PermUserRead},
			Children: []MenuItem{
				{ID: "users-list", Label: "All Users", Path: RouteUsers, Permissions: []string{PermUserRead}},
				{ID: "invitations", Label: "Staff Invitations", Path: RouteInvitations, Permissions: []string{PermUserCreate}},
				{ID: "roles", Label: "Roles & Permissions", Path: RouteRoles, Permissions: []string{PermRoleRead}},
				{ID: "permissions", Label: "Permissions", Path: RoutePermissions, Permissions: []string{PermManageRoles}},
			},
		},
		{
			ID:          "products",
			Label:       "Products",
			Permissions: []string{PermProductRead},
			Children: []MenuItem{
				{ID: "products-list", Label: "All Products", Path: RouteProducts, Permissions: []string{PermProductRead}},
				{ID: "categories", Label: "Categories", Path: RouteCategories, Permissions: []string{PermCategoryRead}},
				{ID: "tags", Label: "Tags", Path: RouteTags, Permissions: []string{PermTagRead}},
				{ID: "specifications", Label: "Specifications", Path: RouteSpecifications, Permissions: []string{PermSpecificationRead}},
				{ID: "pricing-rules", Label: "Pricing Rules", Path: RoutePricingRules, Permissions: []string{PermPricingRuleRead}},
			},
		},
		{
			ID:          "orders",
			Label:       "Orders",
			Path:        RouteOrders,
			Permissions: []string{PermOrderRead},
		},
		{
			ID:          "production",
			Label:       "Production",
			Permissions: []string{PermProductionRead},
			Children: []MenuItem{
				{ID: "production-dashboard", Label: "Dashboard", Path: RouteProduction, Permissions: []string{PermProductionRead}},
				{ID: "production-batches", Label: "Batches", Path: RouteProductionBatches, Permissions: []string{PermProductionRead}},
			},
		},
		{
			ID:          "coupons",
			Label:       "Coupons",
			Path:        RouteCoupons,
			Permissions: []string{PermCouponRead},
		},
		{
			ID:          "analytics",
			Label:       "Analytics",
			Permissions: []string{PermAnalyticsRead},
			Children: []MenuItem{
				{ID: "analytics-dashboard", Label: "Dashboard", Path: RouteAnalytics, Permissions: []string{PermAnalyticsRead}},
				{ID: "reports", Label: "Reports", Path: RouteReports, Permissions: []string{PermReportsExport}},
			},
		},
		{
			ID:          "audit-logs",
			Label:       "Audit Logs",
			Path:        RouteAuditLogs,
			Permissions: []string{PermAuditRead},
		},
		{
			ID:          "settings",
			Label:       "Settings",
			Permissions: []string{PermSettingsRead},
			Children: []MenuItem{
				{ID: "general-settings", Label: "General", Path: RouteSettings, Permissions: []string{PermSettingsRead}},
				{ID: "payment-settings", Label: "Payments", Path: RoutePaymentSettings, Permissions: []string{PermSystemConfig}},
				{ID: "email-settings", Label: "Email", Path: RouteEmailSettings, Permissions: []string{PermSystemConfig}},
				{ID: "system-settings", Label: "System", Path: RouteSystemSettings, Permissions: []string{PermSystemConfig}},
			},
		},
	}
}
