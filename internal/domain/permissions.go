package domain

// Permission codes matching the backend RBAC system. A code is a
// "resource:action" string denoting one grantable capability.
const (
	// User management
	PermUserRead   = "user:read"
	PermUserCreate = "user:create"
	PermUserUpdate = "user:update"
	PermUserDelete = "user:delete"

	// Role management
	PermRoleRead   = "role:read"
	PermRoleCreate = "role:create"
	PermRoleUpdate = "role:update"
	PermRoleDelete = "role:delete"

	// Product management
	PermProductRead   = "product:read"
	PermProductCreate = "product:create"
	PermProductUpdate = "product:update"
	PermProductDelete = "product:delete"

	// Category management
	PermCategoryRead   = "category:read"
	PermCategoryCreate = "category:create"
	PermCategoryUpdate = "category:update"
	PermCategoryDelete = "category:delete"

	// Tag management
	PermTagRead   = "tag:read"
	PermTagCreate = "tag:create"
	PermTagUpdate = "tag:update"
	PermTagDelete = "tag:delete"

	// Specification management (materials, sizes, finishes, colors)
	PermSpecificationRead   = "specification:read"
	PermSpecificationCreate = "specification:create"
	PermSpecificationUpdate = "specification:update"
	PermSpecificationDelete = "specification:delete"

	// Pricing rule management
	PermPricingRuleRead   = "pricing_rule:read"
	PermPricingRuleCreate = "pricing_rule:create"
	PermPricingRuleUpdate = "pricing_rule:update"
	PermPricingRuleDelete = "pricing_rule:delete"

	// Order management
	PermOrderRead   = "order:read"
	PermOrderUpdate = "order:update"
	PermOrderCancel = "order:cancel"
	PermOrderRefund = "order:refund"

	// Production management
	PermProductionRead   = "production:read"
	PermProductionUpdate = "production:update"
	PermBatchCreate      = "batch:create"

	// Coupon management
	PermCouponRead   = "coupon:read"
	PermCouponCreate = "coupon:create"
	PermCouponUpdate = "coupon:update"
	PermCouponDelete = "coupon:delete"

	// Analytics
	PermAnalyticsRead = "analytics:read"
	PermReportsExport = "reports:export"

	// Audit logs
	PermAuditRead = "audit:read"

	// Settings
	PermSettingsRead   = "settings:read"
	PermSettingsUpdate = "settings:update"
	PermSystemConfig   = "system:config"

	// Permission management
	PermManageRoles = "system:manage_roles"
)

// Evaluator answers permission and role queries for one user. It is a pure
// value over (role, permission set): no I/O, no caching, safe to copy.
type Evaluator struct {
	role  Role
	perms map[string]struct{}
}

// NewEvaluator builds an evaluator from a role and its flattened
// permission codes.
func NewEvaluator(role Role, permissions []string) Evaluator {
	perms := make(map[string]struct{}, len(permissions))
	for _, p := range permissions {
		perms[p] = struct{}{}
	}
	return Evaluator{role: role, perms: perms}
}

// Role returns the evaluated role.
func (e Evaluator) Role() Role {
	return e.role
}

// Can reports whether the user holds the given permission code. An empty
// code means no requirement and is always allowed.
func (e Evaluator) Can(code string) bool {
	if code == "" {
		return true
	}
	if e.role.IsWildcard() {
		return true
	}
	_, ok := e.perms[code]
	return ok
}

// CanAny reports whether the user holds at least one of the given codes.
// An empty list is always allowed.
func (e Evaluator) CanAny(codes []string) bool {
	if len(codes) == 0 {
		return true
	}
	if e.role.IsWildcard() {
		return true
	}
	for _, code := range codes {
		if _, ok := e.perms[code]; ok {
			return true
		}
	}
	return false
}

// CanAll reports whether the user holds every one of the given codes.
// An empty list is always allowed.
func (e Evaluator) CanAll(codes []string) bool {
	if len(codes) == 0 {
		return true
	}
	if e.role.IsWildcard() {
		return true
	}
	for _, code := range codes {
		if _, ok := e.perms[code]; !ok {
			return false
		}
	}
	return true
}

// HasRole reports whether the user's role name equals target. An empty
// target means no requirement.
func (e Evaluator) HasRole(target string) bool {
	if target == "" {
		return true
	}
	return e.role.Name == target
}

// HasAnyRole reports whether the user's role name is in targets. An empty
// list means no requirement.
func (e Evaluator) HasAnyRole(targets ...string) bool {
	if len(targets) == 0 {
		return true
	}
	for _, t := range targets {
		if e.role.Name == t {
			return true
		}
	}
	return false
}

// HasMinRole reports whether the user's role ranks at least as high as the
// target role in the fixed hierarchy. Seniority is independent of the
// permission set; the two answer different questions.
func (e Evaluator) HasMinRole(target string) bool {
	return e.role.Rank() >= Role{Name: target}.Rank()
}

// IsSuperAdmin reports whether the user holds the wildcard role.
func (e Evaluator) IsSuperAdmin() bool {
	return e.role.IsWildcard()
}

// IsAdmin reports whether the user's role is admin or higher.
func (e Evaluator) IsAdmin() bool {
	return e.HasMinRole(RoleAdmin)
}
