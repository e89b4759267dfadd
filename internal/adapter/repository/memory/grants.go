package memory

import "github.com/iho/authgate/internal/domain"

// defaultGrants maps each role to the flattened permission codes it is
// granted. super_admin is absent on purpose: it is the wildcard role and
// never needs explicit grants.
var defaultGrants = map[string][]string{
	domain.RoleAdmin: {
		domain.PermUserRead, domain.PermUserCreate, domain.PermUserUpdate, domain.PermUserDelete,
		domain.PermRoleRead, domain.PermRoleCreate, domain.PermRoleUpdate,
		domain.PermProductRead, domain.PermProductCreate, domain.PermProductUpdate, domain.PermProductDelete,
		domain.PermCategoryRead, domain.PermCategoryCreate, domain.PermCategoryUpdate, domain.PermCategoryDelete,
		domain.PermTagRead, domain.PermTagCreate, domain.PermTagUpdate, domain.PermTagDelete,
		domain.PermSpecificationRead, domain.PermSpecificationCreate, domain.PermSpecificationUpdate, domain.PermSpecificationDelete,
		domain.PermPricingRuleRead, domain.PermPricingRuleCreate, domain.PermPricingRuleUpdate, domain.PermPricingRuleDelete,
		domain.PermOrderRead, domain.PermOrderUpdate, domain.PermOrderCancel, domain.PermOrderRefund,
		domain.PermProductionRead, domain.PermProductionUpdate, domain.PermBatchCreate,
		domain.PermCouponRead, domain.PermCouponCreate, domain.PermCouponUpdate, domain.PermCouponDelete,
		domain.PermAnalyticsRead, domain.PermReportsExport,
		domain.PermAuditRead,
		domain.PermSettingsRead, domain.PermSettingsUpdate,
	},
	domain.RoleProductionOperator: {
		domain.PermProductionRead, domain.PermProductionUpdate, domain.PermBatchCreate,
		domain.PermOrderRead,
		domain.PermProductRead, domain.PermSpecificationRead,
	},
	domain.RoleSupportAgent: {
		domain.PermOrderRead, domain.PermOrderUpdate, domain.PermOrderCancel,
		domain.PermCouponRead,
		domain.PermUserRead,
	},
	domain.RoleContentManager: {
		domain.PermProductRead, domain.PermProductCreate, domain.PermProductUpdate,
		domain.PermCategoryRead, domain.PermCategoryCreate, domain.PermCategoryUpdate,
		domain.PermTagRead, domain.PermTagCreate, domain.PermTagUpdate,
		domain.PermSpecificationRead, domain.PermSpecificationCreate, domain.PermSpecificationUpdate,
	},
}

// PermissionsForRole returns the flattened permission set granted to a
// role name.
func PermissionsForRole(name string) []string {
	grants := defaultGrants[name]
	out := make([]string, len(grants))
	copy(out, grants)
	return out
}
