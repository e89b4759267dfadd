package domain

// User represents the authenticated admin user as returned by the backend.
// Permissions is a snapshot of the codes granted to the user's role at the
// time of the last fetch; it is refreshed only by re-fetching the user.
type User struct {
	ID          string
	Email       string
	FirstName   string
	LastName    string
	Role        Role
	Permissions []string
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

// Role identifies a user's role in the fixed hierarchy.
type Role struct {
	Name     string
	IsSystem bool
}

// Role names known to the backend RBAC system.
const (
	RoleSuperAdmin         = "super_admin"
	RoleAdmin              = "admin"
	RoleProductionOperator = "production_operator"
	RoleSupportAgent       = "support_agent"
	RoleContentManager     = "content_manager"
)

// roleHierarchy orders roles by seniority, lowest first. The rank is used
// only for HasMinRole comparisons, never for permission derivation.
var roleHierarchy = []string{
	RoleContentManager,
	RoleSupportAgent,
	RoleProductionOperator,
	RoleAdmin,
	RoleSuperAdmin,
}

// Rank returns the role's position in the hierarchy. Roles outside the
// hierarchy rank below every defined role.
func (r Role) Rank() int {
	for i, name := range roleHierarchy {
		if name == r.Name {
			return i
		}
	}
	return -1
}

// IsValid reports whether the role belongs to the fixed hierarchy.
func (r Role) IsValid() bool {
	return r.Rank() >= 0
}

// IsWildcard reports whether the role is granted every permission
// regardless of its explicit permission set.
func (r Role) IsWildcard() bool {
	return r.Name == RoleSuperAdmin
}
