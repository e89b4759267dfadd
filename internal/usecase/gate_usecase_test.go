package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iho/authgate/internal/domain"
	"github.com/iho/authgate/internal/usecase"
)

func TestGuard_Resolve(t *testing.T) {
	t.Parallel()

	guard := usecase.NewDefaultGuard()

	authenticated := domain.SessionSnapshot{
		Status: domain.StatusAuthenticated,
		User:   adminUser(),
	}
	unauthenticated := domain.SessionSnapshot{Status: domain.StatusUnauthenticated}
	checking := domain.SessionSnapshot{Status: domain.StatusChecking}
	unknown := domain.SessionSnapshot{Status: domain.StatusUnknown}

	tests := []struct {
		name string
		snap domain.SessionSnapshot
		path string
		want usecase.GuardDecision
	}{
		{
			name: "authenticated user renders protected path",
			snap: authenticated,
			path: domain.RouteOrders,
			want: usecase.GuardDecision{Outcome: usecase.GuardRender},
		},
		{
			name: "unauthenticated user is redirected with return path",
			snap: unauthenticated,
			path: domain.RouteOrders,
			want: usecase.GuardDecision{
				Outcome:    usecase.GuardRedirect,
				RedirectTo: domain.RouteLogin,
				ReturnTo:   domain.RouteOrders,
			},
		},
		{
			name: "public path renders while unauthenticated",
			snap: unauthenticated,
			path: domain.RouteLogin,
			want: usecase.GuardDecision{Outcome: usecase.GuardRender},
		},
		{
			name: "public path renders while authenticated",
			snap: authenticated,
			path: domain.RouteAcceptInvitation,
			want: usecase.GuardDecision{Outcome: usecase.GuardRender},
		},
		{
			name: "checking session holds rendering",
			snap: checking,
			path: domain.RouteDashboard,
			want: usecase.GuardDecision{Outcome: usecase.GuardWait},
		},
		{
			name: "unknown session holds rendering",
			snap: unknown,
			path: domain.RouteDashboard,
			want: usecase.GuardDecision{Outcome: usecase.GuardWait},
		},
		{
			name: "password reset is public",
			snap: unauthenticated,
			path: domain.RouteResetPassword,
			want: usecase.GuardDecision{Outcome: usecase.GuardRender},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, guard.Resolve(tt.snap, tt.path))
		})
	}
}

func TestGuard_MenuForUnauthenticatedSession(t *testing.T) {
	t.Parallel()

	guard := usecase.NewDefaultGuard()
	snap := domain.SessionSnapshot{Status: domain.StatusUnauthenticated}

	filtered := guard.Menu(snap, domain.DefaultMenu())

	// Only the permission-free dashboard entry survives.
	assert.Len(t, filtered, 1)
	assert.Equal(t, "dashboard", filtered[0].ID)
}

func TestGuard_MenuPrunesByPermission(t *testing.T) {
	t.Parallel()

	guard := usecase.NewDefaultGuard()
	snap := domain.SessionSnapshot{
		Status: domain.StatusAuthenticated,
		User: &domain.User{
			Role:        domain.Role{Name: domain.RoleSupportAgent},
			Permissions: []string{domain.PermOrderRead, domain.PermCouponRead},
		},
	}

	filtered := guard.Menu(snap, domain.DefaultMenu())

	ids := menuIDs(filtered)
	assert.Contains(t, ids, "orders")
	assert.Contains(t, ids, "coupons")
	assert.NotContains(t, ids, "users")
	assert.NotContains(t, ids, "settings")
}

func menuIDs(items []domain.MenuItem) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	return ids
}
