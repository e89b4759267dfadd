package usecase

import (
	"github.com/iho/authgate/internal/domain"
)

// GuardOutcome tells the router layer what to do with a requested path.
type GuardOutcome int

const (
	// GuardRender means the view may be shown.
	GuardRender GuardOutcome = iota

	// GuardWait means the session is still being resolved; hold rendering.
	GuardWait

	// GuardRedirect means navigate to RedirectTo instead.
	GuardRedirect
)

// GuardDecision is the route guard's answer for one requested path. For a
// redirect, ReturnTo carries the originally requested path so a successful
// login can send the user back there.
type GuardDecision struct {
	Outcome    GuardOutcome
	RedirectTo string
	ReturnTo   string
}

// Guard classifies requested paths as public or protected and computes
// redirects. It holds no session state itself; the caller supplies a
// snapshot on every query, keeping the guard testable without a UI.
type Guard struct {
	loginPath string
	public    map[string]struct{}
}

// NewGuard creates a route guard over the caller-supplied public path set.
func NewGuard(loginPath string, publicPaths []string) *Guard {
	public := make(map[string]struct{}, len(publicPaths)+1)
	public[loginPath] = struct{}{}
	for _, p := range publicPaths {
		public[p] = struct{}{}
	}
	return &Guard{loginPath: loginPath, public: public}
}

// NewDefaultGuard creates a guard for the admin UI's route table.
func NewDefaultGuard() *Guard {
	return NewGuard(domain.RouteLogin, domain.PublicRoutes())
}

// Resolve decides whether the given path may render for the given session
// state. Public paths always render. Protected paths render only for an
// authenticated session; while the session is still resolving the caller
// should hold rendering rather than bounce the user to login.
func (g *Guard) Resolve(snap domain.SessionSnapshot, path string) GuardDecision {
	if _, ok := g.public[path]; ok {
		return GuardDecision{Outcome: GuardRender}
	}

	switch snap.Status {
	case domain.StatusAuthenticated:
		return GuardDecision{Outcome: GuardRender}
	case domain.StatusUnknown, domain.StatusChecking:
		return GuardDecision{Outcome: GuardWait}
	default:
		return GuardDecision{
			Outcome:    GuardRedirect,
			RedirectTo: g.loginPath,
			ReturnTo:   path,
		}
	}
}

// Menu filters a navigation tree down to the entries the session's user
// may see.
func (g *Guard) Menu(snap domain.SessionSnapshot, tree []domain.MenuItem) []domain.MenuItem {
	return domain.FilterMenu(tree, snap.Evaluator())
}
