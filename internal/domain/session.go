package domain

// SessionStatus is the authentication state of the client session.
type SessionStatus int

const (
	// StatusUnknown is the initial state before Bootstrap has run.
	StatusUnknown SessionStatus = iota

	// StatusChecking means a bootstrap or login round-trip is in flight.
	StatusChecking

	// StatusAuthenticated means a user is loaded; Snapshot.User is non-nil.
	StatusAuthenticated

	// StatusUnauthenticated means no valid session exists.
	StatusUnauthenticated
)

// String returns a human-readable status name.
func (s SessionStatus) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusChecking:
		return "checking"
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "invalid"
	}
}

// SessionSnapshot is a point-in-time view of the session state machine.
// Invariant: Status == StatusAuthenticated iff User != nil.
type SessionSnapshot struct {
	Status SessionStatus
	User   *User
}

// Evaluator returns a permission evaluator for the snapshot's user. An
// unauthenticated snapshot yields an evaluator that denies every
// non-empty requirement.
func (s SessionSnapshot) Evaluator() Evaluator {
	if s.User == nil {
		return NewEvaluator(Role{}, nil)
	}
	return NewEvaluator(s.User.Role, s.User.Permissions)
}
