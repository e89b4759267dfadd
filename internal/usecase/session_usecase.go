package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/authgate/internal/domain"
	"github.com/iho/authgate/internal/infrastructure/metrics"
)

// SessionUseCase is the session state machine: the single source of truth
// for the current user, derived permission set, and authentication status.
// All mutation goes through it; consumers read snapshots or subscribe.
type SessionUseCase struct {
	store   CredentialStore
	api     AuthAPI
	logger  zerolog.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	status  domain.SessionStatus
	user    *domain.User
	subs    map[int]chan domain.SessionSnapshot
	nextSub int
}

// NewSessionUseCase creates a session state machine in the Unknown state.
// The metrics argument may be nil.
func NewSessionUseCase(store CredentialStore, api AuthAPI, logger zerolog.Logger, m *metrics.Metrics) *SessionUseCase {
	return &SessionUseCase{
		store:   store,
		api:     api,
		logger:  logger,
		metrics: m,
		status:  domain.StatusUnknown,
		subs:    make(map[int]chan domain.SessionSnapshot),
	}
}

// Snapshot returns the current session state.
func (uc *SessionUseCase) Snapshot() domain.SessionSnapshot {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.snapshotLocked()
}

// Evaluator returns a permission evaluator for the current user.
func (uc *SessionUseCase) Evaluator() domain.Evaluator {
	return uc.Snapshot().Evaluator()
}

// Subscribe registers an observer for state transitions. The returned
// cancel function must be called to release the subscription. Slow
// consumers miss intermediate snapshots rather than blocking transitions.
func (uc *SessionUseCase) Subscribe() (<-chan domain.SessionSnapshot, func()) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	id := uc.nextSub
	uc.nextSub++

	ch := make(chan domain.SessionSnapshot, 8)
	uc.subs[id] = ch

	cancel := func() {
		uc.mu.Lock()
		defer uc.mu.Unlock()
		if sub, ok := uc.subs[id]; ok {
			delete(uc.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}

// Bootstrap resolves the initial session state. With no stored access
// token it settles to Unauthenticated synchronously, without any network
// call. Otherwise it verifies the stored token via /auth/me, refreshing
// through the pipeline if needed. Bootstrap is idempotent: once the status
// has left Unknown it returns the current snapshot unchanged.
func (uc *SessionUseCase) Bootstrap(ctx context.Context) domain.SessionSnapshot {
	uc.mu.Lock()
	if uc.status != domain.StatusUnknown {
		snap := uc.snapshotLocked()
		uc.mu.Unlock()
		return snap
	}

	cred, err := uc.store.Get()
	if err != nil {
		uc.logger.Warn().Err(err).Msg("credential store read failed")
	}
	if cred.AccessToken == "" {
		snap := uc.setStateLocked(domain.StatusUnauthenticated, nil)
		uc.mu.Unlock()
		return snap
	}

	uc.setStateLocked(domain.StatusChecking, nil)
	uc.mu.Unlock()

	user, err := uc.api.Me(ctx)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	// A logout may have raced the bootstrap round-trip.
	if uc.status != domain.StatusChecking {
		return uc.snapshotLocked()
	}

	if err != nil {
		uc.logger.Info().Err(err).Msg("session bootstrap failed, clearing credentials")
		uc.clearCredentialsLocked()
		return uc.setStateLocked(domain.StatusUnauthenticated, nil)
	}

	return uc.setStateLocked(domain.StatusAuthenticated, user)
}

// LoginResult is the outcome of a login attempt. A rejected login is an
// expected result, not a fault: OK is false and Message carries a
// human-readable reason for the login form.
type LoginResult struct {
	OK      bool
	Message string
	User    *domain.User
}

// userFacing is implemented by transport errors carrying a message that is
// safe to surface in the login form.
type userFacing interface {
	UserMessage() string
}

// Login exchanges credentials for a token pair. On success the pair is
// persisted and the session becomes Authenticated. On failure the previous
// state is restored untouched.
func (uc *SessionUseCase) Login(ctx context.Context, email, password string) LoginResult {
	uc.mu.Lock()
	prevStatus, prevUser := uc.status, uc.user
	uc.setStateLocked(domain.StatusChecking, nil)
	uc.mu.Unlock()

	sess, err := uc.api.Login(ctx, email, password)

	uc.mu.Lock()
	defer uc.mu.Unlock()

	if err != nil {
		if prevStatus == domain.StatusUnknown || prevStatus == domain.StatusChecking {
			prevStatus, prevUser = domain.StatusUnauthenticated, nil
		}
		uc.setStateLocked(prevStatus, prevUser)
		if uc.metrics != nil {
			uc.metrics.LoginAttempts.WithLabelValues("failure").Inc()
		}
		return LoginResult{Message: loginMessage(err)}
	}

	if err := uc.store.Set(sess.Credential); err != nil {
		// The session still works in-process; only reload survival is lost.
		uc.logger.Warn().Err(err).Msg("failed to persist credentials")
	}

	uc.setStateLocked(domain.StatusAuthenticated, sess.User)
	if uc.metrics != nil {
		uc.metrics.LoginAttempts.WithLabelValues("success").Inc()
	}

	return LoginResult{OK: true, User: sess.User}
}

// Logout ends the session. The network call is best-effort: its failure is
// logged and swallowed, and credentials are cleared unconditionally so the
// client never stays in an authenticated-looking state.
func (uc *SessionUseCase) Logout(ctx context.Context) {
	if err := uc.api.Logout(ctx); err != nil {
		uc.logger.Warn().Err(err).Msg("logout request failed, clearing session anyway")
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.clearCredentialsLocked()
	uc.setStateLocked(domain.StatusUnauthenticated, nil)
}

// Invalidate drops the local session after an unrecoverable authorization
// failure, typically wired as the request pipeline's session-expiry
// handler.
func (uc *SessionUseCase) Invalidate() {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.clearCredentialsLocked()
	uc.setStateLocked(domain.StatusUnauthenticated, nil)
}

func (uc *SessionUseCase) snapshotLocked() domain.SessionSnapshot {
	return domain.SessionSnapshot{Status: uc.status, User: uc.user}
}

func (uc *SessionUseCase) clearCredentialsLocked() {
	if err := uc.store.Clear(); err != nil {
		uc.logger.Warn().Err(err).Msg("failed to clear credentials")
	}
}

func (uc *SessionUseCase) setStateLocked(status domain.SessionStatus, user *domain.User) domain.SessionSnapshot {
	uc.status = status
	uc.user = user
	snap := uc.snapshotLocked()

	uc.logger.Debug().Stringer("status", status).Msg("session transition")
	if uc.metrics != nil {
		uc.metrics.SessionTransitions.WithLabelValues(status.String()).Inc()
	}

	for _, sub := range uc.subs {
		select {
		case sub <- snap:
		default:
		}
	}

	return snap
}

func loginMessage(err error) string {
	var uf userFacing
	if errors.As(err, &uf) && uf.UserMessage() != "" {
		return uf.UserMessage()
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return domain.ErrInvalidCredentials.Error()
	}
	return "login failed, please try again"
}
