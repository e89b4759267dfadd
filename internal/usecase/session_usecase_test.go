package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/authgate/internal/domain"
	"github.com/iho/authgate/internal/usecase"
)

type stubStore struct {
	cred    domain.Credential
	getErr  error
	setErr  error
	clears  atomic.Int32
	cleared bool
}

func (s *stubStore) Get() (domain.Credential, error) {
	return s.cred, s.getErr
}

func (s *stubStore) Set(cred domain.Credential) error {
	if s.setErr != nil {
		return s.setErr
	}
	s.cred = cred
	return nil
}

func (s *stubStore) Clear() error {
	s.clears.Add(1)
	s.cleared = true
	s.cred = domain.Credential{}
	return nil
}

type stubAuthAPI struct {
	loginFn  func(ctx context.Context, email, password string) (*usecase.LoginSession, error)
	meFn     func(ctx context.Context) (*domain.User, error)
	logoutFn func(ctx context.Context) error

	meCalls     atomic.Int32
	logoutCalls atomic.Int32
}

func (s *stubAuthAPI) Login(ctx context.Context, email, password string) (*usecase.LoginSession, error) {
	if s.loginFn != nil {
		return s.loginFn(ctx, email, password)
	}
	return nil, errors.New("unexpected login call")
}

func (s *stubAuthAPI) Me(ctx context.Context) (*domain.User, error) {
	s.meCalls.Add(1)
	if s.meFn != nil {
		return s.meFn(ctx)
	}
	return nil, errors.New("unexpected me call")
}

func (s *stubAuthAPI) Logout(ctx context.Context) error {
	s.logoutCalls.Add(1)
	if s.logoutFn != nil {
		return s.logoutFn(ctx)
	}
	return nil
}

func adminUser() *domain.User {
	return &domain.User{
		ID:          "user-1",
		Email:       "a@b.com",
		FirstName:   "Ada",
		LastName:    "Admin",
		Role:        domain.Role{Name: domain.RoleAdmin},
		Permissions: []string{domain.PermOrderRead},
	}
}

func newSession(store usecase.CredentialStore, api usecase.AuthAPI) *usecase.SessionUseCase {
	return usecase.NewSessionUseCase(store, api, zerolog.Nop(), nil)
}

func TestBootstrap_NoCredentialSkipsNetwork(t *testing.T) {
	t.Parallel()

	api := &stubAuthAPI{}
	uc := newSession(&stubStore{}, api)

	snap := uc.Bootstrap(context.Background())

	assert.Equal(t, domain.StatusUnauthenticated, snap.Status)
	assert.Nil(t, snap.User)
	assert.Zero(t, api.meCalls.Load(), "bootstrap without credentials must not hit the network")
}

func TestBootstrap_ValidTokenAuthenticates(t *testing.T) {
	t.Parallel()

	store := &stubStore{cred: domain.Credential{AccessToken: "t1", RefreshToken: "r1"}}
	api := &stubAuthAPI{
		meFn: func(context.Context) (*domain.User, error) { return adminUser(), nil },
	}
	uc := newSession(store, api)

	snap := uc.Bootstrap(context.Background())

	require.Equal(t, domain.StatusAuthenticated, snap.Status)
	require.NotNil(t, snap.User)
	assert.Equal(t, "a@b.com", snap.User.Email)
}

func TestBootstrap_InvalidTokenClearsCredentials(t *testing.T) {
	t.Parallel()

	store := &stubStore{cred: domain.Credential{AccessToken: "stale"}}
	api := &stubAuthAPI{
		meFn: func(context.Context) (*domain.User, error) { return nil, domain.ErrUnauthorized },
	}
	uc := newSession(store, api)

	snap := uc.Bootstrap(context.Background())

	assert.Equal(t, domain.StatusUnauthenticated, snap.Status)
	assert.True(t, store.cleared)
}

func TestBootstrap_IsIdempotent(t *testing.T) {
	t.Parallel()

	store := &stubStore{cred: domain.Credential{AccessToken: "t1"}}
	api := &stubAuthAPI{
		meFn: func(context.Context) (*domain.User, error) { return adminUser(), nil },
	}
	uc := newSession(store, api)

	first := uc.Bootstrap(context.Background())
	second := uc.Bootstrap(context.Background())

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, int32(1), api.meCalls.Load(), "bootstrap must not re-run once settled")
}

func TestLogin_SuccessStoresCredentialPair(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	api := &stubAuthAPI{
		loginFn: func(_ context.Context, email, password string) (*usecase.LoginSession, error) {
			assert.Equal(t, "a@b.com", email)
			assert.Equal(t, "pw", password)
			return &usecase.LoginSession{
				Credential: domain.Credential{AccessToken: "t1", RefreshToken: "r1"},
				User:       adminUser(),
			}, nil
		},
	}
	uc := newSession(store, api)
	uc.Bootstrap(context.Background())

	res := uc.Login(context.Background(), "a@b.com", "pw")

	require.True(t, res.OK)
	assert.Equal(t, domain.Credential{AccessToken: "t1", RefreshToken: "r1"}, store.cred)

	snap := uc.Snapshot()
	assert.Equal(t, domain.StatusAuthenticated, snap.Status)
	assert.True(t, snap.Evaluator().Can(domain.PermOrderRead))
}

func TestLogin_FailureLeavesStateUnchanged(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	api := &stubAuthAPI{
		loginFn: func(context.Context, string, string) (*usecase.LoginSession, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	uc := newSession(store, api)
	uc.Bootstrap(context.Background())

	res := uc.Login(context.Background(), "a@b.com", "wrong")

	assert.False(t, res.OK)
	assert.Equal(t, "invalid email or password", res.Message)
	assert.Equal(t, domain.StatusUnauthenticated, uc.Snapshot().Status)
	assert.True(t, store.cred.IsZero())
}

func TestLogout_IsUnconditional(t *testing.T) {
	t.Parallel()

	store := &stubStore{cred: domain.Credential{AccessToken: "t1", RefreshToken: "r1"}}
	api := &stubAuthAPI{
		meFn: func(context.Context) (*domain.User, error) { return adminUser(), nil },
		logoutFn: func(context.Context) error {
			return errors.New("network down")
		},
	}
	uc := newSession(store, api)
	uc.Bootstrap(context.Background())
	require.Equal(t, domain.StatusAuthenticated, uc.Snapshot().Status)

	uc.Logout(context.Background())

	assert.Equal(t, int32(1), api.logoutCalls.Load())
	assert.True(t, store.cleared, "credentials must be cleared even when the logout call fails")
	assert.Equal(t, domain.StatusUnauthenticated, uc.Snapshot().Status)
	assert.Nil(t, uc.Snapshot().User)
}

func TestInvalidate_DropsSession(t *testing.T) {
	t.Parallel()

	store := &stubStore{cred: domain.Credential{AccessToken: "t1", RefreshToken: "r1"}}
	api := &stubAuthAPI{
		meFn: func(context.Context) (*domain.User, error) { return adminUser(), nil },
	}
	uc := newSession(store, api)
	uc.Bootstrap(context.Background())

	uc.Invalidate()

	assert.Equal(t, domain.StatusUnauthenticated, uc.Snapshot().Status)
	assert.True(t, store.cleared)
}

func TestSubscribe_ObservesTransitions(t *testing.T) {
	t.Parallel()

	store := &stubStore{}
	api := &stubAuthAPI{}
	uc := newSession(store, api)

	ch, cancel := uc.Subscribe()
	defer cancel()

	uc.Bootstrap(context.Background())

	snap := <-ch
	assert.Equal(t, domain.StatusUnauthenticated, snap.Status)
}
