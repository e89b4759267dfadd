package integration

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/authgate/internal/adapter/api"
	"github.com/iho/authgate/internal/adapter/credstore"
	"github.com/iho/authgate/internal/domain"
	"github.com/iho/authgate/internal/usecase"
	"github.com/iho/authgate/tests/testutil"
)

// newSession wires a client session against the given server with an
// in-memory credential store.
func newSession(ts *testutil.TestServer) (*usecase.SessionUseCase, *credstore.Memory) {
	store := credstore.NewMemory()

	var session *usecase.SessionUseCase
	client := api.NewClient(ts.URL(), store, zerolog.Nop(),
		api.WithSessionExpiredHandler(func() {
			session.Invalidate()
		}),
	)
	session = usecase.NewSessionUseCase(store, client, zerolog.Nop(), nil)

	return session, store
}

func TestSessionFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	t.Run("bootstrap without stored credential", func(t *testing.T) {
		ts := testutil.NewTestServer(t, 15*time.Minute)
		session, _ := newSession(ts)

		snap := session.Bootstrap(ctx)
		assert.Equal(t, domain.StatusUnauthenticated, snap.Status)
		assert.Nil(t, snap.User)
	})

	t.Run("login then whoami then logout", func(t *testing.T) {
		ts := testutil.NewTestServer(t, 15*time.Minute)
		session, store := newSession(ts)

		result := session.Login(ctx, testutil.AdminEmail, testutil.Password)
		require.True(t, result.OK, result.Message)
		require.NotNil(t, result.User)
		assert.Equal(t, domain.RoleAdmin, result.User.Role.Name)

		cred, err := store.Get()
		require.NoError(t, err)
		assert.NotEmpty(t, cred.AccessToken)
		assert.NotEmpty(t, cred.RefreshToken)

		snap := session.Snapshot()
		require.Equal(t, domain.StatusAuthenticated, snap.Status)
		assert.True(t, snap.Evaluator().Can(domain.PermUserRead))

		session.Logout(ctx)

		snap = session.Snapshot()
		assert.Equal(t, domain.StatusUnauthenticated, snap.Status)

		cred, err = store.Get()
		require.NoError(t, err)
		assert.True(t, cred.IsZero())
	})

	t.Run("login rejected with wrong password", func(t *testing.T) {
		ts := testutil.NewTestServer(t, 15*time.Minute)
		session, store := newSession(ts)

		result := session.Login(ctx, testutil.AdminEmail, "wrong-password")
		require.False(t, result.OK)
		assert.Equal(t, "Invalid email or password", result.Message)

		cred, err := store.Get()
		require.NoError(t, err)
		assert.True(t, cred.IsZero())
	})

	t.Run("bootstrap restores session from stored credential", func(t *testing.T) {
		ts := testutil.NewTestServer(t, 15*time.Minute)
		session, store := newSession(ts)

		result := session.Login(ctx, testutil.OperatorEmail, testutil.Password)
		require.True(t, result.OK)

		// A new process with the same store.
		restored, _ := newSessionWithStore(ts, store)
		snap := restored.Bootstrap(ctx)
		require.Equal(t, domain.StatusAuthenticated, snap.Status)
		assert.Equal(t, testutil.OperatorEmail, snap.User.Email)
	})

	t.Run("bootstrap refreshes a stale access token", func(t *testing.T) {
		ts := testutil.NewTestServer(t, 15*time.Minute)
		session, store := newSession(ts)

		result := session.Login(ctx, testutil.AdminEmail, testutil.Password)
		require.True(t, result.OK)

		before := staleAccessToken(t, store)

		restored, _ := newSessionWithStore(ts, store)
		snap := restored.Bootstrap(ctx)
		require.Equal(t, domain.StatusAuthenticated, snap.Status)
		assert.Equal(t, testutil.AdminEmail, snap.User.Email)

		after, err := store.Get()
		require.NoError(t, err)
		assert.NotEqual(t, before.AccessToken, after.AccessToken)
		assert.NotEqual(t, before.RefreshToken, after.RefreshToken, "refresh token should rotate")
	})

	t.Run("revoked refresh token expires the session", func(t *testing.T) {
		ts := testutil.NewTestServer(t, 15*time.Minute)
		session, store := newSession(ts)

		result := session.Login(ctx, testutil.AdminEmail, testutil.Password)
		require.True(t, result.OK)

		cred := staleAccessToken(t, store)
		ts.Refresh.Revoke(cred.RefreshToken)

		restored, _ := newSessionWithStore(ts, store)
		snap := restored.Bootstrap(ctx)
		assert.Equal(t, domain.StatusUnauthenticated, snap.Status)

		cred, err := store.Get()
		require.NoError(t, err)
		assert.True(t, cred.IsZero(), "credentials should be cleared after rejected refresh")
	})

	t.Run("menu reflects the authenticated role", func(t *testing.T) {
		ts := testutil.NewTestServer(t, 15*time.Minute)
		session, _ := newSession(ts)

		result := session.Login(ctx, testutil.SupportEmail, testutil.Password)
		require.True(t, result.OK)

		guard := usecase.NewDefaultGuard()
		menu := guard.Menu(session.Snapshot(), domain.DefaultMenu())

		labels := make([]string, 0, len(menu))
		for _, item := range menu {
			labels = append(labels, item.Label)
		}
		assert.Contains(t, labels, "Orders")
		assert.NotContains(t, labels, "Settings")
	})
}

// staleAccessToken replaces the stored access token with one the server
// will reject, simulating expiry while keeping the refresh token valid.
// It returns the tampered credential.
func staleAccessToken(t *testing.T, store usecase.CredentialStore) domain.Credential {
	t.Helper()

	cred, err := store.Get()
	require.NoError(t, err)
	require.NotEmpty(t, cred.RefreshToken)

	cred.AccessToken = "stale." + cred.AccessToken
	require.NoError(t, store.Set(cred))
	return cred
}

func newSessionWithStore(ts *testutil.TestServer, store usecase.CredentialStore) (*usecase.SessionUseCase, usecase.CredentialStore) {
	var session *usecase.SessionUseCase
	client := api.NewClient(ts.URL(), store, zerolog.Nop(),
		api.WithSessionExpiredHandler(func() {
			session.Invalidate()
		}),
	)
	session = usecase.NewSessionUseCase(store, client, zerolog.Nop(), nil)
	return session, store
}
