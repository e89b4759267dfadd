package testutil

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	adaptershttp "github.com/iho/authgate/internal/adapter/http"
	"github.com/iho/authgate/internal/adapter/http/handler"
	"github.com/iho/authgate/internal/adapter/repository/memory"
	"github.com/iho/authgate/internal/infrastructure/auth"
)

// Seeded account credentials available on every test server.
const (
	AdminEmail    = "admin@example.com"
	OperatorEmail = "ops@example.com"
	SupportEmail  = "support@example.com"
	RootEmail     = "root@example.com"
	Password      = "password123!"
)

// TestServer is an in-process auth server backed by the seeded in-memory
// repositories.
type TestServer struct {
	Server     *httptest.Server
	Users      *memory.UserRepository
	Refresh    *memory.RefreshTokenStore
	JWTManager *auth.JWTManager
}

// NewTestServer starts a reference auth server on a loopback listener.
// accessTTL controls token lifetime; a negative value makes every issued
// access token already expired, which is handy for refresh tests.
func NewTestServer(t *testing.T, accessTTL time.Duration) *TestServer {
	t.Helper()

	users, err := memory.NewUserRepository()
	if err != nil {
		t.Fatalf("failed to seed users: %v", err)
	}

	jwtManager := auth.NewJWTManager("integration-secret", accessTTL)
	refresh := memory.NewRefreshTokenStore(time.Hour)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AuthHandler:   handler.NewAuthHandler(users, refresh, jwtManager, zerolog.Nop(), nil),
		HealthHandler: handler.NewHealthHandler(),
		JWTManager:    jwtManager,
		Logger:        zerolog.Nop(),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &TestServer{
		Server:     srv,
		Users:      users,
		Refresh:    refresh,
		JWTManager: jwtManager,
	}
}

// URL returns the server's base URL.
func (s *TestServer) URL() string {
	return s.Server.URL
}
