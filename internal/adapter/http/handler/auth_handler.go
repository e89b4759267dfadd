package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/authgate/internal/adapter/http/dto"
	"github.com/iho/authgate/internal/adapter/http/middleware"
	"github.com/iho/authgate/internal/adapter/repository/memory"
	"github.com/iho/authgate/internal/domain"
	"github.com/iho/authgate/internal/infrastructure/auth"
	"github.com/iho/authgate/internal/infrastructure/metrics"
)

// AuthHandler serves the authentication endpoints: login, refresh, me and
// logout. Refresh tokens are opaque and single use; every successful
// redemption rotates the pair.
type AuthHandler struct {
	users      *memory.UserRepository
	refresh    *memory.RefreshTokenStore
	jwtManager *auth.JWTManager
	logger     zerolog.Logger
	metrics    *metrics.Metrics
}

// NewAuthHandler creates a new auth handler. metrics may be nil.
func NewAuthHandler(
	users *memory.UserRepository,
	refresh *memory.RefreshTokenStore,
	jwtManager *auth.JWTManager,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *AuthHandler {
	return &AuthHandler{
		users:      users,
		refresh:    refresh,
		jwtManager: jwtManager,
		logger:     logger,
		metrics:    m,
	}
}

// Login authenticates an email/password pair and issues a token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := domain.ValidateEmail(req.Email); err != nil {
		h.countAuth("login", "invalid_request")
		writeError(w, http.StatusBadRequest, "invalid email", err.Error())
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.countAuth("login", "invalid_credentials")
			h.logger.Info().Str("email", req.Email).Msg("login rejected")
			writeError(w, http.StatusUnauthorized, "invalid credentials", "Invalid email or password")
			return
		}
		h.countAuth("login", "error")
		writeError(w, mapDomainError(err), "login failed", "")
		return
	}

	accessToken, err := h.jwtManager.Generate(user)
	if err != nil {
		h.countAuth("login", "error")
		writeError(w, http.StatusInternalServerError, "failed to generate token", "")
		return
	}

	refreshToken, err := h.refresh.Issue(user.ID)
	if err != nil {
		h.countAuth("login", "error")
		writeError(w, http.StatusInternalServerError, "failed to issue refresh token", "")
		return
	}

	h.countAuth("login", "success")
	h.logger.Info().Str("user_id", user.ID).Str("role", user.Role.Name).Msg("login succeeded")

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         dto.UserFromDomain(user),
	})
}

// Refresh redeems a refresh token for a new token pair. The presented
// token is consumed even when redemption fails, so a stolen token cannot
// be replayed.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.RefreshToken == "" {
		h.countAuth("refresh", "invalid_request")
		writeError(w, http.StatusBadRequest, "missing refresh token", "")
		return
	}

	userID, err := h.refresh.Redeem(req.RefreshToken)
	if err != nil {
		h.countAuth("refresh", "rejected")
		h.logger.Info().Err(err).Msg("refresh token rejected")
		writeError(w, http.StatusUnauthorized, "invalid refresh token", "Session expired, please log in again")
		return
	}

	user, err := h.users.GetByID(r.Context(), userID)
	if err != nil {
		h.countAuth("refresh", "rejected")
		writeError(w, http.StatusUnauthorized, "unknown user", "")
		return
	}

	accessToken, err := h.jwtManager.Generate(user)
	if err != nil {
		h.countAuth("refresh", "error")
		writeError(w, http.StatusInternalServerError, "failed to generate token", "")
		return
	}

	rotated, err := h.refresh.Issue(user.ID)
	if err != nil {
		h.countAuth("refresh", "error")
		writeError(w, http.StatusInternalServerError, "failed to rotate refresh token", "")
		return
	}

	h.countAuth("refresh", "success")

	writeJSON(w, http.StatusOK, dto.RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: rotated,
	})
}

// Me returns the authenticated user with the full permission set. The
// token only carries identity and role; permissions are resolved here so
// grant changes take effect without reissuing tokens.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, mapDomainError(err), "user not found", "")
		return
	}

	writeJSON(w, http.StatusOK, dto.UserFromDomain(user))
}

// Logout revokes the presented refresh token. The body is optional: a
// client that lost its refresh token can still log out and the call
// succeeds.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	var req dto.RefreshRequest
	// An empty or malformed body is fine here.
	_ = json.NewDecoder(r.Body).Decode(&req)

	if req.RefreshToken != "" {
		h.refresh.Revoke(req.RefreshToken)
	}

	h.countAuth("logout", "success")
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) countAuth(endpoint, outcome string) {
	if h.metrics != nil {
		h.metrics.AuthAttempts.WithLabelValues(endpoint, outcome).Inc()
	}
}
