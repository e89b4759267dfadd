package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/iho/authgate/internal/domain"
	"github.com/iho/authgate/internal/infrastructure/metrics"
	"github.com/iho/authgate/internal/usecase"
)

// Endpoint paths consumed by the client.
const (
	pathLogin   = "/auth/login"
	pathRefresh = "/auth/refresh"
	pathMe      = "/auth/me"
	pathLogout  = "/auth/logout"
)

// Client is the reauthenticating request pipeline: every outbound call
// goes through Do, which attaches the bearer token and, on a 401,
// performs one coordinated refresh and retries exactly once. Concurrent
// 401s share a single in-flight refresh; the singleflight group is the
// PendingRefresh handle, created on the first 401 and forgotten once the
// refresh settles.
type Client struct {
	baseURL string
	http    *http.Client
	store   usecase.CredentialStore
	logger  zerolog.Logger
	metrics *metrics.Metrics

	// onSessionExpired is invoked after an unrecoverable authorization
	// failure. The router layer decides what "go to login" means; the
	// pipeline never navigates on its own.
	onSessionExpired func()

	refresh singleflight.Group
}

// Option configures optional client dependencies.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithMetrics enables Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// WithSessionExpiredHandler sets the callback fired when the session is
// unrecoverably lost.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

// NewClient creates a request pipeline for the given API base URL.
func NewClient(baseURL string, store usecase.CredentialStore, logger zerolog.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   store,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do sends an API request with the stored bearer token attached. 2xx
// responses are decoded into out (which may be nil). A 401 triggers the
// single-flight refresh and exactly one retry; every other failure is
// returned to the caller untouched, including transport errors and
// timeouts, which never trigger a refresh.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	payload, err := marshalBody(body)
	if err != nil {
		return fmt.Errorf("encode request body: %w", err)
	}

	reqID := ulid.Make().String()

	cred, err := c.store.Get()
	if err != nil {
		c.logger.Warn().Err(err).Msg("credential store read failed, sending without token")
	}

	resp, err := c.dispatch(ctx, method, path, payload, cred.AccessToken, reqID)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return finish(resp, out)
	}

	// Keep the original failure: if recovery fails, this is what the
	// caller sees, never a synthetic error.
	origErr := newError(resp)

	token, err := c.reauthorize(ctx, cred)
	if err != nil {
		c.logger.Debug().Err(err).Str("request_id", reqID).Msg("reauthorization failed")
		return origErr
	}

	if c.metrics != nil {
		c.metrics.APIRetries.Inc()
	}
	c.logger.Debug().Str("request_id", reqID).Msg("retrying request with refreshed token")

	retry, err := c.dispatch(ctx, method, path, payload, token, reqID)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}

	// Exactly one retry: a second 401 propagates like any other error.
	return finish(retry, out)
}

// Get issues a GET request through the pipeline.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request through the pipeline.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request through the pipeline.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE request through the pipeline.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// Login exchanges credentials for a token pair. It bypasses the 401
// interception entirely: a rejected login is a final answer, not a reason
// to refresh.
func (c *Client) Login(ctx context.Context, email, password string) (*usecase.LoginSession, error) {
	payload, err := marshalBody(loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	resp, err := c.dispatch(ctx, http.MethodPost, pathLogin, payload, "", ulid.Make().String())
	if err != nil {
		return nil, fmt.Errorf("POST %s: %w", pathLogin, err)
	}

	var body loginResponse
	if err := finish(resp, &body); err != nil {
		return nil, err
	}

	return &usecase.LoginSession{
		Credential: domain.Credential{
			AccessToken:  body.AccessToken,
			RefreshToken: body.RefreshToken,
		},
		User: body.User.toDomain(),
	}, nil
}

// Me fetches the current user. It goes through the pipeline, so a stale
// access token with a live refresh token still resolves.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var payload userPayload
	if err := c.Get(ctx, pathMe, &payload); err != nil {
		return nil, err
	}
	return payload.toDomain(), nil
}

// Logout notifies the backend that the session is over.
func (c *Client) Logout(ctx context.Context) error {
	cred, err := c.store.Get()
	if err != nil || cred.RefreshToken == "" {
		return c.Post(ctx, pathLogout, nil, nil)
	}
	return c.Post(ctx, pathLogout, refreshRequest{RefreshToken: cred.RefreshToken}, nil)
}

// reauthorize obtains an access token strictly newer than the one that
// just 401ed. If another task already refreshed while this request was in
// flight, the stored token is reused without a second refresh; otherwise
// the caller joins or starts the shared refresh.
func (c *Client) reauthorize(ctx context.Context, prev domain.Credential) (string, error) {
	if cur, err := c.store.Get(); err == nil && cur.AccessToken != "" && cur.AccessToken != prev.AccessToken {
		return cur.AccessToken, nil
	}

	if prev.RefreshToken == "" {
		c.expireSession()
		return "", domain.ErrNoRefreshToken
	}

	token, err, shared := c.refresh.Do("refresh", func() (any, error) {
		return c.doRefresh(ctx)
	})
	if shared && c.metrics != nil {
		c.metrics.RefreshShared.Inc()
	}
	if err != nil {
		return "", err
	}

	return token.(string), nil
}

// doRefresh performs the actual refresh exchange. It runs at most once per
// expiry event, under the singleflight group. The refresh call goes out
// directly, never back through Do.
func (c *Client) doRefresh(ctx context.Context) (string, error) {
	cred, err := c.store.Get()
	if err != nil {
		return "", err
	}
	if cred.RefreshToken == "" {
		c.expireSession()
		return "", domain.ErrNoRefreshToken
	}

	payload, err := marshalBody(refreshRequest{RefreshToken: cred.RefreshToken})
	if err != nil {
		return "", err
	}

	resp, err := c.dispatch(ctx, http.MethodPost, pathRefresh, payload, "", ulid.Make().String())
	if err != nil {
		// Transport failure is a network problem, not a revoked session:
		// leave credentials alone so a later attempt can still refresh.
		if c.metrics != nil {
			c.metrics.RefreshAttempts.WithLabelValues("transport_error").Inc()
		}
		return "", fmt.Errorf("POST %s: %w", pathRefresh, err)
	}

	if resp.StatusCode != http.StatusOK {
		refreshErr := newError(resp)
		c.logger.Info().Int("status", refreshErr.Status).Msg("token refresh rejected, session expired")
		if c.metrics != nil {
			c.metrics.RefreshAttempts.WithLabelValues("rejected").Inc()
		}
		c.expireSession()
		return "", refreshErr
	}

	var body refreshResponse
	if err := finish(resp, &body); err != nil {
		return "", err
	}

	next := domain.Credential{
		AccessToken:  body.AccessToken,
		RefreshToken: cred.RefreshToken,
	}
	if body.RefreshToken != "" {
		// Rotated refresh token is authoritative.
		next.RefreshToken = body.RefreshToken
	}

	if err := c.store.Set(next); err != nil {
		c.logger.Warn().Err(err).Msg("failed to persist refreshed credentials")
	}
	if c.metrics != nil {
		c.metrics.RefreshAttempts.WithLabelValues("success").Inc()
	}

	return body.AccessToken, nil
}

// expireSession clears credentials and signals the session owner. The
// signal replaces any direct navigation side effect.
func (c *Client) expireSession() {
	if err := c.store.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("failed to clear credentials")
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// dispatch sends one HTTP request. It performs no interception of its own.
func (c *Client) dispatch(ctx context.Context, method, path string, payload []byte, token, reqID string) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)

	if err != nil {
		if c.metrics != nil {
			c.metrics.APITransport.WithLabelValues(method).Inc()
		}
		return nil, err
	}

	if c.metrics != nil {
		c.metrics.APIRequests.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
		c.metrics.APIDuration.WithLabelValues(method).Observe(elapsed.Seconds())
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", elapsed).
		Str("request_id", reqID).
		Msg("api request")

	return resp, nil
}

// finish decodes a 2xx response into out or drains the body into an Error.
func finish(resp *http.Response, out any) error {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp)
	}

	defer resp.Body.Close()
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func marshalBody(body any) ([]byte, error) {
	if body == nil {
		return nil, nil
	}
	return json.Marshal(body)
}
