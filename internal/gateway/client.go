// Package gateway issues authenticated calls to the remote booking API.
//
// It attaches the bearer credential, renews it once when the server reports it
// expired, and translates between the canonical domain types and the server's
// JSON shapes.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	domainerrors "github.com/weddingwise/weddingwise-client/internal/errors"
	"github.com/weddingwise/weddingwise-client/internal/ratelimit"
)

const (
	// Outbound rate limit per remote host.
	defaultRPS   = 5.0
	defaultBurst = 10

	// HTTP client settings
	defaultTimeout = 30 * time.Second

	// maxResponseBytes caps how much of a response body is read.
	maxResponseBytes = 4 << 20

	userAgent = "weddingwise-client/1.0"
)

// Paths of the remote API used by the gateway itself.
const (
	pathRefreshToken = "/auth/refresh-token"
)

// Credentials is the gateway's view of the session owner. The booking manager
// implements it; it is injected with SetCredentials after both exist.
type Credentials interface {
	// Token returns the current bearer credential, or "" when logged out.
	Token() string
	// StoreRenewedToken replaces the credential after a successful renewal.
	StoreRenewedToken(ctx context.Context, token string) error
	// ForceLogout clears the session after renewal failed.
	ForceLogout(ctx context.Context)
}

// Config holds gateway settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	RPS     float64
	Burst   int
}

// Client is a rate-limited client for the remote booking API.
type Client struct {
	http    *http.Client
	baseURL string
	host    string
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger

	credsMu sync.RWMutex
	creds   Credentials

	// renewMu serialises renewals so concurrent expiries renew once.
	renewMu sync.Mutex
}

// New creates a new gateway client.
func New(cfg Config, logger *slog.Logger) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RPS <= 0 {
		cfg.RPS = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: base,
		host:    u.Host,
		limiter: ratelimit.New(cfg.RPS, cfg.Burst),
		logger:  logger.With("component", "gateway"),
	}, nil
}

// SetCredentials sets the credential owner.
// This is set after construction because the owner itself needs the client.
func (c *Client) SetCredentials(creds Credentials) {
	c.credsMu.Lock()
	defer c.credsMu.Unlock()
	c.creds = creds
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

func (c *Client) credentials() Credentials {
	c.credsMu.RLock()
	defer c.credsMu.RUnlock()
	return c.creds
}

func (c *Client) token() string {
	if creds := c.credentials(); creds != nil {
		return creds.Token()
	}
	return ""
}

// Request issues an authenticated call and decodes a 2xx JSON body into out
// (out may be nil).
//
// When the server answers with the credential-expired signal, the credential is
// renewed once and the call re-issued once. If renewal fails, or the re-issued
// call reports expiry again, the session is force-logged-out and the result is
// a SESSION_EXPIRED error wrapping the original failure. Every other failure is
// returned as is, without retry.
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	sent := c.token()
	err := c.do(ctx, method, path, body, out, sent)
	if !isExpired(err) || path == pathRefreshToken {
		return err
	}

	token, renewErr := c.renewAfter(ctx, sent)
	if renewErr != nil {
		c.logger.Warn("credential renewal failed", "path", path, "error", renewErr)
		c.forceLogout(ctx)
		return domainerrors.SessionExpired("session expired, please log in again").WithCause(err)
	}

	err = c.do(ctx, method, path, body, out, token)
	if isExpired(err) {
		c.logger.Warn("credential expired again after renewal", "path", path)
		c.forceLogout(ctx)
		return domainerrors.SessionExpired("session expired, please log in again").WithCause(err)
	}
	return err
}

// anonymous issues a call without a bearer credential and without renewal.
func (c *Client) anonymous(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, method, path, body, out, "")
}

// renewAfter obtains a fresh credential. If another call already replaced the
// credential that expired, the replacement is used without contacting the server.
func (c *Client) renewAfter(ctx context.Context, expired string) (string, error) {
	c.renewMu.Lock()
	defer c.renewMu.Unlock()

	creds := c.credentials()
	if creds == nil {
		return "", errors.New("no credential owner")
	}

	current := creds.Token()
	if current == "" {
		return "", errors.New("no credential to renew")
	}
	if current != expired {
		return current, nil
	}

	c.logger.Info("credential expired, renewing")

	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, pathRefreshToken, map[string]string{"token": current}, &resp, ""); err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if resp.Token == "" {
		return "", errors.New("refresh token: empty token in response")
	}

	if err := creds.StoreRenewedToken(ctx, resp.Token); err != nil {
		return "", fmt.Errorf("store renewed token: %w", err)
	}

	c.logger.Info("credential renewed")
	return resp.Token, nil
}

func (c *Client) forceLogout(ctx context.Context) {
	if creds := c.credentials(); creds != nil {
		creds.ForceLogout(ctx)
	}
}

// do executes a single HTTP request with rate limiting.
func (c *Client) do(ctx context.Context, method, path string, body, out any, token string) error {
	if err := c.limiter.Wait(ctx, c.host); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeRemoteFailure, "rate limit wait")
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeInternal, "encode request body")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "create request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("remote call failed", "method", method, "path", path, "error", err)
		return domainerrors.Wrapf(err, domainerrors.CodeRemoteFailure, "%s %s", method, path).
			WithDetails(FailureDetails{Method: method, Path: path})
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeRemoteFailure, "read response").
			WithDetails(FailureDetails{Method: method, Path: path, Status: resp.StatusCode})
	}

	c.logger.Debug("remote call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(method, path, resp.StatusCode, respBody)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return domainerrors.Wrapf(err, domainerrors.CodeRemoteFailure, "parse response of %s %s", method, path).
			WithDetails(FailureDetails{Method: method, Path: path, Status: resp.StatusCode})
	}
	return nil
}

// escape joins path segments, escaping each one.
func escape(segments ...string) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
