// Package auth acquires and caches the two short-lived KIS credentials:
// the REST bearer token and the websocket approval key. Each is refreshed
// on its own TTL, a safety margin before actual expiry.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

const (
	tokenPath    = "/oauth2/tokenP"
	approvalPath = "/oauth2/Approval"

	// RefreshMargin is subtracted from every expiry so a credential is
	// never handed out in its final seconds.
	RefreshMargin = 60 * time.Second

	defaultTokenTTL    = time.Hour
	defaultApprovalTTL = 12 * time.Hour
)

// Config holds the credential endpoints and application secrets.
type Config struct {
	BaseURL     string
	AppKey      string
	AppSecret   string
	Timeout     time.Duration // per-fetch HTTP timeout
	ApprovalTTL time.Duration // approval keys carry no expires_in on the wire
}

// Manager caches both credentials and refreshes them on miss or expiry.
// Safe for concurrent use: refreshers serialize on the mutex, so a burst
// of callers performs exactly one fetch.
type Manager struct {
	cfg        Config
	httpClient *http.Client
	logger     *slog.Logger

	mu       sync.Mutex
	token    credential
	approval credential

	now func() time.Time
}

type credential struct {
	value     string
	expiresAt time.Time
}

func (c credential) valid(now time.Time) bool {
	return c.value != "" && now.Before(c.expiresAt)
}

// NewManager creates a credential manager.
func NewManager(cfg Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.ApprovalTTL == 0 {
		cfg.ApprovalTTL = defaultApprovalTTL
	}

	return &Manager{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
		now:        time.Now,
	}
}

// Token returns the cached REST bearer token, fetching a fresh one when
// missing or expired. Fetch errors propagate; there is no retry here.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.token.valid(m.now()) {
		return m.token.value, nil
	}

	var resp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	payload := map[string]string{
		"grant_type": "client_credentials",
		"appkey":     m.cfg.AppKey,
		"appsecret":  m.cfg.AppSecret,
	}
	if err := m.post(ctx, tokenPath, payload, &resp); err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	if resp.AccessToken == "" {
		return "", fmt.Errorf("fetch access token: empty access_token in response")
	}

	ttl := defaultTokenTTL
	if resp.ExpiresIn > 0 {
		ttl = time.Duration(resp.ExpiresIn) * time.Second
	}
	m.token = credential{
		value:     resp.AccessToken,
		expiresAt: m.now().Add(ttl - RefreshMargin),
	}
	m.logger.Debug("access token refreshed", "expires_at", m.token.expiresAt)

	return m.token.value, nil
}

// ApprovalKey returns the cached websocket approval key, fetching a fresh
// one when missing or expired.
func (m *Manager) ApprovalKey(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.approval.valid(m.now()) {
		return m.approval.value, nil
	}

	var resp struct {
		ApprovalKey string `json:"approval_key"`
	}
	payload := map[string]string{
		"grant_type": "client_credentials",
		"appkey":     m.cfg.AppKey,
		"secretkey":  m.cfg.AppSecret,
	}
	if err := m.post(ctx, approvalPath, payload, &resp); err != nil {
		return "", fmt.Errorf("fetch approval key: %w", err)
	}
	if resp.ApprovalKey == "" {
		return "", fmt.Errorf("fetch approval key: empty approval_key in response")
	}

	m.approval = credential{
		value:     resp.ApprovalKey,
		expiresAt: m.now().Add(m.cfg.ApprovalTTL - RefreshMargin),
	}
	m.logger.Debug("approval key refreshed", "expires_at", m.approval.expiresAt)

	return m.approval.value, nil
}

// post performs one credential fetch against the OAuth endpoints.
func (m *Manager) post(ctx context.Context, path string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s returned %d: %s", path, resp.StatusCode, truncate(data, 200))
	}

	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
