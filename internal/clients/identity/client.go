package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/supportdesk/reactivation-service/internal/config"
	"github.com/supportdesk/reactivation-service/internal/domain"
)

// TokenStore persists the admin access token.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string, ttl time.Duration) error
	Clear(ctx context.Context) error
}

// Client talks to the identity platform admin API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
	tokenTTL   time.Duration
	logger     *zap.Logger
}

// NewClient creates a client.
func NewClient(cfg config.IdentityConfig, tokens TokenStore, logger *zap.Logger) *Client {
	timeout := cfg.Timeout()
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		tokens:     tokens,
		tokenTTL:   cfg.TokenTTL(),
		logger:     logger,
	}
}

type loginResponse struct {
	Data struct {
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

// Authenticate logs in as the admin account and stores the access token.
func (c *Client) Authenticate(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp, false); err != nil {
		return fmt.Errorf("authenticate: %w", err)
	}
	if resp.Data.AccessToken == "" {
		return fmt.Errorf("authenticate: %w", domain.ErrIdentityTokenMissing)
	}
	return c.SetToken(ctx, resp.Data.AccessToken)
}

// SetToken replaces the stored access token.
func (c *Client) SetToken(ctx context.Context, token string) error {
	if err := c.tokens.Set(ctx, token, c.tokenTTL); err != nil {
		return fmt.Errorf("store identity token: %w", err)
	}
	c.logger.Info("identity access token updated")
	return nil
}

type userResponse struct {
	Data *struct {
		ID       int64  `json:"id"`
		Email    string `json:"email"`
		Birthday string `json:"birthday"`
		Status   int    `json:"status"`
	} `json:"data"`
}

// GetUser loads a user by numeric id or email.
func (c *Client) GetUser(ctx context.Context, ref string) (*domain.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/admin/users/"+url.PathEscape(ref), nil, &resp, true); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, domain.ErrUserNotFound
	}
	birthday, err := parseBirthday(resp.Data.Birthday)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", resp.Data.ID, err)
	}
	return &domain.User{
		ID:       resp.Data.ID,
		Email:    resp.Data.Email,
		Birthday: birthday,
		Status:   domain.UserStatus(resp.Data.Status),
	}, nil
}

// UnlockUser lifts the block on a user.
func (c *Client) UnlockUser(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%d/unlock", userID), nil, nil, true)
}

// ApproveUser marks a user as approved.
func (c *Client) ApproveUser(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/admin/users/%d/approve", userID), nil, nil, true)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authorized bool) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authorized {
		token, err := c.tokens.Get(ctx)
		if err != nil {
			return fmt.Errorf("load identity token: %w", err)
		}
		if token == "" {
			return domain.ErrIdentityTokenMissing
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrUserNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
		if authorized && resp.StatusCode == http.StatusUnauthorized {
			if err := c.tokens.Clear(ctx); err != nil {
				c.logger.Warn("failed to clear rejected identity token", zap.Error(err))
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parseBirthday(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if len(value) > len("2006-01-02") {
		value = value[:len("2006-01-02")]
	}
	birthday, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid birthday %q", value)
	}
	return birthday, nil
}
