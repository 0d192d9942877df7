package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/supportdesk/reactivation-service/internal/config"
)

// ErrTeamChatNotConfigured is returned when no team chat id is set.
var ErrTeamChatNotConfigured = errors.New("telegram: team chat not configured")

// APIError represents a structured Telegram Bot API error response.
type APIError struct {
	ErrorCode   int
	Description string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API error %d: %s", e.ErrorCode, e.Description)
}

// Client provides the Bot API operations the service needs.
type Client struct {
	baseURL    string
	teamChatID int64
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Telegram bot client.
func NewClient(cfg config.TelegramConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    fmt.Sprintf("%s/bot%s", strings.TrimRight(cfg.APIBaseURL, "/"), cfg.BotToken),
		teamChatID: cfg.TeamChatID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// SendTeamAlert sends an HTML message to the support team chat.
func (c *Client) SendTeamAlert(ctx context.Context, text string) error {
	if c.teamChatID == 0 {
		return ErrTeamChatNotConfigured
	}
	return c.call(ctx, "sendMessage", map[string]any{
		"chat_id":                  c.teamChatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	})
}

// SetWebhook sets the webhook URL for receiving updates.
func (c *Client) SetWebhook(ctx context.Context, webhookURL, secret string) error {
	body := map[string]any{"url": webhookURL}
	if secret != "" {
		body["secret_token"] = secret
	}
	return c.call(ctx, "setWebhook", body)
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	ErrorCode   int    `json:"error_code"`
	Description string `json:"description"`
}

func (c *Client) call(ctx context.Context, method string, body map[string]any) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+method, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	var result apiResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		// Proxies in front of the Bot API answer with HTML pages.
		c.logger.Warn("telegram returned a non-JSON response",
			zap.String("method", method),
			zap.Int("status", resp.StatusCode))
		return &APIError{ErrorCode: resp.StatusCode, Description: snippet(raw)}
	}
	if !result.OK {
		code := result.ErrorCode
		if code == 0 {
			code = resp.StatusCode
		}
		return &APIError{ErrorCode: code, Description: result.Description}
	}
	return nil
}

func snippet(raw []byte) string {
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
