package helpdesk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/supportdesk/reactivation-service/internal/config"
	"github.com/supportdesk/reactivation-service/internal/domain"
)

// APIError is a failed helpdesk API call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("helpdesk API error %d: %s", e.StatusCode, e.Message)
}

// Client talks to the helpdesk API.
type Client struct {
	baseURL        string
	token          string
	attachmentsDir string
	httpClient     *http.Client
	logger         *zap.Logger
}

// NewClient creates a client.
func NewClient(cfg config.HelpdeskConfig, logger *zap.Logger) *Client {
	timeout := cfg.Timeout()
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		token:          cfg.APIToken,
		attachmentsDir: cfg.AttachmentsDir,
		httpClient:     &http.Client{Timeout: timeout},
		logger:         logger,
	}
}

// SendMessage posts a public reply, attaching files from the attachments
// directory and signing it as the agent when one is set.
func (c *Client) SendMessage(ctx context.Context, reply domain.TicketReply) error {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"api_token": c.token,
		"ticket_id": strconv.FormatInt(reply.TicketID, 10),
		"message":   reply.Text,
		"type":      "public",
		"from":      "user",
	}
	if reply.AgentID != nil {
		fields["user_id"] = strconv.FormatInt(*reply.AgentID, 10)
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return fmt.Errorf("write field %s: %w", name, err)
		}
	}
	for _, name := range reply.Attachments {
		if err := c.attach(form, name); err != nil {
			return err
		}
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("close form: %w", err)
	}

	return c.post(ctx, "/create/comment", form.FormDataContentType(), &buf)
}

func (c *Client) attach(form *multipart.Writer, name string) error {
	file, err := os.Open(filepath.Join(c.attachmentsDir, name))
	if err != nil {
		return fmt.Errorf("open attachment: %w", err)
	}
	defer file.Close()

	part, err := form.CreateFormFile("files[]", name)
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return fmt.Errorf("copy attachment %s: %w", name, err)
	}
	return nil
}

// UpdateTicket sets the ticket category.
func (c *Client) UpdateTicket(ctx context.Context, ticketID int64, category string) error {
	payload, err := json.Marshal(map[string]any{
		"api_token": c.token,
		"ticket_id": ticketID,
		"category":  category,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.post(ctx, "/update/ticket", "application/json", bytes.NewReader(payload))
}

type apiResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	// The API reports some failures with a 200 and an error field.
	var result apiResponse
	if json.Unmarshal(raw, &result) == nil && result.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: result.Error}
	}
	c.logger.Debug("helpdesk call succeeded", zap.String("path", path))
	return nil
}
