package handlers

import (
	"context"
	"crypto/subtle"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/supportdesk/reactivation-service/internal/clients/telegram"
	apperrors "github.com/supportdesk/reactivation-service/pkg/util/errorutil"
)

const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// UpdateDeduper remembers processed update ids.
type UpdateDeduper interface {
	MarkSeen(ctx context.Context, updateID int64) (bool, error)
}

// WebhookHandler receives chat bot updates.
type WebhookHandler struct {
	secret  string
	updates UpdateDeduper
	logger  *zap.Logger
}

// NewWebhookHandler constructs handler. An empty secret disables the
// header check.
func NewWebhookHandler(secret string, updates UpdateDeduper, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{secret: secret, updates: updates, logger: logger}
}

// Receive handles POST on the bot webhook path.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	if h.secret != "" && subtle.ConstantTimeCompare([]byte(c.Get(secretTokenHeader)), []byte(h.secret)) != 1 {
		return apperrors.NewUnauthorized("invalid webhook secret")
	}

	var update telegram.Update
	if err := c.BodyParser(&update); err != nil {
		return apperrors.NewValidationError("invalid update", nil)
	}
	if update.UpdateID <= 0 {
		return apperrors.NewValidationError("invalid update", map[string]any{"update_id": "required"})
	}

	fresh, err := h.updates.MarkSeen(c.UserContext(), update.UpdateID)
	if err != nil {
		h.logger.Warn("update dedupe failed", zap.Int64("update_id", update.UpdateID), zap.Error(err))
		fresh = true
	}
	if !fresh {
		h.logger.Debug("duplicate update ignored", zap.Int64("update_id", update.UpdateID))
		return c.JSON(fiber.Map{"ok": true})
	}

	fields := []zap.Field{zap.Int64("update_id", update.UpdateID)}
	if update.Message != nil {
		fields = append(fields, zap.Int64("chat_id", update.Message.Chat.ID))
	}
	h.logger.Info("bot update received", fields...)
	return c.JSON(fiber.Map{"ok": true})
}
