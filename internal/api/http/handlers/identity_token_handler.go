package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/supportdesk/reactivation-service/internal/api/dto"
	apperrors "github.com/supportdesk/reactivation-service/pkg/util/errorutil"
)

// IdentityTokenSetter replaces the identity platform access token.
type IdentityTokenSetter interface {
	SetToken(ctx context.Context, token string) error
}

// IdentityTokenHandler lets operators paste a token when automatic admin
// login is blocked, e.g. by a captcha.
type IdentityTokenHandler struct {
	identity IdentityTokenSetter
}

// NewIdentityTokenHandler constructs handler.
func NewIdentityTokenHandler(identity IdentityTokenSetter) *IdentityTokenHandler {
	return &IdentityTokenHandler{identity: identity}
}

// Update handles POST /api/v1/leader/token.
func (h *IdentityTokenHandler) Update(c *fiber.Ctx) error {
	var req dto.IdentityTokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	if err := h.identity.SetToken(c.UserContext(), req.Token); err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(dto.MessageResponse{Message: "Token updated."})
}
