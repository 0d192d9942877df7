package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/supportdesk/reactivation-service/internal/api/dto"
	"github.com/supportdesk/reactivation-service/internal/service"
	apperrors "github.com/supportdesk/reactivation-service/pkg/util/errorutil"
)

// TokenIssuer issues bearer tokens for internal callers.
type TokenIssuer interface {
	IssueToken(clientID, secret string) (string, time.Time, error)
}

// AuthHandler exposes the token endpoint.
type AuthHandler struct {
	issuer TokenIssuer
}

// NewAuthHandler constructs handler.
func NewAuthHandler(issuer TokenIssuer) *AuthHandler {
	return &AuthHandler{issuer: issuer}
}

// Token handles POST /auth/token.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	token, exp, err := h.issuer.IssueToken(req.ClientID, req.ClientSecret)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized("invalid credentials")
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: exp}})
}
