package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/supportdesk/reactivation-service/internal/api/dto"
	"github.com/supportdesk/reactivation-service/internal/domain"
	apperrors "github.com/supportdesk/reactivation-service/pkg/util/errorutil"
)

// Reactivator runs the reactivate-and-notify workflow.
type Reactivator interface {
	ReactivateAndNotify(ctx context.Context, ticket domain.Ticket, userRef string) (domain.ReactivationOutcome, error)
}

// JournalReader lists journal entries for a user.
type JournalReader interface {
	History(ctx context.Context, userID int64, limit int) ([]domain.ReactivationRecord, error)
}

// ReactivationHandler exposes the reactivation endpoints.
type ReactivationHandler struct {
	reactivator Reactivator
	journal     JournalReader
}

// NewReactivationHandler constructs handler.
func NewReactivationHandler(reactivator Reactivator, journal JournalReader) *ReactivationHandler {
	return &ReactivationHandler{reactivator: reactivator, journal: journal}
}

// ReactivateAndNotify handles POST /api/v1/leader/user/reactivate-and-notify.
func (h *ReactivationHandler) ReactivateAndNotify(c *fiber.Ctx) error {
	var req dto.ReactivateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	userRef := req.UserRef()
	if userRef == "" {
		return apperrors.NewValidationError("user reference required", map[string]any{"user": "required"})
	}

	outcome, err := h.reactivator.ReactivateAndNotify(c.UserContext(), req.Ticket.ToDomain(), userRef)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: outcome.Message})
}

// History handles GET /api/v1/leader/user/:id/reactivations.
func (h *ReactivationHandler) History(c *fiber.Ctx) error {
	userID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || userID <= 0 {
		return apperrors.NewValidationError("invalid user id", map[string]any{"id": c.Params("id")})
	}
	if h.journal == nil {
		return apperrors.NewDomainError("JOURNAL_DISABLED", "reactivation journal is not configured", fiber.StatusNotImplemented, nil)
	}

	records, err := h.journal.History(c.UserContext(), userID, c.QueryInt("limit", 20))
	if err != nil {
		return apperrors.MapError(err)
	}
	data := make([]dto.ReactivationRecordResponse, 0, len(records))
	for _, r := range records {
		data = append(data, dto.NewReactivationRecordResponse(r))
	}
	return c.JSON(fiber.Map{"data": data})
}
