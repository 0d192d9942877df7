package errorutil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/supportdesk/reactivation-service/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}

	var (
		loadErr     *domain.UserLoadError
		reactErr    *domain.ReactivationError
		dispatchErr *domain.NotificationDispatchError
		fiberErr    *fiber.Error
	)
	switch {
	case errors.As(err, &dispatchErr):
		return &DomainError{
			Code:       "NOTIFICATION_DISPATCH_FAILED",
			Message:    "user reactivated but notification failed",
			HTTPStatus: http.StatusBadGateway,
			Details: map[string]any{
				"reactivated": true,
				"ticket_id":   dispatchErr.TicketID,
				"stage":       dispatchErr.Stage,
				"reply_sent":  dispatchErr.ReplySent,
			},
			Err: err,
		}
	case errors.As(err, &reactErr):
		return &DomainError{
			Code:       "REACTIVATION_FAILED",
			Message:    "user reactivation failed",
			HTTPStatus: http.StatusBadGateway,
			Details: map[string]any{
				"user_id":   reactErr.UserID,
				"stage":     reactErr.Stage,
				"unblocked": reactErr.Unblocked,
			},
			Err: err,
		}
	case errors.Is(err, domain.ErrIdentityTokenMissing):
		return &DomainError{
			Code:       "IDENTITY_TOKEN_MISSING",
			Message:    "identity platform access token is not set",
			HTTPStatus: http.StatusServiceUnavailable,
			Err:        err,
		}
	case errors.Is(err, domain.ErrUserNotFound):
		de := NewNotFound("user", nil).(*DomainError)
		de.Code = "USER_NOT_FOUND"
		if errors.As(err, &loadErr) {
			de.Details["user_ref"] = loadErr.Ref
		}
		de.Err = err
		return de
	case errors.As(err, &loadErr):
		return &DomainError{
			Code:       "USER_LOAD_FAILED",
			Message:    "failed to load user",
			HTTPStatus: http.StatusBadGateway,
			Details:    map[string]any{"user_ref": loadErr.Ref},
			Err:        err,
		}
	case errors.Is(err, domain.ErrUserNotLoaded):
		return &DomainError{
			Code:       "PRECONDITION_FAILED",
			Message:    "internal server error",
			HTTPStatus: http.StatusInternalServerError,
			Err:        err,
		}
	case errors.Is(err, context.DeadlineExceeded):
		return &DomainError{
			Code:       "UPSTREAM_TIMEOUT",
			Message:    "request timed out waiting for an upstream service",
			HTTPStatus: http.StatusGatewayTimeout,
			Err:        err,
		}
	case errors.As(err, &fiberErr):
		return &DomainError{
			Code:       strings.ToUpper(strings.ReplaceAll(http.StatusText(fiberErr.Code), " ", "_")),
			Message:    fiberErr.Message,
			HTTPStatus: fiberErr.Code,
		}
	}
	return NewInternalError(err).(*DomainError)
}

// MapError converts an arbitrary error to a DomainError.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
