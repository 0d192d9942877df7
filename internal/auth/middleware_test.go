package auth

import (
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/supportdesk/reactivation-service/pkg/util/errorutil"
)

func newProtectedApp(tm *TokenManager, scope string) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var domainErr *apperrors.DomainError
			if errors.As(err, &domainErr) {
				return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	app.Get("/protected", NewAuthMiddleware(tm).Handle, RequireScope(scope), func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(claims.ClientID)
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	app := newProtectedApp(tm, ScopeReactivate)

	granted, _, err := tm.GenerateToken("helpdesk", []string{ScopeReactivate})
	require.NoError(t, err)
	limited, _, err := tm.GenerateToken("helpdesk", []string{ScopeJournalRead})
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", status: fiber.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", status: fiber.StatusUnauthorized},
		{name: "missing scope", header: "Bearer " + limited, status: fiber.StatusForbidden},
		{name: "granted", header: "Bearer " + granted, status: fiber.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.status, resp.StatusCode)
		})
	}
}
