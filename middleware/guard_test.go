package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga/database/dbtest"
	"yoga/models"
	"yoga/services"
)

func TestGuard_AdminOnlyRoute(t *testing.T) {
	ctx := context.Background()
	stores := dbtest.Stores(t)
	tokens := NewTokenManager("secret", time.Hour)
	gate := services.NewRoleGate(stores.Users)

	_, err := stores.Users.Insert(ctx, &models.User{Email: "admin@x.com", Role: models.RoleAdmin})
	require.NoError(t, err)
	_, err = stores.Users.Insert(ctx, &models.User{Email: "stu@x.com"})
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/secret", Guard(Authenticated(tokens), HasRole(gate, models.RoleAdmin)), func(c *fiber.Ctx) error {
		identity, ok := CurrentIdentity(c)
		require.True(t, ok)
		return c.SendString(identity.Email)
	})

	adminToken, err := tokens.Issue(map[string]any{"email": "admin@x.com"})
	require.NoError(t, err)
	studentToken, err := tokens.Issue(map[string]any{"email": "stu@x.com"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "no token", header: "", status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "student", header: "Bearer " + studentToken, status: http.StatusForbidden},
		{name: "admin", header: "Bearer " + adminToken, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secret", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			if tt.status != http.StatusOK {
				var body map[string]any
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, true, body["error"])
				assert.NotEmpty(t, body["message"])
			}
		})
	}
}

func TestGuard_StopsAtFirstDenial(t *testing.T) {
	var calls []string
	check := func(name string, d Decision) Check {
		return func(c *fiber.Ctx) Decision {
			calls = append(calls, name)
			return d
		}
	}

	app := fiber.New()
	app.Get("/", Guard(
		check("first", Allow()),
		check("second", Deny(fiber.StatusForbidden, "no")),
		check("third", Allow()),
	), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, fiber.StatusUnauthorized, StatusFor(services.ErrUnauthenticated))
	assert.Equal(t, fiber.StatusForbidden, StatusFor(services.ErrForbidden))
	assert.Equal(t, fiber.StatusBadRequest, StatusFor(services.ErrInvalidIdentifier))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(services.ErrCartItemNotFound))
	assert.Equal(t, fiber.StatusInternalServerError, StatusFor(services.ErrStoreUnavailable))
	assert.Equal(t, fiber.StatusPaymentRequired, StatusFor(fmt.Errorf("charge: %w", services.ErrPaymentFailed)))
}
