package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"yoga/models"
	"yoga/services"
)

const identityKey = "identity"

// Decision is the outcome of one capability check.
type Decision struct {
	Allowed bool
	Status  int
	Message string
}

func Allow() Decision {
	return Decision{Allowed: true}
}

func Deny(status int, message string) Decision {
	return Decision{Status: status, Message: message}
}

// Check inspects a request and decides whether it may proceed.
type Check func(c *fiber.Ctx) Decision

// Guard runs checks in order and stops at the first denial.
func Guard(checks ...Check) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, check := range checks {
			if d := check(c); !d.Allowed {
				return ErrorResponse(c, d.Status, d.Message)
			}
		}
		return c.Next()
	}
}

// Authenticated verifies the bearer token and stores the identity for later checks and handlers.
func Authenticated(tokens *TokenManager) Check {
	return func(c *fiber.Ctx) Decision {
		identity, err := tokens.Verify(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			return Deny(fiber.StatusUnauthorized, "unauthorized access")
		}
		c.Locals(identityKey, identity)
		return Allow()
	}
}

// HasRole requires the caller's stored role to equal role. It must follow Authenticated.
func HasRole(gate *services.RoleGate, role models.Role) Check {
	return func(c *fiber.Ctx) Decision {
		identity, ok := CurrentIdentity(c)
		if !ok {
			return Deny(fiber.StatusUnauthorized, "unauthorized access")
		}

		err := gate.Authorize(c.UserContext(), identity, role)
		switch {
		case err == nil:
			return Allow()
		case errors.Is(err, services.ErrForbidden):
			return Deny(fiber.StatusForbidden, "forbidden access")
		case errors.Is(err, services.ErrUnauthenticated):
			return Deny(fiber.StatusUnauthorized, "unauthorized access")
		default:
			return Deny(fiber.StatusInternalServerError, err.Error())
		}
	}
}

// CurrentIdentity returns the identity stored by Authenticated.
func CurrentIdentity(c *fiber.Ctx) (*services.Identity, bool) {
	identity, ok := c.Locals(identityKey).(*services.Identity)
	return identity, ok && identity != nil
}

// Guards are the prebuilt pipelines routes attach.
type Guards struct {
	Authenticated fiber.Handler
	Admin         fiber.Handler
	Instructor    fiber.Handler
}

func NewGuards(tokens *TokenManager, gate *services.RoleGate) Guards {
	authenticated := Authenticated(tokens)
	return Guards{
		Authenticated: Guard(authenticated),
		Admin:         Guard(authenticated, HasRole(gate, models.RoleAdmin)),
		Instructor:    Guard(authenticated, HasRole(gate, models.RoleInstructor)),
	}
}
