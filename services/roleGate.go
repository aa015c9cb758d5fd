package services

import (
	"context"
	"errors"

	"yoga/database"
	"yoga/models"
)

type UserFinder interface {
	FindOne(ctx context.Context, filter database.Filter) (*models.User, error)
}

// RoleGate looks the caller's role up on every call; roles can change
// between requests so nothing is cached.
type RoleGate struct {
	users UserFinder
}

func NewRoleGate(users UserFinder) *RoleGate {
	return &RoleGate{users: users}
}

// Authorize returns nil when the stored role of id equals role, ErrForbidden
// when the user is unknown or holds another role.
func (g *RoleGate) Authorize(ctx context.Context, id *Identity, role models.Role) error {
	if id == nil || id.Email == "" {
		return ErrUnauthenticated
	}

	user, err := g.users.FindOne(ctx, database.Filter{"email": id.Email})
	if err != nil {
		return err
	}
	if user == nil || user.Role != role {
		return ErrForbidden
	}
	return nil
}

// HasRole answers a status check for email. Asking about someone other than
// the caller is not an error; it reports false.
func (g *RoleGate) HasRole(ctx context.Context, id *Identity, email string, role models.Role) (bool, error) {
	if id == nil || id.Email != email {
		return false, nil
	}

	err := g.Authorize(ctx, id, role)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrForbidden):
		return false, nil
	default:
		return false, err
	}
}
