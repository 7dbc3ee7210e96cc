// internal/identity/service.go
package identity

import (
	"context"

	"github.com/google/uuid"
)

type RegisterUserInput struct {
	Name           string
	Email          string
	Password       string
	PhoneNumber    string
	OrganizationID *uuid.UUID
}

// Service defines the interface for the identity service.
type Service interface {
	RegisterUser(ctx context.Context, in RegisterUserInput) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)

	CreateRole(ctx context.Context, name, description string, permissions []string) (*Role, error)
	GetRole(ctx context.Context, id uuid.UUID) (*Role, error)
	AssignRole(ctx context.Context, userID, roleID uuid.UUID) error
	HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error)
}
