// internal/identity/domain.go
package identity

import (
	"time"

	"github.com/google/uuid"
)

// User is a dashboard operator. Authorization policy evaluation happens
// elsewhere; identity only stores the role assignment and its permission
// list.
type User struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phone_number,omitempty"`
	RoleID         *uuid.UUID `json:"role_id,omitempty"`
	OrganizationID *uuid.UUID `json:"organization_id,omitempty"`
	Status         string     `json:"status"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Role names a set of permission keys like "event.view" or "item.update".
type Role struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Permissions []string  `json:"permissions"`
	CreatedAt   time.Time `json:"created_at"`
}
