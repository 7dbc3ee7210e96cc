// internal/identity/implementation.go
package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/time/rate"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrRateLimited        = errors.New("rate limit exceeded")
)

// service implements the Service interface.
type service struct {
	db          *sql.DB
	rateLimiter *rate.Limiter
}

// NewService creates a new identity service instance.
func NewService(db *sql.DB) Service {
	return &service{
		db:          db,
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute), 5),
	}
}

func (s *service) RegisterUser(ctx context.Context, in RegisterUserInput) (*User, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}

	encoded, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		ID:             uuid.New(),
		Name:           in.Name,
		Email:          in.Email,
		PhoneNumber:    in.PhoneNumber,
		OrganizationID: in.OrganizationID,
		Status:         "active",
	}

	query := `
		INSERT INTO dashboard_users (id, name, email, phone_number, organization_id, status, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err = s.db.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PhoneNumber, user.OrganizationID, user.Status, encoded,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	if !s.rateLimiter.Allow() {
		return nil, ErrRateLimited
	}

	query := `
		SELECT id, name, email, phone_number, role_id, organization_id, status, last_login_at, password_hash, created_at, updated_at
		FROM dashboard_users
		WHERE email = $1
	`
	user := &User{}
	var encoded string
	var lastLogin sql.NullTime
	err := s.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PhoneNumber,
		&user.RoleID, &user.OrganizationID, &user.Status, &lastLogin,
		&encoded, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}

	ok, err := verifyPassword(password, encoded)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if _, err := s.db.ExecContext(ctx, `UPDATE dashboard_users SET last_login_at = $1 WHERE id = $2`, now, user.ID); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	user.LastLoginAt = &now

	return user, nil
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	query := `
		SELECT id, name, email, phone_number, role_id, organization_id, status, last_login_at, created_at, updated_at
		FROM dashboard_users
		WHERE id = $1
	`
	user := &User{}
	var lastLogin sql.NullTime
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&user.ID, &user.Name, &user.Email, &user.PhoneNumber,
		&user.RoleID, &user.OrganizationID, &user.Status, &lastLogin,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	return user, nil
}

func (s *service) ListUsers(ctx context.Context) ([]*User, error) {
	query := `
		SELECT id, name, email, phone_number, role_id, organization_id, status, last_login_at, created_at, updated_at
		FROM dashboard_users
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		user := &User{}
		var lastLogin sql.NullTime
		err := rows.Scan(
			&user.ID, &user.Name, &user.Email, &user.PhoneNumber,
			&user.RoleID, &user.OrganizationID, &user.Status, &lastLogin,
			&user.CreatedAt, &user.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		if lastLogin.Valid {
			user.LastLoginAt = &lastLogin.Time
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *service) CreateRole(ctx context.Context, name, description string, permissions []string) (*Role, error) {
	role := &Role{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		Permissions: permissions,
	}

	query := `
		INSERT INTO roles (id, name, description, permissions)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`
	err := s.db.QueryRowContext(ctx, query, role.ID, role.Name, role.Description, pq.Array(role.Permissions)).Scan(&role.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert role: %w", err)
	}
	return role, nil
}

func (s *service) GetRole(ctx context.Context, id uuid.UUID) (*Role, error) {
	query := `
		SELECT id, name, description, permissions, created_at
		FROM roles
		WHERE id = $1
	`
	role := &Role{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&role.ID, &role.Name, &role.Description, pq.Array(&role.Permissions), &role.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoleNotFound
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	return role, nil
}

func (s *service) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	if _, err := s.GetRole(ctx, roleID); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx,
		`UPDATE dashboard_users SET role_id = $1, updated_at = NOW() WHERE id = $2`, roleID, userID)
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

// HasPermission reports whether the user's role grants the permission key.
// Users without a role have no permissions.
func (s *service) HasPermission(ctx context.Context, userID uuid.UUID, permission string) (bool, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if user.RoleID == nil {
		return false, nil
	}

	role, err := s.GetRole(ctx, *user.RoleID)
	if err != nil {
		return false, err
	}
	for _, p := range role.Permissions {
		if p == permission {
			return true, nil
		}
	}
	return false, nil
}
