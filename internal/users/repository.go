package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quill-blog/quill/internal/platform/db"
	"github.com/quill-blog/quill/internal/rbac"
	"github.com/quill-blog/quill/internal/shared"
)

// Repository is the credential store.
type Repository interface {
	Create(ctx context.Context, u User) error
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	ListByRoles(ctx context.Context, roles []rbac.Role) ([]User, error)
	Update(ctx context.Context, id string, upd ProfileUpdate) (*User, error)
	Delete(ctx context.Context, id string) (*User, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userColumns = `id::text, username, name, email, password_hash, role, date`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	var role string
	if err := row.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	u.Role = rbac.Role(role)
	return &u, nil
}

// Create inserts u. A unique violation is reported as ErrEmailTaken or
// ErrUsernameTaken.
func (r *PGRepository) Create(ctx context.Context, u User) error {
	id, err := uuid.Parse(u.ID)
	if err != nil {
		return fmt.Errorf("users: create: invalid id: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO users (id, username, name, email, password_hash, role, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, u.Username, u.Name, u.Email, u.PasswordHash, string(u.Role), u.Date)
	if err != nil {
		return fmt.Errorf("users: create: %w", mapWriteError(err))
	}
	return nil
}

// FindByID fetches a user by identifier. Malformed identifiers resolve to
// shared.ErrNotFound.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uid))
}

// FindByEmail fetches a user by email.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// FindByUsername fetches a user by username.
func (r *PGRepository) FindByUsername(ctx context.Context, username string) (*User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
}

// ListByRoles returns users holding any of roles, oldest first.
func (r *PGRepository) ListByRoles(ctx context.Context, roles []rbac.Role) ([]User, error) {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = ANY($1) ORDER BY created_at, id`, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := []User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Update applies the non-nil fields of upd and returns the updated record.
func (r *PGRepository) Update(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	u, err := scanUser(r.pool.QueryRow(ctx,
		`UPDATE users
		    SET username = COALESCE($2, username),
		        name     = COALESCE($3, name),
		        email    = COALESCE($4, email)
		  WHERE id = $1
		RETURNING `+userColumns,
		uid, upd.Username, upd.Name, upd.Email))
	if err != nil {
		return nil, fmt.Errorf("users: update: %w", mapWriteError(err))
	}
	return u, nil
}

// Delete removes the user and returns the deleted record.
func (r *PGRepository) Delete(ctx context.Context, id string) (*User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	u, err := scanUser(r.pool.QueryRow(ctx, `DELETE FROM users WHERE id = $1 RETURNING `+userColumns, uid))
	if err != nil {
		return nil, fmt.Errorf("users: delete: %w", err)
	}
	return u, nil
}

func mapWriteError(err error) error {
	constraint, ok := db.UniqueViolation(err)
	if !ok {
		return err
	}
	switch constraint {
	case "users_email_key":
		return ErrEmailTaken
	case "users_username_key":
		return ErrUsernameTaken
	}
	return fmt.Errorf("%w: %s", shared.ErrConflict, constraint)
}

var _ Repository = (*PGRepository)(nil)
