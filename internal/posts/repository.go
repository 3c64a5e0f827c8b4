package posts

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quill-blog/quill/internal/shared"
)

// Repository is the post store.
type Repository interface {
	Create(ctx context.Context, p Post) error
	FindByID(ctx context.Context, id string) (*Post, error)
	Update(ctx context.Context, id string, upd PostUpdate) (*Post, error)
	Delete(ctx context.Context, id string) (*Post, error)
	FindPostsWithAuthor(ctx context.Context) ([]PostView, error)
	FindPostWithAuthor(ctx context.Context, id string) (*PostView, error)
	FindPostsWithAuthorByUser(ctx context.Context, userID string) ([]PostView, error)
}

// PGRepository implements Repository using PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const postColumns = `id::text, user_id::text, title, body, date`

const viewSelect = `
SELECT p.id::text, p.title, p.body, p.date, u.id::text, u.name, u.username
  FROM posts p
  JOIN users u ON u.id = p.user_id`

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Body, &p.Date); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func scanView(row pgx.Row) (*PostView, error) {
	var v PostView
	if err := row.Scan(&v.ID, &v.Title, &v.Body, &v.Date, &v.User.ID, &v.User.Name, &v.User.Username); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *PGRepository) listViews(ctx context.Context, query string, args ...any) ([]PostView, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []PostView{}
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Create inserts p.
func (r *PGRepository) Create(ctx context.Context, p Post) error {
	id, err := uuid.Parse(p.ID)
	if err != nil {
		return fmt.Errorf("posts: create: invalid id: %w", err)
	}
	owner, err := uuid.Parse(p.UserID)
	if err != nil {
		return fmt.Errorf("posts: create: invalid owner: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO posts (id, user_id, title, body, date) VALUES ($1, $2, $3, $4, $5)`,
		id, owner, p.Title, p.Body, p.Date)
	if err != nil {
		return fmt.Errorf("posts: create: %w", err)
	}
	return nil
}

// FindByID fetches a post without its author. Malformed identifiers resolve
// to shared.ErrNotFound.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*Post, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, pid))
}

// Update applies the non-nil fields of upd. Owner and date never change.
func (r *PGRepository) Update(ctx context.Context, id string, upd PostUpdate) (*Post, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	p, err := scanPost(r.pool.QueryRow(ctx,
		`UPDATE posts
		    SET title = COALESCE($2, title),
		        body  = COALESCE($3, body)
		  WHERE id = $1
		RETURNING `+postColumns,
		pid, upd.Title, upd.Body))
	if err != nil {
		return nil, fmt.Errorf("posts: update: %w", err)
	}
	return p, nil
}

// Delete removes the post and returns the deleted record.
func (r *PGRepository) Delete(ctx context.Context, id string) (*Post, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	p, err := scanPost(r.pool.QueryRow(ctx, `DELETE FROM posts WHERE id = $1 RETURNING `+postColumns, pid))
	if err != nil {
		return nil, fmt.Errorf("posts: delete: %w", err)
	}
	return p, nil
}

// FindPostsWithAuthor lists every post with its author, newest first.
func (r *PGRepository) FindPostsWithAuthor(ctx context.Context) ([]PostView, error) {
	return r.listViews(ctx, viewSelect+` ORDER BY p.created_at DESC, p.id`)
}

// FindPostWithAuthor fetches one post with its author.
func (r *PGRepository) FindPostWithAuthor(ctx context.Context, id string) (*PostView, error) {
	pid, err := uuid.Parse(id)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	return scanView(r.pool.QueryRow(ctx, viewSelect+` WHERE p.id = $1`, pid))
}

// FindPostsWithAuthorByUser lists the posts owned by userID, newest first.
// A malformed userID yields an empty list.
func (r *PGRepository) FindPostsWithAuthorByUser(ctx context.Context, userID string) ([]PostView, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return []PostView{}, nil
	}
	return r.listViews(ctx, viewSelect+` WHERE p.user_id = $1 ORDER BY p.created_at DESC, p.id`, uid)
}

var _ Repository = (*PGRepository)(nil)
