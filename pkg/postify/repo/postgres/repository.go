package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/madhvi-n/postify/pkg/postify"
)

// Schema creates every table used by the repository. It is idempotent.
//
//go:embed schema.sql
var Schema string

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

// Repository implements postify.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

var _ postify.Repository = (*Repository)(nil)

// psql builds statements with $n placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Migrate applies Schema
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return r.handlePostgresError("migrate", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: %s: %w", operation, pgErr.ConstraintName, postify.ErrConflict)
		case "23503": // foreign_key_violation
			return fmt.Errorf("%s: referenced record not found (%s): %w", operation, pgErr.ConstraintName, postify.ErrNotFound)
		case "23502": // not_null_violation
			return fmt.Errorf("%s: required field %s is missing: %w", operation, pgErr.ColumnName, postify.ErrInvalid)
		case "42P01": // undefined_table
			return fmt.Errorf("%s: table does not exist - database migration required: %w", operation, err)
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return postify.ErrNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// inTx runs fn in a transaction, rolling back when fn fails.
func (r *Repository) inTx(ctx context.Context, operation string, fn func(q DBTX) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return r.handlePostgresError(operation, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return r.handlePostgresError(operation, err)
	}
	return nil
}

// execDelete runs a DELETE and reports ErrNotFound when nothing matched.
func (r *Repository) execDelete(ctx context.Context, operation, query string, args ...interface{}) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return r.handlePostgresError(operation, err)
	}
	if tag.RowsAffected() == 0 {
		return postify.ErrNotFound
	}
	return nil
}

func (r *Repository) count(ctx context.Context, operation, query string, args ...interface{}) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, r.handlePostgresError(operation, err)
	}
	return n, nil
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *postify.User) error {
	query := `
		INSERT INTO users (id, username, email, first_name, last_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName, user.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create user", err)
	}
	return nil
}

const userColumns = `id, username, email, first_name, last_name, created_at`

func scanUser(row pgx.Row) (*postify.User, error) {
	var u postify.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*postify.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, r.handlePostgresError("get user", err)
	}
	return user, nil
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*postify.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, r.handlePostgresError("get user by username", err)
	}
	return user, nil
}

func (r *Repository) ListUsers(ctx context.Context) ([]*postify.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, r.handlePostgresError("list users", err)
	}
	defer rows.Close()

	users := []*postify.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, r.handlePostgresError("list users", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// DeleteUser removes the user; foreign keys cascade to posts, comments,
// likes and follow edges.
func (r *Repository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete user", `DELETE FROM users WHERE id = $1`, id)
}

// Tag and category operations

func (r *Repository) CreateTag(ctx context.Context, tag *postify.Tag) error {
	if _, err := r.db.Exec(ctx, `INSERT INTO tags (id, name) VALUES ($1, $2)`, tag.ID, tag.Name); err != nil {
		return r.handlePostgresError("create tag", err)
	}
	return nil
}

func (r *Repository) GetTag(ctx context.Context, id uuid.UUID) (*postify.Tag, error) {
	var tag postify.Tag
	err := r.db.QueryRow(ctx, `SELECT id, name FROM tags WHERE id = $1`, id).Scan(&tag.ID, &tag.Name)
	if err != nil {
		return nil, r.handlePostgresError("get tag", err)
	}
	return &tag, nil
}

func (r *Repository) ListTags(ctx context.Context) ([]*postify.Tag, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM tags ORDER BY name, id`)
	if err != nil {
		return nil, r.handlePostgresError("list tags", err)
	}
	defer rows.Close()

	tags := []*postify.Tag{}
	for rows.Next() {
		var tag postify.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, r.handlePostgresError("list tags", err)
		}
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

func (r *Repository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete tag", `DELETE FROM tags WHERE id = $1`, id)
}

func (r *Repository) CreateCategory(ctx context.Context, category *postify.Category) error {
	if _, err := r.db.Exec(ctx, `INSERT INTO categories (id, name) VALUES ($1, $2)`, category.ID, category.Name); err != nil {
		return r.handlePostgresError("create category", err)
	}
	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*postify.Category, error) {
	var category postify.Category
	err := r.db.QueryRow(ctx, `SELECT id, name FROM categories WHERE id = $1`, id).Scan(&category.ID, &category.Name)
	if err != nil {
		return nil, r.handlePostgresError("get category", err)
	}
	return &category, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*postify.Category, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name FROM categories ORDER BY name, id`)
	if err != nil {
		return nil, r.handlePostgresError("list categories", err)
	}
	defer rows.Close()

	categories := []*postify.Category{}
	for rows.Next() {
		var category postify.Category
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, r.handlePostgresError("list categories", err)
		}
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}

// DeleteCategory removes the category; posts keep existing with no category.
func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete category", `DELETE FROM categories WHERE id = $1`, id)
}

func (r *Repository) Statistics(ctx context.Context) (*postify.Statistics, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM posts),
			(SELECT COUNT(*) FROM comments),
			(SELECT COUNT(*) FROM post_likes) + (SELECT COUNT(*) FROM comment_likes),
			(SELECT COUNT(*) FROM user_follows),
			(SELECT COUNT(*) FROM tag_follows)`

	var s postify.Statistics
	err := r.db.QueryRow(ctx, query).Scan(&s.Users, &s.Posts, &s.Comments, &s.Likes, &s.Follows, &s.TagFollows)
	if err != nil {
		return nil, r.handlePostgresError("statistics", err)
	}
	return &s, nil
}
