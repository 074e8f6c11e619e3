// Package sqlite implements postify.Repository on an embedded SQLite file
// using sqlx for scanning and squirrel for dynamic queries.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/madhvi-n/postify/pkg/postify"
)

//go:embed schema.sql
var Schema string

// Executor is satisfied by both *sqlx.DB and *sqlx.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowxContext(ctx context.Context, query string, args ...any) *sqlx.Row
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Repository implements postify.Repository using SQLite.
type Repository struct {
	db *sqlx.DB
}

var _ postify.Repository = (*Repository)(nil)

var sqlb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// DSN returns the connection string for path with foreign keys enforced.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// Open opens the database at path (":memory:" for a private in-memory database).
func Open(path string) (*Repository, error) {
	db, err := sqlx.Open("sqlite3", DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one connection keeps writers serialized and in-memory databases shared
	db.SetMaxOpenConns(1)
	return New(db), nil
}

// New wraps an open sqlx handle.
func New(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Close releases the underlying handle.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Migrate applies Schema.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, Schema); err != nil {
		return r.handleSQLiteError("migrate", err)
	}
	return nil
}

func (r *Repository) handleSQLiteError(operation string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%s: %v: %w", operation, sqliteErr, postify.ErrConflict)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%s: referenced record not found: %w", operation, postify.ErrNotFound)
		case sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%s: %v: %w", operation, sqliteErr, postify.ErrInvalid)
		}
		return fmt.Errorf("database error in %s: %v (code: %d)", operation, sqliteErr, sqliteErr.ExtendedCode)
	}

	if errors.Is(err, sql.ErrNoRows) {
		return postify.ErrNotFound
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// transaction runs fn inside a transaction, rolling back on error or panic.
func (r *Repository) transaction(ctx context.Context, operation string, fn func(q Executor) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return r.handleSQLiteError(operation, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return r.handleSQLiteError(operation, err)
	}
	return nil
}

func (r *Repository) execDelete(ctx context.Context, operation, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return r.handleSQLiteError(operation, err)
	}
	return r.requireAffected(operation, res)
}

// requireAffected maps a statement that touched no rows to ErrNotFound.
func (r *Repository) requireAffected(operation string, res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return r.handleSQLiteError(operation, err)
	}
	if n == 0 {
		return postify.ErrNotFound
	}
	return nil
}

func (r *Repository) count(ctx context.Context, operation, query string, args ...any) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, query, args...); err != nil {
		return 0, r.handleSQLiteError(operation, err)
	}
	return n, nil
}

// utc normalizes timestamps so stored values sort lexically.
func utc(t time.Time) time.Time {
	return t.UTC()
}

// User operations

func (r *Repository) CreateUser(ctx context.Context, user *postify.User) error {
	query := `
		INSERT INTO users (id, username, email, first_name, last_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.FirstName, user.LastName, utc(user.CreatedAt))
	if err != nil {
		return r.handleSQLiteError("create user", err)
	}
	return nil
}

const userColumns = `id, username, email, first_name, last_name, created_at`

func (r *Repository) getUser(ctx context.Context, operation, where string, arg any) (*postify.User, error) {
	var user postify.User
	if err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE `+where, arg); err != nil {
		return nil, r.handleSQLiteError(operation, err)
	}
	return &user, nil
}

func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*postify.User, error) {
	return r.getUser(ctx, "get user", "id = ?", id)
}

func (r *Repository) GetUserByUsername(ctx context.Context, username string) (*postify.User, error) {
	return r.getUser(ctx, "get user by username", "username = ?", username)
}

func (r *Repository) ListUsers(ctx context.Context) ([]*postify.User, error) {
	users := []*postify.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY username`); err != nil {
		return nil, r.handleSQLiteError("list users", err)
	}
	return users, nil
}

// DeleteUser removes the user; foreign keys cascade to everything the user owns.
func (r *Repository) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete user", `DELETE FROM users WHERE id = ?`, id)
}

// Tag and category operations

func (r *Repository) CreateTag(ctx context.Context, tag *postify.Tag) error {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO tags (id, name) VALUES (?, ?)`, tag.ID, tag.Name); err != nil {
		return r.handleSQLiteError("create tag", err)
	}
	return nil
}

func (r *Repository) GetTag(ctx context.Context, id uuid.UUID) (*postify.Tag, error) {
	var tag postify.Tag
	if err := r.db.GetContext(ctx, &tag, `SELECT id, name FROM tags WHERE id = ?`, id); err != nil {
		return nil, r.handleSQLiteError("get tag", err)
	}
	return &tag, nil
}

func (r *Repository) ListTags(ctx context.Context) ([]*postify.Tag, error) {
	tags := []*postify.Tag{}
	if err := r.db.SelectContext(ctx, &tags, `SELECT id, name FROM tags ORDER BY name, id`); err != nil {
		return nil, r.handleSQLiteError("list tags", err)
	}
	return tags, nil
}

func (r *Repository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete tag", `DELETE FROM tags WHERE id = ?`, id)
}

func (r *Repository) CreateCategory(ctx context.Context, category *postify.Category) error {
	if _, err := r.db.ExecContext(ctx, `INSERT INTO categories (id, name) VALUES (?, ?)`, category.ID, category.Name); err != nil {
		return r.handleSQLiteError("create category", err)
	}
	return nil
}

func (r *Repository) GetCategory(ctx context.Context, id uuid.UUID) (*postify.Category, error) {
	var category postify.Category
	if err := r.db.GetContext(ctx, &category, `SELECT id, name FROM categories WHERE id = ?`, id); err != nil {
		return nil, r.handleSQLiteError("get category", err)
	}
	return &category, nil
}

func (r *Repository) ListCategories(ctx context.Context) ([]*postify.Category, error) {
	categories := []*postify.Category{}
	if err := r.db.SelectContext(ctx, &categories, `SELECT id, name FROM categories ORDER BY name, id`); err != nil {
		return nil, r.handleSQLiteError("list categories", err)
	}
	return categories, nil
}

func (r *Repository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete category", `DELETE FROM categories WHERE id = ?`, id)
}

func (r *Repository) Statistics(ctx context.Context) (*postify.Statistics, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM posts) AS posts,
			(SELECT COUNT(*) FROM comments) AS comments,
			(SELECT COUNT(*) FROM post_likes) + (SELECT COUNT(*) FROM comment_likes) AS likes,
			(SELECT COUNT(*) FROM user_follows) AS follows,
			(SELECT COUNT(*) FROM tag_follows) AS tag_follows`

	var s postify.Statistics
	err := r.db.QueryRowxContext(ctx, query).Scan(&s.Users, &s.Posts, &s.Comments, &s.Likes, &s.Follows, &s.TagFollows)
	if err != nil {
		return nil, r.handleSQLiteError("statistics", err)
	}
	return &s, nil
}
