package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/madhvi-n/postify/pkg/postify"
)

// getOrCreateAttempts bounds the insert-then-select loop when a concurrent
// delete removes the row between the two statements.
const getOrCreateAttempts = 3

// Comment operations

const commentColumns = `id, author_id, post_id, text, created_at, updated_at`

func scanComment(row pgx.Row) (*postify.Comment, error) {
	var c postify.Comment
	if err := row.Scan(&c.ID, &c.AuthorID, &c.PostID, &c.Text, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *Repository) CreateComment(ctx context.Context, comment *postify.Comment) error {
	query := `
		INSERT INTO comments (id, author_id, post_id, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		comment.ID, comment.AuthorID, comment.PostID, comment.Text, comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("create comment", err)
	}
	return nil
}

func (r *Repository) GetComment(ctx context.Context, id uuid.UUID) (*postify.Comment, error) {
	comment, err := scanComment(r.db.QueryRow(ctx, `SELECT `+commentColumns+` FROM comments WHERE id = $1`, id))
	if err != nil {
		return nil, r.handlePostgresError("get comment", err)
	}
	return comment, nil
}

func (r *Repository) UpdateComment(ctx context.Context, comment *postify.Comment) error {
	tag, err := r.db.Exec(ctx, `UPDATE comments SET text = $2, updated_at = $3 WHERE id = $1`,
		comment.ID, comment.Text, comment.UpdatedAt)
	if err != nil {
		return r.handlePostgresError("update comment", err)
	}
	if tag.RowsAffected() == 0 {
		return postify.ErrNotFound
	}
	return nil
}

func (r *Repository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete comment", `DELETE FROM comments WHERE id = $1`, id)
}

func (r *Repository) ListComments(ctx context.Context, postID uuid.UUID) ([]*postify.Comment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = $1 ORDER BY created_at, id`, postID)
	if err != nil {
		return nil, r.handlePostgresError("list comments", err)
	}
	defer rows.Close()

	comments := []*postify.Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, r.handlePostgresError("list comments", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Like operations

// likeTable returns the table and target column storing likes of the given kind.
func likeTable(kind postify.LikeTargetKind) (table, column string, err error) {
	switch kind {
	case postify.LikeTargetPost:
		return "post_likes", "post_id", nil
	case postify.LikeTargetComment:
		return "comment_likes", "comment_id", nil
	}
	return "", "", fmt.Errorf("like target kind %q: %w", kind, postify.ErrInvalid)
}

func (r *Repository) GetOrCreateLike(ctx context.Context, like *postify.Like) (*postify.Like, bool, error) {
	table, column, err := likeTable(like.Target.Kind)
	if err != nil {
		return nil, false, err
	}

	insert := fmt.Sprintf(`
		INSERT INTO %s (id, user_id, %s, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, %s) DO NOTHING
		RETURNING id, created_at`, table, column, column)
	lookup := fmt.Sprintf(`SELECT id, created_at FROM %s WHERE user_id = $1 AND %s = $2`, table, column)

	for attempt := 0; attempt < getOrCreateAttempts; attempt++ {
		got := &postify.Like{UserID: like.UserID, Target: like.Target}
		err := r.db.QueryRow(ctx, insert, like.ID, like.UserID, like.Target.ID, like.CreatedAt).
			Scan(&got.ID, &got.CreatedAt)
		if err == nil {
			return got, true, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, r.handlePostgresError("create like", err)
		}

		err = r.db.QueryRow(ctx, lookup, like.UserID, like.Target.ID).Scan(&got.ID, &got.CreatedAt)
		if err == nil {
			return got, false, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, r.handlePostgresError("get like", err)
		}
	}
	return nil, false, fmt.Errorf("create like: gave up after %d attempts: %w", getOrCreateAttempts, postify.ErrConflict)
}

func (r *Repository) GetLike(ctx context.Context, id uuid.UUID) (*postify.Like, error) {
	query := `
		SELECT id, user_id, 'post', post_id, created_at FROM post_likes WHERE id = $1
		UNION ALL
		SELECT id, user_id, 'comment', comment_id, created_at FROM comment_likes WHERE id = $1`

	var like postify.Like
	var kind string
	err := r.db.QueryRow(ctx, query, id).Scan(&like.ID, &like.UserID, &kind, &like.Target.ID, &like.CreatedAt)
	if err != nil {
		return nil, r.handlePostgresError("get like", err)
	}
	like.Target.Kind = postify.LikeTargetKind(kind)
	return &like, nil
}

func (r *Repository) DeleteLike(ctx context.Context, id uuid.UUID) error {
	var removed int64
	for _, table := range []string{"post_likes", "comment_likes"} {
		tag, err := r.db.Exec(ctx, `DELETE FROM `+table+` WHERE id = $1`, id)
		if err != nil {
			return r.handlePostgresError("delete like", err)
		}
		removed += tag.RowsAffected()
	}
	if removed == 0 {
		return postify.ErrNotFound
	}
	return nil
}

func (r *Repository) CountLikes(ctx context.Context, target postify.LikeTarget) (int, error) {
	table, column, err := likeTable(target.Kind)
	if err != nil {
		return 0, err
	}
	return r.count(ctx, "count likes", `SELECT COUNT(*) FROM `+table+` WHERE `+column+` = $1`, target.ID)
}

// Follow operations

func (r *Repository) GetOrCreateUserFollow(ctx context.Context, follow *postify.UserFollow) (*postify.UserFollow, bool, error) {
	insert := `
		INSERT INTO user_follows (id, follower_id, followed_user_id, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (follower_id, followed_user_id) DO NOTHING
		RETURNING id, created_at`
	lookup := `SELECT id, created_at FROM user_follows WHERE follower_id = $1 AND followed_user_id = $2`

	for attempt := 0; attempt < getOrCreateAttempts; attempt++ {
		got := &postify.UserFollow{FollowerID: follow.FollowerID, FollowedUserID: follow.FollowedUserID}
		err := r.db.QueryRow(ctx, insert, follow.ID, follow.FollowerID, follow.FollowedUserID, follow.CreatedAt).
			Scan(&got.ID, &got.CreatedAt)
		if err == nil {
			return got, true, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, r.handlePostgresError("create user follow", err)
		}

		err = r.db.QueryRow(ctx, lookup, follow.FollowerID, follow.FollowedUserID).Scan(&got.ID, &got.CreatedAt)
		if err == nil {
			return got, false, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, r.handlePostgresError("get user follow", err)
		}
	}
	return nil, false, fmt.Errorf("create user follow: gave up after %d attempts: %w", getOrCreateAttempts, postify.ErrConflict)
}

const userFollowColumns = `id, follower_id, followed_user_id, created_at`

func scanUserFollow(row pgx.Row) (*postify.UserFollow, error) {
	var f postify.UserFollow
	if err := row.Scan(&f.ID, &f.FollowerID, &f.FollowedUserID, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repository) GetUserFollow(ctx context.Context, id uuid.UUID) (*postify.UserFollow, error) {
	follow, err := scanUserFollow(r.db.QueryRow(ctx, `SELECT `+userFollowColumns+` FROM user_follows WHERE id = $1`, id))
	if err != nil {
		return nil, r.handlePostgresError("get user follow", err)
	}
	return follow, nil
}

func (r *Repository) DeleteUserFollow(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete user follow", `DELETE FROM user_follows WHERE id = $1`, id)
}

func (r *Repository) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, "count followers", `SELECT COUNT(*) FROM user_follows WHERE followed_user_id = $1`, userID)
}

func (r *Repository) ListUserFollows(ctx context.Context, followerID uuid.UUID) ([]*postify.UserFollow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+userFollowColumns+` FROM user_follows WHERE follower_id = $1 ORDER BY created_at, id`, followerID)
	if err != nil {
		return nil, r.handlePostgresError("list user follows", err)
	}
	defer rows.Close()

	follows := []*postify.UserFollow{}
	for rows.Next() {
		follow, err := scanUserFollow(rows)
		if err != nil {
			return nil, r.handlePostgresError("list user follows", err)
		}
		follows = append(follows, follow)
	}
	return follows, rows.Err()
}

func (r *Repository) GetOrCreateTagFollow(ctx context.Context, follow *postify.TagFollow) (*postify.TagFollow, bool, error) {
	insert := `
		INSERT INTO tag_follows (id, follower_id, tag_id, created_at) VALUES ($1, $2, $3, $4)
		ON CONFLICT (follower_id, tag_id) DO NOTHING
		RETURNING id, created_at`
	lookup := `SELECT id, created_at FROM tag_follows WHERE follower_id = $1 AND tag_id = $2`

	for attempt := 0; attempt < getOrCreateAttempts; attempt++ {
		got := &postify.TagFollow{FollowerID: follow.FollowerID, TagID: follow.TagID}
		err := r.db.QueryRow(ctx, insert, follow.ID, follow.FollowerID, follow.TagID, follow.CreatedAt).
			Scan(&got.ID, &got.CreatedAt)
		if err == nil {
			return got, true, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, r.handlePostgresError("create tag follow", err)
		}

		err = r.db.QueryRow(ctx, lookup, follow.FollowerID, follow.TagID).Scan(&got.ID, &got.CreatedAt)
		if err == nil {
			return got, false, nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, false, r.handlePostgresError("get tag follow", err)
		}
	}
	return nil, false, fmt.Errorf("create tag follow: gave up after %d attempts: %w", getOrCreateAttempts, postify.ErrConflict)
}

const tagFollowColumns = `id, follower_id, tag_id, created_at`

func scanTagFollow(row pgx.Row) (*postify.TagFollow, error) {
	var f postify.TagFollow
	if err := row.Scan(&f.ID, &f.FollowerID, &f.TagID, &f.CreatedAt); err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *Repository) GetTagFollow(ctx context.Context, id uuid.UUID) (*postify.TagFollow, error) {
	follow, err := scanTagFollow(r.db.QueryRow(ctx, `SELECT `+tagFollowColumns+` FROM tag_follows WHERE id = $1`, id))
	if err != nil {
		return nil, r.handlePostgresError("get tag follow", err)
	}
	return follow, nil
}

func (r *Repository) DeleteTagFollow(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete tag follow", `DELETE FROM tag_follows WHERE id = $1`, id)
}

func (r *Repository) CountTagFollowers(ctx context.Context, tagID uuid.UUID) (int, error) {
	return r.count(ctx, "count tag followers", `SELECT COUNT(*) FROM tag_follows WHERE tag_id = $1`, tagID)
}

func (r *Repository) ListTagFollows(ctx context.Context, followerID uuid.UUID) ([]*postify.TagFollow, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+tagFollowColumns+` FROM tag_follows WHERE follower_id = $1 ORDER BY created_at, id`, followerID)
	if err != nil {
		return nil, r.handlePostgresError("list tag follows", err)
	}
	defer rows.Close()

	follows := []*postify.TagFollow{}
	for rows.Next() {
		follow, err := scanTagFollow(rows)
		if err != nil {
			return nil, r.handlePostgresError("list tag follows", err)
		}
		follows = append(follows, follow)
	}
	return follows, rows.Err()
}
