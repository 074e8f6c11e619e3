package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/madhvi-n/postify/pkg/postify"
)

// Comment operations

const commentColumns = `id, author_id, post_id, text, created_at, updated_at`

func (r *Repository) CreateComment(ctx context.Context, comment *postify.Comment) error {
	query := `
		INSERT INTO comments (id, author_id, post_id, text, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		comment.ID, comment.AuthorID, comment.PostID, comment.Text, utc(comment.CreatedAt), utc(comment.UpdatedAt))
	if err != nil {
		return r.handleSQLiteError("create comment", err)
	}
	return nil
}

func (r *Repository) GetComment(ctx context.Context, id uuid.UUID) (*postify.Comment, error) {
	var comment postify.Comment
	if err := r.db.GetContext(ctx, &comment, `SELECT `+commentColumns+` FROM comments WHERE id = ?`, id); err != nil {
		return nil, r.handleSQLiteError("get comment", err)
	}
	return &comment, nil
}

func (r *Repository) UpdateComment(ctx context.Context, comment *postify.Comment) error {
	res, err := r.db.ExecContext(ctx, `UPDATE comments SET text = ?, updated_at = ? WHERE id = ?`,
		comment.Text, utc(comment.UpdatedAt), comment.ID)
	if err != nil {
		return r.handleSQLiteError("update comment", err)
	}
	return r.requireAffected("update comment", res)
}

func (r *Repository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete comment", `DELETE FROM comments WHERE id = ?`, id)
}

func (r *Repository) ListComments(ctx context.Context, postID uuid.UUID) ([]*postify.Comment, error) {
	comments := []*postify.Comment{}
	err := r.db.SelectContext(ctx, &comments,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = ? ORDER BY created_at, id`, postID)
	if err != nil {
		return nil, r.handleSQLiteError("list comments", err)
	}
	return comments, nil
}

// getOrCreate inserts a row guarded by a unique pair and reports whether it
// was new. lookup must select the surviving row into dest.
func (r *Repository) getOrCreate(ctx context.Context, operation, insert string, insertArgs []any,
	lookup string, lookupArgs []any, dest any) (bool, error) {
	var created bool
	err := r.transaction(ctx, operation, func(q Executor) error {
		res, err := q.ExecContext(ctx, insert, insertArgs...)
		if err != nil {
			return r.handleSQLiteError(operation, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return r.handleSQLiteError(operation, err)
		}
		created = n == 1
		if err := q.GetContext(ctx, dest, lookup, lookupArgs...); err != nil {
			return r.handleSQLiteError(operation, err)
		}
		return nil
	})
	return created, err
}

// Like operations

type likeRow struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	Kind      string    `db:"kind"`
	TargetID  uuid.UUID `db:"target_id"`
	CreatedAt time.Time `db:"created_at"`
}

func (l likeRow) like() *postify.Like {
	return &postify.Like{
		ID:        l.ID,
		UserID:    l.UserID,
		Target:    postify.LikeTarget{Kind: postify.LikeTargetKind(l.Kind), ID: l.TargetID},
		CreatedAt: l.CreatedAt,
	}
}

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

	insert := fmt.Sprintf(`INSERT INTO %s (id, user_id, %s, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, %s) DO NOTHING`, table, column, column)
	lookup := fmt.Sprintf(`SELECT id, user_id, '%s' AS kind, %s AS target_id, created_at
		FROM %s WHERE user_id = ? AND %s = ?`, like.Target.Kind, column, table, column)

	var row likeRow
	created, err := r.getOrCreate(ctx, "create like",
		insert, []any{like.ID, like.UserID, like.Target.ID, utc(like.CreatedAt)},
		lookup, []any{like.UserID, like.Target.ID}, &row)
	if err != nil {
		return nil, false, err
	}
	return row.like(), created, nil
}

func (r *Repository) GetLike(ctx context.Context, id uuid.UUID) (*postify.Like, error) {
	for _, kind := range []postify.LikeTargetKind{postify.LikeTargetPost, postify.LikeTargetComment} {
		table, column, _ := likeTable(kind)
		query := fmt.Sprintf(`SELECT id, user_id, '%s' AS kind, %s AS target_id, created_at FROM %s WHERE id = ?`,
			kind, column, table)

		var row likeRow
		err := r.db.GetContext(ctx, &row, query, id)
		if err == nil {
			return row.like(), nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, r.handleSQLiteError("get like", err)
		}
	}
	return nil, postify.ErrNotFound
}

func (r *Repository) DeleteLike(ctx context.Context, id uuid.UUID) error {
	return r.transaction(ctx, "delete like", func(q Executor) error {
		var removed int64
		for _, table := range []string{"post_likes", "comment_likes"} {
			res, err := q.ExecContext(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
			if err != nil {
				return r.handleSQLiteError("delete like", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return r.handleSQLiteError("delete like", err)
			}
			removed += n
		}
		if removed == 0 {
			return postify.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) CountLikes(ctx context.Context, target postify.LikeTarget) (int, error) {
	table, column, err := likeTable(target.Kind)
	if err != nil {
		return 0, err
	}
	return r.count(ctx, "count likes", `SELECT COUNT(*) FROM `+table+` WHERE `+column+` = ?`, target.ID)
}

// Follow operations

const userFollowColumns = `id, follower_id, followed_user_id, created_at`

func (r *Repository) GetOrCreateUserFollow(ctx context.Context, follow *postify.UserFollow) (*postify.UserFollow, bool, error) {
	var got postify.UserFollow
	created, err := r.getOrCreate(ctx, "create user follow",
		`INSERT INTO user_follows (id, follower_id, followed_user_id, created_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (follower_id, followed_user_id) DO NOTHING`,
		[]any{follow.ID, follow.FollowerID, follow.FollowedUserID, utc(follow.CreatedAt)},
		`SELECT `+userFollowColumns+` FROM user_follows WHERE follower_id = ? AND followed_user_id = ?`,
		[]any{follow.FollowerID, follow.FollowedUserID}, &got)
	if err != nil {
		return nil, false, err
	}
	return &got, created, nil
}

func (r *Repository) GetUserFollow(ctx context.Context, id uuid.UUID) (*postify.UserFollow, error) {
	var follow postify.UserFollow
	if err := r.db.GetContext(ctx, &follow, `SELECT `+userFollowColumns+` FROM user_follows WHERE id = ?`, id); err != nil {
		return nil, r.handleSQLiteError("get user follow", err)
	}
	return &follow, nil
}

func (r *Repository) DeleteUserFollow(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete user follow", `DELETE FROM user_follows WHERE id = ?`, id)
}

func (r *Repository) CountFollowers(ctx context.Context, userID uuid.UUID) (int, error) {
	return r.count(ctx, "count followers", `SELECT COUNT(*) FROM user_follows WHERE followed_user_id = ?`, userID)
}

func (r *Repository) ListUserFollows(ctx context.Context, followerID uuid.UUID) ([]*postify.UserFollow, error) {
	follows := []*postify.UserFollow{}
	err := r.db.SelectContext(ctx, &follows,
		`SELECT `+userFollowColumns+` FROM user_follows WHERE follower_id = ? ORDER BY created_at, id`, followerID)
	if err != nil {
		return nil, r.handleSQLiteError("list user follows", err)
	}
	return follows, nil
}

const tagFollowColumns = `id, follower_id, tag_id, created_at`

func (r *Repository) GetOrCreateTagFollow(ctx context.Context, follow *postify.TagFollow) (*postify.TagFollow, bool, error) {
	var got postify.TagFollow
	created, err := r.getOrCreate(ctx, "create tag follow",
		`INSERT INTO tag_follows (id, follower_id, tag_id, created_at) VALUES (?, ?, ?, ?)
			ON CONFLICT (follower_id, tag_id) DO NOTHING`,
		[]any{follow.ID, follow.FollowerID, follow.TagID, utc(follow.CreatedAt)},
		`SELECT `+tagFollowColumns+` FROM tag_follows WHERE follower_id = ? AND tag_id = ?`,
		[]any{follow.FollowerID, follow.TagID}, &got)
	if err != nil {
		return nil, false, err
	}
	return &got, created, nil
}

func (r *Repository) GetTagFollow(ctx context.Context, id uuid.UUID) (*postify.TagFollow, error) {
	var follow postify.TagFollow
	if err := r.db.GetContext(ctx, &follow, `SELECT `+tagFollowColumns+` FROM tag_follows WHERE id = ?`, id); err != nil {
		return nil, r.handleSQLiteError("get tag follow", err)
	}
	return &follow, nil
}

func (r *Repository) DeleteTagFollow(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete tag follow", `DELETE FROM tag_follows WHERE id = ?`, id)
}

func (r *Repository) CountTagFollowers(ctx context.Context, tagID uuid.UUID) (int, error) {
	return r.count(ctx, "count tag followers", `SELECT COUNT(*) FROM tag_follows WHERE tag_id = ?`, tagID)
}

func (r *Repository) ListTagFollows(ctx context.Context, followerID uuid.UUID) ([]*postify.TagFollow, error) {
	follows := []*postify.TagFollow{}
	err := r.db.SelectContext(ctx, &follows,
		`SELECT `+tagFollowColumns+` FROM tag_follows WHERE follower_id = ? ORDER BY created_at, id`, followerID)
	if err != nil {
		return nil, r.handleSQLiteError("list tag follows", err)
	}
	return follows, nil
}
