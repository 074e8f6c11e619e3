package sqlite

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/madhvi-n/postify/pkg/postify"
)

const postColumns = `p.id, p.author_id, p.title, p.slug, p.content, p.published, p.comments_enabled,
	p.is_featured, p.is_archived, p.category_id, p.created_at, p.updated_at`

type postTagRow struct {
	PostID uuid.UUID `db:"post_id"`
	TagID  uuid.UUID `db:"tag_id"`
}

func loadTags(ctx context.Context, q Executor, posts ...*postify.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	byID := make(map[uuid.UUID]*postify.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID.String()
		byID[p.ID] = p
		p.TagIDs = []uuid.UUID{}
	}

	query, args, err := sqlb.Select("post_id", "tag_id").From("post_tags").
		Where(sq.Eq{"post_id": ids}).OrderBy("tag_id").ToSql()
	if err != nil {
		return err
	}
	var rows []postTagRow
	if err := q.SelectContext(ctx, &rows, query, args...); err != nil {
		return err
	}
	for _, row := range rows {
		p := byID[row.PostID]
		p.TagIDs = append(p.TagIDs, row.TagID)
	}
	return nil
}

func insertPostTags(ctx context.Context, q Executor, postID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		if _, err := q.ExecContext(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES (?, ?) ON CONFLICT DO NOTHING`, postID, tagID); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) CreatePost(ctx context.Context, post *postify.Post) error {
	return r.transaction(ctx, "create post", func(q Executor) error {
		query := `
			INSERT INTO posts (
				id, author_id, title, slug, content, published, comments_enabled,
				is_featured, is_archived, category_id, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

		_, err := q.ExecContext(ctx, query,
			post.ID, post.AuthorID, post.Title, post.Slug, post.Content, post.Published,
			post.CommentsEnabled, post.IsFeatured, post.IsArchived, post.CategoryID,
			utc(post.CreatedAt), utc(post.UpdatedAt))
		if err != nil {
			return r.handleSQLiteError("create post", err)
		}
		if err := insertPostTags(ctx, q, post.ID, post.TagIDs); err != nil {
			return r.handleSQLiteError("create post tags", err)
		}
		return nil
	})
}

func (r *Repository) getPost(ctx context.Context, q Executor, operation, where string, arg any) (*postify.Post, error) {
	var post postify.Post
	if err := q.GetContext(ctx, &post, `SELECT `+postColumns+` FROM posts p WHERE `+where, arg); err != nil {
		return nil, r.handleSQLiteError(operation, err)
	}
	if err := loadTags(ctx, q, &post); err != nil {
		return nil, r.handleSQLiteError(operation, err)
	}
	return &post, nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*postify.Post, error) {
	return r.getPost(ctx, r.db, "get post", "p.id = ?", id)
}

func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*postify.Post, error) {
	return r.getPost(ctx, r.db, "get post by slug", "p.slug = ?", slug)
}

func (r *Repository) UpdatePost(ctx context.Context, id uuid.UUID, changes postify.PostChanges) (*postify.Post, error) {
	var post *postify.Post
	err := r.transaction(ctx, "update post", func(q Executor) error {
		update := sqlb.Update("posts").Set("updated_at", utc(changes.UpdatedAt)).Where("id = ?", id)
		if changes.Title != nil {
			update = update.Set("title", *changes.Title)
		}
		if changes.Content != nil {
			update = update.Set("content", *changes.Content)
		}
		switch {
		case changes.ClearCategory:
			update = update.Set("category_id", nil)
		case changes.CategoryID != nil:
			update = update.Set("category_id", *changes.CategoryID)
		}

		query, args, err := update.ToSql()
		if err != nil {
			return err
		}
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return r.handleSQLiteError("update post", err)
		}
		if err := r.requireAffected("update post", res); err != nil {
			return err
		}

		if changes.ReplaceTags {
			if _, err := q.ExecContext(ctx, `DELETE FROM post_tags WHERE post_id = ?`, id); err != nil {
				return r.handleSQLiteError("update post tags", err)
			}
			if err := insertPostTags(ctx, q, id, changes.TagIDs); err != nil {
				return r.handleSQLiteError("update post tags", err)
			}
		}

		post, err = r.getPost(ctx, q, "update post", "p.id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete post", `DELETE FROM posts WHERE id = ?`, id)
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func buildListPosts(filter postify.PostFilter) sq.SelectBuilder {
	query := sqlb.Select(postColumns).From("posts p").OrderBy("p.created_at DESC", "p.id")

	if filter.Published != nil {
		query = query.Where("p.published = ?", *filter.Published)
	}
	if filter.AuthorUsername != "" {
		query = query.Join("users u ON u.id = p.author_id").Where("u.username = ?", filter.AuthorUsername)
	}
	if filter.Search != "" {
		// LOWER on both sides; SQLite folds ASCII only
		pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
		query = query.Where(sq.Or{
			sq.Expr(`LOWER(p.title) LIKE ? ESCAPE '\'`, pattern),
			sq.Expr(`LOWER(p.content) LIKE ? ESCAPE '\'`, pattern),
		})
	}
	if filter.FollowedTagsOf != nil {
		query = query.Where(`EXISTS (
			SELECT 1 FROM post_tags pt
			JOIN tag_follows tf ON tf.tag_id = pt.tag_id
			WHERE pt.post_id = p.id AND tf.follower_id = ?)`, *filter.FollowedTagsOf)
	}
	return query
}

func (r *Repository) ListPosts(ctx context.Context, filter postify.PostFilter) ([]*postify.Post, error) {
	query, args, err := buildListPosts(filter).ToSql()
	if err != nil {
		return nil, err
	}

	posts := []*postify.Post{}
	if err := r.db.SelectContext(ctx, &posts, query, args...); err != nil {
		return nil, r.handleSQLiteError("list posts", err)
	}
	if err := loadTags(ctx, r.db, posts...); err != nil {
		return nil, r.handleSQLiteError("list posts", err)
	}
	return posts, nil
}

func (r *Repository) CountPostsWithTitlePrefix(ctx context.Context, prefix string) (int, error) {
	return r.count(ctx, "count posts by title",
		`SELECT COUNT(*) FROM posts WHERE substr(title, 1, length(?)) = ?`, prefix, prefix)
}

func (r *Repository) TogglePostFlag(ctx context.Context, id uuid.UUID, flag postify.PostFlag) (*postify.Post, error) {
	column := flag.Column()
	if column == "" {
		return nil, postify.ErrInvalid
	}

	var post *postify.Post
	err := r.transaction(ctx, "toggle post flag", func(q Executor) error {
		res, err := q.ExecContext(ctx, `UPDATE posts SET `+column+` = NOT `+column+` WHERE id = ?`, id)
		if err != nil {
			return r.handleSQLiteError("toggle post flag", err)
		}
		if err := r.requireAffected("toggle post flag", res); err != nil {
			return err
		}
		post, err = r.getPost(ctx, q, "toggle post flag", "p.id = ?", id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (r *Repository) AddPostTag(ctx context.Context, postID, tagID uuid.UUID) error {
	if err := insertPostTags(ctx, r.db, postID, []uuid.UUID{tagID}); err != nil {
		return r.handleSQLiteError("add post tag", err)
	}
	return nil
}

func (r *Repository) RemovePostTag(ctx context.Context, postID, tagID uuid.UUID) error {
	return r.execDelete(ctx, "remove post tag",
		`DELETE FROM post_tags WHERE post_id = ? AND tag_id = ?`, postID, tagID)
}
