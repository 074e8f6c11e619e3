package postgres

import (
	"context"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/madhvi-n/postify/pkg/postify"
)

const postColumns = `p.id, p.author_id, p.title, p.slug, p.content, p.published, p.comments_enabled,
	p.is_featured, p.is_archived, p.category_id, p.created_at, p.updated_at`

const returningPost = `RETURNING id, author_id, title, slug, content, published, comments_enabled,
	is_featured, is_archived, category_id, created_at, updated_at`

func scanPost(row pgx.Row) (*postify.Post, error) {
	var p postify.Post
	err := row.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Slug, &p.Content, &p.Published, &p.CommentsEnabled,
		&p.IsFeatured, &p.IsArchived, &p.CategoryID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// loadTags fills TagIDs for the given posts with one query.
func loadTags(ctx context.Context, q DBTX, posts ...*postify.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(posts))
	byID := make(map[uuid.UUID]*postify.Post, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		byID[p.ID] = p
		p.TagIDs = []uuid.UUID{}
	}

	rows, err := q.Query(ctx, `SELECT post_id, tag_id FROM post_tags WHERE post_id = ANY($1) ORDER BY tag_id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var postID, tagID uuid.UUID
		if err := rows.Scan(&postID, &tagID); err != nil {
			return err
		}
		p := byID[postID]
		p.TagIDs = append(p.TagIDs, tagID)
	}
	return rows.Err()
}

func insertPostTags(ctx context.Context, q DBTX, postID uuid.UUID, tagIDs []uuid.UUID) error {
	for _, tagID := range tagIDs {
		_, err := q.Exec(ctx,
			`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, postID, tagID)
		if err != nil {
			return err
		}
	}
	return nil
}

// CreatePost inserts the post and its tag links in one transaction. The
// unique slug constraint surfaces as postify.ErrConflict.
func (r *Repository) CreatePost(ctx context.Context, post *postify.Post) error {
	return r.inTx(ctx, "create post", func(q DBTX) error {
		query := `
			INSERT INTO posts (
				id, author_id, title, slug, content, published, comments_enabled,
				is_featured, is_archived, category_id, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

		_, err := q.Exec(ctx, query,
			post.ID, post.AuthorID, post.Title, post.Slug, post.Content, post.Published,
			post.CommentsEnabled, post.IsFeatured, post.IsArchived, post.CategoryID,
			post.CreatedAt, post.UpdatedAt)
		if err != nil {
			return r.handlePostgresError("create post", err)
		}
		if err := insertPostTags(ctx, q, post.ID, post.TagIDs); err != nil {
			return r.handlePostgresError("create post tags", err)
		}
		return nil
	})
}

func (r *Repository) getPost(ctx context.Context, q DBTX, operation, where string, arg interface{}) (*postify.Post, error) {
	post, err := scanPost(q.QueryRow(ctx, `SELECT `+postColumns+` FROM posts p WHERE `+where, arg))
	if err != nil {
		return nil, r.handlePostgresError(operation, err)
	}
	if err := loadTags(ctx, q, post); err != nil {
		return nil, r.handlePostgresError(operation, err)
	}
	return post, nil
}

func (r *Repository) GetPost(ctx context.Context, id uuid.UUID) (*postify.Post, error) {
	return r.getPost(ctx, r.db, "get post", "p.id = $1", id)
}

func (r *Repository) GetPostBySlug(ctx context.Context, slug string) (*postify.Post, error) {
	return r.getPost(ctx, r.db, "get post by slug", "p.slug = $1", slug)
}

func (r *Repository) UpdatePost(ctx context.Context, id uuid.UUID, changes postify.PostChanges) (*postify.Post, error) {
	var post *postify.Post
	err := r.inTx(ctx, "update post", func(q DBTX) error {
		update := psql.Update("posts").Set("updated_at", changes.UpdatedAt).Where("id = ?", id)
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

		query, args, err := update.Suffix(returningPost).ToSql()
		if err != nil {
			return err
		}
		post, err = scanPost(q.QueryRow(ctx, query, args...))
		if err != nil {
			return r.handlePostgresError("update post", err)
		}

		if changes.ReplaceTags {
			if _, err := q.Exec(ctx, `DELETE FROM post_tags WHERE post_id = $1`, id); err != nil {
				return r.handlePostgresError("update post tags", err)
			}
			if err := insertPostTags(ctx, q, id, changes.TagIDs); err != nil {
				return r.handlePostgresError("update post tags", err)
			}
		}
		if err := loadTags(ctx, q, post); err != nil {
			return r.handlePostgresError("update post", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost removes the post; comments, likes and tag links cascade.
func (r *Repository) DeletePost(ctx context.Context, id uuid.UUID) error {
	return r.execDelete(ctx, "delete post", `DELETE FROM posts WHERE id = $1`, id)
}

// escapeLike escapes LIKE wildcards so the search term matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func buildListPosts(filter postify.PostFilter) sq.SelectBuilder {
	query := psql.Select(postColumns).From("posts p").OrderBy("p.created_at DESC", "p.id")

	if filter.Published != nil {
		query = query.Where(sq.Eq{"p.published": *filter.Published})
	}
	if filter.AuthorUsername != "" {
		query = query.Join("users u ON u.id = p.author_id").Where(sq.Eq{"u.username": filter.AuthorUsername})
	}
	if filter.Search != "" {
		pattern := "%" + escapeLike(filter.Search) + "%"
		query = query.Where(sq.Or{
			sq.ILike{"p.title": pattern},
			sq.ILike{"p.content": pattern},
		})
	}
	if filter.FollowedTagsOf != nil {
		query = query.Where(sq.Expr(`EXISTS (
			SELECT 1 FROM post_tags pt
			JOIN tag_follows tf ON tf.tag_id = pt.tag_id
			WHERE pt.post_id = p.id AND tf.follower_id = ?)`, *filter.FollowedTagsOf))
	}
	return query
}

func (r *Repository) ListPosts(ctx context.Context, filter postify.PostFilter) ([]*postify.Post, error) {
	query, args, err := buildListPosts(filter).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list posts", err)
	}
	posts := []*postify.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			rows.Close()
			return nil, r.handlePostgresError("list posts", err)
		}
		posts = append(posts, post)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list posts", err)
	}

	if err := loadTags(ctx, r.db, posts...); err != nil {
		return nil, r.handlePostgresError("list posts", err)
	}
	return posts, nil
}

func (r *Repository) CountPostsWithTitlePrefix(ctx context.Context, prefix string) (int, error) {
	return r.count(ctx, "count posts by title",
		`SELECT COUNT(*) FROM posts WHERE left(title, char_length($1::text)) = $1::text`, prefix)
}

// TogglePostFlag flips the flag with a single UPDATE so concurrent toggles never lose a write.
func (r *Repository) TogglePostFlag(ctx context.Context, id uuid.UUID, flag postify.PostFlag) (*postify.Post, error) {
	column := flag.Column()
	if column == "" {
		return nil, postify.ErrInvalid
	}
	query := `UPDATE posts SET ` + column + ` = NOT ` + column + ` WHERE id = $1 ` + returningPost

	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.handlePostgresError("toggle post flag", err)
	}
	if err := loadTags(ctx, r.db, post); err != nil {
		return nil, r.handlePostgresError("toggle post flag", err)
	}
	return post, nil
}

func (r *Repository) AddPostTag(ctx context.Context, postID, tagID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, postID, tagID)
	if err != nil {
		return r.handlePostgresError("add post tag", err)
	}
	return nil
}

func (r *Repository) RemovePostTag(ctx context.Context, postID, tagID uuid.UUID) error {
	return r.execDelete(ctx, "remove post tag",
		`DELETE FROM post_tags WHERE post_id = $1 AND tag_id = $2`, postID, tagID)
}
