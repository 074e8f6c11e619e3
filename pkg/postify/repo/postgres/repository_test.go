package postgres

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madhvi-n/postify/pkg/postify"
)

func TestBuildListPosts(t *testing.T) {
	published := true
	follower := uuid.New()

	query, args, err := buildListPosts(postify.PostFilter{
		Published:      &published,
		AuthorUsername: "alice",
		Search:         "50%_off",
		FollowedTagsOf: &follower,
	}).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM posts p JOIN users u ON u.id = p.author_id")
	assert.Contains(t, query, "p.published = $1")
	assert.Contains(t, query, "u.username = $2")
	assert.Contains(t, query, "p.title ILIKE $3")
	assert.Contains(t, query, "p.content ILIKE $4")
	assert.Contains(t, query, "tf.follower_id = $5")
	assert.True(t, strings.HasSuffix(query, "ORDER BY p.created_at DESC, p.id"))
	assert.Equal(t, []interface{}{true, "alice", `%50\%\_off%`, `%50\%\_off%`, follower}, args)
}

func TestBuildListPosts_NoFilter(t *testing.T) {
	query, args, err := buildListPosts(postify.PostFilter{}).ToSql()
	require.NoError(t, err)
	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "JOIN")
	assert.Empty(t, args)
}

// setupPostgresTest connects to TEST_DATABASE_URL and migrates a fresh schema.
func setupPostgresTest(t *testing.T) *Repository {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	schema := fmt.Sprintf("postify_test_%d", time.Now().UnixNano())
	admin, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	_, err = admin.Exec(ctx, "CREATE SCHEMA "+schema)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = admin.Exec(context.Background(), "DROP SCHEMA "+schema+" CASCADE")
		admin.Close()
	})

	cfg, err := pgxpool.ParseConfig(url)
	require.NoError(t, err)
	cfg.ConnConfig.RuntimeParams["search_path"] = schema
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	repo := NewWithPool(pool)
	require.NoError(t, repo.Migrate(ctx))
	return repo
}

func TestPostgresRepository(t *testing.T) {
	repo := setupPostgresTest(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Microsecond)

	alice := &postify.User{ID: uuid.New(), Username: "alice", Email: "alice@example.com", CreatedAt: now}
	bob := &postify.User{ID: uuid.New(), Username: "bob", Email: "bob@example.com", CreatedAt: now}
	require.NoError(t, repo.CreateUser(ctx, alice))
	require.NoError(t, repo.CreateUser(ctx, bob))
	assert.ErrorIs(t, repo.CreateUser(ctx, &postify.User{ID: uuid.New(), Username: "alice", Email: "x@example.com"}), postify.ErrConflict)

	tag := &postify.Tag{ID: uuid.New(), Name: "go"}
	require.NoError(t, repo.CreateTag(ctx, tag))

	post := &postify.Post{
		ID: uuid.New(), AuthorID: alice.ID, Title: "Hello World", Slug: "hello-world", Content: "body",
		Published: true, CommentsEnabled: true, TagIDs: []uuid.UUID{tag.ID}, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repo.CreatePost(ctx, post))

	t.Run("slug conflict", func(t *testing.T) {
		dup := *post
		dup.ID = uuid.New()
		dup.TagIDs = nil
		assert.ErrorIs(t, repo.CreatePost(ctx, &dup), postify.ErrConflict)
	})

	t.Run("get with tags", func(t *testing.T) {
		got, err := repo.GetPostBySlug(ctx, "hello-world")
		require.NoError(t, err)
		assert.Equal(t, post.ID, got.ID)
		assert.ElementsMatch(t, []uuid.UUID{tag.ID}, got.TagIDs)

		_, err = repo.GetPost(ctx, uuid.New())
		assert.ErrorIs(t, err, postify.ErrNotFound)
	})

	t.Run("toggle flag", func(t *testing.T) {
		got, err := repo.TogglePostFlag(ctx, post.ID, postify.PostFlagFeatured)
		require.NoError(t, err)
		assert.True(t, got.IsFeatured)
		got, err = repo.TogglePostFlag(ctx, post.ID, postify.PostFlagFeatured)
		require.NoError(t, err)
		assert.False(t, got.IsFeatured)
	})

	t.Run("list and count", func(t *testing.T) {
		posts, err := repo.ListPosts(ctx, postify.PostFilter{Search: "WORLD", AuthorUsername: "alice"})
		require.NoError(t, err)
		require.Len(t, posts, 1)

		n, err := repo.CountPostsWithTitlePrefix(ctx, "Hello")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("likes are idempotent", func(t *testing.T) {
		like := &postify.Like{ID: uuid.New(), UserID: bob.ID, Target: postify.PostTarget(post.ID), CreatedAt: now}
		first, created, err := repo.GetOrCreateLike(ctx, like)
		require.NoError(t, err)
		assert.True(t, created)

		again, created, err := repo.GetOrCreateLike(ctx, &postify.Like{ID: uuid.New(), UserID: bob.ID, Target: like.Target, CreatedAt: now})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, again.ID)

		got, err := repo.GetLike(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, postify.LikeTargetPost, got.Target.Kind)
	})

	t.Run("follow feed", func(t *testing.T) {
		_, created, err := repo.GetOrCreateTagFollow(ctx, &postify.TagFollow{ID: uuid.New(), FollowerID: bob.ID, TagID: tag.ID, CreatedAt: now})
		require.NoError(t, err)
		assert.True(t, created)

		posts, err := repo.ListPosts(ctx, postify.PostFilter{FollowedTagsOf: &bob.ID})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, post.ID, posts[0].ID)
	})

	t.Run("delete user cascades", func(t *testing.T) {
		require.NoError(t, repo.DeleteUser(ctx, alice.ID))
		stats, err := repo.Statistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.Users)
		assert.Equal(t, int64(0), stats.Posts)
		assert.Equal(t, int64(0), stats.Likes)
	})
}
