package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madhvi-n/postify/pkg/postify"
	"github.com/madhvi-n/postify/pkg/postify/repo/sqlite"
)

func setupSQLiteTest(t *testing.T) *sqlite.Repository {
	t.Helper()
	repo, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repo.Close() })
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func newUser(t *testing.T, repo *sqlite.Repository, name string) *postify.User {
	t.Helper()
	u := &postify.User{ID: uuid.New(), Username: name, Email: name + "@example.com", CreatedAt: time.Now()}
	require.NoError(t, repo.CreateUser(context.Background(), u))
	return u
}

func newPost(t *testing.T, repo *sqlite.Repository, author *postify.User, title, slug string, at time.Time, tags ...uuid.UUID) *postify.Post {
	t.Helper()
	p := &postify.Post{
		ID: uuid.New(), AuthorID: author.ID, Title: title, Slug: slug, Content: "content of " + title,
		Published: true, CommentsEnabled: true, TagIDs: tags, CreatedAt: at, UpdatedAt: at,
	}
	require.NoError(t, repo.CreatePost(context.Background(), p))
	return p
}

func TestSQLiteRepository_Users(t *testing.T) {
	repo := setupSQLiteTest(t)
	ctx := context.Background()
	alice := newUser(t, repo, "alice")

	got, err := repo.GetUserByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, got.ID)
	assert.Equal(t, "alice@example.com", got.Email)

	_, err = repo.GetUser(ctx, uuid.New())
	assert.ErrorIs(t, err, postify.ErrNotFound)

	err = repo.CreateUser(ctx, &postify.User{ID: uuid.New(), Username: "alice", Email: "other@example.com", CreatedAt: time.Now()})
	assert.ErrorIs(t, err, postify.ErrConflict)

	newUser(t, repo, "aaron")
	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "aaron", users[0].Username)
}

func TestSQLiteRepository_Posts(t *testing.T) {
	repo := setupSQLiteTest(t)
	ctx := context.Background()
	alice := newUser(t, repo, "alice")
	bob := newUser(t, repo, "bob")
	goTag := &postify.Tag{ID: uuid.New(), Name: "go"}
	require.NoError(t, repo.CreateTag(ctx, goTag))
	news := &postify.Category{ID: uuid.New(), Name: "news"}
	require.NoError(t, repo.CreateCategory(ctx, news))

	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	first := newPost(t, repo, alice, "Hello World", "hello-world", base, goTag.ID)
	second := newPost(t, repo, bob, "Hello Again", "hello-again", base.Add(time.Second))

	t.Run("slug is unique", func(t *testing.T) {
		dup := &postify.Post{ID: uuid.New(), AuthorID: alice.ID, Title: "x", Slug: "hello-world", CreatedAt: base, UpdatedAt: base}
		assert.ErrorIs(t, repo.CreatePost(ctx, dup), postify.ErrConflict)
	})

	t.Run("missing author", func(t *testing.T) {
		orphan := &postify.Post{ID: uuid.New(), AuthorID: uuid.New(), Title: "x", Slug: "orphan", CreatedAt: base, UpdatedAt: base}
		assert.ErrorIs(t, repo.CreatePost(ctx, orphan), postify.ErrNotFound)
	})

	t.Run("get by slug loads tags", func(t *testing.T) {
		got, err := repo.GetPostBySlug(ctx, "hello-world")
		require.NoError(t, err)
		assert.Equal(t, first.ID, got.ID)
		assert.Equal(t, []uuid.UUID{goTag.ID}, got.TagIDs)
		assert.True(t, got.Published)
		assert.Nil(t, got.CategoryID)
	})

	t.Run("list is newest first and filterable", func(t *testing.T) {
		posts, err := repo.ListPosts(ctx, postify.PostFilter{})
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, second.ID, posts[0].ID)
		assert.Equal(t, first.ID, posts[1].ID)

		posts, err = repo.ListPosts(ctx, postify.PostFilter{AuthorUsername: "alice"})
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, first.ID, posts[0].ID)

		posts, err = repo.ListPosts(ctx, postify.PostFilter{Search: "WORLD"})
		require.NoError(t, err)
		require.Len(t, posts, 1)

		posts, err = repo.ListPosts(ctx, postify.PostFilter{Search: "%"})
		require.NoError(t, err)
		assert.Empty(t, posts)
	})

	t.Run("title prefix count", func(t *testing.T) {
		n, err := repo.CountPostsWithTitlePrefix(ctx, "Hello")
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = repo.CountPostsWithTitlePrefix(ctx, "hello")
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("update and toggle", func(t *testing.T) {
		title := "Hello Go"
		updated, err := repo.UpdatePost(ctx, first.ID, postify.PostChanges{
			Title: &title, CategoryID: &news.ID, ReplaceTags: true, UpdatedAt: base.Add(time.Hour),
		})
		require.NoError(t, err)
		assert.Equal(t, "Hello Go", updated.Title)
		assert.Equal(t, "hello-world", updated.Slug)
		require.NotNil(t, updated.CategoryID)
		assert.Equal(t, news.ID, *updated.CategoryID)
		assert.Empty(t, updated.TagIDs)

		toggled, err := repo.TogglePostFlag(ctx, first.ID, postify.PostFlagArchived)
		require.NoError(t, err)
		assert.True(t, toggled.IsArchived)

		_, err = repo.TogglePostFlag(ctx, uuid.New(), postify.PostFlagArchived)
		assert.ErrorIs(t, err, postify.ErrNotFound)

		require.NoError(t, repo.DeleteCategory(ctx, news.ID))
		got, err := repo.GetPost(ctx, first.ID)
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)
	})

	t.Run("post tags", func(t *testing.T) {
		require.NoError(t, repo.AddPostTag(ctx, second.ID, goTag.ID))
		require.NoError(t, repo.AddPostTag(ctx, second.ID, goTag.ID))
		require.NoError(t, repo.RemovePostTag(ctx, second.ID, goTag.ID))
		assert.ErrorIs(t, repo.RemovePostTag(ctx, second.ID, goTag.ID), postify.ErrNotFound)
	})
}

func TestSQLiteRepository_SocialEdges(t *testing.T) {
	repo := setupSQLiteTest(t)
	ctx := context.Background()
	alice := newUser(t, repo, "alice")
	bob := newUser(t, repo, "bob")
	tag := &postify.Tag{ID: uuid.New(), Name: "go"}
	require.NoError(t, repo.CreateTag(ctx, tag))
	post := newPost(t, repo, alice, "Tagged", "tagged", time.Now(), tag.ID)

	comment := &postify.Comment{ID: uuid.New(), AuthorID: bob.ID, PostID: post.ID, Text: "nice", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	require.NoError(t, repo.CreateComment(ctx, comment))

	t.Run("likes", func(t *testing.T) {
		like, created, err := repo.GetOrCreateLike(ctx, &postify.Like{ID: uuid.New(), UserID: bob.ID, Target: postify.PostTarget(post.ID), CreatedAt: time.Now()})
		require.NoError(t, err)
		assert.True(t, created)

		again, created, err := repo.GetOrCreateLike(ctx, &postify.Like{ID: uuid.New(), UserID: bob.ID, Target: postify.PostTarget(post.ID), CreatedAt: time.Now()})
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, like.ID, again.ID)

		commentLike, _, err := repo.GetOrCreateLike(ctx, &postify.Like{ID: uuid.New(), UserID: alice.ID, Target: postify.CommentTarget(comment.ID), CreatedAt: time.Now()})
		require.NoError(t, err)

		got, err := repo.GetLike(ctx, commentLike.ID)
		require.NoError(t, err)
		assert.Equal(t, postify.CommentTarget(comment.ID), got.Target)

		n, err := repo.CountLikes(ctx, postify.PostTarget(post.ID))
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		require.NoError(t, repo.DeleteLike(ctx, like.ID))
		assert.ErrorIs(t, repo.DeleteLike(ctx, like.ID), postify.ErrNotFound)
	})

	t.Run("follows", func(t *testing.T) {
		follow, created, err := repo.GetOrCreateUserFollow(ctx, &postify.UserFollow{ID: uuid.New(), FollowerID: bob.ID, FollowedUserID: alice.ID, CreatedAt: time.Now()})
		require.NoError(t, err)
		assert.True(t, created)

		_, created, err = repo.GetOrCreateUserFollow(ctx, &postify.UserFollow{ID: uuid.New(), FollowerID: bob.ID, FollowedUserID: alice.ID, CreatedAt: time.Now()})
		require.NoError(t, err)
		assert.False(t, created)

		n, err := repo.CountFollowers(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		list, err := repo.ListUserFollows(ctx, bob.ID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, follow.ID, list[0].ID)

		_, _, err = repo.GetOrCreateTagFollow(ctx, &postify.TagFollow{ID: uuid.New(), FollowerID: bob.ID, TagID: tag.ID, CreatedAt: time.Now()})
		require.NoError(t, err)
		feed, err := repo.ListPosts(ctx, postify.PostFilter{FollowedTagsOf: &bob.ID})
		require.NoError(t, err)
		require.Len(t, feed, 1)
		assert.Equal(t, post.ID, feed[0].ID)
	})

	t.Run("deleting a user cascades", func(t *testing.T) {
		require.NoError(t, repo.DeleteUser(ctx, alice.ID))

		stats, err := repo.Statistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, postify.Statistics{Users: 1, TagFollows: 1}, *stats)
	})
}

func TestSQLiteRepository_WithService(t *testing.T) {
	repo := setupSQLiteTest(t)
	svc, err := postify.New(postify.WithRepository(repo))
	require.NoError(t, err)

	author := newUser(t, repo, "writer")
	ctx := postify.WithPrincipal(context.Background(), author.ID)

	a, err := svc.CreatePost(ctx, postify.CreatePostRequest{Title: "Same Title", Content: "one"})
	require.NoError(t, err)
	b, err := svc.CreatePost(ctx, postify.CreatePostRequest{Title: "Same Title", Content: "two"})
	require.NoError(t, err)

	assert.Equal(t, "same-title", a.Slug)
	assert.NotEqual(t, a.Slug, b.Slug)
}
