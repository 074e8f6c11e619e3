package postify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/madhvi-n/postify/pkg/postify"
	"github.com/madhvi-n/postify/pkg/postify/repo/memory"
)

func setupService(t *testing.T) (postify.Service, *memory.Repository) {
	t.Helper()
	repo := memory.New()

	// strictly increasing timestamps keep listings deterministic
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	svc, err := postify.New(
		postify.WithRepository(repo),
		postify.WithEventSink(postify.NewNoopEventSink()),
		postify.WithClock(func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Second)
		}),
	)
	require.NoError(t, err)
	return svc, repo
}

func createUser(t *testing.T, repo postify.Repository, username string) *postify.User {
	t.Helper()
	user := &postify.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     username + "@example.com",
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.CreateUser(context.Background(), user))
	return user
}

func createTag(t *testing.T, repo postify.Repository, name string) *postify.Tag {
	t.Helper()
	tag := &postify.Tag{ID: uuid.New(), Name: name}
	require.NoError(t, repo.CreateTag(context.Background(), tag))
	return tag
}

func as(user *postify.User) context.Context {
	return postify.WithPrincipal(context.Background(), user.ID)
}

func createPost(t *testing.T, svc postify.Service, user *postify.User, title string) *postify.Post {
	t.Helper()
	post, err := svc.CreatePost(as(user), postify.CreatePostRequest{Title: title, Content: "body of " + title})
	require.NoError(t, err)
	return post
}

func TestNew_RequiresRepository(t *testing.T) {
	_, err := postify.New()
	assert.Error(t, err)
}

func TestCreatePost(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")

	t.Run("defaults and slug", func(t *testing.T) {
		post := createPost(t, svc, alice, "Hello World")
		assert.Equal(t, "hello-world", post.Slug)
		assert.Equal(t, alice.ID, post.AuthorID)
		assert.True(t, post.Published)
		assert.True(t, post.CommentsEnabled)
		assert.False(t, post.IsFeatured)
		assert.False(t, post.IsArchived)
	})

	t.Run("repeated title gets counted suffix", func(t *testing.T) {
		second := createPost(t, svc, alice, "Hello World")
		assert.Equal(t, "hello-world-1", second.Slug)
		third := createPost(t, svc, alice, "Hello World")
		assert.Equal(t, "hello-world-2", third.Slug)
	})

	t.Run("requires authentication", func(t *testing.T) {
		_, err := svc.CreatePost(context.Background(), postify.CreatePostRequest{Title: "x", Content: "y"})
		assert.ErrorIs(t, err, postify.ErrUnauthenticated)
	})

	t.Run("empty title is invalid", func(t *testing.T) {
		_, err := svc.CreatePost(as(alice), postify.CreatePostRequest{Title: "  ", Content: "y"})
		assert.ErrorIs(t, err, postify.ErrInvalid)
	})

	t.Run("author by username", func(t *testing.T) {
		bob := createUser(t, repo, "bob")
		post, err := svc.CreatePost(as(alice), postify.CreatePostRequest{
			Title: "Guest", Content: "c", AuthorUsername: "bob",
		})
		require.NoError(t, err)
		assert.Equal(t, bob.ID, post.AuthorID)
	})

	t.Run("unknown author", func(t *testing.T) {
		missing := uuid.New()
		_, err := svc.CreatePost(as(alice), postify.CreatePostRequest{
			Title: "Ghost", Content: "c", AuthorID: &missing,
		})
		assert.ErrorIs(t, err, postify.ErrNotFound)

		var entityErr *postify.EntityError
		require.True(t, errors.As(err, &entityErr))
		assert.Equal(t, postify.KindUser, entityErr.Kind)
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := svc.CreatePost(as(alice), postify.CreatePostRequest{
			Title: "Tagged", Content: "c", TagIDs: []uuid.UUID{uuid.New()},
		})
		assert.ErrorIs(t, err, postify.ErrNotFound)
	})

	t.Run("with tags and category", func(t *testing.T) {
		tag := createTag(t, repo, "go")
		category := &postify.Category{ID: uuid.New(), Name: "tech"}
		require.NoError(t, repo.CreateCategory(context.Background(), category))

		post, err := svc.CreatePost(as(alice), postify.CreatePostRequest{
			Title: "Tagged", Content: "c", TagIDs: []uuid.UUID{tag.ID, tag.ID}, CategoryID: &category.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{tag.ID}, post.TagIDs)
		require.NotNil(t, post.CategoryID)
		assert.Equal(t, category.ID, *post.CategoryID)
	})
}

func TestCreatePost_SlugCollisionFromDifferentTitle(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")

	first := createPost(t, svc, alice, "Hello, World")
	second := createPost(t, svc, alice, "Hello World")

	assert.Equal(t, "hello-world", first.Slug)
	// no existing title starts with "Hello World", so the counter starts at zero
	assert.Equal(t, "hello-world-0", second.Slug)
}

func TestCreatePost_DistinctSlugs(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")

	titles := []string{"Go", "Go", "Go Tips", "Go", "go", "Go Tips", "Gö"}
	seen := map[string]bool{}
	for _, title := range titles {
		post := createPost(t, svc, alice, title)
		assert.False(t, seen[post.Slug], "duplicate slug %s", post.Slug)
		seen[post.Slug] = true
	}
}

// slowCountRepository widens the window between counting titles and
// inserting, so concurrent creators all see the same stale count.
type slowCountRepository struct {
	*memory.Repository
}

func (r slowCountRepository) CountPostsWithTitlePrefix(ctx context.Context, prefix string) (int, error) {
	n, err := r.Repository.CountPostsWithTitlePrefix(ctx, prefix)
	time.Sleep(5 * time.Millisecond)
	return n, err
}

func TestCreatePost_ConcurrentIdenticalTitles(t *testing.T) {
	repo := memory.New()
	svc, err := postify.New(postify.WithRepository(slowCountRepository{Repository: repo}))
	require.NoError(t, err)
	alice := createUser(t, repo, "alice")

	const writers = 20
	var wg sync.WaitGroup
	slugs := make([]string, writers)
	errs := make([]error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			post, err := svc.CreatePost(as(alice), postify.CreatePostRequest{Title: "Go", Content: "c"})
			errs[i] = err
			if err == nil {
				slugs[i] = post.Slug
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := range slugs {
		require.NoError(t, errs[i])
		assert.False(t, seen[slugs[i]], "duplicate slug %s", slugs[i])
		seen[slugs[i]] = true
	}
	assert.Len(t, seen, writers)
	assert.True(t, seen["go"])
}

func TestUpdatePost(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")
	bob := createUser(t, repo, "bob")
	post := createPost(t, svc, alice, "Original")

	t.Run("non-author is forbidden", func(t *testing.T) {
		title := "Hijacked"
		_, err := svc.UpdatePost(as(bob), postify.UpdatePostRequest{ID: post.ID, Title: &title})
		assert.ErrorIs(t, err, postify.ErrForbidden)

		unchanged, err := svc.GetPost(context.Background(), post.ID)
		require.NoError(t, err)
		assert.Equal(t, "Original", unchanged.Title)
	})

	t.Run("slug is immutable", func(t *testing.T) {
		title := "Renamed"
		updated, err := svc.UpdatePost(as(alice), postify.UpdatePostRequest{ID: post.ID, Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Renamed", updated.Title)
		assert.Equal(t, "original", updated.Slug)
	})

	t.Run("replace tags and clear category", func(t *testing.T) {
		a := createTag(t, repo, "a")
		b := createTag(t, repo, "b")
		tags := []uuid.UUID{a.ID, b.ID}
		updated, err := svc.UpdatePost(as(alice), postify.UpdatePostRequest{ID: post.ID, TagIDs: &tags})
		require.NoError(t, err)
		assert.ElementsMatch(t, tags, updated.TagIDs)

		only := []uuid.UUID{b.ID}
		updated, err = svc.UpdatePost(as(alice), postify.UpdatePostRequest{ID: post.ID, TagIDs: &only, ClearCategory: true})
		require.NoError(t, err)
		assert.Equal(t, only, updated.TagIDs)
		assert.Nil(t, updated.CategoryID)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.UpdatePost(as(alice), postify.UpdatePostRequest{ID: uuid.New()})
		assert.ErrorIs(t, err, postify.ErrNotFound)
	})
}

func TestDeletePost_Cascades(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")
	bob := createUser(t, repo, "bob")
	post := createPost(t, svc, alice, "Doomed")

	comment, err := svc.CreateComment(as(bob), postify.CreateCommentRequest{PostID: post.ID, Text: "hi"})
	require.NoError(t, err)
	postLike, _, err := svc.Like(as(bob), postify.PostTarget(post.ID))
	require.NoError(t, err)
	commentLike, _, err := svc.Like(as(alice), postify.CommentTarget(comment.ID))
	require.NoError(t, err)

	_, err = svc.CreatePost(context.Background(), postify.CreatePostRequest{})
	require.ErrorIs(t, err, postify.ErrUnauthenticated)
	require.ErrorIs(t, svc.DeletePost(context.Background(), post.ID), postify.ErrUnauthenticated)

	// any authenticated user may delete a post
	require.NoError(t, svc.DeletePost(as(bob), post.ID))

	_, err = repo.GetComment(context.Background(), comment.ID)
	assert.ErrorIs(t, err, postify.ErrNotFound)
	_, err = repo.GetLike(context.Background(), postLike.ID)
	assert.ErrorIs(t, err, postify.ErrNotFound)
	_, err = repo.GetLike(context.Background(), commentLike.ID)
	assert.ErrorIs(t, err, postify.ErrNotFound)

	assert.ErrorIs(t, svc.DeletePost(as(bob), post.ID), postify.ErrNotFound)
}

func TestTogglePostFlag(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")
	bob := createUser(t, repo, "bob")
	post := createPost(t, svc, alice, "Flags")

	tests := []struct {
		flag postify.PostFlag
		get  func(*postify.Post) bool
	}{
		{postify.PostFlagArchived, func(p *postify.Post) bool { return p.IsArchived }},
		{postify.PostFlagFeatured, func(p *postify.Post) bool { return p.IsFeatured }},
		{postify.PostFlagPublished, func(p *postify.Post) bool { return p.Published }},
		{postify.PostFlagCommentsEnabled, func(p *postify.Post) bool { return p.CommentsEnabled }},
	}
	for _, tt := range tests {
		t.Run(string(tt.flag), func(t *testing.T) {
			before, err := svc.GetPost(context.Background(), post.ID)
			require.NoError(t, err)

			// toggles only require authentication
			after, err := svc.TogglePostFlag(as(bob), post.ID, tt.flag)
			require.NoError(t, err)
			assert.Equal(t, !tt.get(before), tt.get(after))

			again, err := svc.TogglePostFlag(as(alice), post.ID, tt.flag)
			require.NoError(t, err)
			assert.Equal(t, tt.get(before), tt.get(again))
		})
	}

	t.Run("unknown flag", func(t *testing.T) {
		_, err := svc.TogglePostFlag(as(alice), post.ID, "pinned")
		assert.ErrorIs(t, err, postify.ErrInvalid)
	})

	t.Run("missing post", func(t *testing.T) {
		_, err := svc.TogglePostFlag(as(alice), uuid.New(), postify.PostFlagFeatured)
		assert.ErrorIs(t, err, postify.ErrNotFound)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, err := svc.TogglePostFlag(context.Background(), post.ID, postify.PostFlagFeatured)
		assert.ErrorIs(t, err, postify.ErrUnauthenticated)
	})
}

func TestPostTagsAndCategory(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")
	post := createPost(t, svc, alice, "Taxonomy")
	tag := createTag(t, repo, "go")

	updated, err := svc.AddPostTag(as(alice), post.ID, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{tag.ID}, updated.TagIDs)

	updated, err = svc.AddPostTag(as(alice), post.ID, tag.ID)
	require.NoError(t, err)
	assert.Len(t, updated.TagIDs, 1)

	_, err = svc.AddPostTag(as(alice), post.ID, uuid.New())
	assert.ErrorIs(t, err, postify.ErrNotFound)

	updated, err = svc.RemovePostTag(as(alice), post.ID, tag.ID)
	require.NoError(t, err)
	assert.Empty(t, updated.TagIDs)

	_, err = svc.RemovePostTag(as(alice), post.ID, tag.ID)
	assert.ErrorIs(t, err, postify.ErrNotFound)
	var entityErr *postify.EntityError
	require.True(t, errors.As(err, &entityErr))
	assert.Equal(t, postify.KindPostTag, entityErr.Kind)

	category := &postify.Category{ID: uuid.New(), Name: "news"}
	require.NoError(t, repo.CreateCategory(context.Background(), category))
	updated, err = svc.SetPostCategory(as(alice), post.ID, category.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.CategoryID)
	assert.Equal(t, category.ID, *updated.CategoryID)

	_, err = svc.SetPostCategory(as(alice), post.ID, uuid.New())
	assert.ErrorIs(t, err, postify.ErrNotFound)
	_, err = svc.SetPostCategory(as(alice), uuid.New(), category.ID)
	assert.ErrorIs(t, err, postify.ErrNotFound)
}

func TestListPosts(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")
	bob := createUser(t, repo, "bob")

	first, err := svc.CreatePost(as(alice), postify.CreatePostRequest{Title: "Learning Go", Content: "channels"})
	require.NoError(t, err)
	second, err := svc.CreatePost(as(bob), postify.CreatePostRequest{Title: "Rust notes", Content: "Borrowing in GO style"})
	require.NoError(t, err)
	third, err := svc.CreatePost(as(bob), postify.CreatePostRequest{Title: "Cooking", Content: "pasta"})
	require.NoError(t, err)
	_, err = svc.TogglePostFlag(as(bob), third.ID, postify.PostFlagPublished)
	require.NoError(t, err)

	ids := func(posts []*postify.Post) []uuid.UUID {
		out := make([]uuid.UUID, 0, len(posts))
		for _, p := range posts {
			out = append(out, p.ID)
		}
		return out
	}

	all, err := svc.ListPosts(context.Background(), postify.ListPostsRequest{})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{third.ID, second.ID, first.ID}, ids(all))

	published := true
	pub, err := svc.ListPosts(context.Background(), postify.ListPostsRequest{Published: &published})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID, first.ID}, ids(pub))

	search, err := svc.ListPosts(context.Background(), postify.ListPostsRequest{Search: "go"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID, first.ID}, ids(search))

	combined, err := svc.ListPosts(context.Background(), postify.ListPostsRequest{Search: "go", AuthorUsername: "bob"})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{second.ID}, ids(combined))

	none, err := svc.ListPosts(context.Background(), postify.ListPostsRequest{AuthorUsername: "nobody"})
	require.NoError(t, err)
	assert.Empty(t, none)

	bySlug, err := svc.GetPostBySlug(context.Background(), "learning-go")
	require.NoError(t, err)
	assert.Equal(t, first.ID, bySlug.ID)
}

func TestComments(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")
	bob := createUser(t, repo, "bob")
	post := createPost(t, svc, alice, "Discuss")

	c1, err := svc.CreateComment(as(bob), postify.CreateCommentRequest{PostID: post.ID, Text: "first"})
	require.NoError(t, err)
	assert.Equal(t, bob.ID, c1.AuthorID)
	c2, err := svc.CreateComment(as(alice), postify.CreateCommentRequest{PostID: post.ID, Text: "second"})
	require.NoError(t, err)

	t.Run("list oldest first", func(t *testing.T) {
		comments, err := svc.ListComments(context.Background(), post.ID)
		require.NoError(t, err)
		require.Len(t, comments, 2)
		assert.Equal(t, c1.ID, comments[0].ID)
		assert.Equal(t, c2.ID, comments[1].ID)
	})

	t.Run("validation", func(t *testing.T) {
		_, err := svc.CreateComment(as(bob), postify.CreateCommentRequest{PostID: post.ID, Text: ""})
		assert.ErrorIs(t, err, postify.ErrInvalid)
		_, err = svc.CreateComment(as(bob), postify.CreateCommentRequest{PostID: uuid.New(), Text: "x"})
		assert.ErrorIs(t, err, postify.ErrNotFound)
		_, err = svc.CreateComment(context.Background(), postify.CreateCommentRequest{PostID: post.ID, Text: "x"})
		assert.ErrorIs(t, err, postify.ErrUnauthenticated)
	})

	t.Run("owner only edit and delete", func(t *testing.T) {
		_, err := svc.UpdateComment(as(alice), postify.UpdateCommentRequest{ID: c1.ID, Text: "edited"})
		assert.ErrorIs(t, err, postify.ErrForbidden)
		assert.ErrorIs(t, svc.DeleteComment(as(alice), c1.ID), postify.ErrForbidden)

		updated, err := svc.UpdateComment(as(bob), postify.UpdateCommentRequest{ID: c1.ID, Text: "edited"})
		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Text)

		require.NoError(t, svc.DeleteComment(as(bob), c1.ID))
		assert.ErrorIs(t, svc.DeleteComment(as(bob), c1.ID), postify.ErrNotFound)
	})

	t.Run("comments disabled", func(t *testing.T) {
		_, err := svc.TogglePostFlag(as(alice), post.ID, postify.PostFlagCommentsEnabled)
		require.NoError(t, err)
		_, err = svc.CreateComment(as(bob), postify.CreateCommentRequest{PostID: post.ID, Text: "late"})
		assert.ErrorIs(t, err, postify.ErrForbidden)
	})
}

func TestLikes(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")
	bob := createUser(t, repo, "bob")
	carol := createUser(t, repo, "carol")
	post := createPost(t, svc, carol, "Likeable")

	first, created, err := svc.Like(as(alice), postify.PostTarget(post.ID))
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.Like(as(alice), postify.PostTarget(post.ID))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	count, err := svc.CountLikes(context.Background(), postify.PostTarget(post.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, _, err = svc.Like(as(bob), postify.PostTarget(post.ID))
	require.NoError(t, err)
	count, err = svc.CountLikes(context.Background(), postify.PostTarget(post.ID))
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	t.Run("unlike is owner only", func(t *testing.T) {
		assert.ErrorIs(t, svc.Unlike(as(bob), first.ID), postify.ErrForbidden)
		require.NoError(t, svc.Unlike(as(alice), first.ID))
		assert.ErrorIs(t, svc.Unlike(as(alice), first.ID), postify.ErrNotFound)

		count, err := svc.CountLikes(context.Background(), postify.PostTarget(post.ID))
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("comment likes are separate", func(t *testing.T) {
		comment, err := svc.CreateComment(as(bob), postify.CreateCommentRequest{PostID: post.ID, Text: "nice"})
		require.NoError(t, err)
		_, created, err := svc.Like(as(alice), postify.CommentTarget(comment.ID))
		require.NoError(t, err)
		assert.True(t, created)

		count, err := svc.CountLikes(context.Background(), postify.CommentTarget(comment.ID))
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("missing target", func(t *testing.T) {
		_, _, err := svc.Like(as(alice), postify.CommentTarget(uuid.New()))
		assert.ErrorIs(t, err, postify.ErrNotFound)
		_, err = svc.CountLikes(context.Background(), postify.PostTarget(uuid.New()))
		assert.ErrorIs(t, err, postify.ErrNotFound)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		_, _, err := svc.Like(context.Background(), postify.PostTarget(post.ID))
		assert.ErrorIs(t, err, postify.ErrUnauthenticated)
	})
}

func TestFollows(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")
	bob := createUser(t, repo, "bob")
	carol := createUser(t, repo, "carol")

	follow, created, err := svc.FollowUser(as(alice), bob.ID)
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := svc.FollowUser(as(alice), bob.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, follow.ID, again.ID)

	_, _, err = svc.FollowUser(as(carol), bob.ID)
	require.NoError(t, err)

	count, err := svc.CountFollowers(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	following, err := svc.ListFollowing(as(alice))
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, bob.ID, following[0].FollowedUserID)

	_, _, err = svc.FollowUser(as(alice), alice.ID)
	assert.ErrorIs(t, err, postify.ErrInvalid)
	_, _, err = svc.FollowUser(as(alice), uuid.New())
	assert.ErrorIs(t, err, postify.ErrNotFound)
	_, err = svc.CountFollowers(context.Background(), uuid.New())
	assert.ErrorIs(t, err, postify.ErrNotFound)

	assert.ErrorIs(t, svc.UnfollowUser(as(carol), follow.ID), postify.ErrForbidden)
	require.NoError(t, svc.UnfollowUser(as(alice), follow.ID))
	assert.ErrorIs(t, svc.UnfollowUser(as(alice), follow.ID), postify.ErrNotFound)

	count, err = svc.CountFollowers(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestTagFollowsAndFeed(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")
	bob := createUser(t, repo, "bob")
	golang := createTag(t, repo, "go")
	rust := createTag(t, repo, "rust")
	cooking := createTag(t, repo, "cooking")

	both, err := svc.CreatePost(as(bob), postify.CreatePostRequest{Title: "Go vs Rust", Content: "c", TagIDs: []uuid.UUID{golang.ID, rust.ID}})
	require.NoError(t, err)
	_, err = svc.CreatePost(as(bob), postify.CreatePostRequest{Title: "Pasta", Content: "c", TagIDs: []uuid.UUID{cooking.ID}})
	require.NoError(t, err)
	goOnly, err := svc.CreatePost(as(bob), postify.CreatePostRequest{Title: "Go tips", Content: "c", TagIDs: []uuid.UUID{golang.ID}})
	require.NoError(t, err)

	tf, created, err := svc.FollowTag(as(alice), golang.ID)
	require.NoError(t, err)
	assert.True(t, created)
	_, created, err = svc.FollowTag(as(alice), golang.ID)
	require.NoError(t, err)
	assert.False(t, created)
	_, _, err = svc.FollowTag(as(alice), rust.ID)
	require.NoError(t, err)

	feed, err := svc.PostsByFollowedTags(as(alice))
	require.NoError(t, err)
	require.Len(t, feed, 2, "post with both followed tags appears once")
	assert.Equal(t, goOnly.ID, feed[0].ID)
	assert.Equal(t, both.ID, feed[1].ID)

	count, err := svc.CountTagFollowers(context.Background(), golang.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	tags, err := svc.ListFollowedTags(as(alice))
	require.NoError(t, err)
	assert.Len(t, tags, 2)

	assert.ErrorIs(t, svc.UnfollowTag(as(bob), tf.ID), postify.ErrForbidden)
	require.NoError(t, svc.UnfollowTag(as(alice), tf.ID))

	count, err = svc.CountTagFollowers(context.Background(), golang.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	_, _, err = svc.FollowTag(as(alice), uuid.New())
	assert.ErrorIs(t, err, postify.ErrNotFound)
	_, err = svc.PostsByFollowedTags(context.Background())
	assert.ErrorIs(t, err, postify.ErrUnauthenticated)
}

func TestDeleteAccount_Cascades(t *testing.T) {
	svc, repo := setupService(t)
	alice := createUser(t, repo, "alice")
	bob := createUser(t, repo, "bob")

	alicePost := createPost(t, svc, alice, "Alice's")
	bobPost := createPost(t, svc, bob, "Bob's")
	bobComment, err := svc.CreateComment(as(bob), postify.CreateCommentRequest{PostID: alicePost.ID, Text: "on alice"})
	require.NoError(t, err)
	aliceComment, err := svc.CreateComment(as(alice), postify.CreateCommentRequest{PostID: bobPost.ID, Text: "on bob"})
	require.NoError(t, err)
	aliceLike, _, err := svc.Like(as(alice), postify.PostTarget(bobPost.ID))
	require.NoError(t, err)
	_, _, err = svc.FollowUser(as(bob), alice.ID)
	require.NoError(t, err)

	require.ErrorIs(t, svc.DeleteAccount(context.Background()), postify.ErrUnauthenticated)
	require.NoError(t, svc.DeleteAccount(as(alice)))

	ctx := context.Background()
	_, err = repo.GetUser(ctx, alice.ID)
	assert.ErrorIs(t, err, postify.ErrNotFound)
	_, err = repo.GetPost(ctx, alicePost.ID)
	assert.ErrorIs(t, err, postify.ErrNotFound)
	_, err = repo.GetComment(ctx, bobComment.ID)
	assert.ErrorIs(t, err, postify.ErrNotFound, "comments on a deleted post go with it")
	_, err = repo.GetComment(ctx, aliceComment.ID)
	assert.ErrorIs(t, err, postify.ErrNotFound)
	_, err = repo.GetLike(ctx, aliceLike.ID)
	assert.ErrorIs(t, err, postify.ErrNotFound)

	stats, err := repo.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Follows)
	assert.Equal(t, int64(1), stats.Users)

	_, err = repo.GetPost(ctx, bobPost.ID)
	assert.NoError(t, err)
}

func TestScenario_SlugForbiddenAndIdempotentLike(t *testing.T) {
	svc, repo := setupService(t)
	a := createUser(t, repo, "a")
	b := createUser(t, repo, "b")
	c := createUser(t, repo, "c")

	p1 := createPost(t, svc, a, "Hello World")
	p2 := createPost(t, svc, a, "Hello World")
	assert.Equal(t, "hello-world", p1.Slug)
	assert.Equal(t, "hello-world-1", p2.Slug)

	content := "x"
	_, err := svc.UpdatePost(as(b), postify.UpdatePostRequest{ID: p1.ID, Content: &content})
	assert.ErrorIs(t, err, postify.ErrForbidden)

	cPost := createPost(t, svc, c, "C's post")
	l1, _, err := svc.Like(as(a), postify.PostTarget(cPost.ID))
	require.NoError(t, err)
	l2, _, err := svc.Like(as(a), postify.PostTarget(cPost.ID))
	require.NoError(t, err)
	assert.Equal(t, l1.ID, l2.ID)

	count, err := svc.CountLikes(context.Background(), postify.PostTarget(cPost.ID))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
