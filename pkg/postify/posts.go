package postify

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// maxSlugAttempts bounds the suffix retries after the bare slug is taken.
// Each retry re-reads the title count, so this only trips on a store that
// keeps reporting conflicts.
const maxSlugAttempts = 1000

func (s *service) CreatePost(ctx context.Context, req CreatePostRequest) (post *Post, err error) {
	ctx, done := s.observe(ctx, "CreatePost")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindPost, "create")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, Invalid(KindPost, "create", "title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, Invalid(KindPost, "create", "content is required")
	}

	authorID, err := s.resolveAuthor(ctx, caller, req)
	if err != nil {
		return nil, err
	}
	tagIDs := dedupe(req.TagIDs)
	if err = s.ensureTags(ctx, tagIDs, "create"); err != nil {
		return nil, err
	}
	if req.CategoryID != nil {
		if err = s.ensureCategory(ctx, *req.CategoryID, "create"); err != nil {
			return nil, err
		}
	}

	now := s.now()
	post = &Post{
		ID:              uuid.New(),
		AuthorID:        authorID,
		Title:           req.Title,
		Content:         req.Content,
		Published:       true,
		CommentsEnabled: true,
		CategoryID:      req.CategoryID,
		TagIDs:          tagIDs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err = s.insertWithSlug(ctx, post); err != nil {
		return nil, err
	}

	s.emit(ctx, "post_created", s.eventSink.PostCreated(ctx, post))
	return post, nil
}

// resolveAuthor picks the author by id, then by username, then the caller.
func (s *service) resolveAuthor(ctx context.Context, caller uuid.UUID, req CreatePostRequest) (uuid.UUID, error) {
	switch {
	case req.AuthorID != nil:
		u, err := s.repository.GetUser(ctx, *req.AuthorID)
		if err != nil {
			return uuid.Nil, wrapErr(KindUser, *req.AuthorID, "resolve_author", err)
		}
		return u.ID, nil
	case req.AuthorUsername != "":
		u, err := s.repository.GetUserByUsername(ctx, req.AuthorUsername)
		if err != nil {
			return uuid.Nil, wrapErr(KindUser, uuid.Nil, "resolve_author", err)
		}
		return u.ID, nil
	default:
		if _, err := s.repository.GetUser(ctx, caller); err != nil {
			return uuid.Nil, wrapErr(KindUser, caller, "resolve_author", err)
		}
		return caller, nil
	}
}

// insertWithSlug stores the post under the bare slug, and on a slug
// conflict retries with "-n" where n starts at the number of posts whose
// title begins with this title. The count is re-read after every conflict
// and n never moves backwards, so concurrent writers with the same title
// walk past each other. Uniqueness is decided by the store on each insert,
// never by a prior lookup.
func (s *service) insertWithSlug(ctx context.Context, post *Post) error {
	base := Slugify(post.Title)
	post.Slug = base

	err := s.repository.CreatePost(ctx, post)
	if !errors.Is(err, ErrConflict) {
		return wrapErr(KindPost, post.ID, "create", err)
	}

	n := -1
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return wrapErr(KindPost, post.ID, "create", err)
		}
		count, cerr := s.repository.CountPostsWithTitlePrefix(ctx, post.Title)
		if cerr != nil {
			return wrapErr(KindPost, post.ID, "create", cerr)
		}
		n = max(n+1, count)

		post.Slug = suffixedSlug(base, n)
		err = s.repository.CreatePost(ctx, post)
		if !errors.Is(err, ErrConflict) {
			return wrapErr(KindPost, post.ID, "create", err)
		}
		s.logger.DebugContext(ctx, "slug taken, retrying", "slug", post.Slug)
	}
	return wrapErr(KindPost, post.ID, "create", err)
}

func (s *service) GetPost(ctx context.Context, id uuid.UUID) (post *Post, err error) {
	ctx, done := s.observe(ctx, "GetPost")
	defer func() { done(err) }()

	post, err = s.repository.GetPost(ctx, id)
	return post, wrapErr(KindPost, id, "get", err)
}

func (s *service) GetPostBySlug(ctx context.Context, slug string) (post *Post, err error) {
	ctx, done := s.observe(ctx, "GetPostBySlug")
	defer func() { done(err) }()

	post, err = s.repository.GetPostBySlug(ctx, slug)
	return post, wrapErr(KindPost, uuid.Nil, "get_by_slug", err)
}

func (s *service) ListPosts(ctx context.Context, req ListPostsRequest) (posts []*Post, err error) {
	ctx, done := s.observe(ctx, "ListPosts")
	defer func() { done(err) }()

	posts, err = s.repository.ListPosts(ctx, PostFilter{
		Published:      req.Published,
		AuthorUsername: req.AuthorUsername,
		Search:         strings.TrimSpace(req.Search),
	})
	return posts, wrapErr(KindPost, uuid.Nil, "list", err)
}

func (s *service) UpdatePost(ctx context.Context, req UpdatePostRequest) (post *Post, err error) {
	ctx, done := s.observe(ctx, "UpdatePost")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindPost, "update")
	if err != nil {
		return nil, err
	}
	current, err := s.repository.GetPost(ctx, req.ID)
	if err != nil {
		return nil, wrapErr(KindPost, req.ID, "update", err)
	}
	if err = requireOwner(caller, current.AuthorID, KindPost, req.ID, "update"); err != nil {
		return nil, err
	}

	changes := PostChanges{
		Title:         req.Title,
		Content:       req.Content,
		ClearCategory: req.ClearCategory,
		UpdatedAt:     s.now(),
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, Invalid(KindPost, "update", "title cannot be empty")
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return nil, Invalid(KindPost, "update", "content cannot be empty")
	}
	if req.TagIDs != nil {
		changes.TagIDs = dedupe(*req.TagIDs)
		changes.ReplaceTags = true
		if err = s.ensureTags(ctx, changes.TagIDs, "update"); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil && !req.ClearCategory {
		if err = s.ensureCategory(ctx, *req.CategoryID, "update"); err != nil {
			return nil, err
		}
		changes.CategoryID = req.CategoryID
	}

	post, err = s.repository.UpdatePost(ctx, req.ID, changes)
	return post, wrapErr(KindPost, req.ID, "update", err)
}

// DeletePost removes the post with its comments and likes. Any
// authenticated caller may delete.
func (s *service) DeletePost(ctx context.Context, id uuid.UUID) (err error) {
	ctx, done := s.observe(ctx, "DeletePost")
	defer func() { done(err) }()

	if _, err = s.requireCaller(ctx, KindPost, "delete"); err != nil {
		return err
	}
	if err = s.repository.DeletePost(ctx, id); err != nil {
		return wrapErr(KindPost, id, "delete", err)
	}
	s.emit(ctx, "post_deleted", s.eventSink.PostDeleted(ctx, id))
	return nil
}

// TogglePostFlag flips one of the post's boolean flags. Any authenticated
// caller may toggle.
func (s *service) TogglePostFlag(ctx context.Context, id uuid.UUID, flag PostFlag) (post *Post, err error) {
	ctx, done := s.observe(ctx, "TogglePostFlag")
	defer func() { done(err) }()

	if _, err = s.requireCaller(ctx, KindPost, "toggle"); err != nil {
		return nil, err
	}
	if !flag.Valid() {
		return nil, Invalid(KindPost, "toggle", "unknown flag "+string(flag))
	}
	post, err = s.repository.TogglePostFlag(ctx, id, flag)
	return post, wrapErr(KindPost, id, "toggle_"+string(flag), err)
}

func (s *service) AddPostTag(ctx context.Context, postID, tagID uuid.UUID) (post *Post, err error) {
	ctx, done := s.observe(ctx, "AddPostTag")
	defer func() { done(err) }()

	if _, err = s.requireCaller(ctx, KindPost, "add_tag"); err != nil {
		return nil, err
	}
	if _, err = s.repository.GetPost(ctx, postID); err != nil {
		return nil, wrapErr(KindPost, postID, "add_tag", err)
	}
	if err = s.ensureTags(ctx, []uuid.UUID{tagID}, "add_tag"); err != nil {
		return nil, err
	}
	if err = s.repository.AddPostTag(ctx, postID, tagID); err != nil {
		return nil, wrapErr(KindPost, postID, "add_tag", err)
	}
	post, err = s.repository.GetPost(ctx, postID)
	return post, wrapErr(KindPost, postID, "add_tag", err)
}

func (s *service) RemovePostTag(ctx context.Context, postID, tagID uuid.UUID) (post *Post, err error) {
	ctx, done := s.observe(ctx, "RemovePostTag")
	defer func() { done(err) }()

	if _, err = s.requireCaller(ctx, KindPost, "remove_tag"); err != nil {
		return nil, err
	}
	if _, err = s.repository.GetPost(ctx, postID); err != nil {
		return nil, wrapErr(KindPost, postID, "remove_tag", err)
	}
	if err = s.repository.RemovePostTag(ctx, postID, tagID); err != nil {
		return nil, wrapErr(KindPostTag, tagID, "remove_tag", err)
	}
	post, err = s.repository.GetPost(ctx, postID)
	return post, wrapErr(KindPost, postID, "remove_tag", err)
}

// SetPostCategory overwrites the post's category.
func (s *service) SetPostCategory(ctx context.Context, postID, categoryID uuid.UUID) (post *Post, err error) {
	ctx, done := s.observe(ctx, "SetPostCategory")
	defer func() { done(err) }()

	if _, err = s.requireCaller(ctx, KindPost, "set_category"); err != nil {
		return nil, err
	}
	if err = s.ensureCategory(ctx, categoryID, "set_category"); err != nil {
		return nil, err
	}
	post, err = s.repository.UpdatePost(ctx, postID, PostChanges{
		CategoryID: &categoryID,
		UpdatedAt:  s.now(),
	})
	return post, wrapErr(KindPost, postID, "set_category", err)
}

func dedupe(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
