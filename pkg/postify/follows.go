package postify

import (
	"context"

	"github.com/google/uuid"
)

func (s *service) FollowUser(ctx context.Context, userID uuid.UUID) (follow *UserFollow, created bool, err error) {
	ctx, done := s.observe(ctx, "FollowUser")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindFollow, "create")
	if err != nil {
		return nil, false, err
	}
	if caller == userID {
		return nil, false, Invalid(KindFollow, "create", "cannot follow yourself")
	}
	if _, err = s.repository.GetUser(ctx, userID); err != nil {
		return nil, false, wrapErr(KindUser, userID, "follow", err)
	}

	follow, created, err = s.repository.GetOrCreateUserFollow(ctx, &UserFollow{
		ID:             uuid.New(),
		FollowerID:     caller,
		FollowedUserID: userID,
		CreatedAt:      s.now(),
	})
	if err != nil {
		return nil, false, wrapErr(KindFollow, uuid.Nil, "create", err)
	}
	if created {
		s.emit(ctx, "user_followed", s.eventSink.UserFollowed(ctx, follow))
	}
	return follow, created, nil
}

func (s *service) UnfollowUser(ctx context.Context, followID uuid.UUID) (err error) {
	ctx, done := s.observe(ctx, "UnfollowUser")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindFollow, "delete")
	if err != nil {
		return err
	}
	follow, err := s.repository.GetUserFollow(ctx, followID)
	if err != nil {
		return wrapErr(KindFollow, followID, "delete", err)
	}
	if err = requireOwner(caller, follow.FollowerID, KindFollow, followID, "delete"); err != nil {
		return err
	}
	if err = s.repository.DeleteUserFollow(ctx, followID); err != nil {
		return wrapErr(KindFollow, followID, "delete", err)
	}
	s.emit(ctx, "user_unfollowed", s.eventSink.UserUnfollowed(ctx, follow))
	return nil
}

func (s *service) FollowTag(ctx context.Context, tagID uuid.UUID) (follow *TagFollow, created bool, err error) {
	ctx, done := s.observe(ctx, "FollowTag")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindTagFollow, "create")
	if err != nil {
		return nil, false, err
	}
	if _, err = s.repository.GetTag(ctx, tagID); err != nil {
		return nil, false, wrapErr(KindTag, tagID, "follow", err)
	}

	follow, created, err = s.repository.GetOrCreateTagFollow(ctx, &TagFollow{
		ID:         uuid.New(),
		FollowerID: caller,
		TagID:      tagID,
		CreatedAt:  s.now(),
	})
	if err != nil {
		return nil, false, wrapErr(KindTagFollow, uuid.Nil, "create", err)
	}
	if created {
		s.emit(ctx, "tag_followed", s.eventSink.TagFollowed(ctx, follow))
	}
	return follow, created, nil
}

func (s *service) UnfollowTag(ctx context.Context, tagFollowID uuid.UUID) (err error) {
	ctx, done := s.observe(ctx, "UnfollowTag")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindTagFollow, "delete")
	if err != nil {
		return err
	}
	follow, err := s.repository.GetTagFollow(ctx, tagFollowID)
	if err != nil {
		return wrapErr(KindTagFollow, tagFollowID, "delete", err)
	}
	if err = requireOwner(caller, follow.FollowerID, KindTagFollow, tagFollowID, "delete"); err != nil {
		return err
	}
	if err = s.repository.DeleteTagFollow(ctx, tagFollowID); err != nil {
		return wrapErr(KindTagFollow, tagFollowID, "delete", err)
	}
	s.emit(ctx, "tag_unfollowed", s.eventSink.TagUnfollowed(ctx, follow))
	return nil
}

func (s *service) CountFollowers(ctx context.Context, userID uuid.UUID) (n int, err error) {
	ctx, done := s.observe(ctx, "CountFollowers")
	defer func() { done(err) }()

	if _, err = s.repository.GetUser(ctx, userID); err != nil {
		return 0, wrapErr(KindUser, userID, "count_followers", err)
	}
	n, err = s.repository.CountFollowers(ctx, userID)
	return n, wrapErr(KindUser, userID, "count_followers", err)
}

func (s *service) CountTagFollowers(ctx context.Context, tagID uuid.UUID) (n int, err error) {
	ctx, done := s.observe(ctx, "CountTagFollowers")
	defer func() { done(err) }()

	if _, err = s.repository.GetTag(ctx, tagID); err != nil {
		return 0, wrapErr(KindTag, tagID, "count_followers", err)
	}
	n, err = s.repository.CountTagFollowers(ctx, tagID)
	return n, wrapErr(KindTag, tagID, "count_followers", err)
}

func (s *service) ListFollowing(ctx context.Context) (follows []*UserFollow, err error) {
	ctx, done := s.observe(ctx, "ListFollowing")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindFollow, "list")
	if err != nil {
		return nil, err
	}
	follows, err = s.repository.ListUserFollows(ctx, caller)
	return follows, wrapErr(KindFollow, uuid.Nil, "list", err)
}

func (s *service) ListFollowedTags(ctx context.Context) (follows []*TagFollow, err error) {
	ctx, done := s.observe(ctx, "ListFollowedTags")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindTagFollow, "list")
	if err != nil {
		return nil, err
	}
	follows, err = s.repository.ListTagFollows(ctx, caller)
	return follows, wrapErr(KindTagFollow, uuid.Nil, "list", err)
}

// PostsByFollowedTags returns posts carrying any tag the caller follows,
// newest first, each post once.
func (s *service) PostsByFollowedTags(ctx context.Context) (posts []*Post, err error) {
	ctx, done := s.observe(ctx, "PostsByFollowedTags")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindPost, "feed")
	if err != nil {
		return nil, err
	}
	posts, err = s.repository.ListPosts(ctx, PostFilter{FollowedTagsOf: &caller})
	return posts, wrapErr(KindPost, uuid.Nil, "feed", err)
}
