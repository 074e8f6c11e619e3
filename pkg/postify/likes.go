package postify

import (
	"context"

	"github.com/google/uuid"
)

// ensureTarget checks that the liked post or comment exists.
func (s *service) ensureTarget(ctx context.Context, target LikeTarget, op string) error {
	if !target.Valid() {
		return Invalid(KindLike, op, "unknown like target "+string(target.Kind))
	}
	var err error
	switch target.Kind {
	case LikeTargetPost:
		_, err = s.repository.GetPost(ctx, target.ID)
	case LikeTargetComment:
		_, err = s.repository.GetComment(ctx, target.ID)
	}
	return wrapErr(target.EntityKind(), target.ID, op, err)
}

func (s *service) Like(ctx context.Context, target LikeTarget) (like *Like, created bool, err error) {
	ctx, done := s.observe(ctx, "Like")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindLike, "create")
	if err != nil {
		return nil, false, err
	}
	if err = s.ensureTarget(ctx, target, "like"); err != nil {
		return nil, false, err
	}

	like, created, err = s.repository.GetOrCreateLike(ctx, &Like{
		ID:        uuid.New(),
		UserID:    caller,
		Target:    target,
		CreatedAt: s.now(),
	})
	if err != nil {
		return nil, false, wrapErr(KindLike, uuid.Nil, "create", err)
	}
	if created {
		s.emit(ctx, "like_created", s.eventSink.LikeCreated(ctx, like))
	}
	return like, created, nil
}

func (s *service) Unlike(ctx context.Context, likeID uuid.UUID) (err error) {
	ctx, done := s.observe(ctx, "Unlike")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindLike, "delete")
	if err != nil {
		return err
	}
	like, err := s.repository.GetLike(ctx, likeID)
	if err != nil {
		return wrapErr(KindLike, likeID, "delete", err)
	}
	if err = requireOwner(caller, like.UserID, KindLike, likeID, "delete"); err != nil {
		return err
	}
	if err = s.repository.DeleteLike(ctx, likeID); err != nil {
		return wrapErr(KindLike, likeID, "delete", err)
	}
	s.emit(ctx, "like_removed", s.eventSink.LikeRemoved(ctx, like))
	return nil
}

func (s *service) CountLikes(ctx context.Context, target LikeTarget) (n int, err error) {
	ctx, done := s.observe(ctx, "CountLikes")
	defer func() { done(err) }()

	if err = s.ensureTarget(ctx, target, "count_likes"); err != nil {
		return 0, err
	}
	n, err = s.repository.CountLikes(ctx, target)
	return n, wrapErr(target.EntityKind(), target.ID, "count_likes", err)
}
