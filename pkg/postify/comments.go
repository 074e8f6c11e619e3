package postify

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

func (s *service) CreateComment(ctx context.Context, req CreateCommentRequest) (comment *Comment, err error) {
	ctx, done := s.observe(ctx, "CreateComment")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindComment, "create")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, Invalid(KindComment, "create", "text is required")
	}
	post, err := s.repository.GetPost(ctx, req.PostID)
	if err != nil {
		return nil, wrapErr(KindPost, req.PostID, "comment", err)
	}
	if !post.CommentsEnabled {
		return nil, Forbidden(KindPost, post.ID, "comment")
	}

	now := s.now()
	comment = &Comment{
		ID:        uuid.New(),
		AuthorID:  caller,
		PostID:    post.ID,
		Text:      req.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.repository.CreateComment(ctx, comment); err != nil {
		return nil, wrapErr(KindComment, comment.ID, "create", err)
	}

	s.emit(ctx, "comment_created", s.eventSink.CommentCreated(ctx, comment))
	return comment, nil
}

func (s *service) UpdateComment(ctx context.Context, req UpdateCommentRequest) (comment *Comment, err error) {
	ctx, done := s.observe(ctx, "UpdateComment")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindComment, "update")
	if err != nil {
		return nil, err
	}
	comment, err = s.repository.GetComment(ctx, req.ID)
	if err != nil {
		return nil, wrapErr(KindComment, req.ID, "update", err)
	}
	if err = requireOwner(caller, comment.AuthorID, KindComment, req.ID, "update"); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, Invalid(KindComment, "update", "text is required")
	}

	comment.Text = req.Text
	comment.UpdatedAt = s.now()
	if err = s.repository.UpdateComment(ctx, comment); err != nil {
		return nil, wrapErr(KindComment, req.ID, "update", err)
	}
	return comment, nil
}

func (s *service) DeleteComment(ctx context.Context, id uuid.UUID) (err error) {
	ctx, done := s.observe(ctx, "DeleteComment")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindComment, "delete")
	if err != nil {
		return err
	}
	comment, err := s.repository.GetComment(ctx, id)
	if err != nil {
		return wrapErr(KindComment, id, "delete", err)
	}
	if err = requireOwner(caller, comment.AuthorID, KindComment, id, "delete"); err != nil {
		return err
	}
	if err = s.repository.DeleteComment(ctx, id); err != nil {
		return wrapErr(KindComment, id, "delete", err)
	}

	s.emit(ctx, "comment_deleted", s.eventSink.CommentDeleted(ctx, comment))
	return nil
}

func (s *service) ListComments(ctx context.Context, postID uuid.UUID) (comments []*Comment, err error) {
	ctx, done := s.observe(ctx, "ListComments")
	defer func() { done(err) }()

	if _, err = s.repository.GetPost(ctx, postID); err != nil {
		return nil, wrapErr(KindPost, postID, "list_comments", err)
	}
	comments, err = s.repository.ListComments(ctx, postID)
	return comments, wrapErr(KindComment, uuid.Nil, "list", err)
}
