package postify

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// NoopEventSink is a no-operation implementation of EventSink
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) PostCreated(ctx context.Context, post *Post) error          { return nil }
func (n *NoopEventSink) PostDeleted(ctx context.Context, postID uuid.UUID) error    { return nil }
func (n *NoopEventSink) CommentCreated(ctx context.Context, comment *Comment) error { return nil }
func (n *NoopEventSink) CommentDeleted(ctx context.Context, comment *Comment) error { return nil }
func (n *NoopEventSink) LikeCreated(ctx context.Context, like *Like) error          { return nil }
func (n *NoopEventSink) LikeRemoved(ctx context.Context, like *Like) error          { return nil }
func (n *NoopEventSink) UserFollowed(ctx context.Context, f *UserFollow) error      { return nil }
func (n *NoopEventSink) UserUnfollowed(ctx context.Context, f *UserFollow) error    { return nil }
func (n *NoopEventSink) TagFollowed(ctx context.Context, f *TagFollow) error        { return nil }
func (n *NoopEventSink) TagUnfollowed(ctx context.Context, f *TagFollow) error      { return nil }
func (n *NoopEventSink) TagDeleted(ctx context.Context, tagID uuid.UUID) error      { return nil }
func (n *NoopEventSink) AccountDeleted(ctx context.Context, userID uuid.UUID) error { return nil }

// LoggingEventSink is an event sink that logs events but takes no other action
// Useful for development and debugging
type LoggingEventSink struct {
	logger *slog.Logger
}

// NewLoggingEventSink creates a new logging event sink. A nil logger uses slog.Default().
func NewLoggingEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingEventSink{logger: logger}
}

func (l *LoggingEventSink) PostCreated(ctx context.Context, post *Post) error {
	l.logger.InfoContext(ctx, "post created", "post_id", post.ID, "slug", post.Slug, "author_id", post.AuthorID)
	return nil
}

func (l *LoggingEventSink) PostDeleted(ctx context.Context, postID uuid.UUID) error {
	l.logger.InfoContext(ctx, "post deleted", "post_id", postID)
	return nil
}

func (l *LoggingEventSink) CommentCreated(ctx context.Context, comment *Comment) error {
	l.logger.InfoContext(ctx, "comment created", "comment_id", comment.ID, "post_id", comment.PostID)
	return nil
}

func (l *LoggingEventSink) CommentDeleted(ctx context.Context, comment *Comment) error {
	l.logger.InfoContext(ctx, "comment deleted", "comment_id", comment.ID, "post_id", comment.PostID)
	return nil
}

func (l *LoggingEventSink) LikeCreated(ctx context.Context, like *Like) error {
	l.logger.InfoContext(ctx, "like created", "like_id", like.ID, "target", like.Target.Kind, "target_id", like.Target.ID)
	return nil
}

func (l *LoggingEventSink) LikeRemoved(ctx context.Context, like *Like) error {
	l.logger.InfoContext(ctx, "like removed", "like_id", like.ID, "target", like.Target.Kind, "target_id", like.Target.ID)
	return nil
}

func (l *LoggingEventSink) UserFollowed(ctx context.Context, f *UserFollow) error {
	l.logger.InfoContext(ctx, "user followed", "follower_id", f.FollowerID, "followed_user_id", f.FollowedUserID)
	return nil
}

func (l *LoggingEventSink) UserUnfollowed(ctx context.Context, f *UserFollow) error {
	l.logger.InfoContext(ctx, "user unfollowed", "follower_id", f.FollowerID, "followed_user_id", f.FollowedUserID)
	return nil
}

func (l *LoggingEventSink) TagFollowed(ctx context.Context, f *TagFollow) error {
	l.logger.InfoContext(ctx, "tag followed", "follower_id", f.FollowerID, "tag_id", f.TagID)
	return nil
}

func (l *LoggingEventSink) TagUnfollowed(ctx context.Context, f *TagFollow) error {
	l.logger.InfoContext(ctx, "tag unfollowed", "follower_id", f.FollowerID, "tag_id", f.TagID)
	return nil
}

func (l *LoggingEventSink) TagDeleted(ctx context.Context, tagID uuid.UUID) error {
	l.logger.InfoContext(ctx, "tag deleted", "tag_id", tagID)
	return nil
}

func (l *LoggingEventSink) AccountDeleted(ctx context.Context, userID uuid.UUID) error {
	l.logger.InfoContext(ctx, "account deleted", "user_id", userID)
	return nil
}

// MultiEventSink fans events out to several sinks. Every sink is called;
// their errors are joined.
type MultiEventSink []EventSink

// NewMultiEventSink combines sinks, skipping nil entries
func NewMultiEventSink(sinks ...EventSink) EventSink {
	var m MultiEventSink
	for _, s := range sinks {
		if s != nil {
			m = append(m, s)
		}
	}
	return m
}

func (m MultiEventSink) each(fn func(EventSink) error) error {
	var errs []error
	for _, s := range m {
		if err := fn(s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m MultiEventSink) PostCreated(ctx context.Context, post *Post) error {
	return m.each(func(s EventSink) error { return s.PostCreated(ctx, post) })
}

func (m MultiEventSink) PostDeleted(ctx context.Context, postID uuid.UUID) error {
	return m.each(func(s EventSink) error { return s.PostDeleted(ctx, postID) })
}

func (m MultiEventSink) CommentCreated(ctx context.Context, comment *Comment) error {
	return m.each(func(s EventSink) error { return s.CommentCreated(ctx, comment) })
}

func (m MultiEventSink) CommentDeleted(ctx context.Context, comment *Comment) error {
	return m.each(func(s EventSink) error { return s.CommentDeleted(ctx, comment) })
}

func (m MultiEventSink) LikeCreated(ctx context.Context, like *Like) error {
	return m.each(func(s EventSink) error { return s.LikeCreated(ctx, like) })
}

func (m MultiEventSink) LikeRemoved(ctx context.Context, like *Like) error {
	return m.each(func(s EventSink) error { return s.LikeRemoved(ctx, like) })
}

func (m MultiEventSink) UserFollowed(ctx context.Context, f *UserFollow) error {
	return m.each(func(s EventSink) error { return s.UserFollowed(ctx, f) })
}

func (m MultiEventSink) UserUnfollowed(ctx context.Context, f *UserFollow) error {
	return m.each(func(s EventSink) error { return s.UserUnfollowed(ctx, f) })
}

func (m MultiEventSink) TagFollowed(ctx context.Context, f *TagFollow) error {
	return m.each(func(s EventSink) error { return s.TagFollowed(ctx, f) })
}

func (m MultiEventSink) TagUnfollowed(ctx context.Context, f *TagFollow) error {
	return m.each(func(s EventSink) error { return s.TagUnfollowed(ctx, f) })
}

func (m MultiEventSink) TagDeleted(ctx context.Context, tagID uuid.UUID) error {
	return m.each(func(s EventSink) error { return s.TagDeleted(ctx, tagID) })
}

func (m MultiEventSink) AccountDeleted(ctx context.Context, userID uuid.UUID) error {
	return m.each(func(s EventSink) error { return s.AccountDeleted(ctx, userID) })
}
