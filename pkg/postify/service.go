package postify

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the main interface for the content graph
type Service interface {
	// User operations
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteAccount(ctx context.Context) error

	// Post operations
	CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error)
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	ListPosts(ctx context.Context, req ListPostsRequest) ([]*Post, error)
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	TogglePostFlag(ctx context.Context, id uuid.UUID, flag PostFlag) (*Post, error)
	AddPostTag(ctx context.Context, postID, tagID uuid.UUID) (*Post, error)
	RemovePostTag(ctx context.Context, postID, tagID uuid.UUID) (*Post, error)
	SetPostCategory(ctx context.Context, postID, categoryID uuid.UUID) (*Post, error)

	// Taxonomy reads
	ListTags(ctx context.Context) ([]*Tag, error)
	ListCategories(ctx context.Context) ([]*Category, error)

	// Comment operations
	CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error)
	UpdateComment(ctx context.Context, req UpdateCommentRequest) (*Comment, error)
	DeleteComment(ctx context.Context, id uuid.UUID) error
	ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error)

	// Like operations
	// Like returns the caller's like on target, creating it if needed. The
	// boolean reports whether a new like was stored.
	Like(ctx context.Context, target LikeTarget) (*Like, bool, error)
	Unlike(ctx context.Context, likeID uuid.UUID) error
	CountLikes(ctx context.Context, target LikeTarget) (int, error)

	// Follow operations
	FollowUser(ctx context.Context, userID uuid.UUID) (*UserFollow, bool, error)
	UnfollowUser(ctx context.Context, followID uuid.UUID) error
	FollowTag(ctx context.Context, tagID uuid.UUID) (*TagFollow, bool, error)
	UnfollowTag(ctx context.Context, tagFollowID uuid.UUID) error
	CountFollowers(ctx context.Context, userID uuid.UUID) (int, error)
	CountTagFollowers(ctx context.Context, tagID uuid.UUID) (int, error)
	ListFollowing(ctx context.Context) ([]*UserFollow, error)
	ListFollowedTags(ctx context.Context) ([]*TagFollow, error)
	PostsByFollowedTags(ctx context.Context) ([]*Post, error)
}
