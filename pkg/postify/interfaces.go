package postify

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence gateway for the content graph.
//
// Implementations report missing rows with ErrNotFound and unique
// constraint violations with ErrConflict (wrapped errors are fine).
// Deleting a user, post, comment, tag or category removes or detaches
// everything that references it in the same atomic step.
type Repository interface {
	// User operations
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error

	// Tag and category operations
	CreateTag(ctx context.Context, tag *Tag) error
	GetTag(ctx context.Context, id uuid.UUID) (*Tag, error)
	ListTags(ctx context.Context) ([]*Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error
	CreateCategory(ctx context.Context, category *Category) error
	GetCategory(ctx context.Context, id uuid.UUID) (*Category, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// Post operations
	// CreatePost inserts the post with its tag links. A taken slug yields ErrConflict.
	CreatePost(ctx context.Context, post *Post) error
	GetPost(ctx context.Context, id uuid.UUID) (*Post, error)
	GetPostBySlug(ctx context.Context, slug string) (*Post, error)
	UpdatePost(ctx context.Context, id uuid.UUID, changes PostChanges) (*Post, error)
	DeletePost(ctx context.Context, id uuid.UUID) error
	// ListPosts returns matching posts, newest first.
	ListPosts(ctx context.Context, filter PostFilter) ([]*Post, error)
	// CountPostsWithTitlePrefix counts posts whose title starts with prefix (case-sensitive).
	CountPostsWithTitlePrefix(ctx context.Context, prefix string) (int, error)
	// TogglePostFlag flips the flag in a single statement and returns the updated post.
	TogglePostFlag(ctx context.Context, id uuid.UUID, flag PostFlag) (*Post, error)
	// AddPostTag links a tag to a post; linking twice is a no-op.
	AddPostTag(ctx context.Context, postID, tagID uuid.UUID) error
	// RemovePostTag unlinks a tag; ErrNotFound when the link does not exist.
	RemovePostTag(ctx context.Context, postID, tagID uuid.UUID) error

	// Comment operations
	CreateComment(ctx context.Context, comment *Comment) error
	GetComment(ctx context.Context, id uuid.UUID) (*Comment, error)
	UpdateComment(ctx context.Context, comment *Comment) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
	// ListComments returns the comments of a post, oldest first.
	ListComments(ctx context.Context, postID uuid.UUID) ([]*Comment, error)

	// Like operations
	// GetOrCreateLike returns the existing like for (user, target) or stores the given one.
	GetOrCreateLike(ctx context.Context, like *Like) (*Like, bool, error)
	GetLike(ctx context.Context, id uuid.UUID) (*Like, error)
	DeleteLike(ctx context.Context, id uuid.UUID) error
	CountLikes(ctx context.Context, target LikeTarget) (int, error)

	// Follow operations
	GetOrCreateUserFollow(ctx context.Context, follow *UserFollow) (*UserFollow, bool, error)
	GetUserFollow(ctx context.Context, id uuid.UUID) (*UserFollow, error)
	DeleteUserFollow(ctx context.Context, id uuid.UUID) error
	CountFollowers(ctx context.Context, userID uuid.UUID) (int, error)
	ListUserFollows(ctx context.Context, followerID uuid.UUID) ([]*UserFollow, error)
	GetOrCreateTagFollow(ctx context.Context, follow *TagFollow) (*TagFollow, bool, error)
	GetTagFollow(ctx context.Context, id uuid.UUID) (*TagFollow, error)
	DeleteTagFollow(ctx context.Context, id uuid.UUID) error
	CountTagFollowers(ctx context.Context, tagID uuid.UUID) (int, error)
	ListTagFollows(ctx context.Context, followerID uuid.UUID) ([]*TagFollow, error)

	// Statistics returns aggregate entity counts.
	Statistics(ctx context.Context) (*Statistics, error)
}

// Identity resolves the user on whose behalf a call is made.
type Identity interface {
	// CurrentUser returns the caller's user ID, or false for anonymous calls.
	CurrentUser(ctx context.Context) (uuid.UUID, bool)
}

// EventSink defines the interface for event handling
type EventSink interface {
	// PostCreated is fired when a post is created
	PostCreated(ctx context.Context, post *Post) error

	// PostDeleted is fired when a post is deleted
	PostDeleted(ctx context.Context, postID uuid.UUID) error

	// CommentCreated is fired when a comment is created
	CommentCreated(ctx context.Context, comment *Comment) error

	// CommentDeleted is fired after a comment and its likes are removed
	CommentDeleted(ctx context.Context, comment *Comment) error

	// LikeCreated is fired when a new like is stored
	LikeCreated(ctx context.Context, like *Like) error

	// LikeRemoved is fired when a like is removed
	LikeRemoved(ctx context.Context, like *Like) error

	// UserFollowed is fired when a new user follow edge is stored
	UserFollowed(ctx context.Context, follow *UserFollow) error

	// UserUnfollowed is fired when a user follow edge is removed
	UserUnfollowed(ctx context.Context, follow *UserFollow) error

	// TagFollowed is fired when a new tag follow edge is stored
	TagFollowed(ctx context.Context, follow *TagFollow) error

	// TagUnfollowed is fired when a tag follow edge is removed
	TagUnfollowed(ctx context.Context, follow *TagFollow) error

	// TagDeleted is fired when an administrator deletes a tag
	TagDeleted(ctx context.Context, tagID uuid.UUID) error

	// AccountDeleted is fired when a user deletes their account
	AccountDeleted(ctx context.Context, userID uuid.UUID) error
}
