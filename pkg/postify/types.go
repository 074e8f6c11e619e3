package postify

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that can author posts and follow users or tags.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Tag labels posts. Names are not unique.
type Tag struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// Category groups posts. A post belongs to at most one category.
type Category struct {
	ID   uuid.UUID `json:"id" db:"id"`
	Name string    `json:"name" db:"name"`
}

// Post is an authored article.
//
// Slug is assigned once at creation from Title and never changes afterwards.
type Post struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	AuthorID        uuid.UUID   `json:"author_id" db:"author_id"`
	Title           string      `json:"title" db:"title"`
	Slug            string      `json:"slug" db:"slug"`
	Content         string      `json:"content" db:"content"`
	Published       bool        `json:"published" db:"published"`
	CommentsEnabled bool        `json:"comments_enabled" db:"comments_enabled"`
	IsFeatured      bool        `json:"is_featured" db:"is_featured"`
	IsArchived      bool        `json:"is_archived" db:"is_archived"`
	CategoryID      *uuid.UUID  `json:"category_id,omitempty" db:"category_id"`
	TagIDs          []uuid.UUID `json:"tag_ids" db:"-"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at" db:"updated_at"`
}

// HasTag reports whether the post carries the tag.
func (p *Post) HasTag(tagID uuid.UUID) bool {
	for _, id := range p.TagIDs {
		if id == tagID {
			return true
		}
	}
	return false
}

// Comment is a reply to a post.
type Comment struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`
	PostID    uuid.UUID `json:"post_id" db:"post_id"`
	Text      string    `json:"text" db:"text"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// LikeTargetKind is the kind of entity a like points at.
type LikeTargetKind string

const (
	LikeTargetPost    LikeTargetKind = "post"
	LikeTargetComment LikeTargetKind = "comment"
)

// LikeTarget identifies a likeable entity.
type LikeTarget struct {
	Kind LikeTargetKind `json:"kind"`
	ID   uuid.UUID      `json:"id"`
}

// PostTarget returns the like target for a post.
func PostTarget(id uuid.UUID) LikeTarget {
	return LikeTarget{Kind: LikeTargetPost, ID: id}
}

// CommentTarget returns the like target for a comment.
func CommentTarget(id uuid.UUID) LikeTarget {
	return LikeTarget{Kind: LikeTargetComment, ID: id}
}

// EntityKind maps the target to the entity family used in errors.
func (t LikeTarget) EntityKind() EntityKind {
	if t.Kind == LikeTargetComment {
		return KindComment
	}
	return KindPost
}

// Valid reports whether the target kind is known.
func (t LikeTarget) Valid() bool {
	return t.Kind == LikeTargetPost || t.Kind == LikeTargetComment
}

// Like records that a user likes a post or a comment. At most one like
// exists per (user, target).
type Like struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Target    LikeTarget `json:"target"`
	CreatedAt time.Time  `json:"created_at"`
}

// UserFollow is a directed follow edge between two users.
type UserFollow struct {
	ID             uuid.UUID `json:"id" db:"id"`
	FollowerID     uuid.UUID `json:"follower_id" db:"follower_id"`
	FollowedUserID uuid.UUID `json:"followed_user_id" db:"followed_user_id"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// TagFollow is a follow edge from a user to a tag.
type TagFollow struct {
	ID         uuid.UUID `json:"id" db:"id"`
	FollowerID uuid.UUID `json:"follower_id" db:"follower_id"`
	TagID      uuid.UUID `json:"tag_id" db:"tag_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// PostFlag names a boolean attribute of a post that can be toggled.
type PostFlag string

const (
	PostFlagArchived        PostFlag = "archived"
	PostFlagFeatured        PostFlag = "featured"
	PostFlagPublished       PostFlag = "published"
	PostFlagCommentsEnabled PostFlag = "comments_enabled"
)

// Valid reports whether the flag is one of the toggleable attributes.
func (f PostFlag) Valid() bool {
	switch f {
	case PostFlagArchived, PostFlagFeatured, PostFlagPublished, PostFlagCommentsEnabled:
		return true
	}
	return false
}

// Column returns the storage column backing the flag.
func (f PostFlag) Column() string {
	switch f {
	case PostFlagArchived:
		return "is_archived"
	case PostFlagFeatured:
		return "is_featured"
	case PostFlagPublished:
		return "published"
	case PostFlagCommentsEnabled:
		return "comments_enabled"
	}
	return ""
}

// PostFilter selects posts. All set fields must match.
type PostFilter struct {
	Published      *bool
	AuthorUsername string
	// Search matches a case-insensitive substring of title or content.
	Search string
	// FollowedTagsOf restricts to posts carrying at least one tag the user follows.
	FollowedTagsOf *uuid.UUID
}

// PostChanges is a partial update applied atomically by Repository.UpdatePost.
type PostChanges struct {
	Title         *string
	Content       *string
	CategoryID    *uuid.UUID
	ClearCategory bool
	// TagIDs replaces the tag set when ReplaceTags is true.
	TagIDs      []uuid.UUID
	ReplaceTags bool
	UpdatedAt   time.Time
}

// Statistics holds aggregate entity counts.
type Statistics struct {
	Users      int64 `json:"users"`
	Posts      int64 `json:"posts"`
	Comments   int64 `json:"comments"`
	Likes      int64 `json:"likes"`
	Follows    int64 `json:"follows"`
	TagFollows int64 `json:"tag_follows"`
}
