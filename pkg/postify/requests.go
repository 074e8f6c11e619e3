package postify

import "github.com/google/uuid"

// CreatePostRequest contains parameters for creating a post.
//
// The author is resolved from AuthorID, then AuthorUsername; when both are
// empty the caller becomes the author.
type CreatePostRequest struct {
	Title          string
	Content        string
	AuthorID       *uuid.UUID
	AuthorUsername string
	TagIDs         []uuid.UUID
	CategoryID     *uuid.UUID
}

// UpdatePostRequest contains the mutable fields of a post. Nil fields are left unchanged.
type UpdatePostRequest struct {
	ID      uuid.UUID
	Title   *string
	Content *string
	// TagIDs replaces the whole tag set when non-nil.
	TagIDs        *[]uuid.UUID
	CategoryID    *uuid.UUID
	ClearCategory bool
}

// ListPostsRequest filters the post listing. Empty fields do not filter.
type ListPostsRequest struct {
	Published      *bool
	AuthorUsername string
	Search         string
}

// CreateCommentRequest contains parameters for commenting on a post.
type CreateCommentRequest struct {
	PostID uuid.UUID
	Text   string
}

// UpdateCommentRequest replaces the text of a comment.
type UpdateCommentRequest struct {
	ID   uuid.UUID
	Text string
}
