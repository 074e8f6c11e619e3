package postify

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Error kinds
var (
	// ErrUnauthenticated indicates the operation requires a caller identity
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden indicates the caller is not allowed to act on the resource
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates a referenced entity does not exist
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness constraint was violated
	ErrConflict = errors.New("already exists")

	// ErrInvalid indicates malformed input
	ErrInvalid = errors.New("invalid input")
)

// EntityKind names the entity family an error refers to.
type EntityKind string

const (
	KindUser      EntityKind = "user"
	KindPost      EntityKind = "post"
	KindTag       EntityKind = "tag"
	KindCategory  EntityKind = "category"
	KindComment   EntityKind = "comment"
	KindLike      EntityKind = "like"
	KindFollow    EntityKind = "follow"
	KindTagFollow EntityKind = "tag_follow"
	KindPostTag   EntityKind = "post_tag"
	KindStats     EntityKind = "statistics"
)

// EntityError represents a failed operation on a single entity
type EntityError struct {
	Kind EntityKind
	ID   uuid.UUID
	Op   string
	Err  error
}

func (e *EntityError) Error() string {
	if e.ID == uuid.Nil {
		return fmt.Sprintf("%s operation %s failed: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s operation %s failed for %s %s: %v", e.Kind, e.Op, e.Kind, e.ID, e.Err)
}

func (e *EntityError) Unwrap() error {
	return e.Err
}

// NotFound builds a not-found error for the given entity.
func NotFound(kind EntityKind, id uuid.UUID, op string) error {
	return &EntityError{Kind: kind, ID: id, Op: op, Err: ErrNotFound}
}

// Forbidden builds an authorization error for the given entity.
func Forbidden(kind EntityKind, id uuid.UUID, op string) error {
	return &EntityError{Kind: kind, ID: id, Op: op, Err: ErrForbidden}
}

// Invalid builds an input validation error with a reason.
func Invalid(kind EntityKind, op, reason string) error {
	return &EntityError{Kind: kind, Op: op, Err: fmt.Errorf("%w: %s", ErrInvalid, reason)}
}

// wrapErr attaches entity context to a repository error unless it already
// carries one.
func wrapErr(kind EntityKind, id uuid.UUID, op string, err error) error {
	if err == nil {
		return nil
	}
	var entityErr *EntityError
	if errors.As(err, &entityErr) {
		return err
	}
	return &EntityError{Kind: kind, ID: id, Op: op, Err: err}
}

// IsNotFound reports whether err is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err is a uniqueness violation
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
