// Package postify provides the content-graph core of a social publishing
// service: posts with unique slugs, tags and categories, comments, likes on
// posts and comments, and follow edges between users and from users to tags.
//
// The core is exposed through a single Service interface. Persistence is
// delegated to a Repository (in-memory, PostgreSQL and SQLite
// implementations live under repo/), the calling user is resolved through
// an Identity, and successful mutations are reported to an optional
// EventSink.
//
// Authorization
//
// Every mutation requires an authenticated caller. Updating a post, editing
// or deleting a comment, removing a like and removing a follow additionally
// require the caller to own the resource. Deleting a post and toggling its
// flags only require authentication.
//
// Errors
//
// Failures are reported as *EntityError values that unwrap to one of the
// sentinel kinds (ErrUnauthenticated, ErrForbidden, ErrNotFound,
// ErrConflict, ErrInvalid), so callers can branch with errors.Is.
package postify
