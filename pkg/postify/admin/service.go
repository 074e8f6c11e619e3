package admin

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/madhvi-n/postify/pkg/postify"
)

// AdminService defines operations that bypass caller authorization: account
// provisioning, taxonomy maintenance and aggregate counts.
//
// IMPORTANT: Endpoints using this service should be protected with appropriate
// authentication middleware so that only operators can reach them.
type AdminService interface {
	// ProvisionUser creates an account. Username and email must be non-empty and unique.
	ProvisionUser(ctx context.Context, req ProvisionUserRequest) (*postify.User, error)

	CreateTag(ctx context.Context, name string) (*postify.Tag, error)
	// DeleteTag removes the tag, its post links and its followers.
	DeleteTag(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, name string) (*postify.Category, error)
	// DeleteCategory removes the category; posts in it become uncategorized.
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// GetStatistics returns aggregate entity counts.
	GetStatistics(ctx context.Context) (*StatisticsResponse, error)
}

// Option configures the admin service.
type Option func(*adminService)

// WithEventSink sets the sink notified of taxonomy changes. Defaults to a
// no-op sink.
func WithEventSink(sink postify.EventSink) Option {
	return func(s *adminService) {
		if sink != nil {
			s.eventSink = sink
		}
	}
}

// WithLogger sets the logger used for sink failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *adminService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a new AdminService instance that uses the provided repository.
func New(repo postify.Repository, opts ...Option) AdminService {
	s := &adminService{
		repo:      repo,
		eventSink: postify.NewNoopEventSink(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
