package postify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// service implements the Service interface
type service struct {
	repository Repository
	identity   Identity
	eventSink  EventSink
	logger     *slog.Logger
	tracer     trace.Tracer
	meter      metric.Meter
	metrics    *Metrics
	now        func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithIdentity sets how the calling user is resolved. Defaults to ContextIdentity.
func WithIdentity(identity Identity) Option {
	return func(s *service) {
		s.identity = identity
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the logger used for non-fatal failures
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		identity: ContextIdentity{},
		logger:   slog.Default(),
		now:      func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.identity == nil {
		return nil, fmt.Errorf("identity is required")
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}
	if s.meter != nil {
		metrics, err := initMetrics(s.meter)
		if err != nil {
			return nil, fmt.Errorf("failed to create metric instruments: %w", err)
		}
		s.metrics = metrics
	}

	return s, nil
}

// requireCaller returns the authenticated caller or ErrUnauthenticated.
func (s *service) requireCaller(ctx context.Context, kind EntityKind, op string) (uuid.UUID, error) {
	id, ok := s.identity.CurrentUser(ctx)
	if !ok {
		return uuid.Nil, &EntityError{Kind: kind, Op: op, Err: ErrUnauthenticated}
	}
	return id, nil
}

// requireOwner checks that caller owns the resource.
func requireOwner(caller, owner uuid.UUID, kind EntityKind, id uuid.UUID, op string) error {
	if caller != owner {
		return Forbidden(kind, id, op)
	}
	return nil
}

// emit reports an event failure to the log without failing the operation.
func (s *service) emit(ctx context.Context, event string, err error) {
	if err != nil {
		s.logger.WarnContext(ctx, "event sink failed", "event", event, "error", err)
	}
}

// User operations

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (user *User, err error) {
	ctx, done := s.observe(ctx, "GetUser")
	defer func() { done(err) }()

	user, err = s.repository.GetUser(ctx, id)
	return user, wrapErr(KindUser, id, "get", err)
}

func (s *service) ListUsers(ctx context.Context) (users []*User, err error) {
	ctx, done := s.observe(ctx, "ListUsers")
	defer func() { done(err) }()

	users, err = s.repository.ListUsers(ctx)
	return users, wrapErr(KindUser, uuid.Nil, "list", err)
}

func (s *service) DeleteAccount(ctx context.Context) (err error) {
	ctx, done := s.observe(ctx, "DeleteAccount")
	defer func() { done(err) }()

	caller, err := s.requireCaller(ctx, KindUser, "delete")
	if err != nil {
		return err
	}
	if err = s.repository.DeleteUser(ctx, caller); err != nil {
		return wrapErr(KindUser, caller, "delete", err)
	}
	s.emit(ctx, "account_deleted", s.eventSink.AccountDeleted(ctx, caller))
	return nil
}

// Taxonomy reads

func (s *service) ListTags(ctx context.Context) (tags []*Tag, err error) {
	ctx, done := s.observe(ctx, "ListTags")
	defer func() { done(err) }()

	tags, err = s.repository.ListTags(ctx)
	return tags, wrapErr(KindTag, uuid.Nil, "list", err)
}

func (s *service) ListCategories(ctx context.Context) (categories []*Category, err error) {
	ctx, done := s.observe(ctx, "ListCategories")
	defer func() { done(err) }()

	categories, err = s.repository.ListCategories(ctx)
	return categories, wrapErr(KindCategory, uuid.Nil, "list", err)
}

// ensureTags checks that every tag exists.
func (s *service) ensureTags(ctx context.Context, tagIDs []uuid.UUID, op string) error {
	for _, id := range tagIDs {
		if _, err := s.repository.GetTag(ctx, id); err != nil {
			return wrapErr(KindTag, id, op, err)
		}
	}
	return nil
}

func (s *service) ensureCategory(ctx context.Context, id uuid.UUID, op string) error {
	if _, err := s.repository.GetCategory(ctx, id); err != nil {
		return wrapErr(KindCategory, id, op, err)
	}
	return nil
}
