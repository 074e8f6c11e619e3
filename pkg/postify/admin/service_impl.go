package admin

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/madhvi-n/postify/pkg/postify"
)

// adminService implements the AdminService interface
type adminService struct {
	repo      postify.Repository
	eventSink postify.EventSink
	logger    *slog.Logger
}

// Ensure adminService implements AdminService
var _ AdminService = (*adminService)(nil)

func (s *adminService) ProvisionUser(ctx context.Context, req ProvisionUserRequest) (*postify.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" {
		return nil, postify.Invalid(postify.KindUser, "provision", "username is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, postify.Invalid(postify.KindUser, "provision", "a valid email is required")
	}

	user := &postify.User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, &postify.EntityError{Kind: postify.KindUser, ID: user.ID, Op: "provision", Err: err}
	}
	return user, nil
}

func (s *adminService) CreateTag(ctx context.Context, name string) (*postify.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, postify.Invalid(postify.KindTag, "create", "name is required")
	}
	tag := &postify.Tag{ID: uuid.New(), Name: name}
	if err := s.repo.CreateTag(ctx, tag); err != nil {
		return nil, &postify.EntityError{Kind: postify.KindTag, ID: tag.ID, Op: "create", Err: err}
	}
	return tag, nil
}

func (s *adminService) DeleteTag(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteTag(ctx, id); err != nil {
		return &postify.EntityError{Kind: postify.KindTag, ID: id, Op: "delete", Err: err}
	}
	// the tag is gone either way; a sink failure is only logged
	if err := s.eventSink.TagDeleted(ctx, id); err != nil {
		s.logger.WarnContext(ctx, "event sink failed", "event", "tag_deleted", "tag_id", id, "error", err)
	}
	return nil
}

func (s *adminService) CreateCategory(ctx context.Context, name string) (*postify.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, postify.Invalid(postify.KindCategory, "create", "name is required")
	}
	category := &postify.Category{ID: uuid.New(), Name: name}
	if err := s.repo.CreateCategory(ctx, category); err != nil {
		return nil, &postify.EntityError{Kind: postify.KindCategory, ID: category.ID, Op: "create", Err: err}
	}
	return category, nil
}

func (s *adminService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return &postify.EntityError{Kind: postify.KindCategory, ID: id, Op: "delete", Err: err}
	}
	return nil
}

// GetStatistics returns aggregated counts across all entities
func (s *adminService) GetStatistics(ctx context.Context) (*StatisticsResponse, error) {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return nil, &postify.EntityError{Kind: postify.KindStats, Op: "get", Err: err}
	}

	return &StatisticsResponse{
		Statistics: *stats,
		ComputedAt: time.Now().UTC(),
	}, nil
}
