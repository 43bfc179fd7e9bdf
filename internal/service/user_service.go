package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursehq/batchboard/internal/domain"
	"github.com/coursehq/batchboard/internal/policy"
	"github.com/coursehq/batchboard/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UserService administers profiles. Every operation is admin only.
type UserService struct {
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

// ProfileUpdateInput carries a partial profile update. Nil fields are left
// untouched.
type ProfileUpdateInput struct {
	FullName   *string
	Role       *domain.Role
	Department *domain.Department
	IsActive   *bool
}

func NewUserService(profiles repository.ProfileRepository, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &UserService{
		profiles: profiles,
		logger:   logger,
	}
}

func (s *UserService) List(ctx context.Context, actor *domain.Profile) ([]domain.Profile, error) {
	if err := policy.AuthorizeUserManagement(actor); err != nil {
		return nil, err
	}
	return s.profiles.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, actor *domain.Profile, id string) (*domain.Profile, error) {
	if err := policy.AuthorizeUserManagement(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: profile id is required", domain.ErrValidation)
	}
	return s.profiles.GetByID(ctx, strings.TrimSpace(id))
}

// Invite creates a profile for a new dashboard user. A duplicate email
// surfaces as ErrConflict.
func (s *UserService) Invite(ctx context.Context, actor *domain.Profile, profile *domain.Profile) (*domain.Profile, error) {
	if err := policy.AuthorizeUserManagement(actor); err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("%w: profile is required", domain.ErrValidation)
	}

	profile.Email = strings.ToLower(strings.TrimSpace(profile.Email))
	profile.FullName = strings.TrimSpace(profile.FullName)
	profile.ID = strings.TrimSpace(profile.ID)
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	profile.IsActive = true

	if err := profile.Validate(); err != nil {
		return nil, err
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, err
	}

	s.logger.Info("profile invited",
		zap.String("profileId", profile.ID),
		zap.String("role", profile.Role.String()),
		zap.String("department", profile.Department.String()),
	)

	return profile, nil
}

func (s *UserService) Update(ctx context.Context, actor *domain.Profile, id string, input ProfileUpdateInput) (*domain.Profile, error) {
	if err := policy.AuthorizeUserManagement(actor); err != nil {
		return nil, err
	}

	trimmedID := strings.TrimSpace(id)
	if trimmedID == "" {
		return nil, fmt.Errorf("%w: profile id is required", domain.ErrValidation)
	}

	pre, err := s.profiles.GetByID(ctx, trimmedID)
	if err != nil {
		return nil, err
	}

	candidate := *pre
	update := map[string]any{}

	if input.FullName != nil {
		candidate.FullName = strings.TrimSpace(*input.FullName)
		update["full_name"] = candidate.FullName
	}
	if input.Role != nil {
		candidate.Role = *input.Role
		update["role"] = *input.Role
	}
	if input.Department != nil {
		candidate.Department = *input.Department
		update["department"] = *input.Department
	}
	if input.IsActive != nil {
		candidate.IsActive = *input.IsActive
		update["is_active"] = *input.IsActive
	}

	if len(update) == 0 {
		return pre, nil
	}

	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	return s.profiles.Update(ctx, trimmedID, update)
}

// Deactivate revokes a profile's access without deleting its audit trail.
// Admins cannot deactivate themselves; that would lock the last key in the
// safe.
func (s *UserService) Deactivate(ctx context.Context, actor *domain.Profile, id string) (*domain.Profile, error) {
	if err := policy.AuthorizeUserManagement(actor); err != nil {
		return nil, err
	}

	trimmedID := strings.TrimSpace(id)
	if trimmedID == "" {
		return nil, fmt.Errorf("%w: profile id is required", domain.ErrValidation)
	}
	if actor != nil && actor.ID == trimmedID {
		return nil, fmt.Errorf("%w: cannot deactivate own profile", domain.ErrValidation)
	}

	return s.profiles.Update(ctx, trimmedID, map[string]any{"is_active": false})
}
