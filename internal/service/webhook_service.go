package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursehq/batchboard/internal/domain"
	"github.com/coursehq/batchboard/internal/observability"
	"github.com/coursehq/batchboard/internal/policy"
	"github.com/coursehq/batchboard/internal/queue"
	"github.com/coursehq/batchboard/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// WebhookService owns webhook config CRUD and test sends. A test send goes
// through the same queue and delivery path as a real dispatch so the recorded
// outcome reflects what a full transition would do.
type WebhookService struct {
	webhooks  repository.WebhookConfigRepository
	publisher queue.Publisher
	logger    *zap.Logger
}

// WebhookUpdateInput carries a partial webhook config update. Nil fields are
// left untouched.
type WebhookUpdateInput struct {
	Name       *string
	WebhookURL *string
	Department *domain.Department
	IsActive   *bool
}

func NewWebhookService(
	webhooks repository.WebhookConfigRepository,
	publisher queue.Publisher,
	logger *zap.Logger,
) *WebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &WebhookService{
		webhooks:  webhooks,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *WebhookService) Create(ctx context.Context, actor *domain.Profile, config *domain.WebhookConfig) (*domain.WebhookConfig, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: webhook config is required", domain.ErrValidation)
	}

	if err := policy.AuthorizeWebhookMutation(actor, config.Department); err != nil {
		return nil, err
	}

	config.Name = strings.TrimSpace(config.Name)
	config.WebhookURL = strings.TrimSpace(config.WebhookURL)
	config.ID = strings.TrimSpace(config.ID)
	if config.ID == "" {
		config.ID = uuid.NewString()
	}
	if config.CreatedBy == nil && actor != nil {
		createdBy := actor.ID
		config.CreatedBy = &createdBy
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := s.webhooks.Create(ctx, config); err != nil {
		return nil, err
	}

	return config, nil
}

func (s *WebhookService) GetByID(ctx context.Context, id string) (*domain.WebhookConfig, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: webhook config id is required", domain.ErrValidation)
	}
	return s.webhooks.GetByID(ctx, strings.TrimSpace(id))
}

func (s *WebhookService) List(ctx context.Context) ([]domain.WebhookConfig, error) {
	return s.webhooks.List(ctx)
}

func (s *WebhookService) Update(ctx context.Context, actor *domain.Profile, id string, input WebhookUpdateInput) (*domain.WebhookConfig, error) {
	trimmedID := strings.TrimSpace(id)
	if trimmedID == "" {
		return nil, fmt.Errorf("%w: webhook config id is required", domain.ErrValidation)
	}

	pre, err := s.webhooks.GetByID(ctx, trimmedID)
	if err != nil {
		return nil, err
	}

	if err := policy.AuthorizeWebhookMutation(actor, pre.Department); err != nil {
		return nil, err
	}
	if input.Department != nil && *input.Department != pre.Department {
		if err := policy.AuthorizeWebhookMutation(actor, *input.Department); err != nil {
			return nil, err
		}
	}

	candidate := *pre
	update := map[string]any{}

	if input.Name != nil {
		candidate.Name = strings.TrimSpace(*input.Name)
		update["name"] = candidate.Name
	}
	if input.WebhookURL != nil {
		candidate.WebhookURL = strings.TrimSpace(*input.WebhookURL)
		update["webhook_url"] = candidate.WebhookURL
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

	return s.webhooks.Update(ctx, trimmedID, update)
}

func (s *WebhookService) Delete(ctx context.Context, actor *domain.Profile, id string) error {
	trimmedID := strings.TrimSpace(id)
	if trimmedID == "" {
		return fmt.Errorf("%w: webhook config id is required", domain.ErrValidation)
	}

	pre, err := s.webhooks.GetByID(ctx, trimmedID)
	if err != nil {
		return err
	}

	if err := policy.AuthorizeWebhookMutation(actor, pre.Department); err != nil {
		return err
	}

	return s.webhooks.Delete(ctx, trimmedID)
}

// Test enqueues a test dispatch against a single config. The worker performs
// the actual delivery and writes the notification record, exactly as it would
// for a full transition.
func (s *WebhookService) Test(ctx context.Context, actor *domain.Profile, id string) error {
	trimmedID := strings.TrimSpace(id)
	if trimmedID == "" {
		return fmt.Errorf("%w: webhook config id is required", domain.ErrValidation)
	}

	config, err := s.webhooks.GetByID(ctx, trimmedID)
	if err != nil {
		return err
	}

	if err := policy.AuthorizeWebhookMutation(actor, config.Department); err != nil {
		return err
	}

	correlationID, _ := observability.CorrelationIDFromContext(ctx)
	configID := config.ID
	msg := queue.DispatchMessage{
		WebhookConfigID: &configID,
		CorrelationID:   correlationID,
		IsTest:          true,
	}

	if err := s.publisher.Publish(ctx, queue.DispatchQueue, msg); err != nil {
		return fmt.Errorf("failed to publish test dispatch: %w", err)
	}

	observability.WithContextLogger(s.logger, ctx).Info("test dispatch published",
		zap.String("webhookConfigId", config.ID),
		zap.String("department", config.Department.String()),
	)

	return nil
}
