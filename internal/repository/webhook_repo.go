package repository

import (
	"context"
	"errors"

	"github.com/coursehq/batchboard/internal/domain"
	"gorm.io/gorm"
)

type WebhookConfigRepository interface {
	Create(ctx context.Context, w *domain.WebhookConfig) error
	GetByID(ctx context.Context, id string) (*domain.WebhookConfig, error)
	List(ctx context.Context) ([]domain.WebhookConfig, error)
	ListActiveByDepartment(ctx context.Context, department domain.Department) ([]domain.WebhookConfig, error)
	Update(ctx context.Context, id string, update map[string]any) (*domain.WebhookConfig, error)
	Delete(ctx context.Context, id string) error
}

type GormWebhookConfigRepo struct {
	db *gorm.DB
}

func NewGormWebhookConfigRepo(db *gorm.DB) *GormWebhookConfigRepo {
	return &GormWebhookConfigRepo{db: db}
}

func (r *GormWebhookConfigRepo) Create(ctx context.Context, w *domain.WebhookConfig) error {
	model := webhookModelFromDomain(w)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if w != nil {
		*w = *webhookModelToDomain(model)
	}
	return nil
}

func (r *GormWebhookConfigRepo) GetByID(ctx context.Context, id string) (*domain.WebhookConfig, error) {
	var model WebhookConfigModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return webhookModelToDomain(&model), nil
}

func (r *GormWebhookConfigRepo) List(ctx context.Context) ([]domain.WebhookConfig, error) {
	var models []WebhookConfigModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	configs := make([]domain.WebhookConfig, 0, len(models))
	for i := range models {
		configs = append(configs, *webhookModelToDomain(&models[i]))
	}

	return configs, nil
}

// ListActiveByDepartment returns the delivery targets for a full transition in
// the given department, oldest first so fan-out order is stable.
func (r *GormWebhookConfigRepo) ListActiveByDepartment(ctx context.Context, department domain.Department) ([]domain.WebhookConfig, error) {
	var models []WebhookConfigModel
	err := r.db.WithContext(ctx).
		Where("department = ? AND is_active = ?", department, true).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	configs := make([]domain.WebhookConfig, 0, len(models))
	for i := range models {
		configs = append(configs, *webhookModelToDomain(&models[i]))
	}

	return configs, nil
}

func (r *GormWebhookConfigRepo) Update(ctx context.Context, id string, update map[string]any) (*domain.WebhookConfig, error) {
	result := r.db.WithContext(ctx).
		Model(&WebhookConfigModel{}).
		Where("id = ?", id).
		Updates(update)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	var model WebhookConfigModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return webhookModelToDomain(&model), nil
}

func (r *GormWebhookConfigRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&WebhookConfigModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
