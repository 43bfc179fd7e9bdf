package repository

import (
	"context"
	"errors"

	"github.com/coursehq/batchboard/internal/domain"
	"gorm.io/gorm"
)

// BatchListParams filters batch listings.
type BatchListParams struct {
	Department *domain.Department
	Status     *domain.BatchStatus
}

type BatchRepository interface {
	Create(ctx context.Context, b *domain.Batch) error
	GetByID(ctx context.Context, id string) (*domain.Batch, error)
	List(ctx context.Context, params BatchListParams) ([]domain.Batch, error)
	Update(ctx context.Context, id string, update map[string]any) (*domain.Batch, error)
	Delete(ctx context.Context, id string) error
}

type GormBatchRepo struct {
	db *gorm.DB
}

func NewGormBatchRepo(db *gorm.DB) *GormBatchRepo {
	return &GormBatchRepo{db: db}
}

func (r *GormBatchRepo) Create(ctx context.Context, b *domain.Batch) error {
	model := batchModelFromDomain(b)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if b != nil {
		*b = *batchModelToDomain(model)
	}
	return nil
}

func (r *GormBatchRepo) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	var model BatchModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return batchModelToDomain(&model), nil
}

func (r *GormBatchRepo) List(ctx context.Context, params BatchListParams) ([]domain.Batch, error) {
	query := r.db.WithContext(ctx).Model(&BatchModel{})

	if params.Department != nil {
		query = query.Where("department = ?", *params.Department)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	var models []BatchModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	batches := make([]domain.Batch, 0, len(models))
	for i := range models {
		batches = append(batches, *batchModelToDomain(&models[i]))
	}

	return batches, nil
}

// Update applies a partial update in a single call and returns the persisted
// row. Last write wins; no optimistic concurrency token is checked.
func (r *GormBatchRepo) Update(ctx context.Context, id string, update map[string]any) (*domain.Batch, error) {
	result := r.db.WithContext(ctx).
		Model(&BatchModel{}).
		Where("id = ?", id).
		Updates(update)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	var model BatchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return batchModelToDomain(&model), nil
}

func (r *GormBatchRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&BatchModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
