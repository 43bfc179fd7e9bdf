package repository

import (
	"context"
	"errors"

	"github.com/coursehq/batchboard/internal/domain"
	"gorm.io/gorm"
)

type ProfileRepository interface {
	Create(ctx context.Context, p *domain.Profile) error
	GetByID(ctx context.Context, id string) (*domain.Profile, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	List(ctx context.Context) ([]domain.Profile, error)
	Update(ctx context.Context, id string, update map[string]any) (*domain.Profile, error)
}

type GormProfileRepo struct {
	db *gorm.DB
}

func NewGormProfileRepo(db *gorm.DB) *GormProfileRepo {
	return &GormProfileRepo{db: db}
}

func (r *GormProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	model := profileModelFromDomain(p)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	if p != nil {
		*p = *profileModelToDomain(model)
	}
	return nil
}

func (r *GormProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	var model ProfileModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return profileModelToDomain(&model), nil
}

func (r *GormProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	var model ProfileModel
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return profileModelToDomain(&model), nil
}

func (r *GormProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	var models []ProfileModel
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	profiles := make([]domain.Profile, 0, len(models))
	for i := range models {
		profiles = append(profiles, *profileModelToDomain(&models[i]))
	}

	return profiles, nil
}

func (r *GormProfileRepo) Update(ctx context.Context, id string, update map[string]any) (*domain.Profile, error) {
	result := r.db.WithContext(ctx).
		Model(&ProfileModel{}).
		Where("id = ?", id).
		Updates(update)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, domain.ErrNotFound
	}

	var model ProfileModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return profileModelToDomain(&model), nil
}
