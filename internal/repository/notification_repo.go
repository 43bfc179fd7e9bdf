package repository

import (
	"context"

	"github.com/coursehq/batchboard/internal/domain"
	"gorm.io/gorm"
)

// NotificationListParams filters notification listings. Ordering is fixed:
// newest first, then id, so repeated reads without intervening writes return
// identical results.
type NotificationListParams struct {
	BatchID *string
	Limit   int
}

const defaultNotificationLimit = 50

// NotificationRepository persists delivery outcome records. Records are
// immutable: there is no update or delete.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.NotificationRecord) error
	List(ctx context.Context, params NotificationListParams) ([]domain.NotificationRecord, error)
}

type GormNotificationRepo struct {
	db *gorm.DB
}

func NewGormNotificationRepo(db *gorm.DB) *GormNotificationRepo {
	return &GormNotificationRepo{db: db}
}

func (r *GormNotificationRepo) Create(ctx context.Context, n *domain.NotificationRecord) error {
	model := notificationModelFromDomain(n)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	if n != nil {
		*n = *notificationModelToDomain(model)
	}
	return nil
}

func (r *GormNotificationRepo) List(ctx context.Context, params NotificationListParams) ([]domain.NotificationRecord, error) {
	query := r.db.WithContext(ctx).Model(&NotificationModel{})

	if params.BatchID != nil {
		query = query.Where("batch_id = ?", *params.BatchID)
	}

	limit := params.Limit
	if limit < 1 {
		limit = defaultNotificationLimit
	}

	var models []NotificationModel
	err := query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	records := make([]domain.NotificationRecord, 0, len(models))
	for i := range models {
		records = append(records, *notificationModelToDomain(&models[i]))
	}

	return records, nil
}
