package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/coursehq/batchboard/internal/domain"
	"github.com/coursehq/batchboard/internal/repository"
)

// NotificationService is the read surface over delivery records. Records are
// written only by the dispatcher.
type NotificationService struct {
	records repository.NotificationRepository
}

func NewNotificationService(records repository.NotificationRepository) *NotificationService {
	return &NotificationService{records: records}
}

func (s *NotificationService) List(ctx context.Context, params repository.NotificationListParams) ([]domain.NotificationRecord, error) {
	if params.BatchID != nil && strings.TrimSpace(*params.BatchID) == "" {
		return nil, fmt.Errorf("%w: batch id filter must not be blank", domain.ErrValidation)
	}
	return s.records.List(ctx, params)
}
