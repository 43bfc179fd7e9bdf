package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/coursehq/batchboard/internal/domain"
	"github.com/coursehq/batchboard/internal/observability"
	"github.com/coursehq/batchboard/internal/policy"
	"github.com/coursehq/batchboard/internal/queue"
	"github.com/coursehq/batchboard/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BatchService owns the batch CRUD surface and the full-transition trigger.
// Every mutation is policy gated; the dispatch publish is a best-effort side
// effect that never fails the mutation itself.
type BatchService struct {
	batches   repository.BatchRepository
	publisher queue.Publisher
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// BatchUpdateInput carries a partial batch update. Nil fields are left
// untouched.
type BatchUpdateInput struct {
	Name         *string
	Description  *string
	MaxCapacity  *int
	CurrentCount *int
	Status       *domain.BatchStatus
	Department   *domain.Department
	StartDate    *time.Time
	EndDate      *time.Time
}

func NewBatchService(
	batches repository.BatchRepository,
	publisher queue.Publisher,
	logger *zap.Logger,
) *BatchService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &BatchService{
		batches:   batches,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *BatchService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

func (s *BatchService) Create(ctx context.Context, actor *domain.Profile, batch *domain.Batch) (*domain.Batch, error) {
	if batch == nil {
		return nil, fmt.Errorf("%w: batch is required", domain.ErrValidation)
	}

	if err := policy.AuthorizeBatchMutation(actor, batch.Department); err != nil {
		return nil, err
	}

	batch.Name = strings.TrimSpace(batch.Name)
	batch.ID = strings.TrimSpace(batch.ID)
	if batch.ID == "" {
		batch.ID = uuid.NewString()
	}
	if batch.CreatedBy == nil && actor != nil {
		createdBy := actor.ID
		batch.CreatedBy = &createdBy
	}
	batch.Status = domain.DeriveBatchStatus(batch.CurrentCount, batch.MaxCapacity, batch.Status)

	if err := batch.Validate(); err != nil {
		return nil, err
	}

	if err := s.batches.Create(ctx, batch); err != nil {
		return nil, err
	}

	// A batch created at capacity counts as a transition: there was no prior
	// non-full state, but subscribers have never been told about it either.
	if batch.Status == domain.BatchStatusFull {
		s.publishFullTransition(ctx, batch)
	}

	return batch, nil
}

func (s *BatchService) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: batch id is required", domain.ErrValidation)
	}
	return s.batches.GetByID(ctx, strings.TrimSpace(id))
}

func (s *BatchService) List(ctx context.Context, params repository.BatchListParams) ([]domain.Batch, error) {
	return s.batches.List(ctx, params)
}

// Update applies a partial update in one store call, recomputes the status
// from the post-update counters, and publishes a dispatch when the batch
// crossed from not-full to full. Count decreases and re-saves of an already
// full batch never publish.
func (s *BatchService) Update(ctx context.Context, actor *domain.Profile, id string, input BatchUpdateInput) (*domain.Batch, error) {
	trimmedID := strings.TrimSpace(id)
	if trimmedID == "" {
		return nil, fmt.Errorf("%w: batch id is required", domain.ErrValidation)
	}

	pre, err := s.batches.GetByID(ctx, trimmedID)
	if err != nil {
		return nil, err
	}

	if err := policy.AuthorizeBatchMutation(actor, pre.Department); err != nil {
		return nil, err
	}
	if input.Department != nil && *input.Department != pre.Department {
		if err := policy.AuthorizeBatchMutation(actor, *input.Department); err != nil {
			return nil, err
		}
	}

	candidate := *pre
	update := map[string]any{}

	if input.Name != nil {
		candidate.Name = strings.TrimSpace(*input.Name)
		update["name"] = candidate.Name
	}
	if input.Description != nil {
		candidate.Description = input.Description
		update["description"] = *input.Description
	}
	if input.MaxCapacity != nil {
		candidate.MaxCapacity = *input.MaxCapacity
		update["max_capacity"] = *input.MaxCapacity
	}
	if input.CurrentCount != nil {
		candidate.CurrentCount = *input.CurrentCount
		update["current_count"] = *input.CurrentCount
	}
	if input.Department != nil {
		candidate.Department = *input.Department
		update["department"] = *input.Department
	}
	if input.StartDate != nil {
		candidate.StartDate = input.StartDate
		update["start_date"] = *input.StartDate
	}
	if input.EndDate != nil {
		candidate.EndDate = input.EndDate
		update["end_date"] = *input.EndDate
	}

	statusPrior := pre.Status
	if input.Status != nil {
		statusPrior = *input.Status
	}
	candidate.Status = domain.DeriveBatchStatus(candidate.CurrentCount, candidate.MaxCapacity, statusPrior)
	update["status"] = candidate.Status

	if err := candidate.Validate(); err != nil {
		return nil, err
	}

	post, err := s.batches.Update(ctx, trimmedID, update)
	if err != nil {
		return nil, err
	}

	// Edge trigger evaluated on the store-returned row: only the crossing into
	// full publishes, never a re-save of an already full batch.
	if !pre.IsFull() && post.Status == domain.BatchStatusFull {
		s.publishFullTransition(ctx, post)
	}

	return post, nil
}

func (s *BatchService) Delete(ctx context.Context, actor *domain.Profile, id string) error {
	trimmedID := strings.TrimSpace(id)
	if trimmedID == "" {
		return fmt.Errorf("%w: batch id is required", domain.ErrValidation)
	}

	pre, err := s.batches.GetByID(ctx, trimmedID)
	if err != nil {
		return err
	}

	if err := policy.AuthorizeBatchMutation(actor, pre.Department); err != nil {
		return err
	}

	return s.batches.Delete(ctx, trimmedID)
}

func (s *BatchService) publishFullTransition(ctx context.Context, batch *domain.Batch) {
	correlationID, _ := observability.CorrelationIDFromContext(ctx)

	msg := queue.DispatchMessage{
		BatchID:       batch.ID,
		CorrelationID: correlationID,
	}

	if err := s.publisher.Publish(ctx, queue.DispatchQueue, msg); err != nil {
		observability.WithContextLogger(s.logger, ctx).Error("failed to publish full-transition dispatch",
			zap.String("batchId", batch.ID),
			zap.String("department", batch.Department.String()),
			zap.Error(err),
		)
		return
	}

	if s.metrics != nil {
		s.metrics.IncFullTransition(batch.Department.String())
	}

	observability.WithContextLogger(s.logger, ctx).Info("batch full transition published",
		zap.String("batchId", batch.ID),
		zap.String("department", batch.Department.String()),
		zap.String("capacity", batch.CapacityFraction()),
	)
}
