package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coursehq/batchboard/internal/domain"
	"github.com/coursehq/batchboard/internal/observability"
	"github.com/coursehq/batchboard/internal/provider"
	"github.com/coursehq/batchboard/internal/queue"
	"github.com/coursehq/batchboard/internal/ratelimit"
	"github.com/coursehq/batchboard/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	minDispatchConcurrency = 1
	defaultRetryAttempts   = 3
	unassignedCoordinator  = "unassigned"
)

// DispatchService consumes dispatch messages and fans each one out to the
// matching department's active webhook configs. Delivery failures end up in
// notification records, never back on the queue: a message is only redelivered
// when the batch could not be read at all.
type DispatchService struct {
	batches     repository.BatchRepository
	webhooks    repository.WebhookConfigRepository
	records     repository.NotificationRepository
	profiles    repository.ProfileRepository
	consumer    queue.Consumer
	sender      provider.Sender
	rateLimiter ratelimit.RateLimiter
	logger      *zap.Logger
	metrics     *observability.Metrics

	concurrency   int
	retryAttempts int
	retryDelay    time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewDispatchService(
	batches repository.BatchRepository,
	webhooks repository.WebhookConfigRepository,
	records repository.NotificationRepository,
	profiles repository.ProfileRepository,
	consumer queue.Consumer,
	sender provider.Sender,
	rateLimiter ratelimit.RateLimiter,
	concurrency int,
	retryAttempts int,
	retryDelay time.Duration,
	logger *zap.Logger,
) *DispatchService {
	if concurrency < minDispatchConcurrency {
		concurrency = minDispatchConcurrency
	}
	if retryAttempts < 1 {
		retryAttempts = defaultRetryAttempts
	}
	if retryDelay < 0 {
		retryDelay = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DispatchService{
		batches:       batches,
		webhooks:      webhooks,
		records:       records,
		profiles:      profiles,
		consumer:      consumer,
		sender:        sender,
		rateLimiter:   rateLimiter,
		logger:        logger,
		concurrency:   concurrency,
		retryAttempts: retryAttempts,
		retryDelay:    retryDelay,
		now:           time.Now,
		sleep:         sleepWithContext,
	}
}

func (s *DispatchService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Start runs the dispatch workers until context cancellation.
func (s *DispatchService) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	g, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < s.concurrency; i++ {
		workerID := i + 1

		g.Go(func() error {
			s.logger.Info("dispatch worker started", zap.Int("workerId", workerID))

			err := s.consumer.Consume(groupCtx, queue.DispatchQueue, s.HandleMessage)
			if err != nil {
				s.logger.Error("dispatch worker stopped with error",
					zap.Int("workerId", workerID),
					zap.Error(err),
				)
				return err
			}

			s.logger.Info("dispatch worker stopped", zap.Int("workerId", workerID))
			return nil
		})
	}

	return g.Wait()
}

// HandleMessage processes one dispatch message. A returned error requeues the
// message; nil acks it.
func (s *DispatchService) HandleMessage(ctx context.Context, msg queue.DispatchMessage) error {
	if msg.CorrelationID != "" {
		ctx = observability.WithCorrelationID(ctx, msg.CorrelationID)
	}
	logger := observability.WithContextLogger(s.logger, ctx)

	if msg.IsTest {
		return s.handleTest(ctx, logger, msg)
	}

	batch, err := s.batches.GetByID(ctx, msg.BatchID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("batch gone before dispatch, skipping", zap.String("batchId", msg.BatchID))
			return nil
		}
		return fmt.Errorf("failed to load batch for dispatch: %w", err)
	}

	// Seats may have freed up between publish and consume; only a batch that
	// is still full gets announced.
	if batch.Status != domain.BatchStatusFull {
		logger.Info("batch no longer full, skipping dispatch",
			zap.String("batchId", batch.ID),
			zap.String("status", batch.Status.String()),
		)
		return nil
	}

	configs, err := s.webhooks.ListActiveByDepartment(ctx, batch.Department)
	if err != nil {
		return fmt.Errorf("failed to list webhook configs for dispatch: %w", err)
	}
	if len(configs) == 0 {
		logger.Info("no active webhook configs for department, nothing to deliver",
			zap.String("batchId", batch.ID),
			zap.String("department", batch.Department.String()),
		)
		return nil
	}

	payload := s.buildPayload(ctx, batch, false)

	g, groupCtx := errgroup.WithContext(ctx)
	for i := range configs {
		config := configs[i]

		g.Go(func() error {
			s.deliverAndRecord(groupCtx, logger, &batch.ID, config, payload)
			return nil
		})
	}

	return g.Wait()
}

func (s *DispatchService) handleTest(ctx context.Context, logger *zap.Logger, msg queue.DispatchMessage) error {
	config, err := s.webhooks.GetByID(ctx, *msg.WebhookConfigID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			logger.Warn("webhook config gone before test dispatch, skipping",
				zap.String("webhookConfigId", *msg.WebhookConfigID),
			)
			return nil
		}
		return fmt.Errorf("failed to load webhook config for test dispatch: %w", err)
	}

	payload := provider.Payload{
		Text:      fmt.Sprintf("Test notification for webhook %q", config.Name),
		Timestamp: s.now().UTC().Format(time.RFC3339),
		BatchData: provider.BatchData{
			Name:        "Sample Batch",
			Status:      domain.BatchStatusFull.String(),
			Capacity:    "1/1",
			Department:  config.Department.String(),
			Coordinator: unassignedCoordinator,
		},
		IsTest: true,
	}

	s.deliverAndRecord(ctx, logger, nil, *config, payload)
	return nil
}

func (s *DispatchService) buildPayload(ctx context.Context, batch *domain.Batch, isTest bool) provider.Payload {
	coordinator := s.resolveCoordinator(ctx, batch)

	text := fmt.Sprintf("Batch %q in %s is now full (%s). Coordinator: %s",
		batch.Name, batch.Department, batch.CapacityFraction(), coordinator)

	return provider.Payload{
		Text:      text,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		BatchData: provider.BatchData{
			Name:        batch.Name,
			Status:      batch.Status.String(),
			Capacity:    batch.CapacityFraction(),
			Department:  batch.Department.String(),
			Coordinator: coordinator,
		},
		IsTest: isTest,
	}
}

func (s *DispatchService) resolveCoordinator(ctx context.Context, batch *domain.Batch) string {
	if batch.CreatedBy == nil {
		return unassignedCoordinator
	}

	profile, err := s.profiles.GetByID(ctx, *batch.CreatedBy)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("failed to resolve batch coordinator",
				zap.String("batchId", batch.ID),
				zap.Error(err),
			)
		}
		return unassignedCoordinator
	}

	return profile.FullName
}

// deliverAndRecord performs one rate-limited, retried delivery and writes
// exactly one notification record with the final outcome.
func (s *DispatchService) deliverAndRecord(
	ctx context.Context,
	logger *zap.Logger,
	batchID *string,
	config domain.WebhookConfig,
	payload provider.Payload,
) {
	department := config.Department.String()

	if s.metrics != nil {
		s.metrics.IncDispatchInFlight(department)
		defer s.metrics.DecDispatchInFlight(department)
	}

	if err := s.rateLimiter.Wait(ctx, department); err != nil {
		logger.Error("rate limiter wait failed",
			zap.String("webhookConfigId", config.ID),
			zap.Error(err),
		)
		s.writeRecord(ctx, logger, batchID, config, payload, err)
		return
	}

	sendStart := s.now()
	sendErr := s.deliverWithRetry(ctx, logger, config, payload)
	if s.metrics != nil {
		s.metrics.ObserveDispatchSendDuration(department, s.now().Sub(sendStart))
	}

	s.writeRecord(ctx, logger, batchID, config, payload, sendErr)

	if s.metrics != nil {
		if sendErr == nil {
			s.metrics.IncDispatchSent(department)
		} else {
			reason := "permanent_error"
			if provider.IsTransient(sendErr) {
				reason = "retry_exhausted"
			}
			s.metrics.IncDispatchFailed(department, reason)
		}
	}
}

func (s *DispatchService) deliverWithRetry(
	ctx context.Context,
	logger *zap.Logger,
	config domain.WebhookConfig,
	payload provider.Payload,
) error {
	var lastErr error

	for attempt := 1; attempt <= s.retryAttempts; attempt++ {
		_, err := s.sender.Send(ctx, config.WebhookURL, payload)
		if err == nil {
			return nil
		}
		lastErr = err

		if !provider.IsTransient(err) || attempt == s.retryAttempts {
			break
		}

		logger.Warn("webhook delivery failed, retrying",
			zap.String("webhookConfigId", config.ID),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", s.retryAttempts),
			zap.Error(err),
		)
		if s.metrics != nil {
			s.metrics.IncRetryAttempt(config.Department.String())
		}

		if err := s.sleep(ctx, s.retryDelay); err != nil {
			return lastErr
		}
	}

	return lastErr
}

func (s *DispatchService) writeRecord(
	ctx context.Context,
	logger *zap.Logger,
	batchID *string,
	config domain.WebhookConfig,
	payload provider.Payload,
	sendErr error,
) {
	configID := config.ID
	record := &domain.NotificationRecord{
		ID:              uuid.NewString(),
		BatchID:         batchID,
		WebhookConfigID: &configID,
		Message:         payload.Text,
	}

	if sendErr == nil {
		sentAt := s.now().UTC()
		record.Status = domain.NotificationStatusSent
		record.SentAt = &sentAt
	} else {
		errMsg := sendErr.Error()
		record.Status = domain.NotificationStatusFailed
		record.ErrorMessage = &errMsg
	}

	if err := s.records.Create(ctx, record); err != nil {
		// Record writes are best effort; requeueing here would re-send the
		// webhook itself.
		logger.Error("failed to write notification record",
			zap.String("webhookConfigId", config.ID),
			zap.String("status", record.Status.String()),
			zap.Error(err),
		)
		return
	}

	if sendErr == nil {
		logger.Info("webhook delivered",
			zap.String("webhookConfigId", config.ID),
			zap.String("notificationId", record.ID),
		)
	} else {
		logger.Warn("webhook delivery failed",
			zap.String("webhookConfigId", config.ID),
			zap.String("notificationId", record.ID),
			zap.Error(sendErr),
		)
	}
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
