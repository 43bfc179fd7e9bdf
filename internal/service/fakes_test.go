package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/coursehq/batchboard/internal/domain"
	"github.com/coursehq/batchboard/internal/provider"
	"github.com/coursehq/batchboard/internal/queue"
	"github.com/coursehq/batchboard/internal/repository"
)

type fakeBatchRepo struct {
	createFn  func(ctx context.Context, b *domain.Batch) error
	getByIDFn func(ctx context.Context, id string) (*domain.Batch, error)
	listFn    func(ctx context.Context, params repository.BatchListParams) ([]domain.Batch, error)
	updateFn  func(ctx context.Context, id string, update map[string]any) (*domain.Batch, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (f *fakeBatchRepo) Create(ctx context.Context, b *domain.Batch) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, b)
}

func (f *fakeBatchRepo) GetByID(ctx context.Context, id string) (*domain.Batch, error) {
	if f.getByIDFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeBatchRepo) List(ctx context.Context, params repository.BatchListParams) ([]domain.Batch, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, params)
}

func (f *fakeBatchRepo) Update(ctx context.Context, id string, update map[string]any) (*domain.Batch, error) {
	if f.updateFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.updateFn(ctx, id, update)
}

func (f *fakeBatchRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

type fakeWebhookRepo struct {
	createFn     func(ctx context.Context, w *domain.WebhookConfig) error
	getByIDFn    func(ctx context.Context, id string) (*domain.WebhookConfig, error)
	listFn       func(ctx context.Context) ([]domain.WebhookConfig, error)
	listActiveFn func(ctx context.Context, department domain.Department) ([]domain.WebhookConfig, error)
	updateFn     func(ctx context.Context, id string, update map[string]any) (*domain.WebhookConfig, error)
	deleteFn     func(ctx context.Context, id string) error
}

func (f *fakeWebhookRepo) Create(ctx context.Context, w *domain.WebhookConfig) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, w)
}

func (f *fakeWebhookRepo) GetByID(ctx context.Context, id string) (*domain.WebhookConfig, error) {
	if f.getByIDFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeWebhookRepo) List(ctx context.Context) ([]domain.WebhookConfig, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f *fakeWebhookRepo) ListActiveByDepartment(ctx context.Context, department domain.Department) ([]domain.WebhookConfig, error) {
	if f.listActiveFn == nil {
		return nil, nil
	}
	return f.listActiveFn(ctx, department)
}

func (f *fakeWebhookRepo) Update(ctx context.Context, id string, update map[string]any) (*domain.WebhookConfig, error) {
	if f.updateFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.updateFn(ctx, id, update)
}

func (f *fakeWebhookRepo) Delete(ctx context.Context, id string) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(ctx, id)
}

type fakeNotificationRepo struct {
	mu      sync.Mutex
	records []domain.NotificationRecord

	createFn func(ctx context.Context, n *domain.NotificationRecord) error
	listFn   func(ctx context.Context, params repository.NotificationListParams) ([]domain.NotificationRecord, error)
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.NotificationRecord) error {
	if f.createFn != nil {
		return f.createFn(ctx, n)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, *n)
	return nil
}

func (f *fakeNotificationRepo) List(ctx context.Context, params repository.NotificationListParams) ([]domain.NotificationRecord, error) {
	if f.listFn != nil {
		return f.listFn(ctx, params)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.NotificationRecord, len(f.records))
	copy(out, f.records)
	return out, nil
}

func (f *fakeNotificationRepo) stored() []domain.NotificationRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.NotificationRecord, len(f.records))
	copy(out, f.records)
	return out
}

type fakeProfileRepo struct {
	createFn     func(ctx context.Context, p *domain.Profile) error
	getByIDFn    func(ctx context.Context, id string) (*domain.Profile, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.Profile, error)
	listFn       func(ctx context.Context) ([]domain.Profile, error)
	updateFn     func(ctx context.Context, id string, update map[string]any) (*domain.Profile, error)
}

func (f *fakeProfileRepo) Create(ctx context.Context, p *domain.Profile) error {
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, p)
}

func (f *fakeProfileRepo) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	if f.getByIDFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByIDFn(ctx, id)
}

func (f *fakeProfileRepo) GetByEmail(ctx context.Context, email string) (*domain.Profile, error) {
	if f.getByEmailFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.getByEmailFn(ctx, email)
}

func (f *fakeProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx)
}

func (f *fakeProfileRepo) Update(ctx context.Context, id string, update map[string]any) (*domain.Profile, error) {
	if f.updateFn == nil {
		return nil, domain.ErrNotFound
	}
	return f.updateFn(ctx, id, update)
}

type fakePublisher struct {
	mu        sync.Mutex
	published []queue.DispatchMessage

	publishFn func(ctx context.Context, queueName string, msg queue.DispatchMessage) error
}

func (f *fakePublisher) Publish(ctx context.Context, queueName string, msg queue.DispatchMessage) error {
	if f.publishFn != nil {
		return f.publishFn(ctx, queueName, msg)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.published = append(f.published, msg)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) messages() []queue.DispatchMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]queue.DispatchMessage, len(f.published))
	copy(out, f.published)
	return out
}

type fakeConsumer struct {
	consumeFn func(ctx context.Context, queueName string, handler queue.MessageHandler) error
}

func (f *fakeConsumer) Consume(ctx context.Context, queueName string, handler queue.MessageHandler) error {
	if f.consumeFn == nil {
		<-ctx.Done()
		return nil
	}
	return f.consumeFn(ctx, queueName, handler)
}

func (f *fakeConsumer) Close() error { return nil }

type fakeSender struct {
	mu    sync.Mutex
	calls []string

	sendFn func(ctx context.Context, endpoint string, payload provider.Payload) (*provider.Response, error)
}

func (f *fakeSender) Send(ctx context.Context, endpoint string, payload provider.Payload) (*provider.Response, error) {
	f.mu.Lock()
	f.calls = append(f.calls, endpoint)
	f.mu.Unlock()

	if f.sendFn == nil {
		return &provider.Response{StatusCode: 200}, nil
	}
	return f.sendFn(ctx, endpoint, payload)
}

func (f *fakeSender) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeSender) endpoints() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

type fakeRateLimiter struct {
	mu    sync.Mutex
	waits []string

	allowFn func(ctx context.Context, department string) (bool, error)
	waitFn  func(ctx context.Context, department string) error
}

func (f *fakeRateLimiter) Allow(ctx context.Context, department string) (bool, error) {
	if f.allowFn == nil {
		return true, nil
	}
	return f.allowFn(ctx, department)
}

func (f *fakeRateLimiter) Wait(ctx context.Context, department string) error {
	f.mu.Lock()
	f.waits = append(f.waits, department)
	f.mu.Unlock()

	if f.waitFn == nil {
		return nil
	}
	return f.waitFn(ctx, department)
}

func (f *fakeRateLimiter) waited() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.waits))
	copy(out, f.waits)
	return out
}

func adminProfile() *domain.Profile {
	return &domain.Profile{
		ID:         "00000000-0000-0000-0000-000000000001",
		Email:      "admin@coursehq.dev",
		FullName:   "Ada Root",
		Role:       domain.RoleAdmin,
		Department: domain.DepartmentTech,
		IsActive:   true,
	}
}

func leadProfile(department domain.Department) *domain.Profile {
	return &domain.Profile{
		ID:         fmt.Sprintf("00000000-0000-0000-0000-00000000%04d", len(department)),
		Email:      fmt.Sprintf("%s-lead@coursehq.dev", department),
		FullName:   "Lee Dermott",
		Role:       domain.RoleProjectLead,
		Department: department,
		IsActive:   true,
	}
}
