package service

import (
	"context"
	"errors"
	"testing"

	"github.com/coursehq/batchboard/internal/domain"
	"go.uber.org/zap"
)

func techWebhook(id string) *domain.WebhookConfig {
	return &domain.WebhookConfig{
		ID:         id,
		Name:       "Tech Channel",
		WebhookURL: "https://chat.coursehq.dev/hooks/tech",
		Department: domain.DepartmentTech,
		IsActive:   true,
	}
}

func TestWebhookServiceCreateAssignsID(t *testing.T) {
	t.Parallel()

	repo := &fakeWebhookRepo{
		createFn: func(ctx context.Context, w *domain.WebhookConfig) error { return nil },
	}
	svc := NewWebhookService(repo, &fakePublisher{}, zap.NewNop())

	created, err := svc.Create(context.Background(), leadProfile(domain.DepartmentTech), &domain.WebhookConfig{
		Name:       "Tech Channel",
		WebhookURL: "https://chat.coursehq.dev/hooks/tech",
		Department: domain.DepartmentTech,
		IsActive:   true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if created.ID == "" {
		t.Fatal("id should be assigned")
	}
	if created.CreatedBy == nil {
		t.Fatal("createdBy should be set from actor")
	}
}

func TestWebhookServiceCreateRejectsBadURL(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		url  string
	}{
		{name: "empty", url: ""},
		{name: "relative", url: "/hooks/tech"},
		{name: "unsupported scheme", url: "ftp://chat.coursehq.dev/hooks"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			storeCalled := false
			repo := &fakeWebhookRepo{
				createFn: func(ctx context.Context, w *domain.WebhookConfig) error {
					storeCalled = true
					return nil
				},
			}
			svc := NewWebhookService(repo, &fakePublisher{}, zap.NewNop())

			_, err := svc.Create(context.Background(), adminProfile(), &domain.WebhookConfig{
				Name:       "Broken",
				WebhookURL: tc.url,
				Department: domain.DepartmentTech,
			})
			if !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("error = %v, want ErrValidation", err)
			}
			if storeCalled {
				t.Fatal("store should not be called for invalid input")
			}
		})
	}
}

func TestWebhookServiceCreateCrossDepartmentDenied(t *testing.T) {
	t.Parallel()

	svc := NewWebhookService(&fakeWebhookRepo{}, &fakePublisher{}, zap.NewNop())

	_, err := svc.Create(context.Background(), leadProfile(domain.DepartmentDesign), &domain.WebhookConfig{
		Name:       "Finance Channel",
		WebhookURL: "https://chat.coursehq.dev/hooks/finance",
		Department: domain.DepartmentFinance,
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
}

func TestWebhookServiceUpdateMovesDepartmentNeedsBothGrants(t *testing.T) {
	t.Parallel()

	repo := &fakeWebhookRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.WebhookConfig, error) {
			return techWebhook(id), nil
		},
	}
	svc := NewWebhookService(repo, &fakePublisher{}, zap.NewNop())

	target := domain.DepartmentFinance
	_, err := svc.Update(context.Background(), leadProfile(domain.DepartmentTech), "w1", WebhookUpdateInput{
		Department: &target,
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized moving config out of own department", err)
	}
}

func TestWebhookServiceTestPublishesTestMessage(t *testing.T) {
	t.Parallel()

	repo := &fakeWebhookRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.WebhookConfig, error) {
			return techWebhook(id), nil
		},
	}
	publisher := &fakePublisher{}
	svc := NewWebhookService(repo, publisher, zap.NewNop())

	if err := svc.Test(context.Background(), adminProfile(), "w1"); err != nil {
		t.Fatalf("Test() error = %v", err)
	}

	msgs := publisher.messages()
	if len(msgs) != 1 {
		t.Fatalf("published %d messages, want 1", len(msgs))
	}
	if !msgs[0].IsTest {
		t.Fatal("message should be marked as test")
	}
	if msgs[0].WebhookConfigID == nil || *msgs[0].WebhookConfigID != "w1" {
		t.Fatalf("webhookConfigId = %v, want w1", msgs[0].WebhookConfigID)
	}
}

func TestWebhookServiceTestMissingConfig(t *testing.T) {
	t.Parallel()

	svc := NewWebhookService(&fakeWebhookRepo{}, &fakePublisher{}, zap.NewNop())

	err := svc.Test(context.Background(), adminProfile(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}
