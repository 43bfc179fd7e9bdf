package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/coursehq/batchboard/internal/domain"
	"github.com/coursehq/batchboard/internal/service"
)

type stubWebhookService struct {
	createFn  func(ctx context.Context, actor *domain.Profile, config *domain.WebhookConfig) (*domain.WebhookConfig, error)
	getByIDFn func(ctx context.Context, id string) (*domain.WebhookConfig, error)
	listFn    func(ctx context.Context) ([]domain.WebhookConfig, error)
	updateFn  func(ctx context.Context, actor *domain.Profile, id string, input service.WebhookUpdateInput) (*domain.WebhookConfig, error)
	deleteFn  func(ctx context.Context, actor *domain.Profile, id string) error
	testFn    func(ctx context.Context, actor *domain.Profile, id string) error
}

func (s *stubWebhookService) Create(ctx context.Context, actor *domain.Profile, config *domain.WebhookConfig) (*domain.WebhookConfig, error) {
	return s.createFn(ctx, actor, config)
}

func (s *stubWebhookService) GetByID(ctx context.Context, id string) (*domain.WebhookConfig, error) {
	return s.getByIDFn(ctx, id)
}

func (s *stubWebhookService) List(ctx context.Context) ([]domain.WebhookConfig, error) {
	return s.listFn(ctx)
}

func (s *stubWebhookService) Update(ctx context.Context, actor *domain.Profile, id string, input service.WebhookUpdateInput) (*domain.WebhookConfig, error) {
	return s.updateFn(ctx, actor, id, input)
}

func (s *stubWebhookService) Delete(ctx context.Context, actor *domain.Profile, id string) error {
	return s.deleteFn(ctx, actor, id)
}

func (s *stubWebhookService) Test(ctx context.Context, actor *domain.Profile, id string) error {
	return s.testFn(ctx, actor, id)
}

func TestWebhookIntegration_CreateWebhook(t *testing.T) {
	t.Parallel()

	svc := &stubWebhookService{
		createFn: func(ctx context.Context, actor *domain.Profile, config *domain.WebhookConfig) (*domain.WebhookConfig, error) {
			if err := config.Validate(); err != nil {
				return nil, err
			}
			config.ID = "w-created"
			return config, nil
		},
	}

	app := newTestApp(t, testAdmin(), func(router fiber.Router) error {
		return RegisterWebhookRoutes(router, svc)
	})

	validBody := `{"name":"Tech Channel","webhookUrl":"https://chat.coursehq.dev/hooks/tech","department":"tech"}`
	resp, body := performRequest(t, app, http.MethodPost, "/v1/webhooks", validBody)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", resp.StatusCode, string(body))
	}

	var created map[string]any
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if created["id"] != "w-created" {
		t.Fatalf("id = %v, want w-created", created["id"])
	}
	if created["isActive"] != true {
		t.Fatalf("isActive = %v, want true by default", created["isActive"])
	}

	badURLBody := `{"name":"Broken","webhookUrl":"not a url","department":"tech"}`
	resp, _ = performRequest(t, app, http.MethodPost, "/v1/webhooks", badURLBody)
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400 for invalid url", resp.StatusCode)
	}
}

func TestWebhookIntegration_TestWebhookQueues(t *testing.T) {
	t.Parallel()

	var testedID string
	svc := &stubWebhookService{
		testFn: func(ctx context.Context, actor *domain.Profile, id string) error {
			testedID = id
			return nil
		},
	}

	app := newTestApp(t, testAdmin(), func(router fiber.Router) error {
		return RegisterWebhookRoutes(router, svc)
	})

	resp, body := performRequest(t, app, http.MethodPost, "/v1/webhooks/w1/test", "")
	if resp.StatusCode != fiber.StatusAccepted {
		t.Fatalf("status = %d, want 202, body=%s", resp.StatusCode, string(body))
	}
	if testedID != "w1" {
		t.Fatalf("tested id = %q, want w1", testedID)
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		t.Fatalf("json unmarshal error = %v", err)
	}
	if parsed["status"] != "queued" {
		t.Fatalf("status = %v, want queued", parsed["status"])
	}
}

func TestWebhookIntegration_TestWebhookNotFound(t *testing.T) {
	t.Parallel()

	svc := &stubWebhookService{
		testFn: func(ctx context.Context, actor *domain.Profile, id string) error {
			return domain.ErrNotFound
		},
	}

	app := newTestApp(t, testAdmin(), func(router fiber.Router) error {
		return RegisterWebhookRoutes(router, svc)
	})

	resp, _ := performRequest(t, app, http.MethodPost, "/v1/webhooks/missing/test", "")
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestWebhookIntegration_UpdateToggleActive(t *testing.T) {
	t.Parallel()

	svc := &stubWebhookService{
		updateFn: func(ctx context.Context, actor *domain.Profile, id string, input service.WebhookUpdateInput) (*domain.WebhookConfig, error) {
			if input.IsActive == nil || *input.IsActive {
				t.Errorf("isActive = %v, want false", input.IsActive)
			}
			return &domain.WebhookConfig{
				ID:         id,
				Name:       "Tech Channel",
				WebhookURL: "https://chat.coursehq.dev/hooks/tech",
				Department: domain.DepartmentTech,
				IsActive:   false,
			}, nil
		},
	}

	app := newTestApp(t, testAdmin(), func(router fiber.Router) error {
		return RegisterWebhookRoutes(router, svc)
	})

	resp, body := performRequest(t, app, http.MethodPatch, "/v1/webhooks/w1", `{"isActive":false}`)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", resp.StatusCode, string(body))
	}
}
