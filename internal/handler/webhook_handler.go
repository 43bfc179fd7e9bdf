package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/coursehq/batchboard/internal/domain"
	"github.com/coursehq/batchboard/internal/service"
)

type WebhookService interface {
	Create(ctx context.Context, actor *domain.Profile, config *domain.WebhookConfig) (*domain.WebhookConfig, error)
	GetByID(ctx context.Context, id string) (*domain.WebhookConfig, error)
	List(ctx context.Context) ([]domain.WebhookConfig, error)
	Update(ctx context.Context, actor *domain.Profile, id string, input service.WebhookUpdateInput) (*domain.WebhookConfig, error)
	Delete(ctx context.Context, actor *domain.Profile, id string) error
	Test(ctx context.Context, actor *domain.Profile, id string) error
}

type WebhookHandler struct {
	service WebhookService
}

func NewWebhookHandler(service WebhookService) (*WebhookHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("webhook service is required")
	}
	return &WebhookHandler{service: service}, nil
}

func RegisterWebhookRoutes(router fiber.Router, service WebhookService) error {
	h, err := NewWebhookHandler(service)
	if err != nil {
		return err
	}

	router.Post("/webhooks", h.CreateWebhook)
	router.Get("/webhooks", h.ListWebhooks)
	router.Get("/webhooks/:id", h.GetWebhook)
	router.Patch("/webhooks/:id", h.UpdateWebhook)
	router.Delete("/webhooks/:id", h.DeleteWebhook)
	router.Post("/webhooks/:id/test", h.TestWebhook)

	return nil
}

type createWebhookRequest struct {
	Name       string `json:"name"`
	WebhookURL string `json:"webhookUrl"`
	Department string `json:"department"`
	IsActive   *bool  `json:"isActive,omitempty"`
}

type updateWebhookRequest struct {
	Name       *string `json:"name,omitempty"`
	WebhookURL *string `json:"webhookUrl,omitempty"`
	Department *string `json:"department,omitempty"`
	IsActive   *bool   `json:"isActive,omitempty"`
}

type webhookResponse struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	WebhookURL string    `json:"webhookUrl"`
	Department string    `json:"department"`
	IsActive   bool      `json:"isActive"`
	CreatedBy  *string   `json:"createdBy,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type listWebhooksResponse struct {
	Data []webhookResponse `json:"data"`
}

func (h *WebhookHandler) CreateWebhook(c *fiber.Ctx) error {
	actor, err := actingProfile(c)
	if err != nil {
		return err
	}

	var req createWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	department, err := domain.ParseDepartmentFromString(req.Department)
	if err != nil {
		return toHTTPError(err)
	}

	config := &domain.WebhookConfig{
		Name:       strings.TrimSpace(req.Name),
		WebhookURL: strings.TrimSpace(req.WebhookURL),
		Department: department,
		IsActive:   true,
	}
	if req.IsActive != nil {
		config.IsActive = *req.IsActive
	}

	created, err := h.service.Create(c.Context(), actor, config)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toWebhookResponse(created))
}

func (h *WebhookHandler) ListWebhooks(c *fiber.Ctx) error {
	configs, err := h.service.List(c.Context())
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]webhookResponse, 0, len(configs))
	for i := range configs {
		responses = append(responses, toWebhookResponse(&configs[i]))
	}

	return c.Status(fiber.StatusOK).JSON(listWebhooksResponse{Data: responses})
}

func (h *WebhookHandler) GetWebhook(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	config, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toWebhookResponse(config))
}

func (h *WebhookHandler) UpdateWebhook(c *fiber.Ctx) error {
	actor, err := actingProfile(c)
	if err != nil {
		return err
	}

	var req updateWebhookRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	input := service.WebhookUpdateInput{
		Name:       req.Name,
		WebhookURL: req.WebhookURL,
		IsActive:   req.IsActive,
	}
	if req.Department != nil {
		department, err := domain.ParseDepartmentFromString(*req.Department)
		if err != nil {
			return toHTTPError(err)
		}
		input.Department = &department
	}

	updated, err := h.service.Update(c.Context(), actor, strings.TrimSpace(c.Params("id")), input)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toWebhookResponse(updated))
}

func (h *WebhookHandler) DeleteWebhook(c *fiber.Ctx) error {
	actor, err := actingProfile(c)
	if err != nil {
		return err
	}

	id := strings.TrimSpace(c.Params("id"))
	if err := h.service.Delete(c.Context(), actor, id); err != nil {
		return toHTTPError(err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// TestWebhook enqueues a test delivery; the outcome lands in the notification
// records like any other dispatch.
func (h *WebhookHandler) TestWebhook(c *fiber.Ctx) error {
	actor, err := actingProfile(c)
	if err != nil {
		return err
	}

	id := strings.TrimSpace(c.Params("id"))
	if err := h.service.Test(requestContext(c), actor, id); err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"webhookConfigId": id,
		"status":          "queued",
	})
}

func toWebhookResponse(w *domain.WebhookConfig) webhookResponse {
	if w == nil {
		return webhookResponse{}
	}

	return webhookResponse{
		ID:         w.ID,
		Name:       w.Name,
		WebhookURL: w.WebhookURL,
		Department: w.Department.String(),
		IsActive:   w.IsActive,
		CreatedBy:  w.CreatedBy,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}
