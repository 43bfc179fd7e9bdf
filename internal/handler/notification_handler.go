package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/coursehq/batchboard/internal/domain"
	"github.com/coursehq/batchboard/internal/repository"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type NotificationService interface {
	List(ctx context.Context, params repository.NotificationListParams) ([]domain.NotificationRecord, error)
}

type NotificationHandler struct {
	service NotificationService
}

func NewNotificationHandler(service NotificationService) (*NotificationHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("notification service is required")
	}
	return &NotificationHandler{service: service}, nil
}

func RegisterNotificationRoutes(router fiber.Router, service NotificationService) error {
	h, err := NewNotificationHandler(service)
	if err != nil {
		return err
	}

	router.Get("/notifications", h.ListNotifications)

	return nil
}

type notificationResponse struct {
	ID              string     `json:"id"`
	BatchID         *string    `json:"batchId,omitempty"`
	WebhookConfigID *string    `json:"webhookConfigId,omitempty"`
	Message         string     `json:"message"`
	Status          string     `json:"status"`
	SentAt          *time.Time `json:"sentAt,omitempty"`
	ErrorMessage    *string    `json:"errorMessage,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
}

type listNotificationsResponse struct {
	Data []notificationResponse `json:"data"`
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultListLimit)
	if limit < 1 || limit > maxListLimit {
		return toHTTPError(fmt.Errorf("%w: limit must be between 1 and %d", domain.ErrValidation, maxListLimit))
	}

	params := repository.NotificationListParams{Limit: limit}
	if rawBatchID := strings.TrimSpace(c.Query("batchId")); rawBatchID != "" {
		params.BatchID = &rawBatchID
	}

	records, err := h.service.List(c.Context(), params)
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]notificationResponse, 0, len(records))
	for i := range records {
		responses = append(responses, toNotificationResponse(&records[i]))
	}

	return c.Status(fiber.StatusOK).JSON(listNotificationsResponse{Data: responses})
}

func toNotificationResponse(n *domain.NotificationRecord) notificationResponse {
	if n == nil {
		return notificationResponse{}
	}

	return notificationResponse{
		ID:              n.ID,
		BatchID:         n.BatchID,
		WebhookConfigID: n.WebhookConfigID,
		Message:         n.Message,
		Status:          n.Status.String(),
		SentAt:          n.SentAt,
		ErrorMessage:    n.ErrorMessage,
		CreatedAt:       n.CreatedAt,
	}
}
