package handler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/coursehq/batchboard/internal/domain"
	"github.com/coursehq/batchboard/internal/observability"
	"github.com/coursehq/batchboard/internal/repository"
	"github.com/coursehq/batchboard/internal/service"
)

type BatchService interface {
	Create(ctx context.Context, actor *domain.Profile, batch *domain.Batch) (*domain.Batch, error)
	GetByID(ctx context.Context, id string) (*domain.Batch, error)
	List(ctx context.Context, params repository.BatchListParams) ([]domain.Batch, error)
	Update(ctx context.Context, actor *domain.Profile, id string, input service.BatchUpdateInput) (*domain.Batch, error)
	Delete(ctx context.Context, actor *domain.Profile, id string) error
}

type BatchHandler struct {
	service BatchService
}

func NewBatchHandler(service BatchService) (*BatchHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("batch service is required")
	}
	return &BatchHandler{service: service}, nil
}

func RegisterBatchRoutes(router fiber.Router, service BatchService) error {
	h, err := NewBatchHandler(service)
	if err != nil {
		return err
	}

	router.Post("/batches", h.CreateBatch)
	router.Get("/batches", h.ListBatches)
	router.Get("/batches/:id", h.GetBatch)
	router.Patch("/batches/:id", h.UpdateBatch)
	router.Delete("/batches/:id", h.DeleteBatch)

	return nil
}

type createBatchRequest struct {
	Name         string  `json:"name"`
	Description  *string `json:"description,omitempty"`
	MaxCapacity  int     `json:"maxCapacity"`
	CurrentCount int     `json:"currentCount"`
	Department   string  `json:"department"`
	StartDate    *string `json:"startDate,omitempty"`
	EndDate      *string `json:"endDate,omitempty"`
}

type updateBatchRequest struct {
	Name         *string `json:"name,omitempty"`
	Description  *string `json:"description,omitempty"`
	MaxCapacity  *int    `json:"maxCapacity,omitempty"`
	CurrentCount *int    `json:"currentCount,omitempty"`
	Status       *string `json:"status,omitempty"`
	Department   *string `json:"department,omitempty"`
	StartDate    *string `json:"startDate,omitempty"`
	EndDate      *string `json:"endDate,omitempty"`
}

type batchResponse struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description,omitempty"`
	MaxCapacity    int        `json:"maxCapacity"`
	CurrentCount   int        `json:"currentCount"`
	SeatsRemaining int        `json:"seatsRemaining"`
	Status         string     `json:"status"`
	Department     string     `json:"department"`
	StartDate      *time.Time `json:"startDate,omitempty"`
	EndDate        *time.Time `json:"endDate,omitempty"`
	CreatedBy      *string    `json:"createdBy,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

type listBatchesResponse struct {
	Data []batchResponse `json:"data"`
}

func (h *BatchHandler) CreateBatch(c *fiber.Ctx) error {
	actor, err := actingProfile(c)
	if err != nil {
		return err
	}

	var req createBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	department, err := domain.ParseDepartmentFromString(req.Department)
	if err != nil {
		return toHTTPError(err)
	}

	startDate, err := parseDateField(req.StartDate, "startDate")
	if err != nil {
		return toHTTPError(err)
	}
	endDate, err := parseDateField(req.EndDate, "endDate")
	if err != nil {
		return toHTTPError(err)
	}

	batch := &domain.Batch{
		Name:         strings.TrimSpace(req.Name),
		Description:  req.Description,
		MaxCapacity:  req.MaxCapacity,
		CurrentCount: req.CurrentCount,
		Department:   department,
		StartDate:    startDate,
		EndDate:      endDate,
	}

	created, err := h.service.Create(requestContext(c), actor, batch)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(created))
}

func (h *BatchHandler) ListBatches(c *fiber.Ctx) error {
	params := repository.BatchListParams{}

	if rawDept := strings.TrimSpace(c.Query("department")); rawDept != "" {
		department, err := domain.ParseDepartmentFromString(rawDept)
		if err != nil {
			return toHTTPError(err)
		}
		params.Department = &department
	}
	if rawStatus := strings.TrimSpace(c.Query("status")); rawStatus != "" {
		status, err := domain.ParseBatchStatusFromString(rawStatus)
		if err != nil {
			return toHTTPError(err)
		}
		params.Status = &status
	}

	batches, err := h.service.List(c.Context(), params)
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]batchResponse, 0, len(batches))
	for i := range batches {
		responses = append(responses, toBatchResponse(&batches[i]))
	}

	return c.Status(fiber.StatusOK).JSON(listBatchesResponse{Data: responses})
}

func (h *BatchHandler) GetBatch(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	batch, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toBatchResponse(batch))
}

func (h *BatchHandler) UpdateBatch(c *fiber.Ctx) error {
	actor, err := actingProfile(c)
	if err != nil {
		return err
	}

	var req updateBatchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	input := service.BatchUpdateInput{
		Name:         req.Name,
		Description:  req.Description,
		MaxCapacity:  req.MaxCapacity,
		CurrentCount: req.CurrentCount,
	}

	if req.Status != nil {
		status, err := domain.ParseBatchStatusFromString(*req.Status)
		if err != nil {
			return toHTTPError(err)
		}
		input.Status = &status
	}
	if req.Department != nil {
		department, err := domain.ParseDepartmentFromString(*req.Department)
		if err != nil {
			return toHTTPError(err)
		}
		input.Department = &department
	}
	if req.StartDate != nil {
		startDate, err := parseDateField(req.StartDate, "startDate")
		if err != nil {
			return toHTTPError(err)
		}
		input.StartDate = startDate
	}
	if req.EndDate != nil {
		endDate, err := parseDateField(req.EndDate, "endDate")
		if err != nil {
			return toHTTPError(err)
		}
		input.EndDate = endDate
	}

	updated, err := h.service.Update(requestContext(c), actor, strings.TrimSpace(c.Params("id")), input)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toBatchResponse(updated))
}

func (h *BatchHandler) DeleteBatch(c *fiber.Ctx) error {
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

func toBatchResponse(b *domain.Batch) batchResponse {
	if b == nil {
		return batchResponse{}
	}

	return batchResponse{
		ID:             b.ID,
		Name:           b.Name,
		Description:    b.Description,
		MaxCapacity:    b.MaxCapacity,
		CurrentCount:   b.CurrentCount,
		SeatsRemaining: b.SeatsRemaining(),
		Status:         b.Status.String(),
		Department:     b.Department.String(),
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		CreatedBy:      b.CreatedBy,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
}

func parseDateField(value *string, field string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}

	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", trimmed); err == nil {
		return &t, nil
	}

	return nil, fmt.Errorf("%w: %s must be RFC3339 or YYYY-MM-DD", domain.ErrValidation, field)
}

// requestContext annotates the handler context with the request id so the
// publish path and the worker share a correlation id.
func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.Context()

	if value := strings.TrimSpace(c.Get(fiber.HeaderXRequestID)); value != "" {
		return observability.WithCorrelationID(ctx, value)
	}
	if value, ok := c.Locals("requestid").(string); ok && strings.TrimSpace(value) != "" {
		return observability.WithCorrelationID(ctx, strings.TrimSpace(value))
	}
	return ctx
}
