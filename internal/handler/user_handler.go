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

type UserService interface {
	List(ctx context.Context, actor *domain.Profile) ([]domain.Profile, error)
	GetByID(ctx context.Context, actor *domain.Profile, id string) (*domain.Profile, error)
	Invite(ctx context.Context, actor *domain.Profile, profile *domain.Profile) (*domain.Profile, error)
	Update(ctx context.Context, actor *domain.Profile, id string, input service.ProfileUpdateInput) (*domain.Profile, error)
	Deactivate(ctx context.Context, actor *domain.Profile, id string) (*domain.Profile, error)
}

type UserHandler struct {
	service UserService
}

func NewUserHandler(service UserService) (*UserHandler, error) {
	if service == nil {
		return nil, fmt.Errorf("user service is required")
	}
	return &UserHandler{service: service}, nil
}

func RegisterUserRoutes(router fiber.Router, service UserService) error {
	h, err := NewUserHandler(service)
	if err != nil {
		return err
	}

	router.Get("/users", h.ListUsers)
	router.Post("/users", h.InviteUser)
	router.Get("/users/:id", h.GetUser)
	router.Patch("/users/:id", h.UpdateUser)
	router.Post("/users/:id/deactivate", h.DeactivateUser)

	return nil
}

type inviteUserRequest struct {
	Email      string `json:"email"`
	FullName   string `json:"fullName"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

type updateUserRequest struct {
	FullName   *string `json:"fullName,omitempty"`
	Role       *string `json:"role,omitempty"`
	Department *string `json:"department,omitempty"`
	IsActive   *bool   `json:"isActive,omitempty"`
}

type profileResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"fullName"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type listProfilesResponse struct {
	Data []profileResponse `json:"data"`
}

func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	actor, err := actingProfile(c)
	if err != nil {
		return err
	}

	profiles, err := h.service.List(c.Context(), actor)
	if err != nil {
		return toHTTPError(err)
	}

	responses := make([]profileResponse, 0, len(profiles))
	for i := range profiles {
		responses = append(responses, toProfileResponse(&profiles[i]))
	}

	return c.Status(fiber.StatusOK).JSON(listProfilesResponse{Data: responses})
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	actor, err := actingProfile(c)
	if err != nil {
		return err
	}

	id := strings.TrimSpace(c.Params("id"))
	profile, err := h.service.GetByID(c.Context(), actor, id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toProfileResponse(profile))
}

func (h *UserHandler) InviteUser(c *fiber.Ctx) error {
	actor, err := actingProfile(c)
	if err != nil {
		return err
	}

	var req inviteUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	role, err := domain.ParseRoleFromString(req.Role)
	if err != nil {
		return toHTTPError(err)
	}
	department, err := domain.ParseDepartmentFromString(req.Department)
	if err != nil {
		return toHTTPError(err)
	}

	profile := &domain.Profile{
		Email:      strings.TrimSpace(req.Email),
		FullName:   strings.TrimSpace(req.FullName),
		Role:       role,
		Department: department,
	}

	created, err := h.service.Invite(c.Context(), actor, profile)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(toProfileResponse(created))
}

func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	actor, err := actingProfile(c)
	if err != nil {
		return err
	}

	var req updateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	input := service.ProfileUpdateInput{
		FullName: req.FullName,
		IsActive: req.IsActive,
	}
	if req.Role != nil {
		role, err := domain.ParseRoleFromString(*req.Role)
		if err != nil {
			return toHTTPError(err)
		}
		input.Role = &role
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

	return c.Status(fiber.StatusOK).JSON(toProfileResponse(updated))
}

func (h *UserHandler) DeactivateUser(c *fiber.Ctx) error {
	actor, err := actingProfile(c)
	if err != nil {
		return err
	}

	id := strings.TrimSpace(c.Params("id"))
	deactivated, err := h.service.Deactivate(c.Context(), actor, id)
	if err != nil {
		return toHTTPError(err)
	}

	return c.Status(fiber.StatusOK).JSON(toProfileResponse(deactivated))
}

func toProfileResponse(p *domain.Profile) profileResponse {
	if p == nil {
		return profileResponse{}
	}

	return profileResponse{
		ID:         p.ID,
		Email:      p.Email,
		FullName:   p.FullName,
		Role:       p.Role.String(),
		Department: p.Department.String(),
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
