package handler

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/coursehq/batchboard/internal/domain"
	"github.com/coursehq/batchboard/internal/transport"
)

func newTestApp(t *testing.T, actor *domain.Profile, register func(router fiber.Router) error) *fiber.App {
	t.Helper()

	app := fiber.New(fiber.Config{
		ErrorHandler: transport.ErrorHandler(zap.NewNop()),
	})

	v1 := app.Group("/v1", func(c *fiber.Ctx) error {
		if actor != nil {
			c.Locals(profileLocalsKey, actor)
		}
		return c.Next()
	})

	if err := register(v1); err != nil {
		t.Fatalf("route registration error = %v", err)
	}

	return app
}

func performRequest(t *testing.T, app *fiber.App, method string, path string, body string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	_ = resp.Body.Close()

	return resp, respBody
}

func testAdmin() *domain.Profile {
	return &domain.Profile{
		ID:         "00000000-0000-0000-0000-000000000001",
		Email:      "admin@coursehq.dev",
		FullName:   "Ada Root",
		Role:       domain.RoleAdmin,
		Department: domain.DepartmentTech,
		IsActive:   true,
	}
}
