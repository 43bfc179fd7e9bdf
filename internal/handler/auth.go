package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/coursehq/batchboard/internal/domain"
	"github.com/coursehq/batchboard/internal/repository"
)

const profileLocalsKey = "profile"

// AuthMiddleware validates the bearer token and resolves the acting profile.
// The token subject is the profile id; inactive or unknown profiles are
// rejected before any handler runs.
func AuthMiddleware(secret string, profiles repository.ProfileRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := bearerToken(c)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		subject, err := parseSubject(tokenString, secret)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		profile, err := profiles.GetByID(c.Context(), subject)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "unknown profile")
			}
			return err
		}
		if !profile.IsActive {
			return fiber.NewError(fiber.StatusUnauthorized, "profile is deactivated")
		}

		c.Locals(profileLocalsKey, profile)
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) (string, error) {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return "", fmt.Errorf("authorization header is required")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", fmt.Errorf("authorization header must be a bearer token")
	}

	return strings.TrimSpace(parts[1]), nil
}

func parseSubject(tokenString string, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", fmt.Errorf("token is not valid")
	}

	subject, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(subject) == "" {
		return "", fmt.Errorf("token subject is required")
	}

	return subject, nil
}

// actingProfile returns the profile stored by AuthMiddleware. Routes behind
// the middleware always have one; a missing profile is a wiring bug surfaced
// as 401.
func actingProfile(c *fiber.Ctx) (*domain.Profile, error) {
	profile, ok := c.Locals(profileLocalsKey).(*domain.Profile)
	if !ok || profile == nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "no authenticated profile")
	}
	return profile, nil
}
