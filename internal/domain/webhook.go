package domain

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// WebhookConfig is a registered outbound notification target scoped to a
// department. The URL itself is the capability; no auth header is attached.
type WebhookConfig struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	Name       string     `gorm:"type:varchar(255);not null"`
	WebhookURL string     `gorm:"type:text;not null"`
	Department Department `gorm:"type:varchar(20);not null"`
	IsActive   bool       `gorm:"not null;default:true"`
	CreatedBy  *string    `gorm:"type:uuid"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (w *WebhookConfig) Validate() error {
	if strings.TrimSpace(w.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if err := validateWebhookURL(w.WebhookURL); err != nil {
		return err
	}
	if !w.Department.IsValid() {
		return fmt.Errorf("%w: invalid department %q", ErrValidation, w.Department)
	}
	return nil
}

func validateWebhookURL(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return fmt.Errorf("%w: webhook url is required", ErrValidation)
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return fmt.Errorf("%w: invalid webhook url: %v", ErrValidation, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: webhook url must be absolute", ErrValidation)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: webhook url scheme %q is not supported", ErrValidation, u.Scheme)
	}
	return nil
}
