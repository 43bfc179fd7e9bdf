package domain

import (
	"fmt"
	"strings"
	"time"
)

// NotificationStatus is the outcome of a delivery attempt.
type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
)

func (s NotificationStatus) String() string { return string(s) }

func (s NotificationStatus) IsValid() bool {
	switch s {
	case NotificationStatusPending, NotificationStatusSent, NotificationStatusFailed:
		return true
	}
	return false
}

func ParseNotificationStatusFromString(s string) (NotificationStatus, error) {
	st := NotificationStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid notification status %q", ErrValidation, s)
	}
	return st, nil
}

// NotificationRecord is a persisted log entry describing one delivery
// attempt's outcome. Records are immutable once written.
type NotificationRecord struct {
	ID              string             `gorm:"type:uuid;primaryKey"`
	BatchID         *string            `gorm:"type:uuid"`
	WebhookConfigID *string            `gorm:"type:uuid"`
	Message         string             `gorm:"type:text;not null"`
	Status          NotificationStatus `gorm:"type:varchar(20);not null"`
	SentAt          *time.Time
	ErrorMessage    *string `gorm:"type:text"`
	CreatedAt       time.Time
}

func (n *NotificationRecord) Validate() error {
	if strings.TrimSpace(n.Message) == "" {
		return fmt.Errorf("%w: message is required", ErrValidation)
	}
	if !n.Status.IsValid() {
		return fmt.Errorf("%w: invalid notification status %q", ErrValidation, n.Status)
	}
	if n.Status == NotificationStatusFailed && (n.ErrorMessage == nil || strings.TrimSpace(*n.ErrorMessage) == "") {
		return fmt.Errorf("%w: failed record requires an error message", ErrValidation)
	}
	return nil
}
