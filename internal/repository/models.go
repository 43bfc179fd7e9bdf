package repository

import (
	"time"

	"github.com/coursehq/batchboard/internal/domain"
)

// BatchModel is the persistence model for the batches table.
type BatchModel struct {
	ID           string             `gorm:"type:uuid;primaryKey"`
	Name         string             `gorm:"type:varchar(255);not null"`
	Description  *string            `gorm:"type:text"`
	MaxCapacity  int                `gorm:"not null"`
	CurrentCount int                `gorm:"not null;default:0"`
	Status       domain.BatchStatus `gorm:"type:varchar(20);not null"`
	Department   domain.Department  `gorm:"type:varchar(20);not null"`
	StartDate    *time.Time         `gorm:"type:date"`
	EndDate      *time.Time         `gorm:"type:date"`
	CreatedBy    *string            `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (BatchModel) TableName() string {
	return "batches"
}

// WebhookConfigModel is the persistence model for webhook_configs.
type WebhookConfigModel struct {
	ID         string            `gorm:"type:uuid;primaryKey"`
	Name       string            `gorm:"type:varchar(255);not null"`
	WebhookURL string            `gorm:"type:text;not null"`
	Department domain.Department `gorm:"type:varchar(20);not null"`
	IsActive   bool              `gorm:"not null;default:true"`
	CreatedBy  *string           `gorm:"type:uuid"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (WebhookConfigModel) TableName() string {
	return "webhook_configs"
}

// NotificationModel is the persistence model for notifications.
type NotificationModel struct {
	ID              string                    `gorm:"type:uuid;primaryKey"`
	BatchID         *string                   `gorm:"type:uuid"`
	WebhookConfigID *string                   `gorm:"type:uuid"`
	Message         string                    `gorm:"type:text;not null"`
	Status          domain.NotificationStatus `gorm:"type:varchar(20);not null"`
	SentAt          *time.Time
	ErrorMessage    *string `gorm:"type:text"`
	CreatedAt       time.Time
}

func (NotificationModel) TableName() string {
	return "notifications"
}

// ProfileModel is the persistence model for profiles.
type ProfileModel struct {
	ID         string            `gorm:"type:uuid;primaryKey"`
	Email      string            `gorm:"type:varchar(255);not null"`
	FullName   string            `gorm:"type:varchar(255);not null"`
	Role       domain.Role       `gorm:"type:varchar(20);not null"`
	Department domain.Department `gorm:"type:varchar(20);not null"`
	IsActive   bool              `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (ProfileModel) TableName() string {
	return "profiles"
}

func batchModelFromDomain(b *domain.Batch) *BatchModel {
	if b == nil {
		return nil
	}

	return &BatchModel{
		ID:           b.ID,
		Name:         b.Name,
		Description:  b.Description,
		MaxCapacity:  b.MaxCapacity,
		CurrentCount: b.CurrentCount,
		Status:       b.Status,
		Department:   b.Department,
		StartDate:    b.StartDate,
		EndDate:      b.EndDate,
		CreatedBy:    b.CreatedBy,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func batchModelToDomain(m *BatchModel) *domain.Batch {
	if m == nil {
		return nil
	}

	return &domain.Batch{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		MaxCapacity:  m.MaxCapacity,
		CurrentCount: m.CurrentCount,
		Status:       m.Status,
		Department:   m.Department,
		StartDate:    m.StartDate,
		EndDate:      m.EndDate,
		CreatedBy:    m.CreatedBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func webhookModelFromDomain(w *domain.WebhookConfig) *WebhookConfigModel {
	if w == nil {
		return nil
	}

	return &WebhookConfigModel{
		ID:         w.ID,
		Name:       w.Name,
		WebhookURL: w.WebhookURL,
		Department: w.Department,
		IsActive:   w.IsActive,
		CreatedBy:  w.CreatedBy,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
	}
}

func webhookModelToDomain(m *WebhookConfigModel) *domain.WebhookConfig {
	if m == nil {
		return nil
	}

	return &domain.WebhookConfig{
		ID:         m.ID,
		Name:       m.Name,
		WebhookURL: m.WebhookURL,
		Department: m.Department,
		IsActive:   m.IsActive,
		CreatedBy:  m.CreatedBy,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func notificationModelFromDomain(n *domain.NotificationRecord) *NotificationModel {
	if n == nil {
		return nil
	}

	return &NotificationModel{
		ID:              n.ID,
		BatchID:         n.BatchID,
		WebhookConfigID: n.WebhookConfigID,
		Message:         n.Message,
		Status:          n.Status,
		SentAt:          n.SentAt,
		ErrorMessage:    n.ErrorMessage,
		CreatedAt:       n.CreatedAt,
	}
}

func notificationModelToDomain(m *NotificationModel) *domain.NotificationRecord {
	if m == nil {
		return nil
	}

	return &domain.NotificationRecord{
		ID:              m.ID,
		BatchID:         m.BatchID,
		WebhookConfigID: m.WebhookConfigID,
		Message:         m.Message,
		Status:          m.Status,
		SentAt:          m.SentAt,
		ErrorMessage:    m.ErrorMessage,
		CreatedAt:       m.CreatedAt,
	}
}

func profileModelFromDomain(p *domain.Profile) *ProfileModel {
	if p == nil {
		return nil
	}

	return &ProfileModel{
		ID:         p.ID,
		Email:      p.Email,
		FullName:   p.FullName,
		Role:       p.Role,
		Department: p.Department,
		IsActive:   p.IsActive,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func profileModelToDomain(m *ProfileModel) *domain.Profile {
	if m == nil {
		return nil
	}

	return &domain.Profile{
		ID:         m.ID,
		Email:      m.Email,
		FullName:   m.FullName,
		Role:       m.Role,
		Department: m.Department,
		IsActive:   m.IsActive,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}
