package domain

import (
	"fmt"
	"strings"
	"time"
)

// Profile is the identity record behind an authenticated session. The ID is
// shared with the session provider's subject.
type Profile struct {
	ID         string     `gorm:"type:uuid;primaryKey"`
	Email      string     `gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName   string     `gorm:"type:varchar(255);not null"`
	Role       Role       `gorm:"type:varchar(20);not null"`
	Department Department `gorm:"type:varchar(20);not null"`
	IsActive   bool       `gorm:"not null;default:true"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Profile) Validate() error {
	if strings.TrimSpace(p.Email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if !strings.Contains(p.Email, "@") {
		return fmt.Errorf("%w: invalid email %q", ErrValidation, p.Email)
	}
	if strings.TrimSpace(p.FullName) == "" {
		return fmt.Errorf("%w: full name is required", ErrValidation)
	}
	if !p.Role.IsValid() {
		return fmt.Errorf("%w: invalid role %q", ErrValidation, p.Role)
	}
	if !p.Department.IsValid() {
		return fmt.Errorf("%w: invalid department %q", ErrValidation, p.Department)
	}
	return nil
}
