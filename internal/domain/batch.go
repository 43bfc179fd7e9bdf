package domain

import (
	"fmt"
	"strings"
	"time"
)

// BatchStatus is the lifecycle state of an enrollment batch. Open and full are
// derived from the capacity counters; closed and cancelled are terminal states
// set explicitly by an operator.
type BatchStatus string

const (
	BatchStatusOpen      BatchStatus = "open"
	BatchStatusFull      BatchStatus = "full"
	BatchStatusClosed    BatchStatus = "closed"
	BatchStatusCancelled BatchStatus = "cancelled"
)

func (s BatchStatus) String() string { return string(s) }

func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusOpen, BatchStatusFull, BatchStatusClosed, BatchStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status was set explicitly and must survive
// counter changes.
func (s BatchStatus) IsTerminal() bool {
	return s == BatchStatusClosed || s == BatchStatusCancelled
}

func ParseBatchStatusFromString(s string) (BatchStatus, error) {
	st := BatchStatus(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("%w: invalid batch status %q", ErrValidation, s)
	}
	return st, nil
}

// DeriveBatchStatus recomputes a batch status from its counters. Terminal
// states are preserved; otherwise the status is full exactly when the batch is
// at capacity.
func DeriveBatchStatus(currentCount, maxCapacity int, prior BatchStatus) BatchStatus {
	if prior.IsTerminal() {
		return prior
	}
	if currentCount == maxCapacity {
		return BatchStatusFull
	}
	return BatchStatusOpen
}

// Batch is an enrollment cohort with a capacity limit.
type Batch struct {
	ID           string      `gorm:"type:uuid;primaryKey"`
	Name         string      `gorm:"type:varchar(255);not null"`
	Description  *string     `gorm:"type:text"`
	MaxCapacity  int         `gorm:"not null"`
	CurrentCount int         `gorm:"not null;default:0"`
	Status       BatchStatus `gorm:"type:varchar(20);not null"`
	Department   Department  `gorm:"type:varchar(20);not null"`
	StartDate    *time.Time
	EndDate      *time.Time
	CreatedBy    *string `gorm:"type:uuid"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsFull reports whether the batch is at capacity.
func (b *Batch) IsFull() bool {
	return b.CurrentCount == b.MaxCapacity
}

// CapacityFraction renders the enrolled/total figure, e.g. "28/30".
func (b *Batch) CapacityFraction() string {
	return fmt.Sprintf("%d/%d", b.CurrentCount, b.MaxCapacity)
}

// SeatsRemaining returns the number of unfilled seats.
func (b *Batch) SeatsRemaining() int {
	return b.MaxCapacity - b.CurrentCount
}

func (b *Batch) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if b.MaxCapacity <= 0 {
		return fmt.Errorf("%w: max capacity must be positive", ErrValidation)
	}
	if b.CurrentCount < 0 {
		return fmt.Errorf("%w: current count must not be negative", ErrValidation)
	}
	if b.CurrentCount > b.MaxCapacity {
		return fmt.Errorf("%w: current count %d exceeds max capacity %d", ErrValidation, b.CurrentCount, b.MaxCapacity)
	}
	if !b.Department.IsValid() {
		return fmt.Errorf("%w: invalid department %q", ErrValidation, b.Department)
	}
	if b.Status != "" && !b.Status.IsValid() {
		return fmt.Errorf("%w: invalid batch status %q", ErrValidation, b.Status)
	}
	if b.StartDate != nil && b.EndDate != nil && b.EndDate.Before(*b.StartDate) {
		return fmt.Errorf("%w: end date precedes start date", ErrValidation)
	}
	return nil
}
