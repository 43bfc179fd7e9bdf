package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDeriveBatchStatus(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		current int
		max     int
		prior   BatchStatus
		want    BatchStatus
	}{
		{name: "at capacity is full", current: 30, max: 30, prior: BatchStatusOpen, want: BatchStatusFull},
		{name: "below capacity is open", current: 29, max: 30, prior: BatchStatusOpen, want: BatchStatusOpen},
		{name: "unfilled full batch reopens", current: 10, max: 30, prior: BatchStatusFull, want: BatchStatusOpen},
		{name: "empty batch is open", current: 0, max: 30, prior: BatchStatusOpen, want: BatchStatusOpen},
		{name: "closed survives counter change", current: 30, max: 30, prior: BatchStatusClosed, want: BatchStatusClosed},
		{name: "cancelled survives counter change", current: 5, max: 30, prior: BatchStatusCancelled, want: BatchStatusCancelled},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := DeriveBatchStatus(tc.current, tc.max, tc.prior); got != tc.want {
				t.Fatalf("DeriveBatchStatus(%d, %d, %s) = %s, want %s", tc.current, tc.max, tc.prior, got, tc.want)
			}
		})
	}
}

func TestBatchValidate(t *testing.T) {
	t.Parallel()

	valid := func() Batch {
		return Batch{
			Name:         "Digital Marketing",
			MaxCapacity:  30,
			CurrentCount: 2,
			Department:   DepartmentMarketing,
			Status:       BatchStatusOpen,
		}
	}

	t.Run("valid batch passes", func(t *testing.T) {
		t.Parallel()
		b := valid()
		if err := b.Validate(); err != nil {
			t.Fatalf("Validate() error = %v", err)
		}
	})

	testCases := []struct {
		name   string
		mutate func(*Batch)
	}{
		{name: "empty name", mutate: func(b *Batch) { b.Name = "  " }},
		{name: "zero capacity", mutate: func(b *Batch) { b.MaxCapacity = 0 }},
		{name: "negative count", mutate: func(b *Batch) { b.CurrentCount = -1 }},
		{name: "count above capacity", mutate: func(b *Batch) { b.MaxCapacity = 30; b.CurrentCount = 31 }},
		{name: "unknown department", mutate: func(b *Batch) { b.Department = "sales" }},
		{name: "unknown status", mutate: func(b *Batch) { b.Status = "archived" }},
		{
			name: "end before start",
			mutate: func(b *Batch) {
				start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
				end := start.Add(-24 * time.Hour)
				b.StartDate = &start
				b.EndDate = &end
			},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			b := valid()
			tc.mutate(&b)
			err := b.Validate()
			if err == nil {
				t.Fatal("Validate() expected error, got nil")
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("Validate() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestBatchCapacityHelpers(t *testing.T) {
	t.Parallel()

	b := Batch{Name: "Web Development", MaxCapacity: 25, CurrentCount: 25, Department: DepartmentTech}
	if !b.IsFull() {
		t.Fatal("IsFull() = false, want true")
	}
	if got := b.CapacityFraction(); got != "25/25" {
		t.Fatalf("CapacityFraction() = %q, want %q", got, "25/25")
	}
	if got := b.SeatsRemaining(); got != 0 {
		t.Fatalf("SeatsRemaining() = %d, want 0", got)
	}

	b.CurrentCount = 23
	if b.IsFull() {
		t.Fatal("IsFull() = true, want false")
	}
	if got := b.SeatsRemaining(); got != 2 {
		t.Fatalf("SeatsRemaining() = %d, want 2", got)
	}
}
