package enrollment

import (
	"context"

	"github.com/eduplatform/backend/internal/domain/billing"
	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Filter defines filtering options for enrollment queries
type Filter struct {
	shared.Filter
	StudentID *uuid.UUID
	CourseID  *uuid.UUID
	Status    *Status
}

// Repository defines the interface for enrollment persistence
type Repository interface {
	// FindByID finds an enrollment by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Enrollment, error)

	// FindAll lists enrollments matching the filter
	FindAll(ctx context.Context, filter Filter) ([]Enrollment, error)

	// Count counts enrollments matching the filter
	Count(ctx context.Context, filter Filter) (int64, error)

	// ExistsActive reports whether the student already has a non-terminal
	// enrollment in the course
	ExistsActive(ctx context.Context, studentID, courseID uuid.UUID) (bool, error)

	// Save creates or updates an enrollment
	Save(ctx context.Context, e *Enrollment) error

	// CreateWithInvoice persists the enrollment, its invoice and the
	// invoice's installments in one transaction. On any failure nothing
	// is persisted: no enrollment without invoice, no invoice without its
	// installments.
	CreateWithInvoice(ctx context.Context, e *Enrollment, inv *billing.Invoice) error
}
