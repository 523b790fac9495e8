package catalog

import (
	"context"

	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CourseFilter defines filtering options for course queries
type CourseFilter struct {
	shared.Filter
	TeacherID *uuid.UUID
	Status    *CourseStatus
}

// CourseRepository defines the interface for course persistence
type CourseRepository interface {
	// FindByID finds a course by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Course, error)

	// FindByCode finds a course by its unique code
	FindByCode(ctx context.Context, code string) (*Course, error)

	// FindAll lists courses matching the filter
	FindAll(ctx context.Context, filter CourseFilter) ([]Course, error)

	// Count counts courses matching the filter
	Count(ctx context.Context, filter CourseFilter) (int64, error)

	// ExistsByCode checks if a course code is taken
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// Save creates or updates a course
	Save(ctx context.Context, course *Course) error
}
