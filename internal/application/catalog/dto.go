package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eduplatform/backend/internal/domain/catalog"
)

// CreateCourseRequest creates a new draft course
type CreateCourseRequest struct {
	Code        string          `json:"code" binding:"required,min=1,max=30"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=2000"`
	TeacherID   uuid.UUID       `json:"teacher_id" binding:"required"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Currency    string          `json:"currency"`
	Capacity    int             `json:"capacity" binding:"required,min=1"`
}

// UpdateCourseRequest updates mutable course fields
type UpdateCourseRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=2000"`
	Capacity    int              `json:"capacity" binding:"required,min=1"`
	Price       *decimal.Decimal `json:"price"`
}

// CourseListFilter defines filtering options for course list queries
type CourseListFilter struct {
	Search    string     `form:"search"`
	TeacherID *uuid.UUID `form:"teacher_id"`
	Status    string     `form:"status"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// CourseResponse represents a course in API responses
type CourseResponse struct {
	ID          uuid.UUID       `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	TeacherID   uuid.UUID       `json:"teacher_id"`
	Price       decimal.Decimal `json:"price"`
	Currency    string          `json:"currency"`
	Capacity    int             `json:"capacity"`
	Status      string          `json:"status"`
	PublishedAt *time.Time      `json:"published_at,omitempty"`
	ArchivedAt  *time.Time      `json:"archived_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

func toCourseResponse(c *catalog.Course) *CourseResponse {
	return &CourseResponse{
		ID:          c.ID,
		Code:        c.Code,
		Name:        c.Name,
		Description: c.Description,
		TeacherID:   c.TeacherID,
		Price:       c.Price,
		Currency:    string(c.Currency),
		Capacity:    c.Capacity,
		Status:      string(c.Status),
		PublishedAt: c.PublishedAt,
		ArchivedAt:  c.ArchivedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		Version:     c.Version,
	}
}
