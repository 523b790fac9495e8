package catalog

import (
	"fmt"
	"time"

	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/eduplatform/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CourseStatus represents the publication state of a course
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "DRAFT"     // Not yet visible, not enrollable
	CourseStatusPublished CourseStatus = "PUBLISHED" // Open for enrollment
	CourseStatusArchived  CourseStatus = "ARCHIVED"  // Closed, kept for history
)

// IsValid checks if the status is a valid CourseStatus
func (s CourseStatus) IsValid() bool {
	switch s {
	case CourseStatusDraft, CourseStatusPublished, CourseStatusArchived:
		return true
	}
	return false
}

// Course is a billable offering taught by one teacher. Its price is the
// total an enrollment invoice is issued for.
type Course struct {
	shared.BaseAggregateRoot
	Code        string
	Name        string
	Description string
	TeacherID   uuid.UUID
	Price       decimal.Decimal
	Currency    valueobject.Currency
	Capacity    int
	Status      CourseStatus
	PublishedAt *time.Time
	ArchivedAt  *time.Time
}

// NewCourse creates a draft course
func NewCourse(code, name string, teacherID uuid.UUID, price valueobject.Money, capacity int) (*Course, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_COURSE_CODE", "Course code cannot be empty")
	}
	if len(code) > 30 {
		return nil, shared.NewDomainError("INVALID_COURSE_CODE", "Course code cannot exceed 30 characters")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_COURSE_NAME", "Course name cannot be empty")
	}
	if teacherID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TEACHER", "Teacher ID cannot be empty")
	}
	if !price.IsPositive() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Course price must be positive")
	}
	if capacity < 0 {
		return nil, shared.NewDomainError("INVALID_CAPACITY", "Course capacity cannot be negative")
	}

	return &Course{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		TeacherID:         teacherID,
		Price:             price.Amount(),
		Currency:          price.Currency(),
		Capacity:          capacity,
		Status:            CourseStatusDraft,
	}, nil
}

// Publish opens the course for enrollment
func (c *Course) Publish() error {
	if c.Status == CourseStatusArchived {
		return shared.NewDomainError("INVALID_STATE", "Cannot publish an archived course")
	}
	if c.Status == CourseStatusPublished {
		return nil
	}
	now := time.Now()
	c.Status = CourseStatusPublished
	c.PublishedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// Archive closes the course
func (c *Course) Archive() error {
	if c.Status == CourseStatusArchived {
		return nil
	}
	now := time.Now()
	c.Status = CourseStatusArchived
	c.ArchivedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// IsEnrollable returns true if new enrollments may be created
func (c *Course) IsEnrollable() bool {
	return c.Status == CourseStatusPublished
}

// ChangePrice updates the course price; existing invoices are unaffected
func (c *Course) ChangePrice(price valueobject.Money) error {
	if !price.IsPositive() {
		return shared.NewDomainError("INVALID_PRICE", "Course price must be positive")
	}
	if price.Currency() != c.Currency {
		return shared.NewDomainError("INVALID_PRICE", fmt.Sprintf("Course is priced in %s", c.Currency))
	}
	c.Price = price.Amount()
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// PriceMoney returns the price as Money
func (c *Course) PriceMoney() valueobject.Money {
	m, _ := valueobject.NewMoney(c.Price, c.Currency)
	return m
}
