package enrollment

import (
	"fmt"
	"time"

	"github.com/eduplatform/backend/internal/domain/billing"
	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the lifecycle state of an enrollment
type Status string

const (
	StatusActive    Status = "ACTIVE"    // Enrolled, course in progress
	StatusCompleted Status = "COMPLETED" // Course finished
	StatusWithdrawn Status = "WITHDRAWN" // Student withdrew before completion
)

// IsValid checks if the status is a valid enrollment Status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusWithdrawn:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsTerminal returns true if the enrollment is in a terminal state
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusWithdrawn
}

// Enrollment links one student to one course and records the payment plan
// agreed at enrollment time. The invoice itself lives in the billing domain
// keyed by the enrollment ID.
type Enrollment struct {
	shared.BaseAggregateRoot
	StudentID        uuid.UUID
	CourseID         uuid.UUID
	Status           Status
	PlanType         billing.PlanType
	InstallmentCount int
	EnrolledAt       time.Time
	CompletedAt      *time.Time
	WithdrawnAt      *time.Time
	WithdrawReason   string
}

// NewEnrollment creates an active enrollment for the given student and course
func NewEnrollment(studentID, courseID uuid.UUID, plan billing.PaymentPlan) (*Enrollment, error) {
	if studentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_STUDENT", "Student ID cannot be empty")
	}
	if courseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COURSE", "Course ID cannot be empty")
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	e := &Enrollment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		StudentID:         studentID,
		CourseID:          courseID,
		Status:            StatusActive,
		PlanType:          plan.Type,
		InstallmentCount:  plan.InstallmentCount,
		EnrolledAt:        time.Now(),
	}

	e.AddDomainEvent(NewEnrollmentCreatedEvent(e))

	return e, nil
}

// Complete marks the enrollment finished
func (e *Enrollment) Complete() error {
	if e.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete enrollment in %s status", e.Status))
	}
	now := time.Now()
	e.Status = StatusCompleted
	e.CompletedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()
	return nil
}

// Withdraw marks the student as withdrawn from the course
func (e *Enrollment) Withdraw(reason string) error {
	if e.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot withdraw enrollment in %s status", e.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Withdraw reason is required")
	}
	now := time.Now()
	e.Status = StatusWithdrawn
	e.WithdrawnAt = &now
	e.WithdrawReason = reason
	e.UpdatedAt = now
	e.IncrementVersion()

	e.AddDomainEvent(NewEnrollmentWithdrawnEvent(e))

	return nil
}
