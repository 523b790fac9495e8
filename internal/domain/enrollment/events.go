package enrollment

import (
	"github.com/eduplatform/backend/internal/domain/billing"
	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EnrollmentCreatedEvent is raised when a student enrolls in a course
type EnrollmentCreatedEvent struct {
	shared.BaseDomainEvent
	EnrollmentID     uuid.UUID        `json:"enrollment_id"`
	StudentID        uuid.UUID        `json:"student_id"`
	CourseID         uuid.UUID        `json:"course_id"`
	PlanType         billing.PlanType `json:"plan_type"`
	InstallmentCount int              `json:"installment_count"`
}

// EventType returns the event type name
func (e *EnrollmentCreatedEvent) EventType() string {
	return "EnrollmentCreated"
}

// NewEnrollmentCreatedEvent creates a new EnrollmentCreatedEvent
func NewEnrollmentCreatedEvent(e *Enrollment) *EnrollmentCreatedEvent {
	return &EnrollmentCreatedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent("EnrollmentCreated", "Enrollment", e.ID),
		EnrollmentID:     e.ID,
		StudentID:        e.StudentID,
		CourseID:         e.CourseID,
		PlanType:         e.PlanType,
		InstallmentCount: e.InstallmentCount,
	}
}

// EnrollmentWithdrawnEvent is raised when a student withdraws from a course
type EnrollmentWithdrawnEvent struct {
	shared.BaseDomainEvent
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	StudentID    uuid.UUID `json:"student_id"`
	CourseID     uuid.UUID `json:"course_id"`
	Reason       string    `json:"reason"`
}

// EventType returns the event type name
func (e *EnrollmentWithdrawnEvent) EventType() string {
	return "EnrollmentWithdrawn"
}

// NewEnrollmentWithdrawnEvent creates a new EnrollmentWithdrawnEvent
func NewEnrollmentWithdrawnEvent(e *Enrollment) *EnrollmentWithdrawnEvent {
	return &EnrollmentWithdrawnEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("EnrollmentWithdrawn", "Enrollment", e.ID),
		EnrollmentID:    e.ID,
		StudentID:       e.StudentID,
		CourseID:        e.CourseID,
		Reason:          e.WithdrawReason,
	}
}
