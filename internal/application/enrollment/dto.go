package enrollment

import (
	"time"

	"github.com/google/uuid"

	"github.com/eduplatform/backend/internal/domain/enrollment"
)

// EnrollRequest enrolls a student into a course under a payment plan
type EnrollRequest struct {
	StudentID        uuid.UUID `json:"student_id" binding:"required"`
	CourseID         uuid.UUID `json:"course_id" binding:"required"`
	PlanType         string    `json:"plan_type" binding:"required,oneof=FULL INSTALLMENTS"`
	InstallmentCount int       `json:"installment_count"`
	FirstDueDate     time.Time `json:"first_due_date" binding:"required"`
}

// WithdrawRequest withdraws a student from a course
type WithdrawRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// EnrollmentListFilter defines filtering options for enrollment list queries
type EnrollmentListFilter struct {
	StudentID *uuid.UUID `form:"student_id"`
	CourseID  *uuid.UUID `form:"course_id"`
	Status    string     `form:"status"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size"`
}

// EnrollmentResponse represents an enrollment in API responses
type EnrollmentResponse struct {
	ID               uuid.UUID  `json:"id"`
	StudentID        uuid.UUID  `json:"student_id"`
	CourseID         uuid.UUID  `json:"course_id"`
	Status           string     `json:"status"`
	PlanType         string     `json:"plan_type"`
	InstallmentCount int        `json:"installment_count"`
	EnrolledAt       time.Time  `json:"enrolled_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	WithdrawnAt      *time.Time `json:"withdrawn_at,omitempty"`
	WithdrawReason   string     `json:"withdraw_reason,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
	Version          int        `json:"version"`
}

// EnrollResponse is returned by Enroll: the created enrollment together
// with the invoice that bills it
type EnrollResponse struct {
	Enrollment EnrollmentResponse `json:"enrollment"`
	InvoiceID  uuid.UUID          `json:"invoice_id"`
	InvoiceNo  string             `json:"invoice_number"`
}

func toEnrollmentResponse(e *enrollment.Enrollment) *EnrollmentResponse {
	return &EnrollmentResponse{
		ID:               e.ID,
		StudentID:        e.StudentID,
		CourseID:         e.CourseID,
		Status:           string(e.Status),
		PlanType:         string(e.PlanType),
		InstallmentCount: e.InstallmentCount,
		EnrolledAt:       e.EnrolledAt,
		CompletedAt:      e.CompletedAt,
		WithdrawnAt:      e.WithdrawnAt,
		WithdrawReason:   e.WithdrawReason,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
		Version:          e.Version,
	}
}
