package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/eduplatform/backend/internal/domain/billing"
	"github.com/eduplatform/backend/internal/domain/enrollment"
)

// EnrollmentModel is the persistence model for the Enrollment aggregate.
type EnrollmentModel struct {
	AggregateModel
	StudentID        uuid.UUID `gorm:"type:uuid;not null;index:idx_enrollments_student_course"`
	CourseID         uuid.UUID `gorm:"type:uuid;not null;index:idx_enrollments_student_course"`
	Status           string    `gorm:"type:varchar(20);not null;index"`
	PlanType         string    `gorm:"type:varchar(20);not null"`
	InstallmentCount int       `gorm:"not null;default:0"`
	EnrolledAt       time.Time `gorm:"not null"`
	CompletedAt      *time.Time
	WithdrawnAt      *time.Time
	WithdrawReason   string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM.
func (EnrollmentModel) TableName() string {
	return "enrollments"
}

// ToDomain converts the persistence model to an Enrollment aggregate.
func (m *EnrollmentModel) ToDomain() *enrollment.Enrollment {
	return &enrollment.Enrollment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		StudentID:         m.StudentID,
		CourseID:          m.CourseID,
		Status:            enrollment.Status(m.Status),
		PlanType:          billing.PlanType(m.PlanType),
		InstallmentCount:  m.InstallmentCount,
		EnrolledAt:        m.EnrolledAt,
		CompletedAt:       m.CompletedAt,
		WithdrawnAt:       m.WithdrawnAt,
		WithdrawReason:    m.WithdrawReason,
	}
}

// FromDomain populates the persistence model from an Enrollment aggregate.
func (m *EnrollmentModel) FromDomain(e *enrollment.Enrollment) {
	m.FromDomainAggregateRoot(e.BaseAggregateRoot)
	m.StudentID = e.StudentID
	m.CourseID = e.CourseID
	m.Status = string(e.Status)
	m.PlanType = string(e.PlanType)
	m.InstallmentCount = e.InstallmentCount
	m.EnrolledAt = e.EnrolledAt
	m.CompletedAt = e.CompletedAt
	m.WithdrawnAt = e.WithdrawnAt
	m.WithdrawReason = e.WithdrawReason
}

// EnrollmentModelFromDomain creates a persistence model from an Enrollment.
func EnrollmentModelFromDomain(e *enrollment.Enrollment) *EnrollmentModel {
	m := &EnrollmentModel{}
	m.FromDomain(e)
	return m
}
