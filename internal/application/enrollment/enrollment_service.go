package enrollment

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eduplatform/backend/internal/domain/billing"
	"github.com/eduplatform/backend/internal/domain/catalog"
	"github.com/eduplatform/backend/internal/domain/enrollment"
	"github.com/eduplatform/backend/internal/domain/shared"
)

// EnrollmentService provides application-level enrollment operations
type EnrollmentService struct {
	enrollmentRepo enrollment.Repository
	courseRepo     catalog.CourseRepository
	invoiceRepo    billing.InvoiceRepository
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	enrollmentRepo enrollment.Repository,
	courseRepo catalog.CourseRepository,
	invoiceRepo billing.InvoiceRepository,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		invoiceRepo:    invoiceRepo,
	}
}

// Enroll enrolls a student into a published course. It creates the
// enrollment, its invoice priced from the course, and the installment
// schedule in a single transaction: either all of it exists afterwards
// or none of it does.
func (s *EnrollmentService) Enroll(ctx context.Context, req EnrollRequest) (*EnrollResponse, error) {
	course, err := s.courseRepo.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	if !course.IsEnrollable() {
		return nil, shared.NewDomainError("COURSE_NOT_ENROLLABLE", "Course is not open for enrollment")
	}

	exists, err := s.enrollmentRepo.ExistsActive(ctx, req.StudentID, req.CourseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_ENROLLED", "Student already has an active enrollment in this course")
	}

	plan, err := planFromRequest(req.PlanType, req.InstallmentCount, req.FirstDueDate)
	if err != nil {
		return nil, err
	}

	enr, err := enrollment.NewEnrollment(req.StudentID, req.CourseID, plan)
	if err != nil {
		return nil, err
	}

	number, err := s.invoiceRepo.GenerateInvoiceNumber(ctx)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(enr.ID, number, course.PriceMoney(), plan)
	if err != nil {
		return nil, err
	}

	if err := s.enrollmentRepo.CreateWithInvoice(ctx, enr, invoice); err != nil {
		return nil, err
	}

	return &EnrollResponse{
		Enrollment: *toEnrollmentResponse(enr),
		InvoiceID:  invoice.ID,
		InvoiceNo:  invoice.InvoiceNumber,
	}, nil
}

// GetEnrollment loads an enrollment by ID
func (s *EnrollmentService) GetEnrollment(ctx context.Context, id uuid.UUID) (*EnrollmentResponse, error) {
	enr, err := s.enrollmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEnrollmentResponse(enr), nil
}

// ListEnrollments lists enrollments with filtering and pagination
func (s *EnrollmentService) ListEnrollments(ctx context.Context, filter EnrollmentListFilter) ([]EnrollmentResponse, int64, error) {
	domainFilter := enrollment.Filter{
		StudentID: filter.StudentID,
		CourseID:  filter.CourseID,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize

	if filter.Status != "" {
		status := enrollment.Status(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Enrollment status is not valid")
		}
		domainFilter.Status = &status
	}

	enrollments, err := s.enrollmentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.enrollmentRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]EnrollmentResponse, len(enrollments))
	for i := range enrollments {
		responses[i] = *toEnrollmentResponse(&enrollments[i])
	}

	return responses, total, nil
}

// Complete marks an enrollment as finished
func (s *EnrollmentService) Complete(ctx context.Context, id uuid.UUID) (*EnrollmentResponse, error) {
	enr, err := s.enrollmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := enr.Complete(); err != nil {
		return nil, err
	}
	if err := s.enrollmentRepo.Save(ctx, enr); err != nil {
		return nil, err
	}
	return toEnrollmentResponse(enr), nil
}

// Withdraw withdraws a student from a course
func (s *EnrollmentService) Withdraw(ctx context.Context, id uuid.UUID, req WithdrawRequest) (*EnrollmentResponse, error) {
	enr, err := s.enrollmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := enr.Withdraw(req.Reason); err != nil {
		return nil, err
	}
	if err := s.enrollmentRepo.Save(ctx, enr); err != nil {
		return nil, err
	}
	return toEnrollmentResponse(enr), nil
}

func planFromRequest(planType string, installmentCount int, firstDueDate time.Time) (billing.PaymentPlan, error) {
	switch billing.PlanType(planType) {
	case billing.PlanTypeFull:
		return billing.FullPaymentPlan(firstDueDate), nil
	case billing.PlanTypeInstallments:
		return billing.InstallmentPlan(installmentCount, firstDueDate), nil
	default:
		return billing.PaymentPlan{}, shared.NewDomainError("INVALID_PLAN", "Plan type is not valid")
	}
}
