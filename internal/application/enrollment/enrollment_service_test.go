package enrollment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/eduplatform/backend/internal/domain/billing"
	"github.com/eduplatform/backend/internal/domain/catalog"
	"github.com/eduplatform/backend/internal/domain/enrollment"
	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/eduplatform/backend/internal/domain/shared/valueobject"
)

func assertDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	var de *shared.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, code, de.Code)
}

// MockEnrollmentRepository is a mock implementation of enrollment.Repository
type MockEnrollmentRepository struct {
	mock.Mock
}

func (m *MockEnrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.Enrollment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*enrollment.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) FindAll(ctx context.Context, filter enrollment.Filter) ([]enrollment.Enrollment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]enrollment.Enrollment), args.Error(1)
}

func (m *MockEnrollmentRepository) Count(ctx context.Context, filter enrollment.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEnrollmentRepository) ExistsActive(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	args := m.Called(ctx, studentID, courseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEnrollmentRepository) Save(ctx context.Context, e *enrollment.Enrollment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEnrollmentRepository) CreateWithInvoice(ctx context.Context, e *enrollment.Enrollment, inv *billing.Invoice) error {
	args := m.Called(ctx, e, inv)
	return args.Error(0)
}

// MockCourseRepository is a mock implementation of catalog.CourseRepository
type MockCourseRepository struct {
	mock.Mock
}

func (m *MockCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Course, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindByCode(ctx context.Context, code string) (*catalog.Course, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) FindAll(ctx context.Context, filter catalog.CourseFilter) ([]catalog.Course, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Course), args.Error(1)
}

func (m *MockCourseRepository) Count(ctx context.Context, filter catalog.CourseFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCourseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockCourseRepository) Save(ctx context.Context, course *catalog.Course) error {
	args := m.Called(ctx, course)
	return args.Error(0)
}

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByInvoiceNumber(ctx context.Context, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByEnrollment(ctx context.Context, enrollmentID uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, enrollmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAll(ctx context.Context, filter billing.InvoiceFilter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Count(ctx context.Context, filter billing.InvoiceFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) RecordEntry(ctx context.Context, invoiceID uuid.UUID, mutate func(*billing.Invoice) error) (*billing.Invoice, error) {
	args := m.Called(ctx, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	inv := args.Get(0).(*billing.Invoice)
	if err := mutate(inv); err != nil {
		return nil, err
	}
	return inv, args.Error(1)
}

func (m *MockInvoiceRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) Restore(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) GenerateInvoiceNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func publishedCourse(t *testing.T, price int64) *catalog.Course {
	t.Helper()
	course, err := catalog.NewCourse("GO-101", "Intro to Go", uuid.New(), valueobject.NewMoneyIDRFromInt(price), 30)
	require.NoError(t, err)
	require.NoError(t, course.Publish())
	return course
}

func TestEnrollmentService_Enroll(t *testing.T) {
	ctx := context.Background()
	firstDue := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	t.Run("creates enrollment with invoice in one shot", func(t *testing.T) {
		enrRepo := new(MockEnrollmentRepository)
		courseRepo := new(MockCourseRepository)
		invRepo := new(MockInvoiceRepository)
		svc := NewEnrollmentService(enrRepo, courseRepo, invRepo)

		course := publishedCourse(t, 100000)
		studentID := uuid.New()

		courseRepo.On("FindByID", ctx, course.ID).Return(course, nil)
		enrRepo.On("ExistsActive", ctx, studentID, course.ID).Return(false, nil)
		invRepo.On("GenerateInvoiceNumber", ctx).Return("INV-2026-000001", nil)

		var capturedInvoice *billing.Invoice
		enrRepo.On("CreateWithInvoice", ctx, mock.AnythingOfType("*enrollment.Enrollment"), mock.AnythingOfType("*billing.Invoice")).
			Run(func(args mock.Arguments) {
				capturedInvoice = args.Get(2).(*billing.Invoice)
			}).Return(nil)

		resp, err := svc.Enroll(ctx, EnrollRequest{
			StudentID:        studentID,
			CourseID:         course.ID,
			PlanType:         "INSTALLMENTS",
			InstallmentCount: 3,
			FirstDueDate:     firstDue,
		})
		require.NoError(t, err)

		assert.Equal(t, studentID, resp.Enrollment.StudentID)
		assert.Equal(t, "ACTIVE", resp.Enrollment.Status)
		assert.Equal(t, "INV-2026-000001", resp.InvoiceNo)

		require.NotNil(t, capturedInvoice)
		assert.Equal(t, resp.Enrollment.ID, capturedInvoice.EnrollmentID)
		require.Len(t, capturedInvoice.Installments, 3)
		assert.Equal(t, "33334", capturedInvoice.Installments[0].DueAmount.String())
		assert.Equal(t, "33333", capturedInvoice.Installments[1].DueAmount.String())
		assert.Equal(t, "33333", capturedInvoice.Installments[2].DueAmount.String())
		enrRepo.AssertExpectations(t)
	})

	t.Run("rejects course that is not enrollable", func(t *testing.T) {
		enrRepo := new(MockEnrollmentRepository)
		courseRepo := new(MockCourseRepository)
		invRepo := new(MockInvoiceRepository)
		svc := NewEnrollmentService(enrRepo, courseRepo, invRepo)

		course, err := catalog.NewCourse("GO-102", "Draft course", uuid.New(), valueobject.NewMoneyIDRFromInt(50000), 10)
		require.NoError(t, err)
		courseRepo.On("FindByID", ctx, course.ID).Return(course, nil)

		_, err = svc.Enroll(ctx, EnrollRequest{
			StudentID:    uuid.New(),
			CourseID:     course.ID,
			PlanType:     "FULL",
			FirstDueDate: firstDue,
		})
		assertDomainCode(t, err, "COURSE_NOT_ENROLLABLE")
		enrRepo.AssertNotCalled(t, "CreateWithInvoice", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects duplicate active enrollment", func(t *testing.T) {
		enrRepo := new(MockEnrollmentRepository)
		courseRepo := new(MockCourseRepository)
		invRepo := new(MockInvoiceRepository)
		svc := NewEnrollmentService(enrRepo, courseRepo, invRepo)

		course := publishedCourse(t, 50000)
		studentID := uuid.New()
		courseRepo.On("FindByID", ctx, course.ID).Return(course, nil)
		enrRepo.On("ExistsActive", ctx, studentID, course.ID).Return(true, nil)

		_, err := svc.Enroll(ctx, EnrollRequest{
			StudentID:    studentID,
			CourseID:     course.ID,
			PlanType:     "FULL",
			FirstDueDate: firstDue,
		})
		assertDomainCode(t, err, "ALREADY_ENROLLED")
	})

	t.Run("missing course surfaces not found", func(t *testing.T) {
		enrRepo := new(MockEnrollmentRepository)
		courseRepo := new(MockCourseRepository)
		invRepo := new(MockInvoiceRepository)
		svc := NewEnrollmentService(enrRepo, courseRepo, invRepo)

		missing := uuid.New()
		courseRepo.On("FindByID", ctx, missing).Return(nil, shared.ErrNotFound)

		_, err := svc.Enroll(ctx, EnrollRequest{
			StudentID:    uuid.New(),
			CourseID:     missing,
			PlanType:     "FULL",
			FirstDueDate: firstDue,
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestEnrollmentService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	newActiveEnrollment := func(t *testing.T) *enrollment.Enrollment {
		t.Helper()
		plan := billing.FullPaymentPlan(time.Now().AddDate(0, 1, 0))
		e, err := enrollment.NewEnrollment(uuid.New(), uuid.New(), plan)
		require.NoError(t, err)
		return e
	}

	t.Run("complete", func(t *testing.T) {
		enrRepo := new(MockEnrollmentRepository)
		svc := NewEnrollmentService(enrRepo, new(MockCourseRepository), new(MockInvoiceRepository))

		e := newActiveEnrollment(t)
		enrRepo.On("FindByID", ctx, e.ID).Return(e, nil)
		enrRepo.On("Save", ctx, e).Return(nil)

		resp, err := svc.Complete(ctx, e.ID)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", resp.Status)
		assert.NotNil(t, resp.CompletedAt)
	})

	t.Run("withdraw requires a reason via domain rules", func(t *testing.T) {
		enrRepo := new(MockEnrollmentRepository)
		svc := NewEnrollmentService(enrRepo, new(MockCourseRepository), new(MockInvoiceRepository))

		e := newActiveEnrollment(t)
		enrRepo.On("FindByID", ctx, e.ID).Return(e, nil)
		enrRepo.On("Save", ctx, e).Return(nil)

		_, err := svc.Withdraw(ctx, e.ID, WithdrawRequest{Reason: ""})
		require.Error(t, err)

		resp, err := svc.Withdraw(ctx, e.ID, WithdrawRequest{Reason: "moved city"})
		require.NoError(t, err)
		assert.Equal(t, "WITHDRAWN", resp.Status)
		assert.Equal(t, "moved city", resp.WithdrawReason)
	})
}

func TestEnrollmentService_ListEnrollments(t *testing.T) {
	ctx := context.Background()
	enrRepo := new(MockEnrollmentRepository)
	svc := NewEnrollmentService(enrRepo, new(MockCourseRepository), new(MockInvoiceRepository))

	plan := billing.FullPaymentPlan(time.Now().AddDate(0, 1, 0))
	e, err := enrollment.NewEnrollment(uuid.New(), uuid.New(), plan)
	require.NoError(t, err)

	enrRepo.On("FindAll", ctx, mock.AnythingOfType("enrollment.Filter")).Return([]enrollment.Enrollment{*e}, nil)
	enrRepo.On("Count", ctx, mock.AnythingOfType("enrollment.Filter")).Return(int64(1), nil)

	responses, total, err := svc.ListEnrollments(ctx, EnrollmentListFilter{Status: "ACTIVE", Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, responses, 1)

	_, _, err = svc.ListEnrollments(ctx, EnrollmentListFilter{Status: "PAUSED"})
	assertDomainCode(t, err, "INVALID_STATUS")
}
