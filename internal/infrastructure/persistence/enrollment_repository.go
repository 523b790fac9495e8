package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/eduplatform/backend/internal/domain/billing"
	"github.com/eduplatform/backend/internal/domain/enrollment"
	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/eduplatform/backend/internal/infrastructure/persistence/models"
)

// GormEnrollmentRepository implements enrollment.Repository using GORM.
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewGormEnrollmentRepository creates a new GormEnrollmentRepository.
func NewGormEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// FindByID finds an enrollment by ID.
func (r *GormEnrollmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*enrollment.Enrollment, error) {
	var model models.EnrollmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists enrollments matching the filter.
func (r *GormEnrollmentRepository) FindAll(ctx context.Context, filter enrollment.Filter) ([]enrollment.Enrollment, error) {
	var enrollmentModels []models.EnrollmentModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.EnrollmentModel{}), filter, true)

	if err := query.Find(&enrollmentModels).Error; err != nil {
		return nil, err
	}

	enrollments := make([]enrollment.Enrollment, len(enrollmentModels))
	for i := range enrollmentModels {
		enrollments[i] = *enrollmentModels[i].ToDomain()
	}
	return enrollments, nil
}

// Count counts enrollments matching the filter.
func (r *GormEnrollmentRepository) Count(ctx context.Context, filter enrollment.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.EnrollmentModel{}), filter, false)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsActive reports whether the student already has a non-terminal
// enrollment in the course.
func (r *GormEnrollmentRepository) ExistsActive(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.EnrollmentModel{}).
		Where("student_id = ? AND course_id = ? AND status = ?",
			studentID, courseID, string(enrollment.StatusActive)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an enrollment.
func (r *GormEnrollmentRepository) Save(ctx context.Context, e *enrollment.Enrollment) error {
	model := models.EnrollmentModelFromDomain(e)
	return r.db.WithContext(ctx).Save(model).Error
}

// CreateWithInvoice persists the enrollment, its invoice and the invoice's
// installments in one transaction. On any failure nothing is persisted.
func (r *GormEnrollmentRepository) CreateWithInvoice(ctx context.Context, e *enrollment.Enrollment, inv *billing.Invoice) error {
	enrollmentModel := models.EnrollmentModelFromDomain(e)
	invoiceModel := models.InvoiceModelFromDomain(inv)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(enrollmentModel).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(invoiceModel).Error; err != nil {
			return err
		}
		if len(invoiceModel.Installments) > 0 {
			if err := tx.Create(&invoiceModel.Installments).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormEnrollmentRepository) applyFilter(query *gorm.DB, filter enrollment.Filter, paginate bool) *gorm.DB {
	if filter.StudentID != nil {
		query = query.Where("student_id = ?", *filter.StudentID)
	}
	if filter.CourseID != nil {
		query = query.Where("course_id = ?", *filter.CourseID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	if !paginate {
		return query
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "enrolled_at"
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormEnrollmentRepository implements Repository
var _ enrollment.Repository = (*GormEnrollmentRepository)(nil)
