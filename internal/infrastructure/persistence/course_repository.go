package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/eduplatform/backend/internal/domain/catalog"
	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/eduplatform/backend/internal/infrastructure/persistence/models"
)

// GormCourseRepository implements catalog.CourseRepository using GORM.
type GormCourseRepository struct {
	db *gorm.DB
}

// NewGormCourseRepository creates a new GormCourseRepository.
func NewGormCourseRepository(db *gorm.DB) *GormCourseRepository {
	return &GormCourseRepository{db: db}
}

// FindByID finds a course by ID.
func (r *GormCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Course, error) {
	var model models.CourseModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a course by its unique code.
func (r *GormCourseRepository) FindByCode(ctx context.Context, code string) (*catalog.Course, error) {
	var model models.CourseModel
	if err := r.db.WithContext(ctx).
		First(&model, "code = ?", strings.ToUpper(code)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists courses matching the filter.
func (r *GormCourseRepository) FindAll(ctx context.Context, filter catalog.CourseFilter) ([]catalog.Course, error) {
	var courseModels []models.CourseModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CourseModel{}), filter, true)

	if err := query.Find(&courseModels).Error; err != nil {
		return nil, err
	}

	courses := make([]catalog.Course, len(courseModels))
	for i := range courseModels {
		courses[i] = *courseModels[i].ToDomain()
	}
	return courses, nil
}

// Count counts courses matching the filter.
func (r *GormCourseRepository) Count(ctx context.Context, filter catalog.CourseFilter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CourseModel{}), filter, false)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if a course code is taken.
func (r *GormCourseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CourseModel{}).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a course.
func (r *GormCourseRepository) Save(ctx context.Context, course *catalog.Course) error {
	model := models.CourseModelFromDomain(course)
	return r.db.WithContext(ctx).Save(model).Error
}

func (r *GormCourseRepository) applyFilter(query *gorm.DB, filter catalog.CourseFilter, paginate bool) *gorm.DB {
	if filter.TeacherID != nil {
		query = query.Where("teacher_id = ?", *filter.TeacherID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR code ILIKE ?", pattern, pattern)
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
		orderBy = "created_at"
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "asc") {
		orderDir = "ASC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// Ensure GormCourseRepository implements CourseRepository
var _ catalog.CourseRepository = (*GormCourseRepository)(nil)
