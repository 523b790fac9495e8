package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/eduplatform/backend/internal/domain/catalog"
	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/eduplatform/backend/internal/domain/shared/valueobject"
)

// CourseService provides application-level course catalog operations
type CourseService struct {
	courseRepo catalog.CourseRepository
}

// NewCourseService creates a new CourseService
func NewCourseService(courseRepo catalog.CourseRepository) *CourseService {
	return &CourseService{courseRepo: courseRepo}
}

// CreateCourse creates a draft course
func (s *CourseService) CreateCourse(ctx context.Context, req CreateCourseRequest) (*CourseResponse, error) {
	code := strings.ToUpper(strings.TrimSpace(req.Code))

	exists, err := s.courseRepo.ExistsByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_CODE", "Course code is already taken")
	}

	currency := valueobject.Currency(req.Currency)
	if req.Currency == "" {
		currency = valueobject.IDR
	}
	price, err := valueobject.NewMoney(req.Price, currency)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_PRICE", err.Error())
	}

	course, err := catalog.NewCourse(code, req.Name, req.TeacherID, price, req.Capacity)
	if err != nil {
		return nil, err
	}
	course.Description = req.Description

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}

	return toCourseResponse(course), nil
}

// GetCourse loads a course by ID
func (s *CourseService) GetCourse(ctx context.Context, id uuid.UUID) (*CourseResponse, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ListCourses lists courses with filtering and pagination
func (s *CourseService) ListCourses(ctx context.Context, filter CourseListFilter) ([]CourseResponse, int64, error) {
	domainFilter := catalog.CourseFilter{
		TeacherID: filter.TeacherID,
	}
	domainFilter.Page = filter.Page
	domainFilter.PageSize = filter.PageSize
	domainFilter.Search = filter.Search

	if filter.Status != "" {
		status := catalog.CourseStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Course status is not valid")
		}
		domainFilter.Status = &status
	}

	courses, err := s.courseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.courseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CourseResponse, len(courses))
	for i := range courses {
		responses[i] = *toCourseResponse(&courses[i])
	}

	return responses, total, nil
}

// UpdateCourse updates mutable fields of a course
func (s *CourseService) UpdateCourse(ctx context.Context, id uuid.UUID, req UpdateCourseRequest) (*CourseResponse, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	course.Name = req.Name
	course.Description = req.Description
	course.Capacity = req.Capacity

	if req.Price != nil {
		price, err := valueobject.NewMoney(*req.Price, course.Currency)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_PRICE", err.Error())
		}
		if err := course.ChangePrice(price); err != nil {
			return nil, err
		}
	} else {
		course.IncrementVersion()
	}

	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}

	return toCourseResponse(course), nil
}

// PublishCourse opens a course for enrollment
func (s *CourseService) PublishCourse(ctx context.Context, id uuid.UUID) (*CourseResponse, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := course.Publish(); err != nil {
		return nil, err
	}
	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}

// ArchiveCourse closes a course
func (s *CourseService) ArchiveCourse(ctx context.Context, id uuid.UUID) (*CourseResponse, error) {
	course, err := s.courseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := course.Archive(); err != nil {
		return nil, err
	}
	if err := s.courseRepo.Save(ctx, course); err != nil {
		return nil, err
	}
	return toCourseResponse(course), nil
}
