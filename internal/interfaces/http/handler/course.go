package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appcatalog "github.com/eduplatform/backend/internal/application/catalog"
)

// CourseHandler handles course catalog endpoints.
type CourseHandler struct {
	BaseHandler
	courseService *appcatalog.CourseService
}

// NewCourseHandler creates a course handler.
func NewCourseHandler(courseService *appcatalog.CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler:   NewBaseHandler(logger),
		courseService: courseService,
	}
}

// Create creates a draft course.
// POST /api/v1/courses
func (h *CourseHandler) Create(c *gin.Context) {
	var req appcatalog.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	course, err := h.courseService.CreateCourse(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, course)
}

// Get returns a single course by ID.
// GET /api/v1/courses/:id
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	course, err := h.courseService.GetCourse(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, course)
}

// List returns courses matching the filter, paginated.
// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	var filter appcatalog.CourseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	courses, total, err := h.courseService.ListCourses(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, courses, total, filter.Page, filter.PageSize)
}

// Update modifies a course's mutable fields.
// PUT /api/v1/courses/:id
func (h *CourseHandler) Update(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req appcatalog.UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	course, err := h.courseService.UpdateCourse(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, course)
}

// Publish opens a draft course for enrollment.
// POST /api/v1/courses/:id/publish
func (h *CourseHandler) Publish(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	course, err := h.courseService.PublishCourse(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, course)
}

// Archive closes a course to new enrollments.
// POST /api/v1/courses/:id/archive
func (h *CourseHandler) Archive(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	course, err := h.courseService.ArchiveCourse(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, course)
}
