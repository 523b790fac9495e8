package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appenrollment "github.com/eduplatform/backend/internal/application/enrollment"
)

// EnrollmentHandler handles enrollment endpoints.
type EnrollmentHandler struct {
	BaseHandler
	enrollmentService *appenrollment.EnrollmentService
}

// NewEnrollmentHandler creates an enrollment handler.
func NewEnrollmentHandler(enrollmentService *appenrollment.EnrollmentService, logger *zap.Logger) *EnrollmentHandler {
	return &EnrollmentHandler{
		BaseHandler:       NewBaseHandler(logger),
		enrollmentService: enrollmentService,
	}
}

// Enroll enrolls a student into a course and issues the billing invoice.
// POST /api/v1/enrollments
func (h *EnrollmentHandler) Enroll(c *gin.Context) {
	var req appenrollment.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.enrollmentService.Enroll(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Get returns a single enrollment by ID.
// GET /api/v1/enrollments/:id
func (h *EnrollmentHandler) Get(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	enr, err := h.enrollmentService.GetEnrollment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, enr)
}

// List returns enrollments matching the filter, paginated.
// GET /api/v1/enrollments
func (h *EnrollmentHandler) List(c *gin.Context) {
	var filter appenrollment.EnrollmentListFilter
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

	enrollments, total, err := h.enrollmentService.ListEnrollments(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, enrollments, total, filter.Page, filter.PageSize)
}

// Complete marks an enrollment as completed.
// POST /api/v1/enrollments/:id/complete
func (h *EnrollmentHandler) Complete(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	enr, err := h.enrollmentService.Complete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, enr)
}

// Withdraw withdraws a student from a course.
// POST /api/v1/enrollments/:id/withdraw
func (h *EnrollmentHandler) Withdraw(c *gin.Context) {
	id, ok := h.parseIDParam(c)
	if !ok {
		return
	}

	var req appenrollment.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	enr, err := h.enrollmentService.Withdraw(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, enr)
}
