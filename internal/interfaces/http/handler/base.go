// Package handler contains the HTTP handlers for the API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/eduplatform/backend/internal/domain/shared"
	"github.com/eduplatform/backend/internal/interfaces/http/dto"
	"github.com/eduplatform/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides response helpers shared by all handlers.
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a base handler with the given logger.
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Success writes a 200 response with the standard envelope.
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 response including pagination metadata.
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created writes a 201 response with the standard envelope.
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes a 204 response.
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error writes an error response with the given status and code.
func (h *BaseHandler) Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest writes a 400 for malformed or invalid request payloads.
func (h *BaseHandler) BadRequest(c *gin.Context, err error) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
}

// HandleError translates service-layer errors into HTTP responses.
// Domain error codes pass through to the client unchanged; the HTTP
// status is derived from the code.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, "resource not found")
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.StatusForCode(domainErr.Code)
		if status >= http.StatusInternalServerError && h.logger != nil {
			h.logger.Error("domain error",
				zap.String("code", domainErr.Code),
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Error(err))
		}
		h.Error(c, status, domainErr.Code, domainErr.Message)
		return
	}

	if h.logger != nil {
		h.logger.Error("unhandled error",
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err))
	}
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "internal server error")
}

// currentUserID returns the authenticated user's UUID, or an error
// response has already been written and false is returned.
func (h *BaseHandler) currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "authentication required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "invalid user identity")
		return uuid.Nil, false
	}
	return id, true
}

// parseIDParam binds and parses the :id path parameter as a UUID.
func (h *BaseHandler) parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "invalid id parameter")
		return uuid.Nil, false
	}
	return id, true
}
