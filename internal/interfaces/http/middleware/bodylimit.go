package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eduplatform/backend/internal/interfaces/http/dto"
)

// DefaultMaxBodySize caps request bodies at 1 MiB.
const DefaultMaxBodySize int64 = 1 << 20

// BodyLimit rejects requests whose declared Content-Length exceeds
// maxBytes and wraps the body in a MaxBytesReader so chunked requests
// are cut off at the same limit.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeTooLarge, "request body too large", GetRequestID(c)))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
