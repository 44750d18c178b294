package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/innledger/backend/internal/interfaces/http/dto"
)

// BodyLimit returns a middleware that limits request body size. Bodies that
// declare a larger Content-Length are rejected up front; streamed bodies fail
// while being decoded and surface through ErrorHandler.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
				dto.ErrCodeRequestTooLarge,
				"Request body exceeds maximum allowed size",
				GetRequestID(c),
			))
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
