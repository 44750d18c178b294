package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/innledger/backend/internal/domain/shared"
)

// UserIDHeader optionally names the acting user. There is no authentication;
// the value is only used for logs and traces.
const UserIDHeader = "X-User-ID"

const maxUserIDLength = 64

// RequestContext stores a shared.RequestContext on the request context so
// services evaluate "today" and overdue state at a single instant.
func RequestContext() gin.HandlerFunc {
	return RequestContextWithClock(time.Now)
}

// RequestContextWithClock is RequestContext with an injectable clock
func RequestContextWithClock(now func() time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(UserIDHeader)
		if len(userID) > maxUserIDLength {
			userID = userID[:maxUserIDLength]
		}
		rc := shared.RequestContext{
			RequestID: GetRequestID(c),
			UserID:    userID,
			Now:       now(),
		}
		c.Request = c.Request.WithContext(shared.WithRequestContext(c.Request.Context(), rc))
		c.Next()
	}
}
