package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/innledger/backend/internal/infrastructure/logger"
	"github.com/innledger/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error a handler attached with c.Error as the
// JSON error envelope. Responses that were already written are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, resp := ErrorResponse(err, GetRequestID(c))
		if status >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("request failed", zap.Error(err))
		}
		c.AbortWithStatusJSON(status, resp)
	}
}

// ErrorResponse maps err to an HTTP status and error envelope
func ErrorResponse(err error, requestID string) (int, dto.Response) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed", requestID, FormatValidationDetails(validationErrs))
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, dto.NewErrorResponse(
			dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size", requestID)
	}

	var reqErr *dto.RequestError
	if errors.As(err, &reqErr) {
		return dto.GetHTTPStatus(reqErr.Code), dto.NewErrorResponse(reqErr.Code, reqErr.Error(), requestID)
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		return dto.GetHTTPStatus(code), dto.NewErrorResponse(code, domainErr.Message, requestID)
	}

	return http.StatusInternalServerError, dto.NewErrorResponse(
		dto.ErrCodeInternal, "An internal error occurred", requestID)
}
