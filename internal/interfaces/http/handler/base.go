package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/innledger/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities. Error responses are never
// written here: Fail attaches the error and middleware.ErrorHandler renders it.
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Paginated sends a success response with a pagination block
func (h *BaseHandler) Paginated(c *gin.Context, data any, total int64, page, limit int) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(data, total, page, limit))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Fail hands err to the error middleware
func (h *BaseHandler) Fail(c *gin.Context, err error) {
	_ = c.Error(err)
}

// bindJSON decodes and validates the request body. Decode failures become
// ERR_INVALID_JSON; validation failures pass through for per-field details.
func bindJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return asRequestError(err, dto.ErrCodeInvalidJSON)
	}
	return nil
}

// bindQuery decodes and validates query parameters
func bindQuery(c *gin.Context, obj any) error {
	if err := c.ShouldBindQuery(obj); err != nil {
		return asRequestError(err, dto.ErrCodeBadRequest)
	}
	return nil
}

func asRequestError(err error, code string) error {
	var verrs validator.ValidationErrors
	var tooLarge *http.MaxBytesError
	if errors.As(err, &verrs) || errors.As(err, &tooLarge) {
		return err
	}
	return &dto.RequestError{Code: code, Err: err}
}

// parseID reads a UUID path parameter
func parseID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, &dto.RequestError{Code: dto.ErrCodeBadRequest, Err: errors.New("invalid " + name + " format")}
	}
	return id, nil
}

// deleteByID parses the :id parameter, runs del and replies 204
func (h *BaseHandler) deleteByID(c *gin.Context, del func(context.Context, uuid.UUID) error) {
	id, err := parseID(c, "id")
	if err != nil {
		h.Fail(c, err)
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		h.Fail(c, err)
		return
	}
	h.NoContent(c)
}
