package handler

import "github.com/innledger/backend/internal/interfaces/http/dto"

// ErrorResponse represents an error API response for OpenAPI documentation
// @Description Standard error response
type ErrorResponse struct {
	Success bool           `json:"success" example:"false"`
	Error   *dto.ErrorInfo `json:"error,omitempty"`
}

// HealthData is the body of GET /health
// @Description Service health
type HealthData struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"ok"`
	Version  string `json:"version" example:"1.0.0"`
}
