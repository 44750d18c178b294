package inbox

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/innledger/backend/internal/domain/inbox"
)

// ListQuery filters documents by status
type ListQuery struct {
	Status string `form:"status" binding:"omitempty,oneof=new processed archived"`
}

// CreateDocumentRequest records a received document's metadata
type CreateDocumentRequest struct {
	Title        string           `json:"title" binding:"required,max=200"`
	Sender       string           `json:"sender" binding:"max=200"`
	Source       string           `json:"source" binding:"omitempty,oneof=email upload manual"`
	DocumentType string           `json:"documentType" binding:"omitempty,oneof=invoice receipt contract other"`
	Amount       *decimal.Decimal `json:"amount"`
	ReceivedAt   *time.Time       `json:"receivedAt"`
	Notes        string           `json:"notes" binding:"max=2000"`
}

// UpdateDocumentRequest represents a partial update of a document
type UpdateDocumentRequest struct {
	Title        *string          `json:"title" binding:"omitempty,min=1,max=200"`
	Sender       *string          `json:"sender" binding:"omitempty,max=200"`
	Source       *string          `json:"source" binding:"omitempty,oneof=email upload manual"`
	DocumentType *string          `json:"documentType" binding:"omitempty,oneof=invoice receipt contract other"`
	Amount       *decimal.Decimal `json:"amount"`
	ReceivedAt   *time.Time       `json:"receivedAt"`
	Notes        *string          `json:"notes" binding:"omitempty,max=2000"`
}

// LinkRequest attaches a payment item to a document
type LinkRequest struct {
	ItemID uuid.UUID `json:"itemId" binding:"required"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID           uuid.UUID        `json:"id"`
	Title        string           `json:"title"`
	Sender       string           `json:"sender"`
	Source       string           `json:"source"`
	DocumentType string           `json:"documentType"`
	Amount       *decimal.Decimal `json:"amount"`
	ReceivedAt   time.Time        `json:"receivedAt"`
	Status       string           `json:"status"`
	LinkedItemID *uuid.UUID       `json:"linkedItemId"`
	Notes        string           `json:"notes"`
	CreatedAt    time.Time        `json:"createdAt"`
	UpdatedAt    time.Time        `json:"updatedAt"`
}

// ToDocumentResponse converts a domain document
func ToDocumentResponse(d *inbox.Document) DocumentResponse {
	return DocumentResponse{
		ID:           d.ID,
		Title:        d.Title,
		Sender:       d.Sender,
		Source:       string(d.Source),
		DocumentType: string(d.DocumentType),
		Amount:       d.Amount,
		ReceivedAt:   d.ReceivedAt,
		Status:       string(d.Status),
		LinkedItemID: d.LinkedItemID,
		Notes:        d.Notes,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
