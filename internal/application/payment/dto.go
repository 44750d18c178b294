package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/innledger/backend/internal/domain/payment"
	"github.com/innledger/backend/internal/domain/shared"
)

// =============================================================================
// Payment item DTOs
// =============================================================================

// ListItemsQuery represents query options for the payment item list
type ListItemsQuery struct {
	Page       int    `form:"page" binding:"omitempty,min=1"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=100"`
	ProjectID  string `form:"projectId" binding:"omitempty,uuid"`
	CategoryID string `form:"categoryId" binding:"omitempty,uuid"`
	Status     string `form:"status" binding:"omitempty,oneof=pending partial paid overdue"`
	ItemType   string `form:"itemType" binding:"omitempty,oneof=single installment recurring"`
	Search     string `form:"search" binding:"max=200"`
	Deleted    bool   `form:"deleted"`
	IncludeAll bool   `form:"includeAll"`
	OrderBy    string `form:"orderBy"`
	OrderDir   string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
}

// CreateItemRequest represents a request to create a payment item
type CreateItemRequest struct {
	ItemName          string          `json:"itemName" binding:"required,max=200"`
	Description       string          `json:"description" binding:"max=2000"`
	ProjectID         *uuid.UUID      `json:"projectId"`
	CategoryID        *uuid.UUID      `json:"categoryId"`
	ItemType          string          `json:"itemType" binding:"omitempty,oneof=single installment recurring"`
	TotalAmount       decimal.Decimal `json:"totalAmount" binding:"required,gt=0"`
	DueDate           string          `json:"dueDate" binding:"omitempty,isodate"`
	InstallmentNo     *int            `json:"installmentNo" binding:"omitempty,min=1"`
	InstallmentTotal  *int            `json:"installmentTotal" binding:"omitempty,min=1"`
	RecurringInterval string          `json:"recurringInterval" binding:"omitempty,oneof=monthly quarterly yearly"`
	Notes             string          `json:"notes" binding:"max=2000"`
}

// UpdateItemRequest represents a partial update. Fields that may be cleared
// use Nullable so an explicit null differs from an absent field.
type UpdateItemRequest struct {
	ItemName          *string             `json:"itemName" binding:"omitempty,min=1,max=200"`
	Description       *string             `json:"description" binding:"omitempty,max=2000"`
	ProjectID         Nullable[uuid.UUID] `json:"projectId"`
	CategoryID        Nullable[uuid.UUID] `json:"categoryId"`
	ItemType          *string             `json:"itemType" binding:"omitempty,oneof=single installment recurring"`
	TotalAmount       *decimal.Decimal    `json:"totalAmount"`
	DueDate           Nullable[string]    `json:"dueDate"`
	InstallmentNo     Nullable[int]       `json:"installmentNo"`
	InstallmentTotal  Nullable[int]       `json:"installmentTotal"`
	RecurringInterval Nullable[string]    `json:"recurringInterval"`
	Notes             *string             `json:"notes" binding:"omitempty,max=2000"`
}

// ItemResponse represents a payment item in API responses
type ItemResponse struct {
	ID                uuid.UUID       `json:"id"`
	ItemName          string          `json:"itemName"`
	Description       string          `json:"description"`
	ProjectID         *uuid.UUID      `json:"projectId"`
	CategoryID        *uuid.UUID      `json:"categoryId"`
	ItemType          string          `json:"itemType"`
	TotalAmount       decimal.Decimal `json:"totalAmount"`
	PaidAmount        decimal.Decimal `json:"paidAmount"`
	RemainingAmount   decimal.Decimal `json:"remainingAmount"`
	Status            string          `json:"status"`
	EffectiveStatus   string          `json:"effectiveStatus"`
	DueDate           *string         `json:"dueDate"`
	InstallmentNo     *int            `json:"installmentNo"`
	InstallmentTotal  *int            `json:"installmentTotal"`
	RecurringInterval *string         `json:"recurringInterval"`
	Notes             string          `json:"notes"`
	IsDeleted         bool            `json:"isDeleted"`
	DeletedAt         *time.Time      `json:"deletedAt"`
	Version           int             `json:"version"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// ItemList is one page of items. Page and Limit are zero when pagination was disabled.
type ItemList struct {
	Items []ItemResponse `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page,omitempty"`
	Limit int            `json:"limit,omitempty"`
}

// SummaryResponse aggregates the non-deleted items
type SummaryResponse struct {
	ItemCount       int64            `json:"itemCount"`
	TotalAmount     decimal.Decimal  `json:"totalAmount"`
	PaidAmount      decimal.Decimal  `json:"paidAmount"`
	RemainingAmount decimal.Decimal  `json:"remainingAmount"`
	OverdueCount    int64            `json:"overdueCount"`
	OverdueAmount   decimal.Decimal  `json:"overdueAmount"`
	ByStatus        map[string]int64 `json:"byStatus"`
}

// ToItemResponse converts a domain payment item, evaluating overdue at today
func ToItemResponse(i *payment.PaymentItem, today time.Time) ItemResponse {
	resp := ItemResponse{
		ID:               i.ID,
		ItemName:         i.ItemName,
		Description:      i.Description,
		ProjectID:        i.ProjectID,
		CategoryID:       i.CategoryID,
		ItemType:         string(i.ItemType),
		TotalAmount:      i.TotalAmount,
		PaidAmount:       i.PaidAmount,
		RemainingAmount:  i.RemainingAmount(),
		Status:           string(i.Status),
		EffectiveStatus:  string(i.EffectiveStatus(today)),
		InstallmentNo:    i.InstallmentNo,
		InstallmentTotal: i.InstallmentTotal,
		Notes:            i.Notes,
		IsDeleted:        i.IsDeleted,
		DeletedAt:        i.DeletedAt,
		Version:          i.Version,
		CreatedAt:        i.CreatedAt,
		UpdatedAt:        i.UpdatedAt,
	}
	if i.DueDate != nil {
		s := i.DueDate.Format(shared.DateLayout)
		resp.DueDate = &s
	}
	if i.RecurringInterval != nil {
		s := string(*i.RecurringInterval)
		resp.RecurringInterval = &s
	}
	return resp
}

// =============================================================================
// Payment record DTOs
// =============================================================================

// RecordPaymentRequest represents a payment against an item
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0"`
	PaidAt string          `json:"paidAt" binding:"omitempty,isodate"`
	Method string          `json:"method" binding:"omitempty,oneof=cash transfer card other"`
	Note   string          `json:"note" binding:"max=500"`
}

// RecordResponse represents a payment record in API responses
type RecordResponse struct {
	ID        uuid.UUID       `json:"id"`
	ItemID    uuid.UUID       `json:"itemId"`
	Amount    decimal.Decimal `json:"amount"`
	PaidAt    string          `json:"paidAt"`
	Method    string          `json:"method"`
	Note      string          `json:"note"`
	CreatedAt time.Time       `json:"createdAt"`
}

// RecordPaymentResponse returns the new record together with the updated item
type RecordPaymentResponse struct {
	Record RecordResponse `json:"record"`
	Item   ItemResponse   `json:"item"`
}

// ToRecordResponse converts a domain payment record
func ToRecordResponse(r *payment.PaymentRecord) RecordResponse {
	return RecordResponse{
		ID:        r.ID,
		ItemID:    r.ItemID,
		Amount:    r.Amount,
		PaidAt:    r.PaidAt.Format(shared.DateLayout),
		Method:    string(r.Method),
		Note:      r.Note,
		CreatedAt: r.CreatedAt,
	}
}

// =============================================================================
// Category and project DTOs
// =============================================================================

// CategoryRequest creates or replaces a category
type CategoryRequest struct {
	Name      string `json:"name" binding:"required,max=100"`
	Kind      string `json:"kind" binding:"omitempty,oneof=expense income"`
	Color     string `json:"color" binding:"max=20"`
	SortOrder int    `json:"sortOrder"`
}

// CategoryPatch partially updates a category
type CategoryPatch struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=100"`
	Kind      *string `json:"kind" binding:"omitempty,oneof=expense income"`
	Color     *string `json:"color" binding:"omitempty,max=20"`
	SortOrder *int    `json:"sortOrder"`
}

// CategoryResponse represents a category in API responses
type CategoryResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sortOrder"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProjectRequest creates a project
type ProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// ProjectPatch partially updates a project
type ProjectPatch struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsActive    *bool   `json:"isActive"`
}

// ProjectResponse represents a project in API responses
type ProjectResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToCategoryResponse converts a domain category
func ToCategoryResponse(c *payment.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Kind:      string(c.Kind),
		Color:     c.Color,
		SortOrder: c.SortOrder,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ToProjectResponse converts a domain project
func ToProjectResponse(p *payment.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
