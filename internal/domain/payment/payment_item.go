package payment

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemStatus represents the settlement status of a payment item
type ItemStatus string

const (
	ItemStatusPending ItemStatus = "pending" // nothing paid yet
	ItemStatusPartial ItemStatus = "partial" // 0 < paid < total
	ItemStatusPaid    ItemStatus = "paid"    // paid == total
	// ItemStatusOverdue is derived from the due date and never stored
	ItemStatusOverdue ItemStatus = "overdue"
)

// IsValid checks if the status can be used as a filter value
func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusPending, ItemStatusPartial, ItemStatusPaid, ItemStatusOverdue:
		return true
	}
	return false
}

// IsStored reports whether the status is one that is persisted
func (s ItemStatus) IsStored() bool {
	return s == ItemStatusPending || s == ItemStatusPartial || s == ItemStatusPaid
}

// String returns the string representation of ItemStatus
func (s ItemStatus) String() string {
	return string(s)
}

// CanAcceptPayment returns true if payments can be applied in this status
func (s ItemStatus) CanAcceptPayment() bool {
	return s == ItemStatusPending || s == ItemStatusPartial
}

// ItemType classifies how an obligation is billed
type ItemType string

const (
	ItemTypeSingle      ItemType = "single"
	ItemTypeInstallment ItemType = "installment"
	ItemTypeRecurring   ItemType = "recurring"
)

// IsValid checks if the item type is valid
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeSingle, ItemTypeInstallment, ItemTypeRecurring:
		return true
	}
	return false
}

// RecurringInterval is the billing cadence of a recurring item
type RecurringInterval string

const (
	IntervalMonthly   RecurringInterval = "monthly"
	IntervalQuarterly RecurringInterval = "quarterly"
	IntervalYearly    RecurringInterval = "yearly"
)

// IsValid checks if the interval is valid
func (i RecurringInterval) IsValid() bool {
	switch i {
	case IntervalMonthly, IntervalQuarterly, IntervalYearly:
		return true
	}
	return false
}

// PaymentItem is a billable obligation tracked to full or partial payment.
// Invariant: 0 <= PaidAmount <= TotalAmount, and Status is a function of both.
type PaymentItem struct {
	shared.BaseAggregateRoot
	ItemName          string
	Description       string
	ProjectID         *uuid.UUID
	CategoryID        *uuid.UUID
	ItemType          ItemType
	TotalAmount       decimal.Decimal
	PaidAmount        decimal.Decimal
	Status            ItemStatus
	DueDate           *time.Time
	InstallmentNo     *int
	InstallmentTotal  *int
	RecurringInterval *RecurringInterval
	Notes             string
	IsDeleted         bool
	DeletedAt         *time.Time
}

// NewItemParams holds the inputs for creating a payment item
type NewItemParams struct {
	ItemName          string
	Description       string
	ProjectID         *uuid.UUID
	CategoryID        *uuid.UUID
	ItemType          ItemType
	TotalAmount       decimal.Decimal
	DueDate           *time.Time
	InstallmentNo     *int
	InstallmentTotal  *int
	RecurringInterval *RecurringInterval
	Notes             string
}

// NewPaymentItem creates a new pending payment item
func NewPaymentItem(p NewItemParams) (*PaymentItem, error) {
	name := strings.TrimSpace(p.ItemName)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot exceed 200 characters")
	}
	if err := shared.ValidateAmount("Total amount", p.TotalAmount); err != nil {
		return nil, err
	}
	if p.ItemType == "" {
		p.ItemType = ItemTypeSingle
	}
	if !p.ItemType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ITEM_TYPE", fmt.Sprintf("Item type %q is not valid", p.ItemType))
	}
	if err := validateSchedule(p.ItemType, p.InstallmentNo, p.InstallmentTotal, p.RecurringInterval); err != nil {
		return nil, err
	}

	return &PaymentItem{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ItemName:          name,
		Description:       p.Description,
		ProjectID:         p.ProjectID,
		CategoryID:        p.CategoryID,
		ItemType:          p.ItemType,
		TotalAmount:       p.TotalAmount,
		PaidAmount:        decimal.Zero,
		Status:            ItemStatusPending,
		DueDate:           p.DueDate,
		InstallmentNo:     p.InstallmentNo,
		InstallmentTotal:  p.InstallmentTotal,
		RecurringInterval: p.RecurringInterval,
		Notes:             p.Notes,
	}, nil
}

func validateSchedule(itemType ItemType, no, total *int, interval *RecurringInterval) error {
	if itemType == ItemTypeInstallment && no != nil && total != nil {
		if *total < 1 || *no < 1 || *no > *total {
			return shared.NewDomainError("INVALID_INSTALLMENT", "Installment number must be between 1 and the installment total")
		}
	}
	if interval != nil && !interval.IsValid() {
		return shared.NewDomainError("INVALID_INTERVAL", fmt.Sprintf("Recurring interval %q is not valid", *interval))
	}
	return nil
}

// RemainingAmount returns TotalAmount - PaidAmount
func (i *PaymentItem) RemainingAmount() decimal.Decimal {
	return i.TotalAmount.Sub(i.PaidAmount)
}

// IsOverdue reports whether the item is unpaid past its due date
func (i *PaymentItem) IsOverdue(today time.Time) bool {
	if i.DueDate == nil || !i.Status.CanAcceptPayment() {
		return false
	}
	due := time.Date(i.DueDate.Year(), i.DueDate.Month(), i.DueDate.Day(), 0, 0, 0, 0, today.Location())
	return due.Before(today)
}

// EffectiveStatus returns the stored status, or overdue when the due date has passed
func (i *PaymentItem) EffectiveStatus(today time.Time) ItemStatus {
	if i.IsOverdue(today) {
		return ItemStatusOverdue
	}
	return i.Status
}

// RecordPayment applies a payment and returns the record to persist.
// The item is left untouched when the payment is rejected.
func (i *PaymentItem) RecordPayment(amount decimal.Decimal, paidAt time.Time, method Method, note string) (*PaymentRecord, error) {
	if i.IsDeleted {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot record a payment on a deleted item")
	}
	if !i.Status.CanAcceptPayment() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot record a payment on an item in %s status", i.Status))
	}
	if err := shared.ValidateAmount("Payment amount", amount); err != nil {
		return nil, err
	}
	remaining := i.RemainingAmount()
	if amount.GreaterThan(remaining) {
		return nil, shared.NewDomainError("EXCEEDS_REMAINING",
			fmt.Sprintf("Payment amount %s exceeds remaining balance %s", amount.StringFixed(2), remaining.StringFixed(2)))
	}

	record, err := NewPaymentRecord(i.ID, amount, paidAt, method, note)
	if err != nil {
		return nil, err
	}

	i.PaidAmount = i.PaidAmount.Add(amount)
	i.recomputeStatus()
	i.IncrementVersion()
	i.Touch()
	return record, nil
}

// ReversePayment removes a previously recorded payment amount
func (i *PaymentItem) ReversePayment(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Reversal amount must be positive")
	}
	if amount.GreaterThan(i.PaidAmount) {
		return shared.NewDomainError("INVALID_STATE", "Reversal amount exceeds paid amount")
	}
	i.PaidAmount = i.PaidAmount.Sub(amount)
	i.recomputeStatus()
	i.IncrementVersion()
	i.Touch()
	return nil
}

// ItemPatch lists the fields a partial update may change. Nil means unchanged.
type ItemPatch struct {
	ItemName          *string
	Description       *string
	ProjectID         **uuid.UUID
	CategoryID        **uuid.UUID
	ItemType          *ItemType
	TotalAmount       *decimal.Decimal
	DueDate           **time.Time
	InstallmentNo     **int
	InstallmentTotal  **int
	RecurringInterval **RecurringInterval
	Notes             *string
}

// ApplyPatch validates and applies a partial update, then recomputes status
func (i *PaymentItem) ApplyPatch(p ItemPatch) error {
	if i.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Cannot edit a deleted item; restore it first")
	}

	next := *i
	if p.ItemName != nil {
		name := strings.TrimSpace(*p.ItemName)
		if name == "" {
			return shared.NewDomainError("INVALID_ITEM_NAME", "Item name cannot be empty")
		}
		next.ItemName = name
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.ProjectID != nil {
		next.ProjectID = *p.ProjectID
	}
	if p.CategoryID != nil {
		next.CategoryID = *p.CategoryID
	}
	if p.ItemType != nil {
		if !p.ItemType.IsValid() {
			return shared.NewDomainError("INVALID_ITEM_TYPE", fmt.Sprintf("Item type %q is not valid", *p.ItemType))
		}
		next.ItemType = *p.ItemType
	}
	if p.TotalAmount != nil {
		if err := shared.ValidateAmount("Total amount", *p.TotalAmount); err != nil {
			return err
		}
		if p.TotalAmount.LessThan(i.PaidAmount) {
			return shared.NewDomainError("EXCEEDS_REMAINING",
				fmt.Sprintf("Total amount %s is below the already paid %s", p.TotalAmount.StringFixed(2), i.PaidAmount.StringFixed(2)))
		}
		next.TotalAmount = *p.TotalAmount
	}
	if p.DueDate != nil {
		next.DueDate = *p.DueDate
	}
	if p.InstallmentNo != nil {
		next.InstallmentNo = *p.InstallmentNo
	}
	if p.InstallmentTotal != nil {
		next.InstallmentTotal = *p.InstallmentTotal
	}
	if p.RecurringInterval != nil {
		next.RecurringInterval = *p.RecurringInterval
	}
	if p.Notes != nil {
		next.Notes = *p.Notes
	}
	if err := validateSchedule(next.ItemType, next.InstallmentNo, next.InstallmentTotal, next.RecurringInterval); err != nil {
		return err
	}

	*i = next
	i.recomputeStatus()
	i.IncrementVersion()
	i.Touch()
	return nil
}

// SoftDelete moves the item to the trash
func (i *PaymentItem) SoftDelete(now time.Time) error {
	if i.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Item is already deleted")
	}
	i.IsDeleted = true
	i.DeletedAt = &now
	i.IncrementVersion()
	i.Touch()
	return nil
}

// Restore brings a soft-deleted item back
func (i *PaymentItem) Restore() error {
	if !i.IsDeleted {
		return shared.NewDomainError("INVALID_STATE", "Item is not deleted")
	}
	i.IsDeleted = false
	i.DeletedAt = nil
	i.IncrementVersion()
	i.Touch()
	return nil
}

func (i *PaymentItem) recomputeStatus() {
	switch {
	case i.PaidAmount.IsZero():
		i.Status = ItemStatusPending
	case i.PaidAmount.LessThan(i.TotalAmount):
		i.Status = ItemStatusPartial
	default:
		i.Status = ItemStatusPaid
	}
}
