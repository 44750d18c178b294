package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Method is how a payment was made
type Method string

const (
	MethodCash     Method = "cash"
	MethodTransfer Method = "transfer"
	MethodCard     Method = "card"
	MethodOther    Method = "other"
)

// IsValid checks if the payment method is valid
func (m Method) IsValid() bool {
	switch m {
	case MethodCash, MethodTransfer, MethodCard, MethodOther:
		return true
	}
	return false
}

// PaymentRecord is a single payment applied to a PaymentItem
type PaymentRecord struct {
	shared.BaseEntity
	ItemID uuid.UUID
	Amount decimal.Decimal
	PaidAt time.Time
	Method Method
	Note   string
}

// NewPaymentRecord creates a payment record. An empty method defaults to transfer.
func NewPaymentRecord(itemID uuid.UUID, amount decimal.Decimal, paidAt time.Time, method Method, note string) (*PaymentRecord, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if err := shared.ValidateAmount("Payment amount", amount); err != nil {
		return nil, err
	}
	if method == "" {
		method = MethodTransfer
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_METHOD", "Payment method must be one of cash, transfer, card, other")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}

	return &PaymentRecord{
		BaseEntity: shared.NewBaseEntity(),
		ItemID:     itemID,
		Amount:     amount,
		PaidAt:     time.Date(paidAt.Year(), paidAt.Month(), paidAt.Day(), 0, 0, 0, 0, time.UTC),
		Method:     method,
		Note:       note,
	}, nil
}
