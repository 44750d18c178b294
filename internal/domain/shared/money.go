package shared

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// CodeInvalidAmount is returned for amounts that cannot be stored as money
const CodeInvalidAmount = "INVALID_AMOUNT"

// AmountScale is the number of decimal places every money column keeps
const AmountScale = 2

// ValidateAmount requires a positive amount with at most AmountScale decimals
func ValidateAmount(field string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return NewDomainError(CodeInvalidAmount, field+" must be positive")
	}
	return ValidateScale(field, amount)
}

// ValidateNonNegativeAmount is ValidateAmount that also accepts zero
func ValidateNonNegativeAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return NewDomainError(CodeInvalidAmount, field+" cannot be negative")
	}
	return ValidateScale(field, amount)
}

// ValidateScale rejects amounts with more than AmountScale decimals. The
// database would round them, leaving stored totals out of step with the
// amounts that were checked.
func ValidateScale(field string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(AmountScale)) {
		return NewDomainError(CodeInvalidAmount,
			fmt.Sprintf("%s cannot have more than %d decimal places", field, AmountScale))
	}
	return nil
}
