package shared

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		amount      string
		positive    bool
		nonNegative bool
	}{
		{"100", true, true},
		{"0.01", true, true},
		{"1234.50", true, true},
		{"0", false, true},
		{"-1", false, false},
		{"9999.995", false, false},
		{"0.004", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)

			err := ValidateAmount("Amount", amount)
			if tt.positive {
				assert.NoError(t, err)
			} else {
				var domainErr *DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, CodeInvalidAmount, domainErr.Code)
			}

			err = ValidateNonNegativeAmount("Amount", amount)
			assert.Equal(t, tt.nonNegative, err == nil)
		})
	}
}
