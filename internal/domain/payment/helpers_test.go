package payment

import (
	"errors"
	"testing"

	"github.com/innledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %T", err)
	assert.Equal(t, code, de.Code)
}
