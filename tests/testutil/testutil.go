// Package testutil holds helpers shared by the black-box test suites.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewTestUUID generates a deterministic UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// Date returns midnight UTC of the given day
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Month parses a YYYY-MM string or fails the test
func Month(t *testing.T, s string) shared.YearMonth {
	t.Helper()
	ym, err := shared.ParseYearMonth(s)
	require.NoError(t, err)
	return ym
}

// ContextAt returns a context whose request clock is pinned to now
func ContextAt(t *testing.T, now time.Time) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return shared.WithRequestContext(ctx, shared.RequestContext{RequestID: "test", Now: now})
}

// RequireEventually retries condition until it passes or the timeout elapses
func RequireEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}

	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
