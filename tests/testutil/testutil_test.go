package testutil

import (
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/innledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTestUUID(t *testing.T) {
	assert.Equal(t, NewTestUUID("item"), NewTestUUID("item"))
	assert.NotEqual(t, NewTestUUID("item"), NewTestUUID("record"))
}

func TestMonthAndDate(t *testing.T) {
	ym := Month(t, "2024-03")
	assert.Equal(t, "2024-03", ym.String())
	assert.Equal(t, Date(2024, 3, 1), ym.FirstDay())
}

func TestContextAt(t *testing.T) {
	now := time.Date(2024, 6, 15, 13, 0, 0, 0, time.UTC)
	ctx := ContextAt(t, now)
	assert.Equal(t, now, shared.Now(ctx))
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestRequireEventually(t *testing.T) {
	var calls atomic.Int32
	RequireEventually(t, func() bool {
		return calls.Add(1) >= 3
	}, time.Second, time.Millisecond)
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestDoAndEnvelope(t *testing.T) {
	engine := gin.New()
	engine.POST("/echo", func(c *gin.Context) {
		var body map[string]string
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   gin.H{"code": "ERR_INVALID_JSON", "message": err.Error()},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "data": body})
	})

	t.Run("data", func(t *testing.T) {
		w := Do(t, engine, http.MethodPost, "/echo", map[string]string{"name": "rent"})
		require.Equal(t, http.StatusOK, w.Code)
		data := DataAs[map[string]string](t, w)
		assert.Equal(t, "rent", data["name"])
	})

	t.Run("error", func(t *testing.T) {
		w := Do(t, engine, http.MethodPost, "/echo", nil)
		AssertErrorResponse(t, w, http.StatusBadRequest, "ERR_INVALID_JSON")
	})
}
