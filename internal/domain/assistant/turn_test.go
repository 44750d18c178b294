package assistant

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTurn_PlainCompletion(t *testing.T) {
	turn := NewTurn(5)
	require.NoError(t, turn.OnContent("Hello"))
	require.NoError(t, turn.OnContent(", world"))
	assert.Equal(t, StateAwaitingDelta, turn.State())

	require.NoError(t, turn.EndCompletion())
	assert.Equal(t, StateDone, turn.State())
	assert.Equal(t, "Hello, world", turn.Content())
	assert.Equal(t, 0, turn.Rounds())

	assert.ErrorIs(t, turn.OnContent("late"), ErrInvalidTransition)
}

func TestTurn_ToolRound(t *testing.T) {
	turn := NewTurn(5)
	require.NoError(t, turn.OnToolCallDelta(1, "call_b", "get_payment_summary", "{}"))
	require.NoError(t, turn.OnToolCallDelta(0, "call_a", "compare_revenue", `{"startMonth":`))
	require.NoError(t, turn.OnToolCallDelta(0, "", "", `"2024-01","endMonth":"2024-03"}`))
	assert.Equal(t, StateAccumulatingToolCall, turn.State())

	require.NoError(t, turn.EndCompletion())
	assert.Equal(t, StateExecutingTool, turn.State())
	assert.Equal(t, 1, turn.Rounds())

	calls := turn.PendingCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "call_a", calls[0].ID)
	assert.Equal(t, `{"startMonth":"2024-01","endMonth":"2024-03"}`, calls[0].Arguments)
	assert.Equal(t, "get_payment_summary", calls[1].Name)

	assert.ErrorIs(t, turn.OnContent("x"), ErrInvalidTransition)

	require.NoError(t, turn.OnToolResults())
	assert.Equal(t, StateAwaitingDelta, turn.State())
	assert.Empty(t, turn.PendingCalls())

	require.NoError(t, turn.OnContent("Revenue matches."))
	require.NoError(t, turn.EndCompletion())
	assert.Equal(t, StateDone, turn.State())
}

func TestTurn_RoundLimit(t *testing.T) {
	turn := NewTurn(MaxToolRounds)
	executed := 0
	for {
		require.NoError(t, turn.OnToolCallDelta(0, "call", "list_notifications", "{}"))
		if err := turn.EndCompletion(); err != nil {
			assert.True(t, errors.Is(err, ErrToolLimit))
			break
		}
		executed++
		require.NoError(t, turn.OnToolResults())
	}
	assert.Equal(t, 5, executed)
	assert.Equal(t, StateError, turn.State())
	assert.ErrorIs(t, turn.Err(), ErrToolLimit)
	assert.Equal(t, "tool call limit reached", turn.Err().Error())
}

func TestTurn_MaxRoundsClamped(t *testing.T) {
	assert.Equal(t, MaxToolRounds, NewTurn(50).maxRounds)
	assert.Equal(t, MaxToolRounds, NewTurn(0).maxRounds)
	assert.Equal(t, 2, NewTurn(2).maxRounds)
}

func TestTurn_Fail(t *testing.T) {
	turn := NewTurn(1)
	turn.Fail(errors.New("upstream closed"))
	assert.Equal(t, StateError, turn.State())

	turn.Fail(errors.New("second"))
	assert.EqualError(t, turn.Err(), "upstream closed")
}

func TestMaskKey(t *testing.T) {
	assert.Equal(t, "", MaskKey(""))
	assert.Equal(t, "****", MaskKey("abc"))
	assert.Equal(t, "********wxyz", MaskKey("sk-abcdefwxyz"))
}

func TestSettingsUpdate_Validate(t *testing.T) {
	assert.NoError(t, SettingsUpdate{BaseURL: "https://api.example.com/v1", Model: "m", Enabled: true, Temperature: 0.3}.Validate())
	assert.Error(t, SettingsUpdate{BaseURL: "ftp://x", Model: "m"}.Validate())
	assert.Error(t, SettingsUpdate{Enabled: true}.Validate())
	assert.Error(t, SettingsUpdate{Temperature: 3}.Validate())
}
