package assistant

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// State is the position of a chat turn in its lifecycle
type State string

const (
	StateAwaitingDelta        State = "awaiting_delta"
	StateAccumulatingToolCall State = "accumulating_tool_call"
	StateExecutingTool        State = "executing_tool"
	StateDone                 State = "done"
	StateError                State = "error"
)

// IsTerminal reports whether no further transitions are possible
func (s State) IsTerminal() bool {
	return s == StateDone || s == StateError
}

// MaxToolRounds is the hard upper bound on tool rounds in one turn
const MaxToolRounds = 5

var (
	// ErrToolLimit is reported when the model keeps requesting tools past the round limit
	ErrToolLimit = errors.New("tool call limit reached")
	// ErrInvalidTransition is returned when an event arrives in a state that cannot accept it
	ErrInvalidTransition = errors.New("invalid turn transition")
)

// ToolCall is a function call requested by the model
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// Turn drives one user turn through streamed completions and tool rounds.
// It is not safe for concurrent use.
type Turn struct {
	state     State
	maxRounds int
	rounds    int
	content   strings.Builder
	calls     map[int]*ToolCall
	err       error
}

// NewTurn creates a turn awaiting the first completion delta. maxRounds is
// clamped to [1, MaxToolRounds].
func NewTurn(maxRounds int) *Turn {
	if maxRounds <= 0 || maxRounds > MaxToolRounds {
		maxRounds = MaxToolRounds
	}
	return &Turn{
		state:     StateAwaitingDelta,
		maxRounds: maxRounds,
		calls:     make(map[int]*ToolCall),
	}
}

// State returns the current state
func (t *Turn) State() State { return t.state }

// Rounds returns how many tool rounds have started
func (t *Turn) Rounds() int { return t.rounds }

// Err returns the failure that moved the turn into StateError
func (t *Turn) Err() error { return t.err }

// Content returns the assistant text accumulated during the current completion
func (t *Turn) Content() string { return t.content.String() }

// OnContent records a text delta
func (t *Turn) OnContent(delta string) error {
	switch t.state {
	case StateAwaitingDelta, StateAccumulatingToolCall:
		t.content.WriteString(delta)
		return nil
	}
	return t.invalid("content")
}

// OnToolCallDelta merges a streamed tool call fragment. Fragments for the same
// index are concatenated; id and name arrive once, arguments arrive in pieces.
func (t *Turn) OnToolCallDelta(index int, id, name, arguments string) error {
	if t.state != StateAwaitingDelta && t.state != StateAccumulatingToolCall {
		return t.invalid("tool_call_delta")
	}
	call, ok := t.calls[index]
	if !ok {
		call = &ToolCall{}
		t.calls[index] = call
	}
	if id != "" {
		call.ID = id
	}
	if name != "" {
		call.Name += name
	}
	call.Arguments += arguments
	t.state = StateAccumulatingToolCall
	return nil
}

// EndCompletion is called when a completion stream finishes. With pending tool
// calls the turn enters StateExecutingTool and a new round starts, unless the
// round limit is already spent. Without pending calls the turn is done.
func (t *Turn) EndCompletion() error {
	if t.state != StateAwaitingDelta && t.state != StateAccumulatingToolCall {
		return t.invalid("end_completion")
	}
	if len(t.calls) == 0 {
		t.state = StateDone
		return nil
	}
	if t.rounds >= t.maxRounds {
		t.Fail(ErrToolLimit)
		return ErrToolLimit
	}
	t.rounds++
	t.state = StateExecutingTool
	return nil
}

// PendingCalls returns the accumulated tool calls ordered by stream index
func (t *Turn) PendingCalls() []ToolCall {
	idx := make([]int, 0, len(t.calls))
	for i := range t.calls {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	calls := make([]ToolCall, 0, len(idx))
	for _, i := range idx {
		calls = append(calls, *t.calls[i])
	}
	return calls
}

// OnToolResults marks the round's tools as executed; the next completion may start
func (t *Turn) OnToolResults() error {
	if t.state != StateExecutingTool {
		return t.invalid("tool_results")
	}
	t.calls = make(map[int]*ToolCall)
	t.content.Reset()
	t.state = StateAwaitingDelta
	return nil
}

// Fail moves any non-terminal turn into StateError
func (t *Turn) Fail(err error) {
	if t.state.IsTerminal() {
		return
	}
	t.err = err
	t.state = StateError
}

func (t *Turn) invalid(event string) error {
	return fmt.Errorf("%w: %s in state %s", ErrInvalidTransition, event, t.state)
}
