package chat

import (
	"github.com/google/uuid"
	"github.com/killallgit/slate/pkg/events"
	"github.com/killallgit/slate/pkg/logger"
)

// TurnState tracks one assistant turn through its lifecycle.
type TurnState int

const (
	TurnIdle TurnState = iota
	TurnStreaming
	TurnCompleted
	TurnFailed
)

func (s TurnState) String() string {
	switch s {
	case TurnIdle:
		return "idle"
	case TurnStreaming:
		return "streaming"
	case TurnCompleted:
		return "completed"
	case TurnFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Reducer applies one turn's decoded events to the transcript and the
// content buffer table. It is single-threaded: one event is fully applied
// before the next is read. The conversation pointer is owned by the caller;
// the reducer appends the final assistant message on success and drops the
// speculative last message on failure.
type Reducer struct {
	turnID   string
	state    TurnState
	buffers  *BufferTable
	conv     *Conversation
	renderer Renderer
	errors   ErrorSink
	failErr  *AgentError
}

func NewReducer(conv *Conversation, renderer Renderer, errors ErrorSink) *Reducer {
	return &Reducer{
		turnID:   uuid.NewString(),
		state:    TurnIdle,
		buffers:  NewBufferTable(),
		conv:     conv,
		renderer: renderer,
		errors:   errors,
	}
}

func (r *Reducer) TurnID() string {
	return r.turnID
}

func (r *Reducer) State() TurnState {
	return r.state
}

// Done reports whether the turn reached a terminal state.
func (r *Reducer) Done() bool {
	return r.state == TurnCompleted || r.state == TurnFailed
}

// ApplyRaw decodes one raw event and applies it. Decode failures are
// logged and skipped; they never abort the turn.
func (r *Reducer) ApplyRaw(kind string, data []byte) {
	ev, err := events.Decode(kind, data)
	if err != nil {
		logger.Warn("Skipping malformed event: %v", err)
		return
	}
	r.Apply(ev)
}

// Apply folds one decoded event into the turn. Events arriving after a
// terminal state are ignored.
func (r *Reducer) Apply(ev events.Event) {
	if r.Done() {
		return
	}

	switch ev := ev.(type) {
	case events.Status:
		r.renderer.ShowStatus(r.turnID, ev.Message)

	case events.TextDelta:
		r.markStreaming()
		r.buffers.Append(ev.ContentIndex, ev.Text)
		r.renderer.UpdateSlot(r.turnID, ev.ContentIndex, events.TextItem(r.buffers.Get(ev.ContentIndex)))

	case events.ThinkingDelta:
		r.markStreaming()
		r.buffers.Append(ev.ContentIndex, ev.Text)
		r.renderer.UpdateSlot(r.turnID, ev.ContentIndex, events.ThinkingItem(r.buffers.Get(ev.ContentIndex)))

	case events.Thinking:
		// Authoritative full text: overwrite, never append.
		r.markStreaming()
		r.buffers.Set(ev.ContentIndex, ev.Text)
		r.renderer.UpdateSlot(r.turnID, ev.ContentIndex, events.ThinkingItem(ev.Text))

	case events.ToolUse:
		r.finalizeSlot(ev.ContentIndex, events.RawItem(events.ContentToolUse, ev.Raw))

	case events.ToolResult:
		r.finalizeSlot(ev.ContentIndex, events.RawItem(events.ContentToolResult, ev.Raw))

	case events.Chart:
		r.finalizeSlot(ev.ContentIndex, events.ChartItem(ev.ChartSpec))

	case events.Table:
		r.finalizeSlot(ev.ContentIndex, events.TableItem(ev.ResultSet))

	case events.Error:
		r.fail(ev.Message, ev.Code)

	case events.Response:
		r.complete(ev)
	}
}

// markStreaming enters the streaming state, clearing any waiting label on
// the first content-bearing event.
func (r *Reducer) markStreaming() {
	if r.state == TurnIdle {
		r.renderer.ShowStatus(r.turnID, "")
	}
	r.state = TurnStreaming
}

// finalizeSlot replaces a slot with atomic content. Any stale buffered
// deltas for the index lose outright; slots are monomorphic upstream.
func (r *Reducer) finalizeSlot(index int, item events.ContentItem) {
	r.markStreaming()
	r.buffers.Clear(index)
	r.renderer.FinalizeSlot(r.turnID, index, item)
}

// Err returns the protocol error that failed the turn, if any. A cancelled
// turn has no error.
func (r *Reducer) Err() error {
	if r.failErr == nil {
		return nil
	}
	return r.failErr
}

func (r *Reducer) fail(message string, code events.Code) {
	r.state = TurnFailed
	r.failErr = &AgentError{Message: message, Code: code}
	r.buffers.ClearAll()
	*r.conv = DropLastMessage(*r.conv)
	logger.Error("Turn %s failed: %s (code: %s)", r.turnID, message, code)
	if r.errors != nil {
		r.errors.TurnFailed(message, code)
	}
}

func (r *Reducer) complete(resp events.Response) {
	r.state = TurnCompleted
	r.buffers.ClearAll()

	role := resp.Role
	if role == "" {
		role = RoleAssistant
	}
	msg := NewAssistantMessage(resp.Content)
	msg.Role = role
	*r.conv = AddMessage(*r.conv, msg)
	logger.Debug("Turn %s completed with %d content items", r.turnID, len(resp.Content))
}

// Cancel aborts an in-flight turn: the speculative message is rolled back
// and all buffers are discarded, the same shape as an error transition. The
// error sink is not notified since the user initiated it.
func (r *Reducer) Cancel() {
	if r.Done() {
		return
	}
	r.state = TurnFailed
	r.buffers.ClearAll()
	*r.conv = DropLastMessage(*r.conv)
	logger.Info("Turn %s cancelled", r.turnID)
}

// Finish releases buffers when the stream ends without a terminal event.
func (r *Reducer) Finish() {
	if !r.Done() {
		r.buffers.ClearAll()
	}
}

// BufferedContent exposes the current accumulated text for a slot.
func (r *Reducer) BufferedContent(index int) string {
	return r.buffers.Get(index)
}

// LiveBuffers returns the number of live slot buffers.
func (r *Reducer) LiveBuffers() int {
	return r.buffers.Len()
}
