package controllers

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/killallgit/slate/pkg/agent"
	"github.com/killallgit/slate/pkg/chat"
	"github.com/killallgit/slate/pkg/events"
	"github.com/killallgit/slate/pkg/filters"
	"github.com/killallgit/slate/pkg/logger"
)

// Runner dispatches a transcript to the agent and returns its live event
// stream.
type Runner interface {
	Run(ctx context.Context, model string, messages []chat.Message) (*agent.RunResult, error)
}

// FilterSource provides the current filter snapshot. Fetches are best
// effort and never fail a turn.
type FilterSource interface {
	Fetch(ctx context.Context) []filters.Filter
}

// ChatController owns one session: the transcript, the current filter
// snapshot, and the in-flight turn. One turn is outstanding at a time;
// events for it are applied strictly in arrival order.
type ChatController struct {
	runner       Runner
	filterSource FilterSource
	renderer     chat.Renderer
	errors       chat.ErrorSink
	conversation chat.Conversation

	mu        sync.Mutex
	streaming bool
	cancelled bool
	cancel    context.CancelFunc
	snapshot  []filters.Filter
	requestID string
}

func NewChatController(runner Runner, source FilterSource, renderer chat.Renderer, errorSink chat.ErrorSink, model string) *ChatController {
	return &ChatController{
		runner:       runner,
		filterSource: source,
		renderer:     renderer,
		errors:       errorSink,
		conversation: chat.NewConversation(model),
	}
}

// Send runs one full turn: fetch filters, augment and append the user
// message, dispatch, and fold the event stream into the transcript. It
// blocks until the turn reaches a terminal state or the stream ends. A
// failed turn leaves the transcript exactly as it was before the call.
func (cc *ChatController) Send(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("message content cannot be empty")
	}

	cc.mu.Lock()
	if cc.streaming {
		cc.mu.Unlock()
		return fmt.Errorf("a turn is already in flight")
	}
	cc.streaming = true
	cc.cancelled = false
	cc.mu.Unlock()

	defer func() {
		cc.mu.Lock()
		cc.streaming = false
		cc.cancel = nil
		cc.mu.Unlock()
	}()

	// Capture the filter snapshot at send time so the turn is deterministic
	var snapshot []filters.Filter
	if cc.filterSource != nil {
		snapshot = cc.filterSource.Fetch(ctx)
	}
	cc.mu.Lock()
	cc.snapshot = snapshot
	cc.mu.Unlock()

	prompt := filters.Augment(strings.TrimSpace(content), snapshot)
	cc.conversation = chat.AddMessage(cc.conversation, chat.NewUserMessage(prompt))

	reducer := chat.NewReducer(&cc.conversation, cc.renderer, cc.errors)
	logger.Debug("Turn %s: sending %q", reducer.TurnID(), prompt)
	cc.renderer.ShowStatus(reducer.TurnID(), "Waiting for response...")

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	cc.mu.Lock()
	cc.cancel = cancel
	cc.mu.Unlock()

	result, err := cc.runner.Run(runCtx, cc.conversation.Model, chat.GetMessages(cc.conversation))
	if err != nil {
		// The speculative user message must not survive a failed handshake
		cc.conversation = chat.DropLastMessage(cc.conversation)
		cc.surfaceTransportError(err)
		return err
	}

	cc.mu.Lock()
	cc.requestID = result.RequestID
	cc.mu.Unlock()

	for ev := range result.Events {
		reducer.ApplyRaw(ev.Kind, ev.Data)
		if reducer.Done() {
			// Stop the network read; late events no longer matter
			cancel()
		}
	}

	if !reducer.Done() {
		if cc.wasCancelled() {
			reducer.Cancel()
		} else {
			reducer.Finish()
		}
	}

	if reducer.State() == chat.TurnFailed {
		if err := reducer.Err(); err != nil {
			return err
		}
		return context.Canceled
	}
	return nil
}

// Cancel aborts the in-flight turn. The rollback happens on the streaming
// goroutine once the aborted read drains, so transcript mutation stays
// single-threaded.
func (cc *ChatController) Cancel() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.streaming || cc.cancel == nil {
		return
	}
	cc.cancelled = true
	cc.cancel()
}

func (cc *ChatController) wasCancelled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.cancelled
}

func (cc *ChatController) surfaceTransportError(err error) {
	if cc.errors == nil {
		return
	}
	var transportErr *agent.TransportError
	if errors.As(err, &transportErr) {
		cc.errors.TurnFailed(transportErr.Error(), events.Code(strconv.Itoa(transportErr.StatusCode)))
		return
	}
	cc.errors.TurnFailed(err.Error(), "")
}

// IsStreaming reports whether a turn is in flight. New input is rejected
// while it is.
func (cc *ChatController) IsStreaming() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.streaming
}

// LastRequestID returns the request id of the most recent dispatched run.
func (cc *ChatController) LastRequestID() string {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.requestID
}

// CurrentFilters returns the filter snapshot captured by the latest turn.
func (cc *ChatController) CurrentFilters() []filters.Filter {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.snapshot
}

func (cc *ChatController) GetHistory() []chat.Message {
	return chat.GetMessages(cc.conversation)
}

func (cc *ChatController) GetMessageCount() int {
	return chat.GetMessageCount(cc.conversation)
}

func (cc *ChatController) GetLastAssistantMessage() (chat.Message, bool) {
	return chat.GetLastAssistantMessage(cc.conversation)
}

func (cc *ChatController) GetModel() string {
	return cc.conversation.Model
}

func (cc *ChatController) SetModel(model string) {
	cc.conversation = chat.WithModel(cc.conversation, model)
}

func (cc *ChatController) Reset() {
	cc.conversation = chat.NewConversation(cc.conversation.Model)
}
