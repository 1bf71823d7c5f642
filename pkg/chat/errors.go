package chat

import (
	"fmt"

	"github.com/killallgit/slate/pkg/events"
)

// AgentError is a protocol-level error event that failed the turn.
type AgentError struct {
	Message string
	Code    events.Code
}

func (e *AgentError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("agent error: %s (code: %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("agent error: %s", e.Message)
}
