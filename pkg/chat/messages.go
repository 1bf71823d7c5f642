package chat

import (
	"strings"
	"time"

	"github.com/killallgit/slate/pkg/events"
)

// Message is one transcript entry: a role plus an ordered list of content
// items. Messages are never edited after creation; the only destructive
// transcript operation is the error rollback in the reducer.
type Message struct {
	Role      string               `json:"role"`
	Content   []events.ContentItem `json:"content"`
	Timestamp time.Time            `json:"-"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

func NewUserMessage(content string) Message {
	return Message{
		Role:      RoleUser,
		Content:   []events.ContentItem{events.TextItem(strings.TrimSpace(content))},
		Timestamp: time.Now(),
	}
}

func NewAssistantMessage(content []events.ContentItem) Message {
	return Message{
		Role:      RoleAssistant,
		Content:   content,
		Timestamp: time.Now(),
	}
}

func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

func (m Message) IsAssistant() bool {
	return m.Role == RoleAssistant
}

// PlainText concatenates the message's text items, separated by newlines.
// Non-text items are skipped.
func (m Message) PlainText() string {
	var parts []string
	for _, item := range m.Content {
		if item.Type == events.ContentText && item.Text != "" {
			parts = append(parts, item.Text)
		}
	}
	return strings.Join(parts, "\n")
}

func (m Message) IsEmpty() bool {
	return len(m.Content) == 0
}
