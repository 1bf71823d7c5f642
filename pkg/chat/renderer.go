package chat

import "github.com/killallgit/slate/pkg/events"

// Renderer receives live display updates from the reducer. Slot updates
// always carry the full current content for the slot, never a patch; the
// renderer re-renders the whole slot each time.
type Renderer interface {
	// ShowStatus replaces the turn's progress label.
	ShowStatus(turnID string, message string)

	// UpdateSlot delivers the current full content of an in-progress slot.
	UpdateSlot(turnID string, index int, item events.ContentItem)

	// FinalizeSlot delivers a slot's one-shot finalized content.
	FinalizeSlot(turnID string, index int, item events.ContentItem)
}

// ErrorSink receives user-visible turn failures.
type ErrorSink interface {
	TurnFailed(message string, code events.Code)
}

// NopRenderer discards all updates.
type NopRenderer struct{}

func (NopRenderer) ShowStatus(string, string)                  {}
func (NopRenderer) UpdateSlot(string, int, events.ContentItem) {}
func (NopRenderer) FinalizeSlot(string, int, events.ContentItem) {
}

var _ Renderer = NopRenderer{}
