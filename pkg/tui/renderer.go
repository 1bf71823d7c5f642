package tui

import (
	"github.com/killallgit/slate/pkg/chat"
	"github.com/killallgit/slate/pkg/events"
	"github.com/rivo/tview"
)

// viewRenderer bridges turn callbacks from the streaming goroutine into
// the tview event loop. Every mutation of view state goes through
// QueueUpdateDraw so the application goroutine stays the only writer.
type viewRenderer struct {
	app     *tview.Application
	view    *ChatView
	history func() []chat.Message
}

func newViewRenderer(app *tview.Application, view *ChatView, history func() []chat.Message) *viewRenderer {
	return &viewRenderer{app: app, view: view, history: history}
}

func (vr *viewRenderer) ShowStatus(turnID, message string) {
	vr.app.QueueUpdateDraw(func() {
		vr.view.statusLabel = message
		vr.view.updateSpinnerView()
	})
}

func (vr *viewRenderer) UpdateSlot(turnID string, index int, item events.ContentItem) {
	vr.app.QueueUpdateDraw(func() {
		vr.view.liveSlots[index] = item
		vr.refreshTranscript()
	})
}

func (vr *viewRenderer) FinalizeSlot(turnID string, index int, item events.ContentItem) {
	vr.app.QueueUpdateDraw(func() {
		vr.view.liveSlots[index] = item
		vr.refreshTranscript()
	})
}

func (vr *viewRenderer) TurnFailed(message string, code events.Code) {
	vr.app.QueueUpdateDraw(func() {
		line := "Error: " + message
		if code != "" {
			line += " (code: " + code.String() + ")"
		}
		vr.view.lastError = line
		vr.view.liveSlots = make(map[int]events.ContentItem)
		vr.refreshTranscript()
	})
}

// Refresh rebuilds the transcript from the session history. Called after a
// turn reaches a terminal state.
func (vr *viewRenderer) Refresh() {
	vr.app.QueueUpdateDraw(func() {
		vr.refreshTranscript()
	})
}

func (vr *viewRenderer) refreshTranscript() {
	msgs := vr.history()
	rendered := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		rendered = append(rendered, formatMessage(msg))
	}
	vr.view.SetTranscript(rendered)
}

var _ chat.Renderer = (*viewRenderer)(nil)
var _ chat.ErrorSink = (*viewRenderer)(nil)
