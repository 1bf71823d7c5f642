package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/killallgit/slate/pkg/events"
	"github.com/rivo/tview"
)

// ChatView is the main chat interface: scrolling transcript, live turn
// area, status line, and input field.
type ChatView struct {
	*tview.Flex

	messages    *tview.TextView
	spinnerView *tview.TextView
	input       *tview.InputField
	status      *tview.TextView

	app *tview.Application

	sending       bool
	statusLabel   string
	lastError     string
	liveSlots     map[int]events.ContentItem
	spinnerFrame  int
	spinnerFrames []string
	model         string

	onSendMessage func(content string)
	onCancel      func()
}

// NewChatView builds the chat layout. Handlers are wired afterwards via
// SetSendMessageHandler and SetCancelHandler.
func NewChatView(app *tview.Application, model string) *ChatView {
	cv := &ChatView{
		Flex:          tview.NewFlex().SetDirection(tview.FlexRow),
		app:           app,
		liveSlots:     make(map[int]events.ContentItem),
		spinnerFrames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		model:         model,
	}

	cv.SetBackgroundColor(ColorBackground)

	cv.messages = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true).
		SetScrollable(true)
	cv.messages.SetBackgroundColor(ColorBackground)

	cv.spinnerView = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(false).
		SetScrollable(false)
	cv.spinnerView.SetBackgroundColor(ColorBackground)
	cv.spinnerView.SetTextColor(ColorDimText)

	cv.input = tview.NewInputField().
		SetLabel("> ").
		SetFieldBackgroundColor(ColorBackground).
		SetFieldTextColor(ColorUserText).
		SetLabelColor(ColorPrompt)
	cv.input.SetBackgroundColor(ColorBackground)

	cv.input.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			text := strings.TrimSpace(cv.input.GetText())
			if text != "" && !cv.sending {
				cv.input.SetText("")
				if cv.onSendMessage != nil {
					cv.onSendMessage(text)
				}
			}
			return nil
		case tcell.KeyEscape:
			if cv.sending && cv.onCancel != nil {
				cv.onCancel()
			}
			return nil
		}
		return event
	})

	cv.status = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignRight)
	cv.status.SetBackgroundColor(ColorBackground)
	cv.updateStatus()

	messageContainer := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(nil, 2, 0, false).
		AddItem(cv.messages, 0, 1, false).
		AddItem(nil, 2, 0, false)
	messageContainer.SetBackgroundColor(ColorBackground)

	inputContainer := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(nil, 2, 0, false).
		AddItem(cv.input, 0, 1, true).
		AddItem(nil, 2, 0, false)
	inputContainer.SetBackgroundColor(ColorBackground)

	cv.AddItem(nil, 1, 0, false).
		AddItem(messageContainer, 0, 1, false).
		AddItem(cv.spinnerView, 1, 0, false).
		AddItem(inputContainer, 2, 0, true).
		AddItem(cv.status, 1, 0, false)

	return cv
}

// SetSendMessageHandler sets the callback invoked when the user submits a
// prompt.
func (cv *ChatView) SetSendMessageHandler(handler func(content string)) {
	cv.onSendMessage = handler
}

// SetCancelHandler sets the callback invoked when the user presses Escape
// during a turn.
func (cv *ChatView) SetCancelHandler(handler func()) {
	cv.onCancel = handler
}

// SetSending toggles the in-flight state: input is disabled while a turn
// is outstanding.
func (cv *ChatView) SetSending(sending bool) {
	cv.sending = sending
	cv.input.SetDisabled(sending)
	if sending {
		cv.lastError = ""
		cv.startSpinner()
	} else {
		cv.statusLabel = ""
		cv.liveSlots = make(map[int]events.ContentItem)
	}
	cv.updateSpinnerView()
	cv.updateStatus()
}

// SetTranscript replaces the transcript text and appends any live turn
// content below it.
func (cv *ChatView) SetTranscript(rendered []string) {
	var out strings.Builder
	for i, block := range rendered {
		if i > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(block)
	}

	if live := cv.renderLiveSlots(); live != "" {
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(live)
		out.WriteString(tagStatus + "█" + tagReset)
	}

	if cv.lastError != "" {
		if out.Len() > 0 {
			out.WriteString("\n\n")
		}
		out.WriteString(tagError + tview.Escape(cv.lastError) + tagReset)
	}

	cv.messages.SetText(out.String())
	cv.messages.ScrollToEnd()
}

func (cv *ChatView) renderLiveSlots() string {
	if len(cv.liveSlots) == 0 {
		return ""
	}

	indices := make([]int, 0, len(cv.liveSlots))
	for idx := range cv.liveSlots {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	parts := make([]string, 0, len(indices))
	for _, idx := range indices {
		parts = append(parts, formatItem(cv.liveSlots[idx]))
	}
	return strings.Join(parts, "\n")
}

func (cv *ChatView) updateStatus() {
	statusText := ""
	if cv.sending {
		spinner := cv.spinnerFrames[cv.spinnerFrame]
		statusText = tagAgent + spinner + " streaming" + tagReset + " "
	}
	statusText += tagStatus + cv.model + tagReset
	cv.status.SetText(statusText)
}

func (cv *ChatView) updateSpinnerView() {
	if !cv.sending || cv.statusLabel == "" {
		cv.spinnerView.SetText("")
		return
	}
	spinner := cv.spinnerFrames[cv.spinnerFrame]
	cv.spinnerView.SetText(fmt.Sprintf("%s%s %s%s", tagDim, spinner, tview.Escape(cv.statusLabel), tagReset))
}

func (cv *ChatView) startSpinner() {
	go func() {
		for cv.sending {
			time.Sleep(100 * time.Millisecond)
			cv.app.QueueUpdateDraw(func() {
				cv.spinnerFrame = (cv.spinnerFrame + 1) % len(cv.spinnerFrames)
				cv.updateSpinnerView()
				cv.updateStatus()
			})
		}
	}()
}
