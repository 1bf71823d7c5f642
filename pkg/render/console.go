package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/killallgit/slate/pkg/chat"
	"github.com/killallgit/slate/pkg/events"
)

// ConsoleRenderer writes live slot updates and finalized content to a
// terminal. Incremental updates arrive as the slot's full current text; the
// renderer tracks how much of each slot it has already written and emits
// only the unseen suffix so streaming text appears to flow.
type ConsoleRenderer struct {
	out io.Writer

	statusStyle   lipgloss.Style
	thinkingStyle lipgloss.Style
	labelStyle    lipgloss.Style
	errorStyle    lipgloss.Style

	written map[string]map[int]int
}

func NewConsoleRenderer(out io.Writer) *ConsoleRenderer {
	return &ConsoleRenderer{
		out:           out,
		statusStyle:   lipgloss.NewStyle().Faint(true).Italic(true),
		thinkingStyle: lipgloss.NewStyle().Faint(true),
		labelStyle:    lipgloss.NewStyle().Bold(true),
		errorStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		written:       make(map[string]map[int]int),
	}
}

// ShowStatus prints the turn's current progress label. Labels supersede
// each other; only the latest matters.
func (r *ConsoleRenderer) ShowStatus(turnID, message string) {
	if message == "" {
		return
	}
	fmt.Fprintln(r.out, r.statusStyle.Render("· "+message))
}

// UpdateSlot prints the unseen suffix of the slot's accumulated content.
func (r *ConsoleRenderer) UpdateSlot(turnID string, index int, item events.ContentItem) {
	slots, exists := r.written[turnID]
	if !exists {
		slots = make(map[int]int)
		r.written[turnID] = slots
	}

	// Streamed text stays unstyled; styling would shift the suffix offsets
	text := item.Text

	seen := slots[index]
	if seen > len(text) {
		// Overwritten slot (authoritative thinking); start the line over
		fmt.Fprintln(r.out)
		seen = 0
	}
	fmt.Fprint(r.out, text[seen:])
	slots[index] = len(text)
}

// FinalizeSlot renders a slot's one-shot content in full.
func (r *ConsoleRenderer) FinalizeSlot(turnID string, index int, item events.ContentItem) {
	fmt.Fprintln(r.out)
	r.renderItem(item)
	delete(r.written[turnID], index)
}

// TurnFailed prints a user-visible error line. ConsoleRenderer doubles as
// the error sink for headless runs.
func (r *ConsoleRenderer) TurnFailed(message string, code events.Code) {
	line := "Error: " + message
	if code != "" {
		line += fmt.Sprintf(" (code: %s)", code)
	}
	fmt.Fprintln(r.out, r.errorStyle.Render(line))
}

// RenderMessage replays a completed transcript message.
func (r *ConsoleRenderer) RenderMessage(msg chat.Message) {
	fmt.Fprintln(r.out, r.labelStyle.Render(msg.Role+":"))
	for _, item := range msg.Content {
		r.renderItem(item)
	}
}

func (r *ConsoleRenderer) renderItem(item events.ContentItem) {
	switch item.Type {
	case events.ContentText:
		fmt.Fprintln(r.out, item.Text)

	case events.ContentThinking:
		fmt.Fprintln(r.out, r.thinkingStyle.Render(item.Text))

	case events.ContentChart:
		fmt.Fprintln(r.out, r.labelStyle.Render("[chart]"))
		if item.Chart != nil {
			r.renderJSON(item.Chart.ChartSpec)
		}

	case events.ContentTable:
		if item.Table != nil {
			r.renderTable(item.Table.ResultSet)
		}

	default:
		fmt.Fprintln(r.out, r.labelStyle.Render("["+item.Type+"]"))
		if len(item.Raw) > 0 {
			r.renderJSON(string(item.Raw))
		}
	}
}

func (r *ConsoleRenderer) renderJSON(raw string) {
	pretty := raw
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		if out, err := json.MarshalIndent(decoded, "", "  "); err == nil {
			pretty = string(out)
		}
	}

	if err := highlightJSON(r.out, pretty); err != nil {
		fmt.Fprintln(r.out, pretty)
		return
	}
	if !strings.HasSuffix(pretty, "\n") {
		fmt.Fprintln(r.out)
	}
}

var _ chat.Renderer = (*ConsoleRenderer)(nil)
var _ chat.ErrorSink = (*ConsoleRenderer)(nil)
