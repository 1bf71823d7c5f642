package tui

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/killallgit/slate/pkg/chat"
	"github.com/killallgit/slate/pkg/events"
	"github.com/rivo/tview"
)

// formatMessage renders one transcript message as tview markup.
func formatMessage(msg chat.Message) string {
	var out strings.Builder

	for i, item := range msg.Content {
		if i > 0 {
			out.WriteString("\n")
		}
		if msg.IsUser() {
			out.WriteString(tagUser + tview.Escape(item.Text) + tagReset)
			continue
		}
		out.WriteString(formatItem(item))
	}

	return out.String()
}

// formatItem renders one assistant content item as tview markup.
func formatItem(item events.ContentItem) string {
	switch item.Type {
	case events.ContentText:
		return tagAgent + tview.Escape(item.Text) + tagReset

	case events.ContentThinking:
		return tagThinking + tview.Escape(item.Text) + tagReset

	case events.ContentChart:
		spec := ""
		if item.Chart != nil {
			spec = item.Chart.ChartSpec
		}
		return tagStatus + "[chart]" + tagReset + "\n" + tagDim + tview.Escape(prettyJSON(spec)) + tagReset

	case events.ContentTable:
		if item.Table == nil {
			return tagStatus + "[table]" + tagReset
		}
		return tagDim + tview.Escape(formatResultSet(item.Table.ResultSet)) + tagReset

	default:
		label := tagStatus + "[" + item.Type + "]" + tagReset
		if len(item.Raw) > 0 {
			return label + "\n" + tagDim + tview.Escape(prettyJSON(string(item.Raw))) + tagReset
		}
		return label
	}
}

// formatResultSet lays a result set out as aligned text columns.
func formatResultSet(rs events.ResultSet) string {
	names := rs.ColumnNames()
	widths := make([]int, len(names))
	for i, name := range names {
		widths[i] = len(name)
	}

	rows := make([][]string, len(rs.Data))
	for r, row := range rs.Data {
		cells := make([]string, len(row))
		for c, cell := range row {
			text := cellText(cell)
			cells[c] = text
			if c < len(widths) && len(text) > widths[c] {
				widths[c] = len(text)
			}
		}
		rows[r] = cells
	}

	var out strings.Builder
	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				out.WriteString("  ")
			}
			out.WriteString(cell)
			if i < len(widths) && len(cell) < widths[i] {
				out.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			}
		}
		out.WriteString("\n")
	}

	writeRow(names)
	for _, row := range rows {
		writeRow(row)
	}
	return strings.TrimRight(out.String(), "\n")
}

func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func prettyJSON(raw string) string {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return raw
	}
	out, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return raw
	}
	return string(out)
}
