package render

import (
	"fmt"

	"github.com/killallgit/slate/pkg/events"
	"github.com/olekukonko/tablewriter"
)

func (r *ConsoleRenderer) renderTable(rs events.ResultSet) {
	table := tablewriter.NewWriter(r.out)
	table.SetHeader(rs.ColumnNames())
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)

	for _, row := range rs.Data {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = formatCell(cell)
		}
		table.Append(cells)
	}
	table.Render()
}

func formatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		// JSON numbers decode as float64; render integral values without
		// the trailing fraction
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
