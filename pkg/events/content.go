package events

import "encoding/json"

// Content item type tags shared by streamed events and final messages.
const (
	ContentText       = "text"
	ContentThinking   = "thinking"
	ContentToolUse    = "tool_use"
	ContentToolResult = "tool_result"
	ContentChart      = "chart"
	ContentTable      = "table"
)

// ContentItem is one piece of a message's multi-part content. Only the
// fields matching Type are populated; Raw always holds the original JSON so
// unrecognized variants round-trip unchanged.
type ContentItem struct {
	Type  string        `json:"type"`
	Text  string        `json:"text,omitempty"`
	Chart *ChartContent `json:"chart,omitempty"`
	Table *TableContent `json:"table,omitempty"`
	Raw   json.RawMessage
}

// ChartContent wraps a JSON-encoded chart specification.
type ChartContent struct {
	ChartSpec string `json:"chart_spec"`
}

// TableContent wraps a tabular result set.
type TableContent struct {
	ResultSet ResultSet `json:"result_set"`
}

// ResultSet mirrors the wire shape of a table payload: a row matrix plus
// column metadata.
type ResultSet struct {
	Data     [][]any       `json:"data"`
	Metadata ResultSetMeta `json:"result_set_meta_data"`
}

// ResultSetMeta describes the result columns.
type ResultSetMeta struct {
	RowType []Column `json:"row_type"`
}

// Column is a single result column descriptor.
type Column struct {
	Name string `json:"name"`
}

// ColumnNames returns the column names in declaration order.
func (rs ResultSet) ColumnNames() []string {
	names := make([]string, len(rs.Metadata.RowType))
	for i, col := range rs.Metadata.RowType {
		names[i] = col.Name
	}
	return names
}

// UnmarshalJSON decodes the typed fields and keeps a copy of the original
// payload in Raw.
func (c *ContentItem) UnmarshalJSON(data []byte) error {
	type alias ContentItem
	var item alias
	if err := json.Unmarshal(data, &item); err != nil {
		return err
	}
	*c = ContentItem(item)
	c.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON emits the original payload when present so opaque variants
// survive a round trip.
func (c ContentItem) MarshalJSON() ([]byte, error) {
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	type alias ContentItem
	return json.Marshal(alias(c))
}

// TextItem builds a plain text content item.
func TextItem(text string) ContentItem {
	return ContentItem{Type: ContentText, Text: text}
}

// ThinkingItem builds a reasoning content item.
func ThinkingItem(text string) ContentItem {
	return ContentItem{Type: ContentThinking, Text: text}
}

// ChartItem builds a chart content item from a JSON-encoded spec.
func ChartItem(spec string) ContentItem {
	return ContentItem{Type: ContentChart, Chart: &ChartContent{ChartSpec: spec}}
}

// TableItem builds a table content item.
func TableItem(rs ResultSet) ContentItem {
	return ContentItem{Type: ContentTable, Table: &TableContent{ResultSet: rs}}
}

// RawItem builds an opaque content item of the given type.
func RawItem(itemType string, raw json.RawMessage) ContentItem {
	return ContentItem{Type: itemType, Raw: raw}
}
