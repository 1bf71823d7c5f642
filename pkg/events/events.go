package events

import "encoding/json"

// Wire names of the agent's streamed event kinds.
const (
	KindStatus        = "response.status"
	KindTextDelta     = "response.text.delta"
	KindThinkingDelta = "response.thinking.delta"
	KindThinking      = "response.thinking"
	KindToolUse       = "response.tool_use"
	KindToolResult    = "response.tool_result"
	KindChart         = "response.chart"
	KindTable         = "response.table"
	KindError         = "error"
	KindResponse      = "response"
)

// Event is one decoded server-sent event. The set of implementations is
// closed; consumers dispatch with a type switch over the concrete types.
type Event interface {
	Kind() string
	event()
}

// Status carries a progress label. It is not tied to a content slot and a
// later Status replaces an earlier one.
type Status struct {
	Message string `json:"message"`
}

// TextDelta is an append-only fragment of a text slot.
type TextDelta struct {
	ContentIndex int    `json:"content_index"`
	Text         string `json:"text"`
}

// ThinkingDelta is an append-only fragment of a reasoning slot.
type ThinkingDelta struct {
	ContentIndex int    `json:"content_index"`
	Text         string `json:"text"`
}

// Thinking is a complete reasoning item. It overwrites any buffered deltas
// for its slot.
type Thinking struct {
	ContentIndex int    `json:"content_index"`
	Text         string `json:"text"`
}

// ToolUse is an atomic tool invocation. The payload beyond the slot index is
// opaque and kept raw.
type ToolUse struct {
	ContentIndex int `json:"content_index"`
	Raw          json.RawMessage
}

// ToolResult is an atomic tool output, opaque beyond the slot index.
type ToolResult struct {
	ContentIndex int `json:"content_index"`
	Raw          json.RawMessage
}

// Chart is an atomic chart specification (a JSON-encoded vega-lite spec).
type Chart struct {
	ContentIndex int    `json:"content_index"`
	ChartSpec    string `json:"chart_spec"`
}

// Table is an atomic tabular result.
type Table struct {
	ContentIndex int       `json:"content_index"`
	ResultSet    ResultSet `json:"result_set"`
}

// Error terminates the turn.
type Error struct {
	Message string `json:"message"`
	Code    Code   `json:"code"`
}

// Code is a machine error code that may arrive as a JSON number or string.
type Code string

func (c *Code) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Code(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*c = Code(n.String())
	return nil
}

func (c Code) String() string {
	return string(c)
}

// Response is the authoritative final message for the turn. It supersedes
// any partially built slots.
type Response struct {
	Role    string        `json:"role"`
	Content []ContentItem `json:"content"`
}

func (Status) Kind() string        { return KindStatus }
func (TextDelta) Kind() string     { return KindTextDelta }
func (ThinkingDelta) Kind() string { return KindThinkingDelta }
func (Thinking) Kind() string      { return KindThinking }
func (ToolUse) Kind() string       { return KindToolUse }
func (ToolResult) Kind() string    { return KindToolResult }
func (Chart) Kind() string         { return KindChart }
func (Table) Kind() string         { return KindTable }
func (Error) Kind() string         { return KindError }
func (Response) Kind() string      { return KindResponse }

func (Status) event()        {}
func (TextDelta) event()     {}
func (ThinkingDelta) event() {}
func (Thinking) event()      {}
func (ToolUse) event()       {}
func (ToolResult) event()    {}
func (Chart) event()         {}
func (Table) event()         {}
func (Error) event()         {}
func (Response) event()      {}
