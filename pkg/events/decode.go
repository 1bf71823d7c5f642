package events

import (
	"encoding/json"
	"fmt"
)

// DecodeError reports a single event whose payload did not match the schema
// implied by its kind tag. It is recoverable: the stream continues past it.
type DecodeError struct {
	EventKind string
	Err       error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %q event: %v", e.EventKind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decode parses one raw event payload into its typed record. It is stateless
// and deterministic: decoding the same input twice yields equal records.
func Decode(kind string, data []byte) (Event, error) {
	fail := func(err error) (Event, error) {
		return nil, &DecodeError{EventKind: kind, Err: err}
	}

	switch kind {
	case KindStatus:
		var ev Status
		if err := json.Unmarshal(data, &ev); err != nil {
			return fail(err)
		}
		return ev, nil

	case KindTextDelta:
		var ev TextDelta
		if err := json.Unmarshal(data, &ev); err != nil {
			return fail(err)
		}
		return ev, nil

	case KindThinkingDelta:
		var ev ThinkingDelta
		if err := json.Unmarshal(data, &ev); err != nil {
			return fail(err)
		}
		return ev, nil

	case KindThinking:
		var ev Thinking
		if err := json.Unmarshal(data, &ev); err != nil {
			return fail(err)
		}
		return ev, nil

	case KindToolUse:
		var ev ToolUse
		if err := json.Unmarshal(data, &ev); err != nil {
			return fail(err)
		}
		ev.Raw = append(json.RawMessage(nil), data...)
		return ev, nil

	case KindToolResult:
		var ev ToolResult
		if err := json.Unmarshal(data, &ev); err != nil {
			return fail(err)
		}
		ev.Raw = append(json.RawMessage(nil), data...)
		return ev, nil

	case KindChart:
		var ev Chart
		if err := json.Unmarshal(data, &ev); err != nil {
			return fail(err)
		}
		return ev, nil

	case KindTable:
		var ev Table
		if err := json.Unmarshal(data, &ev); err != nil {
			return fail(err)
		}
		return ev, nil

	case KindError:
		var ev Error
		if err := json.Unmarshal(data, &ev); err != nil {
			return fail(err)
		}
		return ev, nil

	case KindResponse:
		var ev Response
		if err := json.Unmarshal(data, &ev); err != nil {
			return fail(err)
		}
		return ev, nil

	default:
		return fail(fmt.Errorf("unknown event kind"))
	}
}
