package agent

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/killallgit/slate/pkg/logger"
)

// Tables and charts can make individual data lines large.
const maxEventSize = 1024 * 1024

// readEvents parses the response body as a server-sent event stream and
// forwards complete events onto the channel. An event is a run of "event:"
// and "data:" fields terminated by a blank line; multiple data lines are
// joined with newlines. The channel closes when the stream ends or the
// context is cancelled.
func readEvents(ctx context.Context, body io.ReadCloser, events chan<- RawEvent) {
	defer close(events)
	defer body.Close()

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), maxEventSize)

	var kind string
	var data []string

	dispatch := func() {
		if kind == "" && len(data) == 0 {
			return
		}
		payload := strings.Join(data, "\n")
		select {
		case events <- RawEvent{Kind: kind, Data: []byte(payload)}:
		case <-ctx.Done():
		}
		kind = ""
		data = nil
	}

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			logger.Debug("Event stream cancelled: %v", ctx.Err())
			return
		default:
		}

		line := scanner.Text()

		switch {
		case line == "":
			dispatch()
		case strings.HasPrefix(line, ":"):
			// Comment line, keep-alive
		case strings.HasPrefix(line, "event:"):
			kind = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data = append(data, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	// Dispatch a trailing event if the stream ended without a blank line
	dispatch()

	if err := scanner.Err(); err != nil {
		logger.Warn("Event stream read error: %v", err)
	}
}
