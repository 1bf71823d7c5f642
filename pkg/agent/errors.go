package agent

import "fmt"

// TransportError reports a failed run handshake: the initial response status
// indicated a client or server error, so streaming never started.
type TransportError struct {
	StatusCode int
	Body       string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("agent request failed with status %d: %s", e.StatusCode, e.Body)
}
