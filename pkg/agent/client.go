package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/killallgit/slate/pkg/chat"
	"github.com/killallgit/slate/pkg/config"
	"github.com/killallgit/slate/pkg/logger"
)

const requestIDHeader = "X-Snowflake-Request-Id"

// RawEvent is one undecoded server-sent event: the kind tag plus its
// serialized payload.
type RawEvent struct {
	Kind string
	Data []byte
}

// RunResult is a live run: an ordered event stream plus the request id the
// service assigned to it.
type RunResult struct {
	RequestID string
	Events    <-chan RawEvent
}

// Client calls the data-agent run endpoint and streams its events.
type Client struct {
	baseURL    string
	database   string
	schema     string
	agent      string
	token      string
	httpClient *http.Client
}

func NewClient(cfg config.AgentConfig) *Client {
	baseURL := cfg.Host
	if baseURL != "" && !strings.Contains(baseURL, "://") {
		baseURL = "https://" + baseURL
	}

	return &Client{
		baseURL:  baseURL,
		database: cfg.Database,
		schema:   cfg.Schema,
		agent:    cfg.Name,
		token:    cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Run dispatches the transcript to the agent and returns the live event
// stream. A handshake status of 400 or above fails the whole call with a
// TransportError; no events are streamed in that case.
func (c *Client) Run(ctx context.Context, model string, messages []chat.Message) (*RunResult, error) {
	reqBody, err := json.Marshal(struct {
		Model    string         `json:"model"`
		Messages []chat.Message `json:"messages"`
	}{
		Model:    model,
		Messages: messages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v2/databases/%s/schemas/%s/agents/%s:run",
		c.baseURL, c.database, c.schema, c.agent)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("agent request failed: %w", err)
	}

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &TransportError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	events := make(chan RawEvent, 64)
	go readEvents(ctx, resp.Body, events)

	requestID := resp.Header.Get(requestIDHeader)
	logger.Debug("Agent run dispatched (request id: %s)", requestID)

	return &RunResult{
		RequestID: requestID,
		Events:    events,
	}, nil
}
