package filters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/killallgit/slate/pkg/logger"
)

// Source fetches the current filter snapshot from an external endpoint.
// Fetches are best effort: any transport or shape error degrades to an
// empty snapshot and is never surfaced as a turn failure.
type Source struct {
	url        string
	httpClient *http.Client
}

func NewSource(url string, timeout time.Duration) *Source {
	return &Source{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves and normalizes the latest filters. The returned slice is
// empty when the source is unset, unreachable, or returns an unexpected
// shape.
func (s *Source) Fetch(ctx context.Context) []Filter {
	if s.url == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBufferString("{}"))
	if err != nil {
		logger.Warn("Filter fetch failed: %v", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		logger.Warn("Filter fetch failed: %v", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn("Filter fetch failed: %v", fmt.Errorf("status %d", resp.StatusCode))
		return nil
	}

	var payload struct {
		Filters []rawFilter `json:"filters"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Warn("Filter fetch returned malformed payload: %v", err)
		return nil
	}

	filters := normalize(payload.Filters)
	logger.Debug("Fetched %d filters", len(filters))
	return filters
}
