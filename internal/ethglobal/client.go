package ethglobal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// publishedEventsQuery is the one query this service ever sends. The upstream
// schema is not under our control; the field list must match ParseEvents.
const publishedEventsQuery = `query {
	getPublishedEvents {
		id
		name
		slug
		type
		startTime
		endTime
		website
		city {
			name
			country {
				name
			}
		}
	}
}`

// Config holds the connection parameters for the ETHGlobal GraphQL API.
type Config struct {
	// Endpoint is the GraphQL endpoint URL.
	Endpoint string

	// Origin is sent as the Origin header. The upstream rejects requests
	// that do not present its own site origin.
	Origin string

	// Timeout bounds each outbound request.
	Timeout time.Duration
}

// Client queries the ETHGlobal events API. One Client is shared by all
// inbound requests; the underlying http.Client is safe for concurrent use.
type Client struct {
	http     *http.Client
	endpoint string
	origin   string
	payload  []byte
}

// StatusError reports a non-2xx response from the events API.
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("events API returned %s", e.Status)
}

// queryPayload is the request body, {"query": "..."}. Marshalling the
// document keeps the query readable instead of a hand-escaped literal.
var queryPayload = func() []byte {
	payload, err := json.Marshal(struct {
		Query string `json:"query"`
	}{Query: publishedEventsQuery})
	if err != nil {
		panic(fmt.Sprintf("failed to marshal events query: %v", err))
	}
	return payload
}()

// New creates a Client for the given endpoint.
func New(cfg Config) *Client {
	return &Client{
		http:     &http.Client{Timeout: cfg.Timeout},
		endpoint: cfg.Endpoint,
		origin:   cfg.Origin,
		payload:  queryPayload,
	}
}

// Query posts the published-events query and returns the raw response body.
// Transport failures are returned wrapped; a non-2xx response is returned as
// a *StatusError. Exactly one outbound call is made, with no retries.
func (c *Client) Query(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(c.payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", c.origin)

	slog.InfoContext(ctx, "Querying published events", "endpoint", c.endpoint)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach events API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return body, nil
}
