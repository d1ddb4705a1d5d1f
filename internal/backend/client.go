package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"dealer-admin-console/internal/model"
)

const statusOK = "OK"

// Client talks to the dealer backend REST API. Every request relays the
// caller's session cookie; the backend owns authentication and authorization.
type Client struct {
	baseURL    string
	cookieName string
	httpClient *http.Client
}

func NewClient(baseURL string, cookieName string, timeout time.Duration) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid backend base url %q", baseURL)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		cookieName: cookieName,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// Envelope is the backend's uniform response wrapper:
// {"status": "OK", "data": {...}}.
type Envelope struct {
	Status string                     `json:"status"`
	Data   map[string]json.RawMessage `json:"data"`
}

func (e *Envelope) OK() bool {
	return e != nil && e.Status == statusOK
}

// Records decodes the entity array stored under the given plural key.
func (e *Envelope) Records(pluralKey string) ([]model.Record, bool) {
	if e == nil || e.Data == nil {
		return nil, false
	}

	raw, exists := e.Data[pluralKey]
	if !exists {
		return nil, false
	}

	var records []model.Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, false
	}
	return records, true
}

// Total reads the record count, which the backend reports as either "count"
// or "total" depending on the entity.
func (e *Envelope) Total() (int, bool) {
	if e == nil || e.Data == nil {
		return 0, false
	}

	for _, key := range []string{"count", "total"} {
		raw, exists := e.Data[key]
		if !exists {
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			continue
		}
		if total, err := n.Int64(); err == nil {
			return int(total), true
		}
	}
	return 0, false
}

// FacetDataset decodes every data key as a record array, skipping scalar
// keys such as counts.
func (e *Envelope) FacetDataset() model.FacetDataset {
	dataset := model.FacetDataset{}
	if e == nil {
		return dataset
	}

	for key, raw := range e.Data {
		var records []model.Record
		if err := json.Unmarshal(raw, &records); err != nil {
			continue
		}
		dataset[key] = records
	}
	return dataset
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, session string) (*Envelope, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build backend request: %w", err)
	}

	return c.do(req, session)
}

func (c *Client) Post(ctx context.Context, path string, body any, session string) (*Envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode backend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build backend request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, session)
}

func (c *Client) do(req *http.Request, session string) (*Envelope, error) {
	if session != "" {
		req.AddCookie(&http.Cookie{Name: c.cookieName, Value: session})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, model.ErrSessionExpired
	}
	if resp.StatusCode >= 500 {
		return nil, fmt.Errorf("backend returned status %d", resp.StatusCode)
	}

	var envelope Envelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode backend response: %w", err)
	}

	return &envelope, nil
}
