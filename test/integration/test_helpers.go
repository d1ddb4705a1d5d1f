//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dealer-admin-console/internal/backend"
	"dealer-admin-console/internal/config"
	"dealer-admin-console/internal/console"
	"dealer-admin-console/internal/export"
	"dealer-admin-console/internal/handler"
	"dealer-admin-console/internal/middleware"
	"dealer-admin-console/internal/router"
)

const sessionCookie = "dealer_session"

// fakeBackend is the upstream admin API the console proxies to. Handlers are
// keyed by method plus path.
type fakeBackend struct {
	t        *testing.T
	server   *httptest.Server
	handlers map[string]http.HandlerFunc
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	fb := &fakeBackend{t: t, handlers: map[string]http.HandlerFunc{}}
	fb.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := fb.handlers[r.Method+" "+r.URL.Path]; ok {
			h(w, r)
			return
		}
		t.Errorf("unexpected backend call: %s %s", r.Method, r.URL.Path)
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(fb.server.Close)
	return fb
}

func (fb *fakeBackend) handle(method string, path string, h http.HandlerFunc) {
	fb.handlers[method+" "+path] = h
}

func (fb *fakeBackend) handleJSON(method string, path string, body string) {
	fb.handle(method, path, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

// newConsoleServer wires the full facade against the fake backend, the same
// way app.New does in production.
func newConsoleServer(t *testing.T, fb *fakeBackend) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		ServerPort:         "8080",
		ServerReadTimeout:  15 * time.Second,
		ServerWriteTimeout: 30 * time.Second,
		ServerIdleTimeout:  120 * time.Second,
		RequestTimeout:     30 * time.Second,
		BackendBaseURL:     fb.server.URL,
		BackendTimeout:     5 * time.Second,
		SessionCookie:      sessionCookie,
		SessionIdleTTL:     30 * time.Minute,
		RateLimitRPM:       10000,
		ExportRateLimitRPM: 10000,
		PageSize:           10,
		AlertTTL:           time.Minute,
		AlertQueueSize:     4,
		ExportMaxRows:      1000,
	}

	client, err := backend.NewClient(cfg.BackendBaseURL, cfg.SessionCookie, cfg.BackendTimeout)
	require.NoError(t, err)

	manager := console.NewManager(client, cfg.PageSize, cfg.AlertQueueSize, cfg.AlertTTL, cfg.SessionIdleTTL)

	appRouter := router.New(
		cfg,
		middleware.NewSession(cfg.SessionCookie),
		handler.NewListingHandler(manager, export.ExcelEncoder{}, cfg.ExportMaxRows),
		handler.NewLookupHandler(manager),
		handler.NewFormHandler(manager),
		handler.NewAlertHandler(manager),
	)

	server := httptest.NewServer(appRouter)
	t.Cleanup(server.Close)
	return server
}

func doRequest(t *testing.T, server *httptest.Server, method string, path string, body any, session string) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: session})
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, payload
}

// envelope mirrors the facade's JSON response shape.
type envelope struct {
	Success bool `json:"success"`
	Data    struct {
		Entity             string                   `json:"entity"`
		State              string                   `json:"state"`
		Records            []map[string]any         `json:"records"`
		Total              int                      `json:"total"`
		Page               int                      `json:"page"`
		Pages              []int                    `json:"pages"`
		Search             string                   `json:"search"`
		SelectionCount     int                      `json:"selectionCount"`
		AppliedFilterCount int                      `json:"appliedFilterCount"`
		PendingDelete      map[string]any           `json:"pendingDelete"`
		Alerts             []map[string]any         `json:"alerts"`
		Options            []map[string]any         `json:"options"`
		Facets             []map[string]any         `json:"facets"`
		Pending            map[string][]string      `json:"pending"`
	} `json:"data"`
	Error *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, payload []byte) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(payload, &env))
	return env
}

// waitForListing polls the snapshot endpoint until the listing settles into
// the wanted state.
func waitForListing(t *testing.T, server *httptest.Server, session string, entityName string, state string) envelope {
	t.Helper()

	var env envelope
	require.Eventually(t, func() bool {
		resp, payload := doRequest(t, server, http.MethodGet, "/api/v1/listings/"+entityName, nil, session)
		if resp.StatusCode != http.StatusOK {
			return false
		}
		env = decodeEnvelope(t, payload)
		return env.Data.State == state
	}, 2*time.Second, 20*time.Millisecond)
	return env
}
