//go:build integration

package integration

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const orgListing = `{"status":"OK","data":{"organizations":[
	{"orgId":1,"organizationName":"Acme","isActive":true},
	{"orgId":2,"organizationName":"Bolt","isActive":true}
],"count":2}}`

func TestSessionRequired(t *testing.T) {
	t.Parallel()

	server := newConsoleServer(t, newFakeBackend(t))

	resp, payload := doRequest(t, server, http.MethodGet, "/api/v1/listings/organizations", nil, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	env := decodeEnvelope(t, payload)
	require.False(t, env.Success)
	require.Equal(t, "SESSION_REQUIRED", env.Error.Code)
}

func TestListingLifecycle(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	fb.handle("GET", "/api/organizations", func(w http.ResponseWriter, r *http.Request) {
		// The session cookie must be relayed upstream untouched.
		cookie, err := r.Cookie(sessionCookie)
		require.NoError(t, err)
		require.Equal(t, "sess-1", cookie.Value)

		if r.URL.Query().Get("search") == "bolt" {
			_, _ = w.Write([]byte(`{"status":"OK","data":{"organizations":[{"orgId":2,"organizationName":"Bolt","isActive":true}],"count":1}}`))
			return
		}
		_, _ = w.Write([]byte(orgListing))
	})
	server := newConsoleServer(t, fb)

	env := waitForListing(t, server, "sess-1", "organizations", "ready")
	require.Len(t, env.Data.Records, 2)
	require.Equal(t, 2, env.Data.Total)
	require.Equal(t, []int{1}, env.Data.Pages)

	resp, _ := doRequest(t, server, http.MethodPut, "/api/v1/listings/organizations/search", map[string]any{"search": "bolt"}, "sess-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Eventually(t, func() bool {
		resp, payload := doRequest(t, server, http.MethodGet, "/api/v1/listings/organizations", nil, "sess-1")
		if resp.StatusCode != http.StatusOK {
			return false
		}
		env = decodeEnvelope(t, payload)
		return env.Data.State == "ready" && env.Data.Total == 1 && env.Data.Search == "bolt"
	}, 2*time.Second, 20*time.Millisecond)
	require.Equal(t, "Bolt", env.Data.Records[0]["organizationName"])
}

func TestUnknownEntityRejected(t *testing.T) {
	t.Parallel()

	server := newConsoleServer(t, newFakeBackend(t))

	resp, payload := doRequest(t, server, http.MethodGet, "/api/v1/listings/invoices", nil, "sess-1")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.Equal(t, "NOT_FOUND", decodeEnvelope(t, payload).Error.Code)
}

func TestFacetCommitRefetchesFiltered(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	fb.handle("GET", "/api/organizations", func(w http.ResponseWriter, r *http.Request) {
		if filters := r.URL.Query().Get("filters"); filters != "" {
			var decoded map[string][]string
			require.NoError(t, json.Unmarshal([]byte(filters), &decoded))
			require.Equal(t, []string{"Acme"}, decoded["organizationName"])
			_, _ = w.Write([]byte(`{"status":"OK","data":{"organizations":[{"orgId":1,"organizationName":"Acme","isActive":true}],"count":1}}`))
			return
		}
		_, _ = w.Write([]byte(orgListing))
	})
	fb.handleJSON("GET", "/api/filters/organizations",
		`{"status":"OK","data":{"organizations":[{"organizationName":"Acme"},{"organizationName":"Bolt"}]}}`)
	server := newConsoleServer(t, fb)

	waitForListing(t, server, "sess-1", "organizations", "ready")

	resp, payload := doRequest(t, server, http.MethodGet, "/api/v1/listings/organizations/facets", nil, "sess-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, payload)
	require.NotEmpty(t, env.Data.Facets)

	resp, _ = doRequest(t, server, http.MethodPost, "/api/v1/listings/organizations/filters",
		map[string]any{"facet": "organizationName", "value": "Acme", "selected": true}, "sess-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Pending only: the listing still shows both rows.
	env = waitForListing(t, server, "sess-1", "organizations", "ready")
	require.Equal(t, 2, env.Data.Total)
	require.Zero(t, env.Data.AppliedFilterCount)

	resp, _ = doRequest(t, server, http.MethodPost, "/api/v1/listings/organizations/filters/commit", nil, "sess-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.Eventually(t, func() bool {
		resp, payload := doRequest(t, server, http.MethodGet, "/api/v1/listings/organizations", nil, "sess-1")
		if resp.StatusCode != http.StatusOK {
			return false
		}
		env = decodeEnvelope(t, payload)
		return env.Data.State == "ready" && env.Data.Total == 1 && env.Data.AppliedFilterCount == 1
	}, 2*time.Second, 20*time.Millisecond)
}

func TestDeleteConfirmationFlow(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	fb.handleJSON("GET", "/api/organizations", orgListing)
	fb.handle("POST", "/api/organizations/delete", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, float64(1), body["orgId"])
		_, _ = w.Write([]byte(`{"status":"OK","data":{}}`))
	})
	server := newConsoleServer(t, fb)

	waitForListing(t, server, "sess-1", "organizations", "ready")

	resp, payload := doRequest(t, server, http.MethodPost, "/api/v1/listings/organizations/delete",
		map[string]any{"id": 1}, "sess-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env := decodeEnvelope(t, payload)
	require.Equal(t, "Acme", env.Data.PendingDelete["title"])

	resp, payload = doRequest(t, server, http.MethodPost, "/api/v1/listings/organizations/delete/confirm", nil, "sess-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env = decodeEnvelope(t, payload)
	require.Nil(t, env.Data.PendingDelete)
	require.Equal(t, false, env.Data.Records[0]["isActive"])

	// Deleting the same row again is refused before any backend call.
	resp, payload = doRequest(t, server, http.MethodPost, "/api/v1/listings/organizations/delete",
		map[string]any{"id": 1}, "sess-1")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Equal(t, "CONFLICT", decodeEnvelope(t, payload).Error.Code)

	resp, payload = doRequest(t, server, http.MethodGet, "/api/v1/alerts", nil, "sess-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	env = decodeEnvelope(t, payload)
	require.NotEmpty(t, env.Data.Alerts)
	require.Equal(t, "warning", env.Data.Alerts[0]["status"])
}

func TestExportDownload(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	fb.handleJSON("GET", "/api/organizations", orgListing)
	server := newConsoleServer(t, fb)

	waitForListing(t, server, "sess-1", "organizations", "ready")

	resp, payload := doRequest(t, server, http.MethodGet, "/api/v1/listings/organizations/export?format=csv", nil, "sess-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	require.Contains(t, resp.Header.Get("Content-Disposition"), `organizations.csv`)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], "organizationName")
}

func TestLookupOptions(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	fb.handleJSON("GET", "/api/lookup/states",
		`{"status":"OK","data":{"states":[
			{"countryStateId":10,"countryState":"Bavaria","countryId":1},
			{"countryStateId":20,"countryState":"Provence","countryId":2}
		]}}`)
	server := newConsoleServer(t, fb)

	resp, payload := doRequest(t, server, http.MethodGet, "/api/v1/lookup/states?parent=1", nil, "sess-1")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, payload)
	require.Len(t, env.Data.Options, 1)
	require.Equal(t, "Bavaria", env.Data.Options[0]["value"])
}

func TestFormValidationShortCircuits(t *testing.T) {
	t.Parallel()

	// No backend handler registered: an invalid submission must not call out.
	server := newConsoleServer(t, newFakeBackend(t))

	resp, payload := doRequest(t, server, http.MethodPost, "/api/v1/forms/organizations",
		map[string]any{"organizationName": ""}, "sess-1")
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	env := decodeEnvelope(t, payload)
	require.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	require.Equal(t, "This field is required.", env.Error.Fields["organizationName"])
}

func TestFormCreateRelays(t *testing.T) {
	t.Parallel()

	fb := newFakeBackend(t)
	fb.handle("POST", "/api/organizations/create", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Acme", body["organizationName"])
		require.Equal(t, float64(3), body["organizationType"])
		_, _ = w.Write([]byte(`{"status":"OK","data":{}}`))
	})
	server := newConsoleServer(t, fb)

	resp, _ := doRequest(t, server, http.MethodPost, "/api/v1/forms/organizations", map[string]any{
		"organizationName":  "Acme",
		"orgPrimaryEmailId": "ops@acme.test",
		"orgPOCFirstName":   "Ana",
		"organizationType":  "3",
		"industryType":      1,
		"isActive":          true,
	}, "sess-1")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}
