package console

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dealer-admin-console/internal/backend"
	"dealer-admin-console/internal/model"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","data":{"organizations":[],"count":0}}`))
	}))
	t.Cleanup(server.Close)

	client, err := backend.NewClient(server.URL, "dealer_session", 5*time.Second)
	require.NoError(t, err)

	return NewManager(client, 10, 4, time.Minute, 30*time.Minute)
}

func TestManagerSessionsAreIsolated(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)

	first := m.Session("sess-1")
	second := m.Session("sess-2")
	require.NotSame(t, first, second)

	first.Alerts().Push("only for the first session", model.AlertInfo)
	require.Len(t, first.Alerts().Snapshot(), 1)
	require.Empty(t, second.Alerts().Snapshot())

	// The same token always maps to the same bucket.
	require.Same(t, first, m.Session("sess-1"))
}

func TestSessionListingReuse(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	session := m.Session("sess-1")

	first, err := session.Listing("organizations", m.Client(), m.PageSize())
	require.NoError(t, err)

	again, err := session.Listing("organizations", m.Client(), m.PageSize())
	require.NoError(t, err)
	require.Same(t, first, again)

	other, err := session.Listing("users", m.Client(), m.PageSize())
	require.NoError(t, err)
	require.NotSame(t, first, other)
}

func TestSessionListingUnknownEntity(t *testing.T) {
	t.Parallel()

	m := newTestManager(t)
	_, err := m.Session("sess-1").Listing("invoices", m.Client(), m.PageSize())
	require.ErrorIs(t, err, model.ErrUnknownEntity)
}
