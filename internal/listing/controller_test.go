package listing

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dealer-admin-console/internal/backend"
	"dealer-admin-console/internal/entity"
	"dealer-admin-console/internal/model"
	"dealer-admin-console/internal/notify"
)

func newTestController(t *testing.T, entityName string, handler http.HandlerFunc) (*Controller, *notify.Queue) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := backend.NewClient(server.URL, "dealer_session", 5*time.Second)
	require.NoError(t, err)

	desc, ok := entity.Get(entityName)
	require.True(t, ok)

	alerts := notify.NewQueue(4, time.Minute)
	return NewController(desc, client, alerts, "session-token", 10), alerts
}

func listingBody(t *testing.T, pluralKey string, records []map[string]any, total int) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"status": "OK",
		"data":   map[string]any{pluralKey: records, "count": total},
	})
	require.NoError(t, err)
	return body
}

func waitForState(t *testing.T, c *Controller, state State) Snapshot {
	t.Helper()

	var snapshot Snapshot
	require.Eventually(t, func() bool {
		snapshot = c.Snapshot()
		return snapshot.State == state
	}, 2*time.Second, 10*time.Millisecond)
	return snapshot
}

func TestControllerInitialFetch(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t, "organizations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(listingBody(t, "organizations", []map[string]any{
			{"orgId": 1, "organizationName": "Acme", "isActive": true},
		}, 15))
	})

	c.Start()

	snapshot := waitForState(t, c, StateReady)
	require.Len(t, snapshot.Records, 1)
	require.Equal(t, 15, snapshot.Total)
	require.Equal(t, 1, snapshot.Page)
	require.Equal(t, []int{1, 2}, snapshot.Pages)
}

func TestControllerEmptyResult(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t, "organizations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(listingBody(t, "organizations", nil, 0))
	})

	c.Start()

	snapshot := waitForState(t, c, StateEmpty)
	require.Empty(t, snapshot.Records)
	require.Zero(t, snapshot.Total)
}

func TestControllerFetchFailureAlerts(t *testing.T) {
	t.Parallel()

	c, alerts := newTestController(t, "organizations", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	c.Start()

	waitForState(t, c, StateReady)
	require.Eventually(t, func() bool {
		snapshot := alerts.Snapshot()
		return len(snapshot) == 1 && snapshot[0].Status == model.AlertError
	}, 2*time.Second, 10*time.Millisecond)
	require.Contains(t, alerts.Snapshot()[0].Message, "Unable to fetch the organizations")
}

func TestControllerStaleResponseNeverApplies(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var mu sync.Mutex
	var searches []string

	c, _ := newTestController(t, "organizations", func(w http.ResponseWriter, r *http.Request) {
		search := r.URL.Query().Get("search")
		mu.Lock()
		searches = append(searches, search)
		mu.Unlock()

		if search == "" {
			// Hold the first response until after the fresher one landed.
			<-release
			_, _ = w.Write(listingBody(t, "organizations", []map[string]any{
				{"orgId": 1, "organizationName": "Stale", "isActive": true},
			}, 1))
			return
		}

		_, _ = w.Write(listingBody(t, "organizations", []map[string]any{
			{"orgId": 2, "organizationName": "Fresh", "isActive": true},
		}, 1))
	})

	c.Start()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(searches) >= 1
	}, 2*time.Second, 10*time.Millisecond)

	c.SetSearch("fresh")

	require.Eventually(t, func() bool {
		snapshot := c.Snapshot()
		return snapshot.State == StateReady && len(snapshot.Records) == 1 &&
			snapshot.Records[0]["organizationName"] == "Fresh"
	}, 2*time.Second, 10*time.Millisecond)

	close(release)
	time.Sleep(100 * time.Millisecond)

	snapshot := c.Snapshot()
	require.Equal(t, "Fresh", snapshot.Records[0]["organizationName"])
}

func TestControllerClientSortedListing(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t, "countries", func(w http.ResponseWriter, r *http.Request) {
		// Order parameters are never sent for client-sorted listings.
		require.Empty(t, r.URL.Query().Get("order"))
		_, _ = w.Write(listingBody(t, "countries", []map[string]any{
			{"countryId": 1, "country": "Uruguay", "isActive": true},
			{"countryId": 2, "country": "Argentina", "isActive": true},
			{"countryId": 3, "country": "brazil", "isActive": true},
		}, 3))
	})

	c.Start()
	waitForState(t, c, StateReady)

	c.ClickColumn(1)

	require.Eventually(t, func() bool {
		snapshot := c.Snapshot()
		return snapshot.State == StateReady && len(snapshot.Records) == 3 &&
			snapshot.Records[0]["country"] == "Argentina" &&
			snapshot.Records[1]["country"] == "brazil"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestControllerModifierSearchRefilters(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t, "organizations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(listingBody(t, "organizations", []map[string]any{
			{"orgId": 1, "organizationName": "Acme", "isActive": true},
			{"orgId": 2, "organizationName": "Bolt", "isActive": true},
		}, 2))
	})

	c.Start()
	waitForState(t, c, StateReady)

	c.SetSearch("!:Acme")

	require.Eventually(t, func() bool {
		snapshot := c.Snapshot()
		return snapshot.State == StateReady && len(snapshot.Records) == 1 &&
			snapshot.Records[0]["organizationName"] == "Bolt"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestControllerDeleteFlow(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var fetches int
	var deleteBody map[string]any

	c, alerts := newTestController(t, "organizations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			mu.Lock()
			_ = json.NewDecoder(r.Body).Decode(&deleteBody)
			mu.Unlock()
			_, _ = w.Write([]byte(`{"status":"OK","data":{}}`))
			return
		}

		mu.Lock()
		fetches++
		mu.Unlock()
		_, _ = w.Write(listingBody(t, "organizations", []map[string]any{
			{"orgId": 1, "organizationName": "Acme", "isActive": true},
		}, 1))
	})

	c.Start()
	waitForState(t, c, StateReady)

	require.NoError(t, c.RequestDelete(float64(1)))
	snapshot := c.Snapshot()
	require.NotNil(t, snapshot.PendingDelete)
	require.Equal(t, "Acme", snapshot.PendingDelete.Title)

	require.NoError(t, c.ConfirmDelete(context.Background()))

	mu.Lock()
	require.Equal(t, float64(1), deleteBody["orgId"])
	require.Equal(t, 1, fetches)
	mu.Unlock()

	// The row flips locally without a refetch.
	snapshot = c.Snapshot()
	require.Nil(t, snapshot.PendingDelete)
	require.False(t, snapshot.Records[0].IsActive())

	messages := alerts.Snapshot()
	require.Equal(t, model.AlertSuccess, messages[0].Status)
	require.Contains(t, messages[0].Message, "Acme")
}

func TestControllerDeleteAlreadyInactive(t *testing.T) {
	t.Parallel()

	c, alerts := newTestController(t, "organizations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(listingBody(t, "organizations", []map[string]any{
			{"orgId": 1, "organizationName": "Acme", "isActive": false},
		}, 1))
	})

	c.Start()
	waitForState(t, c, StateReady)

	err := c.RequestDelete(float64(1))
	require.ErrorIs(t, err, model.ErrAlreadyDeleted)
	require.Nil(t, c.Snapshot().PendingDelete)

	messages := alerts.Snapshot()
	require.Len(t, messages, 1)
	require.Equal(t, model.AlertWarning, messages[0].Status)
}

func TestControllerBulkDelete(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var bulkBody map[string]any

	c, _ := newTestController(t, "organizations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			mu.Lock()
			_ = json.NewDecoder(r.Body).Decode(&bulkBody)
			mu.Unlock()
			_, _ = w.Write([]byte(`{"status":"OK","data":{}}`))
			return
		}
		_, _ = w.Write(listingBody(t, "organizations", []map[string]any{
			{"orgId": 1, "organizationName": "Acme", "isActive": true},
			{"orgId": 2, "organizationName": "Bolt", "isActive": true},
		}, 2))
	})

	c.Start()
	waitForState(t, c, StateReady)

	c.ToggleSelection(float64(1), true)
	c.ToggleSelection(float64(2), true)
	require.True(t, c.Snapshot().BulkDeleteEnabled)

	c.RequestBulkDelete()
	intent := c.Snapshot().PendingDelete
	require.NotNil(t, intent)
	require.True(t, intent.Bulk)
	require.Equal(t, 2, intent.Count)

	require.NoError(t, c.ConfirmDelete(context.Background()))

	mu.Lock()
	members, ok := bulkBody["organizations"].([]any)
	mu.Unlock()
	require.True(t, ok)
	require.Len(t, members, 2)

	snapshot := c.Snapshot()
	require.Zero(t, snapshot.SelectionCount)
	require.False(t, snapshot.Records[0].IsActive())
	require.False(t, snapshot.Records[1].IsActive())
}

func TestControllerBulkDeleteBackendFailure(t *testing.T) {
	t.Parallel()

	c, alerts := newTestController(t, "organizations", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			_, _ = w.Write([]byte(`{"status":"FAILED","data":{}}`))
			return
		}
		_, _ = w.Write(listingBody(t, "organizations", []map[string]any{
			{"orgId": 1, "organizationName": "Acme", "isActive": true},
		}, 1))
	})

	c.Start()
	waitForState(t, c, StateReady)

	c.ToggleSelection(float64(1), true)
	c.RequestBulkDelete()

	err := c.ConfirmDelete(context.Background())
	require.ErrorIs(t, err, model.ErrBackendRejected)

	// Rows stay untouched, selection is cleared, and the failure is surfaced.
	snapshot := c.Snapshot()
	require.True(t, snapshot.Records[0].IsActive())
	require.Zero(t, snapshot.SelectionCount)

	messages := alerts.Snapshot()
	require.Equal(t, model.AlertError, messages[0].Status)
}

func TestControllerBulkDeleteEmptySelectionNoOp(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t, "organizations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(listingBody(t, "organizations", []map[string]any{
			{"orgId": 1, "organizationName": "Acme", "isActive": true},
		}, 1))
	})

	c.Start()
	waitForState(t, c, StateReady)

	c.RequestBulkDelete()
	require.Nil(t, c.Snapshot().PendingDelete)
}

func TestControllerCancelDelete(t *testing.T) {
	t.Parallel()

	c, _ := newTestController(t, "organizations", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(listingBody(t, "organizations", []map[string]any{
			{"orgId": 1, "organizationName": "Acme", "isActive": true},
		}, 1))
	})

	c.Start()
	waitForState(t, c, StateReady)

	require.NoError(t, c.RequestDelete(float64(1)))
	c.CancelDelete()
	require.Nil(t, c.Snapshot().PendingDelete)

	err := c.ConfirmDelete(context.Background())
	require.ErrorIs(t, err, model.ErrNoPendingDelete)
}
