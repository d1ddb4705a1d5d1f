package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"dealer-admin-console/internal/backend"
	"dealer-admin-console/internal/entity"
	"dealer-admin-console/internal/model"
	"dealer-admin-console/internal/notify"
	"dealer-admin-console/internal/search"
)

// State is the listing's fetch lifecycle. Empty is terminal for a query that
// matched nothing and is distinct from the transient loading state.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateEmpty   State = "empty"
)

// DeleteIntent is a delete awaiting explicit confirmation; deletion is never
// silent.
type DeleteIntent struct {
	Bulk  bool  `json:"bulk"`
	ID    any   `json:"id,omitempty"`
	Title string `json:"title,omitempty"`
	Count int   `json:"count"`
}

// Controller is the engine behind one entity listing: it owns the query
// state, the fetched rows, selection, facets and the delete confirmation
// flow. Every query-shape trigger cancels the in-flight fetch and bumps the
// generation counter; a response is applied only when its generation still
// matches, so a stale response can never overwrite a fresher one regardless
// of arrival order.
type Controller struct {
	mu      sync.Mutex
	desc    entity.Descriptor
	source  *DataSource
	client  *backend.Client
	alerts  *notify.Queue
	session string

	query      Query
	records    []model.Record
	total      int
	totalKnown bool
	state      State

	generation uint64
	cancel     context.CancelFunc

	selection     *SelectionSet
	facets        *FacetStore
	pendingDelete *DeleteIntent
}

func NewController(desc entity.Descriptor, client *backend.Client, alerts *notify.Queue, session string, pageSize int) *Controller {
	return &Controller{
		desc:      desc,
		source:    NewDataSource(client, desc),
		client:    client,
		alerts:    alerts,
		session:   session,
		query:     NewQuery(pageSize),
		state:     StateLoading,
		selection: NewSelectionSet(),
		facets:    NewFacetStore(desc, client),
	}
}

// Start issues the initial fetch exactly once.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == 0 {
		c.refreshLocked()
	}
}

func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := -1
	if c.totalKnown {
		total = c.total
	}
	before := c.query.Page
	c.query.SetPage(page, total)
	if c.query.Page != before {
		c.refreshLocked()
	}
}

func (c *Controller) SetSearch(value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.query.Search == value {
		return
	}
	c.query.SetSearch(value)
	c.refreshLocked()
}

func (c *Controller) ClickColumn(column int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.ClickColumn(column)
	c.refreshLocked()
}

// CommitFilters promotes pending facet edits to the applied set and refetches.
func (c *Controller) CommitFilters() {
	applied := c.facets.Commit()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.query.SetFilters(applied)
	c.refreshLocked()
}

func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshLocked()
}

// refreshLocked supersedes any in-flight fetch: the previous context is
// cancelled and its generation invalidated before the new fetch starts.
func (c *Controller) refreshLocked() {
	if c.cancel != nil {
		c.cancel()
	}

	c.generation++
	generation := c.generation
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.state = StateLoading

	go c.fetch(ctx, generation, c.query.Clone())
}

func (c *Controller) fetch(ctx context.Context, generation uint64, q Query) {
	page, err := c.source.Fetch(ctx, q, c.session)

	c.mu.Lock()
	defer c.mu.Unlock()

	// A superseded fetch must not touch state even if it resolves last.
	if generation != c.generation {
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.state = StateReady
		c.alerts.Push(
			fmt.Sprintf("Unable to fetch the %s from the server. Please try again later.", c.desc.Plural),
			model.AlertError,
		)
		return
	}

	records := page.Records

	if c.desc.ClientSort && q.SortColumn != NoSortColumn {
		SortRecords(records, c.desc.SortField(q.SortColumn), q.SortDirection)
	}

	// Modifier search (negation, case-sensitive, strict match) re-filters the
	// fetched rows; a plain search term trusts the server's filtering.
	if search.HasModifiers(q.Search) {
		records = search.Apply(records, q.Search)
	}

	c.records = records
	c.total = page.Total
	c.totalKnown = true
	if page.Total == 0 {
		c.records = []model.Record{}
		c.state = StateEmpty
	} else {
		c.state = StateReady
	}
}

// LoadFacets fetches the facet dataset on first use.
func (c *Controller) LoadFacets(ctx context.Context) error {
	return c.facets.Load(ctx, c.session)
}

func (c *Controller) Facets() *FacetStore {
	return c.facets
}

func (c *Controller) ToggleSelection(id any, selected bool) {
	c.selection.Toggle(id, selected)
}

func (c *Controller) ClearSelection() {
	c.selection.Clear()
}

// RequestDelete stages a single delete for confirmation. A record that is
// already inactive fails fast with a warning and no network call.
func (c *Controller) RequestDelete(id any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	record := c.findLocked(id)
	if record == nil {
		return model.ErrRecordNotFound
	}

	if !record.IsActive() {
		c.alerts.Push(
			fmt.Sprintf("The %s has already been deleted!", c.desc.Singular),
			model.AlertWarning,
		)
		return model.ErrAlreadyDeleted
	}

	c.pendingDelete = &DeleteIntent{ID: id, Title: c.desc.Title(record), Count: 1}
	return nil
}

// RequestBulkDelete stages the current selection for confirmation. An empty
// selection is a no-op, never an error.
func (c *Controller) RequestBulkDelete() {
	count := c.selection.Count()
	if count == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = &DeleteIntent{Bulk: true, Count: count}
}

func (c *Controller) CancelDelete() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pendingDelete = nil
}

// ConfirmDelete executes the staged delete. On backend acknowledgement the
// matching rows flip isActive locally without a refetch; on failure local
// rows stay untouched. Confirmation and selection state are cleared either
// way so the listing never gets stuck.
func (c *Controller) ConfirmDelete(ctx context.Context) error {
	c.mu.Lock()
	intent := c.pendingDelete
	c.pendingDelete = nil
	c.mu.Unlock()

	if intent == nil {
		return model.ErrNoPendingDelete
	}

	if intent.Bulk {
		return c.deleteMany(ctx, c.selection.Members())
	}
	return c.deleteOne(ctx, intent)
}

func (c *Controller) deleteOne(ctx context.Context, intent *DeleteIntent) error {
	c.alerts.Push(fmt.Sprintf("Deleting %s", intent.Title), model.AlertInfo)

	env, err := c.client.Post(ctx, c.desc.Endpoint+"/delete", map[string]any{
		c.desc.IdentityField: intent.ID,
	}, c.session)
	if err != nil {
		c.alerts.Push("Failed, please try again later.", model.AlertError)
		return err
	}
	if !env.OK() {
		c.alerts.Push("Failed, please try again later.", model.AlertError)
		return model.ErrBackendRejected
	}

	c.mu.Lock()
	if record := c.findLocked(intent.ID); record != nil {
		record.SetActive(false)
	}
	c.mu.Unlock()

	c.alerts.Push(
		fmt.Sprintf("%s (%s) has been deleted.", capitalize(c.desc.Singular), intent.Title),
		model.AlertSuccess,
	)
	return nil
}

func (c *Controller) deleteMany(ctx context.Context, ids []any) error {
	defer c.selection.Clear()

	if len(ids) == 0 {
		return nil
	}

	noun := c.desc.Plural
	if len(ids) == 1 {
		noun = c.desc.Singular
	}
	c.alerts.Push(fmt.Sprintf("Deleting %d %s", len(ids), noun), model.AlertInfo)

	members := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		members = append(members, map[string]any{c.desc.IdentityField: id})
	}

	env, err := c.client.Post(ctx, c.desc.Endpoint+"/bulk-delete", map[string]any{
		c.desc.PluralKey: members,
	}, c.session)
	if err != nil {
		c.alerts.Push("Failed, please try again later.", model.AlertError)
		return err
	}
	if !env.OK() {
		c.alerts.Push("Failed, please try again later.", model.AlertError)
		return model.ErrBackendRejected
	}

	c.mu.Lock()
	for _, id := range ids {
		if record := c.findLocked(id); record != nil {
			record.SetActive(false)
		}
	}
	c.mu.Unlock()

	verb := "have"
	if len(ids) == 1 {
		verb = "has"
	}
	c.alerts.Push(
		fmt.Sprintf("%s %s been deleted.", capitalize(noun), verb),
		model.AlertSuccess,
	)
	return nil
}

func (c *Controller) findLocked(id any) model.Record {
	for _, record := range c.records {
		if model.Key(record.Identity(c.desc.IdentityField)) == model.Key(id) {
			return record
		}
	}
	return nil
}

// Snapshot is the read model the facade serves.
type Snapshot struct {
	Entity             string               `json:"entity"`
	State              State                `json:"state"`
	Records            []model.Record       `json:"records"`
	Total              int                  `json:"total"`
	Page               int                  `json:"page"`
	PageSize           int                  `json:"pageSize"`
	Pages              []int                `json:"pages"`
	Search             string               `json:"search,omitempty"`
	SortColumn         *int                 `json:"sortColumn,omitempty"`
	SortDirection      model.SortDirection  `json:"sortDirection"`
	AppliedFilterCount int                  `json:"appliedFilterCount"`
	SelectionCount     int                  `json:"selectionCount"`
	BulkDeleteEnabled  bool                 `json:"bulkDeleteEnabled"`
	PendingDelete      *DeleteIntent        `json:"pendingDelete,omitempty"`
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	records := make([]model.Record, 0, len(c.records))
	for _, record := range c.records {
		records = append(records, record.Clone())
	}

	snapshot := Snapshot{
		Entity:         c.desc.Name,
		State:          c.state,
		Records:        records,
		Total:          c.total,
		Page:           c.query.Page,
		PageSize:       c.query.PageSize,
		Pages:          PageWindow(c.total, c.query.Page, c.query.PageSize),
		Search:         c.query.Search,
		SortDirection:  c.query.SortDirection,
		SelectionCount: c.selection.Count(),
	}
	snapshot.BulkDeleteEnabled = snapshot.SelectionCount > 0
	snapshot.AppliedFilterCount = c.facets.AppliedCount()
	if c.query.SortColumn != NoSortColumn {
		column := c.query.SortColumn
		snapshot.SortColumn = &column
	}
	if c.pendingDelete != nil {
		intent := *c.pendingDelete
		snapshot.PendingDelete = &intent
	}
	return snapshot
}

// Search returns the listing's current raw search value; exports reuse it.
func (c *Controller) SearchValue() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query.Search
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
