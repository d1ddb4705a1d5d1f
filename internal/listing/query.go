package listing

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"dealer-admin-console/internal/entity"
	"dealer-admin-console/internal/model"
)

// NoSortColumn marks a listing with no active sort.
const NoSortColumn = -1

// Query is the complete request-shaping state of one listing: page, search,
// sort and applied filters. Any shape change (search, sort, filters) resets
// the page to 1; only explicit page navigation moves it elsewhere.
type Query struct {
	Page          int
	PageSize      int
	Search        string
	SortColumn    int
	SortDirection model.SortDirection
	Filters       map[string][]string
}

func NewQuery(pageSize int) Query {
	return Query{
		Page:          1,
		PageSize:      pageSize,
		SortColumn:    NoSortColumn,
		SortDirection: model.SortAsc,
		Filters:       map[string][]string{},
	}
}

// SetPage moves to the requested page, clamped to [1, ceil(total/pageSize)]
// when the total is known (total >= 0).
func (q *Query) SetPage(page int, total int) {
	if page < 1 {
		page = 1
	}
	if total >= 0 {
		last := (total + q.PageSize - 1) / q.PageSize
		if last < 1 {
			last = 1
		}
		if page > last {
			page = last
		}
	}
	q.Page = page
}

func (q *Query) SetSearch(search string) {
	if q.Search == search {
		return
	}
	q.Search = search
	q.Page = 1
}

// ClickColumn applies the header sort state machine: clicking the active
// column flips the direction, clicking another column selects it ascending.
func (q *Query) ClickColumn(column int) {
	if column == q.SortColumn {
		q.SortDirection = q.SortDirection.Flip()
	} else {
		q.SortColumn = column
		q.SortDirection = model.SortAsc
	}
	q.Page = 1
}

func (q *Query) SetFilters(filters map[string][]string) {
	q.Filters = cloneFilters(filters)
	q.Page = 1
}

func (q Query) Clone() Query {
	clone := q
	clone.Filters = cloneFilters(q.Filters)
	return clone
}

func cloneFilters(filters map[string][]string) map[string][]string {
	out := make(map[string][]string, len(filters))
	for key, values := range filters {
		out[key] = append([]string(nil), values...)
	}
	return out
}

// BuildParams renders the query into backend request parameters. Pure: the
// same query always produces the same parameter set.
func BuildParams(q Query, desc entity.Descriptor) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(q.Page))

	if search := strings.TrimSpace(q.Search); search != "" {
		params.Set("search", q.Search)
	}

	// Lookup listings sort locally; order parameters would be ignored.
	if q.SortColumn != NoSortColumn && q.SortDirection != "" && !desc.ClientSort {
		params.Set("order", string(q.SortDirection))
		params.Set("orderBy", desc.SortField(q.SortColumn))
	}

	if active := activeFilters(q.Filters); len(active) > 0 {
		encoded, err := json.Marshal(active)
		if err == nil {
			params.Set("filters", string(encoded))
		}
	}

	return params
}

// BuildExportParams keeps only the search constraint: exports ignore
// pagination and column sorting.
func BuildExportParams(search string) url.Values {
	params := url.Values{}
	if strings.TrimSpace(search) != "" {
		params.Set("search", search)
	}
	return params
}

// activeFilters drops facets whose selection set is empty, so a toggled-on,
// toggled-off facet never reaches the backend.
func activeFilters(filters map[string][]string) map[string][]string {
	active := map[string][]string{}
	for key, values := range filters {
		if len(values) > 0 {
			active[key] = values
		}
	}
	return active
}
