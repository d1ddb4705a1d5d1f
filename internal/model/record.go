package model

// Record is a single entity row as decoded from the backend. The shape is
// opaque to the engine except for the identity field and the isActive flag.
type Record map[string]any

func (r Record) Identity(field string) any {
	return r[field]
}

// IsActive reports the soft-delete flag. A missing or non-boolean value is
// treated as inactive.
func (r Record) IsActive() bool {
	active, ok := r["isActive"].(bool)
	return ok && active
}

func (r Record) SetActive(active bool) {
	r["isActive"] = active
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// FacetDataset holds the raw per-key record arrays returned by the filters
// endpoint. Facet values are projected out of it, never filtered against it.
type FacetDataset map[string][]Record

// DependentOption is one selectable value of a dependent form field.
type DependentOption struct {
	Key       any    `json:"key"`
	Value     string `json:"value"`
	DependsOn any    `json:"dependsOn,omitempty"`
}

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

func (d SortDirection) Flip() SortDirection {
	if d == SortAsc {
		return SortDesc
	}
	return SortAsc
}
