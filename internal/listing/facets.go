package listing

import (
	"context"
	"fmt"
	"sync"

	"dealer-admin-console/internal/backend"
	"dealer-admin-console/internal/entity"
	"dealer-admin-console/internal/model"
)

// FacetStore holds the facet dataset plus the user's pending and applied
// selections. Pending edits never trigger a refetch; Commit promotes them.
type FacetStore struct {
	mu      sync.Mutex
	desc    entity.Descriptor
	client  *backend.Client
	dataset model.FacetDataset
	loaded  bool
	pending map[string][]string
	applied map[string][]string
}

func NewFacetStore(desc entity.Descriptor, client *backend.Client) *FacetStore {
	return &FacetStore{
		desc:    desc,
		client:  client,
		pending: map[string][]string{},
		applied: map[string][]string{},
	}
}

// Load fetches the facet dataset once per listing; later calls are no-ops.
func (f *FacetStore) Load(ctx context.Context, session string) error {
	f.mu.Lock()
	if f.loaded {
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()

	env, err := f.client.Get(ctx, "/api/filters/"+f.desc.Name, nil, session)
	if err != nil {
		return fmt.Errorf("failed to load %s facets: %w", f.desc.Name, err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.dataset = env.FacetDataset()
	f.loaded = true
	return nil
}

// Values projects the distinct values of one facet out of the dataset,
// de-duplicated in first-seen order.
func (f *FacetStore) Values(facetName string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, facet := range f.desc.Facets {
		if facet.Name != facetName {
			continue
		}

		seen := map[string]struct{}{}
		var values []string
		for _, rec := range f.dataset[facet.DatasetKey] {
			value := ColumnValue(rec, facet.Column)
			if value == nil {
				continue
			}
			key := model.Key(value)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			values = append(values, key)
		}
		return values
	}
	return nil
}

func (f *FacetStore) Toggle(facetName string, value string, selected bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	current := f.pending[facetName]
	if selected {
		for _, existing := range current {
			if existing == value {
				return
			}
		}
		f.pending[facetName] = append(current, value)
		return
	}

	kept := current[:0]
	for _, existing := range current {
		if existing != value {
			kept = append(kept, existing)
		}
	}
	f.pending[facetName] = kept
}

// Commit promotes the pending selections to applied and returns them for the
// refetch.
func (f *FacetStore) Commit() map[string][]string {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.applied = cloneFilters(f.pending)
	return cloneFilters(f.applied)
}

// AppliedCount is the badge value: the number of facets with at least one
// applied selection.
func (f *FacetStore) AppliedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	count := 0
	for _, values := range f.applied {
		if len(values) > 0 {
			count++
		}
	}
	return count
}

func (f *FacetStore) Pending() map[string][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneFilters(f.pending)
}

func (f *FacetStore) Loaded() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loaded
}
