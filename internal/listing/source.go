package listing

import (
	"context"
	"fmt"

	"dealer-admin-console/internal/backend"
	"dealer-admin-console/internal/entity"
	"dealer-admin-console/internal/model"
)

// Page is one fetched slice of a listing.
type Page struct {
	Records []model.Record
	Total   int
}

// DataSource fetches listing pages for one entity. Cancellation is the
// caller's concern via ctx; a cancelled fetch returns ctx's error untouched.
type DataSource struct {
	client *backend.Client
	desc   entity.Descriptor
}

func NewDataSource(client *backend.Client, desc entity.Descriptor) *DataSource {
	return &DataSource{client: client, desc: desc}
}

func (s *DataSource) Fetch(ctx context.Context, q Query, session string) (Page, error) {
	env, err := s.client.Get(ctx, s.desc.Endpoint, BuildParams(q, s.desc), session)
	if err != nil {
		return Page{}, err
	}

	records, ok := env.Records(s.desc.PluralKey)
	if !ok {
		return Page{}, fmt.Errorf("%s response missing %q: %w", s.desc.Name, s.desc.PluralKey, model.ErrInvalidInput)
	}

	total, ok := env.Total()
	if !ok {
		// Backends omit the count when the page is empty.
		if len(records) == 0 {
			return Page{Records: []model.Record{}, Total: 0}, nil
		}
		return Page{}, fmt.Errorf("%s response missing record count: %w", s.desc.Name, model.ErrInvalidInput)
	}

	return Page{Records: records, Total: total}, nil
}
