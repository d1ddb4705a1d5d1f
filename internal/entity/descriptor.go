package entity

import (
	"dealer-admin-console/internal/model"
	"dealer-admin-console/internal/validate"
)

// Facet binds a filter key to the dataset array and column it projects its
// distinct values from.
type Facet struct {
	Name       string // filter key sent to the backend
	DatasetKey string // array inside the filters endpoint response
	Column     string // dot-path into each dataset record
}

// Descriptor parametrizes the generic listing engine for one entity. The five
// entity screens differ only in these values.
type Descriptor struct {
	Name          string // endpoint segment and registry key
	Singular      string // display noun, e.g. "organization"
	Plural        string // display noun, e.g. "organizations"
	Endpoint      string
	IdentityField string
	PluralKey     string // array key inside the listing response
	TitleField    string // field used in delete messaging
	SortFields    []string
	ClientSort    bool // lookup listings sort locally over the fetched page
	Facets        []Facet
	FormRules     []validate.Rule
}

// SortField resolves a header column index to the backend field name, falling
// back to the identity field for unmapped indexes.
func (d Descriptor) SortField(column int) string {
	if column >= 0 && column < len(d.SortFields) {
		return d.SortFields[column]
	}
	return d.IdentityField
}

func (d Descriptor) Title(rec model.Record) string {
	if title, ok := rec[d.TitleField].(string); ok && title != "" {
		return title
	}
	return model.Key(rec.Identity(d.IdentityField))
}

var registry = map[string]Descriptor{
	"organizations": {
		Name:          "organizations",
		Singular:      "organization",
		Plural:        "organizations",
		Endpoint:      "/api/organizations",
		IdentityField: "orgId",
		PluralKey:     "organizations",
		TitleField:    "organizationName",
		SortFields:    []string{"organizationName", "orgPrimaryEmailId", "organizationType", "industryType"},
		Facets: []Facet{
			{Name: "organizationName", DatasetKey: "organizations", Column: "organizationName"},
			{Name: "orgPrimaryEmailId", DatasetKey: "organizations", Column: "orgPrimaryEmailId"},
			{Name: "firstName", DatasetKey: "organizations", Column: "orgPOCFirstName"},
			{Name: "lastName", DatasetKey: "organizations", Column: "orgPOCLastName"},
			{Name: "organizationType", DatasetKey: "organizationTypes", Column: "orgType"},
			{Name: "industryType", DatasetKey: "industryTypes", Column: "industryType"},
		},
		FormRules: []validate.Rule{
			{Field: "organizationName", Kind: validate.String},
			{Field: "orgPrimaryEmailId", Kind: validate.String},
			{Field: "orgPOCFirstName", Kind: validate.String},
			{Field: "orgPOCLastName", Kind: validate.String, Optional: true},
			{Field: "organizationType", Kind: validate.Number},
			{Field: "industryType", Kind: validate.Number},
			{Field: "isActive", Kind: validate.Bool},
		},
	},
	"branches": {
		Name:          "branches",
		Singular:      "branch",
		Plural:        "branches",
		Endpoint:      "/api/branches",
		IdentityField: "orgBranchId",
		PluralKey:     "branches",
		TitleField:    "orgBranchName",
		SortFields:    []string{"orgBranchName", "organizationName", "industryType"},
		Facets: []Facet{
			{Name: "orgBranchName", DatasetKey: "branches", Column: "orgBranchName"},
			{Name: "organizationName", DatasetKey: "organizations", Column: "organizationName"},
			{Name: "industryType", DatasetKey: "industryTypes", Column: "industryType"},
		},
		FormRules: []validate.Rule{
			{Field: "orgBranchName", Kind: validate.String},
			{Field: "organizationName", Kind: validate.Number},
			{Field: "industryType", Kind: validate.Number},
			{Field: "addressType", Kind: validate.Number},
			{Field: "addressLine1", Kind: validate.String},
			{Field: "addressLine2", Kind: validate.String, Optional: true},
			{Field: "addressLine3", Kind: validate.String, Optional: true},
			{Field: "phoneNumberTypeId", Kind: validate.Number},
			{Field: "phoneNumber", Kind: validate.String},
			{Field: "country", Kind: validate.Number},
			{Field: "state", Kind: validate.Number},
			{Field: "city", Kind: validate.Number},
			{Field: "isActive", Kind: validate.Bool},
		},
	},
	"users": {
		Name:          "users",
		Singular:      "user",
		Plural:        "users",
		Endpoint:      "/api/users",
		IdentityField: "userId",
		PluralKey:     "users",
		TitleField:    "firstName",
		SortFields:    []string{"firstName", "lastName", "email", "phoneNumber"},
		Facets: []Facet{
			{Name: "firstName", DatasetKey: "users", Column: "firstName"},
			{Name: "lastName", DatasetKey: "users", Column: "lastName"},
			{Name: "email", DatasetKey: "users", Column: "email"},
		},
		FormRules: []validate.Rule{
			{Field: "firstName", Kind: validate.String},
			{Field: "lastName", Kind: validate.String},
			{Field: "email", Kind: validate.String},
			{Field: "phoneNumber", Kind: validate.String},
			{Field: "organizationName", Kind: validate.Number},
			{Field: "isActive", Kind: validate.Bool},
		},
	},
	"countries": {
		Name:          "countries",
		Singular:      "country",
		Plural:        "countries",
		Endpoint:      "/api/countries",
		IdentityField: "countryId",
		PluralKey:     "countries",
		TitleField:    "country",
		SortFields:    []string{"countryId", "country"},
		ClientSort:    true,
		FormRules: []validate.Rule{
			{Field: "country", Kind: validate.String},
			{Field: "isActive", Kind: validate.Bool},
		},
	},
	"states": {
		Name:          "states",
		Singular:      "state",
		Plural:        "states",
		Endpoint:      "/api/states",
		IdentityField: "countryStateId",
		PluralKey:     "states",
		TitleField:    "countryState",
		SortFields:    []string{"countryStateId", "countryState", "country.country"},
		ClientSort:    true,
		FormRules: []validate.Rule{
			{Field: "countryState", Kind: validate.String},
			{Field: "country", Kind: validate.Number},
			{Field: "isActive", Kind: validate.Bool},
		},
	},
	"cities": {
		Name:          "cities",
		Singular:      "city",
		Plural:        "cities",
		Endpoint:      "/api/cities",
		IdentityField: "cityId",
		PluralKey:     "cities",
		TitleField:    "city",
		SortFields:    []string{"cityId", "city", "state.countryState"},
		ClientSort:    true,
		FormRules: []validate.Rule{
			{Field: "city", Kind: validate.String},
			{Field: "country", Kind: validate.Number},
			{Field: "state", Kind: validate.Number},
			{Field: "isActive", Kind: validate.Bool},
		},
	},
}

func Get(name string) (Descriptor, bool) {
	desc, ok := registry[name]
	return desc, ok
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
