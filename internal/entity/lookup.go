package entity

import "dealer-admin-console/internal/model"

// LookupBinding maps one dependent-field dataset onto key/value/dependsOn
// fields of the lookup endpoint's records.
type LookupBinding struct {
	Name          string
	Endpoint      string
	PluralKey     string
	KeyField      string
	ValueField    string
	DependsOnField string // empty for top-level datasets
}

var lookups = map[string]LookupBinding{
	"countries": {
		Name:       "countries",
		Endpoint:   "/api/lookup/countries",
		PluralKey:  "countries",
		KeyField:   "countryId",
		ValueField: "country",
	},
	"states": {
		Name:           "states",
		Endpoint:       "/api/lookup/states",
		PluralKey:      "states",
		KeyField:       "countryStateId",
		ValueField:     "countryState",
		DependsOnField: "countryId",
	},
	"cities": {
		Name:           "cities",
		Endpoint:       "/api/lookup/cities",
		PluralKey:      "cities",
		KeyField:       "cityId",
		ValueField:     "city",
		DependsOnField: "countryStateId",
	},
	"industry-types": {
		Name:           "industry-types",
		Endpoint:       "/api/lookup/industry-types",
		PluralKey:      "industryTypes",
		KeyField:       "industryTypeId",
		ValueField:     "industryType",
		DependsOnField: "parentIndustryTypeId",
	},
	"organization-types": {
		Name:       "organization-types",
		Endpoint:   "/api/lookup/organization-types",
		PluralKey:  "organizationTypes",
		KeyField:   "orgTypeId",
		ValueField: "orgType",
	},
	"address-types": {
		Name:       "address-types",
		Endpoint:   "/api/lookup/address-types",
		PluralKey:  "addressTypes",
		KeyField:   "addressTypeId",
		ValueField: "addressType",
	},
	// The backend nests phone number types under "phoneNumbers".
	"phone-number-types": {
		Name:       "phone-number-types",
		Endpoint:   "/api/lookup/phone-number-types",
		PluralKey:  "phoneNumbers",
		KeyField:   "phoneNumberTypeId",
		ValueField: "phoneNumberType",
	},
}

func GetLookup(name string) (LookupBinding, bool) {
	binding, ok := lookups[name]
	return binding, ok
}

// Options converts lookup records into dependent options, dropping records
// that lack a key.
func (b LookupBinding) Options(records []model.Record) []model.DependentOption {
	options := make([]model.DependentOption, 0, len(records))
	for _, rec := range records {
		key, exists := rec[b.KeyField]
		if !exists || key == nil {
			continue
		}

		option := model.DependentOption{
			Key:   key,
			Value: model.Key(rec[b.ValueField]),
		}
		if b.DependsOnField != "" {
			option.DependsOn = rec[b.DependsOnField]
		}
		options = append(options, option)
	}
	return options
}
