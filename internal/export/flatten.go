package export

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"dealer-admin-console/internal/model"
)

const exportDateLayout = "02-01-2006"

// dateLayouts are the timestamp shapes backends emit inside relation objects.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Flatten collapses a record's nested relation objects into a single level.
// Keys ending in the identity suffix are dropped, scalar array elements keep
// their index as `key_i`, nested date-like values are reformatted to
// DD-MM-YYYY, and key collisions overwrite last-write-wins — multiple nested
// children can legitimately flatten to the same name and that lossiness is
// accepted. Keys are visited in sorted order within each record so the
// outcome is deterministic.
func Flatten(rec model.Record) model.Record {
	out := model.Record{}
	flattenInto(out, map[string]any(rec), false)
	return out
}

func flattenInto(out model.Record, src map[string]any, nested bool) {
	for _, key := range sortedKeys(src) {
		if strings.HasSuffix(key, "Id") {
			continue
		}

		switch value := src[key].(type) {
		case []any:
			for index, item := range value {
				if child, ok := asObject(item); ok {
					flattenInto(out, child, true)
					continue
				}
				out[key+"_"+strconv.Itoa(index)] = leaf(item, true)
			}
		case map[string]any:
			flattenInto(out, value, true)
		case model.Record:
			flattenInto(out, map[string]any(value), true)
		default:
			out[key] = leaf(value, nested)
		}
	}
}

func asObject(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case map[string]any:
		return v, true
	case model.Record:
		return map[string]any(v), true
	default:
		return nil, false
	}
}

// leaf formats nested date-like strings for export; everything else passes
// through untouched.
func leaf(value any, nested bool) any {
	if !nested {
		return value
	}

	s, ok := value.(string)
	if !ok {
		return value
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed.Format(exportDateLayout)
		}
	}
	return value
}

func sortedKeys(src map[string]any) []string {
	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
