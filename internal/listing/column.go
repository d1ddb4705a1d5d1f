package listing

import (
	"sort"
	"strconv"
	"strings"

	"dealer-admin-console/internal/model"
)

// ColumnValue resolves a dot-path ("country.country") into a record. A record
// that is itself wrapped in an array contributes its first element.
func ColumnValue(rec any, path string) any {
	current := rec
	if list, ok := current.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		current = list[0]
	}

	for _, part := range strings.Split(path, ".") {
		switch node := current.(type) {
		case model.Record:
			current = node[part]
		case map[string]any:
			current = node[part]
		default:
			return nil
		}
		if current == nil {
			return nil
		}
	}
	return current
}

// SortRecords orders rows locally for client-sorted listings. Numeric values
// compare numerically, everything else case-insensitively; ties keep their
// fetched order.
func SortRecords(records []model.Record, path string, direction model.SortDirection) {
	sort.SliceStable(records, func(i, j int) bool {
		less := columnLess(ColumnValue(records[i], path), ColumnValue(records[j], path))
		if direction == model.SortDesc {
			return columnLess(ColumnValue(records[j], path), ColumnValue(records[i], path))
		}
		return less
	})
}

func columnLess(a any, b any) bool {
	if a == nil {
		return b != nil
	}
	if b == nil {
		return false
	}

	af, aerr := strconv.ParseFloat(model.Key(a), 64)
	bf, berr := strconv.ParseFloat(model.Key(b), 64)
	if aerr == nil && berr == nil {
		return af < bf
	}

	return strings.ToLower(model.Key(a)) < strings.ToLower(model.Key(b))
}
