// Package search implements the listing search modifier grammar: a raw
// search value may carry prefix modifiers `!` (negate) and `^` (case
// sensitive), and a double-quoted term demands a strict whole-value match.
// The raw value still goes to the backend untouched; the parsed modifiers are
// re-applied over the fetched rows.
package search

import (
	"regexp"
	"strings"

	"dealer-admin-console/internal/model"
)

const strictMatch = "strict-match"

var tokenPattern = regexp.MustCompile(`[\^!]?"(?:[^"\\]|\\.)*"|[\^!]?[^:]+`)

// Parsed is the outcome of tokenizing a raw search value.
type Parsed struct {
	Term      string
	Modifiers []string
}

func Parse(raw string) Parsed {
	parsed := Parsed{}
	if strings.TrimSpace(raw) == "" {
		return parsed
	}

	for _, token := range tokenPattern.FindAllString(raw, -1) {
		if strings.HasPrefix(token, "^") || strings.HasPrefix(token, "!") {
			for _, r := range token {
				parsed.Modifiers = append(parsed.Modifiers, string(r))
			}
			continue
		}

		if strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) && len(token) >= 2 {
			parsed.Modifiers = append(parsed.Modifiers, strictMatch)
			parsed.Term = token[1 : len(token)-1]
			continue
		}

		parsed.Term = token
	}

	return parsed
}

// HasModifiers reports whether the raw value carries any modifier, i.e.
// whether client-side re-filtering applies at all.
func (p Parsed) HasModifiers() bool {
	for _, modifier := range p.Modifiers {
		switch modifier {
		case "!", "^", strictMatch:
			return true
		}
	}
	return false
}

func HasModifiers(raw string) bool {
	return Parse(raw).HasModifiers()
}

// Apply filters records by the parsed modifiers. Without a term everything
// passes; without modifiers it falls back to a plain substring containment
// filter.
func Apply(records []model.Record, raw string) []model.Record {
	parsed := Parse(raw)
	if parsed.Term == "" {
		return records
	}

	filtered := records
	for _, modifier := range parsed.Modifiers {
		switch modifier {
		case "!":
			filtered = filter(filtered, func(rec model.Record) bool {
				return !matches(rec, parsed.Term, false, false)
			})
		case "^":
			filtered = filter(filtered, func(rec model.Record) bool {
				return matches(rec, parsed.Term, false, true)
			})
		case strictMatch:
			filtered = filter(filtered, func(rec model.Record) bool {
				return matches(rec, parsed.Term, true, false)
			})
		}
	}

	if parsed.HasModifiers() {
		return filtered
	}

	return filter(filtered, func(rec model.Record) bool {
		return matches(rec, parsed.Term, false, false)
	})
}

func filter(records []model.Record, keep func(model.Record) bool) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if keep(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// matches walks the record's values recursively; only string leaves
// participate, mirroring the console's original behavior.
func matches(value any, term string, strict bool, caseSensitive bool) bool {
	switch v := value.(type) {
	case model.Record:
		for _, nested := range v {
			if matches(nested, term, strict, caseSensitive) {
				return true
			}
		}
	case map[string]any:
		for _, nested := range v {
			if matches(nested, term, strict, caseSensitive) {
				return true
			}
		}
	case []any:
		for _, nested := range v {
			if matches(nested, term, strict, caseSensitive) {
				return true
			}
		}
	case string:
		candidate := v
		if !caseSensitive {
			candidate = strings.ToLower(candidate)
			term = strings.ToLower(term)
		}
		if strict {
			return candidate == term
		}
		return strings.Contains(candidate, term)
	}
	return false
}
