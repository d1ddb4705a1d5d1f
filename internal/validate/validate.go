package validate

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the expected shape of a form field. Numbers are coerced from
// strings because select inputs always submit string values.
type Kind string

const (
	String Kind = "string"
	Number Kind = "number"
	Bool   Kind = "bool"
)

type Rule struct {
	Field    string
	Kind     Kind
	Optional bool
}

// Errors maps field names to their validation messages.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	return fmt.Sprintf("validation failed for %s", strings.Join(fields, ", "))
}

// Payload checks a form submission against the rules and returns the coerced
// payload. On failure it returns Errors with one message per offending field
// and the caller must not issue any network call.
func Payload(payload map[string]any, rules []Rule) (map[string]any, error) {
	out := make(map[string]any, len(rules))
	fieldErrors := Errors{}

	for _, rule := range rules {
		value, present := payload[rule.Field]
		if !present || value == nil || value == "" {
			if !rule.Optional {
				fieldErrors[rule.Field] = "This field is required."
			}
			continue
		}

		coerced, err := coerce(value, rule.Kind)
		if err != nil {
			fieldErrors[rule.Field] = err.Error()
			continue
		}
		out[rule.Field] = coerced
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}
	return out, nil
}

func coerce(value any, kind Kind) (any, error) {
	switch kind {
	case String:
		s, ok := value.(string)
		if !ok {
			return nil, fmt.Errorf("Expected a text value.")
		}
		return s, nil

	case Number:
		switch v := value.(type) {
		case float64:
			return v, nil
		case string:
			parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("Expected a numeric value.")
			}
			return parsed, nil
		default:
			return nil, fmt.Errorf("Expected a numeric value.")
		}

	case Bool:
		b, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("Expected a boolean value.")
		}
		return b, nil

	default:
		return value, nil
	}
}
