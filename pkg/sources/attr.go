package sources

import (
	"strconv"
	"strings"
	"time"

	"github.com/coloradofire/perimeters/pkg/errors"
	"github.com/coloradofire/perimeters/pkg/perimeters"
)

// Attribute accessors. Upstream services deliver attributes as loosely
// typed JSON values: strings, float64 numbers, epoch milliseconds for
// dates. Absent or null attributes return nil without error; only values
// that exist but cannot be interpreted produce a MappingError.

// strAttr returns the attribute as a trimmed string, nil when absent,
// null, or blank.
func strAttr(attrs map[string]any, key string) *string {
	v, ok := attrs[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// intAttr returns the attribute as an int, handling JSON numbers and
// numeric strings.
func intAttr(attrs map[string]any, key string, source perimeters.SourceID) (*int, error) {
	v, ok := attrs[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case float64:
		i := int(n)
		return &i, nil
	case int:
		return &n, nil
	case int64:
		i := int(n)
		return &i, nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return nil, errors.NewMappingError(string(source), key, err)
		}
		return &i, nil
	default:
		return nil, errors.NewMappingError(string(source), key, errors.ErrInvalidInput)
	}
}

// floatAttr returns the attribute as a float64.
func floatAttr(attrs map[string]any, key string, source perimeters.SourceID) (*float64, error) {
	v, ok := attrs[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	case int64:
		f := float64(n)
		return &f, nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, errors.NewMappingError(string(source), key, err)
		}
		return &f, nil
	default:
		return nil, errors.NewMappingError(string(source), key, errors.ErrInvalidInput)
	}
}

// dateAttr returns the attribute as a UTC time. Accepts time.Time, epoch
// milliseconds, and RFC 3339 or date-only strings.
func dateAttr(attrs map[string]any, key string, source perimeters.SourceID) (*time.Time, error) {
	v, ok := attrs[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch d := v.(type) {
	case time.Time:
		t := d.UTC()
		return &t, nil
	case float64:
		t := time.UnixMilli(int64(d)).UTC()
		return &t, nil
	case int64:
		t := time.UnixMilli(d).UTC()
		return &t, nil
	case string:
		s := strings.TrimSpace(d)
		if s == "" {
			return nil, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				t = t.UTC()
				return &t, nil
			}
		}
		return nil, errors.NewMappingError(string(source), key, errors.ErrInvalidInput)
	default:
		return nil, errors.NewMappingError(string(source), key, errors.ErrInvalidInput)
	}
}

// datePartsFrom splits a date into year, month pointer, day pointer.
func datePartsFrom(t *time.Time) (int, *int, *int) {
	if t == nil {
		return 0, nil, nil
	}
	year := t.Year()
	month := int(t.Month())
	day := t.Day()
	return year, &month, &day
}
