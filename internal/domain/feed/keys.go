package feed

import "strconv"

// Upstream stat blocks rename fields between feed revisions. These helpers
// read the first present candidate key and fall back to zero values instead
// of panicking on shape surprises.

// Number returns the first candidate key present in the block as a float64.
func Number(block map[string]any, keys ...string) (float64, bool) {
	for _, key := range keys {
		raw, ok := block[key]
		if !ok || raw == nil {
			continue
		}

		value, ok := asFloat64(raw)
		if !ok {
			continue
		}

		return value, true
	}

	return 0, false
}

// Int is Number truncated to int, defaulting to zero.
func Int(block map[string]any, keys ...string) int {
	value, ok := Number(block, keys...)
	if !ok {
		return 0
	}

	return int(value)
}

// Text returns the first candidate key present in the block as a string.
func Text(block map[string]any, keys ...string) string {
	for _, key := range keys {
		raw, ok := block[key]
		if !ok || raw == nil {
			continue
		}

		if value, ok := raw.(string); ok && value != "" {
			return value
		}
	}

	return ""
}

func asFloat64(raw any) (float64, bool) {
	switch value := raw.(type) {
	case float64:
		return value, true
	case float32:
		return float64(value), true
	case int:
		return float64(value), true
	case int64:
		return float64(value), true
	case string:
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}
