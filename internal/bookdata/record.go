// Package bookdata holds the pass-through JSON book record model and the
// pure data-shaping helpers used by both the scrape and import commands.
package bookdata

// Record is one book's metadata as found in the JSON export. The structure
// is passed through as-is; fields are looked up with GetPath.
type Record = map[string]any

// GetPath extracts a value from a nested JSON structure. String keys index
// maps, int keys index slices (negative ints address from the end). A
// missing key, an out-of-range index or a key applied to the wrong shape
// yields nil instead of panicking.
func GetPath(obj any, keys ...any) any {
	for _, key := range keys {
		if obj == nil || isEmpty(obj) {
			return obj
		}
		switch k := key.(type) {
		case int:
			list, ok := obj.([]any)
			if !ok {
				return nil
			}
			idx := k
			if idx < 0 {
				idx += len(list)
			}
			if idx < 0 || idx >= len(list) {
				return nil
			}
			obj = list[idx]
		case string:
			m, ok := obj.(map[string]any)
			if !ok {
				return nil
			}
			obj = m[k]
		default:
			return nil
		}
	}
	return obj
}

// GetString extracts a string value with GetPath, returning "" for nil or
// non-string values.
func GetString(obj any, keys ...any) string {
	s, _ := GetPath(obj, keys...).(string)
	return s
}

// GetFloat extracts a numeric value with GetPath. JSON numbers decode as
// float64; anything else yields 0.
func GetFloat(obj any, keys ...any) float64 {
	f, _ := GetPath(obj, keys...).(float64)
	return f
}

// GetStrings extracts a slice value with GetPath and returns its string
// elements, skipping anything else.
func GetStrings(obj any, keys ...any) []string {
	list, _ := GetPath(obj, keys...).([]any)
	var out []string
	for _, v := range list {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func isEmpty(obj any) bool {
	switch v := obj.(type) {
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

// AddExtra grafts scraped extra data onto matching records in place. Ids in
// extra with no corresponding record are ignored.
func AddExtra(data map[string]Record, extra map[string]Record) {
	for bookID, extraData := range extra {
		rec, ok := data[bookID]
		if !ok {
			continue
		}
		if e, ok := extraData["_extra"]; ok {
			rec["_extra"] = e
		}
	}
}
