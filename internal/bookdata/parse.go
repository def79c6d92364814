package bookdata

import (
	"fmt"
	"strings"
)

// NormalizeNewlines collapses CRLF and bare CR line breaks to LF. The site's
// textareas report LF values, so comparisons must happen in that form.
func NormalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// ParseList splits a value on commas and whitespace, dropping empties.
func ParseList(value string) []string {
	var out []string
	for _, v := range strings.Split(value, ",") {
		out = append(out, strings.Fields(v)...)
	}
	return out
}

// Page-type buckets as encoded by the pagination type dropdown.
const (
	PageTypeArabic = "0" // 1,2,3,...
	PageTypeRoman  = "1" // i,ii,iii,...
	PageTypeOther  = "4" // other
)

const (
	digits      = "0123456789"
	romanDigits = "ivxlcdm"
)

// GuessPageType buckets a page number value by its characters: all digits,
// all roman-numeral letters (case-insensitive), or anything else. Returns
// the human-readable type name and the dropdown value.
func GuessPageType(num string) (name, value string) {
	folded := strings.ToLower(num)
	if allIn(folded, digits) {
		return "1,2,3,...", PageTypeArabic
	}
	if allIn(folded, romanDigits) {
		return "i,ii,iii,...", PageTypeRoman
	}
	return "other", PageTypeOther
}

func allIn(s, set string) bool {
	for _, r := range s {
		if !strings.ContainsRune(set, r) {
			return false
		}
	}
	return true
}

// SplitMeasure splits a measure string like "8.5 inches" into its number
// and unit parts. Empty input yields two empty strings.
func SplitMeasure(s string) (num, unit string) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 0:
		return "", ""
	case 1:
		return fields[0], ""
	default:
		return fields[0], fields[1]
	}
}

// DimensionUnit maps a dimension unit to its dropdown name and value.
func DimensionUnit(unit string) (name, value string, err error) {
	switch unit {
	case "inch", "inches":
		return "inch", "0", nil
	case "cm":
		return "cm", "1", nil
	}
	return "", "", fmt.Errorf("unknown dimension unit: %q", unit)
}

// WeightUnit maps a weight unit to its dropdown name and value.
func WeightUnit(unit string) (name, value string, err error) {
	switch unit {
	case "pound", "pounds":
		return "pounds", "0", nil
	case "kg":
		return "kg", "1", nil
	}
	return "", "", fmt.Errorf("unknown weight unit: %q", unit)
}

// SplitSemicolonList splits a semicolon-separated multi-row value (pages,
// weights) into trimmed items. An empty string still yields one empty item,
// matching the single empty row the form shows.
func SplitSemicolonList(s string) []string {
	parts := strings.Split(s, ";")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
