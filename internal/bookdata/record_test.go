package bookdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRecord() Record {
	return Record{
		"title": "The Go Programming Language",
		"format": []any{
			map[string]any{"code": "2", "text": "Paperback"},
		},
		"language":       []any{"English", "German"},
		"language_codeA": []any{"eng", "ger"},
		"lcc":            map[string]any{"code": "QA76.73.G63"},
		"ddc":            map[string]any{"code": []any{"005.133"}},
		"barcode":        map[string]any{"1": "30014"},
	}
}

func TestGetPath(t *testing.T) {
	rec := sampleRecord()

	testCases := []struct {
		name     string
		keys     []any
		expected any
	}{
		{
			name:     "top level string",
			keys:     []any{"title"},
			expected: "The Go Programming Language",
		},
		{
			name:     "nested map",
			keys:     []any{"lcc", "code"},
			expected: "QA76.73.G63",
		},
		{
			name:     "map then list index",
			keys:     []any{"ddc", "code", 0},
			expected: "005.133",
		},
		{
			name:     "list of maps",
			keys:     []any{"format", 0, "text"},
			expected: "Paperback",
		},
		{
			name:     "numeric string key",
			keys:     []any{"barcode", "1"},
			expected: "30014",
		},
		{
			name:     "negative index",
			keys:     []any{"language_codeA", -1},
			expected: "ger",
		},
		{
			name:     "missing key",
			keys:     []any{"publisher"},
			expected: nil,
		},
		{
			name:     "missing nested key",
			keys:     []any{"lcc", "scheme"},
			expected: nil,
		},
		{
			name:     "index out of range",
			keys:     []any{"language", 5},
			expected: nil,
		},
		{
			name:     "negative index out of range",
			keys:     []any{"language", -3},
			expected: nil,
		},
		{
			name:     "index into map",
			keys:     []any{"lcc", 0},
			expected: nil,
		},
		{
			name:     "key into list",
			keys:     []any{"language", "first"},
			expected: nil,
		},
		{
			name:     "key past scalar",
			keys:     []any{"title", "x"},
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetPath(rec, tc.keys...))
		})
	}
}

func TestGetPathEmptyContainers(t *testing.T) {
	// Empty containers short-circuit and are returned as-is.
	rec := Record{"tags": []any{}}
	assert.Equal(t, []any{}, GetPath(rec, "tags", 0))
	assert.Nil(t, GetPath(nil, "anything"))
}

func TestGetString(t *testing.T) {
	rec := sampleRecord()
	assert.Equal(t, "eng", GetString(rec, "language_codeA", 0))
	assert.Empty(t, GetString(rec, "missing"))
	assert.Empty(t, GetString(rec, "format", 0))
}

func TestGetStrings(t *testing.T) {
	rec := sampleRecord()
	assert.Equal(t, []string{"English", "German"}, GetStrings(rec, "language"))
	assert.Nil(t, GetStrings(rec, "title"))
}

func TestAddExtra(t *testing.T) {
	data := map[string]Record{
		"100": {"title": "A"},
		"200": {"title": "B"},
	}
	extra := map[string]Record{
		"100": {"_extra": map[string]any{"secondary_authors": []any{}}},
		"999": {"_extra": map[string]any{}},
	}

	AddExtra(data, extra)

	assert.Contains(t, data["100"], "_extra")
	assert.NotContains(t, data["200"], "_extra")
}
