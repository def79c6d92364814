package scrape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/ltsync/internal/bookdata"
	lterrors "github.com/lepinkainen/ltsync/internal/errors"
	"github.com/lepinkainen/ltsync/internal/testutil"
)

func TestDetailsURL(t *testing.T) {
	url := detailsURL("https://www.librarything.com", "123", "456")
	assert.Equal(t, "https://www.librarything.com/work/123/details/456", url)
}

func TestParseSecondaryAuthors(t *testing.T) {
	tests := []struct {
		name  string
		spans [][]string
		want  []any
	}{
		{
			name:  "empty",
			spans: nil,
			want:  []any{},
		},
		{
			name:  "blank role",
			spans: [][]string{{"Tolkien, J. R. R."}},
			want:  []any{map[string]any{"lf": "Tolkien, J. R. R."}},
		},
		{
			name:  "with role",
			spans: [][]string{{"Translator -", "Lee, Sarah"}},
			want:  []any{map[string]any{"lf": "Lee, Sarah", "role": "Translator"}},
		},
		{
			name: "mixed",
			spans: [][]string{
				{"Illustrator -", "Baynes, Pauline"},
				{"Smith, John"},
			},
			want: []any{
				map[string]any{"lf": "Baynes, Pauline", "role": "Illustrator"},
				map[string]any{"lf": "Smith, John"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseSecondaryAuthors(tt.spans)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSecondaryAuthorsBadSpanCount(t *testing.T) {
	_, err := parseSecondaryAuthors([][]string{{"a", "b", "c"}})
	require.Error(t, err)
	assert.True(t, lterrors.IsParseError(err))
}

func TestBuildExtra(t *testing.T) {
	raw := detailsExtract{
		AuthorSpans: [][]string{{"Translator -", "Lee, Sarah"}},
		Languages: []langExtract{
			{Field: "primary", Name: "English", Code: "ENG"},
			{Field: "original", Name: "French", Code: "FRE"},
		},
		ReadingDates: []dateExtract{
			{Started: "2024-01-01", Finished: "2024-02-01"},
			{Started: "2020-05-05", Finished: ""},
			{Started: "", Finished: ""},
		},
		CoverURL: "https://example.com/cover.jpg",
		VenueID:  "42",
	}

	fields, err := buildExtra(raw)
	require.NoError(t, err)

	assert.Equal(t, []any{map[string]any{"lf": "Lee, Sarah", "role": "Translator"}}, fields["secondary_authors"])
	languages, ok := fields["languages"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"name": "English", "code": "ENG"}, languages["primary"])
	assert.NotContains(t, languages, "secondary")

	// First row is the export's own reading dates; blank rows are noise.
	history, ok := fields["reading_dates"].([]any)
	require.True(t, ok)
	require.Len(t, history, 1)
	assert.Equal(t, map[string]any{"started": "2020-05-05", "finished": ""}, history[0])

	assert.Equal(t, "https://example.com/cover.jpg", fields["cover_url"])
	assert.Equal(t, map[string]any{"id": "42", "name": ""}, fields["venue"])
}

func TestBuildExtraMinimalPage(t *testing.T) {
	fields, err := buildExtra(detailsExtract{})
	require.NoError(t, err)
	assert.Equal(t, []any{}, fields["secondary_authors"])
	assert.NotContains(t, fields, "languages")
	assert.NotContains(t, fields, "reading_dates")
	assert.NotContains(t, fields, "cover_url")
	assert.NotContains(t, fields, "venue")
}

func TestInitExtraDataFresh(t *testing.T) {
	data := map[string]bookdata.Record{"1": {"title": "A"}}
	extra, err := initExtraData(Options{}, data)
	require.NoError(t, err)
	assert.Empty(t, extra)
}

func TestInitExtraDataMerge(t *testing.T) {
	data := map[string]bookdata.Record{"1": {"title": "A"}}
	extra, err := initExtraData(Options{Merge: true}, data)
	require.NoError(t, err)

	// Merge mode accumulates into the input records themselves.
	extra["1"]["_extra"] = map[string]any{}
	assert.Contains(t, data["1"], "_extra")
}

func TestInitExtraDataUpdate(t *testing.T) {
	env := testutil.NewTestEnv(t)
	outfile := env.Path("extra.json")
	env.WriteFileString("extra.json", `{"7": {"_extra": {"secondary_authors": []}}}`)

	extra, err := initExtraData(Options{Update: true, Outfile: outfile}, nil)
	require.NoError(t, err)
	assert.Contains(t, extra, "7")
}

func TestInitExtraDataUpdateMissingFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	extra, err := initExtraData(Options{Update: true, Outfile: env.Path("missing.json")}, nil)
	require.NoError(t, err)
	assert.Empty(t, extra)
}
