package importer

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/ltsync/internal/bookdata"
	"github.com/lepinkainen/ltsync/internal/fileutil"
	"github.com/lepinkainen/ltsync/internal/testutil"
)

func TestMissingCollections(t *testing.T) {
	boxes := map[string]collectionBox{
		"Your library": {ID: "cb_1", Checked: true},
		"Wishlist":     {ID: "cb_2"},
	}

	assert.Nil(t, missing(map[string]bool{"Your library": true}, boxes))

	got := missing(map[string]bool{"Your library": true, "Read but unowned": true, "Favorites": true}, boxes)
	sort.Strings(got)
	assert.Equal(t, []string{"Favorites", "Read but unowned"}, got)
}

func TestExtraFileGrafting(t *testing.T) {
	env := testutil.NewTestEnv(t)
	env.WriteFileString("data.json", `{
		"100": {"title": "A"},
		"200": {"title": "B"}
	}`)
	env.WriteFileString("extra.json", `{
		"100": {"_extra": {"secondary_authors": [{"lf": "Lee, Sarah", "role": "Translator"}]}},
		"999": {"_extra": {"secondary_authors": []}}
	}`)

	var data map[string]bookdata.Record
	require.NoError(t, fileutil.ReadJSONFile(env.Path("data.json"), &data))
	var extra map[string]bookdata.Record
	require.NoError(t, fileutil.ReadJSONFile(env.Path("extra.json"), &extra))

	bookdata.AddExtra(data, extra)

	assert.Contains(t, data["100"], "_extra")
	assert.NotContains(t, data["200"], "_extra")
	assert.NotContains(t, data, "999")
	assert.Equal(t, "Lee, Sarah", bookdata.GetString(data["100"], "_extra", "secondary_authors", 0, "lf"))
}
