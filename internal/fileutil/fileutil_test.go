package fileutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/ltsync/internal/testutil"
)

func TestReadWriteJSONFile(t *testing.T) {
	env := testutil.NewTestEnv(t)
	path := env.Path("out", "extra.json")

	data := map[string]any{
		"123": map[string]any{"_extra": map[string]any{"cover_id": "99"}},
	}
	require.NoError(t, WriteJSONFile(path, data))

	content := env.ReadFileString(filepath.Join("out", "extra.json"))
	assert.Contains(t, content, "  \"123\"", "output should be indented")
	assert.Equal(t, uint8('\n'), content[len(content)-1], "output should end with a newline")

	var roundTrip map[string]any
	require.NoError(t, ReadJSONFile(path, &roundTrip))
	assert.Equal(t, data, roundTrip)
}

func TestReadJSONFileErrors(t *testing.T) {
	env := testutil.NewTestEnv(t)

	var v any
	assert.Error(t, ReadJSONFile(env.Path("missing.json"), &v))

	env.WriteFileString("bad.json", "{not json")
	assert.Error(t, ReadJSONFile(env.Path("bad.json"), &v))
}

func TestFileExists(t *testing.T) {
	env := testutil.NewTestEnv(t)

	assert.False(t, FileExists(env.Path("nope.txt")))

	env.WriteFileString("yes.txt", "content")
	assert.True(t, FileExists(env.Path("yes.txt")))

	env.MkdirAll("somedir")
	assert.False(t, FileExists(env.Path("somedir")), "directories are not files")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Title - Subtitle", SanitizeFilename("Title: Subtitle"))
	assert.Equal(t, "a-b-c", SanitizeFilename(`a/b\c`))
}

func TestThumbnailPath(t *testing.T) {
	assert.Equal(t, "covers/1 - cover - thumb.jpg", ThumbnailPath("covers/1 - cover.jpg"))
}
