package bookdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookIDs(t *testing.T) {
	ids, err := ParseBookIDs("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	ids, err = ParseBookIDs("123, 456 789")
	require.NoError(t, err)
	assert.Equal(t, []string{"123", "456", "789"}, ids)

	_, err = ParseBookIDs(" , ")
	assert.Error(t, err)
}

func TestParseBookIDsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ids.txt")
	require.NoError(t, os.WriteFile(path, []byte("123\n456\n"), 0o644))

	ids, err := ParseBookIDs("@" + path)
	require.NoError(t, err)
	assert.Equal(t, []string{"123", "456"}, ids)

	_, err = ParseBookIDs("@" + filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestIterBooks(t *testing.T) {
	data := map[string]Record{
		"300": {"title": "C"},
		"100": {"title": "A"},
		"200": {"title": "B"},
	}

	t.Run("all books sorted by id", func(t *testing.T) {
		entries := IterBooks(data, nil)
		require.Len(t, entries, 3)
		assert.Equal(t, "100", entries[0].ID)
		assert.Equal(t, "200", entries[1].ID)
		assert.Equal(t, "300", entries[2].ID)
	})

	t.Run("explicit ids keep their order", func(t *testing.T) {
		entries := IterBooks(data, []string{"300", "100"})
		require.Len(t, entries, 2)
		assert.Equal(t, "300", entries[0].ID)
		assert.Equal(t, "100", entries[1].ID)
	})

	t.Run("unknown ids are skipped", func(t *testing.T) {
		entries := IterBooks(data, []string{"100", "999"})
		require.Len(t, entries, 1)
		assert.Equal(t, "100", entries[0].ID)
	})
}
