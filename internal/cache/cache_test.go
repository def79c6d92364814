package cache

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *CacheDB {
	t.Helper()
	c, err := NewCacheDB(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPutAndGetMappings(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.PutMapping("www.librarything.com", KindLanguage, "English", "eng"))
	require.NoError(t, c.PutMapping("www.librarything.com", KindLanguage, "German", "ger"))
	require.NoError(t, c.PutMapping("www.librarything.com", KindFormat, "2.X_m1", "custom_17"))
	require.NoError(t, c.PutMapping("other.example.com", KindLanguage, "English", "en"))

	langs, err := c.GetMappings("www.librarything.com", KindLanguage, DefaultCacheTTL)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"English": "eng", "German": "ger"}, langs)

	formats, err := c.GetMappings("www.librarything.com", KindFormat, DefaultCacheTTL)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"2.X_m1": "custom_17"}, formats)
}

func TestPutMappingUpserts(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.PutMapping("site", KindLanguage, "English", "old"))
	require.NoError(t, c.PutMapping("site", KindLanguage, "English", "new"))

	langs, err := c.GetMappings("site", KindLanguage, DefaultCacheTTL)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"English": "new"}, langs)
}

func TestGetMappingsExpiry(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.PutMapping("site", KindLanguage, "English", "eng"))

	// A negative TTL puts the cutoff in the future, expiring everything.
	langs, err := c.GetMappings("site", KindLanguage, -time.Hour)
	require.NoError(t, err)
	assert.Empty(t, langs)
}

func TestInvalidate(t *testing.T) {
	c := newTestCache(t)

	require.NoError(t, c.PutMapping("site", KindLanguage, "English", "eng"))
	require.NoError(t, c.PutMapping("site", KindFormat, "2.X_m1", "custom_17"))

	deleted, err := c.Invalidate("site")
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	langs, err := c.GetMappings("site", KindLanguage, DefaultCacheTTL)
	require.NoError(t, err)
	assert.Empty(t, langs)
}

func TestGlobalCacheHelpers(t *testing.T) {
	viper.Reset()
	viper.Set("cache.dbfile", filepath.Join(t.TempDir(), "global.db"))
	require.NoError(t, ResetGlobalCache())
	t.Cleanup(func() {
		_ = ResetGlobalCache()
		viper.Reset()
	})

	SaveMapping("site", KindLanguage, "Finnish", "fin")
	mappings := Mappings("site", KindLanguage)
	assert.Equal(t, "fin", mappings["Finnish"])
}
