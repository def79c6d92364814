package cache

// SQL schema for the dropdown-mapping cache.
//
// The site's edit form encodes dropdown options with internal values
// (language name -> code, custom media type code -> select value) that can
// only be discovered from the live page, often behind an extra "show all"
// click. Discovered mappings are persisted here, keyed by site host and
// mapping kind, so later runs can skip the discovery round-trips.
const DropdownCacheSchema = `
CREATE TABLE IF NOT EXISTS dropdown_cache (
	site TEXT NOT NULL,
	kind TEXT NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL,
	cached_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (site, kind, name)
);

CREATE INDEX IF NOT EXISTS idx_dropdown_cached_at ON dropdown_cache(cached_at);
`

// Mapping kinds stored in the dropdown cache.
const (
	KindLanguage = "language"
	KindFormat   = "format"
)
