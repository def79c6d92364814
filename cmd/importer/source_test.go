package importer

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/lepinkainen/ltsync/internal/bookdata"
)

func TestParseSearchByDefault(t *testing.T) {
	searchBy, err := ParseSearchBy("")
	assert.NoError(t, err)
	assert.Equal(t, []string{"ean", "upc", "asin", "lccn", "oclc", "isbn"}, searchBy)
}

func TestParseSearchByExplicit(t *testing.T) {
	searchBy, err := ParseSearchBy("ISBN, lccn")
	assert.NoError(t, err)
	assert.Equal(t, []string{"isbn", "lccn"}, searchBy)
}

func TestParseSearchByInvalid(t *testing.T) {
	_, err := ParseSearchBy("isbn,gtin")
	assert.Error(t, err)
}

func TestGetIdentifierPriority(t *testing.T) {
	rec := bookdata.Record{
		"ean":          []any{"9783161484100"},
		"originalisbn": "3161484100",
		"lccn":         "2001012345",
	}

	name, value := getIdentifier(rec, []string{"ean", "upc", "asin", "lccn", "oclc", "isbn"})
	assert.Equal(t, "ean", name)
	assert.Equal(t, "9783161484100", value)

	name, value = getIdentifier(rec, []string{"isbn", "lccn"})
	assert.Equal(t, "isbn", name)
	assert.Equal(t, "3161484100", value)
}

func TestGetIdentifierNoneAvailable(t *testing.T) {
	rec := bookdata.Record{"title": "No identifiers"}
	name, value := getIdentifier(rec, []string{"ean", "isbn"})
	assert.Equal(t, "", name)
	assert.Equal(t, "", value)
}

func TestParseBookURLPath(t *testing.T) {
	workID, bookID, ok := parseBookURLPath("/work/123456/book/987654321")
	assert.True(t, ok)
	assert.Equal(t, "123456", workID)
	assert.Equal(t, "987654321", bookID)

	_, _, ok = parseBookURLPath("/profile/someone")
	assert.False(t, ok)
}
