package bookdata

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
)

// Entry pairs a book id with its record for ordered iteration.
type Entry struct {
	ID     string
	Record Record
}

// ParseBookIDs parses a comma/whitespace-separated list of book ids, or
// reads the list from a file when the value starts with '@'. An empty
// result from a non-empty value is an error; an empty value means "all".
func ParseBookIDs(value string) ([]string, error) {
	if value == "" {
		return nil, nil
	}
	if strings.HasPrefix(value, "@") {
		content, err := os.ReadFile(value[1:])
		if err != nil {
			return nil, fmt.Errorf("failed to read book id file: %w", err)
		}
		value = string(content)
	}
	ids := ParseList(value)
	if len(ids) == 0 {
		return nil, fmt.Errorf("empty list of book ids")
	}
	return ids, nil
}

// IterBooks returns the records to process, in the order given by bookIDs
// when present (unknown ids are logged and skipped), otherwise all records
// sorted by id for deterministic runs.
func IterBooks(data map[string]Record, bookIDs []string) []Entry {
	if len(bookIDs) > 0 {
		entries := make([]Entry, 0, len(bookIDs))
		for _, bookID := range bookIDs {
			rec, ok := data[bookID]
			if !ok {
				slog.Warn("Book id not found in data", "book_id", bookID)
				continue
			}
			entries = append(entries, Entry{ID: bookID, Record: rec})
		}
		return entries
	}

	ids := make([]string, 0, len(data))
	for id := range data {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	entries := make([]Entry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, Entry{ID: id, Record: data[id]})
	}
	return entries
}
