package scrape

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lepinkainen/ltsync/internal/bookdata"
	lterrors "github.com/lepinkainen/ltsync/internal/errors"
	"github.com/lepinkainen/ltsync/internal/ltbrowser"
)

const defaultBookTimeout = 90 * time.Second

type scraper struct {
	sess  *ltbrowser.Session
	opts  Options
	extra map[string]bookdata.Record
}

// langExtract is one language dropdown's current selection.
type langExtract struct {
	Field string `json:"field"`
	Name  string `json:"name"`
	Code  string `json:"code"`
}

// dateExtract is one started/finished reading-date row.
type dateExtract struct {
	Started  string `json:"started"`
	Finished string `json:"finished"`
}

// detailsExtract is the raw data pulled from a book's details page in a
// single script evaluation.
type detailsExtract struct {
	AuthorSpans  [][]string    `json:"authorSpans"`
	Languages    []langExtract `json:"languages"`
	ReadingDates []dateExtract `json:"readingDates"`
	CoverURL     string        `json:"coverUrl"`
	VenueName    string        `json:"venueName"`
	VenueID      string        `json:"venueId"`
}

const detailsExtractJS = `(() => {
	const authorSpans = [];
	for (const div of document.querySelectorAll('#bookedit_roles > div.bookeditPerson')) {
		authorSpans.push(Array.from(div.querySelectorAll(':scope > span')).map((s) => s.textContent.trim()));
	}

	const languages = [];
	for (const [field, id] of [['primary', 'bookedit_lang'], ['secondary', 'bookedit_lang2'], ['original', 'bookedit_lang_original']]) {
		const sel = document.querySelector('#' + id + ' select');
		if (!sel || sel.selectedIndex < 0) continue;
		const opt = sel.options[sel.selectedIndex];
		if (!opt.value) continue;
		languages.push({field: field, name: opt.text.trim(), code: opt.value});
	}

	const readingDates = [];
	const rows = document.querySelectorAll('#startedfinished table.startedfinished > tbody > tr:not(.hidden)');
	rows.forEach((row, i) => {
		const start = row.querySelector('input[id^="dr_start_"]');
		const end = row.querySelector('input[id^="dr_end_"]');
		readingDates.push({started: start ? start.value : '', finished: end ? end.value : ''});
	});

	const cover = document.querySelector('#book_bookcover img, #bookcover img, img.cover');

	let venueName = '', venueId = '';
	const location = document.querySelector('#bookedit_datestarted div.location');
	if (location) {
		const anchors = location.querySelectorAll('a');
		if (anchors.length === 2) {
			venueName = anchors[0].textContent.trim();
			const match = anchors[0].getAttribute('href').match(/\/venue\/([0-9]+)/);
			if (match) venueId = match[1];
		}
	}

	return {authorSpans, languages, readingDates, coverUrl: cover ? cover.src : '', venueName, venueId};
})()`

// processBook visits one book's details page and stores its extra fields.
func (sc *scraper) processBook(bookID string, rec bookdata.Record) error {
	timeout := sc.opts.Timeout
	if timeout == 0 {
		timeout = defaultBookTimeout
	}
	ctx, cancel := sc.sess.WithTimeout(timeout)
	defer cancel()

	slog.Info("Scraping book", "book_id", bookID, "title", bookdata.GetString(rec, "title"))
	pageURL := detailsURL(sc.sess.BaseURL(), bookdata.GetString(rec, "workcode"), bookID)
	if err := sc.sess.Navigate(ctx, pageURL); err != nil {
		return err
	}
	loc, err := sc.sess.Location(ctx)
	if err != nil {
		return err
	}
	if loc != pageURL {
		// Redirected away, e.g. a private book while not logged in.
		slog.Warn("Failed to get details for book", "book_id", bookID, "url", loc)
		return nil
	}

	var raw detailsExtract
	if err := sc.sess.Eval(ctx, detailsExtractJS, &raw); err != nil {
		return err
	}
	fields, err := buildExtra(raw)
	if err != nil {
		return err
	}

	if sc.opts.DownloadCovers && raw.CoverURL != "" {
		if err := sc.downloadCover(bookID, rec, raw.CoverURL); err != nil {
			slog.Warn("Failed to download cover", "book_id", bookID, "error", err)
		}
	}

	book := sc.extra[bookID]
	if book == nil {
		book = bookdata.Record{}
		sc.extra[bookID] = book
	}
	book["_extra"] = fields
	return nil
}

func detailsURL(baseURL, workCode, bookID string) string {
	return fmt.Sprintf("%s/work/%s/details/%s", baseURL, workCode, bookID)
}

// buildExtra converts the raw page extraction into the extra-data record.
func buildExtra(raw detailsExtract) (map[string]any, error) {
	authors, err := parseSecondaryAuthors(raw.AuthorSpans)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{
		"secondary_authors": authors,
	}

	if len(raw.Languages) > 0 {
		languages := make(map[string]any, len(raw.Languages))
		for _, lang := range raw.Languages {
			languages[lang.Field] = map[string]any{"name": lang.Name, "code": lang.Code}
		}
		fields["languages"] = languages
	}

	// The first row is already present in the export; only the history
	// beyond it is extra.
	var history []any
	for i, row := range raw.ReadingDates {
		if i == 0 || (row.Started == "" && row.Finished == "") {
			continue
		}
		history = append(history, map[string]any{
			"started":  row.Started,
			"finished": row.Finished,
		})
	}
	if len(history) > 0 {
		fields["reading_dates"] = history
	}

	if raw.CoverURL != "" {
		fields["cover_url"] = raw.CoverURL
	}
	if raw.VenueID != "" {
		fields["venue"] = map[string]any{"id": raw.VenueID, "name": raw.VenueName}
	}
	return fields, nil
}

// parseSecondaryAuthors converts the per-author span texts into name/role
// records. One span is a bare name, two are a role ("Role -") and a name.
func parseSecondaryAuthors(spans [][]string) ([]any, error) {
	authors := make([]any, 0, len(spans))
	for _, texts := range spans {
		switch len(texts) {
		case 1:
			slog.Debug("Found secondary author with blank role", "name", texts[0])
			authors = append(authors, map[string]any{"lf": texts[0]})
		case 2:
			name := texts[1]
			role := strings.TrimSuffix(texts[0], " -")
			slog.Debug("Found secondary author", "name", name, "role", role)
			authors = append(authors, map[string]any{"lf": name, "role": role})
		default:
			return nil, lterrors.NewParseError("secondary author", "unexpected span count %d", len(texts))
		}
	}
	return authors, nil
}
