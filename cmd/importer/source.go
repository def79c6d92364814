package importer

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/lepinkainen/ltsync/internal/bookdata"
	lterrors "github.com/lepinkainen/ltsync/internal/errors"
)

// idKeys maps search identifier names to their book data paths, in default
// priority order.
var idKeys = []struct {
	name string
	path []any
}{
	{"ean", []any{"ean", 0}},
	{"upc", []any{"upc", 0}},
	{"asin", []any{"asin"}},
	{"lccn", []any{"lccn"}},
	{"oclc", []any{"oclc"}},
	{"isbn", []any{"originalisbn"}},
}

// ParseSearchBy parses the --search-by flag value into a validated,
// lowercased priority list; empty input yields the full default order.
func ParseSearchBy(value string) ([]string, error) {
	var searchBy []string
	for _, identifier := range bookdata.ParseList(value) {
		identifier = strings.ToLower(identifier)
		valid := false
		for _, key := range idKeys {
			if key.name == identifier {
				valid = true
				break
			}
		}
		if !valid {
			return nil, fmt.Errorf("invalid search identifier: %q", identifier)
		}
		searchBy = append(searchBy, identifier)
	}
	if len(searchBy) == 0 {
		for _, key := range idKeys {
			searchBy = append(searchBy, key.name)
		}
	}
	return searchBy, nil
}

// getIdentifier returns the first identifier the record has a value for, in
// the configured priority order.
func getIdentifier(rec bookdata.Record, searchBy []string) (name, value string) {
	for _, identifier := range searchBy {
		for _, key := range idKeys {
			if key.name != identifier {
				continue
			}
			if v := bookdata.GetString(rec, key.path...); v != "" {
				return identifier, v
			}
		}
	}
	return "", ""
}

type sourceRadio struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

const sourceListSel = "#yourlibrarylist"

// parseSourceList reads the available source radio buttons on the add-books
// form, keyed by casefolded label.
func (imp *importer) parseSourceList(ctx context.Context) (map[string]sourceRadio, error) {
	var raw []sourceRadio
	expr := `(() => {
		const out = [];
		const rbs = document.querySelectorAll('#yourlibrarylist input[type="radio"][name="libraryChoice"]');
		rbs.forEach((rb, index) => {
			const label = rb.parentElement.querySelector('label');
			out.push({index, name: label ? label.textContent.trim() : '', selected: rb.checked});
		});
		return out;
	})()`
	if err := imp.sess.Eval(ctx, expr, &raw); err != nil {
		return nil, err
	}
	rbs := make(map[string]sourceRadio, len(raw))
	for _, rb := range raw {
		rbs[strings.ToLower(rb.Name)] = rb
	}
	return rbs, nil
}

// parseSources fills a section's source-name map from its links.
func (imp *importer) parseSources(ctx context.Context, sectionSel string, sources map[string]string) error {
	slog.Debug("Parsing sources", "section", sectionSel)
	var texts []string
	expr := fmt.Sprintf(`(() => {
		const section = document.querySelector(%q);
		if (!section) return [];
		return Array.from(section.querySelectorAll('a[data-source-id]')).map((a) => a.textContent.trim());
	})()`, sectionSel)
	if err := imp.sess.Eval(ctx, expr, &texts); err != nil {
		return err
	}
	for _, text := range texts {
		sources[strings.ToLower(text)] = text
	}
	return nil
}

// addSourceInSection adds a source by clicking its link in one lightbox
// section, reporting whether the source was found there.
func (imp *importer) addSourceInSection(ctx context.Context, sectionSel string, sources map[string]string, lsource string) (bool, error) {
	if len(sources) == 0 {
		if err := imp.parseSources(ctx, sectionSel, sources); err != nil {
			return false, err
		}
	}
	ltext, ok := sources[lsource]
	if !ok {
		return false, nil
	}

	linkJS := fmt.Sprintf(
		`Array.from(document.querySelectorAll('%s a[data-source-id]')).find((a) => a.textContent.trim() === %q)`,
		sectionSel, ltext)
	var added bool
	if err := imp.sess.Eval(ctx,
		fmt.Sprintf(`(() => { const a = %s; return !!a && a.getAttribute('data-library-added') === '1'; })()`, linkJS),
		&added); err != nil {
		return false, err
	}
	if added {
		return true, nil
	}

	slog.Debug("Adding source", "source", ltext)
	if err := imp.sess.Eval(ctx, fmt.Sprintf(`(() => { const a = %s; if (a) a.click(); })()`, linkJS), nil); err != nil {
		return false, err
	}
	if err := imp.sess.WaitCondition(ctx,
		fmt.Sprintf(`(() => { const a = %s; return !!a && a.getAttribute('data-library-added-new') === '1'; })()`, linkJS),
		"source to be added", waitTimeout); err != nil {
		return false, err
	}
	if err := imp.sess.WaitClassGone(ctx, sourceListSel, "updating", "source list", waitTimeout); err != nil {
		return false, err
	}
	return true, nil
}

// addSourceLB works the add-source lightbox: featured section first, then
// all sources, falling back to making sure Overcat is available.
func (imp *importer) addSourceLB(ctx context.Context, lsource string, haveOvercat bool) (bool, error) {
	// Short-circuit when both sections have been parsed before and the
	// source is known to be absent.
	if len(imp.featuredSources) > 0 && len(imp.allSources) > 0 {
		_, inFeatured := imp.featuredSources[lsource]
		_, inAll := imp.allSources[lsource]
		if !inFeatured && !inAll {
			if !haveOvercat {
				if _, err := imp.addSourceInSection(ctx, "#section_featured", imp.featuredSources, "overcat"); err != nil {
					return false, err
				}
			}
			return false, nil
		}
	}

	if found, err := imp.addSourceInSection(ctx, "#section_featured", imp.featuredSources, lsource); err != nil || found {
		return found, err
	}

	slog.Debug("Clicking 'All sources' link")
	if err := imp.sess.Click(ctx, "#menu_allsources"); err != nil {
		return false, err
	}
	if err := imp.sess.WaitVisible(ctx, "#section_allsources", "all sources section", waitTimeout); err != nil {
		return false, err
	}
	if found, err := imp.addSourceInSection(ctx, "#section_allsources", imp.allSources, lsource); err != nil || found {
		return found, err
	}

	if !haveOvercat {
		slog.Debug("Clicking 'Featured' link")
		if err := imp.sess.Click(ctx, "#menu_featured"); err != nil {
			return false, err
		}
		if err := imp.sess.WaitVisible(ctx, "#section_featured", "featured sources section", waitTimeout); err != nil {
			return false, err
		}
		if _, err := imp.addSourceInSection(ctx, "#section_featured", imp.featuredSources, "overcat"); err != nil {
			return false, err
		}
	}
	return false, nil
}

// addSource opens the add-source lightbox and tries to add the source to
// the account's list.
func (imp *importer) addSource(ctx context.Context, lsource string, haveOvercat bool) (bool, error) {
	slog.Debug("Opening add source popup")
	if err := imp.sess.Click(ctx, sourceListSel+" > div > a:nth-of-type(2)"); err != nil {
		return false, err
	}
	if err := imp.sess.WaitLightbox(ctx); err != nil {
		return false, err
	}
	found, err := imp.addSourceLB(ctx, lsource, haveOvercat)
	if err != nil {
		return false, err
	}
	if err := imp.sess.CloseLightbox(ctx, "Closing add source popup"); err != nil {
		return false, err
	}
	return found, nil
}

// selectSource selects the search source radio button, adding the source to
// the account first when needed and falling back to Overcat.
func (imp *importer) selectSource(ctx context.Context, source string) error {
	lsource := strings.ToLower(source)
	rbs, err := imp.parseSourceList(ctx)
	if err != nil {
		return err
	}

	_, found := rbs[lsource]
	if !found {
		_, haveOvercat := rbs["overcat"]
		if found, err = imp.addSource(ctx, lsource, haveOvercat); err != nil {
			return err
		}
		if err := imp.sess.WaitClassGone(ctx, sourceListSel, "updating", "source list", waitTimeout); err != nil {
			return err
		}
		if rbs, err = imp.parseSourceList(ctx); err != nil {
			return err
		}
	}

	rb, ok := rbs[lsource]
	if !ok || !found {
		slog.Debug("Source not found, trying Overcat", "source", source)
		if rb, ok = rbs["overcat"]; !ok {
			return fmt.Errorf("source %q not available and no Overcat fallback", source)
		}
	}
	if !rb.Selected {
		slog.Debug("Selecting source", "source", rb.Name)
		expr := fmt.Sprintf(
			`(() => {
				const rbs = document.querySelectorAll('#yourlibrarylist input[type="radio"][name="libraryChoice"]');
				if (rbs.length > %d) rbs[%d].click();
			})()`, rb.Index, rb.Index)
		if err := imp.sess.Eval(ctx, expr, nil); err != nil {
			return err
		}
	}
	return nil
}

// addFromSource adds a book through the source-search flow, reporting false
// when the record carries no usable search identifier.
func (imp *importer) addFromSource(ctx context.Context, bookID string, rec bookdata.Record, source string) (bool, error) {
	if err := imp.sess.Navigate(ctx, imp.sess.BaseURL()+"/addbooks"); err != nil {
		return false, err
	}
	identifier, value := getIdentifier(rec, imp.opts.SearchBy)
	if value == "" {
		return false, nil
	}
	if err := imp.selectSource(ctx, source); err != nil {
		return false, err
	}

	slog.Debug("Setting search field", "value", value, "identifier", identifier)
	if err := imp.sess.TypeText(ctx, "#form_find", value); err != nil {
		return false, err
	}
	// Set the tag up front so the book is locatable if editing fails.
	if imp.opts.Tag != "" {
		tagsSel := `input[name="form_tags"]`
		if err := imp.setText(ctx, tagsSel, imp.opts.Tag); err != nil {
			return false, err
		}
		if err := imp.sess.Blur(ctx, tagsSel); err != nil {
			return false, err
		}
	}

	slog.Debug("Clicking search button")
	if err := imp.sess.Click(ctx, "#search_btn"); err != nil {
		return false, err
	}
	if err := imp.sess.WaitGone(ctx, "#addbooks_ajax_status", "search to finish", searchTimeout); err != nil {
		return false, err
	}
	if err := imp.sess.WaitCondition(ctx,
		`document.querySelector('#bookframe .resultsfrom') !== null`,
		"search results", searchTimeout); err != nil {
		return false, err
	}

	resultSel := "#bookframe td.result > div.addbooks_title > a"
	resultText, err := imp.sess.Text(ctx, resultSel)
	if err != nil {
		return false, err
	}
	slog.Debug("Clicking search result", "title", resultText)
	if err := imp.sess.Click(ctx, resultSel); err != nil {
		return false, err
	}
	if err := imp.sess.WaitGone(ctx, "#addbooks_ajax_status", "book to be added", searchTimeout); err != nil {
		return false, err
	}
	if err := imp.sess.WaitInlineStyle(ctx, "#bookframe", "opacity", "1",
		"book list to settle", searchTimeout); err != nil {
		return false, err
	}

	editSel := "#bookframe .booklist .book .icons > div:nth-of-type(1) > a"
	slog.Debug("Clicking edit link for last added book")
	if err := imp.sess.ClickNavigate(ctx, editSel, "book edit page", searchTimeout); err != nil {
		return false, err
	}
	if err := imp.setBookFields(ctx, bookID, rec); err != nil {
		return false, err
	}
	return true, nil
}

// checkWorkID reads the newly created book's work id off the add-books page
// and warns when it differs from the expected work code.
func (imp *importer) checkWorkID(ctx context.Context, expectedWorkID string) error {
	path, err := imp.sess.CurrentPath(ctx)
	if err != nil {
		return err
	}
	if path != "/addbooks" {
		return lterrors.NewParseError("saved book", "unexpected page %q after save", path)
	}
	if err := imp.sess.WaitVisible(ctx, "#bookframe", "book list", waitTimeout); err != nil {
		return err
	}

	var href string
	if err := imp.sess.Eval(ctx,
		`(() => {
			const a = document.querySelector('#bookframe .booklist .book > h2 > a');
			return a ? a.getAttribute('href') : '';
		})()`, &href); err != nil {
		return err
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return fmt.Errorf("failed to parse book link %q: %w", href, err)
	}
	workID, bookID, ok := parseBookURLPath(parsed.Path)
	if !ok {
		return lterrors.NewParseError("saved book", "unexpected book link path %q", parsed.Path)
	}
	slog.Info("Created book", "book_id", bookID, "work_id", workID)
	if expectedWorkID != "" && workID != expectedWorkID {
		slog.Warn("Created book has unexpected work id",
			"book_id", bookID, "work_id", workID, "expected", expectedWorkID)
	}
	return nil
}
