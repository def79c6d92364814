package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/ltsync/internal/bookdata"
)

// setTags sets the tag list, appending the run-wide extra tag when set.
func (imp *importer) setTags(ctx context.Context, tags []string) error {
	if imp.opts.Tag != "" {
		tags = append(append([]string{}, tags...), imp.opts.Tag)
	}
	if err := imp.setText(ctx, "#form_tags", strings.Join(tags, ", ")); err != nil {
		return err
	}
	// Defocus to dismiss the autocomplete popup.
	return imp.sess.Blur(ctx, "#form_tags")
}

// setReadingDates sets the first started/finished row and clears the rest.
func (imp *importer) setReadingDates(ctx context.Context, started, finished string) error {
	rows, err := imp.sess.Count(ctx, "#startedfinished table.startedfinished > tbody > tr:not(.hidden)")
	if err != nil {
		return err
	}
	if err := imp.setText(ctx, "#dr_start_1", started); err != nil {
		return err
	}
	if err := imp.setText(ctx, "#dr_end_1", finished); err != nil {
		return err
	}
	for i := 2; i <= rows; i++ {
		if err := imp.setText(ctx, fmt.Sprintf("#dr_start_%d", i), ""); err != nil {
			return err
		}
		if err := imp.setText(ctx, fmt.Sprintf("#dr_end_%d", i), ""); err != nil {
			return err
		}
	}
	return nil
}

// setPhysicalSummary sets the physical summary field. The add-books form
// does not have it, so a requested value only produces a warning there.
func (imp *importer) setPhysicalSummary(ctx context.Context, physicalDescription string) error {
	if imp.opts.PhysicalSummary == "auto" {
		physicalDescription = ""
	}
	exists, err := imp.sess.Exists(ctx, "#phys_summary")
	if err != nil {
		return err
	}
	if !exists {
		if physicalDescription != "" {
			slog.Warn("Unable to set physical description")
		}
		return nil
	}
	return imp.setText(ctx, "#phys_summary", physicalDescription)
}

// setSummary sets the summary field.
func (imp *importer) setSummary(ctx context.Context, summary string) error {
	if imp.opts.Summary == "auto" {
		summary = ""
	}
	return imp.setText(ctx, "#form_summary", summary)
}

// saveChanges saves the book form and waits for the resulting navigation.
func (imp *importer) saveChanges(ctx context.Context) error {
	slog.Debug("Clicking save button")
	return imp.sess.ClickNavigate(ctx, "#book_editTabTextSave2", "book form to save", searchTimeout)
}

// setBookFields populates the add/edit book form from the record and saves.
func (imp *importer) setBookFields(ctx context.Context, bookID string, rec bookdata.Record) error {
	if err := imp.setText(ctx, "#form_title", bookdata.GetString(rec, "title")); err != nil {
		return err
	}

	// The default sort character selection has value "999".
	sortChar := bookdata.GetString(rec, "sortcharacter")
	if sortChar == "" {
		sortChar = "999"
	}
	if err := imp.setSelect(ctx, "#sortcharselector", sortChar, ""); err != nil {
		return err
	}

	authors, _ := bookdata.GetPath(rec, "authors").([]any)
	var pauthor any
	if len(authors) > 0 {
		pauthor = authors[0]
	}
	if err := imp.setAuthor(ctx, "#form_authorunflip", "#person_role--1", pauthor); err != nil {
		return err
	}

	if err := imp.setTags(ctx, bookdata.GetStrings(rec, "tags")); err != nil {
		return err
	}
	if err := imp.setCollections(ctx, bookdata.GetStrings(rec, "collections")); err != nil {
		return err
	}
	if err := imp.setRating(ctx, bookdata.GetFloat(rec, "rating")); err != nil {
		return err
	}

	if err := imp.setText(ctx, "#form_review", bookdata.GetString(rec, "review")); err != nil {
		return err
	}
	if err := imp.setReviewLanguage(ctx, bookdata.GetString(rec, "reviewlang")); err != nil {
		return err
	}

	var sauthors []any
	if len(authors) > 1 {
		sauthors = authors[1:]
	}
	if err := imp.setOtherAuthors(ctx, sauthors); err != nil {
		return err
	}

	if err := imp.setFormat(ctx, bookdata.GetPath(rec, "format", 0)); err != nil {
		return err
	}

	// Publication details
	if err := imp.setText(ctx, "#form_date", bookdata.GetString(rec, "date")); err != nil {
		return err
	}
	if err := imp.setText(ctx, "#form_publication", bookdata.GetString(rec, "publication")); err != nil {
		return err
	}
	if err := imp.setText(ctx, "#form_ISBN", bookdata.GetString(rec, "originalisbn")); err != nil {
		return err
	}

	// Physical description
	if err := imp.setText(ctx, "#numVolumes", bookdata.GetString(rec, "volumes")); err != nil {
		return err
	}
	if err := imp.setText(ctx, "#form_copies", bookdata.GetString(rec, "copies")); err != nil {
		return err
	}
	if err := imp.setPaginations(ctx, bookdata.GetString(rec, "pages")); err != nil {
		return err
	}
	if err := imp.setDimensions(ctx,
		bookdata.GetString(rec, "height"),
		bookdata.GetString(rec, "length"),
		bookdata.GetString(rec, "thickness")); err != nil {
		return err
	}
	if err := imp.setWeights(ctx, bookdata.GetString(rec, "weight")); err != nil {
		return err
	}

	// Languages
	if err := imp.setLanguage(ctx, "primary", "bookedit_lang",
		bookdata.GetString(rec, "language", 0),
		bookdata.GetString(rec, "language_codeA", 0)); err != nil {
		return err
	}
	if err := imp.setLanguage(ctx, "secondary", "bookedit_lang2",
		bookdata.GetString(rec, "language", 1),
		bookdata.GetString(rec, "language_codeA", 1)); err != nil {
		return err
	}
	if err := imp.setOriginalLanguage(ctx, rec); err != nil {
		return err
	}

	if err := imp.setReadingDates(ctx,
		bookdata.GetString(rec, "datestarted"),
		bookdata.GetString(rec, "dateread")); err != nil {
		return err
	}
	if err := imp.setText(ctx, "#form_datebought", bookdata.GetString(rec, "dateacquired")); err != nil {
		return err
	}
	if err := imp.setFromWhere(ctx, bookdata.GetString(rec, "fromwhere")); err != nil {
		return err
	}

	// Classification
	if err := imp.setText(ctx, "#form_lccallnumber", bookdata.GetString(rec, "lcc", "code")); err != nil {
		return err
	}
	if err := imp.setText(ctx, "#form_dewey", bookdata.GetString(rec, "ddc", "code", 0)); err != nil {
		return err
	}
	if err := imp.setText(ctx, "#form_btc_callnumber", bookdata.GetString(rec, "callnumber", 0)); err != nil {
		return err
	}

	// Comments
	if err := imp.setText(ctx, "#form_comments", bookdata.GetString(rec, "comment")); err != nil {
		return err
	}
	if err := imp.setText(ctx, "#form_privatecomment", bookdata.GetString(rec, "privatecomment")); err != nil {
		return err
	}

	if err := imp.setPhysicalSummary(ctx, bookdata.GetString(rec, "physical_description")); err != nil {
		return err
	}
	if err := imp.setSummary(ctx, bookdata.GetString(rec, "summary")); err != nil {
		return err
	}

	// Identifiers
	if err := imp.setBarcode(ctx, bookdata.GetString(rec, "barcode", "1")); err != nil {
		return err
	}
	if err := imp.setBCID(ctx, bookdata.GetString(rec, "bcid")); err != nil {
		return err
	}
	if err := imp.checkImmutableIdentifiers(ctx,
		bookdata.GetString(rec, "ean", 0),
		bookdata.GetString(rec, "upc", 0),
		bookdata.GetString(rec, "asin"),
		bookdata.GetString(rec, "lccn"),
		bookdata.GetString(rec, "oclc")); err != nil {
		return err
	}

	// The export does not indicate whether a book is private, so that is
	// driven by a flag instead.
	if imp.opts.Private {
		if err := imp.setCheckbox(ctx, "#books_private", true); err != nil {
			return err
		}
	}

	return imp.saveChanges(ctx)
}
