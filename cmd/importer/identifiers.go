package importer

import (
	"context"
	"log/slog"
	"strings"

	lterrors "github.com/lepinkainen/ltsync/internal/errors"
)

// setBarcode sets the barcode field. Its onblur handler runs a duplicate
// check; wait for the warning element to stop updating or it can interfere
// with saving the form.
func (imp *importer) setBarcode(ctx context.Context, barcode string) error {
	sel := "#item_inventory_barcode_1"
	if err := imp.setText(ctx, sel, barcode); err != nil {
		return err
	}
	if err := imp.sess.Blur(ctx, sel); err != nil {
		return err
	}
	return imp.sess.WaitClassGone(ctx, "#barcode_warning_1", "updating",
		"barcode duplicate check", waitTimeout)
}

// setBCID sets the BookCrossing id, split across two fields.
func (imp *importer) setBCID(ctx context.Context, bcid string) error {
	id1, id2 := "", ""
	if bcid != "" {
		parts := strings.Split(bcid, "-")
		if len(parts) != 2 {
			return lterrors.NewParseError("BCID", "expected xxx-yyy, got %q", bcid)
		}
		id1, id2 = parts[0], parts[1]
	}
	if err := imp.setText(ctx, "#form_bcid_1", id1); err != nil {
		return err
	}
	return imp.setText(ctx, "#form_bcid_2", id2)
}

// checkIdentifier compares a read-only identifier field against the
// expected value, logging a warning on drift.
func (imp *importer) checkIdentifier(ctx context.Context, sel string, index int, expected, name string) error {
	value, err := imp.valueAt(ctx, sel, index)
	if err != nil {
		return err
	}
	switch {
	case expected == "":
		if value != "" {
			slog.Warn("Book has unexpected identifier value", "identifier", name, "value", value)
		}
	case value == "":
		slog.Warn("Book has no identifier value", "identifier", name, "expected", expected)
	case value != expected:
		slog.Warn("Book identifier differs from expected value",
			"identifier", name, "value", value, "expected", expected)
	}
	return nil
}

// checkImmutableIdentifiers verifies the identifier fields the form will not
// let us change. The ASIN input shares the UPC input's name in the site
// markup, so the two are picked apart by position.
func (imp *importer) checkImmutableIdentifiers(ctx context.Context, ean, upc, asin, lccn, oclc string) error {
	if err := imp.checkIdentifier(ctx, `input[name="form_ean"]`, 0, ean, "EAN"); err != nil {
		return err
	}
	if err := imp.checkIdentifier(ctx, `input[name="form_upc"]`, 0, upc, "UPC"); err != nil {
		return err
	}
	if err := imp.checkIdentifier(ctx, `input[name="form_upc"]`, 1, asin, "ASIN"); err != nil {
		return err
	}
	if err := imp.checkIdentifier(ctx, `input[name="form_lccn"]`, 0, lccn, "LCCN"); err != nil {
		return err
	}
	return imp.checkIdentifier(ctx, `input[name="form_oclc"]`, 0, oclc, "OCLC")
}
