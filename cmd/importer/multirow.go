package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/ltsync/internal/bookdata"
)

// Multi-row form sections (paginations, dimensions, weights) share the same
// markup: a run of fieldsets with per-fieldset add ("arb_<id>") and remove
// ("arbm_<id>") controls. Removed fieldsets stay in the DOM with
// display:none, so positional selectors remain stable.

func rowSel(scopeSel string, i int) string {
	return fmt.Sprintf("%s > fieldset:nth-of-type(%d)", scopeSel, i+1)
}

// mrAdd clicks the previous row's add control and waits for the new row.
func (imp *importer) mrAdd(ctx context.Context, scopeSel string, i int, term string) error {
	fsID, err := imp.elementID(ctx, rowSel(scopeSel, i-1))
	if err != nil {
		return err
	}
	slog.Debug("Adding row", "section", term, "row", i+1)
	if err := imp.sess.Click(ctx, "#arb_"+fsID); err != nil {
		return err
	}
	return imp.sess.WaitCondition(ctx,
		fmt.Sprintf(`document.querySelector(%q) !== null`, rowSel(scopeSel, i)),
		fmt.Sprintf("%s row %d to appear", term, i+1), waitTimeout)
}

// mrDel clicks a row's remove control and waits for it to be hidden.
func (imp *importer) mrDel(ctx context.Context, scopeSel string, i int, term string) error {
	sel := rowSel(scopeSel, i)
	fsID, err := imp.elementID(ctx, sel)
	if err != nil {
		return err
	}
	slog.Debug("Removing row", "section", term, "row", i+1)
	if err := imp.sess.Click(ctx, "#arbm_"+fsID); err != nil {
		return err
	}
	return imp.sess.WaitInlineStyle(ctx, sel, "display", "none",
		fmt.Sprintf("%s row %d to be hidden", term, i+1), waitTimeout)
}

// setMultirow reconciles a section's rows against numItems wanted entries,
// setting each in place, adding rows as needed and deleting leftovers.
func (imp *importer) setMultirow(ctx context.Context, scopeSel, term string, numItems int,
	setRow func(ctx context.Context, i int, fsSel string) error) error {
	numRows, err := imp.sess.Count(ctx, scopeSel+" > fieldset")
	if err != nil {
		return err
	}
	for i := 0; i < numItems; i++ {
		if i >= numRows {
			if err := imp.mrAdd(ctx, scopeSel, i, term); err != nil {
				return err
			}
		}
		if err := setRow(ctx, i, rowSel(scopeSel, i)); err != nil {
			return err
		}
	}
	for i := numItems; i < numRows; i++ {
		if err := imp.mrDel(ctx, scopeSel, i, term); err != nil {
			return err
		}
	}
	return nil
}

// setPagination sets one pagination row: page count plus the numbering type
// guessed from it.
func (imp *importer) setPagination(ctx context.Context, i int, fsSel, num string) error {
	countSel := fsSel + ` input[name="pagecount"]`
	if num == "" {
		cur, err := imp.sess.Value(ctx, countSel)
		if err != nil {
			return err
		}
		if cur != "" {
			slog.Debug("Clearing pagination", "row", i+1)
			return imp.sess.ClearText(ctx, countSel)
		}
		return nil
	}
	if err := imp.setText(ctx, countSel, num); err != nil {
		return err
	}
	ptName, ptValue := bookdata.GuessPageType(num)
	return imp.setSelect(ctx, fsSel+" select", ptValue, ptName)
}

func (imp *importer) setPaginations(ctx context.Context, pages string) error {
	pagenums := bookdata.SplitSemicolonList(pages)
	return imp.setMultirow(ctx, "#bookedit_pages", "pagination", len(pagenums),
		func(ctx context.Context, i int, fsSel string) error {
			return imp.setPagination(ctx, i, fsSel, pagenums[i])
		})
}

// setDimension sets the height/length/thickness inputs of a dimension row
// and their shared unit.
func (imp *importer) setDimension(ctx context.Context, i int, fsSel string, height, length, thickness string) error {
	for _, field := range []struct{ dim, name string }{
		{height, "height"},
		{length, "length_dim"},
		{thickness, "thickness"},
	} {
		num := ""
		if field.dim != "" {
			num, _ = bookdata.SplitMeasure(field.dim)
		}
		sel := fmt.Sprintf(`%s input[name=%q]`, fsSel, field.name)
		if err := imp.setText(ctx, sel, num); err != nil {
			return err
		}
	}
	dim := height
	if dim == "" {
		dim = length
	}
	if dim == "" {
		dim = thickness
	}
	if dim == "" {
		return nil
	}
	_, unit := bookdata.SplitMeasure(dim)
	uname, uvalue, err := bookdata.DimensionUnit(unit)
	if err != nil {
		return err
	}
	return imp.setSelect(ctx, fsSel+` select[name="d-unit"]`, uvalue, uname)
}

func (imp *importer) setDimensions(ctx context.Context, height, length, thickness string) error {
	return imp.setMultirow(ctx, "#bookedit_phys_dims", "dimension", 1,
		func(ctx context.Context, i int, fsSel string) error {
			return imp.setDimension(ctx, i, fsSel, height, length, thickness)
		})
}

// setWeight sets one weight row: value and unit.
func (imp *importer) setWeight(ctx context.Context, i int, fsSel, wstr string) error {
	weightSel := fsSel + ` input[name="weight"]`
	if wstr == "" {
		cur, err := imp.sess.Value(ctx, weightSel)
		if err != nil {
			return err
		}
		if cur != "" {
			slog.Debug("Clearing weight", "row", i+1)
			return imp.sess.ClearText(ctx, weightSel)
		}
		return nil
	}
	num, unit := bookdata.SplitMeasure(wstr)
	if err := imp.setText(ctx, weightSel, num); err != nil {
		return err
	}
	uname, uvalue, err := bookdata.WeightUnit(unit)
	if err != nil {
		return err
	}
	return imp.setSelect(ctx, fsSel+" select", uvalue, uname)
}

func (imp *importer) setWeights(ctx context.Context, weightStr string) error {
	weights := bookdata.SplitSemicolonList(weightStr)
	return imp.setMultirow(ctx, "#bookedit_weights", "weight", len(weights),
		func(ctx context.Context, i int, fsSel string) error {
			return imp.setWeight(ctx, i, fsSel, weights[i])
		})
}
