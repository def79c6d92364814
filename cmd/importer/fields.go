package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/ltsync/internal/bookdata"
)

// Field setters follow a shared contract: read the current DOM value first
// and only write when it differs, so re-running an import against an
// existing book is a no-op.

// setText sets or clears a text input or textarea.
func (imp *importer) setText(ctx context.Context, sel, value string) error {
	cur, err := imp.sess.Value(ctx, sel)
	if err != nil {
		return err
	}
	if value == "" {
		if cur != "" {
			slog.Debug("Clearing text field", "selector", sel)
			return imp.sess.ClearText(ctx, sel)
		}
		return nil
	}
	value = bookdata.NormalizeNewlines(value)
	if cur == value {
		return nil
	}
	slog.Debug("Setting text field", "selector", sel, "value", value)
	return imp.sess.TypeText(ctx, sel, value)
}

// setSelect sets a select element to the option with the given value.
func (imp *importer) setSelect(ctx context.Context, sel, value, name string) error {
	cur, err := imp.sess.SelectedValue(ctx, sel)
	if err != nil {
		return err
	}
	if cur == value {
		return nil
	}
	if name != "" {
		slog.Debug("Setting selection", "selector", sel, "name", name, "value", value)
	} else {
		slog.Debug("Setting selection", "selector", sel, "value", value)
	}
	found, err := imp.sess.SelectValue(ctx, sel, value)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no option with value %q in %s", value, sel)
	}
	return nil
}

// setCheckbox sets a checkbox to the wanted state.
func (imp *importer) setCheckbox(ctx context.Context, sel string, want bool) error {
	checked, err := imp.sess.Checked(ctx, sel)
	if err != nil {
		return err
	}
	if checked == want {
		return nil
	}
	if want {
		slog.Debug("Selecting checkbox", "selector", sel)
	} else {
		slog.Debug("Deselecting checkbox", "selector", sel)
	}
	return imp.sess.Click(ctx, sel)
}

// selectOptionTexts returns the trimmed visible texts of a select element's
// options.
func (imp *importer) selectOptionTexts(ctx context.Context, sel string) ([]string, error) {
	var texts []string
	expr := fmt.Sprintf(
		`(() => {
			const el = document.querySelector(%q);
			if (!el) return [];
			return Array.from(el.options).map((o) => o.text.trim());
		})()`, sel)
	if err := imp.sess.Eval(ctx, expr, &texts); err != nil {
		return nil, err
	}
	return texts, nil
}

// elementID returns the id attribute of the first element matching sel.
func (imp *importer) elementID(ctx context.Context, sel string) (string, error) {
	var id string
	expr := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return el ? el.id : ''; })()`, sel)
	if err := imp.sess.Eval(ctx, expr, &id); err != nil {
		return "", err
	}
	if id == "" {
		return "", fmt.Errorf("no element id for %s", sel)
	}
	return id, nil
}

// valueAt returns the value of the n-th element matching sel.
func (imp *importer) valueAt(ctx context.Context, sel string, index int) (string, error) {
	var value string
	expr := fmt.Sprintf(
		`(() => {
			const els = document.querySelectorAll(%q);
			return els.length > %d ? els[%d].value : '';
		})()`, sel, index, index)
	if err := imp.sess.Eval(ctx, expr, &value); err != nil {
		return "", err
	}
	return value, nil
}
