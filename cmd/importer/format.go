package importer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/lepinkainen/ltsync/internal/bookdata"
	"github.com/lepinkainen/ltsync/internal/cache"
)

// Custom formats are indented under their parent entry with em spaces.
const formatIndent = "\u2003"

// setFormat sets the media type. Resolution is staged: by code in the short
// list, by code in the complete list, then custom formats matched by their
// indented display text, and finally the "add media" flow for custom codes
// the account does not have yet.
func (imp *importer) setFormat(ctx context.Context, format any) error {
	classes, err := imp.sess.ClassList(ctx, "#mediatypemenus")
	if err != nil {
		return err
	}
	complete := contains(classes, "showmediatypeall")
	sel := "#mediatype"
	if complete {
		sel = "#mediatype_all"
	}

	code := bookdata.GetString(format, "code")
	text := bookdata.GetString(format, "text")
	if code == "" {
		cur, err := imp.sess.SelectedValue(ctx, sel)
		if err != nil {
			return err
		}
		if cur != "" {
			slog.Debug("Clearing media type")
			if _, err := imp.sess.SelectValue(ctx, sel, ""); err != nil {
				return err
			}
		}
		return nil
	}

	if ok, err := imp.selectFormat(ctx, sel, code, text); err != nil || ok {
		return err
	}
	if !complete {
		slog.Debug("Selecting 'Show complete list' in media type menu")
		if _, err := imp.sess.SelectValue(ctx, sel, "showcomplete"); err != nil {
			return err
		}
		sel = "#mediatype_all"
		if err := imp.sess.WaitCondition(ctx,
			fmt.Sprintf(`document.querySelector(%q) !== null`, sel),
			"complete media type list", waitTimeout); err != nil {
			return err
		}
		if ok, err := imp.selectFormat(ctx, sel, code, text); err != nil || ok {
			return err
		}
	}

	if strings.Contains(code, ".X_m") {
		if _, known := imp.customFormats[code]; !known {
			if ok, err := imp.selectCustomFormat(ctx, sel, code, text); err != nil || ok {
				return err
			}
			return imp.addMediaType(ctx, sel, code, text)
		}
	}
	return fmt.Errorf("failed to set format %q (%s)", text, code)
}

// selectFormat selects a media type by code, via the learned select value
// for custom formats.
func (imp *importer) selectFormat(ctx context.Context, sel, code, text string) (bool, error) {
	value, ok := imp.customFormats[code]
	if !ok {
		value = code
	}
	values, err := imp.sess.SelectOptions(ctx, sel)
	if err != nil {
		return false, err
	}
	if !contains(values, value) {
		return false, nil
	}
	if err := imp.setSelect(ctx, sel, value, text); err != nil {
		return false, err
	}
	return true, nil
}

// selectCustomFormat looks for a custom media type by its indented display
// text under the parent code, learning the site-assigned select value.
func (imp *importer) selectCustomFormat(ctx context.Context, sel, code, text string) (bool, error) {
	indent := strings.Repeat(formatIndent, strings.Count(code, "."))
	parentValue := code[:strings.LastIndex(code, ".")]

	var value string
	// Skip the first five options, which are menu actions rather than
	// formats. Option text is matched with whitespace intact since the
	// indent is significant.
	expr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return '';
		const opts = Array.from(el.options).slice(5);
		let inParent = false;
		for (const opt of opts) {
			if (!inParent) {
				if (opt.value === %q) inParent = true;
				continue;
			}
			const text = opt.textContent;
			if (!text.startsWith(%q)) break;
			if (text === %q) return opt.value;
		}
		return '';
	})()`, sel, parentValue, indent, indent+text)
	if err := imp.sess.Eval(ctx, expr, &value); err != nil {
		return false, err
	}
	if value == "" {
		return false, nil
	}

	slog.Debug("Selecting custom media type", "text", text, "value", value, "parent", parentValue)
	if err := imp.setSelect(ctx, sel, value, text); err != nil {
		return false, err
	}
	imp.customFormats[code] = value
	cache.SaveMapping(imp.sess.Host(), cache.KindFormat, code, value)
	return true, nil
}

// addMediaType registers a new custom media type nested under the parent
// code; the site assigns its select value on save.
func (imp *importer) addMediaType(ctx context.Context, sel, code, text string) error {
	slog.Debug("Selecting 'Add media' in media type menu")
	if _, err := imp.sess.SelectValue(ctx, sel, "addmedia"); err != nil {
		return err
	}
	if err := imp.setText(ctx, "#newmedia", text); err != nil {
		return err
	}
	parentCode := code[:strings.LastIndex(code, ".")]
	return imp.setSelect(ctx, "#nestunder", parentCode, "")
}
