package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/ltsync/internal/bookdata"
	"github.com/lepinkainen/ltsync/internal/cache"
)

// setLanguage sets one of the language dropdowns by language code. The short
// list only carries common languages; when the code is missing the "show all
// languages" link swaps in the complete list.
func (imp *importer) setLanguage(ctx context.Context, term, eltID, lang, code string) error {
	sel := "#" + eltID + " select"
	if lang == "" || code == "" {
		cur, err := imp.sess.SelectedValue(ctx, sel)
		if err != nil {
			return err
		}
		if cur != "" {
			slog.Debug("Clearing language", "term", term)
			if _, err := imp.sess.SelectValue(ctx, sel, ""); err != nil {
				return err
			}
		}
		return nil
	}

	values, err := imp.sess.SelectOptions(ctx, sel)
	if err != nil {
		return err
	}
	if !contains(values, code) {
		slog.Debug("Clicking 'show all languages' link", "term", term)
		if err := imp.sess.Click(ctx, "#"+eltID+" .bookEditHint > a"); err != nil {
			return err
		}
		optExpr := fmt.Sprintf(
			`Array.from(document.querySelectorAll(%q)).some((o) => o.value === %q)`,
			"#"+eltID+" select option", code)
		if err := imp.sess.WaitCondition(ctx, optExpr,
			fmt.Sprintf("%s language %s to be selectable", term, code), waitTimeout); err != nil {
			return err
		}
	}
	return imp.setSelect(ctx, sel, code, lang)
}

// setOriginalLanguage resolves the original language's code. The original
// language code list contains the primary, secondary and original codes
// deduplicated, so the right entry cannot be read off directly: when the
// original language matches the primary or secondary language reuse that
// code, otherwise take the last code in the list.
func (imp *importer) setOriginalLanguage(ctx context.Context, rec bookdata.Record) error {
	oname := bookdata.GetString(rec, "originallanguage", 0)
	if oname == "" {
		return imp.setLanguage(ctx, "original", "bookedit_lang_original", "", "")
	}
	names := bookdata.GetStrings(rec, "language")
	codes := bookdata.GetStrings(rec, "language_codeA")
	ocode := ""
	for i, name := range names {
		if i >= len(codes) {
			break
		}
		if name == oname {
			ocode = codes[i]
			break
		}
	}
	if ocode == "" {
		ocode = bookdata.GetString(rec, "originallanguage_codeA", -1)
	}
	return imp.setLanguage(ctx, "original", "bookedit_lang_original", oname, ocode)
}

const reviewLangScope = "#ajax_choose_reviewlanguage"

// setReviewLanguage sets the review language. The control is a button that
// swaps in a select whose option values are only discoverable from the live
// page, so the name to value map is scraped once and cached.
func (imp *importer) setReviewLanguage(ctx context.Context, lang string) error {
	if lang == "" {
		return nil
	}
	if value, ok := imp.langs[lang]; ok {
		cur, err := imp.sess.Value(ctx, reviewLangScope+` input[name="language"]`)
		if err != nil {
			return err
		}
		if cur == value {
			return nil
		}
	}

	slog.Debug("Clicking review language 'change' button")
	if err := imp.sess.Click(ctx, reviewLangScope+" a"); err != nil {
		return err
	}
	selectSel := reviewLangScope + " select"
	if err := imp.sess.WaitCondition(ctx,
		fmt.Sprintf(`document.querySelector(%q) !== null`, selectSel),
		"review language select", waitTimeout); err != nil {
		return err
	}

	if _, ok := imp.langs[lang]; !ok {
		if err := imp.populateLangMap(ctx, selectSel); err != nil {
			return err
		}
	}

	if value, ok := imp.langs[lang]; ok {
		slog.Debug("Selecting review language", "language", lang, "value", value)
		if err := imp.setSelect(ctx, selectSel, value, lang); err != nil {
			return err
		}
	} else {
		// "(blank)" and the like have no code.
		slog.Debug("Selecting review language", "language", lang)
		found, err := imp.sess.SelectByText(ctx, selectSel, lang)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("review language %q not found", lang)
		}
	}

	// Keep the user's default review language untouched.
	return imp.setCheckbox(ctx, reviewLangScope+` input[name="makedefault"]`, false)
}

// populateLangMap scrapes the review language select into the name to value
// map and persists the entries in the dropdown cache.
func (imp *importer) populateLangMap(ctx context.Context, selectSel string) error {
	slog.Debug("Populating language code map")
	var opts []struct {
		Text  string `json:"text"`
		Value string `json:"value"`
	}
	// The first three options are headers, not languages.
	expr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return [];
		return Array.from(el.options).slice(3).map((o) => ({text: o.text.trim(), value: o.value}));
	})()`, selectSel)
	if err := imp.sess.Eval(ctx, expr, &opts); err != nil {
		return err
	}
	for _, opt := range opts {
		imp.langs[opt.Text] = opt.Value
		cache.SaveMapping(imp.sess.Host(), cache.KindLanguage, opt.Text, opt.Value)
	}
	return nil
}

func contains(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
