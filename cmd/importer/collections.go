package importer

import (
	"context"
	"fmt"
	"log/slog"

	lterrors "github.com/lepinkainen/ltsync/internal/errors"
	"github.com/lepinkainen/ltsync/internal/ltbrowser"
)

// The collections section shares its id with the tags section in the site
// markup, so selectors address the second element carrying it.
const collectionsScopeJS = `document.querySelectorAll('[id="bookedit_tags"]')[1]`

type collectionBox struct {
	ID      string `json:"id"`
	Checked bool   `json:"checked"`
}

// parseCollections reads the visible collection checkboxes, keyed by label.
func (imp *importer) parseCollections(ctx context.Context) (map[string]collectionBox, error) {
	var boxes map[string]collectionBox
	expr := fmt.Sprintf(`(() => {
		const parent = %s;
		const out = {};
		if (!parent) return out;
		for (const div of parent.querySelectorAll('div.cb')) {
			if (div.offsetParent === null) continue;
			const cb = div.querySelector('input[type="checkbox"]');
			const lab = div.querySelector('span.lab');
			if (!cb || !lab) continue;
			out[lab.textContent.trim()] = {id: cb.id, checked: cb.checked};
		}
		return out;
	})()`, collectionsScopeJS)
	if err := imp.sess.Eval(ctx, expr, &boxes); err != nil {
		return nil, err
	}
	return boxes, nil
}

// showAllCollections expands the overflowing checkbox list.
func (imp *importer) showAllCollections(ctx context.Context) error {
	var targetID string
	expr := fmt.Sprintf(`(() => {
		const parent = %s;
		const buttons = parent.querySelectorAll('.collectionListFooter .ltbtn');
		if (buttons.length !== 2) return '';
		const pid = buttons[0].parentElement.id;
		if (!pid.startsWith('collsa_')) return '';
		buttons[0].click();
		return pid.slice(7);
	})()`, collectionsScopeJS)
	if err := imp.sess.Eval(ctx, expr, &targetID); err != nil {
		return err
	}
	if targetID == "" {
		return lterrors.NewParseError("collection list", "unexpected footer buttons")
	}
	slog.Debug("Clicked 'show all' collections button")
	return imp.sess.WaitInlineStyle(ctx, "#"+targetID, "overflow", "visible",
		"collection list to expand", waitTimeout)
}

// addCollections creates the named collections through the edit-collections
// lightbox.
func (imp *importer) addCollections(ctx context.Context, toAdd []string) error {
	var clicked bool
	expr := fmt.Sprintf(`(() => {
		const parent = %s;
		const buttons = parent.querySelectorAll('.collectionListFooter .ltbtn');
		if (buttons.length !== 2) return false;
		buttons[1].click();
		return true;
	})()`, collectionsScopeJS)
	if err := imp.sess.Eval(ctx, expr, &clicked); err != nil {
		return err
	}
	if !clicked {
		return lterrors.NewParseError("collection list", "unexpected footer buttons")
	}
	slog.Debug("Clicked 'edit collections' button")
	if err := imp.sess.WaitLightbox(ctx); err != nil {
		return err
	}

	for i, cname := range toAdd {
		slog.Debug("Clicking 'Add new collection' button")
		if err := imp.sess.Click(ctx, "#addnewcollectionButton"); err != nil {
			return err
		}
		countExpr := fmt.Sprintf(
			`document.querySelectorAll('%s input[id^="name_-"]').length === %d`,
			ltbrowser.LightboxContentSel, i+1)
		if err := imp.sess.WaitCondition(ctx, countExpr, "new collection row", waitTimeout); err != nil {
			return err
		}
		// New rows are prepended, so the first matching input is the one
		// just added.
		nameSel := ltbrowser.LightboxContentSel + ` input[id^="name_-"]`
		slog.Debug("Setting new collection name", "name", cname)
		if err := imp.sess.TypeText(ctx, nameSel, cname); err != nil {
			return err
		}
	}

	slog.Debug("Saving new collections")
	saveSel := ltbrowser.LightboxContentSel + " > div:nth-of-type(1) > .ltbtn"
	if err := imp.sess.Click(ctx, saveSel); err != nil {
		return err
	}
	if err := imp.sess.WaitLightboxGone(ctx); err != nil {
		return err
	}
	if err := imp.sess.WaitCondition(ctx, `document.readyState === 'complete'`,
		"page to reload", waitTimeout); err != nil {
		return err
	}
	for _, cname := range toAdd {
		slog.Info("Created collection", "name", cname)
	}
	return nil
}

// setCollections reconciles the collection checkboxes against the wanted
// names, creating missing collections once before giving up.
func (imp *importer) setCollections(ctx context.Context, cnames []string) error {
	wanted := make(map[string]bool, len(cnames))
	for _, cname := range cnames {
		wanted[cname] = true
	}

	var boxes map[string]collectionBox
	complete := false
	for pass := 0; pass < 2 && !complete; pass++ {
		var err error
		boxes, err = imp.parseCollections(ctx)
		if err != nil {
			return err
		}
		if missing(wanted, boxes) != nil {
			if err := imp.showAllCollections(ctx); err != nil {
				return err
			}
			if boxes, err = imp.parseCollections(ctx); err != nil {
				return err
			}
		}
		toAdd := missing(wanted, boxes)
		if toAdd == nil {
			complete = true
			break
		}
		if err := imp.addCollections(ctx, toAdd); err != nil {
			return err
		}
	}
	if !complete {
		if boxes2, err := imp.parseCollections(ctx); err == nil {
			boxes = boxes2
		}
		if toAdd := missing(wanted, boxes); toAdd != nil {
			return fmt.Errorf("missing collections: %v", toAdd)
		}
	}

	for label, box := range boxes {
		want := wanted[label]
		if box.Checked != want {
			if want {
				slog.Debug("Selecting collection", "name", label)
			} else {
				slog.Debug("Deselecting collection", "name", label)
			}
			if err := imp.sess.Click(ctx, "#"+box.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// missing returns wanted names absent from the parsed checkboxes, nil when
// everything is present.
func missing(wanted map[string]bool, boxes map[string]collectionBox) []string {
	var out []string
	for name := range wanted {
		if _, ok := boxes[name]; !ok {
			out = append(out, name)
		}
	}
	return out
}
