package importer

import (
	"context"
	"fmt"
	"log/slog"

	lterrors "github.com/lepinkainen/ltsync/internal/errors"
)

const locationPopupSel = "#pickrecommendations"

// fromWhere is the parsed state of the "From where?" field: the current
// value and the selector of the change/edit link that opens the popup.
type fromWhere struct {
	Location      string `json:"location"`
	AnchorCount   int    `json:"anchorCount"`
	ChangeLinkSel string `json:"-"`
}

// parseFromWhere reads the current "From where?" value. One anchor means a
// free-text location (or none), two mean a venue link plus the edit link.
func (imp *importer) parseFromWhere(ctx context.Context) (fromWhere, error) {
	var fw fromWhere
	expr := `(() => {
		const div = document.querySelector('#bookedit_datestarted > div[class="location"]');
		if (!div) return {location: '', anchorCount: 0};
		const anchors = div.querySelectorAll('a');
		if (anchors.length === 1) {
			const text = div.textContent.trim();
			const linkText = anchors[0].textContent.trim();
			return {location: text.slice(0, Math.max(0, text.length - linkText.length - 2)).trim(), anchorCount: 1};
		}
		if (anchors.length === 2) {
			return {location: anchors[0].textContent.trim(), anchorCount: 2};
		}
		return {location: '', anchorCount: anchors.length};
	})()`
	if err := imp.sess.Eval(ctx, expr, &fw); err != nil {
		return fw, err
	}
	switch fw.AnchorCount {
	case 1:
		fw.ChangeLinkSel = `#bookedit_datestarted > div[class="location"] > a:nth-of-type(1)`
	case 2:
		fw.ChangeLinkSel = `#bookedit_datestarted > div[class="location"] > a:nth-of-type(2)`
	default:
		return fw, lterrors.NewParseError("location field", "unexpected anchor count %d", fw.AnchorCount)
	}
	return fw, nil
}

// openLocationPopup opens the location editing popup.
func (imp *importer) openLocationPopup(ctx context.Context, changeLinkSel string) error {
	slog.Debug("Clicking location change link")
	if err := imp.sess.Click(ctx, changeLinkSel); err != nil {
		return err
	}
	if err := imp.sess.WaitLightbox(ctx); err != nil {
		return err
	}
	return imp.sess.WaitVisible(ctx, locationPopupSel, "location popup", waitTimeout)
}

// clearLocation removes the current location value. The remove link has no
// distinguishing id or class, only its position in the popup.
func (imp *importer) clearLocation(ctx context.Context) error {
	slog.Debug("Clicking location remove link")
	return imp.sess.Click(ctx, locationPopupSel+" > p:nth-of-type(3) > a")
}

// selectAlreadyUsedLocation picks a location from the already-used list,
// reporting whether a match was found.
func (imp *importer) selectAlreadyUsedLocation(ctx context.Context, want string) (bool, error) {
	var found bool
	expr := fmt.Sprintf(`(() => {
		for (const a of document.querySelectorAll('#locationlist > p > a:nth-of-type(1)')) {
			if (a.textContent.trim() === %q) { a.click(); return true; }
		}
		return false;
	})()`, want)
	if err := imp.sess.Eval(ctx, expr, &found); err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	slog.Debug("Selected already used venue", "venue", want)
	return true, imp.sess.WaitGone(ctx, locationPopupSel, "location popup to close", waitTimeout)
}

// searchForVenue searches venues by quoted name and picks an exact match.
func (imp *importer) searchForVenue(ctx context.Context, want string) (bool, error) {
	if imp.opts.NoVenueSearch {
		return false, nil
	}
	slog.Debug("Choosing 'Venue search' tab")
	if err := imp.sess.Click(ctx, "#lbtabchromemenu1"); err != nil {
		return false, err
	}
	slog.Debug("Populating venue search field")
	querySel := `#venuesearchform input[name="query"]`
	if err := imp.sess.TypeText(ctx, querySel, fmt.Sprintf("%q", want)); err != nil {
		return false, err
	}
	slog.Debug("Clicking search button")
	if err := imp.sess.Click(ctx, `#venuesearchform input[name="Submit"]`); err != nil {
		return false, err
	}
	if err := imp.sess.WaitClassGone(ctx, "#venuelist", "updating",
		"venue search results", searchTimeout); err != nil {
		return false, err
	}

	var found bool
	expr := fmt.Sprintf(`(() => {
		for (const a of document.querySelectorAll('#venuelist > p > a:nth-of-type(1)')) {
			if (a.textContent.trim() === %q) { a.click(); return true; }
		}
		return false;
	})()`, want)
	if err := imp.sess.Eval(ctx, expr, &found); err != nil {
		return false, err
	}
	if !found {
		return false, nil
	}
	slog.Debug("Selected venue", "venue", want)
	return true, imp.sess.WaitGone(ctx, locationPopupSel, "location popup to close", waitTimeout)
}

// setFromWhereFreeText enters the location on the free-text tab.
func (imp *importer) setFromWhereFreeText(ctx context.Context, want string) error {
	slog.Debug("Choosing 'Free text' tab")
	if err := imp.sess.Click(ctx, "#lbtabchromemenu2"); err != nil {
		return err
	}
	if err := imp.setText(ctx, "#freetextform #textareacomments", want); err != nil {
		return err
	}
	slog.Debug("Saving location")
	return imp.sess.Click(ctx, `#freetextform input[name="Submit"]`)
}

// setLocation resolves a wanted location inside the open popup: already-used
// list first, then venue search, then free text.
func (imp *importer) setLocation(ctx context.Context, want string) error {
	if ok, err := imp.selectAlreadyUsedLocation(ctx, want); err != nil || ok {
		return err
	}
	if ok, err := imp.searchForVenue(ctx, want); err != nil || ok {
		return err
	}
	return imp.setFromWhereFreeText(ctx, want)
}

// setFromWhere sets the "From where?" field.
func (imp *importer) setFromWhere(ctx context.Context, want string) error {
	fw, err := imp.parseFromWhere(ctx)
	if err != nil {
		return err
	}
	if want == "" {
		if fw.Location == "" {
			return nil
		}
		if err := imp.openLocationPopup(ctx, fw.ChangeLinkSel); err != nil {
			return err
		}
		if err := imp.clearLocation(ctx); err != nil {
			return err
		}
		return imp.sess.WaitGone(ctx, locationPopupSel, "location popup to close", waitTimeout)
	}
	if fw.Location == want {
		return nil
	}
	if err := imp.openLocationPopup(ctx, fw.ChangeLinkSel); err != nil {
		return err
	}
	if err := imp.setLocation(ctx, want); err != nil {
		return err
	}
	return imp.sess.WaitGone(ctx, locationPopupSel, "location popup to close", waitTimeout)
}
