package importer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lepinkainen/ltsync/internal/bookdata"
)

// setAuthorRole sets an author role dropdown. Roles outside the fixed option
// list go through the "other" flow, which asks for the role in a prompt
// dialog.
func (imp *importer) setAuthorRole(ctx context.Context, sel, text string) error {
	if text == "" {
		cur, err := imp.sess.SelectedValue(ctx, sel)
		if err != nil {
			return err
		}
		if cur == "" {
			return nil
		}
		slog.Debug("Clearing author role", "selector", sel)
		if _, err := imp.sess.SelectValue(ctx, sel, ""); err != nil {
			return err
		}
		return nil
	}

	cur, err := imp.sess.SelectedText(ctx, sel)
	if err != nil {
		return err
	}
	if cur == text {
		return nil
	}

	texts, err := imp.selectOptionTexts(ctx, sel)
	if err != nil {
		return err
	}
	// The first two and last two options are pseudo-entries (blank, the
	// "other" trigger and separators), not real roles.
	available := map[string]bool{}
	if len(texts) > 4 {
		for _, t := range texts[2 : len(texts)-2] {
			available[t] = true
		}
	}
	if available[text] {
		slog.Debug("Setting author role", "selector", sel, "role", text)
		found, err := imp.sess.SelectByText(ctx, sel, text)
		if err != nil {
			return err
		}
		if !found {
			return fmt.Errorf("author role %q not selectable in %s", text, sel)
		}
		return nil
	}

	slog.Debug("Setting author role to custom value", "selector", sel, "role", text)
	imp.sess.ExpectPrompt(ctx, text)
	if _, err := imp.sess.SelectValue(ctx, sel, "xxxOTHERxxx"); err != nil {
		return err
	}
	return nil
}

// setAuthor sets an author name/role pair; a nil author clears both fields.
func (imp *importer) setAuthor(ctx context.Context, nameSel, roleSel string, author any) error {
	if err := imp.setText(ctx, nameSel, bookdata.GetString(author, "lf")); err != nil {
		return err
	}
	return imp.setAuthorRole(ctx, roleSel, bookdata.GetString(author, "role"))
}

// setOtherAuthors reconciles the secondary author rows against the wanted
// list, adding rows as needed and clearing leftovers.
func (imp *importer) setOtherAuthors(ctx context.Context, sauthors []any) error {
	numRows, err := imp.sess.Count(ctx, "#bookedit_roles .bookPersonName")
	if err != nil {
		return err
	}

	for idx, author := range sauthors {
		if idx >= numRows {
			slog.Debug("Clicking 'add another author'")
			if err := imp.sess.Click(ctx, "#bookedit_roles #addPersonControl a"); err != nil {
				return err
			}
			rowSel := fmt.Sprintf("#person_name-%d", idx)
			if err := imp.sess.WaitCondition(ctx,
				fmt.Sprintf(`document.querySelector(%q) !== null`, rowSel),
				fmt.Sprintf("author row %d to appear", idx+1), waitTimeout); err != nil {
				return err
			}
		}
		nameSel := fmt.Sprintf("#person_name-%d", idx)
		roleSel := fmt.Sprintf("#person_role-%d", idx)
		if err := imp.setAuthor(ctx, nameSel, roleSel, author); err != nil {
			return err
		}
	}

	// Clear any extra rows.
	for idx := len(sauthors); idx < numRows; idx++ {
		nameSel := fmt.Sprintf("#person_name-%d", idx)
		roleSel := fmt.Sprintf("#person_role-%d", idx)
		if err := imp.setAuthor(ctx, nameSel, roleSel, nil); err != nil {
			return err
		}
	}
	return nil
}
