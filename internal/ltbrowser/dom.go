package ltbrowser

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
)

// Click clicks the first element matching a CSS selector.
func (s *Session) Click(ctx context.Context, sel string) error {
	if err := s.Run(ctx, chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to click %s: %w", sel, err)
	}
	return nil
}

// Value returns the value property of a form element.
func (s *Session) Value(ctx context.Context, sel string) (string, error) {
	var value string
	if err := s.Run(ctx, chromedp.Value(sel, &value, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read value of %s: %w", sel, err)
	}
	return value, nil
}

// Text returns the rendered text of the first element matching a selector.
func (s *Session) Text(ctx context.Context, sel string) (string, error) {
	var text string
	if err := s.Run(ctx, chromedp.Text(sel, &text, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("failed to read text of %s: %w", sel, err)
	}
	return text, nil
}

// TypeText clears a text element and types a new value with key events, so
// the site's input listeners fire as they would for a real user.
func (s *Session) TypeText(ctx context.Context, sel, value string) error {
	if err := s.Run(ctx,
		chromedp.Clear(sel, chromedp.ByQuery),
		chromedp.SendKeys(sel, value, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("failed to type into %s: %w", sel, err)
	}
	return nil
}

// ClearText empties a text element, dispatching input and change events.
func (s *Session) ClearText(ctx context.Context, sel string) error {
	expr := fmt.Sprintf(
		`(() => {
			const el = document.querySelector(%q);
			if (!el) return;
			el.value = '';
			el.dispatchEvent(new Event('input', {bubbles: true}));
			el.dispatchEvent(new Event('change', {bubbles: true}));
		})()`, sel)
	return s.Eval(ctx, expr, nil)
}

// SelectValue sets a select element's value and dispatches a change event.
// Returns false when no option carries the value.
func (s *Session) SelectValue(ctx context.Context, sel, value string) (bool, error) {
	var ok bool
	expr := fmt.Sprintf(
		`(() => {
			const el = document.querySelector(%q);
			if (!el) return false;
			const opt = Array.from(el.options).find((o) => o.value === %q);
			if (!opt) return false;
			el.value = opt.value;
			el.dispatchEvent(new Event('change', {bubbles: true}));
			return true;
		})()`, sel, value)
	if err := s.Eval(ctx, expr, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// SelectByText sets a select element to the option with the given visible
// (trimmed) text and dispatches a change event. Returns false when no such
// option exists.
func (s *Session) SelectByText(ctx context.Context, sel, text string) (bool, error) {
	var ok bool
	expr := fmt.Sprintf(
		`(() => {
			const el = document.querySelector(%q);
			if (!el) return false;
			const opt = Array.from(el.options).find((o) => o.text.trim() === %q);
			if (!opt) return false;
			el.value = opt.value;
			el.dispatchEvent(new Event('change', {bubbles: true}));
			return true;
		})()`, sel, text)
	if err := s.Eval(ctx, expr, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// SelectedValue returns the value of a select element's selected option.
func (s *Session) SelectedValue(ctx context.Context, sel string) (string, error) {
	return s.Value(ctx, sel)
}

// SelectedText returns the visible text of a select element's selected
// option, trimmed.
func (s *Session) SelectedText(ctx context.Context, sel string) (string, error) {
	var text string
	expr := fmt.Sprintf(
		`(() => {
			const el = document.querySelector(%q);
			if (!el || el.selectedIndex < 0) return '';
			return el.options[el.selectedIndex].text.trim();
		})()`, sel)
	if err := s.Eval(ctx, expr, &text); err != nil {
		return "", err
	}
	return text, nil
}

// SelectOptions returns the value attributes of a select element's options.
func (s *Session) SelectOptions(ctx context.Context, sel string) ([]string, error) {
	var values []string
	expr := fmt.Sprintf(
		`(() => {
			const el = document.querySelector(%q);
			if (!el) return [];
			return Array.from(el.options).map((o) => o.value);
		})()`, sel)
	if err := s.Eval(ctx, expr, &values); err != nil {
		return nil, err
	}
	return values, nil
}

// Checked reports whether a checkbox or radio element is checked.
func (s *Session) Checked(ctx context.Context, sel string) (bool, error) {
	var checked bool
	expr := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return !!el && el.checked; })()`, sel)
	if err := s.Eval(ctx, expr, &checked); err != nil {
		return false, err
	}
	return checked, nil
}

// Count returns the number of elements matching a selector.
func (s *Session) Count(ctx context.Context, sel string) (int, error) {
	var count int
	expr := fmt.Sprintf(`document.querySelectorAll(%q).length`, sel)
	if err := s.Eval(ctx, expr, &count); err != nil {
		return 0, err
	}
	return count, nil
}
