package ltbrowser

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"
)

const pollInterval = 500 * time.Millisecond

// PollWithTimeout polls a condition function at regular intervals until it
// succeeds, times out, or the context is canceled. The checkFunc returns
// (result, found, error); an error stops polling immediately. The
// description is used in timeout error messages.
func PollWithTimeout[T any](ctx context.Context, interval, timeout time.Duration, description string, checkFunc func() (T, bool, error)) (T, error) {
	var zero T
	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	tries := 0
	for {
		result, found, err := checkFunc()
		if err != nil {
			return zero, err
		}
		if found {
			return result, nil
		}

		tries++
		if tries%5 == 0 {
			slog.Debug("Polling", "description", description, "tries", tries)
		}

		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("polling canceled for %s: %w", description, ctx.Err())
		case <-ticker.C:
			if time.Now().After(deadline) {
				return zero, fmt.Errorf("timeout waiting for %s", description)
			}
		}
	}
}

// WaitCondition polls a JavaScript boolean expression until it is true.
func (s *Session) WaitCondition(ctx context.Context, expr, description string, timeout time.Duration) error {
	_, err := PollWithTimeout(ctx, pollInterval, timeout, description, func() (struct{}, bool, error) {
		var ok bool
		if err := s.Eval(ctx, expr, &ok); err != nil {
			return struct{}{}, false, err
		}
		return struct{}{}, ok, nil
	})
	return err
}

// WaitVisible waits until a selector matches a rendered element.
func (s *Session) WaitVisible(ctx context.Context, sel, description string, timeout time.Duration) error {
	expr := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return !!el && el.offsetParent !== null; })()`, sel)
	return s.WaitCondition(ctx, expr, description, timeout)
}

// WaitGone waits until a selector matches nothing, or only a hidden
// element. This covers both invisibility and staleness: a removed or
// display:none node satisfies it.
func (s *Session) WaitGone(ctx context.Context, sel, description string, timeout time.Duration) error {
	expr := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return !el || el.offsetParent === null; })()`, sel)
	return s.WaitCondition(ctx, expr, description, timeout)
}

// WaitClassGone waits until an element no longer carries a CSS class. The
// site marks asynchronously refreshing regions with an "updating" class.
func (s *Session) WaitClassGone(ctx context.Context, sel, class, description string, timeout time.Duration) error {
	expr := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return !el || !el.classList.contains(%q); })()`, sel, class)
	return s.WaitCondition(ctx, expr, description, timeout)
}

// WaitInlineStyle waits until an element's style attribute carries the given
// declaration. Several site widgets signal async completion through inline
// styles (opacity, overflow, display).
func (s *Session) WaitInlineStyle(ctx context.Context, sel, key, value, description string, timeout time.Duration) error {
	return s.WaitCondition(ctx, jsHasInlineStyle(sel, key, value), description, timeout)
}

// HasInlineStyle reports whether an element's style attribute carries the
// given declaration.
func (s *Session) HasInlineStyle(ctx context.Context, sel, key, value string) (bool, error) {
	var ok bool
	if err := s.Eval(ctx, jsHasInlineStyle(sel, key, value), &ok); err != nil {
		return false, err
	}
	return ok, nil
}

func jsHasInlineStyle(sel, key, value string) string {
	return fmt.Sprintf(
		`(() => {
			const el = document.querySelector(%q);
			if (!el) return false;
			return (el.getAttribute('style') || '').split(';').some((item) => {
				const idx = item.indexOf(':');
				return idx > 0 && item.slice(0, idx).trim() === %q && item.slice(idx + 1).trim() === %q;
			});
		})()`, sel, key, value)
}

// ClassList returns the CSS classes of an element.
func (s *Session) ClassList(ctx context.Context, sel string) ([]string, error) {
	var classes string
	expr := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); return el ? (el.getAttribute('class') || '') : ''; })()`, sel)
	if err := s.Eval(ctx, expr, &classes); err != nil {
		return nil, err
	}
	return strings.Fields(classes), nil
}

// WaitForURLPath polls the current URL until its path equals path.
func (s *Session) WaitForURLPath(ctx context.Context, path string, timeout time.Duration) error {
	_, err := PollWithTimeout(ctx, pollInterval, timeout, fmt.Sprintf("URL path %s", path), func() (struct{}, bool, error) {
		loc, err := s.Location(ctx)
		if err != nil {
			return struct{}{}, false, err
		}
		parsed, err := url.Parse(loc)
		if err != nil {
			return struct{}{}, false, nil
		}
		return struct{}{}, parsed.Path == path, nil
	})
	return err
}

// ClickNavigate clicks an element and waits for the resulting page load. A
// marker is planted on the old document; the new document is recognized by
// the marker's absence plus a complete ready state.
func (s *Session) ClickNavigate(ctx context.Context, sel, description string, timeout time.Duration) error {
	slog.Debug(description)
	if err := s.Eval(ctx, `window.__ltsyncNav = true`, nil); err != nil {
		return err
	}
	if err := s.Click(ctx, sel); err != nil {
		return err
	}
	return s.WaitCondition(ctx,
		`window.__ltsyncNav === undefined && document.readyState === 'complete'`,
		description+" page load", timeout)
}
