// Package ltbrowser drives the shared browser session used by the scrape
// and import commands: Chrome lifecycle, login and cookie replay, and the
// polling/waiting helpers the site's asynchronous UI requires.
package ltbrowser

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/chromedp/chromedp"

	lterrors "github.com/lepinkainen/ltsync/internal/errors"
)

// Seam variables so tests can stub out chromedp.
var (
	chromedpExecAllocator = chromedp.NewExecAllocator
	chromedpContext       = chromedp.NewContext
	chromedpRunner        = chromedp.Run
)

// Options holds configuration for the browser session.
type Options struct {
	BaseURL     string
	CookiesFile string
	Headless    bool
}

// Session wraps a single Chrome tab. All page interactions in a run go
// through one session, strictly sequentially.
type Session struct {
	opts    Options
	host    string
	ctx     context.Context
	cancels []context.CancelFunc
}

// NewSession launches Chrome and opens the automation tab.
func NewSession(parentCtx context.Context, opts Options) (*Session, error) {
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid site base URL %q", opts.BaseURL)
	}

	allocCtx, cancelAllocator := chromedpExecAllocator(parentCtx, buildExecAllocatorOptions(opts)...)
	browserCtx, cancelBrowser := chromedpContext(allocCtx)

	s := &Session{
		opts:    opts,
		host:    parsed.Host,
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAllocator},
	}

	// Start the browser eagerly so a missing Chrome binary fails fast.
	if err := chromedpRunner(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	return s, nil
}

func buildExecAllocatorOptions(opts Options) []chromedp.ExecAllocatorOption {
	return []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("no-default-browser-check", true),
	}
}

// Close shuts down the browser and releases all resources.
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

// Context returns the browser tab context. Derive per-book timeout contexts
// from it with WithTimeout.
func (s *Session) Context() context.Context {
	return s.ctx
}

// WithTimeout derives a deadline context from the browser tab context.
func (s *Session) WithTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(s.ctx, d)
}

// BaseURL returns the configured site root, without a trailing slash.
func (s *Session) BaseURL() string {
	return strings.TrimSuffix(s.opts.BaseURL, "/")
}

// Host returns the site host, used as the dropdown-cache key.
func (s *Session) Host() string {
	return s.host
}

// Run executes chromedp actions against the session tab, classifying a lost
// browser as the fatal window-closed condition.
func (s *Session) Run(ctx context.Context, actions ...chromedp.Action) error {
	err := chromedpRunner(ctx, actions...)
	if err == nil {
		return nil
	}
	return s.classify(err)
}

// classify upgrades connection-loss errors to WindowClosedError. A per-book
// deadline firing is not a lost window; the session context dying is.
func (s *Session) classify(err error) error {
	if s.ctx.Err() != nil {
		return lterrors.NewWindowClosedError(err)
	}
	msg := err.Error()
	for _, marker := range []string{
		"websocket: close",
		"websocket: bad handshake",
		"target closed",
		"session closed",
		"browser closed",
	} {
		if strings.Contains(msg, marker) {
			return lterrors.NewWindowClosedError(err)
		}
	}
	return err
}

// Navigate opens a URL in the session tab and waits for the document to be
// ready.
func (s *Session) Navigate(ctx context.Context, pageURL string) error {
	if err := s.Run(ctx, chromedp.Navigate(pageURL), chromedp.WaitReady("body", chromedp.ByQuery)); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", pageURL, err)
	}
	return nil
}

// Location returns the tab's current URL.
func (s *Session) Location(ctx context.Context) (string, error) {
	var loc string
	if err := s.Run(ctx, chromedp.Location(&loc)); err != nil {
		return "", err
	}
	return loc, nil
}

// CurrentPath returns the path component of the tab's current URL.
func (s *Session) CurrentPath(ctx context.Context) (string, error) {
	loc, err := s.Location(ctx)
	if err != nil {
		return "", err
	}
	parsed, err := url.Parse(loc)
	if err != nil {
		return "", fmt.Errorf("failed to parse current URL %q: %w", loc, err)
	}
	return parsed.Path, nil
}

// Eval evaluates a JavaScript expression in the page, storing the result in
// res (pass nil to ignore it).
func (s *Session) Eval(ctx context.Context, expr string, res any) error {
	if res == nil {
		return s.Run(ctx, chromedp.Evaluate(expr, nil))
	}
	return s.Run(ctx, chromedp.Evaluate(expr, res))
}

// Blur removes focus from an element, e.g. to dodge autocomplete popups or
// to trigger the site's onblur validation.
func (s *Session) Blur(ctx context.Context, sel string) error {
	expr := fmt.Sprintf(`(() => { const el = document.querySelector(%q); if (el) el.blur(); })()`, sel)
	return s.Eval(ctx, expr, nil)
}

// Exists reports whether a selector matches any element.
func (s *Session) Exists(ctx context.Context, sel string) (bool, error) {
	var found bool
	expr := fmt.Sprintf(`document.querySelector(%q) !== null`, sel)
	if err := s.Eval(ctx, expr, &found); err != nil {
		return false, err
	}
	return found, nil
}
