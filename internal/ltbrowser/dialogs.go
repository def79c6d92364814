package ltbrowser

import (
	"context"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// ExpectPrompt arranges for the next JavaScript dialog on the page to be
// accepted, with the given text when it is a prompt. The site uses a prompt
// for custom author roles; without a handler the dialog would block the
// session. The listener disarms itself after one dialog or when ctx ends.
func (s *Session) ExpectPrompt(ctx context.Context, text string) {
	listenCtx, cancel := context.WithCancel(ctx)
	chromedp.ListenTarget(listenCtx, func(ev any) {
		if _, ok := ev.(*page.EventJavascriptDialogOpening); !ok {
			return
		}
		cancel()
		// Must run on a fresh goroutine: the listener callback runs on the
		// CDP message loop and would deadlock calling back into it.
		go func() {
			_ = chromedpRunner(s.ctx, page.HandleJavaScriptDialog(true).WithPromptText(text))
		}()
	})
}
