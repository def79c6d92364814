// Package runner drives the per-book processing loop shared by the scrape
// and import commands: pacing, error capture, and the debug-mode pause.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lepinkainen/ltsync/internal/bookdata"
	lterrors "github.com/lepinkainen/ltsync/internal/errors"
	"github.com/lepinkainen/ltsync/internal/ratelimit"
	"github.com/lepinkainen/ltsync/internal/tui"
)

// pause is swappable for tests.
var pause = tui.Pause

// ProcessFunc handles a single book record.
type ProcessFunc func(bookID string, rec bookdata.Record) error

// Options configures a processing run.
type Options struct {
	// Verb names the operation in logs, e.g. "scrape" or "import".
	Verb string
	// ErrorsFile, when set, receives one book ID per line for each book
	// that failed, flushed as the run progresses.
	ErrorsFile string
	// DebugMode pauses after a failed book and at the end of the run so the
	// page can be inspected before the browser closes.
	DebugMode bool
	// BookIDs restricts and orders the run; empty means all books in
	// ascending ID order.
	BookIDs []string
	// Interval is the minimum spacing between books; zero means one second.
	Interval time.Duration
}

// Run processes each selected book in turn. A lost browser window aborts the
// run immediately; any other per-book failure is recorded and the run moves
// on. Returns an error if the browser was lost or if any book failed.
func Run(ctx context.Context, data map[string]bookdata.Record, opts Options, process ProcessFunc) error {
	entries := bookdata.IterBooks(data, opts.BookIDs)

	var errorsOut *os.File
	if opts.ErrorsFile != "" {
		var err error
		errorsOut, err = os.OpenFile(opts.ErrorsFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open errors file: %w", err)
		}
		defer func() { _ = errorsOut.Close() }()
	}

	interval := opts.Interval
	if interval == 0 {
		interval = time.Second
	}
	pacer := ratelimit.New("books", interval)
	processed := 0
	var failed []string

	for _, entry := range entries {
		if err := pacer.Wait(ctx); err != nil {
			return err
		}

		slog.Info("Processing book", "operation", opts.Verb, "book_id", entry.ID)
		if err := process(entry.ID, entry.Record); err != nil {
			if lterrors.IsWindowClosedError(err) {
				slog.Error("Browser window lost, aborting", "book_id", entry.ID)
				return err
			}
			slog.Error("Failed to process book", "operation", opts.Verb, "book_id", entry.ID, "error", err)
			failed = append(failed, entry.ID)
			if errorsOut != nil {
				if _, werr := fmt.Fprintln(errorsOut, entry.ID); werr != nil {
					slog.Warn("Failed to record error", "book_id", entry.ID, "error", werr)
				}
				_ = errorsOut.Sync()
			}
			if opts.DebugMode {
				action, perr := pause(fmt.Sprintf("Book %s failed", entry.ID))
				if perr != nil {
					return perr
				}
				if action == tui.ActionAbort {
					slog.Info("Run aborted at debug pause", "book_id", entry.ID)
					break
				}
			}
		} else {
			processed++
		}
	}

	slog.Info("Run complete", "operation", opts.Verb, "processed", processed, "errors", len(failed), "total", len(entries))
	if opts.DebugMode {
		if _, perr := pause("Run finished, browser still open"); perr != nil {
			return perr
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("%d of %d books failed", len(failed), len(entries))
	}
	return nil
}
