// Package scrape collects per-book detail fields from the site that are
// missing from its bulk JSON export, writing them out as an extra-data file.
package scrape

import (
	"context"
	"log/slog"
	"time"

	"github.com/lepinkainen/ltsync/internal/bookdata"
	"github.com/lepinkainen/ltsync/internal/config"
	lterrors "github.com/lepinkainen/ltsync/internal/errors"
	"github.com/lepinkainen/ltsync/internal/fileutil"
	"github.com/lepinkainen/ltsync/internal/ltbrowser"
	"github.com/lepinkainen/ltsync/internal/runner"
)

// Options configures a scrape run.
type Options struct {
	Infile  string
	Outfile string
	// Merge writes the extra data merged into the input records instead of
	// as a separate mapping.
	Merge bool
	// Update loads a previous output file and updates it in place.
	Update bool
	// Login performs the login flow first; private data requires it.
	Login bool
	// DownloadCovers also fetches cover images into the attachments dir.
	DownloadCovers bool

	ErrorsFile string
	BookIDs    []string
	DebugMode  bool
	Headless   bool
	Timeout    time.Duration
}

// Run scrapes extra detail fields for each selected book and writes the
// result to the output file.
func Run(ctx context.Context, opts Options) error {
	var data map[string]bookdata.Record
	if err := fileutil.ReadJSONFile(opts.Infile, &data); err != nil {
		return err
	}

	extra, err := initExtraData(opts, data)
	if err != nil {
		return err
	}

	sess, err := ltbrowser.NewSession(ctx, ltbrowser.Options{
		BaseURL:     config.BaseURL,
		CookiesFile: config.CookiesFile,
		Headless:    opts.Headless || config.Headless,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	if opts.Login {
		if err := sess.Login(sess.Context()); err != nil {
			return err
		}
	} else {
		if err := sess.OpenAnonymous(sess.Context()); err != nil {
			return err
		}
	}

	sc := &scraper{sess: sess, opts: opts, extra: extra}
	runErr := runner.Run(ctx, data, runner.Options{
		Verb:       "scrape",
		ErrorsFile: opts.ErrorsFile,
		DebugMode:  opts.DebugMode,
		BookIDs:    opts.BookIDs,
	}, sc.processBook)
	if runErr != nil && lterrors.IsWindowClosedError(runErr) {
		return runErr
	}

	if err := fileutil.WriteJSONFile(opts.Outfile, extra); err != nil {
		return err
	}
	slog.Info("Wrote extra book data", "file", opts.Outfile, "books", len(extra))
	return runErr
}

// initExtraData decides what mapping the scraped fields accumulate into:
// a previous output file with --update, the input records themselves with
// --merge, or a fresh mapping.
func initExtraData(opts Options, data map[string]bookdata.Record) (map[string]bookdata.Record, error) {
	if opts.Update && fileutil.FileExists(opts.Outfile) {
		var extra map[string]bookdata.Record
		if err := fileutil.ReadJSONFile(opts.Outfile, &extra); err != nil {
			return nil, err
		}
		return extra, nil
	}
	if opts.Merge {
		return data, nil
	}
	return make(map[string]bookdata.Record), nil
}
