// Package importer creates or edits book records through the site's add and
// edit forms, setting each field idempotently from JSON book data.
package importer

import (
	"context"
	"log/slog"
	"regexp"
	"time"

	"github.com/lepinkainen/ltsync/internal/bookdata"
	"github.com/lepinkainen/ltsync/internal/cache"
	"github.com/lepinkainen/ltsync/internal/config"
	"github.com/lepinkainen/ltsync/internal/fileutil"
	"github.com/lepinkainen/ltsync/internal/ltbrowser"
	"github.com/lepinkainen/ltsync/internal/runner"
)

// Options configures an import run.
type Options struct {
	File      string
	ExtraFile string
	// NoSource ignores the source field and adds every book manually.
	NoSource bool
	// SearchBy is the identifier priority used when adding from a source.
	SearchBy []string
	// Tag is an extra tag applied to every imported book.
	Tag string
	// NoVenueSearch skips the venue search when setting "From where?".
	NoVenueSearch bool
	// PhysicalSummary and Summary select "auto" (leave blank for the site
	// to generate) or "json" (use the value from the book data).
	PhysicalSummary string
	Summary         string
	// Private marks created books as private.
	Private bool

	ErrorsFile string
	BookIDs    []string
	DebugMode  bool
	Headless   bool
	Timeout    time.Duration
}

const (
	defaultBookTimeout = 3 * time.Minute
	waitTimeout        = 15 * time.Second
	searchTimeout      = 30 * time.Second
)

type importer struct {
	sess *ltbrowser.Session
	opts Options

	// Dropdown mappings learned during the run, seeded from the sqlite
	// cache and written back on discovery.
	langs         map[string]string // review language name -> select value
	customFormats map[string]string // custom format code -> select value

	// Source names by section of the add-source lightbox, casefolded.
	featuredSources map[string]string
	allSources      map[string]string
}

// Run imports each selected book into the site.
func Run(ctx context.Context, opts Options) error {
	var data map[string]bookdata.Record
	if err := fileutil.ReadJSONFile(opts.File, &data); err != nil {
		return err
	}
	if opts.ExtraFile != "" {
		var extra map[string]bookdata.Record
		if err := fileutil.ReadJSONFile(opts.ExtraFile, &extra); err != nil {
			return err
		}
		bookdata.AddExtra(data, extra)
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

	if err := sess.Login(sess.Context()); err != nil {
		return err
	}

	imp := newImporter(sess, opts)
	return runner.Run(ctx, data, runner.Options{
		Verb:       "import",
		ErrorsFile: opts.ErrorsFile,
		DebugMode:  opts.DebugMode,
		BookIDs:    opts.BookIDs,
	}, imp.addBook)
}

func newImporter(sess *ltbrowser.Session, opts Options) *importer {
	return &importer{
		sess:            sess,
		opts:            opts,
		langs:           cache.Mappings(sess.Host(), cache.KindLanguage),
		customFormats:   cache.Mappings(sess.Host(), cache.KindFormat),
		featuredSources: make(map[string]string),
		allSources:      make(map[string]string),
	}
}

// addBook creates one book, from a source library when the record names one
// or through the manual entry form otherwise.
func (imp *importer) addBook(bookID string, rec bookdata.Record) error {
	timeout := imp.opts.Timeout
	if timeout == 0 {
		timeout = defaultBookTimeout
	}
	ctx, cancel := imp.sess.WithTimeout(timeout)
	defer cancel()

	slog.Info("Adding book", "book_id", bookID, "title", bookdata.GetString(rec, "title"))
	source := bookdata.GetString(rec, "source")
	added := false
	if source != "" && source != "manual entry" && !imp.opts.NoSource {
		var err error
		added, err = imp.addFromSource(ctx, bookID, rec, source)
		if err != nil {
			return err
		}
	}
	if !added {
		if err := imp.addManually(ctx, bookID, rec); err != nil {
			return err
		}
	}
	return imp.checkWorkID(ctx, bookdata.GetString(rec, "workcode"))
}

// addManually creates a book through the manual entry form.
func (imp *importer) addManually(ctx context.Context, bookID string, rec bookdata.Record) error {
	if err := imp.sess.Navigate(ctx, imp.sess.BaseURL()+"/addnew.php"); err != nil {
		return err
	}
	return imp.setBookFields(ctx, bookID, rec)
}

var bookURLPathRe = regexp.MustCompile(`^/work/([0-9]+)/book/([0-9]+)`)

// parseBookURLPath extracts the work and book ids from a book page path.
func parseBookURLPath(path string) (workID, bookID string, ok bool) {
	m := bookURLPathRe.FindStringSubmatch(path)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
