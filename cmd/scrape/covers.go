package scrape

import (
	"fmt"
	"log/slog"

	"github.com/lepinkainen/ltsync/internal/bookdata"
	"github.com/lepinkainen/ltsync/internal/config"
	"github.com/lepinkainen/ltsync/internal/fileutil"
)

// downloadCover saves a book's cover image and thumbnail under the
// attachments directory, named after the title when present.
func (sc *scraper) downloadCover(bookID string, rec bookdata.Record, coverURL string) error {
	name := bookdata.GetString(rec, "title")
	if name == "" {
		name = bookID
	}
	filename := fmt.Sprintf("%s.jpg", fileutil.SanitizeFilename(name))

	result, err := fileutil.DownloadCover(fileutil.CoverDownloadOptions{
		URL:       coverURL,
		OutputDir: config.AttachmentsDir,
		Filename:  filename,
	})
	if err != nil {
		return err
	}
	if result.Downloaded {
		slog.Info("Downloaded cover", "book_id", bookID, "path", result.LocalPath)
	}
	return nil
}
