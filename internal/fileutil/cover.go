package fileutil

import (
	"fmt"
	"image/jpeg"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
)

const thumbnailWidth = 200

// CoverDownloadOptions holds options for downloading cover images.
type CoverDownloadOptions struct {
	// URL is the source URL of the cover image
	URL string
	// OutputDir is the directory where the cover will be saved
	OutputDir string
	// Filename is the name of the cover file (e.g., "12345 - cover.jpg")
	Filename string
	// UpdateCovers forces re-downloading even if cover exists
	UpdateCovers bool
}

// CoverDownloadResult holds the result of a cover download operation.
type CoverDownloadResult struct {
	// Downloaded indicates if a new file was downloaded
	Downloaded bool
	// LocalPath is the full path to the downloaded cover
	LocalPath string
	// ThumbnailPath is the full path to the generated thumbnail
	ThumbnailPath string
}

// DownloadCover downloads a cover image and writes a fixed-width thumbnail
// next to it. It skips downloading if the file already exists and
// UpdateCovers is false.
func DownloadCover(opts CoverDownloadOptions) (*CoverDownloadResult, error) {
	if opts.URL == "" {
		return nil, nil
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create attachments directory: %w", err)
	}

	localPath := filepath.Join(opts.OutputDir, opts.Filename)
	result := &CoverDownloadResult{
		LocalPath:     localPath,
		ThumbnailPath: ThumbnailPath(localPath),
	}

	if FileExists(localPath) && !opts.UpdateCovers {
		slog.Debug("Cover already exists, skipping download", "path", localPath)
		return result, nil
	}

	client := &http.Client{
		Timeout: 30 * time.Second,
	}

	resp, err := client.Get(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download cover: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d downloading cover from %s", resp.StatusCode, opts.URL)
	}

	img, err := imaging.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cover image: %w", err)
	}

	if err := imaging.Save(img, localPath, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("failed to save cover file: %w", err)
	}

	thumb := imaging.Resize(img, thumbnailWidth, 0, imaging.Lanczos)
	if err := imaging.Save(thumb, result.ThumbnailPath, imaging.JPEGQuality(jpeg.DefaultQuality)); err != nil {
		return nil, fmt.Errorf("failed to save cover thumbnail: %w", err)
	}

	slog.Info("Downloaded cover", "path", localPath)
	result.Downloaded = true

	return result, nil
}

// ThumbnailPath returns the thumbnail filename for a cover path:
// "x/12345 - cover.jpg" becomes "x/12345 - cover - thumb.jpg".
func ThumbnailPath(coverPath string) string {
	ext := filepath.Ext(coverPath)
	base := coverPath[:len(coverPath)-len(ext)]
	return base + " - thumb" + ext
}
