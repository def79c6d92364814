package ltbrowser

import (
	"context"
	"log/slog"
	"time"
)

// Selectors of the site's modal overlay ("lightbox"), used for secondary
// edit flows: collections, covers, locations, sources.
const (
	LightboxSel        = "#LT_LB"
	LightboxLoadingSel = "#LT_LB_loading"
	LightboxContentSel = "#LT_LB_content"
	lightboxCloseSel   = "#LT_LT_closebutton > a"

	lightboxTimeout = 15 * time.Second
)

// WaitLightbox waits for the lightbox to appear and finish loading.
func (s *Session) WaitLightbox(ctx context.Context) error {
	if err := s.WaitVisible(ctx, LightboxSel, "lightbox to appear", lightboxTimeout); err != nil {
		return err
	}
	return s.WaitGone(ctx, LightboxLoadingSel, "lightbox to finish loading", lightboxTimeout)
}

// CloseLightbox clicks the lightbox close button and waits for the content
// to disappear.
func (s *Session) CloseLightbox(ctx context.Context, message string) error {
	slog.Debug(message)
	if err := s.Click(ctx, lightboxCloseSel); err != nil {
		return err
	}
	return s.WaitGone(ctx, LightboxContentSel, "lightbox to close", lightboxTimeout)
}

// WaitLightboxGone waits for the lightbox to disappear, e.g. after a save
// inside it navigates or dismisses the modal.
func (s *Session) WaitLightboxGone(ctx context.Context) error {
	return s.WaitGone(ctx, LightboxSel, "lightbox to be dismissed", lightboxTimeout)
}
