package ltbrowser

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"
)

const (
	gdprBannerSel = "#gdpr_notice"
	gdprCloseSel  = "#gdpr_closebutton"

	manualLoginTimeout = 3 * time.Minute
)

// Login opens the site and establishes a logged-in session: cookies from
// the jar are replayed first, and if that doesn't land on the member home
// page the user is asked to log in by hand (and pass any robot check). On
// success the jar is refreshed.
func (s *Session) Login(ctx context.Context) error {
	if err := s.Navigate(ctx, s.BaseURL()); err != nil {
		return err
	}

	cookiesFile := s.opts.CookiesFile
	if cookiesFile != "" {
		if _, err := os.Stat(cookiesFile); err == nil {
			if err := s.LoadCookies(ctx, cookiesFile); err != nil {
				return err
			}
			if err := s.Navigate(ctx, s.BaseURL()+"/home"); err != nil {
				return err
			}
		}
	}

	path, err := s.CurrentPath(ctx)
	if err != nil {
		return err
	}
	if path != "/home" {
		slog.Warn("Not logged in - log in and complete the robot check in the browser window")
		if err := s.WaitForURLPath(ctx, "/home", manualLoginTimeout); err != nil {
			return fmt.Errorf("login not completed: %w", err)
		}
	}
	slog.Debug("Login successful")

	if err := s.CloseGDPRBanner(ctx); err != nil {
		return err
	}

	if cookiesFile != "" {
		if err := s.SaveCookies(ctx, cookiesFile); err != nil {
			return err
		}
	}
	return nil
}

// OpenAnonymous opens the site without logging in. Only public book data is
// reachable this way.
func (s *Session) OpenAnonymous(ctx context.Context) error {
	if err := s.Navigate(ctx, s.BaseURL()); err != nil {
		return err
	}
	return s.CloseGDPRBanner(ctx)
}

// CloseGDPRBanner dismisses the GDPR banner if present.
func (s *Session) CloseGDPRBanner(ctx context.Context) error {
	present, err := s.Exists(ctx, gdprBannerSel)
	if err != nil {
		return err
	}
	if !present {
		return nil
	}
	slog.Debug("Clicking GDPR banner 'I Agree' button")
	if err := s.Click(ctx, gdprCloseSel); err != nil {
		return err
	}
	return s.WaitGone(ctx, gdprBannerSel, "GDPR banner to close", 10*time.Second)
}
