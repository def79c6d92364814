package ltbrowser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// jarCookie is the on-disk cookie representation. The jar is opaque
// store-and-replay state; no authentication logic lives here.
type jarCookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// LoadCookies replays cookies from the jar file into the browser.
func (s *Session) LoadCookies(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read cookie jar: %w", err)
	}
	var jar []jarCookie
	if err := json.Unmarshal(content, &jar); err != nil {
		return fmt.Errorf("failed to parse cookie jar: %w", err)
	}

	params := make([]*network.CookieParam, 0, len(jar))
	for _, c := range jar {
		param := &network.CookieParam{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
		}
		if c.SameSite != "" {
			param.SameSite = network.CookieSameSite(c.SameSite)
		}
		// Expires < 0 marks a session cookie.
		if c.Expires > 0 {
			sec, frac := math.Modf(c.Expires)
			expires := cdp.TimeSinceEpoch(time.Unix(int64(sec), int64(frac*1e9)))
			param.Expires = &expires
		}
		params = append(params, param)
	}

	err = s.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return network.SetCookies(params).Do(ctx)
	}))
	if err != nil {
		return fmt.Errorf("failed to set cookies: %w", err)
	}

	slog.Debug("Loaded cookies", "path", path, "count", len(params))
	return nil
}

// SaveCookies writes the browser's current cookies to the jar file.
func (s *Session) SaveCookies(ctx context.Context, path string) error {
	var cookies []*network.Cookie
	err := s.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		cookies, err = storage.GetCookies().Do(ctx)
		return err
	}))
	if err != nil {
		return fmt.Errorf("failed to get cookies: %w", err)
	}

	jar := make([]jarCookie, 0, len(cookies))
	for _, c := range cookies {
		jar = append(jar, jarCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   c.Domain,
			Path:     c.Path,
			Expires:  c.Expires,
			HTTPOnly: c.HTTPOnly,
			Secure:   c.Secure,
			SameSite: string(c.SameSite),
		})
	}

	content, err := json.MarshalIndent(jar, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cookie jar: %w", err)
	}
	if err := os.WriteFile(path, append(content, '\n'), 0600); err != nil {
		return fmt.Errorf("failed to write cookie jar: %w", err)
	}

	slog.Debug("Saved cookies", "path", path, "count", len(jar))
	return nil
}
