// Package browser drives a real Chromium instance through rod. It
// implements the external collaborators of the pipeline: the capture
// source for likes/bookmarks, the login flow, the note content reader
// used by the paper-extraction pass, and the unlike action.
//
// The browser always runs headful against a persistent profile so the
// login session survives between runs and the platform sees an ordinary
// interactive browser.
package browser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"redmark/internal/config"
)

// Browser owns one connected Chromium instance.
type Browser struct {
	cfg     *config.Config
	browser *rod.Browser
	log     logrus.FieldLogger
}

// Open launches Chromium against the persistent profile directory and
// connects to it.
func Open(cfg *config.Config, logger logrus.FieldLogger) (*Browser, error) {
	log := logger.WithField("component", "browser")

	if err := os.MkdirAll(cfg.BrowserProfileDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create browser profile dir: %w", err)
	}

	bin, found := launcher.LookPath()
	if !found {
		return nil, errors.New("no chromium executable found for rod")
	}

	u, err := launcher.New().
		Bin(bin).
		Headless(false).
		UserDataDir(cfg.BrowserProfileDir).
		Set("lang", cfg.Browser.Locale).
		Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	log.WithField("profile", cfg.BrowserProfileDir).Info("Browser connected")

	return &Browser{cfg: cfg, browser: b, log: log}, nil
}

// Close shuts the browser down.
func (b *Browser) Close() error {
	if err := b.browser.Close(); err != nil {
		b.log.WithError(err).Error("Error closing browser")
		return err
	}
	b.log.Debug("Browser closed")
	return nil
}

// newPage opens a fresh page with the configured user agent and viewport.
func (b *Browser) newPage(ctx context.Context) (*rod.Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: b.cfg.Browser.UserAgent,
	}); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("failed to set user agent: %w", err)
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.cfg.Browser.ViewportWidth,
		Height:            b.cfg.Browser.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("failed to set viewport: %w", err)
	}
	return page, nil
}

// navigate loads a URL and then waits settle for the client-rendered
// content and its XHRs to land. The platform renders everything after
// load, so WaitLoad alone is never enough.
func (b *Browser) navigate(ctx context.Context, page *rod.Page, url string, settle time.Duration) error {
	if err := page.Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("failed waiting for page load: %w", err)
	}
	return sleep(ctx, settle)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
