package browser

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-rod/rod"
)

// UserID detects the logged-in user id by intercepting the user/me API
// response while loading the home page. It returns an empty string when
// the session is a guest.
func (b *Browser) UserID(ctx context.Context) (string, error) {
	page, err := b.newPage(ctx)
	if err != nil {
		return "", err
	}
	defer page.Close()

	var (
		mu     sync.Mutex
		userID string
	)
	router := page.HijackRequests()
	err = router.Add("*user/me*", "", func(h *rod.Hijack) {
		if err := h.LoadResponse(http.DefaultClient, true); err != nil {
			b.log.WithError(err).Debug("Failed to load user/me response")
			return
		}
		var resp struct {
			Data struct {
				UserID string `json:"user_id"`
				Guest  bool   `json:"guest"`
			} `json:"data"`
		}
		// A payload without the guest field means a guest session.
		resp.Data.Guest = true
		if err := json.Unmarshal([]byte(h.Response.Body()), &resp); err != nil {
			return
		}
		if resp.Data.UserID != "" && !resp.Data.Guest {
			mu.Lock()
			userID = resp.Data.UserID
			mu.Unlock()
		}
	})
	if err != nil {
		return "", fmt.Errorf("failed to register user/me hijack: %w", err)
	}
	go router.Run()
	defer router.Stop()

	if err := b.navigate(ctx, page, b.cfg.BaseURL, 3*time.Second); err != nil {
		return "", err
	}

	mu.Lock()
	defer mu.Unlock()
	return userID, nil
}

// Login opens the platform for a manual login and verifies it. The user
// logs in by hand in the opened browser window and confirms on the
// terminal; the persistent profile keeps the session for later runs.
func (b *Browser) Login(ctx context.Context, in io.Reader, out io.Writer) error {
	page, err := b.newPage(ctx)
	if err != nil {
		return err
	}
	defer page.Close()

	fmt.Fprintln(out, "🔐 Opening browser for login...")
	fmt.Fprintln(out, "   Log in manually, then press Enter here.")
	fmt.Fprintln(out)

	if err := b.navigate(ctx, page, b.cfg.BaseURL, 0); err != nil {
		return err
	}

	fmt.Fprint(out, "⏳ Press Enter after login... ")
	if _, err := bufio.NewReader(in).ReadString('\n'); err != nil && err != io.EOF {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}

	uid, err := b.UserID(ctx)
	if err != nil {
		return err
	}
	if uid == "" {
		fmt.Fprintln(out, "⚠️  Could not verify login, but the browser profile was saved.")
		return nil
	}
	fmt.Fprintf(out, "✅ Logged in! User ID: %s\n", uid)
	fmt.Fprintf(out, "   Add this to your config.yaml: user_id: %q\n", uid)
	return nil
}
