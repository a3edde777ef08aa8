package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"

	"redmark/internal/domain"
)

// API substrings identifying the feed endpoints to intercept.
const (
	LikeAPI    = "note/like/page"
	CollectAPI = "note/collect/page"
)

// Profile tab labels.
const (
	LikesTab     = "点赞"
	BookmarksTab = "收藏"
)

// TabOptions tunes the capture scroll loop.
type TabOptions struct {
	// MaxScrolls caps the number of scroll rounds; zero or negative means
	// no cap, scrolling stops only on the no-change heuristic.
	MaxScrolls int
	ScrollWait time.Duration
	// NoChangeThreshold is how many consecutive empty scroll rounds count
	// as end-of-stream. There is no explicit termination protocol; this
	// heuristic is the best signal the page offers.
	NoChangeThreshold int
}

// feedResponse is the payload shape of the likes/bookmarks feed APIs.
type feedResponse struct {
	Data struct {
		Notes []domain.RawNote `json:"notes"`
	} `json:"data"`
}

// TabSource captures note batches from one profile tab by intercepting
// the feed API responses while scrolling. It implements fetch.Source.
type TabSource struct {
	page   *rod.Page
	router *rod.HijackRouter
	opts   TabOptions
	log    logrus.FieldLogger

	mu      sync.Mutex
	pending []domain.RawNote

	primed   bool
	scrolls  int
	noChange int
	done     bool
}

// OpenTab navigates to the user's profile, clicks the named tab and
// starts intercepting responses of the matching feed API. The returned
// source yields the already-captured initial batch first, then one batch
// per scroll round.
func (b *Browser) OpenTab(ctx context.Context, userID, tabName, apiPattern string, opts TabOptions) (*TabSource, error) {
	log := b.log.WithField("tab", tabName)

	page, err := b.newPage(ctx)
	if err != nil {
		return nil, err
	}

	src := &TabSource{page: page, opts: opts, log: log}

	router := page.HijackRequests()
	err = router.Add("*"+apiPattern+"*", "", func(h *rod.Hijack) {
		if err := h.LoadResponse(http.DefaultClient, true); err != nil {
			log.WithError(err).Debug("Failed to load feed response")
			return
		}
		var resp feedResponse
		if err := json.Unmarshal([]byte(h.Response.Body()), &resp); err != nil {
			log.WithError(err).Debug("Unparseable feed response; skipping")
			return
		}
		src.add(resp.Data.Notes)
	})
	if err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("failed to register feed hijack: %w", err)
	}
	src.router = router
	go router.Run()

	profileURL := fmt.Sprintf("%s/user/profile/%s", b.cfg.BaseURL, userID)
	if err := b.navigate(ctx, page, profileURL, 2*time.Second); err != nil {
		src.Close()
		return nil, err
	}

	tab, err := page.Timeout(10 * time.Second).ElementR(".reds-tab-item", tabName)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("could not find %q tab: %w", tabName, err)
	}
	if err := tab.Click(proto.InputMouseButtonLeft, 1); err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to click %q tab: %w", tabName, err)
	}
	if err := sleep(ctx, 3*time.Second); err != nil {
		src.Close()
		return nil, err
	}

	log.Info("Tab opened, capture started")
	return src, nil
}

func (s *TabSource) add(notes []domain.RawNote) {
	s.mu.Lock()
	s.pending = append(s.pending, notes...)
	s.mu.Unlock()
}

func (s *TabSource) take() []domain.RawNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := s.pending
	s.pending = nil
	return batch
}

// Next returns the next captured batch. The first call returns whatever
// arrived while the tab was opened; each later call scrolls once and
// returns what that scroll triggered. The stream ends after
// NoChangeThreshold consecutive empty rounds or when the scroll cap is
// spent.
func (s *TabSource) Next(ctx context.Context) ([]domain.RawNote, bool, error) {
	if s.done {
		return nil, false, nil
	}

	if !s.primed {
		s.primed = true
		batch := s.take()
		s.log.WithField("initial", len(batch)).Debug("Initial batch")
		return batch, true, nil
	}

	if s.opts.MaxScrolls > 0 && s.scrolls >= s.opts.MaxScrolls {
		s.done = true
		return nil, false, nil
	}
	if s.noChange >= s.opts.NoChangeThreshold {
		s.done = true
		return nil, false, nil
	}

	s.scrolls++
	if _, err := s.page.Eval(`() => window.scrollBy(0, 1000)`); err != nil {
		s.done = true
		return nil, false, fmt.Errorf("scroll failed: %w", err)
	}
	if err := sleep(ctx, s.opts.ScrollWait); err != nil {
		s.done = true
		return nil, false, err
	}

	batch := s.take()
	if len(batch) == 0 {
		s.noChange++
	} else {
		s.noChange = 0
		s.log.WithFields(logrus.Fields{
			"scroll": s.scrolls,
			"batch":  len(batch),
		}).Debug("Scroll round captured")
	}
	return batch, true, nil
}

// Close stops interception and closes the tab page.
func (s *TabSource) Close() {
	s.done = true
	if s.router != nil {
		if err := s.router.Stop(); err != nil {
			s.log.WithError(err).Debug("Error stopping hijack router")
		}
	}
	if err := s.page.Close(); err != nil {
		s.log.WithError(err).Debug("Error closing tab page")
	}
}
