package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"redmark/internal/domain"
)

// ErrLikeButtonNotFound means the page loaded but no like control could
// be located; the caller decides whether that is fatal.
var ErrLikeButtonNotFound = errors.New("like button not found")

// Selector cascade for the active like button; the page's class names
// shift between frontend releases, so several generations are tried.
var likeButtonSelectors = []string{
	`[class*="like"][class*="active"]`,
	`.like-wrapper.active`,
	`.like-active`,
	`button[class*="like"].active`,
	`.engage-bar .like-wrapper`,
	`.note-detail .like-wrapper`,
	`[data-type="like"]`,
}

// likeCandidatesJS lists every like-related element with its class names,
// used as a last resort when the selector cascade misses.
const likeCandidatesJS = `() => {
	const candidates = document.querySelectorAll('[class*="like"], [class*="Like"]');
	const info = [];
	for (const el of candidates) {
		info.push({
			cls: el.className,
			active: el.className.includes('active') || el.className.includes('Active'),
		});
	}
	return info;
}`

// Unlike opens the item's note page and toggles the like button off.
// Returns ErrLikeButtonNotFound when no clickable like control exists.
func (b *Browser) Unlike(ctx context.Context, item *domain.Item) error {
	log := b.log.WithField("id", item.ID)

	page, err := b.newPage(ctx)
	if err != nil {
		return err
	}
	defer page.Close()

	if err := b.navigate(ctx, page, item.URL, 3*time.Second); err != nil {
		return err
	}

	btn := b.findLikeButton(page)
	if btn == nil {
		log.Warn("Could not find like button")
		return ErrLikeButtonNotFound
	}

	if err := btn.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return fmt.Errorf("failed to click like button: %w", err)
	}
	if err := sleep(ctx, 2*time.Second); err != nil {
		return err
	}
	log.Info("Like toggled off")
	return nil
}

func (b *Browser) findLikeButton(page *rod.Page) *rod.Element {
	for _, sel := range likeButtonSelectors {
		el, err := page.Timeout(2 * time.Second).Element(sel)
		if err == nil {
			return el
		}
	}

	// DOM inspection fallback: build a selector from the class list of
	// any element that looks active.
	obj, err := page.Eval(likeCandidatesJS)
	if err != nil {
		b.log.WithError(err).Debug("Like candidate inspection failed")
		return nil
	}
	for _, c := range obj.Value.Arr() {
		if !c.Get("active").Bool() {
			continue
		}
		classes := strings.Fields(c.Get("cls").Str())
		if len(classes) == 0 {
			continue
		}
		el, err := page.Timeout(time.Second).Element("." + strings.Join(classes, "."))
		if err == nil {
			return el
		}
	}
	return nil
}
