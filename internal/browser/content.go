package browser

import (
	"context"
	"fmt"

	"redmark/internal/domain"
	"redmark/internal/papers"
)

// noteContentJS reads the detail title, body text and image count out of
// a loaded note page.
const noteContentJS = `() => {
	const title = document.querySelector('#detail-title');
	const desc = document.querySelector('#detail-desc, .note-text');
	const imgs = document.querySelectorAll('.swiper-slide img, .note-slider-img img');
	return {
		title: title?.innerText?.trim() || '',
		text: desc?.innerText?.trim() || '',
		image_count: imgs.length,
	};
}`

// ReadNote loads the note detail page for an item and returns its text
// content. It implements papers.ContentReader. The capture-time token is
// required; detail pages reject requests without it.
func (b *Browser) ReadNote(ctx context.Context, item *domain.Item) (papers.NoteContent, error) {
	url := fmt.Sprintf("%s/explore/%s?xsec_token=%s&xsec_source=pc_collect",
		b.cfg.BaseURL, item.ID, item.XsecToken)

	page, err := b.newPage(ctx)
	if err != nil {
		return papers.NoteContent{}, err
	}
	defer page.Close()

	if err := b.navigate(ctx, page, url, b.cfg.Papers.PageLoadWait()); err != nil {
		return papers.NoteContent{}, err
	}

	obj, err := page.Eval(noteContentJS)
	if err != nil {
		return papers.NoteContent{}, fmt.Errorf("failed to read note content: %w", err)
	}
	return papers.NoteContent{
		Title:      obj.Value.Get("title").Str(),
		Text:       obj.Value.Get("text").Str(),
		ImageCount: obj.Value.Get("image_count").Int(),
	}, nil
}
