package papers

import (
	"context"

	"github.com/sirupsen/logrus"

	"redmark/internal/arxiv"
	"redmark/internal/domain"
)

// Outcomes of one extraction pass over an item.
const (
	// StatusExtracted means at least one id or title was resolved.
	StatusExtracted = "extracted"
	// StatusNeedsVision means the note looks like paper content and has
	// images, but the text was too short to resolve anything.
	StatusNeedsVision = "needs_vision"
	// StatusNoIDFound means the note looks like paper content but nothing
	// could be resolved.
	StatusNoIDFound = "no_id_found"
	// StatusInsight means the note does not look like paper content.
	StatusInsight = "insight"
)

// shortTextLen is the text length below which an image-heavy paper note
// is routed to visual review instead of being written off.
const shortTextLen = 100

// maxTitleLookups bounds how many candidate titles are sent to the
// lookup service per item.
const maxTitleLookups = 2

// descLimit bounds the snippet stored back onto the item.
const descLimit = 500

// LookupService resolves a free-text query to candidate papers. It is
// best-effort: failures are logged and treated as an empty result.
type LookupService interface {
	Search(ctx context.Context, query string, max int) ([]arxiv.Result, error)
}

// NoteContent is the text content of one note detail page.
type NoteContent struct {
	Title      string
	Text       string
	ImageCount int
}

// ContentReader loads the detail content for an item, typically by
// driving a browser to the note page.
type ContentReader interface {
	ReadNote(ctx context.Context, item *domain.Item) (NoteContent, error)
}

// Enricher runs the paper-extraction pass over a collection.
type Enricher struct {
	reader     ContentReader
	lookup     LookupService
	primaryTag string
	maxResults int
	log        logrus.FieldLogger
}

// NewEnricher creates an enricher selecting items tagged primaryTag.
func NewEnricher(reader ContentReader, lookup LookupService, primaryTag string, maxResults int, logger logrus.FieldLogger) *Enricher {
	return &Enricher{
		reader:     reader,
		lookup:     lookup,
		primaryTag: primaryTag,
		maxResults: maxResults,
		log:        logger.WithField("component", "papers"),
	}
}

// Summary counts what a pass did.
type Summary struct {
	Processed int
	Extracted int
}

// Pending returns the items the next pass would process: tagged with the
// primary category and not yet extracted.
func (e *Enricher) Pending(coll *domain.Collection) []*domain.Item {
	var pending []*domain.Item
	for i := range coll.Items {
		item := &coll.Items[i]
		if item.HasTag(e.primaryTag) && !item.PapersExtracted {
			pending = append(pending, item)
		}
	}
	return pending
}

// Run processes every pending item. Each item is marked extracted no
// matter the outcome, so a pass never reprocesses work; re-running after
// an interruption picks up exactly where it stopped. The collection is
// mutated in place; the caller persists it.
func (e *Enricher) Run(ctx context.Context, coll *domain.Collection) (Summary, error) {
	var sum Summary
	for _, item := range e.Pending(coll) {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		info := e.processItem(ctx, item)
		item.PapersExtracted = true
		item.PaperInfo = info
		sum.Processed++
		if info.Status == StatusExtracted {
			sum.Extracted++
		}
		e.log.WithFields(logrus.Fields{
			"id":     item.ID,
			"status": info.Status,
		}).Info("Item processed")
	}
	return sum, nil
}

func (e *Enricher) processItem(ctx context.Context, item *domain.Item) *domain.PaperInfo {
	log := e.log.WithField("id", item.ID)

	var content NoteContent
	if e.reader != nil {
		var err error
		content, err = e.reader.ReadNote(ctx, item)
		if err != nil {
			// Best-effort: classify on whatever text we already have.
			log.WithError(err).Warn("Failed to read note content")
		}
	}
	text := content.Text
	if text == "" {
		text = item.Desc
	}

	hint := Extract(text)

	if item.Desc == "" && content.Text != "" {
		item.Desc = truncateRunes(content.Text, descLimit)
	}

	// Only reach for the lookup service when the text names papers but
	// carries no ids.
	if hint.IsPaper && len(hint.ArxivIDs) == 0 && len(hint.Titles) > 0 {
		hint.ArxivIDs = e.lookupTitles(ctx, log, hint.Titles)
	}

	info := &domain.PaperInfo{
		PaperTitles: hint.Titles,
		ArxivIDs:    hint.ArxivIDs,
		TextLength:  len([]rune(text)),
		ImageCount:  content.ImageCount,
	}
	for _, id := range hint.ArxivIDs {
		info.ArxivLinks = append(info.ArxivLinks, "https://arxiv.org/abs/"+id)
	}

	hasRef := len(hint.ArxivIDs) > 0 || len(hint.Titles) > 0
	textShort := len([]rune(text)) < shortTextLen
	switch {
	case hasRef:
		info.Status = StatusExtracted
	case hint.IsPaper && content.ImageCount > 0 && textShort:
		info.Status = StatusNeedsVision
	case hint.IsPaper:
		info.Status = StatusNoIDFound
	default:
		info.Status = StatusInsight
	}
	return info
}

// lookupTitles queries the lookup service for each candidate title and
// collects the returned ids. Lookup failures are absorbed.
func (e *Enricher) lookupTitles(ctx context.Context, log logrus.FieldLogger, titles []string) []string {
	if e.lookup == nil {
		return nil
	}
	if len(titles) > maxTitleLookups {
		titles = titles[:maxTitleLookups]
	}
	var ids []string
	for _, title := range titles {
		results, err := e.lookup.Search(ctx, title, e.maxResults)
		if err != nil {
			log.WithError(err).WithField("title", title).Warn("Lookup failed")
			continue
		}
		for _, r := range results {
			ids = append(ids, StripVersion(r.ID))
		}
	}
	return uniqueStrings(ids)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
