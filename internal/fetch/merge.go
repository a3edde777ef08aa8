// Package fetch turns a noisy capture stream into new items in a
// collection. Merging is additive-only: records whose id is already
// present are skipped, never updated, so running a fetch twice against an
// unchanged account adds nothing.
package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"redmark/internal/domain"
	"redmark/internal/store"
)

// Merger drains a capture source and merges the records into a persisted
// collection.
type Merger struct {
	store   *store.Store
	baseURL string
	now     func() time.Time
	log     logrus.FieldLogger
}

// NewMerger creates a merge engine writing through the given store.
func NewMerger(st *store.Store, baseURL string, logger logrus.FieldLogger) *Merger {
	return &Merger{
		store:   st,
		baseURL: baseURL,
		now:     time.Now,
		log:     logger.WithField("component", "fetch"),
	}
}

// FetchAndMerge drains the source, deduplicates the records, merges them
// into the collection at path and persists the result. It returns the
// number of newly appended items.
func (m *Merger) FetchAndMerge(ctx context.Context, src Source, path string) (int, error) {
	notes := Dedupe(m.Drain(ctx, src))
	m.log.WithField("records", len(notes)).Info("Capture stream drained")

	coll, err := m.store.LoadCollection(path)
	if err != nil {
		return 0, err
	}
	added := m.Merge(coll, notes)
	if err := m.store.SaveCollection(path, coll); err != nil {
		return 0, err
	}
	m.log.WithFields(logrus.Fields{
		"new":   added,
		"total": len(coll.Items),
	}).Info("Merge complete")
	return added, nil
}

// Drain polls the source until it signals exhaustion. A source error ends
// the stream early: capture is best-effort and a partial drain still
// produces a useful merge.
func (m *Merger) Drain(ctx context.Context, src Source) []domain.RawNote {
	var all []domain.RawNote
	for {
		batch, ok, err := src.Next(ctx)
		if err != nil {
			m.log.WithError(err).Warn("Capture source failed; treating stream as ended")
			return all
		}
		all = append(all, batch...)
		if !ok {
			return all
		}
	}
}

// Dedupe removes duplicate records by note id, preserving first-occurrence
// order. Records without an id are dropped.
func Dedupe(notes []domain.RawNote) []domain.RawNote {
	seen := make(map[string]struct{}, len(notes))
	unique := make([]domain.RawNote, 0, len(notes))
	for _, n := range notes {
		if n.NoteID == "" {
			continue
		}
		if _, dup := seen[n.NoteID]; dup {
			continue
		}
		seen[n.NoteID] = struct{}{}
		unique = append(unique, n)
	}
	return unique
}

// Merge appends every record whose id is not already in the collection as
// a fresh item, and advances last_fetch. It returns the number of items
// appended. Existing items are never modified.
func (m *Merger) Merge(coll *domain.Collection, notes []domain.RawNote) int {
	stamp := domain.Stamp(m.now())
	existing := coll.IDSet()

	added := 0
	for _, n := range notes {
		if _, ok := existing[n.NoteID]; ok {
			continue
		}
		coll.Items = append(coll.Items, m.newItem(n, stamp))
		existing[n.NoteID] = struct{}{}
		added++
	}
	coll.LastFetch = stamp
	return added
}

func (m *Merger) newItem(n domain.RawNote, stamp string) domain.Item {
	title := n.DisplayTitle
	if title == "" {
		title = n.Title
	}
	if title == "" {
		title = fmt.Sprintf("笔记 %s", shortID(n.NoteID))
	}
	return domain.Item{
		ID:        n.NoteID,
		Title:     title,
		Author:    n.User.Nickname,
		AuthorID:  n.User.UserID,
		URL:       m.baseURL + "/explore/" + n.NoteID,
		Cover:     n.Cover.URL,
		Type:      n.Type,
		Tags:      []string{},
		XsecToken: n.XsecToken,
		FirstSeen: stamp,
		SavedAt:   stamp,
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
