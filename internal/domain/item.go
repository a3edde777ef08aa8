package domain

import (
	"encoding/json"
	"errors"
)

// ErrNotFound is returned when an item id is not present in a collection.
var ErrNotFound = errors.New("item not found")

// Item is one curated record derived from a captured note.
type Item struct {
	// ID is the note id assigned by the platform; unique within a collection
	// and immutable once the item is created.
	ID string `json:"id"`

	Title    string `json:"title"`
	Author   string `json:"author"`
	AuthorID string `json:"author_id"`
	URL      string `json:"url"`
	Cover    string `json:"cover"`
	Type     string `json:"type"`

	// Tags assigned by the keyword tagger or edited during review.
	Tags []string `json:"tags"`

	// Desc is a text snippet captured from the note detail page.
	Desc string `json:"desc"`

	// Note is a free-form annotation written during review.
	Note string `json:"note"`

	Reviewed  bool   `json:"reviewed"`
	Removed   bool   `json:"removed,omitempty"`
	RemovedAt string `json:"removed_at,omitempty"`

	// XsecToken is the capture-time access token; passed through unmodified
	// because the detail page refuses requests without it.
	XsecToken string `json:"xsec_token"`

	// FirstSeen is set once at creation and never mutated afterwards.
	FirstSeen string `json:"first_seen"`
	SavedAt   string `json:"saved_at"`

	// PapersExtracted marks the item as processed by the paper-extraction
	// pass, regardless of the outcome.
	PapersExtracted bool       `json:"papers_extracted,omitempty"`
	PaperInfo       *PaperInfo `json:"paper_info,omitempty"`
}

// HasTag reports whether the item carries the given tag.
func (i *Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// PaperInfo is the result of one paper-extraction pass over an item.
type PaperInfo struct {
	Status      string   `json:"status"`
	PaperTitles []string `json:"paper_titles"`
	ArxivIDs    []string `json:"arxiv_ids"`
	ArxivLinks  []string `json:"arxiv_links"`
	TextLength  int      `json:"text_length"`
	ImageCount  int      `json:"image_count"`
}

// Collection is the full persisted set of items for one category
// (likes or bookmarks). Membership is append-only; items are marked
// removed, never deleted.
type Collection struct {
	Items     []Item `json:"items"`
	LastFetch string `json:"last_fetch,omitempty"`
}

// Find returns a pointer to the item with the given id.
func (c *Collection) Find(id string) (*Item, bool) {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i], true
		}
	}
	return nil, false
}

// IDSet returns the set of ids currently in the collection.
func (c *Collection) IDSet() map[string]struct{} {
	set := make(map[string]struct{}, len(c.Items))
	for i := range c.Items {
		set[c.Items[i].ID] = struct{}{}
	}
	return set
}

// RawNote is one record as produced by the capture source, before it is
// merged into a collection.
type RawNote struct {
	NoteID       string   `json:"note_id"`
	DisplayTitle string   `json:"display_title"`
	Title        string   `json:"title"`
	Type         string   `json:"type"`
	XsecToken    string   `json:"xsec_token"`
	User         RawUser  `json:"user"`
	Cover        RawCover `json:"cover"`
}

// RawUser is the author block of a captured note.
type RawUser struct {
	Nickname string `json:"nickname"`
	UserID   string `json:"user_id"`
}

// RawCover tolerates the cover field being either an object or a bare
// string in captured API payloads.
type RawCover struct {
	URL string `json:"url"`
}

func (c *RawCover) UnmarshalJSON(data []byte) error {
	type cover RawCover
	var obj cover
	if err := json.Unmarshal(data, &obj); err == nil {
		*c = RawCover(obj)
		return nil
	}
	// Not an object; leave the URL empty rather than failing the batch.
	c.URL = ""
	return nil
}

// TagRule is a named keyword set used for automatic classification.
// Rules are evaluated in order; every matching rule contributes its name.
type TagRule struct {
	Name     string   `json:"name" mapstructure:"name"`
	Keywords []string `json:"keywords" mapstructure:"keywords"`
}
