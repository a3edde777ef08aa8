// Package tagger assigns category tags to items using keyword rules.
package tagger

import (
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"redmark/internal/domain"
)

// FallbackTag is assigned when no rule matches.
const FallbackTag = "uncategorized"

// Classify matches the rule keywords against title and desc,
// case-insensitively, and returns the names of all matching rules. A rule
// matches if any of its keywords occurs as a substring. When nothing
// matches, the result is the fallback tag alone.
func Classify(title, desc string, rules []domain.TagRule) []string {
	combined := strings.ToLower(title + " " + desc)
	var tags []string
	for _, rule := range rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(combined, strings.ToLower(kw)) {
				tags = append(tags, rule.Name)
				break
			}
		}
	}
	if len(tags) == 0 {
		return []string{FallbackTag}
	}
	return tags
}

// Tagger applies a rule set across a collection.
type Tagger struct {
	rules []domain.TagRule
	log   logrus.FieldLogger
}

// New creates a tagger with the given rule set.
func New(rules []domain.TagRule, logger logrus.FieldLogger) *Tagger {
	return &Tagger{
		rules: rules,
		log:   logger.WithField("component", "tagger"),
	}
}

// TagAll classifies every item that has no tags yet and returns how many
// were tagged. Items with tags are never touched, even if the rule set
// has changed since they were classified: manual edits made during review
// must survive later automatic passes.
func (t *Tagger) TagAll(coll *domain.Collection) int {
	tagged := 0
	for i := range coll.Items {
		item := &coll.Items[i]
		if len(item.Tags) > 0 {
			continue
		}
		item.Tags = Classify(item.Title, item.Desc, t.rules)
		tagged++
	}
	t.log.WithField("tagged", tagged).Info("Auto-tag pass complete")
	return tagged
}

// TagItem unions the given tags into one item's tag set. The resulting
// set is sorted for stable output. Returns domain.ErrNotFound when the id
// is not in the collection.
func (t *Tagger) TagItem(coll *domain.Collection, id string, tags []string) (*domain.Item, error) {
	item, ok := coll.Find(id)
	if !ok {
		return nil, domain.ErrNotFound
	}
	item.Tags = MergeTags(item.Tags, tags)
	t.log.WithFields(logrus.Fields{
		"id":   id,
		"tags": item.Tags,
	}).Info("Item tagged")
	return item, nil
}

// MergeTags unions new tags into existing ones, trimming whitespace and
// discarding empties, and returns the sorted result.
func MergeTags(existing, added []string) []string {
	set := make(map[string]struct{}, len(existing)+len(added))
	for _, tag := range existing {
		set[tag] = struct{}{}
	}
	for _, tag := range added {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		set[tag] = struct{}{}
	}
	merged := make([]string, 0, len(set))
	for tag := range set {
		merged = append(merged, tag)
	}
	sort.Strings(merged)
	return merged
}
