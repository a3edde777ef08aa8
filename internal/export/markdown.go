// Package export renders a collection as a browsable markdown document,
// grouped by tag. The document is regenerated wholesale after merges and
// tag passes; it is a view, not a source of truth.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"redmark/internal/domain"
)

// untaggedSection is the heading for items with no tags.
const untaggedSection = "未分类"

// Markdown writes the collection to path as a markdown document titled
// title.
func Markdown(coll *domain.Collection, path, title string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	lastFetch := coll.LastFetch
	if lastFetch == "" {
		lastFetch = "N/A"
	}
	fmt.Fprintf(&b, "最后更新: %s\n", lastFetch)
	fmt.Fprintf(&b, "总计: %d 条\n\n", len(coll.Items))

	tagged := make(map[string][]*domain.Item)
	var untagged []*domain.Item
	for i := range coll.Items {
		item := &coll.Items[i]
		if len(item.Tags) == 0 {
			untagged = append(untagged, item)
			continue
		}
		for _, tag := range item.Tags {
			tagged[tag] = append(tagged[tag], item)
		}
	}

	tags := make([]string, 0, len(tagged))
	for tag := range tagged {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	for _, tag := range tags {
		writeSection(&b, tag, tagged[tag])
	}
	if len(untagged) > 0 {
		writeSection(&b, untaggedSection, untagged)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("failed to write markdown export: %w", err)
	}
	return nil
}

func writeSection(b *strings.Builder, heading string, items []*domain.Item) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, item := range items {
		status := ""
		if item.Reviewed {
			status = " ✅"
		}
		author := item.Author
		if author == "" {
			author = "未知"
		}
		fmt.Fprintf(b, "- **[%s](%s)** — %s%s\n", item.Title, item.URL, author, status)
		if item.Desc != "" {
			fmt.Fprintf(b, "  > %s\n", truncateRunes(item.Desc, 100))
		}
		if item.Note != "" {
			fmt.Fprintf(b, "  📝 %s\n", item.Note)
		}
		fmt.Fprintln(b)
	}
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
