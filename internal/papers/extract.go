// Package papers extracts paper references from note text and resolves
// missing arXiv ids through a lookup service.
package papers

import (
	"regexp"
	"strings"
)

var (
	arxivIDPattern = regexp.MustCompile(`\d{4}\.\d{4,5}`)
	// Titles in 《》 brackets or curly/straight double quotes.
	bracketTitlePattern = regexp.MustCompile(`《([^》]{5,100})》`)
	quotedTitlePattern  = regexp.MustCompile(`[“"]([^”"]{5,100})[”"]`)
	// Labeled fields like 题目：..., paper: ..., Title: ...
	labeledTitlePattern = regexp.MustCompile(`(?i)(?:题目[：:]|paper[：:]|论文[：:]|title[：:])\s*(.{10,120})`)
	versionSuffix       = regexp.MustCompile(`v\d+$`)
)

// paperMarkers are phrases whose presence alone suggests the note is
// about a paper, even when no id or title was extracted.
var paperMarkers = []string{"arxiv", "论文", "paper", "题目：", "一句话总结"}

// Hint is what the text itself reveals about referenced papers.
type Hint struct {
	ArxivIDs []string
	Titles   []string
	// IsPaper reports whether the note looks like paper content at all.
	IsPaper bool
}

// Extract pattern-matches arXiv ids and candidate paper titles out of
// free text.
func Extract(text string) Hint {
	ids := uniqueStrings(arxivIDPattern.FindAllString(text, -1))

	var titles []string
	for _, pattern := range []*regexp.Regexp{bracketTitlePattern, quotedTitlePattern, labeledTitlePattern} {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			titles = append(titles, strings.TrimSpace(m[1]))
		}
	}
	titles = uniqueStrings(titles)

	isPaper := len(ids) > 0 || len(titles) > 0
	if !isPaper {
		lower := strings.ToLower(text)
		for _, marker := range paperMarkers {
			if strings.Contains(lower, marker) {
				isPaper = true
				break
			}
		}
	}

	return Hint{ArxivIDs: ids, Titles: titles, IsPaper: isPaper}
}

// StripVersion removes a trailing vN from an arXiv id.
func StripVersion(id string) string {
	return versionSuffix.ReplaceAllString(id, "")
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
