// Package review drives the interactive triage loop over a collection.
//
// A session walks a fixed list of eligible items computed once at start:
// unreviewed items passing the mode filter, in collection order. Progress
// lives in the persisted review state, so a quit session resumes where it
// left off, and growing the collection between sessions cannot desync
// positions. One reviewed set is shared across all modes: keeping an item
// in one mode retires it from every mode.
package review

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"redmark/internal/domain"
	"redmark/internal/tagger"
)

// Session is a single review run over one collection. It mutates the
// collection and state in memory; the caller persists both afterwards,
// whether the list was exhausted or the user quit.
type Session struct {
	coll       *domain.Collection
	state      *domain.ReviewState
	mode       domain.Mode
	primaryTag string
	in         *bufio.Scanner
	out        io.Writer
	now        func() time.Time
	log        logrus.FieldLogger
}

// New creates a session reading commands from in and writing prompts to
// out.
func New(coll *domain.Collection, state *domain.ReviewState, mode domain.Mode, primaryTag string, in io.Reader, out io.Writer, logger logrus.FieldLogger) *Session {
	return &Session{
		coll:       coll,
		state:      state,
		mode:       mode,
		primaryTag: primaryTag,
		in:         bufio.NewScanner(in),
		out:        out,
		now:        time.Now,
		log:        logger.WithField("component", "review"),
	}
}

// Eligible returns the items this session will walk, in collection order:
// unreviewed (per the global reviewed set) and matching the mode filter.
func (s *Session) Eligible() []*domain.Item {
	reviewed := s.state.ReviewedSet()
	var items []*domain.Item
	for i := range s.coll.Items {
		item := &s.coll.Items[i]
		if _, done := reviewed[item.ID]; done {
			continue
		}
		hasPrimary := item.HasTag(s.primaryTag)
		if s.mode == domain.ModeAI && !hasPrimary {
			continue
		}
		if s.mode == domain.ModeOther && hasPrimary {
			continue
		}
		items = append(items, item)
	}
	return items
}

// Run executes the command loop and returns the number of items marked
// reviewed during this session.
func (s *Session) Run() int {
	s.state.Mode = s.mode
	s.state.SessionStart = domain.Stamp(s.now())
	reviewed := s.state.ReviewedSet()

	items := s.Eligible()
	if len(items) == 0 {
		fmt.Fprintln(s.out, doneStyle.Render("✅ All done! No more items to review."))
		return 0
	}

	fmt.Fprintf(s.out, "📋 Review session: %d %s posts to review\n", len(items), s.mode)
	fmt.Fprintln(s.out, helpStyle.Render("   Commands: [k]eep / [r]emove / [s]kip / [t]ag <tags> / [n]ote <text> / [q]uit"))
	fmt.Fprintln(s.out)

	before := len(reviewed)
	pos := 0
loop:
	for pos < len(items) {
		item := items[pos]
		s.present(item, pos, len(items))
		s.state.LastShownID = item.ID

		fmt.Fprint(s.out, ">>> ")
		if !s.in.Scan() {
			break
		}
		verb, rest := splitCommand(s.in.Text())

		switch verb {
		case "", "k", "keep":
			item.Reviewed = true
			reviewed[item.ID] = struct{}{}
			fmt.Fprintln(s.out, actionStyle.Render("  ✅ Kept"))
			fmt.Fprintln(s.out)
			pos++
		case "r", "remove":
			item.Reviewed = true
			item.Removed = true
			item.RemovedAt = domain.Stamp(s.now())
			reviewed[item.ID] = struct{}{}
			fmt.Fprintln(s.out, actionStyle.Render("  🗑️ Marked for removal"))
			fmt.Fprintln(s.out)
			pos++
		case "s", "skip":
			// Skipped items stay unreviewed and reappear next session.
			fmt.Fprintln(s.out, actionStyle.Render("  ⏭️ Skipped"))
			fmt.Fprintln(s.out)
			pos++
		case "t", "tag":
			item.Tags = tagger.MergeTags(item.Tags, strings.Split(rest, ","))
			fmt.Fprintf(s.out, "  🏷️ Tags: %s\n\n", strings.Join(item.Tags, ", "))
		case "n", "note":
			item.Note = rest
			fmt.Fprintln(s.out, "  📝 Note added")
			fmt.Fprintln(s.out)
		case "q", "quit":
			break loop
		default:
			fmt.Fprintln(s.out, helpStyle.Render("  Unknown command. Use k/r/s/t/n/q"))
			fmt.Fprintln(s.out)
		}
	}

	s.state.ReviewedIDs = sortedIDs(reviewed)
	s.log.WithFields(logrus.Fields{
		"mode":     s.mode,
		"reviewed": len(reviewed) - before,
	}).Info("Review session finished")
	return len(reviewed) - before
}

func (s *Session) present(item *domain.Item, pos, total int) {
	fmt.Fprintln(s.out, headerStyle.Render(fmt.Sprintf("─── [%d/%d] ───", pos+1, total)))
	fmt.Fprintf(s.out, "📌 %s\n", titleStyle.Render(item.Title))
	fmt.Fprintf(s.out, "👤 %s  |  🏷️ %s\n", item.Author, metaStyle.Render(strings.Join(item.Tags, ", ")))
	if item.Desc != "" {
		fmt.Fprintf(s.out, "📝 %s\n", truncateRunes(item.Desc, 200))
	}
	fmt.Fprintf(s.out, "🔗 %s\n\n", metaStyle.Render(item.URL))
}

// splitCommand separates the verb (lowercased) from the rest of the
// line. The rest keeps its original case: note text is stored verbatim.
func splitCommand(line string) (verb, rest string) {
	line = strings.TrimSpace(line)
	parts := strings.SplitN(line, " ", 2)
	verb = strings.ToLower(parts[0])
	if len(parts) == 2 {
		rest = strings.TrimSpace(parts[1])
	}
	return verb, rest
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
