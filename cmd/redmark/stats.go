package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"redmark/internal/store"
)

var (
	statsLabelStyle = lipgloss.NewStyle().Bold(true)
	statsMetaStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show totals and tag distribution per collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.New(log)
			collections := []struct {
				label, path string
			}{
				{"点赞", cfg.LikesFile()},
				{"收藏", cfg.BookmarksFile()},
			}
			for _, c := range collections {
				coll, err := st.LoadCollection(c.path)
				if err != nil {
					return err
				}

				reviewed, removed, tagged := 0, 0, 0
				tagCounts := map[string]int{}
				for i := range coll.Items {
					item := &coll.Items[i]
					if item.Reviewed {
						reviewed++
					}
					if item.Removed {
						removed++
					}
					if len(item.Tags) > 0 {
						tagged++
					}
					for _, t := range item.Tags {
						tagCounts[t]++
					}
				}

				lastFetch := coll.LastFetch
				if lastFetch == "" {
					lastFetch = "N/A"
				}
				fmt.Printf("%s: %d total | %d reviewed | %d removed | %d tagged | last: %s\n",
					statsLabelStyle.Render(c.label), len(coll.Items), reviewed, removed, tagged, lastFetch)

				if len(tagCounts) > 0 {
					fmt.Printf("  Tags: %s\n", statsMetaStyle.Render(tagDistribution(tagCounts)))
				}
				fmt.Println()
			}
			return nil
		},
	}
}

// tagDistribution renders tag counts as "tag(count)" pairs, most common
// first, ties broken by name for stable output.
func tagDistribution(counts map[string]int) string {
	type tc struct {
		tag   string
		count int
	}
	dist := make([]tc, 0, len(counts))
	for tag, count := range counts {
		dist = append(dist, tc{tag, count})
	}
	sort.Slice(dist, func(i, j int) bool {
		if dist[i].count != dist[j].count {
			return dist[i].count > dist[j].count
		}
		return dist[i].tag < dist[j].tag
	})
	parts := make([]string, len(dist))
	for i, d := range dist {
		parts[i] = fmt.Sprintf("%s(%d)", d.tag, d.count)
	}
	return strings.Join(parts, ", ")
}
