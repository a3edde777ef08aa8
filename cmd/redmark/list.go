package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"redmark/internal/domain"
	"redmark/internal/store"
)

var (
	listHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	listMetaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

func listCmd() *cobra.Command {
	var tagFilter string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List items, optionally filtered by tag",
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

				var items []*domain.Item
				for i := range coll.Items {
					item := &coll.Items[i]
					if tagFilter != "" && !item.HasTag(tagFilter) {
						continue
					}
					items = append(items, item)
				}
				if len(items) == 0 {
					continue
				}

				fmt.Println(listMetaStyle.Render(strings.Repeat("─", 40)))
				fmt.Printf("📚 %s: %d items\n\n", listHeaderStyle.Render(c.label), len(items))

				for i, item := range items {
					reviewed := ""
					if item.Reviewed {
						reviewed = " ✅"
					}
					tags := strings.Join(item.Tags, ", ")
					if tags == "" {
						tags = "无标签"
					}
					author := item.Author
					if author == "" {
						author = "?"
					}
					fmt.Printf("  %3d. %s%s\n", i+1, item.Title, reviewed)
					fmt.Printf("       👤 %s | 🏷️ %s\n", author, tags)
					fmt.Printf("       🔗 %s\n", listMetaStyle.Render(item.URL))
					if item.Note != "" {
						fmt.Printf("       📝 %s\n", item.Note)
					}
					fmt.Println()
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&tagFilter, "tag", "", "only show items carrying this tag")
	return cmd
}
