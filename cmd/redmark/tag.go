package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"redmark/internal/export"
	"redmark/internal/store"
	"redmark/internal/tagger"
)

func tagCmd() *cobra.Command {
	var itemID, addTags string
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Auto-tag all untagged items, or tag one item with --item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st := store.New(log)
			tg := tagger.New(cfg.TagRules, log)

			if itemID != "" {
				if addTags == "" {
					return fmt.Errorf("--item requires --tags")
				}
				coll, err := st.LoadCollection(cfg.LikesFile())
				if err != nil {
					return err
				}
				item, err := tg.TagItem(coll, itemID, strings.Split(addTags, ","))
				if err != nil {
					return fmt.Errorf("%w: %s", err, itemID)
				}
				if err := st.SaveCollection(cfg.LikesFile(), coll); err != nil {
					return err
				}
				if err := export.Markdown(coll, cfg.LikesMarkdown(), likesTitle); err != nil {
					log.WithError(err).Warn("Markdown export failed")
				}
				fmt.Printf("🏷️  Tagged %q with: %s\n", item.Title, strings.Join(item.Tags, ", "))
				return nil
			}

			collections := []struct {
				path, mdPath, title, name string
			}{
				{cfg.LikesFile(), cfg.LikesMarkdown(), likesTitle, "likes"},
				{cfg.BookmarksFile(), cfg.BookmarksMarkdown(), bookmarksTitle, "bookmarks"},
			}
			for _, c := range collections {
				coll, err := st.LoadCollection(c.path)
				if err != nil {
					return err
				}
				tagged := tg.TagAll(coll)
				if err := st.SaveCollection(c.path, coll); err != nil {
					return err
				}
				if err := export.Markdown(coll, c.mdPath, c.title); err != nil {
					log.WithError(err).Warn("Markdown export failed")
				}
				fmt.Printf("🏷️  Tagged %d items in %s\n", tagged, c.name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&itemID, "item", "", "tag a single item by id (likes collection)")
	cmd.Flags().StringVar(&addTags, "tags", "", "comma-separated tags to add with --item")
	return cmd
}
