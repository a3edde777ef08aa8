package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"redmark/internal/browser"
	"redmark/internal/domain"
	"redmark/internal/export"
	"redmark/internal/store"
)

func unlikeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unlike <id>",
		Short: "Unlike a post in the browser and mark it removed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			st := store.New(log)
			coll, err := st.LoadCollection(cfg.LikesFile())
			if err != nil {
				return err
			}
			item, ok := coll.Find(args[0])
			if !ok {
				return fmt.Errorf("%w: %s", domain.ErrNotFound, args[0])
			}

			fmt.Printf("📝 %s\n", item.Title)
			fmt.Printf("🔗 Opening: %s\n", item.URL)

			br, err := browser.Open(cfg, log)
			if err != nil {
				return err
			}
			defer br.Close()

			// Best-effort: the item is marked removed even when the click
			// fails, so the collection reflects the user's intent.
			if err := br.Unlike(ctx, item); err != nil {
				log.WithError(err).Warn("Unlike did not complete; you may need to unlike manually")
			}

			item.Removed = true
			item.RemovedAt = domain.NowStamp()
			item.Reviewed = true
			if err := st.SaveCollection(cfg.LikesFile(), coll); err != nil {
				return err
			}
			if err := export.Markdown(coll, cfg.LikesMarkdown(), likesTitle); err != nil {
				log.WithError(err).Warn("Markdown export failed")
			}
			fmt.Println("🗑️ Marked as removed in the collection.")
			return nil
		},
	}
}
