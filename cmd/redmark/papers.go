package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"redmark/internal/arxiv"
	"redmark/internal/browser"
	"redmark/internal/papers"
	"redmark/internal/store"
)

func extractPapersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract-papers",
		Short: "Extract paper references from AI posts in the likes collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			st := store.New(log)
			coll, err := st.LoadCollection(cfg.LikesFile())
			if err != nil {
				return err
			}

			br, err := browser.Open(cfg, log)
			if err != nil {
				return err
			}
			defer br.Close()

			cache, err := arxiv.OpenCache(cfg.ArxivCacheDir(), log)
			if err != nil {
				log.WithError(err).Warn("Lookup cache unavailable; continuing without it")
				cache = nil
			} else {
				defer cache.Close()
			}
			client := arxiv.NewClient(cfg.Papers.RateLimit(), cache, log)

			enricher := papers.NewEnricher(br, client, cfg.PrimaryTag, cfg.Papers.MaxResults, log)
			pending := enricher.Pending(coll)
			if len(pending) == 0 {
				fmt.Printf("No %s posts to process.\n", cfg.PrimaryTag)
				return nil
			}
			fmt.Printf("📖 Processing %d %s posts...\n", len(pending), cfg.PrimaryTag)

			sum, runErr := enricher.Run(ctx, coll)

			// Persist whatever was processed, interrupted or not; the
			// per-item extracted flag makes a re-run resume cleanly.
			if err := st.SaveCollection(cfg.LikesFile(), coll); err != nil {
				return err
			}
			fmt.Printf("\n✅ Done: %d/%d papers extracted\n", sum.Extracted, sum.Processed)

			if runErr != nil && !errors.Is(runErr, context.Canceled) {
				return runErr
			}
			return nil
		},
	}
}
