package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"redmark/internal/browser"
	"redmark/internal/export"
	"redmark/internal/fetch"
	"redmark/internal/store"
)

func fetchCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "fetch [likes|bookmarks|all]",
		Short: "Fetch likes or bookmarks into the local collections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "all"
			if len(args) == 1 {
				kind = args[0]
			}
			switch kind {
			case "likes", "bookmarks", "all":
			default:
				return fmt.Errorf("unknown fetch target %q (want likes, bookmarks or all)", kind)
			}

			ctx, stop := signalContext()
			defer stop()

			br, err := browser.Open(cfg, log)
			if err != nil {
				return err
			}
			defer br.Close()

			userID := cfg.UserID
			if userID == "" {
				if userID, err = br.UserID(ctx); err != nil {
					return err
				}
				if userID == "" {
					return errors.New("not logged in; run 'redmark login' first")
				}
			}
			fmt.Printf("👤 User ID: %s\n", userID)

			st := store.New(log)
			merger := fetch.NewMerger(st, cfg.BaseURL, log)

			if kind == "likes" || kind == "all" {
				fmt.Println("❤️ Fetching likes (点赞)...")
				err := runFetch(ctx, br, merger, st, userID, browser.LikesTab, browser.LikeAPI,
					cfg.Fetch.MaxScrollsLikes, full, cfg.LikesFile(), cfg.LikesMarkdown(), likesTitle)
				if err != nil {
					return err
				}
			}
			if kind == "bookmarks" || kind == "all" {
				fmt.Println("📚 Fetching bookmarks (收藏)...")
				err := runFetch(ctx, br, merger, st, userID, browser.BookmarksTab, browser.CollectAPI,
					cfg.Fetch.MaxScrollsBookmarks, full, cfg.BookmarksFile(), cfg.BookmarksMarkdown(), bookmarksTitle)
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "keep scrolling until the stream is exhausted, ignoring the scroll cap")
	return cmd
}

func runFetch(ctx context.Context, br *browser.Browser, merger *fetch.Merger, st *store.Store,
	userID, tab, api string, maxScrolls int, full bool, path, mdPath, title string) error {

	if full {
		maxScrolls = 0
	}
	src, err := br.OpenTab(ctx, userID, tab, api, browser.TabOptions{
		MaxScrolls:        maxScrolls,
		ScrollWait:        cfg.Fetch.ScrollWait(),
		NoChangeThreshold: cfg.Fetch.NoChangeThreshold,
	})
	if err != nil {
		return err
	}
	defer src.Close()

	added, err := merger.FetchAndMerge(ctx, src, path)
	if err != nil {
		return err
	}

	coll, err := st.LoadCollection(path)
	if err != nil {
		return err
	}
	if err := export.Markdown(coll, mdPath, title); err != nil {
		log.WithError(err).Warn("Markdown export failed")
	}
	fmt.Printf("✅ %d new. Total: %d\n\n", added, len(coll.Items))
	return nil
}
