package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"redmark/internal/domain"
	"redmark/internal/review"
	"redmark/internal/store"
)

func reviewCmd() *cobra.Command {
	var modeFlag string
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Interactive terminal review session over the likes collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, ok := domain.ParseMode(modeFlag)
			if !ok {
				return fmt.Errorf("unknown mode %q (want ai, other or all)", modeFlag)
			}

			st := store.New(log)
			coll, err := st.LoadCollection(cfg.LikesFile())
			if err != nil {
				return err
			}
			state, err := st.LoadReviewState(cfg.ReviewStateFile())
			if err != nil {
				return err
			}

			sess := review.New(coll, state, mode, cfg.PrimaryTag, os.Stdin, os.Stdout, log)
			sess.Run()

			// Persist both documents even after an early quit; partial
			// progress is never thrown away.
			if err := st.SaveReviewState(cfg.ReviewStateFile(), state); err != nil {
				return err
			}
			if err := st.SaveCollection(cfg.LikesFile(), coll); err != nil {
				return err
			}
			fmt.Printf("\n💾 Saved. Reviewed %d items total.\n", len(state.ReviewedIDs))
			return nil
		},
	}
	cmd.Flags().StringVar(&modeFlag, "mode", "ai", "review mode: ai, other or all")
	return cmd
}
