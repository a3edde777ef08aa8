package main

import (
	"os"

	"github.com/spf13/cobra"

	"redmark/internal/browser"
)

func loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Open a browser for manual login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext()
			defer stop()

			br, err := browser.Open(cfg, log)
			if err != nil {
				return err
			}
			defer br.Close()

			return br.Login(ctx, os.Stdin, os.Stdout)
		},
	}
}
