// redmark manages a user's Xiaohongshu likes and bookmarks: it captures
// them through a driven browser, classifies them with keyword rules,
// supports an interactive review workflow and extracts paper references
// from AI posts.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"redmark/internal/config"
)

// Markdown export titles per collection.
const (
	likesTitle     = "小红书点赞"
	bookmarksTitle = "小红书收藏夹"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
	log *logrus.Logger
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "redmark",
		Short:         "Manage your Xiaohongshu (小红书) likes and bookmarks",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}

			log = logrus.New()
			log.SetOutput(os.Stderr)
			log.SetFormatter(&logrus.TextFormatter{})
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			} else {
				log.SetLevel(logrus.WarnLevel)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to config.yaml (default: ./config.yaml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		loginCmd(),
		fetchCmd(),
		tagCmd(),
		statsCmd(),
		listCmd(),
		reviewCmd(),
		extractPapersCmd(),
		unlikeCmd(),
	)
	return root
}

// signalContext returns a context cancelled on Ctrl+C.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
