// Package cli implements the fscrawler cobra command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/wiarlawd/fs-crawler/internal/logger"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "fscrawler",
	Short: "Multi-root filesystem document crawler",
	Long: `fscrawler walks one or more filesystem roots (local POSIX, local Windows,
mounted NFS, or remote SMB shares) and feeds file content, metadata, and
access-control documents to a downstream document-acceptor sink.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the crawler's TOML config file (required)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
