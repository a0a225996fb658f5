package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/wiarlawd/fs-crawler/internal/adapters/driven/config/file"
)

var configDir string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read or write persistent CLI preferences",
	Long: `config stores auxiliary CLI preferences (not the per-root crawl
settings in --config's TOML file) in a small key/value store under
--config-dir, defaulting to ~/.fscrawler/config.toml.`,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a stored preference value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return fmt.Errorf("open config store: %w", err)
		}
		val, ok := store.Get(args[0])
		if !ok {
			return fmt.Errorf("key %q is not set", args[0])
		}
		fmt.Fprintln(cmd.OutOrStdout(), val)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Persist a preference value",
	Args:  cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		store, err := configfile.NewConfigStore(configDir)
		if err != nil {
			return fmt.Errorf("open config store: %w", err)
		}
		if err := store.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("persist %q: %w", args[0], err)
		}
		return nil
	},
}

func init() {
	configCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory holding the CLI's preference store (default ~/.fscrawler)")
	configCmd.AddCommand(configGetCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
