package cli

import (
	"fmt"

	"github.com/mgpai22/thumbcue/internal/cache"
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the parsed track cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached track",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		trackCache, err := cache.New(cfg.CacheDir(), logger)
		if err != nil {
			return fmt.Errorf("failed to open track cache: %w", err)
		}
		if !trackCache.Enabled() {
			fmt.Fprintln(cmd.OutOrStdout(), "Track cache is disabled")
			return nil
		}

		removed, err := trackCache.Clear()
		if err != nil {
			return fmt.Errorf("failed to clear track cache: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached track(s) from %s\n", removed, trackCache.Dir())
		return nil
	},
}

var cachePathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the cache directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := cfg.CacheDir()
		if dir == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Track cache is disabled")
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), dir)
		return nil
	},
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePathCmd)
	rootCmd.AddCommand(cacheCmd)
}
