package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/archsketch/archsketch/internal/config"
	"github.com/archsketch/archsketch/pkg/cache"
)

// newCacheCmd creates the cache management command group.
func newCacheCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local result cache",
	}
	cmd.AddCommand(newCacheClearCmd(configPath))
	cmd.AddCommand(newCachePathCmd(configPath))
	return cmd
}

func newCacheClearCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached documents and previews",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Cache.Backend != config.CacheBackendFile {
				return fmt.Errorf("cache clear only supports the file backend (configured: %s)", cfg.Cache.Backend)
			}

			dir := cfg.Cache.CacheDir()
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is empty")
				return nil
			}

			c, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := c.Clear(); err != nil {
				return err
			}
			printSuccess("Cache cleared")
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

func newCachePathCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			fmt.Println(cfg.Cache.CacheDir())
			return nil
		},
	}
}
