package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/chemlayout/internal/config"
	"github.com/matzehuels/chemlayout/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local layout cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached graphs, scenes and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			fc, err := c.fileCache(cmd.Context())
			if err != nil || fc == nil {
				return err
			}
			defer fc.Close()

			count, err := fc.Clear()
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}
			if count == 0 {
				printInfo("Cache is empty")
				return nil
			}
			printSuccess("Cleared %d cached entries", count)
			printDetail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}

// cacheDir returns the configured file cache directory.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return config.DefaultCacheDir()
}

// fileCache opens the file cache, or returns nil with a warning when
// another backend is configured.
func (c *CLI) fileCache(ctx context.Context) (*cache.FileCache, error) {
	if c.Config.Cache.Backend != config.BackendFile {
		printWarning("Cache backend is %q; only the file cache can be managed here", c.Config.Cache.Backend)
		return nil, nil
	}
	cc, _, err := c.Config.NewCache(ctx)
	if err != nil {
		return nil, err
	}
	fc, ok := cc.(*cache.FileCache)
	if !ok {
		cc.Close()
		return nil, nil
	}
	return fc, nil
}
