package cli

import (
	"github.com/spf13/cobra"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect and clear the model response cache",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the number of cached responses",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached response",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStats(cmd *cobra.Command, _ []string) error {
	_, settings, err := loadSettings()
	if err != nil {
		return err
	}

	cache, closeCache, err := openCache(settings.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	n, err := cache.Len(commandContext(cmd))
	if err != nil {
		return err
	}

	cmd.Printf("Backend:   %s\n", settings.Cache.Backend)
	cmd.Printf("Directory: %s\n", settings.Cache.Dir)
	cmd.Printf("Entries:   %d\n", n)
	if !settings.Cache.Enabled {
		cmd.Println("Caching is disabled in the configuration.")
	}
	return nil
}

func runCacheClear(cmd *cobra.Command, _ []string) error {
	_, settings, err := loadSettings()
	if err != nil {
		return err
	}

	cache, closeCache, err := openCache(settings.Cache)
	if err != nil {
		return err
	}
	defer closeCache()

	ctx := commandContext(cmd)
	n, err := cache.Len(ctx)
	if err != nil {
		return err
	}
	if err := cache.Clear(ctx); err != nil {
		return err
	}
	cmd.Printf("Removed %d cached responses.\n", n)
	return nil
}
