package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"chemscout/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the result caches",
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show cached entry counts",
	RunE:  runCacheStats,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop all cached search and detail results",
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatsCmd, cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func openCaches() (query, detail *cache.Cache, err error) {
	queryStore, err := buildStore("queries")
	if err != nil {
		return nil, nil, err
	}
	detailStore, err := buildStore("details")
	if err != nil {
		return nil, nil, err
	}
	query = cache.New("queries", cfg.CacheCapacity, queryStore, cache.WithMaxAge(cfg.CacheMaxAge))
	detail = cache.New("details", cfg.CacheCapacity, detailStore, cache.WithMaxAge(cfg.CacheMaxAge))
	return query, detail, nil
}

func runCacheStats(cmd *cobra.Command, args []string) error {
	query, detail, err := openCaches()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	fmt.Printf("backend:  %s\n", cfg.CacheBackend)
	fmt.Printf("queries:  %d / %d entries\n", query.Len(ctx), cfg.CacheCapacity)
	fmt.Printf("details:  %d / %d entries\n", detail.Len(ctx), cfg.CacheCapacity)
	fmt.Printf("max age:  %s\n", cfg.CacheMaxAge)
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	query, detail, err := openCaches()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	query.Clear(ctx)
	detail.Clear(ctx)
	fmt.Println("caches cleared")
	return nil
}
