package main

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/panbanda/reactify/internal/cache"
	"github.com/panbanda/reactify/internal/output"
)

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect or clear the rewrite cache",
		Subcommands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cache entry count, size and age",
				Action: runCacheStats,
			},
			{
				Name:   "prune",
				Usage:  "Remove expired and unreadable entries",
				Action: runCachePrune,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cache entry",
				Action: runCacheClear,
			},
		},
	}
}

func configuredCache(c *cli.Context) (*cache.Cache, *output.Formatter, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	cc, err := cache.New(cfg.Cache.Dir, cfg.Cache.TTL, true)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache %s: %w", cfg.Cache.Dir, err)
	}
	formatter, err := newFormatter(c, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cc, formatter, nil
}

func runCacheStats(c *cli.Context) error {
	cc, formatter, err := configuredCache(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	stats, err := cc.GetStats()
	if err != nil {
		return err
	}

	rows := [][]string{
		{"Directory", cc.Dir()},
		{"Entries", fmt.Sprintf("%d", stats.Entries)},
		{"Size", formatBytes(stats.TotalSize)},
	}
	if stats.Entries > 0 {
		rows = append(rows,
			[]string{"Oldest", stats.OldestAge.Round(time.Second).String()},
			[]string{"Newest", stats.NewestAge.Round(time.Second).String()},
		)
	}
	return formatter.Output(output.NewTable("Cache", []string{"Property", "Value"}, rows, nil, stats))
}

func runCacheClear(c *cli.Context) error {
	cc, formatter, err := configuredCache(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := cc.Clear(); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	formatter.Success("Cleared %s", cc.Dir())
	return nil
}

func runCachePrune(c *cli.Context) error {
	cc, formatter, err := configuredCache(c)
	if err != nil {
		return err
	}
	defer formatter.Close()

	removed, err := cc.Prune()
	if err != nil {
		return fmt.Errorf("failed to prune cache: %w", err)
	}
	formatter.Success("Removed %d entries from %s", removed, cc.Dir())
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
