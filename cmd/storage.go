package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/uniqwrites/secnews/internal/cache"
	"github.com/uniqwrites/secnews/internal/config"
)

var flagPruneOlderThan string

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Forget old read markers",
	Long: `Delete read markers older than the retention period and reclaim disk space.

Uses the retention value from config (default: 90d) unless overridden with --older-than.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		retention := cfg.RetentionDuration()
		if flagPruneOlderThan != "" {
			d, err := config.ParseDuration(flagPruneOlderThan)
			if err != nil || d <= 0 {
				return fmt.Errorf("invalid --older-than value %q", flagPruneOlderThan)
			}
			retention = d
		}

		deleted, err := db.Prune(cmd.Context(), retention)
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}

		if deleted == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d read marker(s) older than %s.\n", deleted, formatDuration(retention))
		}
		return nil
	},
}

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show local cache statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.CachePath()
		db, err := cache.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening cache: %w", err)
		}
		defer db.Close()

		count, size, err := db.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Cache: %s\n", dbPath)
		fmt.Printf("Read markers: %d\n", count)
		fmt.Printf("Size: %s\n", formatBytes(size))
		if t, ok := db.LastScrape(); ok {
			fmt.Printf("Last scrape: %s\n", t.Format(time.RFC1123))
		}

		recent, err := db.Recent(cmd.Context(), 5)
		if err != nil {
			return fmt.Errorf("reading recent markers: %w", err)
		}
		if len(recent) > 0 {
			fmt.Println("\nRecently read:")
			for _, m := range recent {
				fmt.Printf("  %s  %s (%s)\n", m.ReadAt.Format("Jan 2 15:04"), m.Title, m.Source)
			}
		}
		return nil
	},
}

func init() {
	pruneCmd.Flags().StringVar(&flagPruneOlderThan, "older-than", "", "override retention period (e.g., 30d, 720h)")
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	if days > 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
