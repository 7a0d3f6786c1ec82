package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/uniqwrites/secnews/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig   string
	flagAPIURL   string
	flagDays     int
	flagSource   string
	flagLocation string
	flagType     string
	flagCheck    bool
)

var rootCmd = &cobra.Command{
	Use:   "secnews",
	Short: "Terminal client for security incident news",
	Long: `secnews browses scraped security incident reports from a secnews backend.

Filter the feed by source, location and incident type, trigger a fresh scrape,
and see which places were hit hardest over the last day, week, month or quarter.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(false)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "path to config file")
	pf.StringVar(&flagAPIURL, "api-url", "", "backend base URL (overrides config and SECNEWS_API_URL)")
	pf.IntVar(&flagDays, "days", 0, "time window in days (1, 7, 30 or 90)")

	for _, c := range []*cobra.Command{rootCmd, analyticsCmd} {
		c.Flags().StringVar(&flagSource, "source", "", "only show articles from this source")
		c.Flags().StringVar(&flagLocation, "location", "", "only show articles mentioning this location")
		c.Flags().StringVar(&flagType, "type", "", "only show this incident type (e.g. kidnap, robbery, terror)")
	}

	versionCmd.Flags().BoolVar(&flagCheck, "check", false, "check GitHub for a newer release")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(analyticsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(scrapeCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(cacheCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("secnews %s (commit: %s, built: %s)\n", version, commit, date)
		if !flagCheck || version == "dev" {
			return
		}
		res, err := update.Check(cmd.Context(), nil, version)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Update check failed: %v\n", err)
			return
		}
		if res != nil {
			fmt.Printf("Update available: v%s\n  %s\n", res.LatestVersion, res.URL)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
