package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/uniqwrites/secnews/internal/api"
	"github.com/uniqwrites/secnews/internal/incident"
	"github.com/uniqwrites/secnews/internal/query"
	"github.com/uniqwrites/secnews/internal/stats"
)

const reportBarCols = 30

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print incident statistics for a time window",
	Long: `Print the statistics report: totals, counts per source and incident type,
and the most affected locations as bars relative to the top one.

--days accepts any positive number of days; the TUI offers 1, 7, 30 and 90.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, client, logFile, err := setup()
		if err != nil {
			return err
		}
		defer logFile.Close()

		days := cfg.Window()
		if flagDays != 0 {
			if flagDays < 0 {
				return fmt.Errorf("invalid --days value %d: must be positive", flagDays)
			}
			days = flagDays
		}

		snap, err := client.Statistics(cmd.Context(), days)
		if err != nil {
			return fmt.Errorf("loading statistics: %w", err)
		}
		writeReport(cmd.OutOrStdout(), days, snap)
		return nil
	},
}

func writeReport(w io.Writer, days int, snap *api.Statistics) {
	sum := stats.Summarize(snap)

	fmt.Fprintf(w, "Security statistics · %s\n\n", query.WindowLabel(days))
	fmt.Fprintf(w, "%-20s %d\n", "Total articles:", sum.TotalArticles)
	fmt.Fprintf(w, "%-20s %d\n", "Sources tracked:", sum.SourcesTracked)
	fmt.Fprintf(w, "%-20s %d\n", "Affected locations:", sum.AffectedLocations)

	fmt.Fprintln(w, "\nBy source")
	if len(snap.BySource) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, s := range snap.BySource {
		fmt.Fprintf(w, "  %-24s %d\n", s.Source, s.Count)
	}

	fmt.Fprintln(w, "\nBy incident type")
	if len(snap.ByIncidentType) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for _, t := range snap.ByIncidentType {
		fmt.Fprintf(w, "  %s %-21s %d\n", incident.Icon(t.Type), incident.Label(t.Type), t.Count)
	}

	fmt.Fprintln(w, "\nTop affected locations")
	bars := stats.LocationBars(snap.TopLocations)
	if len(bars) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	width := 0
	for _, b := range bars {
		width = max(width, len([]rune(b.Location)))
	}
	for _, b := range bars {
		pad := strings.Repeat(" ", width-len([]rune(b.Location)))
		fmt.Fprintf(w, "  %2d. %s%s  %s %d\n", b.Rank, b.Location, pad, stats.Bar(b.Width, reportBarCols), b.Count)
	}
}
