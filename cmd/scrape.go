package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/uniqwrites/secnews/internal/cache"
	"github.com/uniqwrites/secnews/internal/config"
	"github.com/uniqwrites/secnews/internal/logging"
	"github.com/uniqwrites/secnews/internal/scrape"
)

type scrapeTrigger interface {
	TriggerScrape(ctx context.Context) error
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Ask the backend to scrape all sources now",
	Long: `Trigger a backend re-scrape and wait for it to finish.

Scraping can take up to a minute (see scrape_timeout in the config).
Exits non-zero if the scrape fails or times out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, client, logFile, err := setup()
		if err != nil {
			return err
		}
		defer logFile.Close()

		if err := runScrape(cmd.Context(), client, cmd.OutOrStdout()); err != nil {
			return err
		}

		db, err := cache.Open(config.CachePath())
		if err != nil {
			logging.For("cmd").Warn("not recording scrape time", "error", err)
			return nil
		}
		defer db.Close()
		if err := db.SetLastScrape(time.Now()); err != nil {
			logging.For("cmd").Warn("recording scrape time", "error", err)
		}
		return nil
	},
}

// runScrape drives one scrape through the same controller the TUI uses and
// prints its messages. There is no display delay to wait out, so the run is
// settled as soon as it completes.
func runScrape(ctx context.Context, t scrapeTrigger, w io.Writer) error {
	ctrl := scrape.New(0, 0)
	epoch, _ := ctrl.Trigger()
	fmt.Fprintln(w, ctrl.Message())

	err := t.TriggerScrape(ctx)
	settle, _ := ctrl.Complete(epoch, err)
	fmt.Fprintln(w, ctrl.Message())
	failed := ctrl.State() == scrape.Failed
	ctrl.Settle(settle)

	if failed {
		return fmt.Errorf("scrape failed: %w", err)
	}
	return nil
}
