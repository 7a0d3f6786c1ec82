package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/uniqwrites/secnews/internal/api"
	"github.com/uniqwrites/secnews/internal/cache"
	"github.com/uniqwrites/secnews/internal/config"
	"github.com/uniqwrites/secnews/internal/incident"
	"github.com/uniqwrites/secnews/internal/logging"
	"github.com/uniqwrites/secnews/internal/query"
	"github.com/uniqwrites/secnews/internal/tui"
)

// setup loads config, starts file logging and builds the API client. The
// returned closer flushes the log file.
func setup() (*config.Config, *api.Client, io.Closer, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if flagAPIURL != "" {
		cfg.APIURL = strings.TrimSpace(flagAPIURL)
	}

	logFile, err := logging.Setup(logging.Path(), cfg.LogLevel)
	if err != nil {
		// Logging is best effort; the client works without it.
		fmt.Fprintf(os.Stderr, "[warn] %v\n", err)
		logFile = nopCloser{}
	}

	client, err := api.New(api.Options{
		BaseURL:       cfg.APIURL,
		Timeout:       cfg.RequestTimeoutDuration(),
		ScrapeTimeout: cfg.ScrapeTimeoutDuration(),
	})
	if err != nil {
		logFile.Close()
		return nil, nil, nil, fmt.Errorf("invalid --api-url: %w", err)
	}
	return cfg, client, logFile, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// filterFromFlags builds the initial feed filter from the command line,
// falling back to the configured window.
func filterFromFlags(cfg *config.Config) (query.Filter, error) {
	f := query.Filter{
		Source:     strings.TrimSpace(flagSource),
		Location:   strings.TrimSpace(flagLocation),
		WindowDays: cfg.Window(),
	}
	if flagDays != 0 {
		if !query.ValidWindow(flagDays) {
			return f, fmt.Errorf("invalid --days value %d: must be one of %v", flagDays, query.Windows)
		}
		f.WindowDays = flagDays
	}
	t, err := incident.Resolve(flagType)
	if err != nil {
		return f, fmt.Errorf("invalid --type value: %w", err)
	}
	f.IncidentType = t
	return f, nil
}

func runTUI(analytics bool) error {
	cfg, client, logFile, err := setup()
	if err != nil {
		return err
	}
	defer logFile.Close()

	filter, err := filterFromFlags(cfg)
	if err != nil {
		return err
	}

	opts := tui.RunOpts{
		Backend:      client,
		Filter:       filter,
		PageSize:     cfg.Limit(),
		SuccessDelay: cfg.SuccessDelay(),
		FailureDelay: cfg.FailureDelay(),
		Analytics:    analytics,
		Endpoint:     client.BaseURL(),
	}

	// Read markers are a nicety; a broken cache must not keep the feed away.
	db, err := cache.Open(config.CachePath())
	if err != nil {
		logging.For("cmd").Warn("read markers disabled", "error", err)
	} else {
		defer db.Close()
		opts.Markers = db
	}

	return tui.Run(opts)
}
