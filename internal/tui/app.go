package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/uniqwrites/secnews/internal/api"
	"github.com/uniqwrites/secnews/internal/browser"
	"github.com/uniqwrites/secnews/internal/cache"
	"github.com/uniqwrites/secnews/internal/feed"
	"github.com/uniqwrites/secnews/internal/logging"
	"github.com/uniqwrites/secnews/internal/metadata"
	"github.com/uniqwrites/secnews/internal/query"
	"github.com/uniqwrites/secnews/internal/scrape"
	"github.com/uniqwrites/secnews/internal/stats"
)

// Backend is the part of the news API the TUI talks to.
type Backend interface {
	feed.Source
	metadata.Provider
	Statistics(ctx context.Context, days int) (*api.Statistics, error)
	TriggerScrape(ctx context.Context) error
}

// Markers persists which articles were opened. It is optional.
type Markers interface {
	MarkRead(ctx context.Context, m cache.Marker) error
	ReadSet(ctx context.Context, ids []string) (map[string]bool, error)
	LastScrape() (time.Time, bool)
	SetLastScrape(t time.Time) error
}

type view int

const (
	viewFeed view = iota
	viewAnalytics
)

type mode int

const (
	modeNormal mode = iota
	modeFilter
	modeHelp
)

type App struct {
	backend Backend
	markers Markers

	query   *query.Model
	fetcher *feed.Fetcher
	scraper *scrape.Controller
	stats   *stats.View

	read       map[string]bool
	lastScrape time.Time
	endpoint   string

	view   view
	mode   mode
	cursor int

	width  int
	height int

	// Sub-components
	keys      keyMap
	help      help.Model
	spinner   spinner.Model
	filterBar filterBar

	err error
	log *slog.Logger
}

// RunOpts holds all parameters for launching the TUI.
type RunOpts struct {
	Backend      Backend
	Markers      Markers
	Filter       query.Filter
	PageSize     int
	SuccessDelay time.Duration
	FailureDelay time.Duration
	Analytics    bool
	Endpoint     string
}

func NewApp(opts RunOpts) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	q := query.New(opts.Filter.WindowDays, opts.PageSize)
	q.SetSource(opts.Filter.Source)
	q.SetLocation(opts.Filter.Location)
	q.SetIncidentType(opts.Filter.IncidentType)

	a := &App{
		backend:   opts.Backend,
		markers:   opts.Markers,
		query:     q,
		fetcher:   feed.NewFetcher(),
		scraper:   scrape.New(opts.SuccessDelay, opts.FailureDelay),
		stats:     stats.NewView(q.Filter().WindowDays),
		read:      make(map[string]bool),
		endpoint:  opts.Endpoint,
		keys:      newKeyMap(),
		help:      help.New(),
		spinner:   sp,
		filterBar: newFilterBar(),
		log:       logging.For("tui"),
	}
	a.keys.PrevPage.SetEnabled(q.HasPrev())
	if opts.Analytics {
		a.view = viewAnalytics
	}
	if a.markers != nil {
		if t, ok := a.markers.LastScrape(); ok {
			a.lastScrape = t
		}
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadMetadataCmd(),
		a.dispatchFetch(),
		a.requestStats(a.stats.Days()),
		a.spinner.Tick,
	)
}

func (a *App) loadMetadataCmd() tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		return metadataMsg{cache: metadata.Load(context.Background(), backend)}
	}
}

// dispatchFetch tags a fetch with the current descriptor. The ticket is
// captured in the closure so the result can be matched on arrival.
func (a *App) dispatchFetch() tea.Cmd {
	t := a.fetcher.Dispatch(a.query.Descriptor())
	backend := a.backend
	return func() tea.Msg {
		return articlesMsg{feed.Fetch(context.Background(), backend, t)}
	}
}

func (a *App) requestStats(days int) tea.Cmd {
	a.stats.Request(days)
	backend := a.backend
	return func() tea.Msg {
		snap, err := backend.Statistics(context.Background(), days)
		return statsMsg{days: days, snapshot: snap, err: err}
	}
}

func (a *App) scrapeCmd(epoch uint64) tea.Cmd {
	backend := a.backend
	return func() tea.Msg {
		return scrapeDoneMsg{epoch: epoch, err: backend.TriggerScrape(context.Background())}
	}
}

func settleCmd(s scrape.Settle) tea.Cmd {
	return tea.Tick(s.After, func(time.Time) tea.Msg {
		return scrapeSettleMsg{settle: s}
	})
}

func (a *App) readSetCmd(articles []api.Article) tea.Cmd {
	if a.markers == nil || len(articles) == 0 {
		return nil
	}
	markers := a.markers
	ids := lo.Map(articles, func(art api.Article, _ int) string { return string(art.ID) })
	log := a.log
	return func() tea.Msg {
		read, err := markers.ReadSet(context.Background(), ids)
		if err != nil {
			log.Warn("loading read markers", "error", err)
			return nil
		}
		return readMsg{read: read}
	}
}

func (a *App) recordScrapeCmd(at time.Time) tea.Cmd {
	if a.markers == nil {
		return nil
	}
	markers := a.markers
	log := a.log
	return func() tea.Msg {
		if err := markers.SetLastScrape(at); err != nil {
			log.Warn("recording scrape time", "error", err)
		}
		return nil
	}
}

func (a *App) openArticleCmd(art api.Article) tea.Cmd {
	markers := a.markers
	log := a.log
	return func() tea.Msg {
		if err := browser.Open(art.Link); err != nil {
			return actionErrMsg{err: err}
		}
		if markers != nil {
			m := cache.Marker{ArticleID: string(art.ID), Title: art.Title, Link: art.Link, Source: art.Source}
			if err := markers.MarkRead(context.Background(), m); err != nil {
				log.Warn("marking article read", "id", art.ID, "error", err)
			}
		}
		return nil
	}
}

func (a *App) busy() bool {
	return a.fetcher.Loading() || a.scraper.State() == scrape.Running || a.stats.Status() == stats.Loading
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error on any keypress
		a.err = nil
		return a.handleKey(msg)

	case metadataMsg:
		a.filterBar.meta = msg.cache
		if bad := unlisted(msg.cache, a.query.Filter()); len(bad) > 0 {
			a.log.Warn("filter values not listed by backend", "values", bad)
			a.err = fmt.Errorf("no such filter value on the backend: %s", strings.Join(bad, ", "))
		}
		return a, nil

	case articlesMsg:
		if !a.fetcher.Apply(msg.Result) || msg.Err != nil {
			return a, nil
		}
		articles := a.fetcher.Articles()
		if a.cursor >= len(articles) {
			a.cursor = max(0, len(articles)-1)
		}
		return a, a.readSetCmd(articles)

	case readMsg:
		for id := range msg.read {
			a.read[id] = true
		}
		return a, nil

	case statsMsg:
		a.stats.Resolve(msg.days, msg.snapshot, msg.err)
		return a, nil

	case scrapeDoneMsg:
		settle, ok := a.scraper.Complete(msg.epoch, msg.err)
		if !ok {
			return a, nil
		}
		cmds := []tea.Cmd{settleCmd(settle)}
		if msg.err == nil {
			a.lastScrape = time.Now()
			cmds = append(cmds, a.recordScrapeCmd(a.lastScrape))
		}
		return a, tea.Batch(cmds...)

	case scrapeSettleMsg:
		if a.scraper.Settle(msg.settle) {
			// Re-run whatever is selected now, not what was selected
			// when the scrape started.
			return a, tea.Batch(a.dispatchFetch(), a.spinner.Tick)
		}
		return a, nil

	case actionErrMsg:
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.busy() {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch a.mode {
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		if key.Matches(msg, a.keys.Help, a.keys.Quit) || msg.String() == "esc" {
			a.mode = modeNormal
		}
		return a, nil
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Help):
		a.mode = modeHelp
		return a, nil
	case key.Matches(msg, a.keys.SwitchView):
		if a.view == viewFeed {
			a.view = viewAnalytics
		} else {
			a.view = viewFeed
		}
		return a, nil
	case key.Matches(msg, a.keys.Scrape):
		return a, a.startScrape()
	}

	if a.view == viewAnalytics {
		if key.Matches(msg, a.keys.Window) {
			return a, tea.Batch(a.requestStats(query.NextWindow(a.stats.Days())), a.spinner.Tick)
		}
		return a, nil
	}
	return a.handleFeedKey(msg)
}

func (a *App) handleFeedKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	articles := a.fetcher.Articles()

	switch {
	case key.Matches(msg, a.keys.Down):
		if a.cursor < len(articles)-1 {
			a.cursor++
		}
	case key.Matches(msg, a.keys.Up):
		if a.cursor > 0 {
			a.cursor--
		}
	case key.Matches(msg, a.keys.Open):
		if a.cursor < len(articles) {
			art := articles[a.cursor]
			a.read[string(art.ID)] = true
			return a, a.openArticleCmd(art)
		}
	case key.Matches(msg, a.keys.NextPage):
		a.query.Next()
		return a, a.refetch()
	case key.Matches(msg, a.keys.PrevPage):
		if a.query.Prev() {
			return a, a.refetch()
		}
	case key.Matches(msg, a.keys.Window):
		next := query.NextWindow(a.query.Filter().WindowDays)
		if changed, err := a.query.SetWindow(next); err == nil && changed {
			return a, a.refetch()
		}
	case key.Matches(msg, a.keys.Filter):
		a.mode = modeFilter
		a.filterBar.filterMode = true
	}
	return a, nil
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Done):
		a.mode = modeNormal
		a.filterBar.filterMode = false
	case key.Matches(msg, a.keys.PrevDim):
		a.filterBar.moveDim(-1)
	case key.Matches(msg, a.keys.NextDim):
		a.filterBar.moveDim(1)
	case key.Matches(msg, a.keys.PrevValue, a.keys.NextValue):
		delta := 1
		if key.Matches(msg, a.keys.PrevValue) {
			delta = -1
		}
		dim := a.filterBar.current()
		value := a.filterBar.cycle(a.query.Filter().Get(dim), delta)
		if a.query.Set(dim, value) {
			return a, a.refetch()
		}
	case key.Matches(msg, a.keys.Clear):
		if a.query.ClearFilters() {
			return a, a.refetch()
		}
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	}
	return a, nil
}

// refetch runs after the query changed: the list starts over at the top.
func (a *App) refetch() tea.Cmd {
	a.cursor = 0
	a.keys.PrevPage.SetEnabled(a.query.HasPrev())
	return tea.Batch(a.dispatchFetch(), a.spinner.Tick)
}

func (a *App) startScrape() tea.Cmd {
	epoch, ok := a.scraper.Trigger()
	if !ok {
		return nil
	}
	return tea.Batch(a.scrapeCmd(epoch), a.spinner.Tick)
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  secnews")
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	headerHeight := 1
	filterHeight := 1
	scrapeHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - scrapeHeight - statusHeight - 2 // borders
	if contentHeight < 3 {
		contentHeight = 3
	}

	header := a.renderHeader()
	filter := a.filterBar.render(a.query.Filter(), a.width)

	var content string
	if a.view == viewAnalytics {
		content = renderAnalytics(a.stats, a.spinner.View(), a.width, contentHeight+2)
	} else {
		content = a.renderFeed(contentHeight)
	}

	notice := a.renderNotice()

	hints := a.help.ShortHelpView(a.keys.ShortHelp())
	if a.mode == modeFilter {
		hints = a.help.ShortHelpView(a.keys.filterHelp())
	}
	filterState := a.query.Filter()
	status := renderStatusBar(statusInfo{
		articles:   len(a.fetcher.Articles()),
		page:       a.query.Page().Number(),
		window:     query.WindowLabel(filterState.WindowDays),
		filter:     activeLabel(filterState),
		loading:    a.fetcher.Loading(),
		lastScrape: a.lastScrape,
	}, hints, a.width)

	return lipgloss.JoinVertical(lipgloss.Left, header, filter, content, notice, status)
}

func (a *App) renderHeader() string {
	tabs := []string{tabInactiveStyle.Render("Feed"), tabInactiveStyle.Render("Analytics")}
	tabs[a.view] = tabActiveStyle.Render([]string{"Feed", "Analytics"}[a.view])

	headerLeft := headerStyle.Render("secnews") + " " + strings.Join(tabs, " ")
	headerRight := headerDateStyle.Render(fmt.Sprintf("%s · %s", a.endpoint, time.Now().Format("Jan 2")))
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	return headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight
}

func (a *App) renderFeed(contentHeight int) string {
	listWidth := int(float64(a.width) * 0.4)
	previewWidth := a.width - listWidth - 1 // gap
	innerListW := listWidth - 4             // border + padding

	articles := a.fetcher.Articles()
	var listContent string
	switch {
	case len(articles) > 0:
		listContent = renderList(articles, a.read, a.cursor, contentHeight, innerListW)
	case a.fetcher.Err() != nil:
		listContent = lipglossCenter("Failed to load articles", innerListW, contentHeight) + "\n\n" +
			errorStyle.Width(innerListW).Render(a.fetcher.Err().Error())
	case a.fetcher.Loading() || !a.fetcher.Loaded():
		listContent = lipglossCenter(a.spinner.View()+" Loading articles...", innerListW, contentHeight)
	default:
		listContent = lipglossCenter("No articles found", innerListW, contentHeight)
	}

	listPane := listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)

	var selected *api.Article
	if a.cursor < len(articles) {
		selected = &articles[a.cursor]
	}
	previewContent := renderPreview(selected, previewWidth-4, contentHeight)
	previewPane := previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)

	return lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)
}

// renderNotice picks the one-line message above the status bar. A scrape
// in progress wins over errors so its outcome is never hidden.
func (a *App) renderNotice() string {
	if a.scraper.State() != scrape.Idle {
		return renderScrapeLine(a.scraper.State(), a.scraper.Message(), a.spinner.View())
	}
	if a.err != nil {
		return errorStyle.Render(a.err.Error())
	}
	if err := a.fetcher.Err(); err != nil && len(a.fetcher.Articles()) > 0 {
		return errorStyle.Render("Refresh failed, showing previous results: " + err.Error())
	}
	return ""
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("secnews")

	h := a.help
	h.ShowAll = true
	help := title + helpDimStyle.Render(" keyboard shortcuts") + "\n\n" +
		h.FullHelpView(a.keys.FullHelp()) + "\n\n" +
		helpDimStyle.Render("? or esc to close")

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the TUI application.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
