package stats

import (
	"log/slog"
	"math"
	"strings"

	"github.com/samber/lo"
	"github.com/uniqwrites/secnews/internal/api"
	"github.com/uniqwrites/secnews/internal/logging"
)

// Status is the display state of the analytics view. Loading and Failed
// are rendered differently and never share a state.
type Status int

const (
	Loading Status = iota
	Failed
	Ready
)

func (s Status) String() string {
	switch s {
	case Loading:
		return "loading"
	case Failed:
		return "failed"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// LocationBar is one row of the top-locations chart.
type LocationBar struct {
	Rank     int
	Location string
	Count    int
	// Width is the bar length as a percentage of the largest count.
	Width float64
}

// LocationBars normalizes the snapshot's top locations against the largest
// count. The backend order is kept as the rank; nothing is re-sorted. An
// empty list yields no bars.
func LocationBars(locations []api.LocationCount) []LocationBar {
	if len(locations) == 0 {
		return nil
	}
	top := lo.MaxBy(locations, func(a, b api.LocationCount) bool {
		return a.Count > b.Count
	}).Count

	return lo.Map(locations, func(l api.LocationCount, i int) LocationBar {
		width := 0.0
		if top > 0 {
			width = float64(l.Count) / float64(top) * 100
		}
		return LocationBar{Rank: i + 1, Location: l.Location, Count: l.Count, Width: width}
	})
}

// Bar draws a bar of up to cols cells for a width percentage. Any non-zero
// width gets at least one cell so small counts stay visible.
func Bar(width float64, cols int) string {
	if cols <= 0 || width <= 0 {
		return ""
	}
	n := int(math.Round(width / 100 * float64(cols)))
	n = max(1, min(n, cols))
	return strings.Repeat("█", n)
}

// Summary holds the headline numbers of the dashboard.
type Summary struct {
	TotalArticles     int
	SourcesTracked    int
	AffectedLocations int
}

func Summarize(s *api.Statistics) Summary {
	return Summary{
		TotalArticles:     s.TotalArticles,
		SourcesTracked:    len(s.BySource),
		AffectedLocations: len(s.TopLocations),
	}
}

// View tracks the snapshot for the selected window. Each request replaces
// the previous snapshot wholesale; responses for a window that is no longer
// selected are dropped.
type View struct {
	days     int
	status   Status
	snapshot *api.Statistics
	bars     []LocationBar
	err      error
	log      *slog.Logger
}

func NewView(days int) *View {
	return &View{days: days, status: Loading, log: logging.For("stats")}
}

// Request selects a window and enters Loading.
func (v *View) Request(days int) {
	v.days = days
	v.status = Loading
	v.err = nil
}

// Resolve applies a finished fetch for days. It reports whether the view
// changed.
func (v *View) Resolve(days int, snapshot *api.Statistics, err error) bool {
	if days != v.days {
		v.log.Debug("stale statistics discarded", "days", days, "selected", v.days)
		return false
	}
	if err != nil || snapshot == nil {
		v.status = Failed
		v.snapshot = nil
		v.bars = nil
		v.err = err
		v.log.Warn("statistics unavailable", "days", days, "error", err)
		return true
	}
	v.status = Ready
	v.snapshot = snapshot
	v.bars = LocationBars(snapshot.TopLocations)
	v.err = nil
	return true
}

func (v *View) Days() int                 { return v.days }
func (v *View) Status() Status            { return v.status }
func (v *View) Snapshot() *api.Statistics { return v.snapshot }
func (v *View) Bars() []LocationBar       { return v.bars }
func (v *View) Err() error                { return v.err }
