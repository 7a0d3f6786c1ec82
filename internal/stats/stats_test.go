package stats

import (
	"errors"
	"math"
	"testing"

	"github.com/uniqwrites/secnews/internal/api"
)

func TestLocationBarsProportional(t *testing.T) {
	bars := LocationBars([]api.LocationCount{
		{Location: "A", Count: 100},
		{Location: "B", Count: 50},
		{Location: "C", Count: 25},
	})
	want := []float64{100, 50, 25}
	if len(bars) != len(want) {
		t.Fatalf("expected %d bars, got %d", len(want), len(bars))
	}
	for i, w := range want {
		if math.Abs(bars[i].Width-w) > 1e-9 {
			t.Errorf("bar %d width = %v, want %v", i, bars[i].Width, w)
		}
		if bars[i].Rank != i+1 {
			t.Errorf("bar %d rank = %d, want %d", i, bars[i].Rank, i+1)
		}
	}
}

func TestLocationBarsEmpty(t *testing.T) {
	if bars := LocationBars(nil); bars != nil {
		t.Errorf("expected no bars for nil, got %v", bars)
	}
	if bars := LocationBars([]api.LocationCount{}); bars != nil {
		t.Errorf("expected no bars for empty list, got %v", bars)
	}
}

func TestLocationBarsKeepsBackendOrder(t *testing.T) {
	// Not sorted: the rank must still follow the given order.
	bars := LocationBars([]api.LocationCount{
		{Location: "Kano", Count: 10},
		{Location: "Lagos", Count: 40},
	})
	if bars[0].Location != "Kano" || bars[0].Rank != 1 {
		t.Errorf("expected Kano ranked first, got %+v", bars[0])
	}
	if bars[1].Width != 100 {
		t.Errorf("max should map to 100%%, got %v", bars[1].Width)
	}
	if bars[0].Width != 25 {
		t.Errorf("expected 25%%, got %v", bars[0].Width)
	}
}

func TestLocationBarsAllZero(t *testing.T) {
	bars := LocationBars([]api.LocationCount{{Location: "A"}, {Location: "B"}})
	for _, b := range bars {
		if b.Width != 0 || math.IsNaN(b.Width) {
			t.Errorf("zero counts should give zero width, got %v", b.Width)
		}
	}
}

func sampleSnapshot() *api.Statistics {
	return &api.Statistics{
		TotalArticles:  120,
		BySource:       []api.SourceCount{{Source: "punch", Count: 70}, {Source: "vanguard", Count: 50}},
		ByIncidentType: []api.TypeCount{{Type: "kidnapping", Count: 60}},
		TopLocations:   []api.LocationCount{{Location: "Lagos", Count: 30}, {Location: "Abuja", Count: 15}, {Location: "Kano", Count: 5}},
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleSnapshot())
	if s.TotalArticles != 120 || s.SourcesTracked != 2 || s.AffectedLocations != 3 {
		t.Errorf("unexpected summary %+v", s)
	}
}

func TestViewStates(t *testing.T) {
	v := NewView(7)
	if v.Status() != Loading {
		t.Fatalf("new view should be loading, got %s", v.Status())
	}

	if !v.Resolve(7, nil, errors.New("boom")) {
		t.Fatal("expected resolve to apply")
	}
	if v.Status() != Failed {
		t.Errorf("expected Failed, got %s", v.Status())
	}
	if v.Status() == Loading {
		t.Error("failed must be distinguishable from loading")
	}

	v.Request(30)
	if v.Status() != Loading || v.Err() != nil {
		t.Errorf("request should reset to loading, got %s %v", v.Status(), v.Err())
	}
	v.Resolve(30, sampleSnapshot(), nil)
	if v.Status() != Ready {
		t.Errorf("expected Ready, got %s", v.Status())
	}
	if len(v.Bars()) != 3 || v.Bars()[0].Width != 100 {
		t.Errorf("unexpected bars %+v", v.Bars())
	}
}

func TestViewDropsStaleWindow(t *testing.T) {
	v := NewView(7)
	v.Request(30)

	if v.Resolve(7, sampleSnapshot(), nil) {
		t.Error("response for a deselected window should be dropped")
	}
	if v.Status() != Loading {
		t.Errorf("expected still loading, got %s", v.Status())
	}
	if v.Snapshot() != nil {
		t.Error("stale snapshot must not be stored")
	}
}

func TestViewReplacesSnapshot(t *testing.T) {
	v := NewView(7)
	v.Resolve(7, sampleSnapshot(), nil)

	next := &api.Statistics{TotalArticles: 3}
	v.Request(1)
	v.Resolve(1, next, nil)
	if v.Snapshot() != next {
		t.Error("snapshot should be replaced wholesale")
	}
	if v.Bars() != nil {
		t.Errorf("empty top_locations should produce no bars, got %v", v.Bars())
	}
}

func TestBar(t *testing.T) {
	tests := []struct {
		width float64
		cols  int
		want  int
	}{
		{100, 20, 20},
		{50, 20, 10},
		{1, 20, 1},
		{0, 20, 0},
		{100, 0, 0},
		{250, 10, 10},
	}
	for _, tt := range tests {
		got := []rune(Bar(tt.width, tt.cols))
		if len(got) != tt.want {
			t.Errorf("Bar(%v, %d) has %d cells, want %d", tt.width, tt.cols, len(got), tt.want)
		}
	}
}
