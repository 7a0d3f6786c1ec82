package metadata

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/uniqwrites/secnews/internal/query"
)

type fakeProvider struct {
	sources, locations, types []string
	sourcesErr, locErr        error
	inFlight, peak            atomic.Int32
}

func (f *fakeProvider) track() func() {
	n := f.inFlight.Add(1)
	for {
		p := f.peak.Load()
		if n <= p || f.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeProvider) Sources(context.Context) ([]string, error) {
	defer f.track()()
	return f.sources, f.sourcesErr
}

func (f *fakeProvider) Locations(context.Context) ([]string, error) {
	defer f.track()()
	return f.locations, f.locErr
}

func (f *fakeProvider) IncidentTypes(context.Context) ([]string, error) {
	defer f.track()()
	return f.types, nil
}

func TestLoadAll(t *testing.T) {
	p := &fakeProvider{
		sources:   []string{"punch", "vanguard", "punch", ""},
		locations: []string{"Lagos", "Abuja"},
		types:     []string{"kidnapping"},
	}
	c := Load(context.Background(), p)

	if got := c.Sources(); len(got) != 2 || got[0] != "punch" || got[1] != "vanguard" {
		t.Errorf("expected deduped sources in order, got %v", got)
	}
	if len(c.Locations()) != 2 {
		t.Errorf("expected 2 locations, got %v", c.Locations())
	}
	if len(c.IncidentTypes()) != 1 {
		t.Errorf("expected 1 incident type, got %v", c.IncidentTypes())
	}
	if len(c.Degraded()) != 0 {
		t.Errorf("expected nothing degraded, got %v", c.Degraded())
	}
	if p.peak.Load() < 2 {
		t.Errorf("expected concurrent retrievals, peak in-flight was %d", p.peak.Load())
	}
}

func TestLoadPartialFailure(t *testing.T) {
	p := &fakeProvider{
		sourcesErr: errors.New("connection refused"),
		locations:  []string{"Lagos"},
		types:      []string{"terrorism"},
	}
	c := Load(context.Background(), p)

	if len(c.Sources()) != 0 {
		t.Errorf("failed category should be empty, got %v", c.Sources())
	}
	if c.Err(query.DimSource) == nil {
		t.Error("expected recorded source error")
	}
	if len(c.Locations()) != 1 || len(c.IncidentTypes()) != 1 {
		t.Error("other categories should load despite one failure")
	}
	opts := c.Options(query.DimSource)
	if len(opts) != 1 || opts[0] != "" {
		t.Errorf("degraded dimension should offer only the unrestricted option, got %v", opts)
	}
	degraded := c.Degraded()
	if len(degraded) != 1 || degraded[0] != query.DimSource {
		t.Errorf("unexpected degraded list %v", degraded)
	}
}

func TestHas(t *testing.T) {
	c := FromValues([]string{"punch"}, []string{"Lagos"}, nil)

	tests := []struct {
		dim   query.Dimension
		value string
		want  bool
	}{
		{query.DimSource, "punch", true},
		{query.DimSource, "guardian", false},
		{query.DimSource, "", true},
		{query.DimLocation, "Lagos", true},
		{query.DimIncidentType, "kidnapping", false},
		{query.DimIncidentType, "", true},
	}
	for _, tt := range tests {
		if got := c.Has(tt.dim, tt.value); got != tt.want {
			t.Errorf("Has(%s, %q) = %v, want %v", tt.dim, tt.value, got, tt.want)
		}
	}
}

func TestOptions(t *testing.T) {
	c := FromValues([]string{"punch", "vanguard"}, nil, nil)
	opts := c.Options(query.DimSource)
	if len(opts) != 3 || opts[0] != "" || opts[1] != "punch" {
		t.Errorf("unexpected options %v", opts)
	}
}
