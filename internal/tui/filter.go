package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/uniqwrites/secnews/internal/incident"
	"github.com/uniqwrites/secnews/internal/metadata"
	"github.com/uniqwrites/secnews/internal/query"
)

// filterBar renders the active filters and, in filter mode, which
// dimension the arrow keys edit.
type filterBar struct {
	meta       *metadata.Cache
	filterMode bool
	dim        int
}

func newFilterBar() filterBar {
	return filterBar{meta: metadata.FromValues(nil, nil, nil)}
}

func (f *filterBar) current() query.Dimension {
	return query.Dimensions()[f.dim]
}

func (f *filterBar) moveDim(delta int) {
	n := len(query.Dimensions())
	f.dim = (f.dim + delta + n) % n
}

// cycle returns the value after (or before) current among the known values
// of the focused dimension. A current value the backend never listed is
// treated like "All".
func (f *filterBar) cycle(current string, delta int) string {
	dim := f.current()
	opts := f.meta.Options(dim)
	i := 0
	if f.meta.Has(dim, current) {
		i = lo.IndexOf(opts, current)
	}
	return opts[(i+delta+len(opts))%len(opts)]
}

// unlisted returns "dim=value" for every restricted dimension whose value
// the backend does not list. Categories that failed to load are skipped.
func unlisted(meta *metadata.Cache, f query.Filter) []string {
	var out []string
	for _, d := range query.Dimensions() {
		v := f.Get(d)
		if meta.Err(d) != nil || meta.Has(d, v) {
			continue
		}
		out = append(out, dimLabel(d)+"="+v)
	}
	return out
}

func dimLabel(d query.Dimension) string {
	switch d {
	case query.DimIncidentType:
		return "type"
	default:
		return d.String()
	}
}

func valueLabel(d query.Dimension, v string) string {
	switch {
	case v == "":
		return "All"
	case d == query.DimIncidentType:
		return incident.Icon(v) + " " + incident.Label(v)
	default:
		return v
	}
}

// activeLabel summarizes restricted dimensions for the status bar.
func activeLabel(f query.Filter) string {
	var parts []string
	for _, d := range query.Dimensions() {
		if v := f.Get(d); v != "" {
			parts = append(parts, dimLabel(d)+"="+v)
		}
	}
	if len(parts) == 0 {
		return "All"
	}
	return strings.Join(parts, ", ")
}

func (f *filterBar) render(filter query.Filter, width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string

	for i, d := range query.Dimensions() {
		v := filter.Get(d)
		style := tabInactiveStyle
		if v != "" {
			style = tabActiveStyle
		}
		label := dimLabel(d) + ": " + valueLabel(d, v)
		if f.filterMode && i == f.dim {
			label = "[" + label + "]"
		}
		if f.meta.Err(d) != nil {
			label += " !"
		}
		parts = append(parts, style.Render(label))
	}
	parts = append(parts, tabInactiveStyle.Render(query.WindowLabel(filter.WindowDays)))

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorTabBg).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
