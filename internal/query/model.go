package query

import "fmt"

// Model owns the filter and pagination state. Every mutator returns true
// when the descriptor changed, which is the caller's cue to dispatch a fetch.
type Model struct {
	filter Filter
	page   Page
}

// New returns a model with the given window and page size. Invalid values
// fall back to the defaults.
func New(windowDays, limit int) *Model {
	if !ValidWindow(windowDays) {
		windowDays = DefaultWindow
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Model{
		filter: Filter{WindowDays: windowDays},
		page:   Page{Limit: limit},
	}
}

func (m *Model) Filter() Filter { return m.filter }
func (m *Model) Page() Page     { return m.page }

// Descriptor returns the current fetch key.
func (m *Model) Descriptor() Descriptor {
	return Descriptor{Filter: m.filter, Page: m.page}
}

// Set changes one filter dimension. The page resets to the first one in the
// same step, so the new filter is never fetched at the old offset.
func (m *Model) Set(d Dimension, value string) bool {
	next := m.filter
	switch d {
	case DimSource:
		next.Source = value
	case DimLocation:
		next.Location = value
	case DimIncidentType:
		next.IncidentType = value
	default:
		return false
	}
	return m.apply(next)
}

func (m *Model) SetSource(v string) bool       { return m.Set(DimSource, v) }
func (m *Model) SetLocation(v string) bool     { return m.Set(DimLocation, v) }
func (m *Model) SetIncidentType(v string) bool { return m.Set(DimIncidentType, v) }

// SetWindow changes the time window. Only the values in Windows are accepted.
func (m *Model) SetWindow(days int) (bool, error) {
	if !ValidWindow(days) {
		return false, fmt.Errorf("window must be one of %v, got %d", Windows, days)
	}
	next := m.filter
	next.WindowDays = days
	return m.apply(next), nil
}

// ClearFilters drops every dimension restriction and keeps the window.
func (m *Model) ClearFilters() bool {
	return m.apply(Filter{WindowDays: m.filter.WindowDays})
}

func (m *Model) apply(next Filter) bool {
	if next == m.filter {
		return false
	}
	m.filter = next
	m.page.Skip = 0
	return true
}

// Next advances one page. The total count is unknown, so this always moves;
// an empty page is a valid result.
func (m *Model) Next() bool {
	m.page.Skip += m.page.Limit
	return true
}

// Prev goes back one page, never below the first.
func (m *Model) Prev() bool {
	skip := m.page.Skip - m.page.Limit
	if skip < 0 {
		skip = 0
	}
	if skip == m.page.Skip {
		return false
	}
	m.page.Skip = skip
	return true
}

func (m *Model) HasPrev() bool { return m.page.Skip > 0 }
