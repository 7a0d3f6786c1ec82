package query

import (
	"fmt"
	"net/url"
	"strconv"
)

// Windows are the selectable day counts, in display order.
var Windows = []int{1, 7, 30, 90}

const (
	DefaultWindow = 7
	DefaultLimit  = 10
)

// Dimension names a filterable article attribute.
type Dimension int

const (
	DimSource Dimension = iota
	DimLocation
	DimIncidentType
)

// Dimensions lists the filter dimensions in display order.
func Dimensions() []Dimension {
	return []Dimension{DimSource, DimLocation, DimIncidentType}
}

func (d Dimension) String() string {
	switch d {
	case DimSource:
		return "source"
	case DimLocation:
		return "location"
	case DimIncidentType:
		return "incident_type"
	default:
		return fmt.Sprintf("dimension(%d)", int(d))
	}
}

// Filter is the user's filter selection. An empty string means no
// restriction on that dimension.
type Filter struct {
	Source       string
	Location     string
	IncidentType string
	WindowDays   int
}

// Get returns the selected value for a dimension.
func (f Filter) Get(d Dimension) string {
	switch d {
	case DimSource:
		return f.Source
	case DimLocation:
		return f.Location
	case DimIncidentType:
		return f.IncidentType
	}
	return ""
}

// Page is the pagination cursor.
type Page struct {
	Skip  int
	Limit int
}

// Number returns the 1-based page number.
func (p Page) Number() int {
	return p.Skip/p.Limit + 1
}

// Descriptor is the canonical fetch key. It is comparable: two descriptors
// are equal iff every field is equal.
type Descriptor struct {
	Filter
	Page
}

// Values encodes the descriptor as the query string of GET /api/articles.
// Unrestricted dimensions are omitted.
func (d Descriptor) Values() url.Values {
	v := url.Values{}
	v.Set("skip", strconv.Itoa(d.Skip))
	v.Set("limit", strconv.Itoa(d.Limit))
	v.Set("days", strconv.Itoa(d.WindowDays))
	if d.Source != "" {
		v.Set("source", d.Source)
	}
	if d.Location != "" {
		v.Set("location", d.Location)
	}
	if d.IncidentType != "" {
		v.Set("incident_type", d.IncidentType)
	}
	return v
}

func (d Descriptor) String() string {
	return d.Values().Encode()
}

// ValidWindow reports whether days is one of the selectable windows.
func ValidWindow(days int) bool {
	for _, w := range Windows {
		if w == days {
			return true
		}
	}
	return false
}

// NextWindow returns the window following days in Windows, wrapping around.
func NextWindow(days int) int {
	for i, w := range Windows {
		if w == days {
			return Windows[(i+1)%len(Windows)]
		}
	}
	return DefaultWindow
}

// WindowLabel renders a window the way the selector shows it.
func WindowLabel(days int) string {
	if days == 1 {
		return "Last 24 hours"
	}
	return fmt.Sprintf("Last %d days", days)
}
