package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// ArticleID accepts both numeric and string identifiers from the backend.
type ArticleID string

func (id *ArticleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ArticleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("article id: %w", err)
	}
	*id = ArticleID(n.String())
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// Timestamp parses RFC 3339 as well as the zone-less ISO forms Python
// backends emit. Zone-less values are taken as UTC.
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339))
}

type Article struct {
	ID            ArticleID `json:"id"`
	Title         string    `json:"title"`
	Summary       string    `json:"summary"`
	Source        string    `json:"source"`
	IncidentType  string    `json:"incident_type"`
	PublishedDate Timestamp `json:"published_date"`
	Locations     []string  `json:"locations"`
	Link          string    `json:"link"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

type TypeCount struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type LocationCount struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// Statistics is one snapshot for a window. TopLocations arrives sorted by
// count, descending.
type Statistics struct {
	TotalArticles  int             `json:"total_articles"`
	BySource       []SourceCount   `json:"by_source"`
	ByIncidentType []TypeCount     `json:"by_incident_type"`
	TopLocations   []LocationCount `json:"top_locations"`
}

type articlesResponse struct {
	Articles []Article `json:"articles"`
}

type sourcesResponse struct {
	Sources []string `json:"sources"`
}

type locationsResponse struct {
	Locations []string `json:"locations"`
}

type incidentTypesResponse struct {
	IncidentTypes []string `json:"incident_types"`
}
