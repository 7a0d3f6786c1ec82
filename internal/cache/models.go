package cache

import "time"

// Marker records that an article was opened from the terminal.
type Marker struct {
	ArticleID string
	Title     string
	Link      string
	Source    string
	ReadAt    time.Time
}

// dbMarker mirrors the read_markers columns.
type dbMarker struct {
	ArticleID string `db:"article_id"`
	Title     string `db:"title"`
	Link      string `db:"link"`
	Source    string `db:"source"`
	ReadAt    int64  `db:"read_at"`
}

func (m dbMarker) marker() Marker {
	return Marker{
		ArticleID: m.ArticleID,
		Title:     m.Title,
		Link:      m.Link,
		Source:    m.Source,
		ReadAt:    time.Unix(m.ReadAt, 0),
	}
}
