package cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *Cache {
	t.Helper()
	dir := t.TempDir()
	db, err := Open(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleMarkers() []Marker {
	now := time.Now()
	return []Marker{
		{ArticleID: "101", Title: "Gunmen abduct travellers", Link: "https://a.ng/1", Source: "punch", ReadAt: now.Add(-1 * time.Hour)},
		{ArticleID: "102", Title: "Troops repel attack", Link: "https://b.ng/2", Source: "vanguard", ReadAt: now.Add(-2 * time.Hour)},
		{ArticleID: "103", Title: "Police arrest robbery suspects", Link: "https://c.ng/3", Source: "punch", ReadAt: now.Add(-48 * time.Hour)},
	}
}

func seed(t *testing.T, db *Cache) {
	t.Helper()
	for _, m := range sampleMarkers() {
		if err := db.MarkRead(context.Background(), m); err != nil {
			t.Fatalf("mark read: %v", err)
		}
	}
}

func TestMarkReadAndReadSet(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	read, err := db.ReadSet(context.Background(), []string{"101", "103", "999", ""})
	if err != nil {
		t.Fatalf("read set: %v", err)
	}
	if len(read) != 2 || !read["101"] || !read["103"] {
		t.Errorf("unexpected read set %v", read)
	}
	if read["999"] {
		t.Error("unread article reported as read")
	}
}

func TestReadSetEmpty(t *testing.T) {
	db := testDB(t)
	read, err := db.ReadSet(context.Background(), nil)
	if err != nil {
		t.Fatalf("read set: %v", err)
	}
	if len(read) != 0 {
		t.Errorf("expected empty set, got %v", read)
	}
}

func TestMarkReadUpdatesExisting(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	// Re-reading an old article moves it to the top
	m := sampleMarkers()[2]
	m.ReadAt = time.Now()
	if err := db.MarkRead(context.Background(), m); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	got, err := db.Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 markers after re-read, got %d", len(got))
	}
	if got[0].ArticleID != "103" {
		t.Errorf("expected re-read article first, got %s", got[0].ArticleID)
	}
}

func TestMarkReadRejectsEmptyID(t *testing.T) {
	db := testDB(t)
	if err := db.MarkRead(context.Background(), Marker{Title: "no id"}); err == nil {
		t.Error("expected error for empty article id")
	}
}

func TestRecentOrderAndLimit(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	got, err := db.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 markers, got %d", len(got))
	}
	if got[0].ArticleID != "101" || got[1].ArticleID != "102" {
		t.Errorf("expected newest first, got %s, %s", got[0].ArticleID, got[1].ArticleID)
	}
	if got[0].Source != "punch" || got[0].Link != "https://a.ng/1" {
		t.Errorf("marker fields not round-tripped: %+v", got[0])
	}
}

func TestPruneDeletesOldMarkers(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	// 103 is 48h old. Prune anything older than 24h.
	deleted, err := db.Prune(context.Background(), 24*time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 pruned, got %d", deleted)
	}

	read, err := db.ReadSet(context.Background(), []string{"101", "102", "103"})
	if err != nil {
		t.Fatalf("read set: %v", err)
	}
	if len(read) != 2 || read["103"] {
		t.Errorf("expected 2 remaining markers, got %v", read)
	}
}

func TestPruneNothingToDelete(t *testing.T) {
	db := testDB(t)
	seed(t, db)

	deleted, err := db.Prune(context.Background(), 365*24*time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected 0 pruned, got %d", deleted)
	}
}

func TestStats(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	seed(t, db)

	count, size, err := db.Stats(dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if count != 3 {
		t.Errorf("expected count 3, got %d", count)
	}
	if size == 0 {
		t.Error("expected non-zero db size")
	}
}

func TestLastScrape(t *testing.T) {
	db := testDB(t)

	if _, ok := db.LastScrape(); ok {
		t.Error("expected no last scrape on a fresh cache")
	}

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	if err := db.SetLastScrape(at); err != nil {
		t.Fatalf("set last scrape: %v", err)
	}
	if err := db.SetLastScrape(at.Add(time.Hour)); err != nil {
		t.Fatalf("set last scrape: %v", err)
	}

	got, ok := db.LastScrape()
	if !ok {
		t.Fatal("expected last scrape to be recorded")
	}
	if !got.Equal(at.Add(time.Hour)) {
		t.Errorf("expected %v, got %v", at.Add(time.Hour), got)
	}
}

func TestOpenCreatesDir(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "deep", "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("opening db in nested dir: %v", err)
	}
	db.Close()

	if _, err := os.Stat(filepath.Dir(dbPath)); os.IsNotExist(err) {
		t.Error("expected directory to be created")
	}
}
