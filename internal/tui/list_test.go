package tui

import (
	"strings"
	"testing"
	"time"

	"github.com/uniqwrites/secnews/internal/api"
)

func TestTruncateStr(t *testing.T) {
	tests := []struct {
		input string
		n     int
		want  string
	}{
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"abc", 3, "abc"},
		{"abcd", 3, "abc"},
		{"", 5, ""},
		{"test", 0, ""},
	}
	for _, tt := range tests {
		got := truncateStr(tt.input, tt.n)
		if got != tt.want {
			t.Errorf("truncateStr(%q, %d) = %q, want %q", tt.input, tt.n, got, tt.want)
		}
	}
}

func TestTruncateStrUTF8(t *testing.T) {
	got := truncateStr("日本語テスト", 5)
	want := "日本..."
	if got != want {
		t.Errorf("truncateStr(Japanese, 5) = %q, want %q", got, want)
	}
}

func TestRelativeTime(t *testing.T) {
	now := time.Now()

	tests := []struct {
		t    time.Time
		want string
	}{
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m"},
		{now.Add(-3 * time.Hour), "3h"},
		{now.Add(-2 * 24 * time.Hour), "2d"},
	}
	for _, tt := range tests {
		got := relativeTime(tt.t)
		if got != tt.want {
			t.Errorf("relativeTime(%v ago) = %q, want %q", now.Sub(tt.t), got, tt.want)
		}
	}
}

func TestRelativeTimeOld(t *testing.T) {
	old := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	got := relativeTime(old)
	if got != "Jun 15" {
		t.Errorf("relativeTime(old date) = %q, want %q", got, "Jun 15")
	}
}

func TestRelativeTimeZero(t *testing.T) {
	if got := relativeTime(time.Time{}); got != "unknown date" {
		t.Errorf("relativeTime(zero) = %q", got)
	}
}

func TestRenderListCards(t *testing.T) {
	articles := []api.Article{
		{ID: "1", Title: "Gunmen abduct travellers", Source: "punch", IncidentType: "kidnapping",
			PublishedDate: api.Timestamp{Time: time.Now().Add(-3 * time.Hour)}},
		{ID: "2", Title: "Bank robbery foiled", Source: "vanguard", IncidentType: "armed_robbery"},
		{ID: "3", Title: "Market fire in Onitsha", Source: "punch"},
	}
	read := map[string]bool{"2": true}

	out := renderList(articles, read, 0, 30, 80)
	lines := strings.Split(out, "\n")
	if len(lines) != 6 {
		t.Fatalf("expected 2 lines per card, got %d:\n%s", len(lines), out)
	}

	if lines[0] != itemSelectedStyle.Render("> 🚨 Gunmen abduct travellers") {
		t.Errorf("selected title = %q", lines[0])
	}
	if !strings.Contains(lines[1], "KIDNAPPING") || !strings.Contains(lines[1], "· 3h") {
		t.Errorf("card meta = %q", lines[1])
	}

	// Opened articles are dimmed.
	if lines[2] != itemReadStyle.Render("  🔫 Bank robbery foiled") {
		t.Errorf("read title = %q", lines[2])
	}
	if !strings.Contains(lines[3], "ARMED ROBBERY") || !strings.Contains(lines[3], "unknown date") {
		t.Errorf("card meta without date = %q", lines[3])
	}

	if lines[4] != itemTitleStyle.Render("  📰 Market fire in Onitsha") {
		t.Errorf("untyped title = %q", lines[4])
	}
	if !strings.Contains(lines[5], "punch") || strings.Contains(lines[5], "UNKNOWN") {
		t.Errorf("untyped card meta = %q", lines[5])
	}
}

func TestRenderListScrollsToCursor(t *testing.T) {
	var articles []api.Article
	for _, title := range []string{"one", "two", "three", "four"} {
		articles = append(articles, api.Article{ID: api.ArticleID(title), Title: title, Source: "punch"})
	}

	// Room for two cards: the cursor on the last one pushes the first two out.
	out := renderList(articles, nil, 3, 6, 80)
	if strings.Contains(out, "one") || strings.Contains(out, "two") {
		t.Errorf("expected scrolled list, got:\n%s", out)
	}
	if !strings.Contains(out, "> 📰 four") {
		t.Errorf("expected cursor card, got:\n%s", out)
	}
}
