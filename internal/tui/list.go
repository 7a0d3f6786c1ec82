package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/uniqwrites/secnews/internal/api"
	"github.com/uniqwrites/secnews/internal/incident"
)

func relativeTime(t time.Time) string {
	if t.IsZero() {
		return "unknown date"
	}
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func renderListItem(a api.Article, selected, read bool, width int) string {
	if width < 10 {
		width = 30
	}

	label := incident.Icon(a.IncidentType) + " " + truncateStr(a.Title, width-6)
	var title string
	switch {
	case selected:
		title = itemSelectedStyle.Render("> " + label)
	case read:
		title = itemReadStyle.Render("  " + label)
	default:
		title = itemTitleStyle.Render("  " + label)
	}

	meta := "  " + itemSourceStyle.Render(a.Source)
	if a.IncidentType != "" {
		meta += " " + itemTypeStyle.Render(incident.Label(a.IncidentType))
	}
	meta += " " + itemTimeStyle.Render("· "+relativeTime(a.PublishedDate.Time))

	return title + "\n" + meta
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderList(articles []api.Article, read map[string]bool, cursor int, height int, width int) string {
	// Each item is 2 lines + 1 blank line = 3 lines
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	// Calculate scroll offset
	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > len(articles) {
		end = len(articles)
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		a := articles[i]
		b.WriteString(renderListItem(a, i == cursor, read[string(a.ID)], width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	return b.String()
}

func lipglossCenter(s string, width, height int) string {
	pad := (width - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
