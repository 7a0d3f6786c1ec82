package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/uniqwrites/secnews/internal/scrape"
)

type statusInfo struct {
	articles   int
	page       int
	window     string
	filter     string
	loading    bool
	lastScrape time.Time
}

func renderStatusBar(info statusInfo, hints string, width int) string {
	left := fmt.Sprintf(" %d articles · Page %d · %s", info.articles, info.page, info.window)
	if info.filter != "All" {
		left += " · " + info.filter
	}
	if info.loading {
		left += " (loading...)"
	}
	if !info.lastScrape.IsZero() {
		left += " · scraped " + relativeTime(info.lastScrape)
	}

	right := " " + hints + " "

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + fmt.Sprintf("%*s", gap, "") + right

	return statusBarStyle.Width(width).Render(bar)
}

// renderScrapeLine shows the scrape controller's transient message, or
// nothing when it is idle.
func renderScrapeLine(state scrape.State, message, spin string) string {
	switch state {
	case scrape.Running:
		return spin + " " + scrapeRunningStyle.Render(message)
	case scrape.Succeeded:
		return scrapeSuccessStyle.Render(message)
	case scrape.Failed:
		return errorStyle.Render(message)
	}
	return ""
}
