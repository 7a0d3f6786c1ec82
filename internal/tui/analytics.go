package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/uniqwrites/secnews/internal/api"
	"github.com/uniqwrites/secnews/internal/incident"
	"github.com/uniqwrites/secnews/internal/query"
	"github.com/uniqwrites/secnews/internal/stats"
)

const barCols = 30

func renderAnalytics(v *stats.View, spin string, width, height int) string {
	title := previewTitleStyle.Render("Security Analytics · " + query.WindowLabel(v.Days()))

	var body string
	switch v.Status() {
	case stats.Loading:
		body = lipglossCenter(spin+" Loading statistics...", width, height/2)
	case stats.Failed:
		msg := "Failed to load statistics"
		if v.Err() != nil {
			msg += ": " + v.Err().Error()
		}
		body = errorStyle.Render(msg) + "\n" + emptyStyle.Render("Press w to try another window.")
	case stats.Ready:
		body = renderDashboard(v.Snapshot(), v.Bars(), width)
	}

	content := title + "\n" + body
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(strings.Join(lines, "\n"))
}

func renderDashboard(snap *api.Statistics, bars []stats.LocationBar, width int) string {
	sum := stats.Summarize(snap)
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		statCard("Total Articles", sum.TotalArticles),
		statCard("Sources Tracked", sum.SourcesTracked),
		statCard("Affected Locations", sum.AffectedLocations),
	)

	colWidth := max(24, (width-4)/2)
	bySource := renderCounts("By Source", colWidth, len(snap.BySource), func(i int) (string, int) {
		return snap.BySource[i].Source, snap.BySource[i].Count
	})
	byType := renderCounts("By Incident Type", colWidth, len(snap.ByIncidentType), func(i int) (string, int) {
		t := snap.ByIncidentType[i].Type
		return incident.Icon(t) + " " + incident.Label(t), snap.ByIncidentType[i].Count
	})
	lists := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(colWidth).Render(bySource),
		lipgloss.NewStyle().Width(colWidth).Render(byType),
	)

	return lipgloss.JoinVertical(lipgloss.Left, cards, lists, renderBars(bars, width))
}

func statCard(label string, value int) string {
	return statCardStyle.Render(statValueStyle.Render(fmt.Sprintf("%d", value)) + "\n" + statLabelStyle.Render(label))
}

func renderCounts(title string, width, n int, row func(int) (string, int)) string {
	lines := []string{sectionTitleStyle.Render(title)}
	if n == 0 {
		lines = append(lines, emptyStyle.Render("No data"))
	}
	for i := 0; i < n; i++ {
		label, count := row(i)
		num := fmt.Sprintf("%d", count)
		label = truncateStr(label, width-len(num)-3)
		gap := max(1, width-lipgloss.Width(label)-len(num)-2)
		lines = append(lines, label+strings.Repeat(" ", gap)+statValueStyle.Render(num))
	}
	return strings.Join(lines, "\n")
}

func renderBars(bars []stats.LocationBar, width int) string {
	lines := []string{sectionTitleStyle.Render("Top Affected Locations")}
	if len(bars) == 0 {
		lines = append(lines, emptyStyle.Render("No location data for this window"))
		return strings.Join(lines, "\n")
	}

	nameWidth := 0
	for _, b := range bars {
		nameWidth = max(nameWidth, len([]rune(b.Location)))
	}
	nameWidth = min(nameWidth, 20)
	cols := min(barCols, max(5, width-nameWidth-16))

	for _, b := range bars {
		name := truncateStr(b.Location, nameWidth)
		pad := strings.Repeat(" ", nameWidth-len([]rune(name)))
		lines = append(lines, fmt.Sprintf("%2d. %s%s %s %d",
			b.Rank, name, pad, barStyle.Render(stats.Bar(b.Width, cols)), b.Count))
	}
	return strings.Join(lines, "\n")
}
