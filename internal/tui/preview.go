package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/uniqwrites/secnews/internal/api"
	"github.com/uniqwrites/secnews/internal/feed"
	"github.com/uniqwrites/secnews/internal/incident"
)

func renderPreview(article *api.Article, width, height int) string {
	if article == nil {
		return lipglossCenter("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(incident.Icon(article.IncidentType) + " " + article.Title)

	meta := []string{article.Source}
	if article.IncidentType != "" {
		meta = append(meta, incident.Label(article.IncidentType))
	}
	if !article.PublishedDate.IsZero() {
		meta = append(meta, article.PublishedDate.Format("Jan 2, 2006"))
	}
	source := previewSourceStyle.Render(strings.Join(meta, " · "))

	places := "📍 Location unknown"
	if len(article.Locations) > 0 {
		places = "📍 " + strings.Join(article.Locations, ", ")
	}
	locations := previewLocationStyle.Width(contentWidth).Render(places)

	desc := feed.Excerpt(article.Summary, feed.SummaryLength)
	if desc == "" {
		desc = "(No summary available)"
	}

	body := previewBodyStyle.Width(contentWidth).Render(wrapText(desc, contentWidth))
	link := previewLinkStyle.Width(contentWidth).Render("Read full article: " + article.Link)

	content := lipgloss.JoinVertical(lipgloss.Left, title, source, locations, body, link)

	lines := strings.Split(content, "\n")
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}

	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len([]rune(line))+1+len([]rune(w)) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
