package feed

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// SummaryLength is how much of a summary an article card shows.
const SummaryLength = 200

// Excerpt flattens a scraped summary to plain text and cuts it to n runes.
func Excerpt(summary string, n int) string {
	return truncate(stripHTML(summary), n)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

var plainText = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// stripHTML drops tags and collapses whitespace. Scraped summaries
// sometimes carry markup from the source page, scripts included.
func stripHTML(s string) string {
	text := html.UnescapeString(plainText.Sanitize(s))
	return strings.Join(strings.Fields(text), " ")
}
