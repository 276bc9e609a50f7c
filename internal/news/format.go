package news

import (
	"strconv"
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/medgpt-portal/internal/api"
)

// DescriptionLimit is how many characters of a description a card shows
const DescriptionLimit = 150

// TimeAgo describes how long ago an article was published
func TimeAgo(now time.Time, publishedAt string) string {
	published, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return "Unknown time"
	}

	hours := int(now.Sub(published).Hours())
	switch {
	case hours < 1:
		return "Just now"
	case hours < 24:
		return strconv.Itoa(hours) + "h ago"
	case hours/24 < 7:
		return strconv.Itoa(hours/24) + "d ago"
	}
	return FormatDate(publishedAt)
}

// FormatDate renders an RFC 3339 timestamp as "Jan 2, 2006, 03:04 PM"
func FormatDate(publishedAt string) string {
	published, err := time.Parse(time.RFC3339, publishedAt)
	if err != nil {
		return "Unknown date"
	}
	return published.Format("Jan 2, 2006, 03:04 PM")
}

// Truncate shortens text to max characters followed by "..."
func Truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// ShowAuthor reports whether the card should name the author
func ShowAuthor(a api.NewsArticle) bool {
	return a.Author != nil && *a.Author != "" && *a.Author != "Unknown"
}
