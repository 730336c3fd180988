package bot

import (
	"fmt"
	"strings"

	"rss_channel_bot/internal/model"
)

// FormatFeedList formats the configured feeds for display, in insertion
// order.
func FormatFeedList(feeds []model.Feed) string {
	if len(feeds) == 0 {
		return "No feeds configured yet. Use /addfeed <url> <name> to add one."
	}
	var b strings.Builder
	b.WriteString("Configured feeds:\n")
	for _, f := range feeds {
		fmt.Fprintf(&b, "\n• %s: %s", f.Name, f.URL)
	}
	return b.String()
}
