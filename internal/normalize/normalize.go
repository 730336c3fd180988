// Package normalize turns raw feed entry bodies into bounded plain-text
// messages for the delivery surface.
package normalize

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"rss_channel_bot/internal/model"
)

// MaxMessageLen is the Telegram message length limit.
const MaxMessageLen = 4096

const truncationMarker = "… [truncated]"

// Text strips markup from raw HTML and collapses whitespace. Malformed or
// partial HTML degrades to best-effort extraction; Text never fails.
func Text(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return collapse(raw)
	}
	doc.Find("script, style").Remove()
	return collapse(doc.Text())
}

// Message formats an entry as a plain-text notification. The result is a
// pure function of its inputs and never exceeds MaxMessageLen; when the body
// is cut, a truncation marker is inserted and the original link is kept so
// the full content stays reachable.
func Message(feedName string, entry model.Entry) string {
	return message(feedName, entry, MaxMessageLen)
}

func message(feedName string, entry model.Entry, maxLen int) string {
	header := fmt.Sprintf("[%s]\n\n%s", feedName, entry.Title)
	body := Text(entry.Body)

	var link string
	if entry.Link != "" {
		link = "\n\n" + entry.Link
	}

	full := header
	if body != "" {
		full += "\n\n" + body
	}
	full += link

	if len([]rune(full)) <= maxLen {
		return full
	}

	// The header, marker and link are kept verbatim; only the body shrinks.
	fixed := len([]rune(header)) + len([]rune("\n\n "+truncationMarker)) + len([]rune(link))
	budget := maxLen - fixed
	if budget < 0 {
		budget = 0
	}

	runes := []rune(body)
	if len(runes) > budget {
		runes = runes[:budget]
	}
	cut := strings.TrimRight(string(runes), " \n")

	out := header + "\n\n"
	if cut != "" {
		out += cut + " "
	}
	out += truncationMarker + link

	// An oversized title or link can exceed the cap on their own; hard-cut
	// as the last resort.
	if r := []rune(out); len(r) > maxLen {
		out = string(r[:maxLen])
	}
	return out
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
