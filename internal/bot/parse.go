package bot

import (
	"fmt"
	"net/url"
	"strings"
)

// ParseAddFeedArgs extracts a feed URL and display name from command
// arguments. Format: <url> <name...>
func ParseAddFeedArgs(args string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return "", "", fmt.Errorf("please provide both URL and name for the feed\nUsage: /addfeed <url> <name>")
	}

	feedURL := parts[0]
	if err := validateURL(feedURL); err != nil {
		return "", "", err
	}
	return feedURL, strings.TrimSpace(parts[1]), nil
}

// ParseURLArg extracts a single feed URL from command arguments.
func ParseURLArg(args string) (string, error) {
	s := strings.TrimSpace(args)
	if s == "" {
		return "", fmt.Errorf("feed URL is required")
	}
	feedURL := strings.Fields(s)[0]
	if err := validateURL(feedURL); err != nil {
		return "", err
	}
	return feedURL, nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid feed URL %q, expected http(s)://...", raw)
	}
	return nil
}
