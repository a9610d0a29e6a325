package curation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const embedURLTemplate = "https://www.youtube.com/embed/%s?controls=0&hd=1&vq=hd720"

var (
	videoIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	embedPathPattern = regexp.MustCompile(`^/embed/([a-zA-Z0-9_-]{11})/?$`)
	shortPathPattern = regexp.MustCompile(`^/([a-zA-Z0-9_-]{11})/?$`)
)

// ExtractVideoID returns the 11-character video id of a YouTube watch,
// embed or youtu.be short link. Channel pages, handles and malformed ids
// are rejected.
func ExtractVideoID(rawURL string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", false
	}
	host := strings.ToLower(parsed.Hostname())

	switch {
	case strings.Contains(host, "youtube"):
		if id := parsed.Query().Get("v"); videoIDPattern.MatchString(id) {
			return id, true
		}
		if m := embedPathPattern.FindStringSubmatch(parsed.Path); m != nil {
			return m[1], true
		}
	case strings.Contains(host, "youtu.be"):
		if m := shortPathPattern.FindStringSubmatch(parsed.Path); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// EmbedURL formats a video id into the player embed URL. The id must come
// from ExtractVideoID.
func EmbedURL(id string) string {
	return fmt.Sprintf(embedURLTemplate, id)
}

func isVideoPlatform(primaryDomain string) bool {
	return primaryDomain == "youtube.com" || primaryDomain == "youtu.be"
}
