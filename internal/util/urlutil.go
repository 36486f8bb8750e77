package util

import (
	"net/url"
	"strings"
)

// SourceLabel returns a short "host/path" label for a source URL, used in
// headers and plans. The URL itself is passed to the downloader untouched;
// anything that does not parse is returned as-is.
func SourceLabel(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err == nil && u.Host == "" && u.Scheme == "" {
		if u2, e2 := url.Parse("https://" + strings.TrimSpace(raw)); e2 == nil {
			u = u2
		}
	}
	if err != nil || u == nil || u.Host == "" {
		return raw
	}
	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	label := host + strings.TrimRight(u.Path, "/")
	if u.RawQuery != "" {
		label += "?" + u.RawQuery
	}
	return label
}
