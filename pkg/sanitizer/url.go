package sanitizer

import (
	"net/url"
	"strings"
)

// NormalizeLink cleans a notification link. In-app paths are kept. Absolute
// links are forced to https with a lowercase host and no credentials. Links
// with any other scheme (javascript:, data:, mailto:) are dropped.
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	if link == "" {
		return ""
	}
	if strings.HasPrefix(link, "/") && !strings.HasPrefix(link, "//") {
		return link
	}

	if !strings.Contains(link, "://") && !strings.HasPrefix(link, "//") {
		if strings.Contains(link, ":") && !strings.Contains(strings.SplitN(link, "/", 2)[0], ".") {
			return ""
		}
		link = "https://" + link
	}

	u, err := url.Parse(link)
	if err != nil || u.Host == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "", "http", "https":
	default:
		return ""
	}

	u.Scheme = "https"
	u.User = nil
	u.Host = strings.ToLower(u.Host)
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawPath = ""
	return u.String()
}
