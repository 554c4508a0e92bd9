package client

import (
	"net/url"
	"strings"
)

// joinURL glues the base URL, a request path and optional query parameters.
// Absolute paths replace the base path entirely.
func joinURL(base, path string, query url.Values) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))

	if path != "" {
		if !strings.HasPrefix(path, "/") {
			b.WriteByte('/')
		}
		b.WriteString(path)
	}

	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}
	return b.String()
}
