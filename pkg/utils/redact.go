package utils

import (
	"net/url"
	"strings"
)

// MaskSecret keeps the ends of a secret and stars out the middle.
func MaskSecret(value string) string {
	switch {
	case value == "":
		return ""
	case len(value) <= 4:
		return strings.Repeat("*", len(value))
	case len(value) <= 8:
		return value[:2] + strings.Repeat("*", len(value)-2)
	default:
		return value[:4] + strings.Repeat("*", len(value)-8) + value[len(value)-4:]
	}
}

// RedactURL hides the parts of a URL that commonly carry credentials:
// user info, every path segment after the first and all query values.
// Webhook URLs embed their token in exactly these places.
func RedactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return MaskSecret(raw)
	}

	if u.User != nil {
		u.User = url.User("***")
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 1; i < len(segments); i++ {
		segments[i] = MaskSecret(segments[i])
	}
	if u.Path != "" {
		u.Path = "/" + strings.Join(segments, "/")
	}

	if u.RawQuery != "" {
		q := u.Query()
		for key, values := range q {
			for i := range values {
				values[i] = MaskSecret(values[i])
			}
			q[key] = values
		}
		u.RawQuery = q.Encode()
	}
	u.RawPath = ""

	// Stars would be percent-encoded by url.String.
	out := u.String()
	out = strings.ReplaceAll(out, "%2A", "*")
	return out
}
