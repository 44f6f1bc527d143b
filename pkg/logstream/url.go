package logstream

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// StreamURL derives the websocket URL for path from an http(s) origin:
// http becomes ws and https becomes wss. ws and wss origins are kept.
func StreamURL(origin, path string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return "", errors.Wrap(err, "invalid origin")
	}

	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", errors.Errorf("unsupported origin scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.Errorf("origin %q has no host", origin)
	}

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + path
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
