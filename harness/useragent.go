package harness

import "strings"

// UserAgent wraps a user-agent string for the browser checks some
// fixtures need to skip or vary behaviour on.
type UserAgent string

// IsFirefox reports whether the agent is Gecko-based Firefox.
func (ua UserAgent) IsFirefox() bool {
	return strings.Contains(string(ua), "Firefox/")
}

// IsWebKit reports whether the agent is WebKit-based but not Chrome
// (Chrome carries the WebKit token for compatibility).
func (ua UserAgent) IsWebKit() bool {
	s := string(ua)
	return strings.Contains(s, "AppleWebKit/") && !strings.Contains(s, "Chrome/")
}

// IsChrome reports whether the agent is Chrome or Chromium.
func (ua UserAgent) IsChrome() bool {
	s := string(ua)
	return strings.Contains(s, "Chrome/") || strings.Contains(s, "Chromium/")
}

// IsMobile reports whether the agent declares itself mobile.
func (ua UserAgent) IsMobile() bool {
	return strings.Contains(string(ua), "Mobile")
}
