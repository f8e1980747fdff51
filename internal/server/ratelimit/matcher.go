package ratelimit

import "strings"

// Route matches requests by method and a slash separated pattern.
// "*" matches exactly one path segment; a trailing "**" matches one or more.
type Route struct {
	Method  string
	Pattern string
}

// Matches reports whether the route covers method and path.
func (r Route) Matches(method, path string) bool {
	if r.Method != "" && !strings.EqualFold(r.Method, method) {
		return false
	}

	want := splitPath(r.Pattern)
	got := splitPath(path)

	for i, seg := range want {
		if seg == "**" {
			return len(got) > i
		}
		if i >= len(got) {
			return false
		}
		if seg != "*" && seg != got[i] {
			return false
		}
	}
	return len(got) == len(want)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
