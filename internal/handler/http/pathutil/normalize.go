package pathutil

import (
	"regexp"
	"strings"
)

// pathPattern pairs a route regex with its normalized template.
type pathPattern struct {
	pattern  *regexp.Regexp
	template string
}

// pathPatterns lists the dynamic routes of the operational API, most
// specific first. Pre-compiled so normalization stays cheap on the hot path.
var pathPatterns = []*pathPattern{
	{pattern: regexp.MustCompile(`^/feeds/\d+/reactivate$`), template: "/feeds/:id/reactivate"},
	{pattern: regexp.MustCompile(`^/feeds/\d+$`), template: "/feeds/:id"},
}

// NormalizePath collapses ID-bearing paths to a template form
// (e.g. /feeds/123/reactivate -> /feeds/:id/reactivate) so metric labels
// stay bounded. Static paths are returned unchanged.
func NormalizePath(path string) string {
	if path == "" {
		return "/"
	}
	// strip trailing slash except for the root path
	if len(path) > 1 && strings.HasSuffix(path, "/") {
		path = strings.TrimSuffix(path, "/")
	}
	for _, p := range pathPatterns {
		if p.pattern.MatchString(path) {
			return p.template
		}
	}
	return path
}
