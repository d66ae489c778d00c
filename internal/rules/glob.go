package rules

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// MatchPath matches filePath against a glob where "**" spans any number of
// path segments. A pattern without a slash is also tried against the base
// name, so "*.lock" matches "web/yarn.lock". Malformed patterns never match.
func MatchPath(pattern, filePath string) bool {
	pattern = strings.TrimPrefix(pattern, "./")
	if ok, err := doublestar.Match(pattern, filePath); err == nil && ok {
		return true
	}
	if strings.Contains(pattern, "/") {
		return false
	}
	ok, err := doublestar.Match(pattern, path.Base(filePath))
	return err == nil && ok
}
