package journal

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// newNameMatcher returns a predicate comparing video names by NFC form and
// case folding. An empty query matches everything.
func newNameMatcher(query string) func(*string) bool {
	if strings.TrimSpace(query) == "" {
		return func(*string) bool { return true }
	}
	want := canonicalName(query)
	return func(name *string) bool {
		if name == nil {
			return false
		}
		return canonicalName(*name) == want
	}
}

func canonicalName(value string) string {
	folder := cases.Fold()
	return folder.String(norm.NFC.String(strings.TrimSpace(value)))
}
