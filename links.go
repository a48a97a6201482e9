package wikiextract

import (
	"strings"
)

var nonArticlePrefixes = []string{categoryPrefix, "file:", "image:"}

// Links finds all the article links within a parsed body, in first-seen
// order.  Section anchors are dropped and category and file links are
// left out.
func Links(tree Wikicode) []string {
	var rv []string
	seen := map[string]bool{}
	for _, l := range tree.Links() {
		target := l.Target()
		if i := strings.IndexByte(target, '#'); i >= 0 {
			target = strings.TrimSpace(target[:i])
		}
		if target == "" || seen[target] || hasAnyPrefixFold(target, nonArticlePrefixes) {
			continue
		}
		seen[target] = true
		rv = append(rv, target)
	}
	return rv
}

func hasAnyPrefixFold(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if _, ok := trimNamespace(s, p); ok {
			return true
		}
	}
	return false
}
