package wikiextract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Elements whose content is not prose.
var invisibleTags = map[string]bool{
	"ref":          true,
	"references":   true,
	"math":         true,
	"gallery":      true,
	"timeline":     true,
	"score":        true,
	"imagemap":     true,
	"templatedata": true,
}

var (
	quoteRE   = regexp.MustCompile(`'{2,}`)
	headingRE = regexp.MustCompile(`(?m)^=+[ \t]*(.*?)[ \t]*=+[ \t]*$`)
	blankRE   = regexp.MustCompile(`\n{3,}`)
	wordRE    = regexp.MustCompile(`\w+`)
)

// StripCode renders the tree as prose: templates, comments, category
// and file links, references and other invisible tags are removed, as
// are bold/italic quotes and heading markers.
func (w Wikicode) StripCode() string {
	var b strings.Builder
	for _, n := range w {
		if l, ok := n.(*Link); ok && hasAnyPrefixFold(l.Target(), nonArticlePrefixes) {
			continue
		}
		n.flatten(&b)
	}

	var out strings.Builder
	z := html.NewTokenizer(strings.NewReader(b.String()))
	hidden := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			s := quoteRE.ReplaceAllString(out.String(), "")
			s = headingRE.ReplaceAllString(s, "$1")
			s = blankRE.ReplaceAllString(s, "\n\n")
			return strings.TrimSpace(s)
		case html.TextToken:
			if hidden == 0 {
				out.Write(z.Text())
			}
		case html.StartTagToken:
			if name, _ := z.TagName(); invisibleTags[string(name)] {
				hidden++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); invisibleTags[string(name)] && hidden > 0 {
				hidden--
			}
		}
	}
}

// Words splits prose into lower-cased words.
func Words(text string) []string {
	rv := wordRE.FindAllString(text, -1)
	for i := range rv {
		rv[i] = strings.ToLower(rv[i])
	}
	return rv
}
