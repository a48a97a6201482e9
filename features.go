package wikiextract

import (
	"regexp"
	"sort"
	"strings"
)

const (
	infoboxPrefix  = "infobox "
	categoryPrefix = "category:"
	redirectMarker = "#redirect"
)

var generalRE = regexp.MustCompile(`^(.+?) (?:in|of|by) (.+)$`)

// Coord is a point in decimal degrees.
type Coord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lng"`
}

// An ArticleRecord is everything extracted from one article.
type ArticleRecord struct {
	Title       string   `json:"title"`
	ID          uint64   `json:"numeric_id"`
	Infobox     string   `json:"infobox,omitempty"`
	Text        string   `json:"raw_text"`
	Templates   []string `json:"templates"`
	Categories  []string `json:"categories"`
	Generalized []string `json:"generalized_categories"`
	Coord       *Coord   `json:"coordinate,omitempty"`
	Links       []string `json:"links,omitempty"`
	Files       []string `json:"files,omitempty"`
	Redirect    string   `json:"redirect,omitempty"`
}

// Extract pulls the features out of a parsed article using the default
// field bound.
func Extract(tree Wikicode, title string) (ArticleRecord, error) {
	return ExtractBounded(tree, title, DefaultMaxFieldLen)
}

// ExtractBounded is Extract with an explicit bound on title, infobox and
// category lengths.  Oversized records are rejected, never truncated.
func ExtractBounded(tree Wikicode, title string, maxLen int) (ArticleRecord, error) {
	rv := ArticleRecord{Title: title}
	if err := checkLen("title", title, maxLen); err != nil {
		return rv, err
	}

	rv.Templates = TemplateNames(tree)
	rv.Infobox = infobox(rv.Templates)
	if err := checkLen("infobox", rv.Infobox, maxLen); err != nil {
		return rv, err
	}

	rv.Categories = Categories(tree)
	for _, c := range rv.Categories {
		if err := checkLen("category", c, maxLen); err != nil {
			return rv, err
		}
		if g, ok := Generalize(c); ok {
			rv.Generalized = append(rv.Generalized, g)
		}
	}
	rv.Generalized = makeTags(rv.Generalized)

	if c, err := TreeCoords(tree); err == nil {
		rv.Coord = &c
	}
	rv.Links = Links(tree)
	rv.Files = Files(tree)
	rv.Redirect = redirect(tree)

	// Templates keep document order until here so the infobox is the
	// first one seen.
	sort.Strings(rv.Templates)
	return rv, nil
}

func checkLen(field, v string, maxLen int) error {
	if n := len([]rune(v)); n > maxLen {
		return &FieldError{Field: field, Len: n, Max: maxLen}
	}
	return nil
}

// makeTags lower-cases and trims, drops empties and duplicates, and
// sorts.
func makeTags(in []string) []string {
	rv := uniqueTags(in)
	sort.Strings(rv)
	return rv
}

// uniqueTags is makeTags keeping first-seen order.
func uniqueTags(in []string) []string {
	seen := make(map[string]bool, len(in))
	rv := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		rv = append(rv, s)
	}
	return rv
}

// TemplateNames returns the normalized names of every template in the
// tree, nested ones included, in first-seen order.
func TemplateNames(tree Wikicode) []string {
	var names []string
	for _, t := range tree.Templates() {
		names = append(names, t.Title())
	}
	return uniqueTags(names)
}

func infobox(templates []string) string {
	for _, t := range templates {
		if strings.HasPrefix(t, infoboxPrefix) {
			return strings.TrimSpace(t[len(infoboxPrefix):])
		}
	}
	return ""
}

// InfoboxParams returns the named parameters of the first infobox
// template, keyed by lower-cased name.
func InfoboxParams(tree Wikicode) map[string]Wikicode {
	for _, t := range tree.Templates() {
		if !strings.HasPrefix(strings.ToLower(t.Title()), infoboxPrefix) {
			continue
		}
		rv := map[string]Wikicode{}
		for _, p := range t.Params {
			if p.Named {
				rv[strings.ToLower(p.Name)] = p.Value
			}
		}
		return rv
	}
	return nil
}

// Categories returns the normalized category memberships of the tree.
func Categories(tree Wikicode) []string {
	var cats []string
	for _, l := range tree.Links() {
		if name, ok := trimNamespace(l.Target(), categoryPrefix); ok {
			cats = append(cats, name)
		}
	}
	return makeTags(cats)
}

// Generalize applies the head-noun heuristic: "cities in france" gives
// "cities".  Categories without an in/of/by qualifier have none.
func Generalize(category string) (string, bool) {
	m := generalRE.FindStringSubmatch(category)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func trimNamespace(target, prefix string) (string, bool) {
	if len(target) < len(prefix) || !strings.EqualFold(target[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(target[len(prefix):]), true
}

func redirect(tree Wikicode) string {
	if len(tree) < 2 {
		return ""
	}
	t, ok := tree[0].(*Text)
	if !ok || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(t.Value)), redirectMarker) {
		return ""
	}
	if l, ok := tree[1].(*Link); ok {
		return l.Target()
	}
	return ""
}
