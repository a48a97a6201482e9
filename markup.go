package wikiextract

import (
	"strings"
)

// A Node is one element of parsed wikitext: *Text, *Comment, *Template
// or *Link.  Nodes own their children; there are no parent pointers.
type Node interface {
	// String renders the node back to wikitext.
	String() string
	flatten(*strings.Builder)
}

// Wikicode is a sequence of nodes.
type Wikicode []Node

// Text is a literal run of wikitext.
type Text struct {
	Value string
}

// Comment is an HTML comment.  It is kept so String round-trips, but is
// ignored by every feature.
type Comment struct {
	Value string

	unterminated bool
}

// A Param is one template parameter.  Name is set (trimmed, comments
// removed) when Named.
type Param struct {
	Name  string
	Named bool
	Value Wikicode

	rawName string
}

// Template is a {{name|param|key=value}} invocation.
type Template struct {
	Name   Wikicode
	Params []Param
}

// Link is an internal [[target|text]] link.
type Link struct {
	Title   Wikicode
	Text    Wikicode
	HasText bool
}

func (t *Text) String() string { return t.Value }
func (c *Comment) String() string {
	if c.unterminated {
		return "<!--" + c.Value
	}
	return "<!--" + c.Value + "-->"
}

func (t *Template) String() string {
	var b strings.Builder
	b.WriteString("{{")
	b.WriteString(t.Name.String())
	for _, p := range t.Params {
		b.WriteByte('|')
		if p.Named {
			b.WriteString(p.rawName)
			b.WriteByte('=')
		}
		b.WriteString(p.Value.String())
	}
	b.WriteString("}}")
	return b.String()
}

func (l *Link) String() string {
	s := "[[" + l.Title.String()
	if l.HasText {
		s += "|" + l.Text.String()
	}
	return s + "]]"
}

// String renders the whole sequence back to wikitext.
func (w Wikicode) String() string {
	var b strings.Builder
	for _, n := range w {
		b.WriteString(n.String())
	}
	return b.String()
}

// Flatten returns the plain-text rendering: text as is, links as their
// display text (or target), templates and comments removed.
func (w Wikicode) Flatten() string {
	var b strings.Builder
	for _, n := range w {
		n.flatten(&b)
	}
	return b.String()
}

func (t *Text) flatten(b *strings.Builder)     { b.WriteString(t.Value) }
func (c *Comment) flatten(b *strings.Builder)  {}
func (t *Template) flatten(b *strings.Builder) {}

func (l *Link) flatten(b *strings.Builder) {
	if l.HasText {
		for _, n := range l.Text {
			n.flatten(b)
		}
		return
	}
	for _, n := range l.Title {
		n.flatten(b)
	}
}

// Title is the template's name with comments removed and whitespace
// trimmed.
func (t *Template) Title() string {
	return strings.TrimSpace(t.Name.Flatten())
}

// Param finds a named parameter, ignoring case and surrounding space.
func (t *Template) Param(name string) (Param, bool) {
	for _, p := range t.Params {
		if p.Named && strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return Param{}, false
}

// Positional returns the positional parameters in order.
func (t *Template) Positional() []Param {
	var rv []Param
	for _, p := range t.Params {
		if !p.Named {
			rv = append(rv, p)
		}
	}
	return rv
}

// Target is the link target as written, trimmed.
func (l *Link) Target() string {
	return strings.TrimSpace(l.Title.Flatten())
}

// Walk visits every node depth first, descending into template names,
// parameter values and link text.  Returning false from fn skips the
// node's children.
func (w Wikicode) Walk(fn func(Node) bool) {
	for _, n := range w {
		if !fn(n) {
			continue
		}
		switch n := n.(type) {
		case *Template:
			n.Name.Walk(fn)
			for _, p := range n.Params {
				p.Value.Walk(fn)
			}
		case *Link:
			n.Title.Walk(fn)
			n.Text.Walk(fn)
		}
	}
}

// Templates returns every template in document order, nested ones
// after their parent.
func (w Wikicode) Templates() []*Template {
	var rv []*Template
	w.Walk(func(n Node) bool {
		if t, ok := n.(*Template); ok {
			rv = append(rv, t)
		}
		return true
	})
	return rv
}

// Links returns every internal link in document order.
func (w Wikicode) Links() []*Link {
	var rv []*Link
	w.Walk(func(n Node) bool {
		if l, ok := n.(*Link); ok {
			rv = append(rv, l)
		}
		return true
	})
	return rv
}
