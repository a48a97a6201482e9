package wikiextract

import (
	"regexp"
	"strings"
)

type stopSet uint8

const (
	stopPipe stopSet = 1 << iota
	stopBraces
	stopBrackets
)

// Tags whose content is not wikitext.
var verbatimOpenRE = regexp.MustCompile(`^(?i)<(nowiki|pre|math|syntaxhighlight|source)(\s[^<>]*)?>`)

var verbatimCloseRE = map[string]*regexp.Regexp{}

func init() {
	for _, name := range []string{"nowiki", "pre", "math", "syntaxhighlight", "source"} {
		verbatimCloseRE[name] = regexp.MustCompile(`(?i)</` + name + `\s*>`)
	}
}

type parser struct {
	src string
	pos int
}

// Parse builds the node tree of one article's wikitext.  Unterminated
// templates and links return a *SyntaxError.
func Parse(text string) (Wikicode, error) {
	p := &parser{src: text}
	nodes, _, err := p.parse(0)
	return nodes, err
}

// parse reads nodes until one of stops is seen at this level.  It
// returns the stop consumed, or "" at end of input.
func (p *parser) parse(stops stopSet) (Wikicode, string, error) {
	var nodes Wikicode
	textStart := p.pos
	flush := func() {
		if p.pos > textStart {
			nodes = append(nodes, &Text{Value: p.src[textStart:p.pos]})
		}
	}

	for p.pos < len(p.src) {
		i := strings.IndexAny(p.src[p.pos:], "{[<|}]")
		if i < 0 {
			p.pos = len(p.src)
			break
		}
		p.pos += i
		rest := p.src[p.pos:]

		var stop string
		switch {
		case stops&stopPipe != 0 && rest[0] == '|':
			stop = "|"
		case stops&stopBraces != 0 && strings.HasPrefix(rest, "}}"):
			stop = "}}"
		case stops&stopBrackets != 0 && strings.HasPrefix(rest, "]]"):
			stop = "]]"
		}
		if stop != "" {
			flush()
			p.pos += len(stop)
			return nodes, stop, nil
		}

		var n Node
		var err error
		switch {
		case strings.HasPrefix(rest, "{{{") && !strings.HasPrefix(rest, "{{{{"):
			// Template arguments only mean something on template
			// pages; keep them as text.
			flush()
			start := p.pos
			if err = p.skipArgument(); err == nil {
				n = &Text{Value: p.src[start:p.pos]}
			}
		case strings.HasPrefix(rest, "{{"):
			// Four or more braces open a template whose name starts
			// with another template.
			flush()
			n, err = p.template()
		case strings.HasPrefix(rest, "[["):
			flush()
			n, err = p.link()
		case strings.HasPrefix(rest, "<!--"):
			flush()
			n = p.comment()
		case rest[0] == '<':
			p.skipVerbatim()
			continue
		default:
			p.pos++
			continue
		}
		if err != nil {
			return nil, "", err
		}
		nodes = append(nodes, n)
		textStart = p.pos
	}
	flush()
	return nodes, "", nil
}

func (p *parser) template() (*Template, error) {
	start := p.pos
	p.pos += 2
	name, stop, err := p.parse(stopPipe | stopBraces)
	if err != nil {
		return nil, err
	}
	t := &Template{Name: name}
	for stop == "|" {
		var value Wikicode
		value, stop, err = p.parse(stopPipe | stopBraces)
		if err != nil {
			return nil, err
		}
		t.Params = append(t.Params, makeParam(value))
	}
	if stop == "" {
		return nil, &SyntaxError{Offset: start, Construct: "template"}
	}
	return t, nil
}

// makeParam splits on the first '=' that is not inside a nested
// construct.
func makeParam(value Wikicode) Param {
	for i, n := range value {
		t, ok := n.(*Text)
		if !ok {
			continue
		}
		eq := strings.IndexByte(t.Value, '=')
		if eq < 0 {
			continue
		}
		name := append(Wikicode{}, value[:i]...)
		if eq > 0 {
			name = append(name, &Text{Value: t.Value[:eq]})
		}
		rest := Wikicode{}
		if eq+1 < len(t.Value) {
			rest = append(rest, &Text{Value: t.Value[eq+1:]})
		}
		rest = append(rest, value[i+1:]...)
		return Param{
			Name:    strings.TrimSpace(name.Flatten()),
			Named:   true,
			Value:   rest,
			rawName: name.String(),
		}
	}
	return Param{Value: value}
}

func (p *parser) link() (*Link, error) {
	start := p.pos
	p.pos += 2
	title, stop, err := p.parse(stopPipe | stopBrackets)
	if err != nil {
		return nil, err
	}
	l := &Link{Title: title}
	if stop == "|" {
		l.HasText = true
		l.Text, stop, err = p.parse(stopBrackets)
		if err != nil {
			return nil, err
		}
	}
	if stop == "" {
		return nil, &SyntaxError{Offset: start, Construct: "link"}
	}
	return l, nil
}

// comment runs to "-->", or to the end of input when unterminated.
func (p *parser) comment() *Comment {
	body := p.src[p.pos+4:]
	end := strings.Index(body, "-->")
	if end < 0 {
		p.pos = len(p.src)
		return &Comment{Value: body, unterminated: true}
	}
	p.pos += 4 + end + 3
	return &Comment{Value: body[:end]}
}

func (p *parser) skipArgument() error {
	start := p.pos
	depth := 0
	for ; p.pos < len(p.src); p.pos++ {
		switch p.src[p.pos] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				p.pos++
				return nil
			}
		}
	}
	return &SyntaxError{Offset: start, Construct: "argument"}
}

// skipVerbatim moves past a <nowiki>-like element, leaving it as text.
// Any other '<' is ordinary text.
func (p *parser) skipVerbatim() {
	rest := p.src[p.pos:]
	m := verbatimOpenRE.FindStringSubmatchIndex(rest)
	if m == nil {
		p.pos++
		return
	}
	open := rest[:m[1]]
	p.pos += m[1]
	if strings.HasSuffix(open, "/>") {
		return
	}
	name := strings.ToLower(rest[m[2]:m[3]])
	loc := verbatimCloseRE[name].FindStringIndex(p.src[p.pos:])
	if loc == nil {
		p.pos = len(p.src)
		return
	}
	p.pos += loc[1]
}
