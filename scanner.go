package wikiextract

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// A RawArticle is one <page> as seen by the Scanner.
type RawArticle struct {
	Title string
	ID    uint64
	Text  string
}

// A Handler receives every completed article.  Returning an error
// wrapping ErrRecordTooLarge, ErrMalformedMarkup or ErrDuplicateKey skips
// the article; ErrStop ends the scan; anything else is returned from
// Feed.
type Handler func(RawArticle) error

type scanState int

const (
	stateIdle scanState = iota
	stateInTitle
	stateInID
	stateInText
)

var stateNames = [...]string{"Idle", "InTitle", "InId", "InText"}

func (s scanState) String() string { return stateNames[s] }

type transition struct {
	from    scanState
	start   bool
	element string
	parent  string
}

// Field transitions.  The parent guard keeps revision and contributor
// ids out of the page id.
var transitions = map[transition]scanState{
	{stateIdle, true, "title", "page"}:       stateInTitle,
	{stateInTitle, false, "title", "page"}:   stateIdle,
	{stateIdle, true, "id", "page"}:          stateInID,
	{stateInID, false, "id", "page"}:         stateIdle,
	{stateIdle, true, "text", "revision"}:    stateInText,
	{stateInText, false, "text", "revision"}: stateIdle,
}

type lexState int

const (
	lexText lexState = iota
	lexTag
	lexComment
	lexCDATA
)

// Scanner is a push parser for MediaWiki XML dumps.  Feed it chunks with
// arbitrary boundaries; it calls its Handler once per <page>.  Memory
// is bounded by one article.
type Scanner struct {
	handler    Handler
	maxRecords int

	lex   lexState
	tag   []byte
	tail  []byte
	stack []string

	state scanState
	buf   []byte
	cur   RawArticle
	idErr error

	stats   Stats
	stopped bool
	report  *Reporter
}

// NewScanner creates a scanner that stops after maxRecords accepted
// articles (0 for no limit).
func NewScanner(h Handler, maxRecords int) *Scanner {
	return &Scanner{handler: h, maxRecords: maxRecords}
}

// SetReporter enables progress logging.
func (s *Scanner) SetReporter(r *Reporter) { s.report = r }

// Stats returns counts so far.
func (s *Scanner) Stats() Stats { return s.stats }

// State is the current field state.
func (s *Scanner) State() string { return s.state.String() }

// Stopped reports whether the record cap has been reached.
func (s *Scanner) Stopped() bool { return s.stopped }

// Feed pushes the next chunk of the document.  It returns ErrStop once
// the record cap is reached; any further input is ignored.
func (s *Scanner) Feed(chunk []byte) error {
	if s.stopped {
		return ErrStop
	}
	for len(chunk) > 0 {
		var err error
		switch s.lex {
		case lexText:
			i := bytes.IndexByte(chunk, '<')
			if i < 0 {
				s.chars(chunk)
				return nil
			}
			s.chars(chunk[:i])
			s.lex = lexTag
			s.tag = s.tag[:0]
			chunk = chunk[i+1:]
		case lexTag:
			chunk, err = s.lexTag(chunk)
		case lexComment:
			chunk = s.skipUntil(chunk, "-->", nil)
		case lexCDATA:
			chunk = s.skipUntil(chunk, "]]>", s.cdata)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Close signals the end of input.  A half-read page is dropped.
func (s *Scanner) Close() error {
	if len(s.stack) > 0 && !s.stopped {
		log.Printf("Input ended inside <%s>, dropping %q",
			s.stack[len(s.stack)-1], s.cur.Title)
	}
	s.reset()
	s.stack = s.stack[:0]
	s.report.Done(s.stats)
	return nil
}

func (s *Scanner) chars(b []byte) {
	if s.state != stateIdle {
		s.buf = append(s.buf, b...)
	}
}

// cdata content is re-escaped so the unescape on flush is uniform.
func (s *Scanner) cdata(b []byte) {
	if s.state != stateIdle {
		s.buf = append(s.buf, html.EscapeString(string(b))...)
	}
}

func (s *Scanner) lexTag(chunk []byte) ([]byte, error) {
	var quote byte
	if n := len(s.tag); n > 0 {
		quote = tagQuote(s.tag)
	}
	for i, c := range chunk {
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '>':
			s.lex = lexText
			return chunk[i+1:], s.element(s.tag)
		}
		s.tag = append(s.tag, c)
		if c == '-' && string(s.tag) == "!--" {
			s.lex = lexComment
			s.tail = s.tail[:0]
			return chunk[i+1:], nil
		}
		if c == '[' && string(s.tag) == "![CDATA[" {
			s.lex = lexCDATA
			s.tail = s.tail[:0]
			return chunk[i+1:], nil
		}
	}
	return nil, nil
}

// tagQuote recovers an open quote when a tag spans chunks.
func tagQuote(tag []byte) byte {
	var q byte
	for _, c := range tag {
		switch {
		case q != 0:
			if c == q {
				q = 0
			}
		case c == '"' || c == '\'':
			q = c
		}
	}
	return q
}

// skipUntil consumes bytes up to and including the terminator, which
// may be split across chunks.  Content bytes go to emit when non-nil.
func (s *Scanner) skipUntil(chunk []byte, term string, emit func([]byte)) []byte {
	for i, c := range chunk {
		s.tail = append(s.tail, c)
		if len(s.tail) > len(term) {
			if emit != nil {
				emit(s.tail[:1])
			}
			s.tail = s.tail[1:]
		}
		if string(s.tail) == term {
			s.tail = s.tail[:0]
			s.lex = lexText
			return chunk[i+1:]
		}
	}
	return nil
}

func (s *Scanner) element(tag []byte) error {
	if len(tag) == 0 || tag[0] == '?' || tag[0] == '!' {
		return nil
	}
	if tag[0] == '/' {
		return s.end(tagName(tag[1:]))
	}
	selfClosing := tag[len(tag)-1] == '/'
	name := tagName(tag)
	s.start(name)
	if selfClosing {
		return s.end(name)
	}
	return nil
}

func tagName(tag []byte) string {
	end := bytes.IndexAny(tag, " \t\r\n/")
	if end >= 0 {
		tag = tag[:end]
	}
	if i := bytes.IndexByte(tag, ':'); i >= 0 {
		tag = tag[i+1:]
	}
	return string(tag)
}

func (s *Scanner) parent() string {
	if len(s.stack) == 0 {
		return ""
	}
	return s.stack[len(s.stack)-1]
}

func (s *Scanner) start(name string) {
	if name == "page" {
		s.reset()
	}
	if next, ok := transitions[transition{s.state, true, name, s.parent()}]; ok {
		s.state = next
		s.buf = s.buf[:0]
	}
	s.stack = append(s.stack, name)
}

func (s *Scanner) end(name string) error {
	if len(s.stack) > 0 && s.stack[len(s.stack)-1] == name {
		s.stack = s.stack[:len(s.stack)-1]
	}
	prev := s.state
	if next, ok := transitions[transition{s.state, false, name, s.parent()}]; ok {
		s.state = next
		s.flush(prev)
	}
	if name == "page" {
		defer s.reset()
		return s.complete()
	}
	return nil
}

func (s *Scanner) flush(field scanState) {
	v := html.UnescapeString(string(s.buf))
	s.buf = s.buf[:0]
	switch field {
	case stateInTitle:
		s.cur.Title = v
	case stateInText:
		s.cur.Text = v
	case stateInID:
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			s.idErr = fmt.Errorf("bad page id %q: %w", v, ErrMalformedMarkup)
			return
		}
		s.cur.ID = id
	}
}

func (s *Scanner) complete() error {
	s.stats.Processed++
	s.report.Tick(s.stats.Processed)

	err := s.idErr
	if err == nil {
		err = s.handler(s.cur)
	}
	switch {
	case err == nil:
		s.stats.Accepted++
	case errors.Is(err, ErrStop):
		s.stopped = true
		return ErrStop
	case errors.Is(err, ErrDuplicateKey):
		s.stats.Duplicates++
	case skippable(err):
		s.stats.Skipped++
		log.Printf("Skipping %q: %v", s.cur.Title, err)
	default:
		return fmt.Errorf("handling %q: %w", s.cur.Title, err)
	}
	if s.maxRecords > 0 && s.stats.Accepted >= int64(s.maxRecords) {
		s.stopped = true
		return ErrStop
	}
	return nil
}

// reset clears every per-article buffer, successful or not.
func (s *Scanner) reset() {
	s.state = stateIdle
	s.buf = s.buf[:0]
	s.cur = RawArticle{}
	s.idErr = nil
}
