package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	xhtml "golang.org/x/net/html"
)

// Sanitizer reduces a header sentence to plain text before phrase
// extraction. Only inline markdown is recognised: emphasis, links and code
// spans keep their text, inline HTML tags are dropped and entities decoded.
// Block markers such as "#", "- " or "2019." are ordinary text, so plain
// sentences come out unchanged apart from whitespace collapsing.
type Sanitizer struct {
	parser parser.Parser
}

// NewSanitizer builds a sanitizer whose only block construct is the
// paragraph, with strikethrough and linkify enabled inline.
func NewSanitizer() *Sanitizer {
	inline := append(parser.DefaultInlineParsers(),
		util.Prioritized(extension.NewStrikethroughParser(), 500),
		util.Prioritized(extension.NewLinkifyParser(), 999),
	)
	return &Sanitizer{
		parser: parser.NewParser(
			parser.WithBlockParsers(util.Prioritized(parser.NewParagraphParser(), 1000)),
			parser.WithInlineParsers(inline...),
		),
	}
}

// Clean returns the plain text of s. A nil sanitizer only collapses whitespace.
func (s *Sanitizer) Clean(sentence string) string {
	if s == nil {
		return collapseSpace(sentence)
	}

	src := []byte(sentence)
	doc := s.parser.Parse(text.NewReader(src))

	w := &plainWriter{src: src, closed: closedTags(sentence)}
	w.walk(doc)
	return collapseSpace(w.buf.String())
}

type plainWriter struct {
	buf    strings.Builder
	src    []byte
	closed map[string]bool // tag names that have a closing tag in the sentence
}

func (w *plainWriter) walk(n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		v := n.Segment.Value(w.src)
		if n.IsRaw() {
			w.buf.Write(v)
		} else {
			w.buf.WriteString(xhtml.UnescapeString(string(util.UnescapePunctuations(v))))
		}
		if n.SoftLineBreak() || n.HardLineBreak() {
			w.buf.WriteByte(' ')
		}
		return
	case *ast.String:
		w.buf.Write(n.Value)
		return
	case *ast.AutoLink:
		w.buf.Write(n.Label(w.src))
		return
	case *ast.RawHTML:
		var raw strings.Builder
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			raw.Write(seg.Value(w.src))
		}
		if !isMarkup(raw.String(), w.closed) {
			w.buf.WriteString(raw.String())
		}
		return
	case *ast.Emphasis:
		if marker, ok := w.intraword(n); ok {
			delim := strings.Repeat(marker, n.Level)
			w.buf.WriteString(delim)
			w.children(n)
			w.buf.WriteString(delim)
			return
		}
	case *ast.Paragraph:
		if n.PreviousSibling() != nil {
			w.buf.WriteByte(' ')
		}
	}
	w.children(n)
}

func (w *plainWriter) children(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.walk(c)
	}
}

// intraword reports whether an emphasis span sits inside a word, as in
// "x*y*z", where the asterisks are part of the text.
func (w *plainWriter) intraword(n *ast.Emphasis) (string, bool) {
	first, ok1 := n.FirstChild().(*ast.Text)
	last, ok2 := n.LastChild().(*ast.Text)
	if !ok1 || !ok2 {
		return "", false
	}
	open := first.Segment.Start - n.Level
	end := last.Segment.Stop + n.Level
	if open < 1 || end >= len(w.src) {
		return "", false
	}
	before, _ := utf8.DecodeLastRune(w.src[:open])
	after, _ := utf8.DecodeRune(w.src[end:])
	if !isWordRune(before) || !isWordRune(after) {
		return "", false
	}
	return string(w.src[open]), true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// voidTags are empty elements that are markup even without a closing tag.
var voidTags = map[string]bool{"br": true, "hr": true, "wbr": true, "img": true}

// isMarkup decides whether an inline tag is real HTML. Closing tags, comments,
// self-closing tags, tags with attributes, void elements and tags closed later
// in the sentence are markup. A bare "<word>" is text.
func isMarkup(raw string, closed map[string]bool) bool {
	z := xhtml.NewTokenizer(strings.NewReader(raw))
	tt := z.Next()
	tok := z.Token()
	switch tt {
	case xhtml.StartTagToken:
		return len(tok.Attr) > 0 || voidTags[tok.Data] || closed[tok.Data]
	case xhtml.ErrorToken, xhtml.TextToken:
		return false
	}
	return true
}

func closedTags(s string) map[string]bool {
	closed := make(map[string]bool)
	z := xhtml.NewTokenizer(strings.NewReader(s))
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			return closed
		}
		if tt == xhtml.EndTagToken {
			name, _ := z.TagName()
			closed[string(name)] = true
		}
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
