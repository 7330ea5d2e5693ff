// Package frontmatter splits markdown documents into a YAML metadata header
// and a body, and renders them back after the header has been edited.
//
// The header is kept as a yaml.Node so that key order, scalar styles and
// comments survive a rewrite; only the keys a caller explicitly sets change.
package frontmatter

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/nptag/pkg/nptag/internalerr"
)

// Delimiter opens and closes the metadata header.
const Delimiter = "---"

// Header is an ordered YAML mapping.
type Header struct {
	doc  *yaml.Node // DocumentNode wrapping root, carries head/foot comments
	root *yaml.Node // MappingNode
}

// NewHeader returns an empty header.
func NewHeader() *Header {
	root := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	return &Header{
		doc:  &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}},
		root: root,
	}
}

// Split parses raw document text into its header and body.
//
// The first line must be the delimiter. The header ends at the next line that
// starts with the delimiter. The body is everything after that line, trimmed.
func Split(raw []byte) (*Header, string, error) {
	text := strings.TrimPrefix(string(raw), "\ufeff")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRightFunc(line, unicode.IsSpace)
	}

	if lines[0] != Delimiter {
		return nil, "", fmt.Errorf("%w: first line is not %q", internalerr.ErrMalformedDocument, Delimiter)
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.HasPrefix(lines[i], Delimiter) {
			end = i
			break
		}
	}
	if end < 0 {
		return nil, "", fmt.Errorf("%w: no header terminator found", internalerr.ErrMalformedDocument)
	}

	h, err := Parse([]byte(strings.Join(lines[1:end], "\n")))
	if err != nil {
		return nil, "", err
	}

	body := strings.TrimSpace(strings.Join(lines[end+1:], "\n"))
	return h, body, nil
}

// Parse decodes header text (without delimiters). An empty or null document
// yields an empty header; anything other than a mapping is malformed.
func Parse(src []byte) (*Header, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(src, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrMalformedDocument, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		h := NewHeader()
		h.doc.HeadComment = doc.HeadComment
		return h, nil
	}

	root := doc.Content[0]
	switch {
	case root.Kind == yaml.MappingNode:
	case root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null":
		root = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		doc.Content[0] = root
	default:
		return nil, fmt.Errorf("%w: header is not a mapping", internalerr.ErrMalformedDocument)
	}

	return &Header{doc: &doc, root: root}, nil
}

// Len returns the number of keys.
func (h *Header) Len() int {
	return len(h.root.Content) / 2
}

// keys returns the keys in document order.
func (h *Header) keys() []string {
	keys := make([]string, 0, h.Len())
	for i := 0; i+1 < len(h.root.Content); i += 2 {
		keys = append(keys, h.root.Content[i].Value)
	}
	return keys
}

// Lookup returns the value node stored under key.
func (h *Header) Lookup(key string) (*yaml.Node, bool) {
	if i := h.index(key); i >= 0 {
		return h.root.Content[i+1], true
	}
	return nil, false
}

// Sentences returns the string values of the given keys, in the order the
// keys appear in the header. Aliases are followed to their anchored value;
// non-string values are skipped.
func (h *Header) Sentences(keys []string) []string {
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[k] = struct{}{}
	}

	var out []string
	for i := 0; i+1 < len(h.root.Content); i += 2 {
		k, v := h.root.Content[i], h.root.Content[i+1]
		if _, ok := want[k.Value]; !ok {
			continue
		}
		if v = resolveAlias(v); isString(v) {
			out = append(out, v.Value)
		}
	}
	return out
}

// Tags returns the string items of the sequence stored under key.
func (h *Header) Tags(key string) []string {
	v, ok := h.Lookup(key)
	if !ok || v.Kind != yaml.SequenceNode {
		return nil
	}
	var out []string
	for _, item := range v.Content {
		if item.Kind == yaml.ScalarNode {
			out = append(out, item.Value)
		}
	}
	return out
}

// SetTags stores tags as a block sequence under key, replacing any previous
// value in place or appending the key at the end. An empty list leaves the
// header untouched and reports false.
func (h *Header) SetTags(key string, tags []string) bool {
	if len(tags) == 0 {
		return false
	}

	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, tag := range tags {
		seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: tag})
	}

	if i := h.index(key); i >= 0 {
		old := h.root.Content[i+1]
		seq.LineComment = old.LineComment
		seq.FootComment = old.FootComment
		h.root.Content[i+1] = seq
		return true
	}

	h.root.Content = append(h.root.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		seq,
	)
	return true
}

// Encode serializes the header in block style with two-space indentation.
// Wrapped scalar lines are joined back onto their parent line.
func (h *Header) Encode() ([]byte, error) {
	if len(h.root.Content) == 0 {
		return nil, nil
	}

	blockStyle(h.root)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(h.doc); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode header: %w", err)
	}

	return []byte(FlattenContinuations(buf.String())), nil
}

// Render assembles a full document: delimiter, header, delimiter, body.
func Render(h *Header, body string) ([]byte, error) {
	head, err := h.Encode()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(Delimiter + "\n")
	buf.Write(head)
	if len(head) > 0 && head[len(head)-1] != '\n' {
		buf.WriteByte('\n')
	}
	buf.WriteString(Delimiter + "\n")
	if body != "" {
		buf.WriteString(body)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func (h *Header) index(key string) int {
	for i := 0; i+1 < len(h.root.Content); i += 2 {
		if h.root.Content[i].Value == key {
			return i
		}
	}
	return -1
}

// resolveAlias returns the node an alias points at.
func resolveAlias(n *yaml.Node) *yaml.Node {
	for n != nil && n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	return n
}

func isString(n *yaml.Node) bool {
	return n != nil && n.Kind == yaml.ScalarNode && n.ShortTag() == "!!str"
}

// blockStyle clears flow style from every collection so the header is always
// written in block form.
func blockStyle(n *yaml.Node) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		n.Style &^= yaml.FlowStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}
