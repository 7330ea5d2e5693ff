package frontmatter

import "strings"

// FlattenContinuations joins wrapped scalar lines onto the line that opened
// the scalar, separated by a single space, so every flow scalar in the header
// occupies one line. Block scalars (| and >), nested collections and comments
// are left alone.
//
// The input is block-style YAML as produced by Header.Encode.
func FlattenContinuations(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	var (
		open     bool // last emitted line holds a flow scalar that may wrap
		openCol  int  // column of the key or dash that owns the open scalar
		bareItem bool // open scalar is a sequence item without a key
		blockCol = -1 // indent of the line that opened a block scalar
	)

	for _, line := range lines {
		content := strings.TrimLeft(line, " ")
		indent := len(line) - len(content)

		if blockCol >= 0 {
			if content == "" || indent > blockCol {
				out = append(out, line)
				continue
			}
			blockCol = -1
		}

		if open && content != "" && !strings.HasPrefix(content, "#") &&
			continues(content, indent, openCol, bareItem) {
			out[len(out)-1] += " " + strings.TrimRight(content, " ")
			continue
		}

		out = append(out, line)
		open = false

		col, value, item := scalarStart(content, indent)
		value = stripProperties(value)
		switch {
		case value == "":
		case value[0] == '|' || value[0] == '>':
			blockCol = indent
		case value[0] == '[' || value[0] == '{' || value[0] == '*' || value[0] == '#':
		default:
			open, openCol, bareItem = true, col, item
		}
	}

	return strings.Join(out, "\n")
}

func continues(content string, indent, col int, item bool) bool {
	if indent > col {
		return true
	}
	// A wrapped sequence item may continue at the dash column.
	return item && indent == col && !strings.HasPrefix(content, "-") && !looksLikeKey(content)
}

// scalarStart locates the scalar that a line opens. It returns the column of
// the owning key (or of the dash for a bare sequence item), the text after the
// indicator, and whether the scalar is a bare item.
func scalarStart(content string, indent int) (int, string, bool) {
	col := indent
	dashes := 0
	for strings.HasPrefix(content, "- ") {
		content = content[2:]
		col += 2
		dashes++
	}
	if content == "-" {
		return col, "", false
	}

	if _, rest, ok := splitKey(content); ok {
		return col, strings.TrimSpace(rest), false
	}
	if dashes > 0 {
		return col - 2, content, true
	}
	return col, "", false
}

// splitKey splits "key: value" (plain or quoted key). ok is false when the
// content is not a mapping entry.
func splitKey(content string) (key, rest string, ok bool) {
	if content == "" {
		return "", "", false
	}

	end := 0
	switch content[0] {
	case '"':
		end = closingQuote(content, '"')
	case '\'':
		end = closingQuote(content, '\'')
	case '?', '#':
		return "", "", false
	default:
		if i := strings.Index(content, ": "); i >= 0 {
			return content[:i], content[i+2:], true
		}
		if strings.HasSuffix(content, ":") {
			return content[:len(content)-1], "", true
		}
		return "", "", false
	}
	if end < 0 || end+1 >= len(content) || content[end+1] != ':' {
		return "", "", false
	}
	tail := content[end+2:]
	if tail != "" && tail[0] != ' ' {
		return "", "", false
	}
	return content[:end+1], tail, true
}

func closingQuote(s string, q byte) int {
	for i := 1; i < len(s); i++ {
		switch {
		case q == '"' && s[i] == '\\':
			i++
		case s[i] == q:
			if q == '\'' && i+1 < len(s) && s[i+1] == '\'' {
				i++
				continue
			}
			return i
		}
	}
	return -1
}

func looksLikeKey(content string) bool {
	_, _, ok := splitKey(content)
	return ok
}

// stripProperties drops leading anchors and tags ("&a", "!!str").
func stripProperties(value string) string {
	for value != "" && (value[0] == '&' || value[0] == '!') {
		i := strings.IndexByte(value, ' ')
		if i < 0 {
			return ""
		}
		value = strings.TrimLeft(value[i:], " ")
	}
	return value
}
