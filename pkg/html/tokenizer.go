package html

import (
	"strings"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenText
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenStartTag:
		return "start-tag"
	case TokenEndTag:
		return "end-tag"
	case TokenText:
		return "text"
	case TokenEOF:
		return "eof"
	}
	return "unknown"
}

type Token struct {
	Type       TokenType
	TagName    string
	Attributes map[string]string
	Text       string
}

// Tokenizer splits markup into text runs and tags. It never fails: markup
// it cannot make sense of is either dropped or passed through as text.
type Tokenizer struct {
	input string
	pos   int
}

func NewTokenizer(html string) *Tokenizer {
	return &Tokenizer{input: html, pos: 0}
}

var entities = strings.NewReplacer("&lt;", "<", "&gt;", ">")

func (t *Tokenizer) NextToken() Token {
	for t.pos < len(t.input) {
		if !t.atMarkup(t.pos) {
			return t.readText()
		}

		// <!-- comments --> are not nested
		if strings.HasPrefix(t.input[t.pos:], "<!--") {
			end := strings.Index(t.input[t.pos+4:], "-->")
			if end < 0 {
				t.pos = len(t.input)
			} else {
				t.pos += 4 + end + 3
			}
			continue
		}

		// <!DOCTYPE ...> and <?xml ...?>
		if c := t.input[t.pos+1]; c == '!' || c == '?' {
			end := strings.IndexByte(t.input[t.pos:], '>')
			if end < 0 {
				t.pos = len(t.input)
			} else {
				t.pos += end + 1
			}
			continue
		}

		src, ok := t.readTagSource()
		if !ok {
			continue
		}
		if tok, ok := parseTag(src); ok {
			return tok
		}
	}
	return Token{Type: TokenEOF}
}

// atMarkup reports whether the '<' at i opens a tag. A '<' followed by
// anything else is ordinary text.
func (t *Tokenizer) atMarkup(i int) bool {
	if t.input[i] != '<' || i+1 >= len(t.input) {
		return false
	}
	c := t.input[i+1]
	return isASCIILetter(c) || c == '/' || c == '!' || c == '?'
}

func (t *Tokenizer) readText() Token {
	start := t.pos
	t.pos++
	for t.pos < len(t.input) && !t.atMarkup(t.pos) {
		t.pos++
	}
	return Token{Type: TokenText, Text: entities.Replace(t.input[start:t.pos])}
}

// readTagSource returns the text between '<' and the '>' that closes the
// tag. A '>' inside a quoted attribute value does not close the tag. A quote
// only opens a value when it directly follows '='.
func (t *Tokenizer) readTagSource() (string, bool) {
	t.pos++ // '<'
	start := t.pos

	var quote byte
	var prev byte
	for i := start; i < len(t.input); i++ {
		c := t.input[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
				prev = c
			}
		case c == '>':
			t.pos = i + 1
			return t.input[start:i], true
		case (c == '"' || c == '\'') && prev == '=':
			quote = c
		case !isSpace(c):
			prev = c
		}
	}

	// An unterminated quote: fall back to the first '>' after the tag start.
	if end := strings.IndexByte(t.input[start:], '>'); end >= 0 && quote != 0 {
		t.pos = start + end + 1
		return t.input[start : start+end], true
	}

	// Unterminated tag at end of input is dropped.
	t.pos = len(t.input)
	return "", false
}

// parseTag splits tag source ("div class=x", "/p") into a token.
func parseTag(src string) (Token, bool) {
	isEnd := false
	if strings.HasPrefix(src, "/") {
		isEnd = true
		src = src[1:]
	}
	i := 0
	for i < len(src) && !isSpace(src[i]) && src[i] != '/' {
		i++
	}
	name := strings.ToLower(src[:i])
	if name == "" {
		return Token{}, false
	}
	if isEnd {
		return Token{Type: TokenEndTag, TagName: name}, true
	}
	return Token{Type: TokenStartTag, TagName: name, Attributes: parseAttributes(src[i:])}, true
}

// parseAttributes reads key="value", key='value', key=value and bare key
// (empty value). A quoted value ends at the first occurrence of its opening
// quote; when there is none it runs to the end of the tag. The first
// occurrence of a repeated attribute wins.
func parseAttributes(s string) map[string]string {
	attributes := make(map[string]string)
	i := 0
	for i < len(s) {
		for i < len(s) && (isSpace(s[i]) || s[i] == '/') {
			i++
		}
		if i >= len(s) {
			break
		}

		start := i
		for i < len(s) && !isSpace(s[i]) && s[i] != '=' && s[i] != '/' {
			i++
		}
		name := strings.ToLower(s[start:i])
		for i < len(s) && isSpace(s[i]) {
			i++
		}

		value := ""
		if i < len(s) && s[i] == '=' {
			i++
			for i < len(s) && isSpace(s[i]) {
				i++
			}
			if i < len(s) && (s[i] == '"' || s[i] == '\'') {
				quote := s[i]
				i++
				vstart := i
				for i < len(s) && s[i] != quote {
					i++
				}
				value = s[vstart:i]
				if i < len(s) {
					i++
				}
			} else {
				vstart := i
				for i < len(s) && !isSpace(s[i]) {
					i++
				}
				value = s[vstart:i]
			}
		}

		if name == "" {
			continue
		}
		if _, seen := attributes[name]; !seen {
			attributes[name] = value
		}
	}
	return attributes
}

// ReadRawUntil reads raw content until the closing end tag is found (e.g., </script>).
// This is used for raw text elements like <script> and <style> where '<' does not
// start a new tag.
func (t *Tokenizer) ReadRawUntil(endTag string) string {
	needle := "</" + endTag + ">"
	start := t.pos
	for t.pos+len(needle) <= len(t.input) {
		// Case-insensitive match for the end tag
		if strings.EqualFold(t.input[t.pos:t.pos+len(needle)], needle) {
			content := t.input[start:t.pos]
			t.pos += len(needle) // skip past </endTag>
			return content
		}
		t.pos++
	}
	// No closing tag found: consume everything remaining
	content := t.input[start:]
	t.pos = len(t.input)
	return content
}

// isSpace is ASCII whitespace only; U+00A0 and other Unicode spaces are text.
func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// IsWhitespace reports whether s holds only ASCII whitespace.
func IsWhitespace(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			return false
		}
	}
	return true
}
