package html

import "strings"

// Parser builds the document tree from tokens, inserting the html, head and
// body elements the markup leaves out. It keeps a stack of unfinished
// elements; an element is attached to its parent when it is closed.
type Parser struct {
	tokenizer  *Tokenizer
	unfinished []*Element
	inserted   bool
}

// Tags that never have children.
var selfClosingTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// Tags that belong in <head> when no head/body was given explicitly.
var headTags = map[string]bool{
	"base": true, "basefont": true, "bgsound": true, "noscript": true,
	"link": true, "meta": true, "title": true, "style": true, "script": true,
}

// Tags whose content is raw text up to the literal closing tag.
var rawTextTags = map[string]bool{
	"script": true,
	"style":  true,
}

// Tags that cannot nest in themselves. Opening one closes the open instance,
// unless one of the boundary tags sits between them on the stack.
var autoCloseBoundaries = map[string]map[string]bool{
	"p": {
		"li": true, "ul": true, "ol": true, "div": true, "blockquote": true,
		"td": true, "th": true,
	},
	"li": {
		"ul": true, "ol": true,
	},
}

// maxImplicitTags bounds implicitTags: html, then head or body, then
// closing head.
const maxImplicitTags = 3

func isSelfClosing(tag string) bool {
	return selfClosingTags[tag]
}

func isRawTextElement(tag string) bool {
	return rawTextTags[tag]
}

func NewParser(html string) *Parser {
	return &Parser{
		tokenizer:  NewTokenizer(html),
		unfinished: make([]*Element, 0),
	}
}

// Parse returns the root html element. Malformed markup never fails; the
// worst case is a flatter tree than a full HTML5 parser would build.
func (p *Parser) Parse() *Element {
	for {
		token := p.tokenizer.NextToken()
		switch token.Type {
		case TokenEOF:
			return p.finish()
		case TokenText:
			p.addText(token.Text)
		case TokenStartTag:
			p.addStartTag(token.TagName, token.Attributes)
			if isRawTextElement(token.TagName) {
				if raw := p.tokenizer.ReadRawUntil(token.TagName); raw != "" {
					p.top().AppendText(raw)
				}
				p.addEndTag(token.TagName)
			}
		case TokenEndTag:
			p.addEndTag(token.TagName)
		}
	}
}

func (p *Parser) top() *Element {
	return p.unfinished[len(p.unfinished)-1]
}

func (p *Parser) addText(text string) {
	if IsWhitespace(text) {
		return
	}
	p.implicitTags("")
	p.inserted = true
	p.top().AppendText(text)
}

func (p *Parser) addStartTag(tag string, attributes map[string]string) {
	p.implicitTags(tag)
	p.inserted = true
	p.autoClose(tag)

	var parent *Element
	if len(p.unfinished) > 0 {
		parent = p.top()
	}
	if isSelfClosing(tag) {
		parent.AddChild(NewElement(tag, attributes, parent))
		return
	}
	p.unfinished = append(p.unfinished, NewElement(tag, attributes, parent))
}

// addEndTag closes the innermost open element with the tag, along with
// everything opened inside it. An end tag matching nothing open below the
// root is ignored.
func (p *Parser) addEndTag(tag string) {
	p.implicitTags("/" + tag)
	for i := len(p.unfinished) - 1; i >= 1; i-- {
		if p.unfinished[i].Tag != tag {
			continue
		}
		for len(p.unfinished) > i {
			p.closeTop()
		}
		return
	}
}

func (p *Parser) closeTop() {
	node := p.unfinished[len(p.unfinished)-1]
	p.unfinished = p.unfinished[:len(p.unfinished)-1]
	p.top().AddChild(node)
}

func (p *Parser) autoClose(tag string) {
	boundaries, ok := autoCloseBoundaries[tag]
	if !ok {
		return
	}
	for i := len(p.unfinished) - 1; i >= 1; i-- {
		open := p.unfinished[i].Tag
		if open == tag {
			for len(p.unfinished) > i {
				p.closeTop()
			}
			return
		}
		if boundaries[open] {
			return
		}
	}
}

// implicitTags is the transition function run before every insertion. tag
// is the incoming tag name, "/name" for end tags and "" for text.
func (p *Parser) implicitTags(tag string) {
	for range maxImplicitTags {
		switch p.state() {
		case stateEmpty:
			if tag == "html" {
				return
			}
			p.unfinished = append(p.unfinished, NewElement("html", nil, nil))
		case stateInHTML:
			if tag == "head" || tag == "body" || strings.HasPrefix(tag, "/") {
				return
			}
			implied := "body"
			if headTags[tag] {
				implied = "head"
			}
			p.unfinished = append(p.unfinished, NewElement(implied, nil, p.top()))
		case stateInHead:
			if tag == "/head" || headTags[tag] {
				return
			}
			p.closeTop()
		default:
			return
		}
	}
}

type parserState int

const (
	stateEmpty parserState = iota
	stateInHTML
	stateInHead
	stateOther
)

func (p *Parser) state() parserState {
	switch {
	case len(p.unfinished) == 0:
		return stateEmpty
	case len(p.unfinished) == 1 && p.unfinished[0].Tag == "html":
		return stateInHTML
	case len(p.unfinished) == 2 && p.unfinished[0].Tag == "html" && p.unfinished[1].Tag == "head":
		return stateInHead
	}
	return stateOther
}

func (p *Parser) finish() *Element {
	if !p.inserted {
		p.addStartTag("head", nil)
		p.addEndTag("head")
		p.implicitTags("")
	}
	if st := p.state(); (st == stateInHTML || st == stateInHead) && !hasChild(p.unfinished[0], "body") {
		p.implicitTags("")
	}
	for len(p.unfinished) > 1 {
		p.closeTop()
	}
	return p.unfinished[0]
}

func hasChild(e *Element, tag string) bool {
	for _, c := range e.Children {
		if ce, ok := c.(*Element); ok && ce.Tag == tag {
			return true
		}
	}
	return false
}

func Parse(html string) *Element {
	return NewParser(html).Parse()
}

// ParseSource builds the tree shown for view-source: pages, the markup as
// one preformatted text run.
func ParseSource(body string) *Element {
	root := NewElement("html", nil, nil)
	root.AddChild(NewElement("head", nil, root))
	bodyElement := NewElement("body", nil, root)
	root.AddChild(bodyElement)
	pre := NewElement("pre", nil, bodyElement)
	bodyElement.AddChild(pre)
	pre.AppendText(body)
	return root
}
