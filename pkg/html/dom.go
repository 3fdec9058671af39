package html

import (
	"sort"
	"strings"
)

// Node is either an *Element or a *Text. The set is closed: consumers
// switch on the concrete type.
type Node interface {
	Parent() *Element
	node()
}

// Element is a tag in the document tree.
type Element struct {
	Tag        string
	Attributes map[string]string
	Children   []Node
	// Style is the computed style, filled by css.Style.
	Style map[string]string

	parent *Element
}

// Text is character data. It never has children.
type Text struct {
	Data string

	parent *Element
}

func (*Element) node() {}
func (*Text) node()    {}

func (e *Element) Parent() *Element { return e.parent }
func (t *Text) Parent() *Element    { return t.parent }

// NewElement creates a detached element with the given parent link. The
// element is not appended to parent's children.
func NewElement(tag string, attributes map[string]string, parent *Element) *Element {
	if attributes == nil {
		attributes = make(map[string]string)
	}
	return &Element{
		Tag:        tag,
		Attributes: attributes,
		Children:   make([]Node, 0),
		parent:     parent,
	}
}

// NewText creates a detached text node with the given parent link.
func NewText(data string, parent *Element) *Text {
	return &Text{Data: data, parent: parent}
}

func (e *Element) GetAttribute(name string) (string, bool) {
	if e.Attributes == nil {
		return "", false
	}
	val, ok := e.Attributes[name]
	return val, ok
}

// AddChild adds a child node and sets up the parent relationship
func (e *Element) AddChild(child Node) {
	switch c := child.(type) {
	case *Element:
		c.parent = e
	case *Text:
		c.parent = e
	}
	e.Children = append(e.Children, child)
}

// AppendText creates a text node and adds it as a child
func (e *Element) AppendText(data string) {
	if data == "" {
		return
	}
	e.AddChild(NewText(data, e))
}

// ComputedStyle returns the style that applies to n. Text nodes have no
// style of their own and take their parent's.
func ComputedStyle(n Node) map[string]string {
	switch n := n.(type) {
	case *Element:
		return n.Style
	case *Text:
		if n.parent != nil {
			return n.parent.Style
		}
	}
	return nil
}

// TreeToList appends n and all of its descendants in pre-order.
func TreeToList(n Node, list []Node) []Node {
	list = append(list, n)
	if e, ok := n.(*Element); ok {
		for _, child := range e.Children {
			list = TreeToList(child, list)
		}
	}
	return list
}

// Find returns the first element in pre-order with the given tag, or nil.
func (e *Element) Find(tag string) *Element {
	if e.Tag == tag {
		return e
	}
	for _, child := range e.Children {
		if ce, ok := child.(*Element); ok {
			if found := ce.Find(tag); found != nil {
				return found
			}
		}
	}
	return nil
}

// TextContent concatenates all descendant text.
func (e *Element) TextContent() string {
	var sb strings.Builder
	for _, n := range TreeToList(e, nil) {
		if t, ok := n.(*Text); ok {
			sb.WriteString(t.Data)
		}
	}
	return sb.String()
}

// Closest returns the nearest element, starting at n itself and walking up
// through its ancestors, for which match reports true.
func Closest(n Node, match func(*Element) bool) *Element {
	for n != nil {
		e, ok := n.(*Element)
		if ok && match(e) {
			return e
		}
		p := n.Parent()
		if p == nil {
			return nil
		}
		n = p
	}
	return nil
}

// SerializeOuter returns the outerHTML of this element.
func (e *Element) SerializeOuter() string {
	var sb strings.Builder
	serializeNode(&sb, e)
	return sb.String()
}

func serializeNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Text:
		if n.parent != nil && isRawTextElement(n.parent.Tag) {
			sb.WriteString(n.Data)
			return
		}
		sb.WriteString(escapeHTML(n.Data))
	case *Element:
		sb.WriteByte('<')
		sb.WriteString(n.Tag)

		// Sort attributes for deterministic output
		if len(n.Attributes) > 0 {
			keys := make([]string, 0, len(n.Attributes))
			for k := range n.Attributes {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				sb.WriteByte(' ')
				sb.WriteString(k)
				if v := n.Attributes[k]; v != "" {
					sb.WriteByte('=')
					sb.WriteString(quoteAttr(v))
				}
			}
		}
		sb.WriteByte('>')
		if isSelfClosing(n.Tag) {
			return
		}
		for _, child := range n.Children {
			serializeNode(sb, child)
		}
		sb.WriteString("</")
		sb.WriteString(n.Tag)
		sb.WriteByte('>')
	}
}

func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// quoteAttr picks the quote character the parser will read back; values
// holding both kinds cannot round-trip since only &lt; and &gt; are decoded.
func quoteAttr(s string) string {
	if strings.ContainsRune(s, '"') {
		return "'" + s + "'"
	}
	return `"` + s + `"`
}
