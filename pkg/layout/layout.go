// Package layout turns a styled document tree into a box tree and paints
// the box tree into a display list. Boxes are rebuilt from scratch on every
// call; nothing is cached between layouts except fonts.
package layout

import (
	"fmt"

	"soyorin/pkg/css"
	"soyorin/pkg/html"
	"soyorin/pkg/text"
)

// Mode is how a BlockBox arranges its content.
type Mode int

const (
	ModeBlock Mode = iota
	ModeInline
)

func (m Mode) String() string {
	if m == ModeInline {
		return "inline"
	}
	return "block"
}

// Tags treated as block-level when an element carries no computed style.
var blockElements = map[string]bool{
	"html": true, "body": true, "article": true, "section": true, "nav": true,
	"aside": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "hgroup": true, "header": true, "footer": true, "address": true,
	"p": true, "hr": true, "pre": true, "blockquote": true, "ol": true,
	"ul": true, "menu": true, "li": true, "dl": true, "dt": true, "dd": true,
	"figure": true, "figcaption": true, "main": true, "div": true, "table": true,
	"form": true, "fieldset": true, "legend": true, "details": true, "summary": true,
}

// Layout builds and positions the box tree for a document rendered into a
// viewport of the given width.
func Layout(root *html.Element, viewportWidth float64) *DocumentBox {
	if root == nil {
		panic("layout: nil document")
	}
	doc := &DocumentBox{
		Geometry: Geometry{X: HStep, Y: VStep, Width: viewportWidth - 2*HStep},
		Node:     root,
	}
	doc.Child = &BlockBox{Node: root, Parent: doc}
	doc.Child.layout()
	doc.Height = doc.Child.Height
	return doc
}

func isBlockLevel(e *html.Element) bool {
	if e.Style != nil {
		return e.Style["display"] == "block"
	}
	return blockElements[e.Tag]
}

// isHidden reports whether an element generates no boxes.
func isHidden(e *html.Element) bool {
	return e.Tag == "head" || (e.Style != nil && e.Style["display"] == "none")
}

func layoutMode(n html.Node) Mode {
	e, ok := n.(*html.Element)
	if !ok {
		return ModeInline
	}
	for _, child := range e.Children {
		if ce, ok := child.(*html.Element); ok && !isHidden(ce) && isBlockLevel(ce) {
			return ModeBlock
		}
	}
	if len(e.Children) > 0 {
		return ModeInline
	}
	return ModeBlock
}

// fontFor resolves the font a node's text is drawn in.
func fontFor(n html.Node) *text.Font {
	style := html.ComputedStyle(n)
	size := 16.0
	if v, ok := css.ParseLength(style["font-size"]); ok {
		size = v
	}
	return text.Resolve(size, valueOr(style, "font-weight", "normal"),
		valueOr(style, "font-style", "normal"), style["font-family"])
}

func colorFor(n html.Node) string {
	return valueOr(html.ComputedStyle(n), "color", "black")
}

func valueOr(style map[string]string, prop, def string) string {
	if v, ok := style[prop]; ok && v != "" {
		return v
	}
	return def
}

func describeNode(n html.Node) string {
	switch n := n.(type) {
	case *html.Element:
		return "<" + n.Tag + ">"
	case *html.Text:
		s := n.Data
		if len(s) > 20 {
			s = s[:20] + "..."
		}
		return fmt.Sprintf("%q", s)
	}
	return "?"
}
