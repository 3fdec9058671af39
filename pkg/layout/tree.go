package layout

import (
	"fmt"
	"strings"

	"soyorin/pkg/html"
)

// Tree returns every box in pre-order.
func Tree(doc *DocumentBox) []Box {
	return appendTree(doc, nil)
}

func appendTree(b Box, list []Box) []Box {
	list = append(list, b)
	for _, child := range b.Children() {
		list = appendTree(child, list)
	}
	return list
}

// HitTest returns the node of the deepest box containing (x, y), in
// document coordinates, or nil when the point misses every box.
func HitTest(doc *DocumentBox, x, y float64) html.Node {
	var hit html.Node
	for _, b := range Tree(doc) {
		if _, isDoc := b.(*DocumentBox); isDoc {
			continue
		}
		if b.Geom().Bounds().Contains(x, y) {
			hit = b.DOMNode()
		}
	}
	return hit
}

// Link walks up from n to the nearest anchor with an href.
func Link(n html.Node) (*html.Element, bool) {
	a := html.Closest(n, func(e *html.Element) bool {
		if e.Tag != "a" {
			return false
		}
		_, ok := e.GetAttribute("href")
		return ok
	})
	return a, a != nil
}

// Dump renders the box tree as indented text, one box per line.
func Dump(doc *DocumentBox) string {
	var sb strings.Builder
	dumpBox(&sb, doc, 0)
	return sb.String()
}

func dumpBox(sb *strings.Builder, b Box, depth int) {
	g := b.Geom()
	sb.WriteString(strings.Repeat("  ", depth))
	switch b := b.(type) {
	case *DocumentBox:
		fmt.Fprintf(sb, "DocumentBox")
	case *BlockBox:
		fmt.Fprintf(sb, "BlockBox[%s] %s", b.Mode, describeNode(b.Node))
	case *LineBox:
		fmt.Fprintf(sb, "LineBox")
	case *TextBox:
		fmt.Fprintf(sb, "TextBox %q %s", b.Word, b.Font.Key)
	}
	fmt.Fprintf(sb, " (x=%g y=%g w=%g h=%g)\n", g.X, g.Y, g.Width, g.Height)
	for _, child := range b.Children() {
		dumpBox(sb, child, depth+1)
	}
}
