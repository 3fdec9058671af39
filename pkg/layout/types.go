package layout

import (
	"soyorin/pkg/display"
	"soyorin/pkg/html"
	"soyorin/pkg/text"
)

const (
	// HStep is the page margin and half the list indent.
	HStep = 13.0
	// VStep is the top margin.
	VStep = 18.0
)

// Box is one of *DocumentBox, *BlockBox, *LineBox or *TextBox.
type Box interface {
	Geom() *Geometry
	DOMNode() html.Node
	Children() []Box
	box()
}

// Geometry is the position and size shared by every box.
type Geometry struct {
	X, Y          float64
	Width, Height float64
}

// Geom gives access to the embedded geometry through the Box interface.
func (g *Geometry) Geom() *Geometry { return g }

// Bounds returns the box as a display rectangle.
func (g *Geometry) Bounds() display.Rect {
	return display.Rect{Left: g.X, Top: g.Y, Right: g.X + g.Width, Bottom: g.Y + g.Height}
}

// DocumentBox is the root of the box tree. It holds exactly one BlockBox
// for the html element.
type DocumentBox struct {
	Geometry
	Node  *html.Element
	Child *BlockBox
}

// BlockBox lays out its node either as a stack of child BlockBoxes or as a
// run of LineBoxes.
type BlockBox struct {
	Geometry
	Node     html.Node
	Parent   Box
	Previous *BlockBox
	Mode     Mode
	// Blocks is set in block mode, Lines in inline mode.
	Blocks []*BlockBox
	Lines  []*LineBox

	cursorX float64
}

// LineBox is one line of words.
type LineBox struct {
	Geometry
	Node     html.Node
	Parent   *BlockBox
	Previous *LineBox
	Words    []*TextBox
}

// TextBox is a single word in a resolved font.
type TextBox struct {
	Geometry
	Node     html.Node
	Parent   *LineBox
	Previous *TextBox
	Word     string
	Font     *text.Font
	Color    string
}

func (b *DocumentBox) DOMNode() html.Node { return b.Node }
func (b *BlockBox) DOMNode() html.Node    { return b.Node }
func (b *LineBox) DOMNode() html.Node     { return b.Node }
func (b *TextBox) DOMNode() html.Node     { return b.Node }

func (b *DocumentBox) Children() []Box {
	if b.Child == nil {
		return nil
	}
	return []Box{b.Child}
}

func (b *BlockBox) Children() []Box {
	out := make([]Box, 0, len(b.Blocks)+len(b.Lines))
	for _, c := range b.Blocks {
		out = append(out, c)
	}
	for _, c := range b.Lines {
		out = append(out, c)
	}
	return out
}

func (b *LineBox) Children() []Box {
	out := make([]Box, len(b.Words))
	for i, w := range b.Words {
		out[i] = w
	}
	return out
}

func (b *TextBox) Children() []Box { return nil }

func (*DocumentBox) box() {}
func (*BlockBox) box()    {}
func (*LineBox) box()     {}
func (*TextBox) box()     {}
