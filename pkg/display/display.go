// Package display holds the paint commands layout produces. A List is
// backend neutral: the raster renderer and the window shell both execute
// it.
package display

import (
	"fmt"

	"soyorin/pkg/text"
)

// Rect is an axis-aligned rectangle in document coordinates.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// Contains reports whether the point lies in the rectangle. The left and
// top edges are inside; the right and bottom edges are not.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.Left && x < r.Right && y >= r.Top && y < r.Bottom
}

func (r Rect) Width() float64  { return r.Right - r.Left }
func (r Rect) Height() float64 { return r.Bottom - r.Top }

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g)-(%g,%g)", r.Left, r.Top, r.Right, r.Bottom)
}

// Command is one of DrawText, DrawRect, DrawOutline or DrawLine.
type Command interface {
	Bounds() Rect
	command()
}

// DrawText draws a single word with its top-left corner at (Left, Top).
type DrawText struct {
	Left, Top float64
	Text      string
	Font      *text.Font
	Color     string
}

func NewDrawText(x, y float64, word string, font *text.Font, color string) *DrawText {
	return &DrawText{Left: x, Top: y, Text: word, Font: font, Color: color}
}

func (c *DrawText) Bounds() Rect {
	return Rect{
		Left:   c.Left,
		Top:    c.Top,
		Right:  c.Left + c.Font.Measure(c.Text),
		Bottom: c.Top + c.Font.Ascent() + c.Font.Descent(),
	}
}

// DrawRect fills a rectangle.
type DrawRect struct {
	Rect  Rect
	Color string
}

func (c *DrawRect) Bounds() Rect { return c.Rect }

// DrawOutline strokes the border of a rectangle.
type DrawOutline struct {
	Rect      Rect
	Color     string
	Thickness float64
}

func (c *DrawOutline) Bounds() Rect { return c.Rect }

// DrawLine strokes a straight segment.
type DrawLine struct {
	X1, Y1, X2, Y2 float64
	Color          string
	Thickness      float64
}

func (c *DrawLine) Bounds() Rect {
	return Rect{
		Left:   min(c.X1, c.X2),
		Top:    min(c.Y1, c.Y2),
		Right:  max(c.X1, c.X2),
		Bottom: max(c.Y1, c.Y2),
	}
}

func (*DrawText) command()    {}
func (*DrawRect) command()    {}
func (*DrawOutline) command() {}
func (*DrawLine) command()    {}

// List is a display list in paint order.
type List []Command

// Visible returns the commands that intersect the window [scroll,
// scroll+height].
func (l List) Visible(scroll, height float64) List {
	out := make(List, 0, len(l))
	for _, cmd := range l {
		b := cmd.Bounds()
		if b.Top > scroll+height || b.Bottom < scroll {
			continue
		}
		out = append(out, cmd)
	}
	return out
}

// Describe formats a command for dumps and tests.
func Describe(cmd Command) string {
	switch c := cmd.(type) {
	case *DrawText:
		return fmt.Sprintf("DrawText(top=%g left=%g text=%q font=%s color=%s)", c.Top, c.Left, c.Text, c.Font.Key, c.Color)
	case *DrawRect:
		return fmt.Sprintf("DrawRect(%s color=%s)", c.Rect, c.Color)
	case *DrawOutline:
		return fmt.Sprintf("DrawOutline(%s color=%s thickness=%g)", c.Rect, c.Color, c.Thickness)
	case *DrawLine:
		return fmt.Sprintf("DrawLine(%g,%g-%g,%g color=%s thickness=%g)", c.X1, c.Y1, c.X2, c.Y2, c.Color, c.Thickness)
	}
	return fmt.Sprintf("%T", cmd)
}
