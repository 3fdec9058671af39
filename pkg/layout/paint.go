package layout

import (
	"soyorin/pkg/display"
	"soyorin/pkg/html"
)

const bulletSize = 4.0

// Paint flattens the box tree into a display list in pre-order, so a
// block's background is painted before its contents.
func Paint(doc *DocumentBox) display.List {
	list := make(display.List, 0)
	paintTree(doc, &list)
	return list
}

func paintTree(b Box, list *display.List) {
	*list = append(*list, paintBox(b)...)
	for _, child := range b.Children() {
		paintTree(child, list)
	}
}

func paintBox(b Box) []display.Command {
	switch b := b.(type) {
	case *BlockBox:
		return b.paint()
	case *TextBox:
		return []display.Command{display.NewDrawText(b.X, b.Y, b.Word, b.Font, b.Color)}
	}
	return nil
}

func (b *BlockBox) paint() []display.Command {
	var cmds []display.Command

	if bg := valueOr(html.ComputedStyle(b.Node), "background-color", "transparent"); bg != "transparent" {
		cmds = append(cmds, &display.DrawRect{Rect: b.Bounds(), Color: bg})
	}

	if e, ok := b.Node.(*html.Element); ok && e.Tag == "li" {
		x := b.X - HStep - bulletSize/2
		y := b.Y + fontFor(e).Ascent()/2
		cmds = append(cmds, &display.DrawRect{
			Rect:  display.Rect{Left: x, Top: y, Right: x + bulletSize, Bottom: y + bulletSize},
			Color: colorFor(e),
		})
	}
	return cmds
}
