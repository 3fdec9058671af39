package layout

import (
	"soyorin/pkg/html"
)

// layout runs in two passes: children are created and laid out top-down,
// then the height is summed bottom-up.
func (b *BlockBox) layout() {
	parent := b.Parent.Geom()
	b.X = parent.X
	b.Width = parent.Width

	if e, ok := b.Node.(*html.Element); ok && e.Tag == "li" {
		b.X += 2 * HStep
		b.Width -= 2 * HStep
	}

	if b.Previous != nil {
		b.Y = b.Previous.Y + b.Previous.Height
	} else {
		b.Y = parent.Y
	}

	b.Mode = layoutMode(b.Node)
	if b.Mode == ModeBlock {
		b.createBlocks()
	} else {
		b.newLine()
		b.recurse(b.Node)
	}

	b.Height = 0
	for _, child := range b.Blocks {
		child.layout()
		b.Height += child.Height
	}
	for _, line := range b.Lines {
		line.layout()
		b.Height += line.Height
	}
}

func (b *BlockBox) createBlocks() {
	e, ok := b.Node.(*html.Element)
	if !ok {
		return
	}
	var previous *BlockBox
	for _, child := range e.Children {
		if ce, ok := child.(*html.Element); ok && isHidden(ce) {
			continue
		}
		next := &BlockBox{Node: child, Parent: b, Previous: previous}
		b.Blocks = append(b.Blocks, next)
		previous = next
	}
}
