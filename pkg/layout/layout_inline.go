package layout

import (
	"strings"

	"soyorin/pkg/html"
)

// recurse walks the inline subtree, feeding words to the line breaker.
func (b *BlockBox) recurse(n html.Node) {
	switch n := n.(type) {
	case *html.Text:
		for _, word := range strings.Fields(n.Data) {
			b.word(n, word)
		}
	case *html.Element:
		if isHidden(n) {
			return
		}
		if n.Tag == "br" {
			b.newLine()
		}
		for _, child := range n.Children {
			b.recurse(child)
		}
	}
}

// word places a word on the current line, starting a new line first if it
// would overflow. A word wider than the block still gets a line of its own.
func (b *BlockBox) word(n *html.Text, word string) {
	font := fontFor(n)
	w := font.Measure(word)
	if b.cursorX+w > b.Width && len(b.Lines[len(b.Lines)-1].Words) > 0 {
		b.newLine()
	}

	line := b.Lines[len(b.Lines)-1]
	var previous *TextBox
	if len(line.Words) > 0 {
		previous = line.Words[len(line.Words)-1]
	}
	line.Words = append(line.Words, &TextBox{
		Node:     n,
		Parent:   line,
		Previous: previous,
		Word:     word,
		Font:     font,
		Color:    colorFor(n),
	})
	b.cursorX += w + font.SpaceWidth()
}

func (b *BlockBox) newLine() {
	b.cursorX = 0
	var last *LineBox
	if len(b.Lines) > 0 {
		last = b.Lines[len(b.Lines)-1]
	}
	b.Lines = append(b.Lines, &LineBox{Node: b.Node, Parent: b, Previous: last})
}

// layout positions the words of a line on a shared baseline.
func (l *LineBox) layout() {
	l.X = l.Parent.X
	l.Width = l.Parent.Width
	if l.Previous != nil {
		l.Y = l.Previous.Y + l.Previous.Height
	} else {
		l.Y = l.Parent.Y
	}

	if len(l.Words) == 0 {
		l.Height = 0
		return
	}

	var maxAscent, maxDescent float64
	for _, w := range l.Words {
		w.layout()
		maxAscent = max(maxAscent, w.Font.Ascent())
		maxDescent = max(maxDescent, w.Font.Descent())
	}
	baseline := l.Y + 1.25*maxAscent
	for _, w := range l.Words {
		w.Y = baseline - w.Font.Ascent()
	}
	l.Height = 1.25 * (maxAscent + maxDescent)
}

func (t *TextBox) layout() {
	t.Width = t.Font.Measure(t.Word)
	if t.Previous != nil {
		t.X = t.Previous.X + t.Previous.Width + t.Previous.Font.SpaceWidth()
	} else {
		t.X = t.Parent.X
	}
	t.Height = t.Font.Ascent() + t.Font.Descent()
}
