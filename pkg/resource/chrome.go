package resource

import (
	"context"
	"fmt"

	"soyorin/pkg/display"
	"soyorin/pkg/text"
)

const chromePadding = 5

// Chrome is the tab strip: a new-tab button followed by one fixed-width
// label per tab.
type Chrome struct {
	browser *Browser
	font    *text.Font

	NewTabRect display.Rect
	Bottom     float64
}

func newChrome(b *Browser) *Chrome {
	font := text.Resolve(20, "normal", "normal", "sans-serif")
	lineHeight := font.Ascent() + font.Descent()
	plusWidth := font.Measure("+") + 2*chromePadding
	return &Chrome{
		browser: b,
		font:    font,
		NewTabRect: display.Rect{
			Left:   chromePadding,
			Top:    chromePadding,
			Right:  chromePadding + plusWidth,
			Bottom: chromePadding + lineHeight,
		},
		Bottom: lineHeight + 2*chromePadding,
	}
}

// TabRect is the label area of tab i.
func (c *Chrome) TabRect(i int) display.Rect {
	start := c.NewTabRect.Right + chromePadding
	width := c.font.Measure("Tab X") + 2*chromePadding
	return display.Rect{
		Left:   start + width*float64(i),
		Top:    0,
		Right:  start + width*float64(i+1),
		Bottom: c.Bottom,
	}
}

// Paint returns the chrome's display commands in window coordinates.
func (c *Chrome) Paint() display.List {
	width := c.browser.viewport.Width
	list := display.List{
		&display.DrawRect{Rect: display.Rect{Right: width, Bottom: c.Bottom}, Color: "white"},
		&display.DrawOutline{Rect: c.NewTabRect, Color: "black", Thickness: 1},
		display.NewDrawText(c.NewTabRect.Left+chromePadding, c.NewTabRect.Top, "+", c.font, "black"),
	}

	if c.browser.active == nil {
		list = append(list, &display.DrawLine{X1: 0, Y1: c.Bottom, X2: width, Y2: c.Bottom, Color: "black", Thickness: 1})
	}
	for i, tab := range c.browser.tabs {
		r := c.TabRect(i)
		list = append(list,
			&display.DrawLine{X1: r.Left, Y1: 0, X2: r.Left, Y2: r.Bottom, Color: "black", Thickness: 1},
			&display.DrawLine{X1: r.Right, Y1: 0, X2: r.Right, Y2: r.Bottom, Color: "black", Thickness: 1},
			display.NewDrawText(r.Left+chromePadding, r.Top+chromePadding, fmt.Sprintf("Tab %d", i), c.font, "black"),
		)
		if tab == c.browser.active {
			// The bottom border has a gap under the active tab.
			list = append(list,
				&display.DrawLine{X1: 0, Y1: r.Bottom, X2: r.Left, Y2: r.Bottom, Color: "black", Thickness: 1},
				&display.DrawLine{X1: r.Right, Y1: r.Bottom, X2: width, Y2: r.Bottom, Color: "black", Thickness: 1},
			)
		}
	}
	return list
}

// Click handles a click inside the chrome. The new-tab button opens the
// browser's home page; a tab label activates that tab.
func (c *Chrome) Click(ctx context.Context, x, y float64) error {
	if c.NewTabRect.Contains(x, y) {
		_, err := c.browser.NewTab(ctx, c.browser.home)
		return err
	}
	for i := range c.browser.tabs {
		if c.TabRect(i).Contains(x, y) {
			return c.browser.Activate(i)
		}
	}
	return nil
}
