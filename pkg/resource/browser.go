package resource

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"soyorin/pkg/display"
	"soyorin/pkg/url"
)

// Browser owns the open tabs and the chrome drawn above them.
type Browser struct {
	fetcher  Fetcher
	log      *zap.Logger
	viewport Viewport
	home     *url.URL

	Chrome *Chrome
	tabs   []*Tab
	active *Tab
}

// NewBrowser creates a browser with no tabs. home is opened by the chrome's
// new-tab button; nil means about:blank.
func NewBrowser(fetcher Fetcher, log *zap.Logger, viewport Viewport, home *url.URL) *Browser {
	if log == nil {
		log = zap.NewNop()
	}
	if home == nil {
		home = url.Blank()
	}
	b := &Browser{fetcher: fetcher, log: log, viewport: viewport, home: home}
	b.Chrome = newChrome(b)
	return b
}

// NewTab opens u in a new tab and makes it active. The tab is kept even
// when loading fails; it then shows about:blank.
func (b *Browser) NewTab(ctx context.Context, u *url.URL) (*Tab, error) {
	vp := b.viewport
	vp.Height -= b.Chrome.Bottom
	tab := NewTab(b.fetcher, b.log, vp)
	b.tabs = append(b.tabs, tab)
	b.active = tab
	return tab, tab.Load(ctx, u)
}

func (b *Browser) Tabs() []*Tab       { return b.tabs }
func (b *Browser) ActiveTab() *Tab    { return b.active }
func (b *Browser) Viewport() Viewport { return b.viewport }

// Activate switches to tab i.
func (b *Browser) Activate(i int) error {
	if i < 0 || i >= len(b.tabs) {
		return fmt.Errorf("no tab %d", i)
	}
	b.active = b.tabs[i]
	return nil
}

// Click dispatches a window click to the chrome or the active tab.
func (b *Browser) Click(ctx context.Context, x, y float64) error {
	if y < b.Chrome.Bottom {
		return b.Chrome.Click(ctx, x, y)
	}
	if b.active == nil {
		return nil
	}
	_, err := b.active.Click(ctx, x, y-b.Chrome.Bottom)
	return err
}

func (b *Browser) ScrollDown() {
	if b.active != nil {
		b.active.ScrollDown()
	}
}

func (b *Browser) ScrollUp() {
	if b.active != nil {
		b.active.ScrollUp()
	}
}

func (b *Browser) ScrollBy(delta float64) {
	if b.active != nil {
		b.active.ScrollBy(delta)
	}
}

// Frame is what one redraw of the window needs: the visible page commands,
// the vertical offset to draw them at, and the chrome on top.
type Frame struct {
	Page   display.List
	Offset float64
	Chrome display.List
}

// Frame returns the current window contents.
func (b *Browser) Frame() Frame {
	f := Frame{Chrome: b.Chrome.Paint()}
	if b.active != nil {
		f.Page = b.active.Visible()
		f.Offset = b.Chrome.Bottom - b.active.Scroll()
	}
	return f
}
