// Package resource drives page loading: fetching a document and its
// stylesheets, running style and layout, and keeping per-tab scroll state.
package resource

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"soyorin/pkg/css"
	"soyorin/pkg/display"
	"soyorin/pkg/html"
	"soyorin/pkg/layout"
	"soyorin/pkg/url"
)

// DefaultScrollStep is how far one ScrollDown or ScrollUp moves.
const DefaultScrollStep = 100

// Viewport describes the area a tab draws into.
type Viewport struct {
	Width      float64
	Height     float64
	ScrollStep float64
}

// DefaultViewport is the 800x600 window.
var DefaultViewport = Viewport{Width: 800, Height: 600, ScrollStep: DefaultScrollStep}

// Tab holds one loaded page.
type Tab struct {
	fetcher  Fetcher
	log      *zap.Logger
	viewport Viewport
	scroll   float64

	URL         *url.URL
	Nodes       *html.Element
	Document    *layout.DocumentBox
	DisplayList display.List
}

// NewTab creates a tab showing about:blank. viewport.Height is the height
// available to the page, below any chrome.
func NewTab(fetcher Fetcher, log *zap.Logger, viewport Viewport) *Tab {
	if log == nil {
		log = zap.NewNop()
	}
	if viewport.ScrollStep <= 0 {
		viewport.ScrollStep = DefaultScrollStep
	}
	t := &Tab{fetcher: fetcher, log: log.Named("tab"), viewport: viewport}
	t.show(context.Background(), url.Blank(), "")
	return t
}

// Load fetches u and lays it out. When the document cannot be fetched the
// tab shows about:blank and the error is returned. Stylesheets that fail
// to load are skipped and only logged.
func (t *Tab) Load(ctx context.Context, u *url.URL) error {
	body, err := t.fetcher.Request(ctx, u)
	if err != nil {
		t.log.Warn("Unable to load page, showing about:blank", zap.Stringer("url", u), zap.Error(err))
		t.show(ctx, url.Blank(), "")
		return fmt.Errorf("loading %s: %w", u, err)
	}
	t.show(ctx, u, body)
	return nil
}

func (t *Tab) show(ctx context.Context, u *url.URL, body string) {
	t.URL = u
	if u.ViewSource {
		t.Nodes = html.ParseSource(body)
	} else {
		t.Nodes = html.Parse(body)
	}

	rules, err := collectRules(ctx, t.fetcher, t.log, t.Nodes, u)
	if err != nil {
		t.log.Warn("Some stylesheets were skipped", zap.Stringer("url", u), zap.Error(err))
	}
	css.SortRules(rules)
	css.Style(t.Nodes, rules)

	t.Document = layout.Layout(t.Nodes, t.viewport.Width)
	t.DisplayList = layout.Paint(t.Document)
	t.scroll = 0

	t.log.Debug("Page laid out",
		zap.Stringer("url", u),
		zap.Int("rules", len(rules)),
		zap.Float64("height", t.Document.Height),
		zap.Int("commands", len(t.DisplayList)))
}

// Scroll is the current vertical offset.
func (t *Tab) Scroll() float64 { return t.scroll }

// Height is the visible height of the page area.
func (t *Tab) Height() float64 { return t.viewport.Height }

func (t *Tab) maxScroll() float64 {
	return max(t.Document.Height+2*layout.VStep-t.viewport.Height, 0)
}

// ScrollBy moves the view by delta, clamped to the document.
func (t *Tab) ScrollBy(delta float64) {
	t.scroll = min(max(t.scroll+delta, 0), t.maxScroll())
}

func (t *Tab) ScrollDown() { t.ScrollBy(t.viewport.ScrollStep) }
func (t *Tab) ScrollUp()   { t.ScrollBy(-t.viewport.ScrollStep) }

// Visible returns the display commands inside the current view.
func (t *Tab) Visible() display.List {
	return t.DisplayList.Visible(t.scroll, t.viewport.Height)
}

// Click handles a click at (x, y) relative to the top of the page area.
// If the point is inside a link the target is loaded and Click reports
// true.
func (t *Tab) Click(ctx context.Context, x, y float64) (bool, error) {
	node := layout.HitTest(t.Document, x, y+t.scroll)
	if node == nil {
		return false, nil
	}
	a, ok := layout.Link(node)
	if !ok {
		return false, nil
	}
	href, _ := a.GetAttribute("href")
	target, err := t.URL.Resolve(href)
	if err != nil {
		return false, fmt.Errorf("following link %q: %w", href, err)
	}
	t.log.Debug("Following link", zap.String("href", href), zap.Stringer("target", target))
	return true, t.Load(ctx, target)
}

// Title returns the text of the document's title element, or the URL when
// there is none.
func (t *Tab) Title() string {
	if title := t.Nodes.Find("title"); title != nil {
		if s := strings.Join(strings.Fields(title.TextContent()), " "); s != "" {
			return s
		}
	}
	return t.URL.String()
}
