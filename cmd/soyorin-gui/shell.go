package main

import (
	"context"
	"image"
	"image/draw"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"soyorin/pkg/render"
	"soyorin/pkg/resource"
	"soyorin/pkg/url"
)

// shell connects a resource.Browser to a fyne window. Browser state is
// only touched with mu held; widgets are only touched inside fyne.Do.
type shell struct {
	ctx context.Context
	log *zap.Logger

	mu       sync.Mutex
	browser  *resource.Browser
	renderer *render.Renderer

	window   fyne.Window
	view     *pageView
	urlEntry *widget.Entry
	status   *widget.Label
}

func newShell(ctx context.Context, log *zap.Logger, fetcher resource.Fetcher, vp resource.Viewport, w fyne.Window) *shell {
	s := &shell{
		ctx:      ctx,
		log:      log,
		browser:  resource.NewBrowser(fetcher, log, vp, nil),
		renderer: render.NewRenderer(int(vp.Width), int(vp.Height), log),
		window:   w,
		status:   widget.NewLabel(""),
		urlEntry: widget.NewEntry(),
	}
	s.urlEntry.SetPlaceHolder("https://example.com")
	s.urlEntry.OnSubmitted = s.open

	s.view = newPageView(vp, s.click, s.scroll)
	w.SetContent(container.NewBorder(s.urlEntry, s.status, nil, nil, s.view))
	w.Canvas().SetOnTypedKey(s.key)
	return s
}

// open navigates the active tab, or a new one if there is none.
func (s *shell) open(addr string) {
	go s.update(func() error {
		u, err := url.Parse(addr)
		if err != nil {
			return err
		}
		if tab := s.browser.ActiveTab(); tab != nil {
			return tab.Load(s.ctx, u)
		}
		_, err = s.browser.NewTab(s.ctx, u)
		return err
	})
}

func (s *shell) click(x, y float32) {
	go s.update(func() error {
		return s.browser.Click(s.ctx, float64(x), float64(y))
	})
}

func (s *shell) scroll(dy float32) {
	go s.update(func() error {
		s.browser.ScrollBy(-float64(dy))
		return nil
	})
}

func (s *shell) key(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyDown:
		go s.update(func() error { s.browser.ScrollDown(); return nil })
	case fyne.KeyUp:
		go s.update(func() error { s.browser.ScrollUp(); return nil })
	}
}

// update runs fn against the browser and redraws the window.
func (s *shell) update(fn func() error) {
	s.mu.Lock()
	err := fn()
	s.renderer.DrawFrame(s.browser.Frame())
	frame := snapshot(s.renderer.Image())
	var title, addr string
	if tab := s.browser.ActiveTab(); tab != nil {
		title, addr = tab.Title(), tab.URL.String()
	}
	s.mu.Unlock()

	status := addr
	if err != nil {
		s.log.Warn("Navigation failed", zap.Error(err))
		status = "Error: " + err.Error()
	}
	fyne.Do(func() {
		s.view.show(frame)
		s.urlEntry.SetText(addr)
		s.status.SetText(status)
		s.window.SetTitle("soyorin - " + title)
	})
}

func snapshot(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// pageView shows the rendered frame and reports taps and wheel scrolls in
// frame coordinates.
type pageView struct {
	widget.BaseWidget
	img      *canvas.Image
	size     fyne.Size
	onTap    func(x, y float32)
	onScroll func(dy float32)
}

func newPageView(vp resource.Viewport, onTap func(x, y float32), onScroll func(dy float32)) *pageView {
	img := canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, int(vp.Width), int(vp.Height))))
	img.FillMode = canvas.ImageFillOriginal
	img.ScaleMode = canvas.ImageScalePixels
	v := &pageView{
		img:      img,
		size:     fyne.NewSize(float32(vp.Width), float32(vp.Height)),
		onTap:    onTap,
		onScroll: onScroll,
	}
	v.ExtendBaseWidget(v)
	return v
}

func (v *pageView) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.img)
}

func (v *pageView) MinSize() fyne.Size { return v.size }

func (v *pageView) Tapped(ev *fyne.PointEvent) {
	v.onTap(ev.Position.X, ev.Position.Y)
}

func (v *pageView) Scrolled(ev *fyne.ScrollEvent) {
	v.onScroll(ev.Scrolled.DY)
}

func (v *pageView) show(frame image.Image) {
	v.img.Image = frame
	v.img.Refresh()
}
