// Package render rasterizes display lists with gg.
package render

import (
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font"

	"soyorin/pkg/display"
	"soyorin/pkg/resource"
)

type Renderer struct {
	context *gg.Context
	log     *zap.Logger
}

func NewRenderer(width, height int, log *zap.Logger) *Renderer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Renderer{context: gg.NewContext(width, height), log: log.Named("render")}
}

// Clear fills the canvas with white.
func (r *Renderer) Clear() {
	r.context.SetRGB(1, 1, 1)
	r.context.Clear()
}

// Execute draws the commands in order, shifted down by offsetY. Commands
// in a page's display list use document coordinates, so a tab passes
// chrome height minus scroll.
func (r *Renderer) Execute(list display.List, offsetY float64) {
	for _, cmd := range list {
		r.execute(cmd, offsetY)
	}
}

// DrawFrame redraws a whole browser window.
func (r *Renderer) DrawFrame(f resource.Frame) {
	r.Clear()
	r.Execute(f.Page, f.Offset)
	r.Execute(f.Chrome, 0)
}

func (r *Renderer) execute(cmd display.Command, dy float64) {
	switch c := cmd.(type) {
	case *display.DrawRect:
		if !r.setColor(c.Color) {
			return
		}
		r.context.DrawRectangle(c.Rect.Left, c.Rect.Top+dy, c.Rect.Width(), c.Rect.Height())
		r.context.Fill()

	case *display.DrawOutline:
		if !r.setColor(c.Color) {
			return
		}
		r.context.SetLineWidth(c.Thickness)
		r.context.DrawRectangle(c.Rect.Left, c.Rect.Top+dy, c.Rect.Width(), c.Rect.Height())
		r.context.Stroke()

	case *display.DrawLine:
		if !r.setColor(c.Color) {
			return
		}
		r.context.SetLineWidth(c.Thickness)
		r.context.DrawLine(c.X1, c.Y1+dy, c.X2, c.Y2+dy)
		r.context.Stroke()

	case *display.DrawText:
		if !r.setColor(c.Color) {
			return
		}
		baseline := c.Top + dy + c.Font.Ascent()
		c.Font.WithFace(func(face font.Face) {
			r.context.SetFontFace(face)
			r.context.DrawString(c.Text, c.Left, baseline)
		})
	}
}

// setColor reports false for transparent colors, which draw nothing.
// Unknown colors are drawn black.
func (r *Renderer) setColor(name string) bool {
	c, ok := ParseColor(name)
	if !ok {
		r.log.Debug("Unknown color, using black", zap.String("color", name))
		c = color.Black
	}
	if _, _, _, a := c.RGBA(); a == 0 {
		return false
	}
	r.context.SetColor(c)
	return true
}

// ParseColor understands CSS color keywords, transparent, and #rgb and
// #rrggbb hex colors.
func ParseColor(s string) (color.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "transparent" {
		return color.Transparent, true
	}
	if strings.HasPrefix(s, "#") {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, false
		}
		return c.Clamped(), true
	}
	if c, ok := colornames.Map[s]; ok {
		return c, true
	}
	return nil, false
}

func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

func (r *Renderer) SavePNG(filename string) error {
	return r.context.SavePNG(filename)
}

func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}
