// Package text resolves CSS font properties to measurable faces. Faces come
// from the Go font family bundled with golang.org/x/image, so layout is the
// same on every machine.
package text

import (
	"fmt"
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

type Weight int

const (
	Normal Weight = iota
	Bold
)

type Style int

const (
	Roman Style = iota
	Italic
)

type Family int

const (
	SansSerif Family = iota
	Monospace
)

// DPI makes one point equal 4/3 px, the CSS ratio.
const DPI = 96

// Key identifies a cached font. Size is in points.
type Key struct {
	Size   int
	Weight Weight
	Style  Style
	Family Family
}

func (k Key) String() string {
	w, s, f := "normal", "roman", "sans-serif"
	if k.Weight == Bold {
		w = "bold"
	}
	if k.Style == Italic {
		s = "italic"
	}
	if k.Family == Monospace {
		f = "monospace"
	}
	return fmt.Sprintf("%s %dpt %s %s", f, k.Size, w, s)
}

// Font is a sized face with its metrics. A font.Face is not safe for
// concurrent use, so access to it goes through the font's lock.
type Font struct {
	Key

	mu      sync.Mutex
	face    font.Face
	ascent  float64
	descent float64
	space   float64
}

var (
	cacheMu sync.Mutex
	cache   = make(map[Key]*Font)
	parsed  = make(map[[3]int]*truetype.Font)
)

// Get returns the cached font for key, loading it on first use. Entries
// are never evicted. Sizes below one point are loaded at one point.
func Get(key Key) *Font {
	// truetype reads a zero size as its 12pt default.
	key.Size = max(key.Size, 1)

	cacheMu.Lock()
	defer cacheMu.Unlock()

	if f, ok := cache[key]; ok {
		return f
	}
	face := truetype.NewFace(ttf(key), &truetype.Options{
		Size:    float64(key.Size),
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	m := face.Metrics()
	f := &Font{
		Key:     key,
		face:    face,
		ascent:  toFloat(m.Ascent),
		descent: toFloat(m.Descent),
	}
	f.space = f.measure(" ")
	cache[key] = f
	return f
}

// Resolve maps computed CSS values to a font: size in px (converted to
// whole points, at least one), weight "normal"/"bold", style "normal"/"italic". Any other
// weight or style is a programming error upstream and panics.
func Resolve(sizePx float64, weight, style, family string) *Font {
	key := Key{Size: int(sizePx * 0.75), Family: ParseFamily(family)}
	switch weight {
	case "normal":
	case "bold":
		key.Weight = Bold
	default:
		panic(fmt.Sprintf("text: unknown font weight %q", weight))
	}
	switch style {
	case "normal":
	case "italic":
		key.Style = Italic
	default:
		panic(fmt.Sprintf("text: unknown font style %q", style))
	}
	return Get(key)
}

// ParseFamily picks the family from a font-family list. Anything naming a
// monospace face is Monospace; everything else is SansSerif.
func ParseFamily(list string) Family {
	switch {
	case containsWord(list, "monospace"), containsWord(list, "courier"), containsWord(list, "mono"):
		return Monospace
	}
	return SansSerif
}

func containsWord(list, word string) bool {
	for _, name := range strings.Split(list, ",") {
		name = strings.Trim(strings.TrimSpace(name), `"'`)
		for _, w := range strings.Fields(strings.ToLower(name)) {
			if w == word {
				return true
			}
		}
	}
	return false
}

func (f *Font) Ascent() float64  { return f.ascent }
func (f *Font) Descent() float64 { return f.descent }

// SpaceWidth is the advance of a single space.
func (f *Font) SpaceWidth() float64 { return f.space }

// Measure returns the advance width of s in px.
func (f *Font) Measure(s string) float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.measure(s)
}

func (f *Font) measure(s string) float64 {
	return toFloat(font.MeasureString(f.face, s))
}

// WithFace runs fn while holding the font's lock.
func (f *Font) WithFace(fn func(font.Face)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f.face)
}

func ttf(key Key) *truetype.Font {
	id := [3]int{int(key.Weight), int(key.Style), int(key.Family)}
	if f, ok := parsed[id]; ok {
		return f
	}
	f, err := truetype.Parse(ttfData(key))
	if err != nil {
		// the bundled fonts are known-good
		panic(fmt.Sprintf("text: parse %s: %v", key, err))
	}
	parsed[id] = f
	return f
}

func ttfData(key Key) []byte {
	if key.Family == Monospace {
		switch {
		case key.Weight == Bold && key.Style == Italic:
			return gomonobolditalic.TTF
		case key.Weight == Bold:
			return gomonobold.TTF
		case key.Style == Italic:
			return gomonoitalic.TTF
		}
		return gomono.TTF
	}
	switch {
	case key.Weight == Bold && key.Style == Italic:
		return gobolditalic.TTF
	case key.Weight == Bold:
		return gobold.TTF
	case key.Style == Italic:
		return goitalic.TTF
	}
	return goregular.TTF
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
