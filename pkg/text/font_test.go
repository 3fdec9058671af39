package text

import "testing"

func TestGet_Cached(t *testing.T) {
	key := Key{Size: 12}
	a := Get(key)
	b := Get(key)
	if a != b {
		t.Error("same key must return the same font")
	}
	if Get(Key{Size: 12, Weight: Bold}) == a {
		t.Error("different weight must return a different font")
	}
}

func TestResolve_PointSize(t *testing.T) {
	f := Resolve(16, "normal", "normal", "sans-serif")
	if f.Size != 12 {
		t.Errorf("16px should be 12pt, got %d", f.Size)
	}
	if Resolve(15, "bold", "italic", "").Size != 11 {
		t.Errorf("15px should truncate to 11pt")
	}
}

func TestResolve_TinySizesNeverGrow(t *testing.T) {
	if got := Resolve(1, "normal", "normal", "").Size; got != 1 {
		t.Errorf("1px should clamp to 1pt, got %d", got)
	}
	prev := Resolve(0.5, "normal", "normal", "")
	for _, px := range []float64{1, 1.5, 2, 4, 8, 12, 16} {
		f := Resolve(px, "normal", "normal", "")
		if f.Ascent() < prev.Ascent() {
			t.Errorf("%gpx has ascent %v, smaller than the %v of a smaller size", px, f.Ascent(), prev.Ascent())
		}
		prev = f
	}
	if Resolve(1, "normal", "normal", "").Ascent() >= Resolve(12, "normal", "normal", "").Ascent() {
		t.Error("1px text must be shorter than 12px text")
	}
}

func TestGet_ZeroSizeClamped(t *testing.T) {
	if Get(Key{}) != Get(Key{Size: 1}) {
		t.Error("zero size should share the 1pt font")
	}
}

func TestResolve_UnknownWeightPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown weight")
		}
	}()
	Resolve(16, "600", "normal", "")
}

func TestResolve_UnknownStylePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown style")
		}
	}()
	Resolve(16, "normal", "oblique", "")
}

func TestMetrics(t *testing.T) {
	f := Get(Key{Size: 12})
	if f.Ascent() <= 0 || f.Descent() <= 0 {
		t.Errorf("expected positive metrics, got ascent=%v descent=%v", f.Ascent(), f.Descent())
	}
	if f.SpaceWidth() <= 0 {
		t.Errorf("expected positive space width, got %v", f.SpaceWidth())
	}
	if f.Measure("") != 0 {
		t.Error("empty string has no width")
	}
	if f.Measure("hello world") <= f.Measure("hello") {
		t.Error("longer text should be wider")
	}
	big := Get(Key{Size: 24})
	if big.Measure("hello") <= f.Measure("hello") {
		t.Error("larger size should be wider")
	}
}

func TestMonospace(t *testing.T) {
	f := Resolve(16, "normal", "normal", `"Courier New", monospace`)
	if f.Family != Monospace {
		t.Fatalf("expected monospace family")
	}
	if f.Measure("iii") != f.Measure("WWW") {
		t.Errorf("monospace glyphs should share an advance")
	}
}

func TestParseFamily(t *testing.T) {
	tests := map[string]Family{
		"":                   SansSerif,
		"sans-serif":         SansSerif,
		"Times, serif":       SansSerif,
		"monospace":          Monospace,
		"'DejaVu Sans Mono'": Monospace,
	}
	for in, want := range tests {
		if got := ParseFamily(in); got != want {
			t.Errorf("ParseFamily(%q) = %v, want %v", in, got, want)
		}
	}
}
