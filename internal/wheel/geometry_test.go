package wheel

import (
	"bytes"
	"image/png"
	"math"
	"testing"

	"wisdom-spin/internal/domain"
)

func TestAdjustColor(t *testing.T) {
	cases := []struct {
		in      string
		percent float64
		want    string
	}{
		{"#d4af37", -25, "#946f00"},
		{"#000000", -25, "#000000"},
		{"#ffffff", 10, "#ffffff"},
		{"#102030", 20, "#435363"},
		{"#3b82f6", 0, "#3b82f6"},
		{"not-a-color", -25, "not-a-color"},
	}
	for _, tc := range cases {
		if got := AdjustColor(tc.in, tc.percent); got != tc.want {
			t.Fatalf("AdjustColor(%q, %v) = %q, want %q", tc.in, tc.percent, got, tc.want)
		}
	}
}

func TestTruncateLabel(t *testing.T) {
	cases := map[string]string{
		"Alice":       "Alice",
		"Abcdefgh":    "Abcdefgh",
		"Abcdefghi":   "Abcdef..",
		"عبدالرحمنين": "عبدالر..",
	}
	for in, want := range cases {
		if got := TruncateLabel(in); got != want {
			t.Fatalf("TruncateLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFitSize(t *testing.T) {
	if got := FitSize(2000, 2000); got != MaxSize {
		t.Fatalf("expected clamp to %v, got %v", MaxSize, got)
	}
	if got := FitSize(100, 100); got != MinSize {
		t.Fatalf("expected clamp to %v, got %v", MinSize, got)
	}
	if got := FitSize(300, 2000); got != 180 {
		t.Fatalf("expected 180, got %v", got)
	}
}

func TestLayoutSlices(t *testing.T) {
	g := Layout(participants("Alice", "Bob", "Charlie", "Dana"), 200)
	if g.Center != 100 || g.Radius != 92 {
		t.Fatalf("unexpected centre/radius %v/%v", g.Center, g.Radius)
	}
	if len(g.Slices) != 4 {
		t.Fatalf("expected 4 slices, got %d", len(g.Slices))
	}
	for i, s := range g.Slices {
		wantStart := float64(i) * math.Pi / 2
		if math.Abs(s.Start-wantStart) > 1e-9 || math.Abs(s.End-s.Start-math.Pi/2) > 1e-9 {
			t.Fatalf("slice %d has bounds %v..%v", i, s.Start, s.End)
		}
		if s.ShadeColor != AdjustColor(s.Color, -25) {
			t.Fatalf("slice %d shade %q does not match color %q", i, s.ShadeColor, s.Color)
		}
		if r := math.Hypot(s.LabelX, s.LabelY); math.Abs(r-92*0.88) > 1e-9 {
			t.Fatalf("slice %d label anchor at radius %v", i, r)
		}
	}
	if g.FontSize != 200.0/18 {
		t.Fatalf("expected regular font size, got %v", g.FontSize)
	}
}

func TestLayoutShrinksFontForCrowdedWheel(t *testing.T) {
	names := make([]string, 11)
	for i := range names {
		names[i] = string(rune('A' + i))
	}
	g := Layout(participants(names...), 220)
	if g.FontSize != 10 {
		t.Fatalf("expected font size 10, got %v", g.FontSize)
	}
}

func TestSliceAtMatchesResolve(t *testing.T) {
	g := Layout(participants("A", "B", "C"), 200)
	s, ok := g.SliceAt(270)
	if !ok || s.Index != 0 {
		t.Fatalf("expected slice 0, got %+v ok=%v", s, ok)
	}
	if _, ok := Layout(nil, 200).SliceAt(0); ok {
		t.Fatalf("empty wheel has no slice under the pointer")
	}
}

func TestRenderProducesPNG(t *testing.T) {
	g := Layout(participants("Alice", "Bob", "Christopher"), 200)
	img, err := Render(g, 123)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 200 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if _, _, _, a := img.At(100, 60).RGBA(); a == 0 {
		t.Fatalf("expected the disc to be painted inside the radius")
	}
	if _, _, _, a := img.At(1, 199).RGBA(); a != 0 {
		t.Fatalf("expected transparent corner")
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode: %v", err)
	}
}

func TestRenderEmptyWheel(t *testing.T) {
	img, err := Render(Layout(nil, 170), 0)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if img.Bounds().Dx() != 170 {
		t.Fatalf("unexpected width %d", img.Bounds().Dx())
	}
}

func participants(names ...string) []domain.Participant {
	out := make([]domain.Participant, len(names))
	for i, n := range names {
		out[i] = domain.Participant{ID: n, Name: n, Color: domain.Palette[i%len(domain.Palette)]}
	}
	return out
}
