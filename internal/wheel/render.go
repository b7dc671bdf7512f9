package wheel

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/f64"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

var (
	rimColor      = mustHex("#d4af37")
	pointerFill   = mustHex("#fbbf24")
	pointerStroke = mustHex("#78350f")
	emptyFill     = color.NRGBA{R: 255, G: 255, B: 255, A: 5}
	emptyStroke   = color.NRGBA{R: 251, G: 191, B: 36, A: 38}
	separator     = color.NRGBA{R: 255, G: 255, B: 255, A: 15}
	labelShadow   = color.NRGBA{A: 102}

	hubStops = []gradientStop{
		{0, mustHex("#fffbeb")},
		{0.5, mustHex("#fbbf24")},
		{1, mustHex("#92400e")},
	}
)

var (
	labelFontOnce sync.Once
	labelFont     *opentype.Font
	labelFontErr  error
)

// Render draws the wheel rotated clockwise by rotation degrees, with the
// pointer fixed at the top. The returned image is transparent outside the disc.
func Render(g Geometry, rotation float64) (*image.RGBA, error) {
	side := int(math.Ceil(g.Size))
	if side <= 0 {
		return nil, fmt.Errorf("render wheel: invalid size %v", g.Size)
	}
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	rot := rotation * math.Pi / 180

	if len(g.Slices) == 0 {
		fillCircle(dst, g.Center, g.Center, g.Radius, image.NewUniform(emptyFill))
		fillRing(dst, g.Center, g.Center, g.Radius+0.5, g.Radius-0.5, image.NewUniform(emptyStroke))
		drawPointer(dst, g)
		return dst, nil
	}

	for _, s := range g.Slices {
		grad := &radialGradient{
			cx: g.Center, cy: g.Center,
			r0: g.InnerRadius, r1: g.Radius,
			stops: []gradientStop{{0, mustHex(s.Color)}, {1, mustHex(s.ShadeColor)}},
		}
		fillWedge(dst, g.Center, g.Center, g.Radius, s.Start+rot, s.End+rot, grad)
		fillSpoke(dst, g.Center, g.Center, g.Radius, s.Start+rot, 0.25, image.NewUniform(separator))
	}

	face, err := newLabelFace(g.FontSize)
	if err != nil {
		return nil, err
	}
	defer face.Close()
	for _, s := range g.Slices {
		drawLabel(dst, g, face, s, rot)
	}

	fillRing(dst, g.Center, g.Center, g.Radius+2, g.Radius, image.NewUniform(rimColor))
	hub := &radialGradient{cx: g.Center - 2, cy: g.Center - 2, r0: 0, r1: g.HubRadius, stops: hubStops}
	fillCircle(dst, g.Center, g.Center, g.HubRadius, hub)
	drawPointer(dst, g)
	return dst, nil
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func newLabelFace(size float64) (font.Face, error) {
	labelFontOnce.Do(func() {
		labelFont, labelFontErr = opentype.Parse(gobold.TTF)
	})
	if labelFontErr != nil {
		return nil, fmt.Errorf("parse label font: %w", labelFontErr)
	}
	face, err := opentype.NewFace(labelFont, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("label face: %w", err)
	}
	return face, nil
}

// drawLabel renders the label into a strip and maps it onto the slice's mid
// axis, right-aligned at the label radius.
func drawLabel(dst draw.Image, g Geometry, face font.Face, s Slice, rot float64) {
	if s.Label == "" {
		return
	}
	metrics := face.Metrics()
	w := font.MeasureString(face, s.Label).Ceil() + 1
	h := (metrics.Ascent + metrics.Descent).Ceil() + 1
	if w <= 1 || h <= 1 {
		return
	}
	strip := image.NewRGBA(image.Rect(0, 0, w, h))
	baseline := metrics.Ascent.Ceil()
	shadow := font.Drawer{Dst: strip, Src: image.NewUniform(labelShadow), Face: face, Dot: fixed.P(1, baseline+1)}
	shadow.DrawString(s.Label)
	text := font.Drawer{Dst: strip, Src: image.White, Face: face, Dot: fixed.P(0, baseline)}
	text.DrawString(s.Label)

	theta := s.Mid + rot
	cos, sin := math.Cos(theta), math.Sin(theta)
	offset := g.Radius*labelRadius - float64(w)
	half := float64(h) / 2
	s2d := f64.Aff3{
		cos, -sin, g.Center + offset*cos + half*sin,
		sin, cos, g.Center + offset*sin - half*cos,
	}
	xdraw.BiLinear.Transform(dst, s2d, strip, strip.Bounds(), xdraw.Over, nil)
}

func drawPointer(dst draw.Image, g Geometry) {
	// 14x20 glyph whose tip points down into the rim.
	const w, h = 14.0, 20.0
	top := -3.0
	base := top + h/6
	z := vector.NewRasterizer(dst.Bounds().Dx(), dst.Bounds().Dy())
	triangle(z, g.Center, top+h+1.3, g.Center-w/2-1.3, base-1, g.Center+w/2+1.3, base-1)
	z.Draw(dst, dst.Bounds(), image.NewUniform(pointerStroke), image.Point{})
	z.Reset(dst.Bounds().Dx(), dst.Bounds().Dy())
	triangle(z, g.Center, top+h, g.Center-w/2, base, g.Center+w/2, base)
	z.Draw(dst, dst.Bounds(), image.NewUniform(pointerFill), image.Point{})
}

func triangle(z *vector.Rasterizer, x0, y0, x1, y1, x2, y2 float64) {
	z.MoveTo(float32(x0), float32(y0))
	z.LineTo(float32(x1), float32(y1))
	z.LineTo(float32(x2), float32(y2))
	z.ClosePath()
}

func fillWedge(dst draw.Image, cx, cy, r, start, end float64, src image.Image) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(cx), float32(cy))
	steps := arcSteps(r, end-start)
	for i := 0; i <= steps; i++ {
		a := start + (end-start)*float64(i)/float64(steps)
		z.LineTo(float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a)))
	}
	z.ClosePath()
	z.Draw(dst, b, src, image.Point{})
}

func fillSpoke(dst draw.Image, cx, cy, r, angle, halfWidth float64, src image.Image) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	nx, ny := -math.Sin(angle)*halfWidth, math.Cos(angle)*halfWidth
	ex, ey := cx+r*math.Cos(angle), cy+r*math.Sin(angle)
	z.MoveTo(float32(cx+nx), float32(cy+ny))
	z.LineTo(float32(ex+nx), float32(ey+ny))
	z.LineTo(float32(ex-nx), float32(ey-ny))
	z.LineTo(float32(cx-nx), float32(cy-ny))
	z.ClosePath()
	z.Draw(dst, b, src, image.Point{})
}

func fillCircle(dst draw.Image, cx, cy, r float64, src image.Image) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	circlePath(z, cx, cy, r, false)
	z.Draw(dst, b, src, image.Point{})
}

// fillRing fills the band between outer and inner radius. The inner circle
// is wound the other way so its coverage cancels out.
func fillRing(dst draw.Image, cx, cy, outer, inner float64, src image.Image) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	circlePath(z, cx, cy, outer, false)
	circlePath(z, cx, cy, inner, true)
	z.Draw(dst, b, src, image.Point{})
}

func circlePath(z *vector.Rasterizer, cx, cy, r float64, reverse bool) {
	steps := arcSteps(r, 2*math.Pi)
	for i := 0; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		if reverse {
			a = -a
		}
		x, y := float32(cx+r*math.Cos(a)), float32(cy+r*math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
			continue
		}
		z.LineTo(x, y)
	}
	z.ClosePath()
}

func arcSteps(r, sweep float64) int {
	steps := int(math.Ceil(r * math.Abs(sweep) / 2))
	if steps < 8 {
		steps = 8
	}
	return steps
}

type gradientStop struct {
	at float64
	c  color.RGBA
}

// radialGradient is an unbounded image whose color depends on the distance
// from (cx, cy), mapped linearly from r0..r1 onto the stops.
type radialGradient struct {
	cx, cy float64
	r0, r1 float64
	stops  []gradientStop
}

func (g *radialGradient) ColorModel() color.Model { return color.RGBAModel }

func (g *radialGradient) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

func (g *radialGradient) At(x, y int) color.Color {
	d := math.Hypot(float64(x)+0.5-g.cx, float64(y)+0.5-g.cy)
	t := 0.0
	if g.r1 > g.r0 {
		t = (d - g.r0) / (g.r1 - g.r0)
	}
	return g.colorAt(t)
}

func (g *radialGradient) colorAt(t float64) color.RGBA {
	if len(g.stops) == 0 {
		return color.RGBA{}
	}
	if t <= g.stops[0].at {
		return g.stops[0].c
	}
	for i := 1; i < len(g.stops); i++ {
		lo, hi := g.stops[i-1], g.stops[i]
		if t <= hi.at {
			f := (t - lo.at) / (hi.at - lo.at)
			return color.RGBA{
				R: lerp(lo.c.R, hi.c.R, f),
				G: lerp(lo.c.G, hi.c.G, f),
				B: lerp(lo.c.B, hi.c.B, f),
				A: lerp(lo.c.A, hi.c.A, f),
			}
		}
	}
	return g.stops[len(g.stops)-1].c
}

func lerp(a, b uint8, f float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*f))
}
