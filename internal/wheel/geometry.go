package wheel

import (
	"math"

	"wisdom-spin/internal/domain"
)

const (
	// MinSize and MaxSize bound the on-screen wheel diameter.
	MinSize = 170.0
	MaxSize = 210.0

	maxLabelRunes  = 8
	keptLabelRunes = 6
	labelRadius    = 0.88
	gradientInner  = 0.1
	shadePercent   = -25
	rimInset       = 8
	crowdedWheel   = 10
)

// Slice is one participant's wedge. Angles are radians in the unrotated frame.
type Slice struct {
	Index      int
	Start      float64
	End        float64
	Mid        float64
	Label      string
	Color      string
	ShadeColor string
	// LabelX/LabelY is the right-hand anchor of the label relative to the centre.
	LabelX float64
	LabelY float64
}

// Geometry is everything needed to draw a wheel of a given size.
type Geometry struct {
	Size        float64
	Center      float64
	Radius      float64
	HubRadius   float64
	FontSize    float64
	InnerRadius float64
	Slices      []Slice
}

// FitSize picks a wheel diameter for a viewport, leaving room for the rest of the UI.
func FitSize(width, height float64) float64 {
	s := math.Min(width*0.60, height*0.28)
	if s > MaxSize {
		s = MaxSize
	}
	if s < MinSize {
		s = MinSize
	}
	return s
}

// Layout partitions the wheel into equal slices in participant order.
func Layout(participants []domain.Participant, size float64) Geometry {
	center := size / 2
	radius := center - rimInset
	g := Geometry{
		Size:        size,
		Center:      center,
		Radius:      radius,
		HubRadius:   size / 12,
		FontSize:    size / 18,
		InnerRadius: radius * gradientInner,
	}
	if len(participants) > crowdedWheel {
		g.FontSize = size / 22
	}
	if len(participants) == 0 {
		return g
	}

	width := 2 * math.Pi / float64(len(participants))
	g.Slices = make([]Slice, len(participants))
	for i, p := range participants {
		start := float64(i) * width
		mid := start + width/2
		g.Slices[i] = Slice{
			Index:      i,
			Start:      start,
			End:        start + width,
			Mid:        mid,
			Label:      TruncateLabel(p.Name),
			Color:      p.Color,
			ShadeColor: AdjustColor(p.Color, shadePercent),
			LabelX:     math.Cos(mid) * radius * labelRadius,
			LabelY:     math.Sin(mid) * radius * labelRadius,
		}
	}
	return g
}

// TruncateLabel shortens names longer than eight characters to six plus "..".
func TruncateLabel(name string) string {
	runes := []rune(name)
	if len(runes) > maxLabelRunes {
		return string(runes[:keptLabelRunes]) + ".."
	}
	return name
}

// SliceAt returns the slice under the pointer for the given rotation.
func (g Geometry) SliceAt(rotation float64) (Slice, bool) {
	idx := Resolve(rotation, len(g.Slices))
	if idx < 0 {
		return Slice{}, false
	}
	return g.Slices[idx], true
}
