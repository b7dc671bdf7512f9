package wheel

import "math"

const (
	// PointerAngle is where the fixed pointer sits in the wheel's unrotated
	// frame: 0° points right and angles grow clockwise, so 270° is straight up.
	PointerAngle = 270.0
	// FullTurns is the fixed number of whole revolutions added to every spin.
	FullTurns = 14
)

// Resolve returns the index of the slice under the pointer after the wheel
// has been rotated by rotation degrees (cumulative, any sign). Slices are
// equal and laid out in list order starting at local angle 0. It returns -1
// when n is not positive.
func Resolve(rotation float64, n int) int {
	if n <= 0 {
		return -1
	}
	angle := math.Mod(math.Mod(PointerAngle-rotation, 360)+360, 360)
	slice := 360 / float64(n)
	// The outer modulo keeps angles that round up to 360 in range.
	idx := int(math.Floor(angle/slice)) % n
	if idx < 0 {
		idx += n
	}
	return idx
}

// NextRotation adds FullTurns revolutions plus a random remainder to prev.
// r is expected in [0,1), typically rand.Float64().
func NextRotation(prev, r float64) float64 {
	return NextRotationTurns(prev, FullTurns, r)
}

// NextRotationTurns is NextRotation with a configurable number of turns.
func NextRotationTurns(prev float64, turns int, r float64) float64 {
	return prev + float64(turns)*360 + r*360
}
