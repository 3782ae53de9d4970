package ripple

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// R2 low-discrepancy sequence constants (1/g and 1/g^2 for the plastic number g).
const (
	scatterA1 = 0.7548776662466927
	scatterA2 = 0.5698402909980532
)

// Scatter returns the i-th origin of a well-spread deterministic sequence
// inside [margin, 1-margin]^2. Used for ripples that have no touch position.
func Scatter(i int, margin float32) mgl32.Vec2 {
	fx := frac(0.5 + scatterA1*float32(i))
	fy := frac(0.5 + scatterA2*float32(i))
	span := 1 - 2*margin
	return mgl32.Vec2{margin + fx*span, margin + fy*span}
}

func frac(x float32) float32 {
	return x - math32.Floor(x)
}
