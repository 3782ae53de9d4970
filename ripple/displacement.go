package ripple

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Displacement evaluates the ripple wave on the CPU exactly as the vertex
// stage does. position is the mesh position in [0,1]^2 with y up; origin is in
// the y-down space produced by OriginFromPixel. The result is a texture
// coordinate offset, so it is y-up like position.
func Displacement(p Params, aspect, origin, position mgl32.Vec2, elapsed float32) mgl32.Vec2 {
	delta, ripplePos, ok := band(p, aspect, origin, position, elapsed)
	if !ok || delta.Len() == 0 {
		return mgl32.Vec2{}
	}

	fade := 1 - elapsed/p.Duration
	amplitude := fade * fade * fade * p.Size
	d := delta.Normalize().Mul(math32.Sin(ripplePos*math32.Pi) * amplitude)
	return mgl32.Vec2{d.X(), -d.Y()}
}

// InBand reports whether a surface position lies inside the active ring of a
// ripple that started elapsed seconds ago.
func InBand(p Params, aspect, origin, position mgl32.Vec2, elapsed float32) bool {
	_, _, ok := band(p, aspect, origin, position, elapsed)
	return ok
}

// band returns the aspect-space vector from the surface to the ripple centre
// and the position within the ring, where [-1,1] spans its width. A zero
// duration or size has no ring.
func band(p Params, aspect, origin, position mgl32.Vec2, elapsed float32) (mgl32.Vec2, float32, bool) {
	if p.Duration <= 0 || p.Size <= 0 || elapsed > p.Duration {
		return mgl32.Vec2{}, 0, false
	}
	surface := scale(mgl32.Vec2{position.X(), 1 - position.Y()}, aspect)
	delta := scale(origin, aspect).Sub(surface)
	ripplePos := (delta.Len() - p.Speed*elapsed) / (p.Size / 2)
	return delta, ripplePos, ripplePos >= -1 && ripplePos <= 1
}

// Sum adds the displacement of every slot in f at position, the way the
// fragment stage accumulates the per-ripple varyings.
func (f Frame) Sum(position mgl32.Vec2) mgl32.Vec2 {
	var total mgl32.Vec2
	for _, slot := range f.Slots {
		total = total.Add(Displacement(f.Params, f.Aspect, slot.Origin, position, f.Time-slot.Start))
	}
	return total
}

// OriginFromPixel converts a framebuffer pixel (origin top-left) into ripple
// origin space.
func OriginFromPixel(px, py float64, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{float32(px / float64(width)), float32(py / float64(height))}
}

func scale(v, by mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{v.X() * by.X(), v.Y() * by.Y()}
}
