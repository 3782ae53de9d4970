package ripple

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

var square = mgl32.Vec2{1, 1}

// along returns the mesh position dist to the right of a centred origin.
func along(dist float32) mgl32.Vec2 {
	return mgl32.Vec2{0.5 + dist, 0.5}
}

func TestDisplacementExpired(t *testing.T) {
	p := Params{Duration: 1, Speed: 1, Size: 0.1}
	origin := mgl32.Vec2{0.5, 0.5}
	for _, elapsed := range []float32{1.0001, 2, 100, 1.0e9} {
		if d := Displacement(p, square, origin, along(elapsed), elapsed); d != (mgl32.Vec2{}) {
			t.Errorf("Expected zero after expiry at elapsed=%f, got %v", elapsed, d)
		}
	}
}

func TestDisplacementOutsideBand(t *testing.T) {
	p := Params{Duration: 1, Speed: 1, Size: 0.1}
	origin := mgl32.Vec2{0.5, 0.5}
	// radius 0.5, band is [0.45, 0.55]
	for _, dist := range []float32{0, 0.1, 0.3, 0.44, 0.56, 0.8} {
		if d := Displacement(p, square, origin, along(dist), 0.5); d != (mgl32.Vec2{}) {
			t.Errorf("Expected zero at distance %f, got %v", dist, d)
		}
		if InBand(p, square, origin, along(dist), 0.5) && dist != 0 {
			t.Errorf("Expected distance %f outside the band", dist)
		}
	}
}

func TestDisplacementInsideBand(t *testing.T) {
	p := Params{Duration: 1, Speed: 1, Size: 0.1}
	origin := mgl32.Vec2{0.5, 0.5}

	// ripplePos = -0.5 gives sin = -1 and amplitude (0.5)^3 * 0.1
	d := Displacement(p, square, origin, along(0.475), 0.5)
	want := mgl32.Vec2{0.0125, 0}
	if !d.ApproxEqualThreshold(want, 1e-4) {
		t.Errorf("Expected %v, got %v", want, d)
	}
	if !InBand(p, square, origin, along(0.475), 0.5) {
		t.Error("Expected distance 0.475 inside the band")
	}
}

// TestDisplacementRadialOnBothAxes checks the offset points the same way
// relative to the centre whichever side of it the sample lies on
func TestDisplacementRadialOnBothAxes(t *testing.T) {
	p := Params{Duration: 1, Speed: 1, Size: 0.1}
	origin := mgl32.Vec2{0.4, 0.3}
	// the same point in y-up texture space
	centre := mgl32.Vec2{origin.X(), 1 - origin.Y()}

	// distance 0.475 at radius 0.5 is ripplePos -0.5, where the lookup moves outward
	const r = 0.475
	offsets := map[string]mgl32.Vec2{
		"right": {r, 0},
		"left":  {-r, 0},
		"above": {0, r},
		"below": {0, -r},
	}
	for side, off := range offsets {
		pos := centre.Add(off)
		d := Displacement(p, square, origin, pos, 0.5)
		radial := d.Dot(centre.Sub(pos))
		if radial >= 0 {
			t.Errorf("%s: expected offset away from the centre, got %v (dot %f)", side, d, radial)
		}
		if !mgl32.FloatEqualThreshold(d.Len(), 0.0125, 1e-4) {
			t.Errorf("%s: expected magnitude 0.0125, got %f", side, d.Len())
		}
	}
}

// TestDisplacementDegenerateParams verifies zero duration or size gives no wave
func TestDisplacementDegenerateParams(t *testing.T) {
	origin := mgl32.Vec2{0.5, 0.5}
	tests := []struct {
		name    string
		p       Params
		pos     mgl32.Vec2
		elapsed float32
	}{
		{"zero duration at start", Params{Duration: 0, Speed: 1, Size: 0.1}, along(0.01), 0},
		{"negative duration", Params{Duration: -1, Speed: 1, Size: 0.1}, along(0.01), -2},
		{"zero size on the ring", Params{Duration: 1, Speed: 1, Size: 0}, along(0.5), 0.5},
		{"negative size", Params{Duration: 1, Speed: 1, Size: -0.1}, along(0.5), 0.5},
	}
	for _, tt := range tests {
		d := Displacement(tt.p, square, origin, tt.pos, tt.elapsed)
		if d != (mgl32.Vec2{}) {
			t.Errorf("%s: expected zero displacement, got %v", tt.name, d)
		}
		if InBand(tt.p, square, origin, tt.pos, tt.elapsed) {
			t.Errorf("%s: expected no active band", tt.name)
		}
	}
}

// TestDisplacementBounded verifies magnitude never exceeds the ripple size
func TestDisplacementBounded(t *testing.T) {
	p := DefaultParams()
	origin := mgl32.Vec2{0.3, 0.6}
	aspect := Aspect(1920, 1080)
	for elapsed := float32(0); elapsed <= p.Duration; elapsed += 0.05 {
		for x := float32(0); x <= 1; x += 0.02 {
			for y := float32(0); y <= 1; y += 0.02 {
				d := Displacement(p, aspect, origin, mgl32.Vec2{x, y}, elapsed)
				if d.Len() > p.Size+1e-6 {
					t.Fatalf("Magnitude %f exceeds size %f at (%f, %f) elapsed %f", d.Len(), p.Size, x, y, elapsed)
				}
			}
		}
	}
}

// TestDisplacementDecays verifies the peak amplitude falls to zero at the duration
func TestDisplacementDecays(t *testing.T) {
	p := Params{Duration: 2, Speed: 0.25, Size: 0.1}
	origin := mgl32.Vec2{0.5, 0.5}
	prev := float32(1)
	for _, elapsed := range []float32{0.4, 0.8, 1.2, 1.6, 1.9, 2.0} {
		// sample at ripplePos = -0.5 where |sin| is 1
		dist := p.Speed*elapsed - p.Size/4
		mag := Displacement(p, square, origin, along(dist), elapsed).Len()
		if mag >= prev {
			t.Errorf("Expected decay at elapsed %f: %f >= %f", elapsed, mag, prev)
		}
		prev = mag
	}
	if prev > 1e-6 {
		t.Errorf("Expected zero amplitude at the duration, got %f", prev)
	}
}

// TestFrameSumScenario covers two slots, one ripple, half way through a one second wave
func TestFrameSumScenario(t *testing.T) {
	s, err := NewStore(2, Params{Duration: 1, Speed: 1, Size: 0.1})
	if err != nil {
		t.Fatal(err)
	}
	s.SetScreenSize(640, 640)
	const t0 = 10
	s.AddRipple(0.5, 0.5, t0)
	s.SetTime(t0 + 0.5)
	f := s.Snapshot()

	origin := mgl32.Vec2{0.5, 0.5}
	for x := float32(0); x <= 1; x += 1.0 / 64 {
		for y := float32(0); y <= 1; y += 1.0 / 64 {
			pos := mgl32.Vec2{x, y}
			sum := f.Sum(pos)
			if !InBand(f.Params, f.Aspect, origin, pos, 0.5) && sum != (mgl32.Vec2{}) {
				t.Fatalf("Expected zero outside the band at %v, got %v", pos, sum)
			}
		}
	}
	if sum := f.Sum(along(0.475)); sum.Len() < 0.01 {
		t.Errorf("Expected visible displacement inside the band, got %v", sum)
	}
}

func TestOriginFromPixel(t *testing.T) {
	got := OriginFromPixel(480, 135, 1920, 1080)
	if !got.ApproxEqual(mgl32.Vec2{0.25, 0.125}) {
		t.Errorf("Expected (0.25, 0.125), got %v", got)
	}
	if got := OriginFromPixel(10, 10, 0, 100); got != (mgl32.Vec2{}) {
		t.Errorf("Expected zero origin for empty viewport, got %v", got)
	}
}
