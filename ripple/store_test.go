package ripple

import (
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewStoreRejectsNonPositive(t *testing.T) {
	for _, n := range []int{0, -3} {
		if _, err := NewStore(n, DefaultParams()); err == nil {
			t.Errorf("Expected error for n=%d", n)
		}
	}
}

// TestNewStoreUnusedSlots verifies fresh slots carry the far-past sentinel
func TestNewStoreUnusedSlots(t *testing.T) {
	s, err := NewStore(DefaultCount, DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if s.Len() != DefaultCount {
		t.Fatalf("Expected %d slots, got %d", DefaultCount, s.Len())
	}
	for i := 0; i < s.Len(); i++ {
		if got := s.Slot(i).Start; got != UnusedStart {
			t.Errorf("Expected slot %d start %f, got %f", i, UnusedStart, got)
		}
	}
	if s.Cursor() != 0 {
		t.Errorf("Expected cursor 0, got %d", s.Cursor())
	}
}

// TestAddRippleWraparound verifies insertion k and k+N land in the same slot
func TestAddRippleWraparound(t *testing.T) {
	for n := 1; n <= 6; n++ {
		s, _ := NewStore(n, DefaultParams())
		for k := 0; k <= n; k++ {
			s.AddRipple(float32(k), float32(-k), float32(k)*0.25)
		}

		// slot 0 now holds insertion n, the rest hold insertions 1..n-1
		if got := s.Slot(0); got.Origin != (mgl32.Vec2{float32(n), float32(-n)}) || got.Start != float32(n)*0.25 {
			t.Errorf("N=%d: expected slot 0 overwritten by insertion %d, got %+v", n, n, got)
		}
		for i := 1; i < n; i++ {
			if got := s.Slot(i); got.Origin.X() != float32(i) {
				t.Errorf("N=%d: expected slot %d to hold insertion %d, got %+v", n, i, i, got)
			}
		}
		if want := 1 % n; s.Cursor() != want {
			t.Errorf("N=%d: expected cursor %d, got %d", n, want, s.Cursor())
		}
	}
}

func TestAspect(t *testing.T) {
	tests := []struct {
		w, h int
		want mgl32.Vec2
	}{
		{1920, 1080, mgl32.Vec2{1, 1080.0 / 1920.0}},
		{1080, 1920, mgl32.Vec2{1080.0 / 1920.0, 1}},
		{512, 512, mgl32.Vec2{1, 1}},
		{3, 1, mgl32.Vec2{1, 1.0 / 3.0}},
		{1, 2, mgl32.Vec2{0.5, 1}},
	}
	for _, tt := range tests {
		if got := Aspect(tt.w, tt.h); !got.ApproxEqual(tt.want) {
			t.Errorf("Aspect(%d, %d): expected %v, got %v", tt.w, tt.h, tt.want, got)
		}
	}

	// the larger dimension always maps to exactly 1
	for w := 1; w < 50; w += 7 {
		for h := 1; h < 50; h += 5 {
			a := Aspect(w, h)
			if a.X() > 1 || a.Y() > 1 || (a.X() != 1 && a.Y() != 1) {
				t.Errorf("Aspect(%d, %d) = %v breaks the larger-is-one rule", w, h, a)
			}
		}
	}
}

func TestSetters(t *testing.T) {
	s, _ := NewStore(2, DefaultParams())
	if s.Duration() != 3.0 || s.RippleSpeed() != 0.3 || s.RippleSize() != 0.08 {
		t.Errorf("Expected default params, got %v %v %v", s.Duration(), s.RippleSpeed(), s.RippleSize())
	}

	s.SetTime(4.5)
	s.SetDuration(1.5)
	s.SetRippleSpeed(0.7)
	s.SetRippleSize(0.2)
	s.SetScreenSize(200, 100)

	f := s.Snapshot()
	if f.Time != 4.5 || s.Time() != 4.5 {
		t.Errorf("Expected time 4.5, got %f", f.Time)
	}
	want := Params{Duration: 1.5, Speed: 0.7, Size: 0.2}
	if f.Params != want {
		t.Errorf("Expected params %+v, got %+v", want, f.Params)
	}
	if f.Aspect != (mgl32.Vec2{1, 0.5}) || s.Aspect() != f.Aspect {
		t.Errorf("Expected aspect (1, 0.5), got %v", f.Aspect)
	}
}

// TestSnapshotIsCopy verifies later insertions do not alter a taken snapshot
func TestSnapshotIsCopy(t *testing.T) {
	s, _ := NewStore(2, DefaultParams())
	s.AddRipple(0.1, 0.2, 1)
	f := s.Snapshot()
	s.AddRipple(0.3, 0.4, 2)
	s.AddRipple(0.5, 0.6, 3)
	if f.Slots[0].Start != 1 || f.Slots[1].Start != UnusedStart {
		t.Errorf("Snapshot changed after insertion: %+v", f.Slots)
	}
}

// TestConcurrentAddRipple exercises input goroutines racing the render thread
func TestConcurrentAddRipple(t *testing.T) {
	s, _ := NewStore(4, DefaultParams())
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				s.AddRipple(float32(g), float32(i), float32(i))
			}
		}(g)
	}
	for i := 0; i < 100; i++ {
		if f := s.Snapshot(); len(f.Slots) != 4 {
			t.Fatalf("Expected 4 slots, got %d", len(f.Slots))
		}
	}
	wg.Wait()

	// 800 insertions into 4 slots wrap the cursor back to 0
	if s.Cursor() != 0 {
		t.Errorf("Expected cursor 0 after 800 insertions, got %d", s.Cursor())
	}
}
