package ripple

import (
	"fmt"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// UnusedStart is the start time given to slots that never held a ripple. It is
// far enough in the past that every displacement evaluates to zero.
const UnusedStart float32 = -1.0e9

// Slot is one ring-buffer entry.
type Slot struct {
	Origin mgl32.Vec2
	Start  float32
}

// Frame is a consistent copy of everything uploaded for one draw.
type Frame struct {
	Slots  []Slot
	Time   float32
	Params Params
	Aspect mgl32.Vec2
}

// Store holds a fixed number of ripple slots that are overwritten oldest
// first, together with the global frame parameters. It is safe to call
// AddRipple from an input goroutine while the render thread takes snapshots.
type Store struct {
	mutex  sync.Mutex
	slots  []Slot
	cursor int
	time   float32
	params Params
	aspect mgl32.Vec2
}

func NewStore(n int, params Params) (*Store, error) {
	if n <= 0 {
		return nil, fmt.Errorf("ripple count must be positive, got %d", n)
	}
	s := &Store{
		slots:  make([]Slot, n),
		params: params,
		aspect: mgl32.Vec2{1, 1},
	}
	for i := range s.slots {
		s.slots[i].Start = UnusedStart
	}
	return s, nil
}

// Len returns the fixed slot count.
func (s *Store) Len() int { return len(s.slots) }

// AddRipple overwrites the slot under the write cursor and advances it.
// Coordinates are not range checked; far-away origins never reach the band.
func (s *Store) AddRipple(x, y, start float32) {
	s.mutex.Lock()
	s.slots[s.cursor] = Slot{Origin: mgl32.Vec2{x, y}, Start: start}
	s.cursor = (s.cursor + 1) % len(s.slots)
	s.mutex.Unlock()
}

// Slot returns a copy of slot i. It panics if i is outside [0, Len()).
func (s *Store) Slot(i int) Slot {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.slots[i]
}

// Cursor returns the index the next AddRipple will overwrite.
func (s *Store) Cursor() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.cursor
}

func (s *Store) SetTime(t float32) {
	s.mutex.Lock()
	s.time = t
	s.mutex.Unlock()
}

func (s *Store) Time() float32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.time
}

func (s *Store) Duration() float32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.params.Duration
}

func (s *Store) SetDuration(d float32) {
	s.mutex.Lock()
	s.params.Duration = d
	s.mutex.Unlock()
}

func (s *Store) RippleSpeed() float32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.params.Speed
}

func (s *Store) SetRippleSpeed(speed float32) {
	s.mutex.Lock()
	s.params.Speed = speed
	s.mutex.Unlock()
}

func (s *Store) RippleSize() float32 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.params.Size
}

func (s *Store) SetRippleSize(size float32) {
	s.mutex.Lock()
	s.params.Size = size
	s.mutex.Unlock()
}

// SetScreenSize recomputes the aspect pair from the viewport dimensions.
func (s *Store) SetScreenSize(width, height int) {
	aspect := Aspect(width, height)
	s.mutex.Lock()
	s.aspect = aspect
	s.mutex.Unlock()
}

func (s *Store) Aspect() mgl32.Vec2 {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.aspect
}

// Snapshot copies the slots and globals under a single lock so an upload never
// sees a half-written ripple.
func (s *Store) Snapshot() Frame {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	slots := make([]Slot, len(s.slots))
	copy(slots, s.slots)
	return Frame{
		Slots:  slots,
		Time:   s.time,
		Params: s.params,
		Aspect: s.aspect,
	}
}

// Aspect maps the larger screen dimension to 1.0 and the smaller one to its
// fraction of the larger. Equal dimensions give (1, 1).
func Aspect(width, height int) mgl32.Vec2 {
	switch {
	case width > height:
		return mgl32.Vec2{1, float32(height) / float32(width)}
	case height > width:
		return mgl32.Vec2{float32(width) / float32(height), 1}
	default:
		return mgl32.Vec2{1, 1}
	}
}
