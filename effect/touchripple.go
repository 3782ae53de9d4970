package effect

import (
	"fmt"
	"log"
	"sync"

	"github.com/richinsley/gotouchripple/graphics"
	"github.com/richinsley/gotouchripple/ripple"
	"github.com/richinsley/gotouchripple/shader"
)

// TouchRipple distorts the frame with up to N expanding rings, one per recent
// touch. It implements graphics.Filter.
type TouchRipple struct {
	store          *ripple.Store
	isGLES         bool
	vertexSource   string
	fragmentSource string

	program     graphics.Program
	originLocs  []int32
	startLocs   []int32
	timeLoc     int32
	durationLoc int32
	speedLoc    int32
	sizeLoc     int32
	aspectLoc   int32

	warnOnce sync.Once
}

var _ graphics.Filter = (*TouchRipple)(nil)

// NewTouchRipple creates the effect for n simultaneous ripples. The shader
// source is generated immediately; Install compiles it.
func NewTouchRipple(n int, params ripple.Params, isGLES bool) (*TouchRipple, error) {
	store, err := ripple.NewStore(n, params)
	if err != nil {
		return nil, err
	}
	tr := &TouchRipple{
		store:      store,
		isGLES:     isGLES,
		originLocs: make([]int32, n),
		startLocs:  make([]int32, n),
	}
	if err := tr.generate(); err != nil {
		return nil, err
	}
	return tr, nil
}

func (tr *TouchRipple) generate() error {
	var err error
	n := tr.store.Len()
	if tr.vertexSource, err = shader.VertexShader(n, tr.isGLES); err != nil {
		return err
	}
	if tr.fragmentSource, err = shader.FragmentShader(n, tr.isGLES); err != nil {
		return err
	}
	return nil
}

func (tr *TouchRipple) VertexShader() string { return tr.vertexSource }
func (tr *TouchRipple) FragmentShader() string { return tr.fragmentSource }
func (tr *TouchRipple) RequiresDepth() bool { return false }
func (tr *TouchRipple) Program() graphics.Program {
	return tr.program
}

// Install regenerates the sources, compiles them and resolves all 2N+5
// uniform handles against the new program.
func (tr *TouchRipple) Install(c graphics.Compiler) error {
	if err := tr.generate(); err != nil {
		return fmt.Errorf("failed to generate ripple shaders: %w", err)
	}
	program, err := c.Compile(tr.vertexSource, tr.fragmentSource)
	if err != nil {
		return fmt.Errorf("failed to compile ripple shaders: %w", err)
	}

	var firstErr error
	must := func(name string) int32 {
		loc := program.UniformLocation(name)
		if loc < 0 && firstErr == nil {
			firstErr = fmt.Errorf("uniform %s not found in ripple program", name)
		}
		return loc
	}

	originLocs := make([]int32, tr.store.Len())
	startLocs := make([]int32, tr.store.Len())
	for i := range originLocs {
		originLocs[i] = must(shader.OriginUniform(i))
		startLocs[i] = must(shader.StartUniform(i))
	}
	timeLoc := must(shader.TimeUniform)
	durationLoc := must(shader.DurationUniform)
	speedLoc := must(shader.SpeedUniform)
	sizeLoc := must(shader.SizeUniform)
	aspectLoc := must(shader.AspectUniform)
	if firstErr != nil {
		program.Delete()
		return firstErr
	}

	if tr.program != nil && tr.program != program {
		tr.program.Delete()
	}
	tr.program = program
	tr.originLocs = originLocs
	tr.startLocs = startLocs
	tr.timeLoc = timeLoc
	tr.durationLoc = durationLoc
	tr.speedLoc = speedLoc
	tr.sizeLoc = sizeLoc
	tr.aspectLoc = aspectLoc

	log.Printf("Touch ripple installed with %d ripple slots", tr.store.Len())
	return nil
}

// Upload writes every slot and the five globals to the bound program.
func (tr *TouchRipple) Upload() {
	if tr.program == nil {
		tr.warnOnce.Do(func() {
			log.Println("Warning: touch ripple upload before install, skipping.")
		})
		return
	}

	frame := tr.store.Snapshot()
	for i, slot := range frame.Slots {
		tr.program.SetVec2(tr.originLocs[i], slot.Origin)
		tr.program.SetFloat(tr.startLocs[i], slot.Start)
	}
	tr.program.SetFloat(tr.timeLoc, frame.Time)
	tr.program.SetFloat(tr.durationLoc, frame.Params.Duration)
	tr.program.SetFloat(tr.speedLoc, frame.Params.Speed)
	tr.program.SetFloat(tr.sizeLoc, frame.Params.Size)
	tr.program.SetVec2(tr.aspectLoc, frame.Aspect)
}

// Destroy releases the installed program.
func (tr *TouchRipple) Destroy() {
	if tr.program != nil {
		tr.program.Delete()
		tr.program = nil
	}
}

// --- Application API ---

func (tr *TouchRipple) AddRipple(x, y, startTime float32) { tr.store.AddRipple(x, y, startTime) }
func (tr *TouchRipple) SetTime(t float32) { tr.store.SetTime(t) }
func (tr *TouchRipple) Duration() float32 { return tr.store.Duration() }
func (tr *TouchRipple) SetDuration(d float32) { tr.store.SetDuration(d) }
func (tr *TouchRipple) SetScreenSize(width, height int) { tr.store.SetScreenSize(width, height) }
func (tr *TouchRipple) RippleSpeed() float32 { return tr.store.RippleSpeed() }
func (tr *TouchRipple) SetRippleSpeed(s float32) { tr.store.SetRippleSpeed(s) }
func (tr *TouchRipple) RippleSize() float32 { return tr.store.RippleSize() }
func (tr *TouchRipple) SetRippleSize(size float32) { tr.store.SetRippleSize(size) }
