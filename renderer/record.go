package renderer

import (
	"fmt"
	"log"

	"github.com/richinsley/gotouchripple/options"
	"github.com/richinsley/gotouchripple/ripple"
)

// FrameWriter consumes RGBA frames, bottom row first.
type FrameWriter interface {
	WriteFrame(pixels []byte) error
}

// scriptedTouch is a ripple injected at a fixed time during recording.
type scriptedTouch struct {
	at     float64
	origin [2]float32
}

// recordScript spreads one ripple every interval seconds over duration,
// starting at t=0.
func recordScript(duration, interval float64) []scriptedTouch {
	var script []scriptedTouch
	for i := 0; float64(i)*interval < duration; i++ {
		o := ripple.Scatter(i, 0.15)
		script = append(script, scriptedTouch{at: float64(i) * interval, origin: [2]float32{o.X(), o.Y()}})
	}
	return script
}

// RunRecord renders duration*fps frames on a fixed timestep, injecting the
// scripted ripples, and hands each frame to w.
func (r *Renderer) RunRecord(w FrameWriter, opts *options.RippleOptions) error {
	fps := *opts.FPS
	totalFrames := int(*opts.RecordDuration * float64(fps))
	timeStep := 1.0 / float64(fps)
	script := recordScript(*opts.RecordDuration, *opts.RippleInterval)
	log.Printf("Recording %d frames with %d scripted ripples", totalFrames, len(script))

	next := 0
	for i := 0; i < totalFrames; i++ {
		currentTime := float64(i) * timeStep
		for next < len(script) && script[next].at <= currentTime {
			s := script[next]
			r.filter.AddRipple(s.origin[0], s.origin[1], float32(s.at))
			next++
		}

		r.RenderFrame(currentTime)
		if err := w.WriteFrame(r.offscreen.ReadPixels()); err != nil {
			return fmt.Errorf("failed to write frame %d: %w", i, err)
		}
		if i > 0 && i%(fps*5) == 0 {
			log.Printf("Recorded %d/%d frames", i, totalFrames)
		}
	}
	return nil
}
