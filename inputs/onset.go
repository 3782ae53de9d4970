package inputs

import (
	"fmt"
	"log"
	"math"

	fft "github.com/mjibson/go-dsp/fft"
	audio "github.com/richinsley/gotouchripple/audio"
	"github.com/richinsley/gotouchripple/ripple"
)

const (
	fftInputSize = 1024
	hopSize      = 512
	// about half a second of flux history at 44.1 kHz
	fluxHistoryLen = 43
	// hops to wait after an onset before another may fire
	refractoryHops = 8
	sensitivity    = 1.5
	minFlux        = 0.01
	scatterMargin  = 0.15
)

// RippleSink receives ripples produced from audio.
type RippleSink interface {
	AddRipple(x, y, startTime float32)
}

// OnsetSource listens to an audio device and starts a ripple on every
// detected onset (a sharp rise in spectral flux). Positions follow
// ripple.Scatter since sound has no location.
type OnsetSource struct {
	device audio.AudioDevice
	sink   RippleSink
	clock  func() float64

	history  []float32
	pos      int
	sinceHop int
	window   []float64
	lastMag  []float64

	flux      []float64
	fluxPos   int
	fluxCount int
	cooldown  int
	onsets    int

	started bool
	done    chan struct{}
}

// NewOnsetSource wires device to sink. clock returns the current effect time
// in seconds and is called from the listener goroutine.
func NewOnsetSource(device audio.AudioDevice, sink RippleSink, clock func() float64) *OnsetSource {
	return &OnsetSource{
		device:  device,
		sink:    sink,
		clock:   clock,
		history: make([]float32, fftInputSize),
		window:  blackmanWindow(fftInputSize),
		lastMag: make([]float64, fftInputSize/2),
		flux:    make([]float64, fluxHistoryLen),
		done:    make(chan struct{}),
	}
}

// Start opens the device and consumes it on a new goroutine.
func (s *OnsetSource) Start() error {
	audioChan, err := s.device.Start()
	if err != nil {
		return fmt.Errorf("could not start audio device: %w", err)
	}
	s.started = true
	if audioChan == nil {
		// silent device, nothing will ever arrive
		close(s.done)
		return nil
	}
	go s.listenForAudio(audioChan)
	log.Printf("Onset listener started at %d Hz", s.device.SampleRate())
	return nil
}

// Stop closes the device and waits for the listener to drain.
func (s *OnsetSource) Stop() error {
	err := s.device.Stop()
	if s.started {
		<-s.done
	}
	return err
}

// Onsets returns the number of ripples emitted so far. Only safe once the
// listener has stopped, or when Process is driven directly.
func (s *OnsetSource) Onsets() int { return s.onsets }

func (s *OnsetSource) listenForAudio(audioChan <-chan []float32) {
	defer close(s.done)
	for samples := range audioChan {
		s.Process(samples)
	}
	log.Printf("Audio channel closed after %d onsets. Listener goroutine exiting.", s.onsets)
}

// Process appends samples to the analysis window and runs one detection step
// for every completed hop.
func (s *OnsetSource) Process(samples []float32) {
	for _, sample := range samples {
		s.history[s.pos] = sample
		s.pos = (s.pos + 1) % fftInputSize
		s.sinceHop++
		if s.sinceHop == hopSize {
			s.sinceHop = 0
			s.step()
		}
	}
}

func (s *OnsetSource) step() {
	frame := make([]float64, fftInputSize)
	for i := range frame {
		frame[i] = float64(s.history[(s.pos+i)%fftInputSize]) * s.window[i]
	}
	spectrum := fft.FFTReal(frame)

	var flux float64
	for i := range s.lastMag {
		re, im := real(spectrum[i]), imag(spectrum[i])
		mag := math.Sqrt(re*re+im*im) * (2.0 / fftInputSize)
		if d := mag - s.lastMag[i]; d > 0 {
			flux += d
		}
		s.lastMag[i] = mag
	}

	threshold := s.meanFlux()*sensitivity + minFlux
	s.pushFlux(flux)

	if s.cooldown > 0 {
		s.cooldown--
		return
	}
	if flux > threshold {
		origin := ripple.Scatter(s.onsets, scatterMargin)
		s.sink.AddRipple(origin.X(), origin.Y(), float32(s.clock()))
		s.onsets++
		s.cooldown = refractoryHops
	}
}

func (s *OnsetSource) meanFlux() float64 {
	if s.fluxCount == 0 {
		return 0
	}
	var sum float64
	for i := 0; i < s.fluxCount; i++ {
		sum += s.flux[i]
	}
	return sum / float64(s.fluxCount)
}

func (s *OnsetSource) pushFlux(f float64) {
	s.flux[s.fluxPos] = f
	s.fluxPos = (s.fluxPos + 1) % fluxHistoryLen
	if s.fluxCount < fluxHistoryLen {
		s.fluxCount++
	}
}

// blackmanWindow generates a Blackman window, the same taper Shadertoy uses
// for its audio spectrum.
func blackmanWindow(size int) []float64 {
	window := make([]float64, size)
	a0 := 0.42
	a1 := 0.5
	a2 := 0.08
	invSize := 1.0 / float64(size-1)
	for i := range window {
		t := float64(i) * invSize
		window[i] = a0 - (a1 * math.Cos(2*math.Pi*t)) + (a2 * math.Cos(4*math.Pi*t))
	}
	return window
}
