package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	glfw "github.com/go-gl/glfw/v3.3/glfw"
	"github.com/richinsley/gotouchripple/audio"
	"github.com/richinsley/gotouchripple/effect"
	"github.com/richinsley/gotouchripple/encoder"
	"github.com/richinsley/gotouchripple/glfwcontext"
	"github.com/richinsley/gotouchripple/inputs"
	"github.com/richinsley/gotouchripple/options"
	"github.com/richinsley/gotouchripple/renderer"
	"github.com/richinsley/gotouchripple/ripple"
)

func init() {
	runtime.LockOSThread()
}

func newAudioDevice(opts *options.RippleOptions) audio.AudioDevice {
	mic, err := audio.NewMicrophone(*opts.SampleRate, 512)
	if err != nil {
		log.Printf("Could not initialize microphone: %v. Using silent fallback.", err)
		return audio.NewNullDevice(*opts.SampleRate)
	}
	return mic
}

func run(opts *options.RippleOptions) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfwcontext.TerminateGraphics()

	ctx, err := glfwcontext.New(opts, !*opts.Record)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer ctx.Shutdown()

	params := ripple.Params{
		Duration: float32(*opts.Duration),
		Speed:    float32(*opts.Speed),
		Size:     float32(*opts.Size),
	}
	// the translator consumes GLSL ES, so generate that flavour for it
	filter, err := effect.NewTouchRipple(*opts.Count, params, *opts.Translate)
	if err != nil {
		return fmt.Errorf("failed to create ripple effect: %w", err)
	}
	defer filter.Destroy()

	r, err := renderer.NewRenderer(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	defer r.Shutdown()

	if *opts.Record {
		enc := encoder.NewEncoder(opts)
		if err := enc.Start(); err != nil {
			return err
		}
		log.Println("Starting offscreen render loop...")
		if err := r.RunRecord(enc, opts); err != nil {
			enc.Close()
			return fmt.Errorf("offscreen rendering failed: %w", err)
		}
		if err := enc.Close(); err != nil {
			return err
		}
		log.Printf("Successfully rendered to %s", *opts.OutputFile)
		return nil
	}

	if *opts.AudioRipples {
		onsets := inputs.NewOnsetSource(newAudioDevice(opts), filter, r.Now)
		if err := onsets.Start(); err != nil {
			log.Printf("Audio ripples disabled: %v", err)
		} else {
			defer onsets.Stop()
		}
	}

	ctx.RegisterKeyCallback(glfw.KeySpace, func() {
		w, h := ctx.GetFramebufferSize()
		r.Touch(float64(w)/2, float64(h)/2, r.Now())
	})
	ctx.RegisterKeyCallback(glfw.KeyR, func() {
		if err := r.Reload(); err != nil {
			log.Printf("Error: %v", err)
		}
	})

	log.Println("Starting interactive render loop... click to ripple, space for the centre, R to reload")
	r.Run()
	return nil
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Touch Ripple Viewer/Recorder")
		flag.PrintDefaults()
		return
	}
	if err := opts.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid options: %v\n", err)
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		log.Fatalf("%v", err)
	}
}
