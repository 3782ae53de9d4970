package options

import (
	"flag"
	"fmt"
)

type RippleOptions struct {
	Help *bool
	// Effect
	Count    *int
	Duration *float64
	Speed    *float64
	Size     *float64
	// Host
	Width      *int
	Height     *int
	Background *string
	GridSize   *int
	Translate  *bool
	// Recording
	Record         *bool
	RecordDuration *float64
	FPS            *int
	RippleInterval *float64
	OutputFile     *string
	FFMPEGPath     *string
	Codec          *string
	// Audio triggered ripples
	AudioRipples *bool
	SampleRate   *int
}

// Register binds every option to a flag on fs with the effect defaults.
func Register(fs *flag.FlagSet) *RippleOptions {
	return &RippleOptions{
		Help: fs.Bool("help", false, "Show help message"),

		Count:    fs.Int("ripples", 3, "Number of simultaneous ripples"),
		Duration: fs.Float64("ripple-duration", 3.0, "Seconds each ripple lasts"),
		Speed:    fs.Float64("ripple-speed", 0.3, "Ring expansion speed"),
		Size:     fs.Float64("ripple-size", 0.08, "Width of the ring band"),

		Width:      fs.Int("width", 1280, "Width of the window or output"),
		Height:     fs.Int("height", 720, "Height of the window or output"),
		Background: fs.String("background", "", "Background image (PNG or JPEG); checkerboard if empty"),
		GridSize:   fs.Int("grid", 128, "Mesh cells per side"),
		Translate:  fs.Bool("translate", false, "Compile through the GLSL ES to desktop translator"),

		Record:         fs.Bool("record", false, "Render offscreen and encode to a file"),
		RecordDuration: fs.Float64("duration", 10.0, "Duration to record in seconds"),
		FPS:            fs.Int("fps", 60, "Frames per second for recording"),
		RippleInterval: fs.Float64("interval", 0.75, "Seconds between scripted ripples when recording"),
		OutputFile:     fs.String("output", "output.mp4", "Output file name for recording"),
		FFMPEGPath:     fs.String("ffmpeg", "", "Path to ffmpeg executable"),
		Codec:          fs.String("codec", "h264", "Video codec: h264 or hevc"),

		AudioRipples: fs.Bool("audio", false, "Trigger ripples from microphone onsets"),
		SampleRate:   fs.Int("samplerate", 44100, "Microphone sample rate"),
	}
}

// Validate rejects values the effect or the encoder cannot work with.
func (o *RippleOptions) Validate() error {
	if *o.Count <= 0 {
		return fmt.Errorf("ripples must be positive, got %d", *o.Count)
	}
	if *o.Duration <= 0 {
		return fmt.Errorf("ripple-duration must be positive, got %g", *o.Duration)
	}
	if *o.Speed <= 0 {
		return fmt.Errorf("ripple-speed must be positive, got %g", *o.Speed)
	}
	if *o.Size <= 0 {
		return fmt.Errorf("ripple-size must be positive, got %g", *o.Size)
	}
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	if *o.GridSize <= 0 {
		return fmt.Errorf("grid must be positive, got %d", *o.GridSize)
	}
	if *o.Record {
		if *o.FPS <= 0 {
			return fmt.Errorf("fps must be positive, got %d", *o.FPS)
		}
		if *o.RecordDuration <= 0 {
			return fmt.Errorf("duration must be positive, got %g", *o.RecordDuration)
		}
		if *o.RippleInterval <= 0 {
			return fmt.Errorf("interval must be positive, got %g", *o.RippleInterval)
		}
		if *o.Codec != "h264" && *o.Codec != "hevc" {
			return fmt.Errorf("unsupported codec %q", *o.Codec)
		}
	}
	return nil
}
