package encoder

import (
	"fmt"
	"io"
	"log"
	"runtime"

	"github.com/richinsley/gotouchripple/options"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Encoder streams raw RGBA frames into an ffmpeg child process.
type Encoder struct {
	opts       *options.RippleOptions
	width      int
	height     int
	frameSize  int
	pipeWriter *io.PipeWriter
	errc       chan error
	frames     int64
}

func NewEncoder(opts *options.RippleOptions) *Encoder {
	return &Encoder{
		opts:      opts,
		width:     *opts.Width,
		height:    *opts.Height,
		frameSize: *opts.Width * *opts.Height * 4,
	}
}

// inputArgs describes the pipe contents: bottom-up RGBA rows as read back
// from GL, hence the vflip on the output side.
func inputArgs(width, height, fps int) ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", width, height),
		"r":       fps,
	}
}

func outputArgs(goos, codec, outputFile string) ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{
		"vf":      "vflip",
		"pix_fmt": "yuv420p",
		"b:v":     "12M",
	}

	switch goos {
	case "darwin":
		if codec == "hevc" {
			args["c:v"] = "hevc_videotoolbox"
		} else {
			args["c:v"] = "h264_videotoolbox"
		}
	default:
		if codec == "hevc" {
			args["c:v"] = "libx265"
		} else {
			args["c:v"] = "libx264"
			args["preset"] = "medium"
		}
	}

	if codec == "hevc" && len(outputFile) > 4 && outputFile[len(outputFile)-4:] == ".mp4" {
		args["tag:v"] = "hvc1"
	}
	return args
}

// Start launches ffmpeg reading from an in-process pipe.
func (e *Encoder) Start() error {
	if e.pipeWriter != nil {
		return fmt.Errorf("encoder already started")
	}
	pipeReader, pipeWriter := io.Pipe()

	in := inputArgs(e.width, e.height, *e.opts.FPS)
	out := outputArgs(runtime.GOOS, *e.opts.Codec, *e.opts.OutputFile)
	log.Printf("Encoding %dx%d@%d with %v to %s", e.width, e.height, *e.opts.FPS, out["c:v"], *e.opts.OutputFile)

	cmd := ffmpeg.Input("pipe:", in).
		Output(*e.opts.OutputFile, out).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if *e.opts.FFMPEGPath != "" {
		cmd = cmd.SetFfmpegPath(*e.opts.FFMPEGPath)
	}

	e.pipeWriter = pipeWriter
	e.errc = make(chan error, 1)
	go func() {
		err := cmd.Run()
		// unblock WriteFrame if ffmpeg exits early
		pipeReader.CloseWithError(fmt.Errorf("ffmpeg exited: %v", err))
		e.errc <- err
	}()
	return nil
}

// WriteFrame sends one frame. The slice must hold exactly width*height*4 bytes.
func (e *Encoder) WriteFrame(pixels []byte) error {
	if e.pipeWriter == nil {
		return fmt.Errorf("encoder not started")
	}
	if len(pixels) != e.frameSize {
		return fmt.Errorf("frame is %d bytes, expected %d", len(pixels), e.frameSize)
	}
	if _, err := e.pipeWriter.Write(pixels); err != nil {
		return fmt.Errorf("failed to write frame %d to ffmpeg: %w", e.frames, err)
	}
	e.frames++
	return nil
}

// Close signals end of stream and waits for ffmpeg to finish.
func (e *Encoder) Close() error {
	if e.pipeWriter == nil {
		return nil
	}
	e.pipeWriter.Close()
	e.pipeWriter = nil
	if err := <-e.errc; err != nil {
		return fmt.Errorf("ffmpeg failed after %d frames: %w", e.frames, err)
	}
	log.Printf("Encoded %d frames", e.frames)
	return nil
}
