package audio

import (
	"fmt"
	"log"

	"github.com/gordonklaus/portaudio"
)

// Microphone reads the default input device and publishes copies of each
// callback buffer on a channel.
type Microphone struct {
	sampleRate      int
	framesPerBuffer int
	stream          *portaudio.Stream
	audioChan       chan []float32
	isStreaming     bool
	dropped         int
}

func NewMicrophone(sampleRate, framesPerBuffer int) (*Microphone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	return &Microphone{sampleRate: sampleRate, framesPerBuffer: framesPerBuffer}, nil
}

func (m *Microphone) audioCallback(in []float32) {
	// PortAudio reuses its buffer between callbacks.
	dataCopy := make([]float32, len(in))
	copy(dataCopy, in)

	// never block the audio thread
	select {
	case m.audioChan <- dataCopy:
	default:
		m.dropped++
		if m.dropped%100 == 1 {
			log.Printf("Warning: audio channel full, %d chunks dropped so far", m.dropped)
		}
	}
}

func (m *Microphone) Start() (<-chan []float32, error) {
	m.audioChan = make(chan []float32, 16)

	host, err := portaudio.DefaultHostApi()
	if err != nil {
		close(m.audioChan)
		return nil, err
	}
	if host.DefaultInputDevice == nil {
		close(m.audioChan)
		return nil, fmt.Errorf("no default input device on %s", host.Name)
	}

	params := portaudio.LowLatencyParameters(host.DefaultInputDevice, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(m.sampleRate)
	params.FramesPerBuffer = m.framesPerBuffer

	stream, err := portaudio.OpenStream(params, m.audioCallback)
	if err != nil {
		close(m.audioChan)
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		close(m.audioChan)
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}
	m.stream = stream
	m.isStreaming = true
	log.Printf("Microphone %s started at %d Hz", host.DefaultInputDevice.Name, m.sampleRate)

	return m.audioChan, nil
}

func (m *Microphone) Stop() error {
	if !m.isStreaming {
		return portaudio.Terminate()
	}
	m.isStreaming = false
	if err := m.stream.Close(); err != nil {
		portaudio.Terminate()
		return err
	}
	close(m.audioChan)
	return portaudio.Terminate()
}

func (m *Microphone) SampleRate() int {
	return m.sampleRate
}
