package audio

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// ErrNoSpeech means the listen timeout elapsed before any speech was
// detected. It is routine control flow, not a device failure.
var ErrNoSpeech = errors.New("no speech detected")

const (
	sampleRate = 16000
	frameSize  = 320 // 20ms
	frameMs    = 20

	// Silence this long after speech ends the phrase.
	pauseThreshold = 800 * time.Millisecond
)

type Recorder struct {
	mu        sync.Mutex
	threshold float64
	dynamic   bool
}

func NewRecorder(energyThreshold float64, dynamic bool) *Recorder {
	return &Recorder{threshold: energyThreshold, dynamic: dynamic}
}

func (r *Recorder) Init() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("portaudio init: %w", err)
	}
	return nil
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Calibrate samples ambient noise for the given duration and, when dynamic
// thresholding is enabled, raises the energy threshold above the measured
// noise floor.
func (r *Recorder) Calibrate(duration time.Duration) error {
	buf := make([]float32, frameSize)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return fmt.Errorf("start stream: %w", err)
	}
	defer stream.Stop()

	frames := int(duration / (frameMs * time.Millisecond))
	if frames < 1 {
		frames = 1
	}

	var peak float64
	for i := 0; i < frames; i++ {
		if err := stream.Read(); err != nil {
			return fmt.Errorf("read stream: %w", err)
		}
		if rms := frameRMS(buf); rms > peak {
			peak = rms
		}
	}

	r.raiseThreshold(peak)
	return nil
}

// raiseThreshold adopts 1.5x the ambient peak when dynamic thresholding is
// on and the measured noise floor exceeds the configured minimum.
func (r *Recorder) raiseThreshold(peak float64) {
	if !r.dynamic {
		return
	}
	r.mu.Lock()
	if t := peak * 1.5; t > r.threshold {
		r.threshold = t
	}
	r.mu.Unlock()
}

// Listen blocks until speech is detected and followed by a pause, or until
// timeout elapses with no speech (ErrNoSpeech). phraseLimit bounds the length
// of the captured phrase once speech has started. The returned samples are
// mono float32 at 16 kHz.
func (r *Recorder) Listen(timeout, phraseLimit time.Duration) ([]float32, error) {
	r.mu.Lock()
	threshold := r.threshold
	r.mu.Unlock()

	buf := make([]float32, frameSize)
	out := make([]float32, 0, sampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, fmt.Errorf("open stream: %w", err)
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, fmt.Errorf("start stream: %w", err)
	}
	defer stream.Stop()

	var (
		speaking bool
		silence  time.Duration
		spoken   time.Duration
		waited   time.Duration
	)

	for {
		if err := stream.Read(); err != nil {
			return nil, fmt.Errorf("read stream: %w", err)
		}

		rms := frameRMS(buf)

		if !speaking {
			if rms > threshold {
				speaking = true
				out = append(out, buf...)
				spoken += frameMs * time.Millisecond
				continue
			}
			waited += frameMs * time.Millisecond
			if waited >= timeout {
				return nil, ErrNoSpeech
			}
			continue
		}

		out = append(out, buf...)
		spoken += frameMs * time.Millisecond

		if rms > threshold {
			silence = 0
		} else {
			silence += frameMs * time.Millisecond
			if silence >= pauseThreshold {
				break
			}
		}

		if spoken >= phraseLimit {
			break
		}
	}

	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
