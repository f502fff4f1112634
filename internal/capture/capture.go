// Package capture turns one turn at the microphone into a classified
// result: recognized text or a reason why there is none.
package capture

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"aura/internal/audio"
	"aura/internal/stt"
)

// Kind classifies what one capture attempt produced.
type Kind int

const (
	// Recognized means Text holds a usable transcript.
	Recognized Kind = iota
	// NoSpeech means the user said nothing before the timeout.
	NoSpeech
	// Unintelligible means speech was heard but not understood.
	Unintelligible
	// ServiceError means the recognition service failed.
	ServiceError
	// DeviceError means the microphone could not be used.
	DeviceError
)

func (k Kind) String() string {
	switch k {
	case Recognized:
		return "recognized"
	case NoSpeech:
		return "no-speech"
	case Unintelligible:
		return "unintelligible"
	case ServiceError:
		return "service-error"
	case DeviceError:
		return "device-error"
	default:
		return "unknown"
	}
}

// Result is the outcome of one listen/transcribe turn. Text is set only
// when Kind is Recognized, and is always lowercase.
type Result struct {
	Kind Kind
	Text string
	Err  error
}

// Listener provides calibrated microphone audio.
type Listener interface {
	Calibrate(duration time.Duration) error
	Listen(timeout, phraseLimit time.Duration) ([]float32, error)
}

// Recognizer transcribes captured samples.
type Recognizer interface {
	Recognize(ctx context.Context, pcm []float32, lang string) (string, error)
}

// Canceler interrupts in-progress speech output. The capturer fires it at
// the start of every turn so the user can talk over the assistant.
type Canceler interface {
	CancelCurrent()
}

type Capturer struct {
	listener   Listener
	recognizer Recognizer
	canceler   Canceler
	lang       string
	ambient    time.Duration
	log        *slog.Logger
}

func New(l Listener, r Recognizer, c Canceler, lang string, ambient time.Duration, log *slog.Logger) *Capturer {
	return &Capturer{
		listener:   l,
		recognizer: r,
		canceler:   c,
		lang:       lang,
		ambient:    ambient,
		log:        log.With("component", "capture"),
	}
}

// Capture runs one turn: interrupt current speech, calibrate against
// ambient noise, listen, transcribe. It never returns an unclassified
// failure; everything maps to a Result kind.
func (c *Capturer) Capture(ctx context.Context, timeout, phraseLimit time.Duration) Result {
	if c.canceler != nil {
		c.canceler.CancelCurrent()
	}

	if err := c.listener.Calibrate(c.ambient); err != nil {
		c.log.Error("calibration failed", "err", err)
		return Result{Kind: DeviceError, Err: err}
	}

	pcm, err := c.listener.Listen(timeout, phraseLimit)
	if err != nil {
		if errors.Is(err, audio.ErrNoSpeech) {
			return Result{Kind: NoSpeech}
		}
		c.log.Error("listen failed", "err", err)
		return Result{Kind: DeviceError, Err: err}
	}

	text, err := c.recognizer.Recognize(ctx, pcm, c.lang)
	if err != nil {
		if errors.Is(err, stt.ErrUnintelligible) {
			return Result{Kind: Unintelligible}
		}
		c.log.Error("recognition failed", "err", err)
		return Result{Kind: ServiceError, Err: err}
	}

	text = strings.ToLower(strings.TrimSpace(text))
	c.log.Info("command recognized", "text", text)
	return Result{Kind: Recognized, Text: text}
}
