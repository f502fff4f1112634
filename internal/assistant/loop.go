// Package assistant runs the conversation loop: listen, route, speak,
// repeat, until an exit command or the context ends it.
package assistant

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"aura/internal/capture"
	"aura/internal/config"
	"aura/internal/router"
)

// Speaker is the speech output side of the loop.
type Speaker interface {
	Enqueue(text string)
	IsSpeaking() bool
	WaitIdle(timeout time.Duration) bool
}

// Capturer produces one classified microphone turn.
type Capturer interface {
	Capture(ctx context.Context, timeout, phraseLimit time.Duration) capture.Result
}

// Router maps a command to a response.
type Router interface {
	Route(ctx context.Context, text string) router.Outcome
}

// Publisher broadcasts loop events to observers. May be nil.
type Publisher interface {
	Publish(kind, text string)
}

const (
	// Pause after a device error before touching the microphone again.
	deviceRetryDelay = 2 * time.Second
	// How long the farewell gets to finish playing before shutdown.
	farewellDrain = 10 * time.Second
)

type Loop struct {
	cfg      config.Config
	capturer Capturer
	router   Router
	speaker  Speaker
	events   Publisher
	log      *slog.Logger

	awake bool
}

func New(cfg config.Config, c Capturer, r Router, s Speaker, p Publisher, log *slog.Logger) *Loop {
	return &Loop{
		cfg:      cfg,
		capturer: c,
		router:   r,
		speaker:  s,
		events:   p,
		log:      log.With("component", "assistant"),
		awake:    cfg.WakePhrase == "",
	}
}

// Run drives the conversation until ctx is cancelled or the user says
// goodbye. The greeting is spoken first.
func (l *Loop) Run(ctx context.Context) error {
	l.speaker.Enqueue(config.Greeting)
	l.publish("state", "listening")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		res := l.capturer.Capture(ctx, l.cfg.ListenTimeout, l.cfg.PhraseLimit)
		switch res.Kind {
		case capture.NoSpeech:
			l.log.Debug("silence, listening again")
			continue
		case capture.Unintelligible:
			l.log.Debug("speech not understood")
			continue
		case capture.ServiceError:
			l.publish("error", config.ServiceNotice)
			l.speaker.Enqueue(config.ServiceNotice)
			continue
		case capture.DeviceError:
			l.publish("error", config.DeviceNotice)
			l.speaker.Enqueue(config.DeviceNotice)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(deviceRetryDelay):
			}
			continue
		}

		text := res.Text
		l.publish("heard", text)

		if !l.awake {
			rest, ok := afterWakePhrase(text, l.cfg.WakePhrase)
			if !ok {
				continue
			}
			l.awake = true
			l.log.Info("wake phrase heard")
			if rest == "" {
				l.speaker.Enqueue(config.Greeting)
				continue
			}
			text = rest
		}

		out := l.router.Route(ctx, text)
		if out.Response != "" {
			l.publish("response", out.Response)
			l.speaker.Enqueue(out.Response)
		}
		if !out.Continue {
			l.publish("state", "terminated")
			if !l.speaker.WaitIdle(farewellDrain) {
				l.log.Warn("shutdown before farewell finished")
			}
			return nil
		}
	}
}

func (l *Loop) publish(kind, text string) {
	if l.events != nil {
		l.events.Publish(kind, text)
	}
}

// afterWakePhrase reports whether text contains the wake phrase and
// returns whatever command follows it.
func afterWakePhrase(text, wake string) (string, bool) {
	idx := strings.Index(text, wake)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(text[idx+len(wake):]), true
}
