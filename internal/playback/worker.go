package playback

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"
)

// Synthesizer turns text into an audio file and returns its path.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, lang string) (string, error)
}

const (
	queueDepth   = 32
	pollInterval = 50 * time.Millisecond
)

// Worker serializes speech: utterances are queued and spoken one at a
// time in arrival order by a single goroutine. CancelCurrent stops only
// the utterance being spoken now; queued ones are unaffected.
//
// The speaking flag spans the whole synthesize+play window of the current
// utterance, not just the life of the player process, so cancellation is
// observable while audio is still being synthesized.
type Worker struct {
	synth  Synthesizer
	player Player
	lang   string
	log    *slog.Logger

	queue chan string
	done  chan struct{}

	mu        sync.Mutex
	active    Handle
	cancelled bool
	speaking  bool
}

func NewWorker(synth Synthesizer, player Player, lang string, log *slog.Logger) *Worker {
	return &Worker{
		synth:  synth,
		player: player,
		lang:   lang,
		log:    log.With("component", "playback"),
		queue:  make(chan string, queueDepth),
		done:   make(chan struct{}),
	}
}

// Run consumes the queue until ctx is cancelled. It is meant to run as a
// dedicated goroutine; utterances enqueued but not yet started when ctx
// ends are discarded.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case text := <-w.queue:
			w.speak(ctx, text)
		}
	}
}

// Enqueue adds an utterance to the speech queue. It never blocks the
// caller for the duration of playback; when the queue is full the
// utterance is dropped with a log entry.
func (w *Worker) Enqueue(text string) {
	if text == "" {
		return
	}
	select {
	case w.queue <- text:
	default:
		w.log.Warn("speech queue full, dropping utterance")
	}
}

// CancelCurrent stops the utterance being spoken right now, if any. It
// also covers the window where an utterance has been dequeued but its
// player has not started yet. Queued utterances still play. No-op when
// nothing is in flight.
func (w *Worker) CancelCurrent() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.speaking {
		return
	}
	w.cancelled = true
	if w.active != nil {
		if err := w.active.Terminate(); err != nil {
			w.log.Warn("terminate playback", "err", err)
		}
	}
}

// IsSpeaking reports whether an utterance is being synthesized or played
// at this moment.
func (w *Worker) IsSpeaking() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.speaking
}

// WaitIdle blocks until the queue is empty and nothing is being spoken,
// or timeout elapses. Used to let a farewell finish before shutdown.
func (w *Worker) WaitIdle(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if len(w.queue) == 0 && !w.IsSpeaking() {
			return true
		}
		time.Sleep(pollInterval)
	}
	return false
}

// Done is closed once Run has returned.
func (w *Worker) Done() <-chan struct{} { return w.done }

func (w *Worker) speak(ctx context.Context, text string) {
	w.mu.Lock()
	w.speaking = true
	w.cancelled = false
	w.active = nil
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.speaking = false
		w.active = nil
		w.mu.Unlock()
	}()

	path, err := w.synth.Synthesize(ctx, text, w.lang)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			w.log.Error("synthesis failed", "err", err)
		}
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			w.log.Warn("remove audio artifact", "path", path, "err", err)
		}
	}()

	w.mu.Lock()
	if w.cancelled {
		// Cancelled while synthesizing; never start the player.
		w.mu.Unlock()
		return
	}
	handle, err := w.player.Start(path)
	if err != nil {
		w.mu.Unlock()
		w.log.Error("playback start failed", "err", err)
		return
	}
	w.active = handle
	w.mu.Unlock()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for handle.Running() {
		select {
		case <-ctx.Done():
			handle.Terminate()
			return
		case <-ticker.C:
		}
	}

	// Terminate after natural completion is a no-op; this resolves the
	// race where CancelCurrent fires just as playback ends.
	handle.Terminate()
}
