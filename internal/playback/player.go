// Package playback plays synthesized audio through an external player
// process, one utterance at a time, with support for cancelling the
// utterance currently being spoken.
package playback

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"aura/internal/config"
)

// ErrNoPlayer means none of the candidate player binaries is installed.
var ErrNoPlayer = errors.New("no audio player found")

// Handle is a started playback process.
type Handle interface {
	// Running reports whether playback is still in progress.
	Running() bool
	// Terminate stops playback. Safe to call multiple times and after
	// the process has already exited.
	Terminate() error
}

// Player starts playback of an audio file.
type Player interface {
	Start(path string) (Handle, error)
}

// for tests
var lookPath = exec.LookPath

// ExecPlayer plays files by spawning the first available player binary
// from a candidate list.
type ExecPlayer struct {
	bin  string
	args []string
}

// NewExecPlayer probes the candidates in order and binds to the first one
// present on PATH.
func NewExecPlayer(candidates []config.PlayerCommand) (*ExecPlayer, error) {
	for _, c := range candidates {
		if _, err := lookPath(c.Bin); err == nil {
			return &ExecPlayer{bin: c.Bin, args: c.Args}, nil
		}
	}
	return nil, ErrNoPlayer
}

// Command reports the bound player binary.
func (p *ExecPlayer) Command() string { return p.bin }

func (p *ExecPlayer) Start(path string) (Handle, error) {
	args := append(append([]string{}, p.args...), path)
	cmd := exec.Command(p.bin, args...)
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", p.bin, err)
	}

	h := &execHandle{cmd: cmd, done: make(chan struct{})}
	go func() {
		cmd.Wait()
		close(h.done)
	}()
	return h, nil
}

type execHandle struct {
	cmd  *exec.Cmd
	done chan struct{}

	mu     sync.Mutex
	killed bool
}

func (h *execHandle) Running() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *execHandle) Terminate() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.killed {
		return nil
	}
	h.killed = true

	select {
	case <-h.done:
		return nil
	default:
	}
	if err := h.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
