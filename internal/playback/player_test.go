package playback

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"aura/internal/config"
)

func TestExecPlayerProbesCandidatesInOrder(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	lookPath = func(bin string) (string, error) {
		if bin == "present" {
			return "/usr/bin/present", nil
		}
		return "", errors.New("not found")
	}

	p, err := NewExecPlayer([]config.PlayerCommand{
		{Bin: "missing"},
		{Bin: "present", Args: []string{"-q"}},
		{Bin: "also-present"},
	})
	if err != nil {
		t.Fatalf("NewExecPlayer: %v", err)
	}
	if p.Command() != "present" {
		t.Fatalf("bound to %q, want %q", p.Command(), "present")
	}
}

func TestExecPlayerNoCandidates(t *testing.T) {
	orig := lookPath
	defer func() { lookPath = orig }()

	lookPath = func(string) (string, error) { return "", errors.New("not found") }

	_, err := NewExecPlayer([]config.PlayerCommand{{Bin: "missing"}})
	if !errors.Is(err, ErrNoPlayer) {
		t.Fatalf("err = %v, want ErrNoPlayer", err)
	}
}

func TestExecHandleTerminateIdempotent(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the sleep binary")
	}

	p := &ExecPlayer{bin: "sleep"}
	h, err := p.Start("10")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !h.Running() {
		t.Fatal("handle not running after start")
	}

	if err := h.Terminate(); err != nil {
		t.Fatalf("first Terminate: %v", err)
	}
	if err := h.Terminate(); err != nil {
		t.Fatalf("second Terminate: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.Running() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if h.Running() {
		t.Fatal("handle still running after terminate")
	}
}

func TestExecHandleTerminateAfterNaturalExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on the sleep binary")
	}

	p := &ExecPlayer{bin: "sleep"}
	h, err := p.Start("0")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for h.Running() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if h.Running() {
		t.Fatal("process never exited")
	}
	if err := h.Terminate(); err != nil {
		t.Fatalf("Terminate after exit: %v", err)
	}
}
