package main

import (
	"bufio"
	"context"
	"strings"
	"testing"
	"time"

	"aura/internal/capture"
)

type countingCanceler struct {
	calls int
}

func (c *countingCanceler) CancelCurrent() { c.calls++ }

func newTerminalCapturer(input string) (*terminalCapturer, *countingCanceler) {
	canc := &countingCanceler{}
	return &terminalCapturer{in: bufio.NewScanner(strings.NewReader(input)), canceler: canc}, canc
}

func TestTerminalCapturerLowercasesInput(t *testing.T) {
	tc, canc := newTerminalCapturer("Abre Firefox\n")

	res := tc.Capture(context.Background(), time.Second, time.Second)
	if res.Kind != capture.Recognized || res.Text != "abre firefox" {
		t.Fatalf("result = %+v", res)
	}
	if canc.calls != 1 {
		t.Fatalf("cancel called %d times, want 1", canc.calls)
	}
}

func TestTerminalCapturerBlankLineIsNoSpeech(t *testing.T) {
	tc, _ := newTerminalCapturer("   \n")

	res := tc.Capture(context.Background(), time.Second, time.Second)
	if res.Kind != capture.NoSpeech {
		t.Fatalf("kind = %v, want NoSpeech", res.Kind)
	}
}

func TestTerminalCapturerEOFEndsSession(t *testing.T) {
	tc, _ := newTerminalCapturer("")

	res := tc.Capture(context.Background(), time.Second, time.Second)
	if res.Kind != capture.Recognized {
		t.Fatalf("kind = %v, want Recognized", res.Kind)
	}
	if res.Text != "salir" {
		t.Fatalf("text = %q, want an exit command", res.Text)
	}
}
