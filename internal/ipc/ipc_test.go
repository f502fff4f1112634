package ipc

import (
	"path/filepath"
	"testing"
	"time"
)

func TestSendCommandRoundTrip(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "aura.sock")

	got := make(chan ControlMessage, 1)
	stop, err := StartServer(socket, func(msg ControlMessage) {
		got <- msg
	})
	if err != nil {
		t.Fatalf("StartServer: %v", err)
	}
	defer stop()

	if err := SendCommand(socket, ControlMessage{Cmd: "say", Text: "hola"}); err != nil {
		t.Fatalf("SendCommand: %v", err)
	}

	select {
	case msg := <-got:
		if msg.Cmd != "say" || msg.Text != "hola" {
			t.Fatalf("msg = %+v", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message never delivered")
	}
}

func TestSendCommandNoServer(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "missing.sock")
	if err := SendCommand(socket, ControlMessage{Cmd: "stop"}); err == nil {
		t.Fatal("dial to a missing socket must fail")
	}
}
