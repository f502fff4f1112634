// Package ipc exposes a unix-socket control channel for a running
// assistant: stop current speech, say something, or quit.
package ipc

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
)

// ControlMessage is one command sent over the socket.
// Cmd is "stop", "say" or "quit"; Text carries the utterance for "say".
type ControlMessage struct {
	Cmd  string `json:"cmd"`
	Text string `json:"text,omitempty"`
}

// StartServer listens on socketPath and calls handler for every message.
// A stale socket file from a previous run is removed first.
func StartServer(socketPath string, handler func(ControlMessage)) (func(), error) {
	os.Remove(socketPath)

	ln, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen: %w", err)
	}

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go handleConn(conn, handler)
		}
	}()

	stop := func() {
		ln.Close()
		os.Remove(socketPath)
	}
	return stop, nil
}

func handleConn(conn net.Conn, handler func(ControlMessage)) {
	defer conn.Close()

	var msg ControlMessage
	dec := json.NewDecoder(conn)
	if err := dec.Decode(&msg); err != nil {
		return
	}
	handler(msg)
}

// SendCommand dials the socket and delivers one message.
func SendCommand(socketPath string, msg ControlMessage) error {
	conn, err := net.Dial("unix", socketPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	enc := json.NewEncoder(conn)
	return enc.Encode(msg)
}
