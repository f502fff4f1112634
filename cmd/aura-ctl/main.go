package main

import (
	"fmt"
	"os"
	"strings"

	cli "github.com/spf13/pflag"

	"aura/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", "/tmp/aura.sock", "Control socket path")
	cli.Parse()

	args := cli.Args()
	if len(args) == 0 {
		fmt.Println("usage: aura-ctl [--socket path] stop|quit|say <text>")
		os.Exit(2)
	}

	msg := ipc.ControlMessage{Cmd: args[0]}
	if msg.Cmd == "say" {
		msg.Text = strings.Join(args[1:], " ")
	}

	if err := ipc.SendCommand(*socket, msg); err != nil {
		fmt.Println("aura not running:", err)
		os.Exit(1)
	}
}
