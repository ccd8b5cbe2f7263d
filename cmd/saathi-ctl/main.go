package main

import (
	"encoding/json"
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"saathi/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocket, "Control socket path")
	cli.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: saathi-ctl [-s socket] {%s|%s|%s}\n", ipc.CmdReset, ipc.CmdStatus, ipc.CmdExpression)
		cli.PrintDefaults()
	}
	cli.Parse()

	cmd := ipc.CmdStatus
	if cli.NArg() > 0 {
		cmd = cli.Arg(0)
	}

	r, err := ipc.SendCommand(*socket, cmd)
	if err != nil {
		fmt.Println("saathi not running:", err)
		os.Exit(1)
	}

	if r.Message != "" {
		fmt.Println(r.Message)
	}
	if len(r.Data) > 0 {
		out, _ := json.MarshalIndent(r.Data, "", "  ")
		fmt.Println(string(out))
	}
	if !r.OK {
		os.Exit(1)
	}
}
