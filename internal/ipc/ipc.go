// Package ipc is the unix-socket control channel between saathi-ctl and a
// running assistant. Each connection carries one JSON request and one JSON
// reply.
package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	log "log/slog"
	"net"
	"os"
	"time"
)

const DefaultSocket = "/tmp/saathi.sock"

const (
	CmdReset      = "reset"
	CmdStatus     = "status"
	CmdExpression = "expression"
)

type ControlMessage struct {
	Cmd string `json:"cmd"`
}

type Reply struct {
	OK      bool           `json:"ok"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
}

type Handler func(ControlMessage) Reply

// StartServer listens on path until ctx is done. A stale socket file from a
// previous run is removed first.
func StartServer(ctx context.Context, path string, handler Handler) error {
	_ = os.Remove(path)

	ln, err := net.Listen("unix", path)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	go func() {
		defer os.Remove(path)
		for {
			conn, err := ln.Accept()
			if err != nil {
				if errors.Is(err, net.ErrClosed) {
					return
				}
				log.Warn("control accept failed", "err", err)
				continue
			}
			go handleConn(conn, handler)
		}
	}()

	return nil
}

func handleConn(conn net.Conn, handler Handler) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	var msg ControlMessage
	if err := json.NewDecoder(conn).Decode(&msg); err != nil {
		log.Debug("bad control message", "err", err)
		return
	}

	if err := json.NewEncoder(conn).Encode(handler(msg)); err != nil {
		log.Debug("control reply failed", "err", err)
	}
}

func SendCommand(path, cmd string) (Reply, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return Reply{}, err
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(5 * time.Second))

	if err := json.NewEncoder(conn).Encode(ControlMessage{Cmd: cmd}); err != nil {
		return Reply{}, fmt.Errorf("send: %w", err)
	}

	var r Reply
	if err := json.NewDecoder(conn).Decode(&r); err != nil {
		return Reply{}, fmt.Errorf("read reply: %w", err)
	}
	return r, nil
}
