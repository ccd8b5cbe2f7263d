package ipc

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func socketPath(t *testing.T) string {
	// unix socket paths are short; TempDir can exceed the limit on macOS.
	dir, err := os.MkdirTemp("", "ipc")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "s.sock")
}

func TestRoundTrip(t *testing.T) {
	path := socketPath(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, StartServer(ctx, path, func(m ControlMessage) Reply {
		switch m.Cmd {
		case CmdStatus:
			return Reply{OK: true, Data: map[string]any{"messages": 3}}
		default:
			return Reply{Message: "unknown command " + m.Cmd}
		}
	}))

	r, err := SendCommand(path, CmdStatus)
	require.NoError(t, err)
	require.True(t, r.OK)
	require.EqualValues(t, 3, r.Data["messages"])

	r, err = SendCommand(path, "dance")
	require.NoError(t, err)
	require.False(t, r.OK)
	require.Equal(t, "unknown command dance", r.Message)
}

func TestServerStopsWithContext(t *testing.T) {
	path := socketPath(t)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, StartServer(ctx, path, func(ControlMessage) Reply { return Reply{OK: true} }))
	cancel()

	require.Eventually(t, func() bool {
		_, err := SendCommand(path, CmdStatus)
		return err != nil
	}, time.Second, 10*time.Millisecond)
}

func TestSendCommandWithoutServer(t *testing.T) {
	_, err := SendCommand(socketPath(t), CmdReset)
	require.Error(t, err)
}
