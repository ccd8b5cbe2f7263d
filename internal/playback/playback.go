// Package playback plays MP3 replies on the default output device.
package playback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
)

// Player serialises playback; the speaker is a process-wide device.
type Player struct {
	mu sync.Mutex
}

func New() *Player { return &Player{} }

// PlayMP3 blocks until data has been played or ctx is done.
func (p *Player) PlayMP3(ctx context.Context, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	streamer, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("decode mp3: %w", err)
	}
	defer streamer.Close()

	if err := speaker.Init(format.SampleRate, format.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		speaker.Clear()
		return ctx.Err()
	}
}
