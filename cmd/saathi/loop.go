package main

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"saathi/internal/assistant"
	"saathi/internal/audio"
	"saathi/internal/monitor"
	"saathi/internal/observe"
	"saathi/internal/playback"
	"saathi/pkg/stt"
)

// errConversationOver ends the session when speech could not be understood.
var errConversationOver = errors.New("speech not understood, stopping")

type loop struct {
	rec      *audio.Recorder
	pipeline *assistant.Pipeline
	cell     *monitor.Cell
	speaker  speaker
	player   *playback.Player
	cue      []byte
	metrics  *observe.Metrics
}

func (l *loop) run(ctx context.Context) error {
	for {
		fmt.Println("कृपया बोलें...")
		if len(l.cue) > 0 {
			if err := l.player.PlayMP3(ctx, l.cue); err != nil && ctx.Err() == nil {
				log.Debug("cue failed", "err", err)
			}
		}

		pcm, err := l.rec.Listen(ctx)
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return fmt.Errorf("record: %w", err)
		}
		if len(pcm) == 0 {
			continue
		}

		if err := l.turn(ctx, pcm); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (l *loop) turn(ctx context.Context, pcm []float32) error {
	start := time.Now()
	defer func() {
		l.metrics.TurnDuration.Record(ctx, time.Since(start).Seconds())
	}()

	text, err := l.pipeline.Transcribe(ctx, stt.Audio{PCM: pcm})
	if err != nil {
		if assistant.KindOf(err) == assistant.KindRecoverable {
			return errConversationOver
		}
		return err
	}
	fmt.Println("आपने कहा:", text)

	hint := l.cell.Context()
	if hint != "" {
		fmt.Println("😊 चेहरे का भाव:", l.cell.Snapshot().Label)
	}

	reply, err := l.pipeline.Respond(ctx, text, hint)
	if err != nil {
		return err
	}
	if reply == "" {
		log.Warn("Empty reply from model")
		return nil
	}
	fmt.Println(reply)

	if err := l.speaker.Speak(ctx, reply); err != nil {
		log.Error("Failed to voice out", "err", err)
	}
	return nil
}
