package main

import (
	"context"
	log "log/slog"
	"time"

	"saathi/internal/assistant"
	"saathi/internal/audio/duck"
	"saathi/internal/playback"
)

type cloudSpeaker struct {
	pipeline *assistant.Pipeline
	synth    assistant.Synthesizer
	player   *playback.Player
}

func (s *cloudSpeaker) Speak(ctx context.Context, text string) error {
	mp3, err := s.pipeline.Speak(ctx, s.synth, text)
	if err != nil {
		return err
	}
	return s.player.PlayMP3(ctx, mp3)
}

// duckingSpeaker lowers other applications while the reply plays.
type duckingSpeaker struct {
	next   speaker
	ducker *duck.Ducker
	factor float64
	fade   time.Duration
}

func (s *duckingSpeaker) Speak(ctx context.Context, text string) error {
	if err := s.ducker.Duck(ctx, s.factor, s.fade); err != nil {
		log.Warn("Failed to duck audio", "err", err)
	}
	defer func() {
		// restore even when ctx was cancelled mid-reply
		if err := s.ducker.Restore(context.Background(), s.fade); err != nil {
			log.Warn("Failed to restore audio", "err", err)
		}
	}()

	return s.next.Speak(ctx, text)
}
