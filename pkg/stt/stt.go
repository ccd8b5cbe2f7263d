// Package stt turns recorded speech into text, either through the OpenAI
// transcription endpoint or a local whisper.cpp model.
package stt

import (
	"context"
	"errors"
	"strings"
)

// ErrUnintelligible means the recogniser heard nothing it could transcribe.
var ErrUnintelligible = errors.New("speech not understood")

// Audio is one utterance. PCM is mono 16 kHz float32 in [-1, 1] and may be
// nil when the upload could not be decoded; Raw then holds the original bytes.
type Audio struct {
	PCM      []float32
	Raw      []byte
	Filename string
}

type Transcriber interface {
	Transcribe(ctx context.Context, a Audio) (string, error)
}

// Normalize trims text and maps an empty transcript to ErrUnintelligible.
func Normalize(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrUnintelligible
	}
	return text, nil
}
