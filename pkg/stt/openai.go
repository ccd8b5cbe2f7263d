package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	openai "github.com/openai/openai-go/v3"

	"saathi/pkg/audioconv"
)

// ClientSource hands out a ready OpenAI client.
type ClientSource interface {
	Client() (*openai.Client, error)
}

// OpenAI sends audio to the hosted transcription model.
type OpenAI struct {
	source   ClientSource
	model    string
	language string
}

func NewOpenAI(src ClientSource, model, language string) *OpenAI {
	if model == "" {
		model = "whisper-1"
	}
	return &OpenAI{source: src, model: model, language: language}
}

func (o *OpenAI) Transcribe(ctx context.Context, a Audio) (string, error) {
	client, err := o.source.Client()
	if err != nil {
		return "", err
	}

	var (
		body []byte
		name = a.Filename
		mime = "application/octet-stream"
	)
	switch {
	case len(a.PCM) > 0:
		body, err = audioconv.EncodeWAV(a.PCM, audioconv.SampleRate)
		if err != nil {
			return "", fmt.Errorf("encode wav: %w", err)
		}
		name, mime = "speech.wav", "audio/wav"
	case len(a.Raw) > 0:
		body = a.Raw
		if name == "" {
			name = "speech.webm"
		}
	default:
		return "", errors.New("no audio provided")
	}

	params := openai.AudioTranscriptionNewParams{
		File:  openai.File(bytes.NewReader(body), name, mime),
		Model: openai.AudioModel(o.model),
	}
	if o.language != "" {
		params.Language = openai.String(o.language)
	}

	resp, err := client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}

	return Normalize(resp.Text)
}
