// Package tts synthesises assistant replies to MP3 and keeps the rendered
// files available for download.
package tts

import (
	"context"
	"fmt"
	"io"
	"net/http"

	openai "github.com/openai/openai-go/v3"
)

const (
	DefaultModel = "gpt-4o-mini-tts"
	DefaultVoice = "nova"
)

type Synthesizer interface {
	// Synthesize returns MP3 bytes for text.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// ClientSource hands out a ready OpenAI client.
type ClientSource interface {
	Client() (*openai.Client, error)
}

// OpenAI renders speech through the hosted speech endpoint.
type OpenAI struct {
	source ClientSource
	model  string
	voice  string
}

func NewOpenAI(src ClientSource, model, voice string) *OpenAI {
	if model == "" {
		model = DefaultModel
	}
	if voice == "" {
		voice = DefaultVoice
	}
	return &OpenAI{source: src, model: model, voice: voice}
}

type speechRequest struct {
	Model          string `json:"model"`
	Input          string `json:"input"`
	Voice          string `json:"voice"`
	ResponseFormat string `json:"response_format"`
}

func (o *OpenAI) Synthesize(ctx context.Context, text string) ([]byte, error) {
	client, err := o.source.Client()
	if err != nil {
		return nil, err
	}

	// the body is raw audio, so take the response as-is
	var res *http.Response
	err = client.Post(ctx, "audio/speech", speechRequest{
		Model:          o.model,
		Input:          text,
		Voice:          o.voice,
		ResponseFormat: "mp3",
	}, &res)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("read speech: %w", err)
	}
	return data, nil
}
