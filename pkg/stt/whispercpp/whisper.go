// Package whispercpp transcribes speech with a local whisper.cpp model.
package whispercpp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"saathi/pkg/stt"
)

type Options struct {
	Language      string // "auto", "hi", "en", ...
	Threads       int    // <=0 => NumCPU()
	InitialPrompt string
	BeamSize      int // 0 = greedy
}

// Whisper runs a local ggml model. A model context is created per call and
// calls are serialised because the model is not safe for parallel inference.
type Whisper struct {
	mu    sync.Mutex
	model whisper.Model
	opt   Options
}

func New(modelPath string, opt Options) (*Whisper, error) {
	if modelPath == "" {
		return nil, errors.New("empty model path")
	}
	m, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	if opt.Language == "" {
		opt.Language = "auto"
	}
	return &Whisper{model: m, opt: opt}, nil
}

func (w *Whisper) Close() error {
	if w.model == nil {
		return nil
	}
	return w.model.Close()
}

// Transcribe needs decoded PCM; raw container bytes are rejected.
func (w *Whisper) Transcribe(ctx context.Context, a stt.Audio) (string, error) {
	if len(a.PCM) == 0 {
		return "", errors.New("whisper: no decoded samples")
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	wctx, err := w.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("new context: %w", err)
	}

	if err := wctx.SetLanguage(w.opt.Language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}

	threads := w.opt.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	wctx.SetThreads(uint(threads))

	if w.opt.BeamSize > 0 {
		wctx.SetBeamSize(w.opt.BeamSize)
	}
	if w.opt.InitialPrompt != "" {
		wctx.SetInitialPrompt(w.opt.InitialPrompt)
	}

	if err := wctx.Process(a.PCM, nil, nil, nil); err != nil {
		return "", fmt.Errorf("process: %w", err)
	}

	var parts []string
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		s, err := wctx.NextSegment()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("next segment: %w", err)
		}
		parts = append(parts, strings.TrimSpace(s.Text))
	}

	return stt.Normalize(strings.Join(parts, " "))
}
