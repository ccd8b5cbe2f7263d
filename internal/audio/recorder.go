// Package audio captures utterances from the default microphone.
package audio

import (
	"context"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate = 16000
	frameSize  = 320 // 20ms
)

// RecorderOptions tunes end-of-speech detection.
type RecorderOptions struct {
	SilenceRMS float64       // frames below this level count as silence
	Pause      time.Duration // trailing silence that ends an utterance
	MaxLength  time.Duration
}

func (o RecorderOptions) withDefaults() RecorderOptions {
	if o.SilenceRMS <= 0 {
		o.SilenceRMS = 0.015
	}
	if o.Pause <= 0 {
		o.Pause = time.Second
	}
	if o.MaxLength <= 0 {
		o.MaxLength = 15 * time.Second
	}
	return o
}

type Recorder struct {
	opt RecorderOptions
}

func NewRecorder(opt RecorderOptions) *Recorder {
	return &Recorder{opt: opt.withDefaults()}
}

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Listen waits for speech and returns mono 16 kHz samples once the speaker
// pauses, the maximum length is reached or ctx is cancelled.
func (r *Recorder) Listen(ctx context.Context) ([]float32, error) {
	buf := make([]float32, frameSize)
	out := make([]float32, 0, sampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	seg := endpointer{
		threshold:   r.opt.SilenceRMS,
		pauseFrames: int(r.opt.Pause / (20 * time.Millisecond)),
	}
	maxFrames := int(r.opt.MaxLength / (20 * time.Millisecond))

	for i := 0; i < maxFrames; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := stream.Read(); err != nil {
			return nil, err
		}

		keep, done := seg.push(buf)
		if keep {
			out = append(out, buf...)
		}
		if done {
			break
		}
	}

	return out, nil
}

// endpointer decides, frame by frame, whether audio belongs to the
// utterance and whether the utterance has ended.
type endpointer struct {
	threshold   float64
	pauseFrames int

	speaking bool
	silent   int
}

func (e *endpointer) push(frame []float32) (keep, done bool) {
	if frameRMS(frame) > e.threshold {
		e.speaking = true
		e.silent = 0
		return true, false
	}
	if !e.speaking {
		return false, false
	}
	e.silent++
	return true, e.silent >= e.pauseFrames
}

func frameRMS(f []float32) float64 {
	if len(f) == 0 {
		return 0
	}
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
