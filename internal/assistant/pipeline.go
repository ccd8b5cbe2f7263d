// Package assistant runs one conversational turn: transcribe, attach the
// expression hint, ask the model and optionally synthesize the answer.
package assistant

import (
	"context"
	"errors"
	"time"

	"saathi/internal/conversation"
	"saathi/internal/observe"
	"saathi/internal/provider"
	"saathi/pkg/stt"
)

const (
	// Apology is returned when the recogniser could not make out the speech.
	Apology = "क्षमा करें, मैं आपकी बात समझ नहीं पाया। कृपया फिर से प्रयास करें।"
	// NoReply replaces an empty model answer in service mode.
	NoReply = "क्षमा करें, मुझे कोई प्रतिक्रिया नहीं मिली।"
)

type Oracle interface {
	Reply(ctx context.Context, history []conversation.Message) (string, error)
}

type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type Pipeline struct {
	stt        stt.Transcriber
	oracle     Oracle
	transcript *conversation.Transcript
	metrics    *observe.Metrics

	// Fallback replaces an empty reply. Standalone mode leaves it empty so
	// nothing is spoken or recorded.
	Fallback string
}

// New builds a pipeline. A nil m records into observe.DefaultMetrics.
func New(t stt.Transcriber, o Oracle, tr *conversation.Transcript, m *observe.Metrics) *Pipeline {
	if m == nil {
		m = observe.DefaultMetrics()
	}
	return &Pipeline{stt: t, oracle: o, transcript: tr, metrics: m}
}

func (p *Pipeline) Transcript() *conversation.Transcript { return p.transcript }

// Transcribe converts speech to text. Unintelligible speech is recoverable,
// anything else is not.
func (p *Pipeline) Transcribe(ctx context.Context, a stt.Audio) (string, error) {
	ctx, span := observe.StartSpan(ctx, "assistant.transcribe")
	defer span.End()

	start := time.Now()
	text, err := p.stt.Transcribe(ctx, a)
	p.metrics.STTDuration.Record(ctx, time.Since(start).Seconds())

	switch {
	case errors.Is(err, stt.ErrUnintelligible):
		return "", recoverable("transcribe", err)
	case err != nil:
		p.metrics.RecordProviderError(ctx, "stt", failureKind(err))
		return "", unexpected("transcribe", err)
	}
	return text, nil
}

// Respond appends the user turn (text plus the expression hint), asks the
// oracle and appends its answer. The returned reply is empty only when the
// model said nothing and no Fallback is set.
func (p *Pipeline) Respond(ctx context.Context, text, exprContext string) (string, error) {
	ctx, span := observe.StartSpan(ctx, "assistant.respond")
	defer span.End()

	p.transcript.Append(conversation.RoleUser, text+exprContext)

	start := time.Now()
	reply, err := p.oracle.Reply(ctx, p.transcript.All())
	p.metrics.LLMDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		p.metrics.RecordProviderError(ctx, "llm", failureKind(err))
		return "", unexpected("reply", err)
	}

	if reply == "" {
		reply = p.Fallback
	}
	if reply != "" {
		p.transcript.Append(conversation.RoleAssistant, reply)
	}
	return reply, nil
}

// Speak runs the synthesizer with latency accounting.
func (p *Pipeline) Speak(ctx context.Context, s Synthesizer, text string) ([]byte, error) {
	ctx, span := observe.StartSpan(ctx, "assistant.speak")
	defer span.End()

	start := time.Now()
	audio, err := s.Synthesize(ctx, text)
	p.metrics.TTSDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		p.metrics.RecordProviderError(ctx, "tts", failureKind(err))
		return nil, unexpected("synthesize", err)
	}
	return audio, nil
}

// Reset clears the conversation.
func (p *Pipeline) Reset() {
	p.transcript.Reset()
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, provider.ErrMissingCredential):
		return "credential"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "request"
	}
}
