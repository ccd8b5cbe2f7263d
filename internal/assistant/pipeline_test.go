package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"saathi/internal/conversation"
	"saathi/internal/observe"
	"saathi/internal/provider"
	"saathi/pkg/stt"
)

type fakeSTT struct {
	text string
	err  error
}

func (f fakeSTT) Transcribe(context.Context, stt.Audio) (string, error) { return f.text, f.err }

type fakeOracle struct {
	reply string
	err   error
	seen  []conversation.Message
}

func (f *fakeOracle) Reply(_ context.Context, h []conversation.Message) (string, error) {
	f.seen = h
	return f.reply, f.err
}

type fakeSynth struct {
	err error
}

func (f fakeSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("mp3:" + text), nil
}

func newPipeline(t *testing.T, s stt.Transcriber, o Oracle) *Pipeline {
	t.Helper()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	m, err := observe.NewMetrics(mp)
	require.NoError(t, err)
	return New(s, o, conversation.New(), m)
}

func TestTranscribeUnintelligibleIsRecoverable(t *testing.T) {
	p := newPipeline(t, fakeSTT{err: fmt.Errorf("whisper: %w", stt.ErrUnintelligible)}, &fakeOracle{})

	_, err := p.Transcribe(context.Background(), stt.Audio{})
	require.ErrorIs(t, err, stt.ErrUnintelligible)
	require.Equal(t, KindRecoverable, KindOf(err))
}

func TestTranscribeServiceFailureIsUnexpected(t *testing.T) {
	p := newPipeline(t, fakeSTT{err: errors.New("429 quota")}, &fakeOracle{})

	_, err := p.Transcribe(context.Background(), stt.Audio{})
	require.Error(t, err)
	require.Equal(t, KindUnexpected, KindOf(err))

	var e *Error
	require.ErrorAs(t, err, &e)
	require.Equal(t, "transcribe", e.Op)
}

func TestRespondAppendsBothTurns(t *testing.T) {
	o := &fakeOracle{reply: "नमस्ते"}
	p := newPipeline(t, fakeSTT{}, o)

	reply, err := p.Respond(context.Background(), "हैलो", "\n[संदर्भ: x]")
	require.NoError(t, err)
	require.Equal(t, "नमस्ते", reply)

	require.Equal(t, []conversation.Message{
		{Role: conversation.RoleUser, Content: "हैलो\n[संदर्भ: x]"},
	}, o.seen)
	require.Equal(t, []conversation.Message{
		{Role: conversation.RoleUser, Content: "हैलो\n[संदर्भ: x]"},
		{Role: conversation.RoleAssistant, Content: "नमस्ते"},
	}, p.Transcript().All())
}

func TestRespondEmptyReply(t *testing.T) {
	t.Run("with fallback", func(t *testing.T) {
		p := newPipeline(t, fakeSTT{}, &fakeOracle{})
		p.Fallback = NoReply

		reply, err := p.Respond(context.Background(), "a", "")
		require.NoError(t, err)
		require.Equal(t, NoReply, reply)
		require.Equal(t, 2, p.Transcript().Len())
	})

	t.Run("without fallback", func(t *testing.T) {
		p := newPipeline(t, fakeSTT{}, &fakeOracle{})

		reply, err := p.Respond(context.Background(), "a", "")
		require.NoError(t, err)
		require.Empty(t, reply)
		require.Equal(t, 1, p.Transcript().Len())
	})
}

func TestRespondMissingCredential(t *testing.T) {
	p := newPipeline(t, fakeSTT{}, &fakeOracle{err: provider.ErrMissingCredential})

	_, err := p.Respond(context.Background(), "a", "")
	require.ErrorIs(t, err, provider.ErrMissingCredential)
	require.Equal(t, KindUnexpected, KindOf(err))
}

func TestSpeak(t *testing.T) {
	p := newPipeline(t, fakeSTT{}, &fakeOracle{})

	got, err := p.Speak(context.Background(), fakeSynth{}, "hi")
	require.NoError(t, err)
	require.Equal(t, []byte("mp3:hi"), got)

	_, err = p.Speak(context.Background(), fakeSynth{err: errors.New("boom")}, "hi")
	require.Equal(t, KindUnexpected, KindOf(err))
}

func TestResetClearsTranscript(t *testing.T) {
	p := newPipeline(t, fakeSTT{}, &fakeOracle{reply: "x"})
	_, err := p.Respond(context.Background(), "a", "")
	require.NoError(t, err)

	p.Reset()
	require.Zero(t, p.Transcript().Len())
}

func TestKindOf(t *testing.T) {
	require.Equal(t, KindUnexpected, KindOf(errors.New("plain")))
	require.Equal(t, KindRecoverable, KindOf(fmt.Errorf("wrapped: %w", recoverable("op", errors.New("x")))))
	require.Equal(t, "recoverable", KindRecoverable.String())
}

func TestFailureKind(t *testing.T) {
	require.Equal(t, "credential", failureKind(provider.ErrMissingCredential))
	require.Equal(t, "timeout", failureKind(context.DeadlineExceeded))
	require.Equal(t, "request", failureKind(errors.New("x")))
}
