package duck

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

const pactlOutput = `Sink Input #41
	Driver: protocol-native.c
	Volume: front-left: 65536 / 100% / 0.00 dB,   front-right: 65536 / 100% / 0.00 dB
	Properties:
		application.name = "Firefox"
Sink Input #57
	Volume: front-left: 52429 /  80% / -5.81 dB
	Properties:
		application.name = "saathi"
Sink Input #oops
	Volume: 10%
`

type fakeMixer struct {
	streams []stream
	set     map[int]int
}

func (f *fakeMixer) List(context.Context) ([]stream, error) { return f.streams, nil }

func (f *fakeMixer) SetVolume(_ context.Context, id, percent int) error {
	if f.set == nil {
		f.set = map[int]int{}
	}
	f.set[id] = percent
	for i := range f.streams {
		if f.streams[i].ID == id {
			f.streams[i].Volume = percent
		}
	}
	return nil
}

func TestParseSinkInputs(t *testing.T) {
	got := parseSinkInputs(pactlOutput)
	require.Equal(t, []stream{
		{ID: 41, Volume: 100, AppName: "Firefox"},
		{ID: 57, Volume: 80, AppName: "saathi"},
	}, got)

	require.Empty(t, parseSinkInputs("no sinks here"))
}

func TestDuckAndRestoreSkipSelf(t *testing.T) {
	m := &fakeMixer{streams: parseSinkInputs(pactlOutput)}
	d := newWithMixer(m, []string{"saathi"}, 10)

	require.NoError(t, d.Duck(context.Background(), 0.3, 0))
	require.Equal(t, map[int]int{41: 30}, m.set)

	// ducking twice does nothing
	m.set = nil
	require.NoError(t, d.Duck(context.Background(), 0.3, 0))
	require.Nil(t, m.set)

	require.NoError(t, d.Restore(context.Background(), 0))
	require.Equal(t, map[int]int{41: 100}, m.set)
}

func TestDuckRespectsMinimumVolume(t *testing.T) {
	m := &fakeMixer{streams: []stream{{ID: 1, Volume: 40, AppName: "mpv"}}}
	d := newWithMixer(m, nil, 25)

	require.NoError(t, d.Duck(context.Background(), 0.1, 0))
	require.Equal(t, 25, m.set[1])
}

func TestRestoreWithoutDuckIsNoop(t *testing.T) {
	m := &fakeMixer{streams: []stream{{ID: 1, Volume: 40}}}
	require.NoError(t, newWithMixer(m, nil, 0).Restore(context.Background(), 0))
	require.Nil(t, m.set)
}
