package audioconv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func sine(n, rate int, freq float64) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

func TestEncodedWAVDecodesBackToPCM(t *testing.T) {
	in := sine(SampleRate/2, SampleRate, 440)

	data, err := EncodeWAV(in, SampleRate)
	require.NoError(t, err)
	require.Equal(t, "RIFF", string(data[:4]))
	require.Equal(t, "WAVE", string(data[8:12]))

	out, err := Decode(data, "upload.bin", Options{})
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		require.InDelta(t, in[i], out[i], 1e-3)
	}
}

func TestDecodeResamplesWAVTo16k(t *testing.T) {
	data, err := EncodeWAV(sine(48000, 48000, 220), 48000)
	require.NoError(t, err)

	out, err := Decode(data, "", Options{})
	require.NoError(t, err)
	require.InDelta(t, SampleRate, len(out), 2)
}

func TestDecodeHonoursMaxSamples(t *testing.T) {
	data, err := EncodeWAV(sine(8000, SampleRate, 220), SampleRate)
	require.NoError(t, err)

	out, err := Decode(data, "a.wav", Options{MaxSamples: 100})
	require.NoError(t, err)
	require.Len(t, out, 100)
}

func TestDecodeRejectsUnknownContainers(t *testing.T) {
	_, err := Decode([]byte{0x1a, 0x45, 0xdf, 0xa3, 0, 0}, "clip.webm", Options{})
	require.ErrorIs(t, err, ErrUnsupported)

	_, err = Decode(nil, "a.wav", Options{})
	require.Error(t, err)
}

func TestSniff(t *testing.T) {
	require.Equal(t, "wav", sniff([]byte("RIFF...."), "x.mp3"))
	require.Equal(t, "ogg", sniff([]byte("OggS"), ""))
	require.Equal(t, "mp3", sniff([]byte("ID3\x04"), ""))
	require.Equal(t, "mp3", sniff([]byte{0xFF, 0xFB, 0x90}, ""))
	require.Equal(t, "ogg", sniff([]byte("????"), "voice.OPUS"))
	require.Equal(t, "", sniff([]byte("????"), "voice.webm"))
}

func TestDownmixAndResample(t *testing.T) {
	require.Equal(t, []float32{0.5, 0}, downmixInterleaved([]float32{1, 0, -0.5, 0.5}, 2))

	out := resampleLinear([]float32{0, 1, 0, 1}, 32000, 16000)
	require.Len(t, out, 2)
	require.Equal(t, float32(0), out[0])
}
