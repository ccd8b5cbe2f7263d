// Package audioconv decodes uploaded or recorded audio into mono 16 kHz
// float32 PCM, the format both speech recognisers expect.
package audioconv

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	popus "github.com/pekim/opus"
)

const SampleRate = 16000

var ErrUnsupported = errors.New("unsupported audio format")

type Options struct {
	MaxSamples int // 0 = no limit
}

// Decode sniffs data (falling back to the extension of name) and returns
// mono PCM at SampleRate.
func Decode(data []byte, name string, opt Options) ([]float32, error) {
	if len(data) == 0 {
		return nil, errors.New("empty audio")
	}

	var (
		pcm []float32
		err error
	)
	switch sniff(data, name) {
	case "wav":
		pcm, err = decodeWAV(bytes.NewReader(data))
	case "mp3":
		pcm, err = decodeMP3(bytes.NewReader(data))
	case "ogg":
		pcm, err = decodeOggVorbis(bytes.NewReader(data))
		if err != nil {
			pcm, err = decodeOggOpus(bytes.NewReader(data))
			if err != nil {
				err = fmt.Errorf("ogg is neither vorbis nor opus: %w", err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(name))
	}
	if err != nil {
		return nil, err
	}

	if opt.MaxSamples > 0 && len(pcm) > opt.MaxSamples {
		pcm = pcm[:opt.MaxSamples]
	}
	return pcm, nil
}

func sniff(data []byte, name string) string {
	switch {
	case bytes.HasPrefix(data, []byte("RIFF")):
		return "wav"
	case bytes.HasPrefix(data, []byte("OggS")):
		return "ogg"
	case bytes.HasPrefix(data, []byte("ID3")):
		return "mp3"
	case len(data) > 1 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return "mp3"
	}

	switch strings.ToLower(filepath.Ext(name)) {
	case ".wav":
		return "wav"
	case ".mp3":
		return "mp3"
	case ".ogg", ".oga", ".opus":
		return "ogg"
	}
	return ""
}

func decodeWAV(r io.ReadSeeker) ([]float32, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, errors.New("invalid wav")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil || pb == nil || pb.Data == nil {
		if err == nil {
			err = errors.New("empty wav")
		}
		return nil, err
	}

	bd := int(dec.BitDepth)
	if bd == 0 {
		bd = 16
	}
	x := intSliceToFloat32(pb.Data, bd)

	ch, sr := 1, 44100
	if pb.Format != nil {
		if pb.Format.NumChannels > 0 {
			ch = pb.Format.NumChannels
		}
		if pb.Format.SampleRate > 0 {
			sr = pb.Format.SampleRate
		}
	}
	return resampleLinear(downmixInterleaved(x, ch), sr, SampleRate), nil
}

func decodeMP3(r io.Reader) ([]float32, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}

	ints := make([]int16, len(raw)/2)
	for i := range ints {
		ints[i] = int16(uint16(raw[2*i]) | uint16(raw[2*i+1])<<8)
	}
	// the decoder always emits interleaved stereo
	x := downmixInterleaved(int16SliceToFloat32(ints), 2)

	sr := dec.SampleRate()
	if sr <= 0 {
		sr = 44100
	}
	return resampleLinear(x, sr, SampleRate), nil
}

func decodeOggVorbis(r io.Reader) ([]float32, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return nil, errors.New("invalid ogg/vorbis stream")
	}
	x := downmixInterleaved(pcm, format.Channels)
	return resampleLinear(x, format.SampleRate, SampleRate), nil
}

func decodeOggOpus(r io.ReadSeeker) ([]float32, error) {
	dec, err := popus.NewDecoder(r)
	if err != nil {
		return nil, err
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	// opus always decodes at 48 kHz
	var (
		pcm48 []float32
		buf   = make([]int16, 48_000*ch/2)
	)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			pcm48 = append(pcm48, int16SliceToFloat32(buf[:n*ch])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	if len(pcm48) == 0 {
		return nil, errors.New("empty opus stream")
	}

	return resampleLinear(downmixInterleaved(pcm48, ch), 48000, SampleRate), nil
}

func intSliceToFloat32(data []int, bitDepth int) []float32 {
	out := make([]float32, len(data))
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	for i, v := range data {
		out[i] = float32(clamp(float64(v)*scale, -1.0, 1.0))
	}
	return out
}

func int16SliceToFloat32(data []int16) []float32 {
	out := make([]float32, len(data))
	const scale = 1.0 / 32768.0
	for i, v := range data {
		out[i] = float32(float64(v) * scale)
	}
	return out
}

func downmixInterleaved(in []float32, channels int) []float32 {
	if channels <= 1 {
		return in
	}
	nFrames := len(in) / channels
	out := make([]float32, nFrames)
	for i := 0; i < nFrames; i++ {
		sum := 0.0
		base := i * channels
		for c := 0; c < channels; c++ {
			sum += float64(in[base+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

func resampleLinear(in []float32, inSR, outSR int) []float32 {
	if inSR == outSR || len(in) == 0 {
		return in
	}
	ratio := float64(outSR) / float64(inSR)
	outN := int(math.Ceil(float64(len(in)) * ratio))
	out := make([]float32, outN)
	for i := 0; i < outN; i++ {
		src := float64(i) / ratio
		i0 := int(math.Floor(src))
		i1 := i0 + 1
		if i0 >= len(in) {
			out[i] = in[len(in)-1]
			continue
		}
		if i1 >= len(in) {
			out[i] = in[i0]
			continue
		}
		a := float32(src - float64(i0))
		out[i] = in[i0]*(1-a) + in[i1]*a
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
