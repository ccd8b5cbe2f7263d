// Package duck lowers the volume of other applications' PulseAudio streams
// while the assistant is speaking and restores them afterwards.
package duck

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
)

const maxVolume = 150

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

type stream struct {
	ID      int
	Volume  int
	AppName string
}

type fade struct {
	id   int
	from int
	to   int
}

// Mixer talks to the sound server. The default implementation shells out
// to pactl.
type Mixer interface {
	List(ctx context.Context) ([]stream, error)
	SetVolume(ctx context.Context, id, percent int) error
}

// Ducker fades every stream except the ones whose application.name is in
// self.
type Ducker struct {
	mu        sync.Mutex
	mixer     Mixer
	active    bool
	self      []string
	original  map[int]int
	minVolume int
}

func New(self []string, minVolume int) *Ducker {
	return newWithMixer(pactl{}, self, minVolume)
}

func newWithMixer(m Mixer, self []string, minVolume int) *Ducker {
	return &Ducker{
		mixer:     m,
		self:      slices.Clone(self),
		original:  make(map[int]int),
		minVolume: max(0, min(minVolume, maxVolume)),
	}
}

// Duck scales foreign streams by factor (never below the minimum volume).
// Calling it while already ducked is a no-op.
func (d *Ducker) Duck(ctx context.Context, factor float64, dur time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	streams, err := d.mixer.List(ctx)
	if err != nil {
		return fmt.Errorf("list streams: %w", err)
	}

	d.original = make(map[int]int)
	var fades []fade
	for _, s := range streams {
		if slices.Contains(d.self, s.AppName) {
			continue
		}
		target := math.Max(float64(s.Volume)*factor, float64(d.minVolume))
		target = math.Min(target, maxVolume)

		d.original[s.ID] = s.Volume
		fades = append(fades, fade{id: s.ID, from: s.Volume, to: int(math.Round(target))})
	}

	if err := d.run(ctx, fades, dur); err != nil {
		return err
	}
	d.active = true
	return nil
}

// Restore fades ducked streams back to their original volume. Streams that
// appeared after Duck are left alone.
func (d *Ducker) Restore(ctx context.Context, dur time.Duration) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	streams, err := d.mixer.List(ctx)
	if err != nil {
		return fmt.Errorf("list streams: %w", err)
	}

	var fades []fade
	for _, s := range streams {
		orig, ok := d.original[s.ID]
		if !ok || slices.Contains(d.self, s.AppName) {
			continue
		}
		fades = append(fades, fade{id: s.ID, from: s.Volume, to: orig})
	}

	if err := d.run(ctx, fades, dur); err != nil {
		return err
	}
	d.original = make(map[int]int)
	d.active = false
	return nil
}

func (d *Ducker) run(ctx context.Context, fades []fade, dur time.Duration) error {
	if len(fades) == 0 {
		return nil
	}

	const minStep = 10 * time.Millisecond
	steps := max(1, int(dur/minStep))
	stepDur := dur / time.Duration(steps)

	for i := 0; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frac := float64(i) / float64(steps)
		for _, f := range fades {
			v := int(math.Round(float64(f.from) + float64(f.to-f.from)*frac))
			if err := d.mixer.SetVolume(ctx, f.id, v); err != nil {
				return fmt.Errorf("set volume id=%d: %w", f.id, err)
			}
		}

		if i < steps && stepDur > 0 {
			time.Sleep(stepDur)
		}
	}
	return nil
}

type pactl struct{}

func (pactl) List(ctx context.Context) ([]stream, error) {
	out, err := exec.CommandContext(ctx, "pactl", "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}
	return parseSinkInputs(string(out)), nil
}

func (pactl) SetVolume(ctx context.Context, id, percent int) error {
	percent = max(0, min(percent, maxVolume))
	arg := strconv.Itoa(percent) + "%"
	return exec.CommandContext(ctx, "pactl", "set-sink-input-volume", strconv.Itoa(id), arg).Run()
}

// parseSinkInputs reads `pactl list sink-inputs` output.
func parseSinkInputs(text string) []stream {
	parts := strings.Split(text, "Sink Input #")
	var res []stream

	for _, block := range parts[1:] {
		head, body, ok := strings.Cut(block, "\n")
		if !ok {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSpace(head))
		if err != nil {
			continue
		}

		s := stream{ID: id}
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)

			if strings.HasPrefix(line, "Volume:") && s.Volume == 0 {
				if m := percentRe.FindStringSubmatch(line); len(m) >= 2 {
					if v, err := strconv.Atoi(m[1]); err == nil {
						s.Volume = v
					}
				}
			}

			if strings.HasPrefix(line, "application.name =") && s.AppName == "" {
				if _, rest, ok := strings.Cut(line, `"`); ok {
					s.AppName, _, _ = strings.Cut(rest, `"`)
				}
			}
		}

		if s.Volume == 0 && s.AppName == "" {
			continue
		}
		res = append(res, s)
	}

	return res
}
