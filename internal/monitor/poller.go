package monitor

import (
	"context"
	"image"
	log "log/slog"
	"time"

	"saathi/internal/face"
)

const DefaultInterval = 500 * time.Millisecond

type FrameSource interface {
	ReadGray() (*image.Gray, error)
}

type Analyzer interface {
	Analyze(frame *image.Gray) face.Detection
}

// Poller samples frames at a fixed cadence and publishes the first face's
// expression into a Cell.
type Poller struct {
	src      FrameSource
	analyzer Analyzer
	cell     *Cell
	interval time.Duration

	// OnDetection, when set, sees every analysed frame.
	OnDetection func(face.Detection)
}

func NewPoller(src FrameSource, a Analyzer, cell *Cell, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{src: src, analyzer: a, cell: cell, interval: interval}
}

// Run polls until ctx is cancelled. Failed camera reads are skipped.
func (p *Poller) Run(ctx context.Context) error {
	log.Info("expression monitoring started", "interval", p.interval)

	t := time.NewTicker(p.interval)
	defer t.Stop()

	for {
		p.tick()

		select {
		case <-ctx.Done():
			log.Info("expression monitoring stopped")
			return nil
		case <-t.C:
		}
	}
}

func (p *Poller) tick() {
	frame, err := p.src.ReadGray()
	if err != nil {
		log.Debug("camera read failed", "err", err)
		return
	}

	d := p.analyzer.Analyze(frame)
	p.cell.Set(d.Result.Label.Display(), d.Detected)

	if p.OnDetection != nil {
		p.OnDetection(d)
	}
}
