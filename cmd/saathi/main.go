package main

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"os"
	"os/signal"
	"syscall"

	cli "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"saathi/internal/app"
	"saathi/internal/assistant"
	"saathi/internal/audio"
	"saathi/internal/audio/duck"
	"saathi/internal/config"
	"saathi/internal/conversation"
	"saathi/internal/face"
	"saathi/internal/ipc"
	"saathi/internal/llm"
	"saathi/internal/monitor"
	"saathi/internal/observe"
	"saathi/internal/playback"
	"saathi/internal/tts"
	"saathi/internal/tts/espeak"
	"saathi/internal/vision"
)

func main() {
	flags := app.RegisterFlags(cli.CommandLine)
	cli.Parse()

	cfg, err := flags.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}
	app.SetupLogging(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, cfg)
	switch {
	case errors.Is(err, errConversationOver):
		fmt.Println(assistant.Apology)
	case err != nil:
		log.Error("assistant failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log.Info("Booting up")

	metrics := observe.DefaultMetrics()

	oai, err := app.OpenAI(cfg)
	if err != nil {
		return err
	}

	transcriber, closeSTT, err := app.Transcriber(cfg, oai)
	if err != nil {
		return err
	}
	defer closeSTT()

	pipeline := assistant.New(
		transcriber,
		llm.NewOracle(oai, cfg.LLM.Model, cfg.LLM.SystemPrompt),
		conversation.New(),
		metrics,
	)

	rec := audio.NewRecorder(audio.RecorderOptions{})
	if err := rec.Init(); err != nil {
		return fmt.Errorf("init audio: %w", err)
	}
	defer rec.Close()
	log.Debug("Loaded recorder")

	player := playback.New()
	sp := newSpeaker(cfg, pipeline, oai, player)

	var cue []byte
	if cfg.Playback.Cue != "" {
		if cue, err = os.ReadFile(cfg.Playback.Cue); err != nil {
			log.Warn("listening cue disabled", "err", err)
		}
	}
	cell := monitor.NewCell()

	if err := ipc.StartServer(ctx, cfg.Control.Socket, controlHandler(pipeline, cell)); err != nil {
		log.Warn("control socket unavailable", "path", cfg.Control.Socket, "err", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	if poller, closeCam := startMonitor(cfg, cell, metrics); poller != nil {
		defer closeCam()
		g.Go(func() error { return poller.Run(gctx) })
	}

	log.Info("Boot up - successful")

	l := &loop{
		rec:      rec,
		pipeline: pipeline,
		cell:     cell,
		speaker:  sp,
		player:   player,
		cue:      cue,
		metrics:  metrics,
	}
	g.Go(func() error { return l.run(gctx) })

	return g.Wait()
}

// startMonitor opens the camera and cascades. Without them the assistant
// still runs, just without expression hints.
func startMonitor(cfg *config.Config, cell *monitor.Cell, metrics *observe.Metrics) (*monitor.Poller, func()) {
	cascades, err := vision.LoadCascades(cfg.Vision.CascadeDir)
	if err != nil {
		log.Warn("expression monitoring disabled", "err", err)
		return nil, nil
	}

	cam, err := vision.OpenCamera(cfg.Vision.Camera)
	if err != nil {
		cascades.Close()
		log.Warn("Could not open camera for expression monitoring", "err", err)
		return nil, nil
	}

	p := monitor.NewPoller(cam, face.NewAnalyzer(cascades, face.StandaloneParams), cell, cfg.Vision.PollInterval)
	p.OnDetection = func(d face.Detection) {
		if d.Detected {
			metrics.RecordExpression(context.Background(), string(d.Result.Label), "camera")
		}
	}

	return p, func() {
		cam.Close()
		cascades.Close()
	}
}

func controlHandler(p *assistant.Pipeline, cell *monitor.Cell) ipc.Handler {
	return func(msg ipc.ControlMessage) ipc.Reply {
		switch msg.Cmd {
		case ipc.CmdReset:
			p.Reset()
			return ipc.Reply{OK: true, Message: "Conversation reset"}
		case ipc.CmdStatus:
			s := cell.Snapshot()
			return ipc.Reply{OK: true, Data: map[string]any{
				"messages_count": p.Transcript().Len(),
				"expression":     s.Label,
				"face_detected":  s.Detected,
			}}
		case ipc.CmdExpression:
			s := cell.Snapshot()
			if !s.Detected {
				return ipc.Reply{OK: true, Message: "no face detected"}
			}
			return ipc.Reply{OK: true, Message: s.Label}
		default:
			log.Warn("Unknown command", "cmd", msg.Cmd)
			return ipc.Reply{Message: "unknown command " + msg.Cmd}
		}
	}
}

// speaker voices a reply on the local machine.
type speaker interface {
	Speak(ctx context.Context, text string) error
}

func newSpeaker(cfg *config.Config, p *assistant.Pipeline, src tts.ClientSource, player *playback.Player) speaker {
	var sp speaker
	switch cfg.TTS.Engine {
	case config.TTSEspeak:
		sp = espeak.New(cfg.TTS.Language)
	default:
		sp = &cloudSpeaker{
			pipeline: p,
			synth:    tts.NewOpenAI(src, cfg.TTS.Model, cfg.TTS.Voice),
			player:   player,
		}
	}

	if cfg.Playback.Duck {
		sp = &duckingSpeaker{
			next:   sp,
			ducker: duck.New([]string{"saathi"}, cfg.Playback.MinVolume),
			factor: cfg.Playback.DuckFactor,
			fade:   cfg.Playback.Fade,
		}
	}
	return sp
}
