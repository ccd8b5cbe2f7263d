package main

import (
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"saathi/internal/api"
	"saathi/internal/app"
	"saathi/internal/assistant"
	"saathi/internal/config"
	"saathi/internal/conversation"
	"saathi/internal/face"
	"saathi/internal/llm"
	"saathi/internal/observe"
	"saathi/internal/tts"
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

	if err := run(ctx, cfg); err != nil {
		log.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	log.Info("Booting up")

	shutdownTelemetry, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "saathi-server"})
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer shutdownTelemetry(context.Background())
	metrics := observe.DefaultMetrics()

	if cfg.TTS.Engine != config.TTSOpenAI {
		return fmt.Errorf("tts.engine %q cannot serve audio files; use openai", cfg.TTS.Engine)
	}

	oai, err := app.OpenAI(cfg)
	if err != nil {
		return err
	}

	transcriber, closeSTT, err := app.Transcriber(cfg, oai)
	if err != nil {
		return err
	}
	defer closeSTT()

	store, err := tts.NewStore(cfg.Server.AudioDir)
	if err != nil {
		return err
	}

	cascades, err := vision.LoadCascades(cfg.Vision.CascadeDir)
	if err != nil {
		return err
	}
	defer cascades.Close()
	log.Debug("Loaded cascades", "dir", cfg.Vision.CascadeDir)

	pipeline := assistant.New(
		transcriber,
		llm.NewOracle(oai, cfg.LLM.Model, cfg.LLM.SystemPrompt),
		conversation.New(),
		metrics,
	)
	pipeline.Fallback = assistant.NoReply

	srv := api.NewServer(api.Deps{
		Pipeline: pipeline,
		Speech:   tts.NewOpenAI(oai, cfg.TTS.Model, cfg.TTS.Voice),
		Store:    store,
		Faces:    face.NewAnalyzer(cascades, face.ServiceParams),
		Decode:   vision.DecodeGray,
		Metrics:  metrics,
		Origins:  cfg.Server.CORSOrigins,
	})

	httpSrv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Listening", "addr", cfg.Server.Listen)
		if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(sctx)
	})

	return g.Wait()
}
