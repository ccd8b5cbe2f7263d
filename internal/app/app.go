// Package app holds the start-up plumbing shared by the saathi binaries:
// flags, .env loading, configuration and provider construction.
package app

import (
	"errors"
	"fmt"
	"io/fs"
	log "log/slog"
	"os"

	"github.com/joho/godotenv"
	cli "github.com/spf13/pflag"

	"saathi/internal/config"
	"saathi/internal/logging"
	"saathi/internal/provider"
	"saathi/internal/proxy"
	"saathi/pkg/stt"
	"saathi/pkg/stt/whispercpp"
)

type Flags struct {
	Env    string
	Config string
	Log    string
	Proxy  string
	Listen string
}

// RegisterFlags binds the common flags on fs. Empty values leave the
// configuration untouched.
func RegisterFlags(fs *cli.FlagSet) *Flags {
	f := &Flags{}
	fs.StringVarP(&f.Env, "env", "e", ".env", "Env file path")
	fs.StringVarP(&f.Config, "config", "c", "", "YAML config path")
	fs.StringVarP(&f.Log, "log", "l", "", "Log level (debug, info, warn, error)")
	fs.StringVarP(&f.Proxy, "proxy", "p", "", "SOCKS5 proxy address")
	fs.StringVar(&f.Listen, "listen", "", "HTTP listen address")
	return f
}

// Load reads the env file (a missing one is fine), the config file and the
// flag overrides, then validates the result.
func (f *Flags) Load() (*config.Config, error) {
	if f.Env != "" {
		if err := godotenv.Load(f.Env); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env %q: %w", f.Env, err)
		}
	}

	cfg, err := config.Load(f.Config)
	if err != nil {
		return nil, err
	}

	if f.Log != "" {
		cfg.Server.LogLevel = config.LogLevel(f.Log)
	}
	if f.Proxy != "" {
		cfg.Proxy.SocksAddr = f.Proxy
	}
	if f.Listen != "" {
		cfg.Server.Listen = f.Listen
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetupLogging installs the tint logger at the configured level.
func SetupLogging(cfg *config.Config) {
	level, err := logging.ParseLevel(string(cfg.Server.LogLevel))
	logging.Setup(os.Stdout, level)
	if err != nil {
		log.Warn("falling back to info logging", "err", err)
	}
}

// OpenAI builds the lazily-initialised client source. A missing key is only
// reported here; calls fail with provider.ErrMissingCredential.
func OpenAI(cfg *config.Config) (*provider.OpenAI, error) {
	httpClient, err := proxy.NewHTTPClient(cfg.Proxy.SocksAddr)
	if err != nil {
		return nil, fmt.Errorf("socks proxy %q: %w", cfg.Proxy.SocksAddr, err)
	}

	key := os.Getenv(provider.EnvAPIKey)
	if key == "" {
		log.Warn(provider.EnvAPIKey + " not set; model calls will fail until it is")
	}
	return provider.NewOpenAI(key, provider.WithHTTPClient(httpClient)), nil
}

// Transcriber returns the configured speech recogniser and a function that
// releases it.
func Transcriber(cfg *config.Config, src stt.ClientSource) (stt.Transcriber, func() error, error) {
	switch cfg.STT.Engine {
	case config.STTWhisper:
		w, err := whispercpp.New(cfg.STT.WhisperModel, whispercpp.Options{
			Language: cfg.STT.Language,
			Threads:  cfg.STT.Threads,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("whisper: %w", err)
		}
		log.Debug("loaded whisper model", "path", cfg.STT.WhisperModel)
		return w, w.Close, nil
	default:
		return stt.NewOpenAI(src, cfg.STT.Model, cfg.STT.Language), func() error { return nil }, nil
	}
}
