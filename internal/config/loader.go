package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads the YAML file at path on top of Default and validates it. An
// empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, Validate(cfg)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes YAML from r over the defaults. Unknown keys are
// rejected.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns every problem in cfg joined into one error.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Listen == "" {
		errs = append(errs, errors.New("server.listen is required"))
	}
	if !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	if cfg.LLM.Model == "" {
		errs = append(errs, errors.New("llm.model is required"))
	}

	switch cfg.STT.Engine {
	case STTOpenAI:
	case STTWhisper:
		if cfg.STT.WhisperModel == "" {
			errs = append(errs, errors.New("stt.whisper_model is required when stt.engine is whisper"))
		}
	default:
		errs = append(errs, fmt.Errorf("stt.engine %q is invalid; valid values: openai, whisper", cfg.STT.Engine))
	}
	if cfg.STT.Threads < 0 {
		errs = append(errs, fmt.Errorf("stt.threads %d must not be negative", cfg.STT.Threads))
	}

	switch cfg.TTS.Engine {
	case TTSOpenAI, TTSEspeak:
	default:
		errs = append(errs, fmt.Errorf("tts.engine %q is invalid; valid values: openai, espeak", cfg.TTS.Engine))
	}

	if cfg.Vision.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("vision.poll_interval %s must be positive", cfg.Vision.PollInterval))
	}
	if cfg.Vision.Camera < 0 {
		errs = append(errs, fmt.Errorf("vision.camera %d must not be negative", cfg.Vision.Camera))
	}

	if cfg.Playback.DuckFactor < 0 || cfg.Playback.DuckFactor > 1 {
		errs = append(errs, fmt.Errorf("playback.duck_factor %.2f is out of range [0, 1]", cfg.Playback.DuckFactor))
	}
	if cfg.Playback.MinVolume < 0 || cfg.Playback.MinVolume > 100 {
		errs = append(errs, fmt.Errorf("playback.min_volume %d is out of range [0, 100]", cfg.Playback.MinVolume))
	}

	return errors.Join(errs...)
}
