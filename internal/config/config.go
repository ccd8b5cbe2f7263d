// Package config loads the assistant's YAML configuration.
package config

import (
	"time"

	"saathi/internal/llm"
	"saathi/internal/tts"
)

type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

type STTEngine string

const (
	STTOpenAI  STTEngine = "openai"
	STTWhisper STTEngine = "whisper"
)

type TTSEngine string

const (
	TTSOpenAI TTSEngine = "openai"
	TTSEspeak TTSEngine = "espeak"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	LLM      LLMConfig      `yaml:"llm"`
	STT      STTConfig      `yaml:"stt"`
	TTS      TTSConfig      `yaml:"tts"`
	Vision   VisionConfig   `yaml:"vision"`
	Proxy    ProxyConfig    `yaml:"proxy"`
	Control  ControlConfig  `yaml:"control"`
	Playback PlaybackConfig `yaml:"playback"`
}

type ServerConfig struct {
	Listen      string   `yaml:"listen"`
	LogLevel    LogLevel `yaml:"log_level"`
	CORSOrigins []string `yaml:"cors_origins"`
	// AudioDir holds synthesized replies served under /audio/.
	AudioDir string `yaml:"audio_dir"`
}

type LLMConfig struct {
	Model        string `yaml:"model"`
	SystemPrompt string `yaml:"system_prompt"`
}

type STTConfig struct {
	Engine   STTEngine `yaml:"engine"`
	Model    string    `yaml:"model"`
	Language string    `yaml:"language"`

	WhisperModel string `yaml:"whisper_model"`
	Threads      int    `yaml:"threads"`
}

type TTSConfig struct {
	Engine   TTSEngine `yaml:"engine"`
	Model    string    `yaml:"model"`
	Voice    string    `yaml:"voice"`
	Language string    `yaml:"language"`
}

type VisionConfig struct {
	CascadeDir   string        `yaml:"cascade_dir"`
	Camera       int           `yaml:"camera"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type ProxyConfig struct {
	// SocksAddr routes provider traffic through a SOCKS5 proxy when set.
	SocksAddr string `yaml:"socks_addr"`
}

type ControlConfig struct {
	Socket string `yaml:"socket"`
}

type PlaybackConfig struct {
	// Cue is an MP3 played before each listening turn.
	Cue        string        `yaml:"cue"`
	Duck       bool          `yaml:"duck"`
	DuckFactor float64       `yaml:"duck_factor"`
	MinVolume  int           `yaml:"min_volume"`
	Fade       time.Duration `yaml:"fade"`
}

// Default returns a configuration that runs with nothing but an API key.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:      ":8000",
			LogLevel:    LogInfo,
			CORSOrigins: []string{"http://localhost:3000", "http://localhost:3001"},
		},
		LLM: LLMConfig{
			Model:        llm.DefaultModel,
			SystemPrompt: llm.DefaultSystemPrompt,
		},
		STT: STTConfig{
			Engine:   STTOpenAI,
			Model:    "whisper-1",
			Language: "hi",
		},
		TTS: TTSConfig{
			Engine:   TTSOpenAI,
			Model:    tts.DefaultModel,
			Voice:    tts.DefaultVoice,
			Language: "hi",
		},
		Vision: VisionConfig{
			CascadeDir:   "/usr/share/opencv4/haarcascades",
			PollInterval: 500 * time.Millisecond,
		},
		Control: ControlConfig{
			Socket: "/tmp/saathi.sock",
		},
		Playback: PlaybackConfig{
			DuckFactor: 0.3,
			MinVolume:  10,
			Fade:       300 * time.Millisecond,
		},
	}
}
