// Package config loads the TOML configuration file and the secrets kept
// in the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/hammamikhairi/levain/internal/domain"
	"github.com/hammamikhairi/levain/internal/engine"
	"github.com/hammamikhairi/levain/internal/logger"
	"github.com/hammamikhairi/levain/internal/speech"
	"github.com/hammamikhairi/levain/internal/weather"
)

// Config holds all application configuration
type Config struct {
	General   GeneralConfig   `toml:"general"`
	Log       LogConfig       `toml:"log"`
	Recipe    RecipeConfig    `toml:"recipe"`
	Timer     TimerConfig     `toml:"timer"`
	Alerts    AlertsConfig    `toml:"alerts"`
	Assistant AssistantConfig `toml:"assistant"`
	Weather   WeatherConfig   `toml:"weather"`
	Speech    SpeechConfig    `toml:"speech"`
	Voice     VoiceConfig     `toml:"voice"`
}

// GeneralConfig holds general settings
type GeneralConfig struct {
	DatabasePath string `toml:"database_path"`
}

// LogConfig selects the log level and destination. File "stderr" logs to
// the console.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// RecipeConfig holds the scalars a fresh or reset bake starts with.
type RecipeConfig struct {
	FlourWeight  int     `toml:"flour_weight"`
	Hydration    float64 `toml:"hydration"`
	StarterRatio float64 `toml:"starter_ratio"`
	SaltRatio    float64 `toml:"salt_ratio"`
	LoafCount    int     `toml:"loaf_count"`
	RoomTemp     float64 `toml:"room_temp"`
}

// TimerConfig holds countdown settings. Durations use Go syntax ("1s").
type TimerConfig struct {
	Tick       string `toml:"tick"`
	AlmostDone string `toml:"almost_done"`
	Nudge      string `toml:"nudge"`
}

// AlertsConfig toggles the expiry alert sinks.
type AlertsConfig struct {
	Chime   bool `toml:"chime"`
	Desktop bool `toml:"desktop"`
	Haptic  bool `toml:"haptic"`
	Speak   bool `toml:"speak"`
}

// AssistantConfig points at an OpenAI-compatible chat endpoint. The key
// comes from the environment.
type AssistantConfig struct {
	Endpoint string `toml:"endpoint"`
	Model    string `toml:"model"`
	Timeout  string `toml:"timeout"`
}

// WeatherConfig holds the forecast endpoint and the kitchen's location.
type WeatherConfig struct {
	Endpoint  string  `toml:"endpoint"`
	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`
}

// SpeechConfig holds Azure TTS settings. The key comes from the
// environment; Region here overrides AZURE_SPEECH_REGION.
type SpeechConfig struct {
	Region string `toml:"region"`
	Voice  string `toml:"voice"`
}

// VoiceConfig holds the whisper voice input settings.
type VoiceConfig struct {
	Enabled    bool   `toml:"enabled"`
	WhisperBin string `toml:"whisper_bin"`
	Model      string `toml:"model"`
	Record     string `toml:"record"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		General: GeneralConfig{
			DatabasePath: filepath.Join(home, ".levain", "levain.db"),
		},
		Log: LogConfig{
			Level: "normal",
			File:  filepath.Join(".levain-logs", "levain.log"),
		},
		Recipe: RecipeConfig{
			FlourWeight:  domain.DefaultFlourWeight,
			Hydration:    domain.DefaultHydration,
			StarterRatio: domain.DefaultStarterRatio,
			SaltRatio:    domain.DefaultSaltRatio,
			LoafCount:    domain.DefaultLoafCount,
			RoomTemp:     domain.DefaultRoomTemp,
		},
		Timer: TimerConfig{
			Tick:       "1s",
			AlmostDone: "1m",
			Nudge:      "5m",
		},
		Alerts: AlertsConfig{
			Chime:   true,
			Desktop: true,
			Haptic:  true,
			Speak:   true,
		},
		Assistant: AssistantConfig{
			Timeout: "30s",
		},
		Weather: WeatherConfig{
			Endpoint: weather.DefaultEndpoint,
		},
		Speech: SpeechConfig{
			Voice: speech.DefaultVoice,
		},
		Voice: VoiceConfig{
			WhisperBin: "whisper-cli",
			Model:      filepath.Join(home, ".levain", "models", "ggml-base.en.bin"),
			Record:     "2s",
		},
	}
}

// Load reads configuration from a TOML file, falling back to defaults
// when the file doesn't exist. Keys missing from the file keep their
// default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.General.DatabasePath = ExpandPath(cfg.General.DatabasePath)
	cfg.Log.File = ExpandPath(cfg.Log.File)
	cfg.Voice.Model = ExpandPath(cfg.Voice.Model)
	cfg.Voice.WhisperBin = ExpandPath(cfg.Voice.WhisperBin)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values Load can't type-check.
func (c *Config) Validate() error {
	if _, ok := logger.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("log.level %q: want off, normal or verbose", c.Log.Level)
	}
	for name, v := range map[string]string{
		"timer.tick":        c.Timer.Tick,
		"timer.almost_done": c.Timer.AlmostDone,
		"timer.nudge":       c.Timer.Nudge,
		"assistant.timeout": c.Assistant.Timeout,
		"voice.record":      c.Voice.Record,
	} {
		if _, err := time.ParseDuration(v); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.Recipe.FlourWeight < 0 || c.Recipe.LoafCount < 1 {
		return fmt.Errorf("recipe: flour_weight must be >= 0 and loaf_count >= 1")
	}
	return nil
}

// Defaults maps the [recipe] section onto the engine's fresh-state scalars.
func (r RecipeConfig) Defaults() engine.Defaults {
	return engine.Defaults{
		FlourWeight:  r.FlourWeight,
		Hydration:    r.Hydration,
		StarterRatio: r.StarterRatio,
		SaltRatio:    r.SaltRatio,
		LoafCount:    r.LoafCount,
		RoomTemp:     r.RoomTemp,
	}
}

// LogLevel returns the parsed [log] level.
func (l LogConfig) LogLevel() logger.Level {
	level, _ := logger.ParseLevel(l.Level)
	return level
}

// TickInterval returns the parsed timer tick.
func (t TimerConfig) TickInterval() time.Duration { return mustDuration(t.Tick) }

// AlmostDoneThreshold returns the parsed "almost done" warning threshold.
func (t TimerConfig) AlmostDoneThreshold() time.Duration { return mustDuration(t.AlmostDone) }

// NudgeInterval returns how often overdue steps are nudged.
func (t TimerConfig) NudgeInterval() time.Duration { return mustDuration(t.Nudge) }

// TimeoutDuration returns the parsed assistant timeout.
func (a AssistantConfig) TimeoutDuration() time.Duration { return mustDuration(a.Timeout) }

// RecordDuration returns the parsed voice chunk length.
func (v VoiceConfig) RecordDuration() time.Duration { return mustDuration(v.Record) }

// Configured reports whether a location was set.
func (w WeatherConfig) Configured() bool {
	return w.Latitude != 0 || w.Longitude != 0
}

// mustDuration parses a duration that Validate already accepted. Zero on
// error.
func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	return path
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "levain", "config.toml")
}

// Environment variable names for secrets.
const (
	EnvAssistantKey      = "LEVAIN_ASSISTANT_KEY"
	EnvAssistantEndpoint = "LEVAIN_ASSISTANT_ENDPOINT"
)

// Secrets are the credentials read from the environment.
type Secrets struct {
	AssistantKey      string
	AssistantEndpoint string
	SpeechKey         string
	SpeechRegion      string
}

// LoadSecrets loads envFiles (default ".env") into the environment
// without overriding variables already set, then reads the secrets.
// Missing files are not an error.
func LoadSecrets(envFiles ...string) Secrets {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}
	return Secrets{
		AssistantKey:      os.Getenv(EnvAssistantKey),
		AssistantEndpoint: os.Getenv(EnvAssistantEndpoint),
		SpeechKey:         os.Getenv(speech.KeyEnv),
		SpeechRegion:      os.Getenv(speech.RegionEnv),
	}
}

// AssistantEndpoint returns the configured endpoint, falling back to the
// environment.
func (c *Config) AssistantEndpoint(s Secrets) string {
	if c.Assistant.Endpoint != "" {
		return c.Assistant.Endpoint
	}
	return s.AssistantEndpoint
}

// SpeechRegion returns the configured region, falling back to the
// environment.
func (c *Config) SpeechRegion(s Secrets) string {
	if c.Speech.Region != "" {
		return c.Speech.Region
	}
	return s.SpeechRegion
}
