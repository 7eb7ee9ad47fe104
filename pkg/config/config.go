package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/VARUN1128/Dial-AI/pkg/govoice"
	"github.com/VARUN1128/Dial-AI/pkg/utils"
)

// Config is assembled from an optional YAML file plus environment
// variables; env values win so deployments can override a checked-in
// config.yaml without editing it.
type Config struct {
	Port      string      `yaml:"port"`
	CallsFile string      `yaml:"callsFile"`
	Voice     VoiceConfig `yaml:"voice"`

	RateLimitRPS   float64 `yaml:"rateLimitRps"`
	RateLimitBurst int     `yaml:"rateLimitBurst"`
	OTLPEndpoint   string  `yaml:"otlpEndpoint"`
}

type VoiceConfig struct {
	Provider string        `yaml:"provider"`
	Twilio   *TwilioConfig `yaml:"twilio,omitempty"`
	Message  string        `yaml:"message"`
	Voice    string        `yaml:"voice"`
	Language string        `yaml:"language"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"accountSid"`
	AuthToken  string `yaml:"authToken"`
	FromNumber string `yaml:"fromNumber"`
}

// Load reads the YAML file at path when it exists and layers the
// environment on top. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Port:      "8000",
		CallsFile: "calls.json",
		Voice: VoiceConfig{
			Provider: "twilio",
			Message:  govoice.DefaultMessage,
			Voice:    govoice.DefaultVoice,
			Language: govoice.DefaultLanguage,
		},
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	cfg.Port = utils.GetEnvDefault("PORT", cfg.Port)
	cfg.CallsFile = utils.GetEnvDefault("CALLS_FILE", cfg.CallsFile)
	cfg.Voice.Message = utils.GetEnvDefault("CALL_MESSAGE", cfg.Voice.Message)
	cfg.Voice.Voice = utils.GetEnvDefault("CALL_VOICE", cfg.Voice.Voice)
	cfg.Voice.Language = utils.GetEnvDefault("CALL_LANGUAGE", cfg.Voice.Language)
	cfg.OTLPEndpoint = utils.GetEnvDefault("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.OTLPEndpoint)

	if sid := utils.GetEnv("TWILIO_ACCOUNT_SID"); sid != "" {
		if cfg.Voice.Twilio == nil {
			cfg.Voice.Twilio = &TwilioConfig{}
		}
		cfg.Voice.Twilio.AccountSID = sid
		cfg.Voice.Twilio.AuthToken = utils.GetEnv("TWILIO_AUTH_TOKEN")
		cfg.Voice.Twilio.FromNumber = utils.GetEnv("TWILIO_PHONE_NUMBER")
	}

	if v := utils.GetEnv("RATE_LIMIT_RPS"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		cfg.RateLimitRPS = rps
	}
	if v := utils.GetEnv("RATE_LIMIT_BURST"); v != "" {
		burst, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		cfg.RateLimitBurst = burst
	}

	return cfg, nil
}

// BuildDialer picks the voice provider from config. Missing or incomplete
// Twilio credentials yield a NoDialer so every dial reports the
// configuration problem instead of the process refusing to start.
func BuildDialer(cfg *Config) (govoice.Dialer, error) {
	switch cfg.Voice.Provider {
	case "twilio", "":
		t := cfg.Voice.Twilio
		if t == nil || t.AccountSID == "" || t.AuthToken == "" || t.FromNumber == "" {
			return govoice.NoDialer{}, nil
		}
		return govoice.NewTwilioDialer(t.AccountSID, t.AuthToken, t.FromNumber), nil
	default:
		return nil, fmt.Errorf("unsupported voice provider: %s", cfg.Voice.Provider)
	}
}

// CallOptions translates the configured voice payload into govoice options.
func (c *Config) CallOptions() []govoice.CallOption {
	return []govoice.CallOption{
		govoice.WithMessage(c.Voice.Message),
		govoice.WithVoice(c.Voice.Voice),
		govoice.WithLanguage(c.Voice.Language),
	}
}
