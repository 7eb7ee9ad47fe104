package govoice

import (
	"context"
	"errors"
)

const (
	DefaultMessage  = "Hello, this is a test call from the Dial AI app."
	DefaultVoice    = "alice"
	DefaultLanguage = "en"
)

var ErrNotConfigured = errors.New("twilio credentials not configured")

// Dialer places outbound voice calls through a telephony provider.
type Dialer interface {
	Dial(ctx context.Context, call Call) Result
	VerifiedNumbers(ctx context.Context) ([]string, error)
}

type Call struct {
	To       string `json:"to"`
	Message  string `json:"message,omitempty"`
	Voice    string `json:"voice,omitempty"`
	Language string `json:"language,omitempty"`
}

type CallOption func(*Call)

func NewCall(to string, opts ...CallOption) Call {
	c := Call{
		To:       to,
		Message:  DefaultMessage,
		Voice:    DefaultVoice,
		Language: DefaultLanguage,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func WithMessage(message string) CallOption {
	return func(c *Call) {
		if message != "" {
			c.Message = message
		}
	}
}

func WithVoice(voice string) CallOption {
	return func(c *Call) {
		if voice != "" {
			c.Voice = voice
		}
	}
}

func WithLanguage(language string) CallOption {
	return func(c *Call) {
		if language != "" {
			c.Language = language
		}
	}
}

// Result is the outcome of a single dial, returned as data so a batch of
// calls keeps going when one of them fails.
type Result struct {
	To      string
	Success bool
	SID     string
	Status  string
	Err     string
}

// NoDialer is the dialer used when Twilio credentials are absent. Dials
// fail immediately with a configuration message and no network is touched.
type NoDialer struct{}

func (NoDialer) Dial(ctx context.Context, call Call) Result {
	return Result{
		To:     call.To,
		Status: "failed",
		Err:    "Twilio credentials not configured",
	}
}

func (NoDialer) VerifiedNumbers(ctx context.Context) ([]string, error) {
	return nil, ErrNotConfigured
}
