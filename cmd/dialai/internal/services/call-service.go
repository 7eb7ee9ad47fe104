package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/VARUN1128/Dial-AI/metrics"
	"github.com/VARUN1128/Dial-AI/pkg/calllog"
	"github.com/VARUN1128/Dial-AI/pkg/govoice"
	"github.com/VARUN1128/Dial-AI/pkg/sanitize"
)

// CallService places calls one at a time and records every attempt. The
// log write happens here, not in the dialer, so a storage problem never
// masks the call outcome.
type CallService struct {
	dialer   govoice.Dialer
	store    calllog.Store
	opts     []govoice.CallOption
	provider string
	tracer   trace.Tracer
	log      *zap.Logger
}

func NewCallService(dialer govoice.Dialer, store calllog.Store, provider string, opts []govoice.CallOption, log *zap.Logger) *CallService {
	return &CallService{
		dialer:   dialer,
		store:    store,
		opts:     opts,
		provider: provider,
		tracer:   otel.Tracer("dialai"),
		log:      log,
	}
}

// ParseNumbers normalizes free-form input. The verified-number index is
// rebuilt from the provider on every request; when that lookup fails the
// parse still runs, just without verified-format hints.
func (s *CallService) ParseNumbers(ctx context.Context, text string) []string {
	var idx govoice.VerifiedIndex
	verified, err := s.dialer.VerifiedNumbers(ctx)
	if err != nil {
		s.log.Debug("verified numbers unavailable, parsing without hints", zap.Error(err))
		idx = govoice.VerifiedIndex{}
	} else {
		idx = govoice.NewVerifiedIndex(verified)
	}
	return govoice.ParseNumbers(text, idx)
}

// PlaceCall dials one number and appends the attempt to the log. Append
// failures are logged and swallowed: the call already happened, so the
// caller still gets its result.
func (s *CallService) PlaceCall(ctx context.Context, number string) calllog.Attempt {
	ctx, span := s.tracer.Start(ctx, "place_call")
	span.SetAttributes(attribute.String("call.to", number))
	defer span.End()

	start := time.Now()
	result := s.dialer.Dial(ctx, govoice.NewCall(number, s.opts...))
	metrics.CallDialDuration.WithLabelValues(s.provider).Observe(time.Since(start).Seconds())

	attempt := calllog.Attempt{
		Number:    number,
		Status:    result.Status,
		Success:   result.Success,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if result.SID != "" {
		attempt.CallSID = &result.SID
	}
	if result.Err != "" {
		attempt.Error = &result.Err
	}

	if result.Success {
		metrics.CallsAttemptedTotal.WithLabelValues("success", s.provider).Inc()
		metrics.ExternalAPISuccessTotal.WithLabelValues(s.provider, "voice").Inc()
		s.log.Info("call placed",
			zap.String("to", number),
			zap.String("sid", result.SID),
			zap.String("status", result.Status),
		)
	} else {
		metrics.CallsAttemptedTotal.WithLabelValues("failed", s.provider).Inc()
		metrics.ExternalAPIFailureTotal.WithLabelValues(s.provider, "voice").Inc()
		s.log.Warn("call failed",
			zap.String("to", number),
			zap.String("error", result.Err),
		)
	}

	if err := s.store.Append(attempt); err != nil {
		s.log.Error("appending call log", zap.Error(err))
	}
	return attempt
}

// PlaceCalls dials the given numbers strictly in order, blocking on each
// provider round trip. No retries, no fan-out.
func (s *CallService) PlaceCalls(ctx context.Context, numbers []string) []calllog.Attempt {
	attempts := make([]calllog.Attempt, 0, len(numbers))
	for _, number := range numbers {
		attempts = append(attempts, s.PlaceCall(ctx, number))
	}
	return attempts
}

func (s *CallService) Logs() []calllog.Attempt {
	return s.store.Load()
}

// CleanupLogs re-sanitizes every stored error message and reports how many
// entries the log holds.
func (s *CallService) CleanupLogs() (int, error) {
	return s.store.RewriteErrors(sanitize.CleanError)
}

// VerificationStatus reports whether number appears in the provider's
// verified caller id list. Comparison ignores spaces and dashes on both
// sides.
type VerificationStatus struct {
	Number     string
	IsVerified bool
	Verified   []string
}

func (s *CallService) CheckVerification(ctx context.Context, number string) (*VerificationStatus, error) {
	cleaned := govoice.MinimalNormalize(number)
	verified, err := s.dialer.VerifiedNumbers(ctx)
	if err != nil {
		return nil, err
	}

	target := govoice.CleanNumber(cleaned)
	isVerified := false
	for _, v := range verified {
		if govoice.CleanNumber(v) == target {
			isVerified = true
			break
		}
	}
	return &VerificationStatus{Number: cleaned, IsVerified: isVerified, Verified: verified}, nil
}
