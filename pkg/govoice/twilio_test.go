package govoice_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/VARUN1128/Dial-AI/pkg/govoice"
)

// fakeTwilioAPI implements client.BaseClient so dialer tests never touch
// the network. It either serves a canned response or fails with a canned
// error, and records the last form values it saw.
type fakeTwilioAPI struct {
	status  int
	body    string
	err     error
	gotURL  string
	gotData url.Values
}

func (f *fakeTwilioAPI) AccountSid() string         { return "AC00000000000000000000000000000000" }
func (f *fakeTwilioAPI) SetTimeout(_ time.Duration) {}

func (f *fakeTwilioAPI) SendRequest(method string, rawURL string, data url.Values, headers map[string]interface{}, body ...byte) (*http.Response, error) {
	f.gotURL = rawURL
	f.gotData = data
	if f.err != nil {
		return nil, f.err
	}
	return &http.Response{
		StatusCode: f.status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(f.body)),
	}, nil
}

func TestTwilioDialerDialSuccess(t *testing.T) {
	fake := &fakeTwilioAPI{
		status: 201,
		body:   `{"sid":"CA1234567890abcdef1234567890abcdef","status":"queued"}`,
	}
	dialer := govoice.NewTwilioDialerWithClient(fake, "+15005550006")

	res := dialer.Dial(context.Background(), govoice.NewCall("+14155552671"))
	if !res.Success {
		t.Fatalf("Dial failed: %s", res.Err)
	}
	if res.SID != "CA1234567890abcdef1234567890abcdef" {
		t.Errorf("SID = %q", res.SID)
	}
	if res.Status != "queued" {
		t.Errorf("Status = %q, want queued", res.Status)
	}

	if got := fake.gotData.Get("To"); got != "+14155552671" {
		t.Errorf("To = %q", got)
	}
	if got := fake.gotData.Get("From"); got != "+15005550006" {
		t.Errorf("From = %q", got)
	}
	twimlDoc := fake.gotData.Get("Twiml")
	if !strings.Contains(twimlDoc, "<Say") || !strings.Contains(twimlDoc, govoice.DefaultMessage) {
		t.Errorf("unexpected twiml payload: %q", twimlDoc)
	}
}

func TestTwilioDialerDialUnverifiedDestination(t *testing.T) {
	fake := &fakeTwilioAPI{
		err: errors.New("The number +15005550001 is unverified. Trial accounts may only make calls to verified numbers."),
	}
	dialer := govoice.NewTwilioDialerWithClient(fake, "+15005550006")

	res := dialer.Dial(context.Background(), govoice.NewCall("+15005550001"))
	if res.Success {
		t.Fatal("Dial succeeded, want failure")
	}
	if res.Status != "failed" {
		t.Errorf("Status = %q, want failed", res.Status)
	}
	if !strings.Contains(res.Err, "Action Required: Verify the DESTINATION number +15005550001") {
		t.Errorf("missing destination hint: %q", res.Err)
	}
}

func TestTwilioDialerDialUnverifiedSource(t *testing.T) {
	fake := &fakeTwilioAPI{
		err: errors.New("The source phone number provided is not yet verified for your account."),
	}
	dialer := govoice.NewTwilioDialerWithClient(fake, "+10000000000")

	res := dialer.Dial(context.Background(), govoice.NewCall("+14155552671"))
	if res.Success {
		t.Fatal("Dial succeeded, want failure")
	}
	if !strings.Contains(res.Err, "Fix: Use a Twilio-purchased number in TWILIO_PHONE_NUMBER") {
		t.Errorf("missing source hint: %q", res.Err)
	}
}

func TestTwilioDialerDialPlainError(t *testing.T) {
	fake := &fakeTwilioAPI{err: errors.New("connection refused")}
	dialer := govoice.NewTwilioDialerWithClient(fake, "+15005550006")

	res := dialer.Dial(context.Background(), govoice.NewCall("+14155552671"))
	if res.Success {
		t.Fatal("Dial succeeded, want failure")
	}
	if res.Err != "connection refused" {
		t.Errorf("Err = %q, want error passed through untouched", res.Err)
	}
}

func TestTwilioDialerVerifiedNumbers(t *testing.T) {
	fake := &fakeTwilioAPI{
		status: 200,
		body:   `{"end":0,"first_page_uri":"","next_page_uri":null,"page":0,"page_size":50,"previous_page_uri":"","outgoing_caller_ids":[{"phone_number":"+14155552671"},{"phone_number":"+919876543210"}],"start":0,"uri":""}`,
	}
	dialer := govoice.NewTwilioDialerWithClient(fake, "+15005550006")

	numbers, err := dialer.VerifiedNumbers(context.Background())
	if err != nil {
		t.Fatalf("VerifiedNumbers: %v", err)
	}
	want := []string{"+14155552671", "+919876543210"}
	if len(numbers) != len(want) {
		t.Fatalf("got %d numbers, want %d: %v", len(numbers), len(want), numbers)
	}
	for i := range want {
		if numbers[i] != want[i] {
			t.Errorf("numbers[%d] = %q, want %q", i, numbers[i], want[i])
		}
	}
}

func TestNoDialer(t *testing.T) {
	var dialer govoice.Dialer = govoice.NoDialer{}

	res := dialer.Dial(context.Background(), govoice.NewCall("+14155552671"))
	if res.Success {
		t.Fatal("NoDialer.Dial reported success")
	}
	if res.Err != "Twilio credentials not configured" {
		t.Errorf("Err = %q", res.Err)
	}
	if res.Status != "failed" {
		t.Errorf("Status = %q, want failed", res.Status)
	}

	if _, err := dialer.VerifiedNumbers(context.Background()); !errors.Is(err, govoice.ErrNotConfigured) {
		t.Errorf("VerifiedNumbers error = %v, want ErrNotConfigured", err)
	}
}

func TestNewCallOptions(t *testing.T) {
	c := govoice.NewCall("+14155552671",
		govoice.WithMessage("Production incident, join the bridge."),
		govoice.WithVoice("man"),
		govoice.WithLanguage("en-GB"),
	)
	if c.Message != "Production incident, join the bridge." || c.Voice != "man" || c.Language != "en-GB" {
		t.Errorf("options not applied: %+v", c)
	}

	d := govoice.NewCall("+14155552671", govoice.WithMessage(""))
	if d.Message != govoice.DefaultMessage {
		t.Errorf("empty message should keep default, got %q", d.Message)
	}
}
