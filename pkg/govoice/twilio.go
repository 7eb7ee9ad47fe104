package govoice

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/twilio/twilio-go"
	"github.com/twilio/twilio-go/client"
	api "github.com/twilio/twilio-go/rest/api/v2010"
	"github.com/twilio/twilio-go/twiml"

	"github.com/VARUN1128/Dial-AI/pkg/sanitize"
)

var numberInError = regexp.MustCompile(`\+?\d{10,}`)

type TwilioDialer struct {
	FromNumber string        `yaml:"fromNumber"`
	Timeout    time.Duration `yaml:"timeout"`
	Client     *twilio.RestClient
}

func NewTwilioDialer(accountSid, authToken, fromNumber string) *TwilioDialer {
	c := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &TwilioDialer{
		FromNumber: fromNumber,
		Client:     c,
		Timeout:    10 * time.Second,
	}
}

// NewTwilioDialerWithClient builds a dialer on a caller-supplied base
// client. Tests use this to stand in a fake Twilio HTTP API.
func NewTwilioDialerWithClient(base client.BaseClient, fromNumber string) *TwilioDialer {
	c := twilio.NewRestClientWithParams(twilio.ClientParams{
		Client: base,
	})

	return &TwilioDialer{
		FromNumber: fromNumber,
		Client:     c,
		Timeout:    10 * time.Second,
	}
}

func (t *TwilioDialer) Dial(ctx context.Context, call Call) Result {
	doc, err := twiml.Voice([]twiml.Element{
		&twiml.VoiceSay{
			Message:  call.Message,
			Voice:    call.Voice,
			Language: call.Language,
		},
	})
	if err != nil {
		return Result{To: call.To, Status: "failed", Err: fmt.Sprintf("building twiml: %v", err)}
	}

	params := &api.CreateCallParams{}
	params.SetTo(call.To)
	params.SetFrom(t.FromNumber)
	params.SetTwiml(doc)

	resp, err := t.Client.Api.CreateCall(params)
	if err != nil {
		return Result{To: call.To, Status: "failed", Err: explainDialError(err, call.To)}
	}

	res := Result{To: call.To, Success: true}
	if resp.Sid != nil {
		res.SID = *resp.Sid
	}
	if resp.Status != nil {
		res.Status = *resp.Status
	}
	return res
}

func (t *TwilioDialer) VerifiedNumbers(ctx context.Context) ([]string, error) {
	ids, err := t.Client.Api.ListOutgoingCallerId(&api.ListOutgoingCallerIdParams{})
	if err != nil {
		return nil, fmt.Errorf("listing verified caller ids: %w", err)
	}
	numbers := make([]string, 0, len(ids))
	for _, id := range ids {
		if id.PhoneNumber != nil {
			numbers = append(numbers, *id.PhoneNumber)
		}
	}
	return numbers, nil
}

// explainDialError turns a provider failure into the message stored in the
// call log. The two verification errors trial accounts hit constantly get a
// hint appended telling the operator exactly what to fix.
func explainDialError(err error, to string) string {
	msg := sanitize.CleanError(err.Error())
	lower := strings.ToLower(msg)

	if !strings.Contains(lower, "not yet verified") &&
		!strings.Contains(lower, "unverified") &&
		!strings.Contains(lower, "verified") {
		return msg
	}

	if strings.Contains(lower, "source phone number") {
		return msg + " | Fix: Use a Twilio-purchased number in TWILIO_PHONE_NUMBER (Twilio numbers are auto-verified)"
	}

	number := numberInError.FindString(msg)
	if number == "" {
		number = to
	}
	if number != "" {
		return msg + fmt.Sprintf(" | Action Required: Verify the DESTINATION number %s at https://console.twilio.com/us1/develop/phone-numbers/manage/verified (Trial accounts must verify numbers they want to CALL)", number)
	}
	return msg + " | Tip: For trial accounts, verify destination numbers in Twilio Console → Verified Caller IDs"
}
