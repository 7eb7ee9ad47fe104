package sanitize

import (
	"regexp"
	"strings"
)

var (
	ansiEscape  = regexp.MustCompile(`\x1B(?:[@-Z\\-_]|\[[0-?]*[ -/]*[@-~])`)
	colorCodes  = regexp.MustCompile(`\[[0-9;]*m`)
	trailingURL = regexp.MustCompile(`https?://\S+\s*$`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

const (
	twilioInfoMarker = "Twilio returned the following information:"
	moreInfoHere     = "More information may be available here:"
	moreInfoPrefix   = "More information may be available"
	createRecord     = "Unable to create record:"
)

// StripANSI removes terminal escape sequences.
func StripANSI(s string) string {
	return ansiEscape.ReplaceAllString(s, "")
}

// CleanError reduces a raw provider error string to its human-readable core.
// Twilio exceptions carry color codes, a preamble and a documentation footer;
// only the message between them is worth showing or storing. Strings that
// match neither known shape are returned unchanged (minus ANSI codes).
func CleanError(msg string) string {
	msg = StripANSI(msg)

	if strings.Contains(msg, twilioInfoMarker) {
		clean := strings.SplitN(msg, twilioInfoMarker, 2)[1]
		clean = colorCodes.ReplaceAllString(clean, "")
		if i := strings.Index(clean, moreInfoHere); i >= 0 {
			clean = clean[:i]
		}
		clean = strings.TrimSpace(clean)
		return strings.TrimSpace(trailingURL.ReplaceAllString(clean, ""))
	}

	if strings.Contains(msg, "HTTP Error") && strings.Contains(msg, createRecord) {
		clean := msg[strings.Index(msg, createRecord):]
		if i := strings.Index(clean, moreInfoPrefix); i >= 0 {
			clean = clean[:i]
		}
		return strings.TrimSpace(spaceRuns.ReplaceAllString(clean, " "))
	}

	return msg
}
