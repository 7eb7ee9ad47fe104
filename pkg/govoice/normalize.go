package govoice

import (
	"regexp"
	"strings"
)

var (
	numberSeparators = regexp.MustCompile(`[,\n\r]+`)
	nonDialChars     = regexp.MustCompile(`[^0-9+]`)
	nonDigits        = regexp.MustCompile(`\D`)
)

// VerifiedIndex maps the last ten digits of each verified caller id to the
// exact formatting Twilio has on file, so dialing reuses the verified form
// instead of a guessed prefix.
type VerifiedIndex map[string]string

func NewVerifiedIndex(verified []string) VerifiedIndex {
	idx := make(VerifiedIndex, len(verified))
	for _, v := range verified {
		digits := nonDigits.ReplaceAllString(v, "")
		if len(digits) < 10 {
			continue
		}
		formatted := strings.ReplaceAll(v, " ", "")
		formatted = strings.ReplaceAll(formatted, "-", "")
		idx[digits[len(digits)-10:]] = formatted
	}
	return idx
}

// ParseNumbers extracts dialable numbers from free-form text: one number
// per comma- or newline-separated chunk, everything but digits and "+"
// dropped. Bare 10-digit numbers match the verified index first, then fall
// back to a country-code guess (+91 for numbers starting with 9, +1
// otherwise). This is a best-effort heuristic, not a telecom parser; order
// and duplicates are preserved so results line up with the input.
func ParseNumbers(text string, idx VerifiedIndex) []string {
	numbers := []string{}
	for _, part := range numberSeparators.Split(text, -1) {
		cleaned := nonDialChars.ReplaceAllString(part, "")
		if cleaned == "" {
			continue
		}

		var formatted string
		switch {
		case strings.HasPrefix(cleaned, "+"):
			formatted = cleaned
		case len(cleaned) == 10:
			if v, ok := idx[cleaned]; ok {
				formatted = v
			} else if cleaned[0] == '9' {
				formatted = "+91" + cleaned
			} else {
				formatted = "+1" + cleaned
			}
		case len(cleaned) == 11 && cleaned[0] == '1':
			formatted = "+" + cleaned
		default:
			formatted = "+" + cleaned
		}

		if len(nonDigits.ReplaceAllString(formatted, "")) >= 10 {
			numbers = append(numbers, formatted)
		}
	}
	return numbers
}

// MinimalNormalize applies just enough formatting for a verification
// lookup, without the full parsing heuristic.
func MinimalNormalize(number string) string {
	number = strings.TrimSpace(number)
	if strings.HasPrefix(number, "+") {
		return number
	}
	if len(number) == 10 {
		return "+1" + number
	}
	if len(number) == 11 && number[0] == '1' {
		return "+" + number
	}
	return number
}

// CleanNumber strips everything except digits and a plus sign. Two numbers
// are considered the same when their cleaned forms match.
func CleanNumber(s string) string {
	return nonDialChars.ReplaceAllString(s, "")
}
