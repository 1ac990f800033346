package kyc

import (
	"regexp"
	"strings"
	"unicode"
)

// panPattern is the PAN layout: 5 letters, 4 digits, 1 letter.
var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// ValidateName accepts any text of trimmed length >= 2 that contains at least
// one letter.
func ValidateName(name string) bool {
	if len(strings.TrimSpace(name)) < 2 {
		return false
	}
	for _, r := range name {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// digitsOnly strips every non-digit character.
func digitsOnly(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExtractPhone pulls the digits out of a spoken phone number, keeping the
// first 10 when more were heard.
func ExtractPhone(text string) string {
	digits := digitsOnly(text)
	if len(digits) >= 10 {
		return digits[:10]
	}
	return digits
}

// ValidatePhone requires exactly 10 decimal digits. The input is re-stripped
// so the check does not depend on ExtractPhone having run first.
func ValidatePhone(phone string) bool {
	return len(digitsOnly(phone)) == 10
}

// ExtractPAN removes spaces (speech engines tend to spell PANs out) and
// upper-cases the result.
func ExtractPAN(text string) string {
	return strings.ToUpper(strings.ReplaceAll(text, " ", ""))
}

// ValidatePAN checks the 10-character PAN layout after normalizing the same
// way ExtractPAN does.
func ValidatePAN(pan string) bool {
	cleaned := ExtractPAN(pan)
	return len(cleaned) == 10 && panPattern.MatchString(cleaned)
}

// ClassifyConsent maps a spoken response to a consent decision. Affirmative
// words are checked before negative ones, so "yes or no" counts as consent.
// recognized is false when the response matches neither form and the caller
// should re-ask.
func ClassifyConsent(text string) (consented, recognized bool) {
	lower := strings.ToLower(text)
	for _, w := range []string{"yes", "yeah", "sure"} {
		if strings.Contains(lower, w) {
			return true, true
		}
	}
	for _, w := range []string{"no", "nope"} {
		if strings.Contains(lower, w) {
			return false, true
		}
	}
	return false, false
}
