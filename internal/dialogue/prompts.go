package dialogue

import (
	"github.com/Uddhav-24/decentro-kyc-voice-bot/internal/kyc"
)

const (
	msgWelcome = "Welcome to Decentro KYC verification. I will guide you through a quick verification process."

	msgConsentPrompt   = "Do you consent to this KYC verification? Please say yes or no."
	msgConsentDeclined = "You have declined consent. Verification cannot proceed."
	msgConsentUnheard  = "I couldn't get your consent. Verification cannot proceed."
	msgConsentConfused = "I couldn't understand your response. Verification cannot proceed."

	msgSummaryIntro = "Thank you. Let me confirm your details."
	msgComplete     = "Your KYC verification is complete. Thank you for using Decentro services."
)

// captureReprompts escalate across the no-input ladder; the last entry repeats
// if the ladder is configured deeper than the list.
var captureReprompts = []string{
	"I didn't catch that. Please say it again.",
	"I'm still having trouble hearing you. Let's try one more time.",
}

var consentReprompts = []string{
	"I didn't catch that. Do you consent? Say yes or no.",
	"Please say yes or no for consent.",
}

func repromptAt(ladder []string, attempt int) string {
	if attempt < len(ladder) {
		return ladder[attempt]
	}
	return ladder[len(ladder)-1]
}

// NameField collects the full name; the raw utterance is the candidate.
func NameField() Field {
	return Field{
		Name:     "name",
		Prompt:   "May I have your full name please?",
		Validate: kyc.ValidateName,
	}
}

// PhoneField collects the 10-digit mobile number.
func PhoneField() Field {
	return Field{
		Name:     "phone number",
		Prompt:   "Thank you. Now, please provide your 10-digit mobile number.",
		Extract:  kyc.ExtractPhone,
		Validate: kyc.ValidatePhone,
	}
}

// PANField collects the PAN identifier.
func PANField() Field {
	return Field{
		Name:     "PAN",
		Prompt:   "Great. Now, please say your PAN number. That's 10 characters: 5 letters, 4 numbers, and 1 letter.",
		Extract:  kyc.ExtractPAN,
		Validate: kyc.ValidatePAN,
	}
}
