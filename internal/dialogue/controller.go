package dialogue

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Uddhav-24/decentro-kyc-voice-bot/internal/kyc"
)

// DefaultRetries bounds both the capture ladder and the validation loop for
// every field. Fixed rather than configurable so total session length stays
// bounded.
const DefaultRetries = 2

// Controller drives the ordered collection of KYC fields over injected speech
// providers. It owns the session record for the whole run; no other actor
// reads or writes it.
type Controller struct {
	in  SpeechInput
	out SpeechOutput

	captureRetries    int
	validationRetries int

	// now is stubbed in tests.
	now func() time.Time
}

// NewController builds a controller with the default retry budgets.
func NewController(in SpeechInput, out SpeechOutput) *Controller {
	return &Controller{
		in:                in,
		out:               out,
		captureRetries:    DefaultRetries,
		validationRetries: DefaultRetries,
		now:               time.Now,
	}
}

func (c *Controller) speak(ctx context.Context, text string) {
	c.out.Speak(ctx, text)
}

// listen performs one capture attempt. Backend errors are logged and folded
// into the same outcome as silence; the controller does not distinguish why
// nothing usable arrived.
func (c *Controller) listen(ctx context.Context) (string, bool) {
	text, err := c.in.Listen(ctx)
	if err != nil {
		log.Printf("listen: %v", err)
		return "", false
	}
	text = strings.TrimSpace(text)
	return text, text != ""
}

// capture speaks the initial prompt and walks the no-input reprompt ladder
// until something is heard or the capture budget runs out. Both the field
// collectors and consent go through here, so the two recognition backends
// share one retry routine instead of forking.
func (c *Controller) capture(ctx context.Context, prompt string, ladder []string) (string, bool) {
	c.speak(ctx, prompt)
	if text, ok := c.listen(ctx); ok {
		return text, true
	}
	for attempt := 0; attempt < c.captureRetries; attempt++ {
		c.speak(ctx, repromptAt(ladder, attempt))
		if text, ok := c.listen(ctx); ok {
			return text, true
		}
	}
	return "", false
}

// CollectField obtains one validated field value. It returns false when the
// retry budget was exhausted, whether by silence or by invalid answers; a
// failed listen during the validation loop consumes a validation retry rather
// than granting another capture ladder.
func (c *Controller) CollectField(ctx context.Context, f Field) (string, bool) {
	raw, ok := c.capture(ctx, f.Prompt, captureReprompts)
	if !ok {
		c.speak(ctx, fmt.Sprintf("I'm sorry, I couldn't hear your %s.", f.Name))
		return "", false
	}

	candidate := f.extract(raw)
	if f.Validate(candidate) {
		return candidate, true
	}

	for attempt := 0; attempt < c.validationRetries; attempt++ {
		c.speak(ctx, fmt.Sprintf("That %s doesn't seem valid. Please try again.", f.Name))
		raw, ok = c.listen(ctx)
		if !ok {
			if attempt < c.validationRetries-1 {
				c.speak(ctx, "I didn't catch that. Let's try again.")
				continue
			}
			c.speak(ctx, "I'm sorry, I couldn't hear your response.")
			return "", false
		}
		candidate = f.extract(raw)
		if f.Validate(candidate) {
			return candidate, true
		}
	}

	c.speak(ctx, fmt.Sprintf("I was unable to verify your %s.", f.Name))
	return "", false
}

func (f Field) extract(raw string) string {
	if f.Extract == nil {
		return raw
	}
	return f.Extract(raw)
}

// CollectConsent runs the same capture ladder as the other fields but
// classifies the answer semantically. Exhausting the budget, by silence or by
// unclassifiable answers, resolves to false.
func (c *Controller) CollectConsent(ctx context.Context) bool {
	resp, ok := c.capture(ctx, msgConsentPrompt, consentReprompts)
	if !ok {
		c.speak(ctx, msgConsentUnheard)
		return false
	}
	if consented, recognized := kyc.ClassifyConsent(resp); recognized {
		if !consented {
			c.speak(ctx, msgConsentDeclined)
		}
		return consented
	}

	for attempt := 0; attempt < c.validationRetries; attempt++ {
		c.speak(ctx, "Please say yes or no.")
		resp, ok = c.listen(ctx)
		if !ok {
			if attempt < c.validationRetries-1 {
				c.speak(ctx, "I didn't hear you. Say yes or no.")
				continue
			}
			c.speak(ctx, msgConsentUnheard)
			return false
		}
		if consented, recognized := kyc.ClassifyConsent(resp); recognized {
			if !consented {
				c.speak(ctx, msgConsentDeclined)
			}
			return consented
		}
	}

	c.speak(ctx, msgConsentConfused)
	return false
}

// RunSession drives the full ordered flow: welcome, name, phone, PAN,
// consent, then summary and timestamp. It returns the record and whether the
// session completed; on abort the record holds whatever was collected so
// callers can display the partial data.
func (c *Controller) RunSession(ctx context.Context) (kyc.Record, bool) {
	var rec kyc.Record

	c.speak(ctx, msgWelcome)

	name, ok := c.CollectField(ctx, NameField())
	if !ok {
		c.speak(ctx, "Unable to proceed without a valid name. Ending verification.")
		return rec, false
	}
	rec.Name = name

	phone, ok := c.CollectField(ctx, PhoneField())
	if !ok {
		c.speak(ctx, "Unable to proceed without a valid phone number. Ending verification.")
		return rec, false
	}
	rec.Phone = phone

	pan, ok := c.CollectField(ctx, PANField())
	if !ok {
		c.speak(ctx, "Unable to proceed without a valid PAN. Ending verification.")
		return rec, false
	}
	rec.PAN = pan

	rec.Consent = c.CollectConsent(ctx)
	if !rec.Consent {
		return rec, false
	}

	c.speak(ctx, msgSummaryIntro)
	c.speak(ctx, "Name: "+rec.Name)
	c.speak(ctx, "Phone: "+rec.Phone)
	c.speak(ctx, "PAN: "+rec.PAN)
	c.speak(ctx, "Consent: Provided")

	rec.Timestamp = c.now().Format(time.RFC3339)
	c.speak(ctx, msgComplete)
	return rec, true
}
