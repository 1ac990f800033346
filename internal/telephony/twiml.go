package telephony

import "github.com/twilio/twilio-go/twiml"

const collectPath = "/twilio/collect"

// fallbackHangup is used when TwiML rendering itself fails.
const fallbackHangup = `<?xml version="1.0" encoding="UTF-8"?><Response><Hangup/></Response>`

// gatherPage speaks the queued prompts and gathers the caller's next spoken
// answer. ActionOnEmptyResult makes Twilio post back even when nothing was
// heard, which is how a capture absence reaches the dialogue controller.
func gatherPage(prompts []string) (string, error) {
	els := sayElements(prompts)
	els = append(els, &twiml.VoiceGather{
		Input:               "speech",
		Action:              collectPath,
		Method:              "POST",
		Timeout:             "10",
		SpeechTimeout:       "auto",
		ActionOnEmptyResult: "true",
	})
	return twiml.Voice(els)
}

// hangupPage speaks any closing prompts and ends the call.
func hangupPage(prompts []string) (string, error) {
	els := sayElements(prompts)
	els = append(els, &twiml.VoiceHangup{})
	return twiml.Voice(els)
}

func sayElements(prompts []string) []twiml.Element {
	els := make([]twiml.Element, 0, len(prompts)+1)
	for _, p := range prompts {
		els = append(els, &twiml.VoiceSay{Message: p})
	}
	return els
}
