package dialogue

import "context"

// SpeechInput captures one utterance and returns the recognized text.
// Empty text and an error are the same outcome to the controller: no usable
// input arrived. Silence, unintelligible audio and backend failure are not
// distinguished.
type SpeechInput interface {
	Listen(ctx context.Context) (string, error)
}

// SpeechOutput renders text as audible speech, blocking until the utterance
// finishes. Every call is independent and side-effect-isolated from prior
// calls. Implementations never propagate failure; the text must reach the
// on-screen channel even when audio does not.
type SpeechOutput interface {
	Speak(ctx context.Context, text string)
}

// Field describes one collected data item: how to ask for it, how to
// normalize the raw utterance, and how to decide it is usable. Extract may be
// nil when the raw text is the candidate. Validate must be a pure function.
type Field struct {
	Name     string
	Prompt   string
	Extract  func(string) string
	Validate func(string) bool
}
