package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// scriptedInput replays a fixed list of utterances; empty strings simulate
// capture absence. Once the script runs out every further listen is absence.
type scriptedInput struct {
	replies []string
	errOn   map[int]bool
	calls   int
}

func (s *scriptedInput) Listen(ctx context.Context) (string, error) {
	i := s.calls
	s.calls++
	if s.errOn[i] {
		return "", errors.New("recognizer unavailable")
	}
	if i >= len(s.replies) {
		return "", nil
	}
	return s.replies[i], nil
}

// recordingOutput captures everything the controller speaks.
type recordingOutput struct {
	spoken []string
}

func (r *recordingOutput) Speak(ctx context.Context, text string) {
	r.spoken = append(r.spoken, text)
}

func (r *recordingOutput) contains(fragment string) bool {
	for _, s := range r.spoken {
		if strings.Contains(s, fragment) {
			return true
		}
	}
	return false
}

func newTestController(in SpeechInput, out SpeechOutput) *Controller {
	c := NewController(in, out)
	c.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }
	return c
}

func TestRunSession_HappyPath(t *testing.T) {
	in := &scriptedInput{replies: []string{"John Smith", "9876543210", "abcde1234f", "yes"}}
	out := &recordingOutput{}
	c := newTestController(in, out)

	rec, ok := c.RunSession(context.Background())
	if !ok {
		t.Fatalf("expected completed session, got abort; spoken: %v", out.spoken)
	}
	if rec.Name != "John Smith" || rec.Phone != "9876543210" || rec.PAN != "ABCDE1234F" || !rec.Consent {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if rec.Timestamp != "2024-05-01T12:00:00Z" {
		t.Fatalf("unexpected timestamp: %q", rec.Timestamp)
	}
	if !rec.Complete() {
		t.Fatalf("record should be complete")
	}
	if !out.contains("Name: John Smith") || !out.contains("PAN: ABCDE1234F") {
		t.Fatalf("summary not spoken: %v", out.spoken)
	}
	if !out.contains("verification is complete") {
		t.Fatalf("completion message not spoken: %v", out.spoken)
	}
}

func TestRunSession_ConsentDeclined(t *testing.T) {
	in := &scriptedInput{replies: []string{"John Smith", "9876543210", "abcde1234f", "no thanks"}}
	out := &recordingOutput{}
	c := newTestController(in, out)

	rec, ok := c.RunSession(context.Background())
	if ok {
		t.Fatalf("expected aborted session on declined consent")
	}
	if rec.Name != "John Smith" || rec.Phone != "9876543210" || rec.PAN != "ABCDE1234F" {
		t.Fatalf("expected earlier fields populated: %+v", rec)
	}
	if rec.Consent {
		t.Fatalf("consent should be false")
	}
	if rec.Timestamp != "" {
		t.Fatalf("timestamp must not be set on decline")
	}
	if !out.contains("declined consent") {
		t.Fatalf("decline message not spoken: %v", out.spoken)
	}
	if out.contains("Let me confirm") {
		t.Fatalf("summary must not be spoken after decline: %v", out.spoken)
	}
}

func TestRunSession_AbortsOnSilentName(t *testing.T) {
	in := &scriptedInput{} // silence forever
	out := &recordingOutput{}
	c := newTestController(in, out)

	rec, ok := c.RunSession(context.Background())
	if ok {
		t.Fatalf("expected abort")
	}
	if rec.Name != "" {
		t.Fatalf("name should stay empty, got %q", rec.Name)
	}
	// initial attempt plus two ladder retries, then the session ends without
	// ever reaching the phone field
	if in.calls != 3 {
		t.Fatalf("expected 3 listen attempts, got %d", in.calls)
	}
	if !out.contains("Unable to proceed without a valid name") {
		t.Fatalf("termination message not spoken: %v", out.spoken)
	}
}

func TestCollectField_CaptureLadderEscalates(t *testing.T) {
	in := &scriptedInput{replies: []string{"", "", "Jo"}}
	out := &recordingOutput{}
	c := newTestController(in, out)

	got, ok := c.CollectField(context.Background(), NameField())
	if !ok || got != "Jo" {
		t.Fatalf("expected Jo after ladder, got %q ok=%v", got, ok)
	}
	if !out.contains("I didn't catch that. Please say it again.") {
		t.Fatalf("first reprompt missing: %v", out.spoken)
	}
	if !out.contains("still having trouble hearing you") {
		t.Fatalf("escalated reprompt missing: %v", out.spoken)
	}
}

func TestCollectField_InvalidThenValidConsumesRetry(t *testing.T) {
	in := &scriptedInput{replies: []string{"12", "my number is 98-765 43210 ok"}}
	out := &recordingOutput{}
	c := newTestController(in, out)

	got, ok := c.CollectField(context.Background(), PhoneField())
	if !ok || got != "9876543210" {
		t.Fatalf("expected extracted phone 9876543210, got %q ok=%v", got, ok)
	}
	if !out.contains("doesn't seem valid") {
		t.Fatalf("validation reprompt missing: %v", out.spoken)
	}
}

func TestCollectField_ValidationBudgetExhausted(t *testing.T) {
	in := &scriptedInput{replies: []string{"12", "34", "56"}}
	out := &recordingOutput{}
	c := newTestController(in, out)

	_, ok := c.CollectField(context.Background(), PhoneField())
	if ok {
		t.Fatalf("expected failure after exhausting validation retries")
	}
	// initial capture plus exactly MaxRetries validation attempts
	if in.calls != 3 {
		t.Fatalf("expected 3 listen attempts, got %d", in.calls)
	}
	if !out.contains("I was unable to verify your phone number") {
		t.Fatalf("final failure message missing: %v", out.spoken)
	}
}

func TestCollectField_SilenceDuringValidationConsumesRetry(t *testing.T) {
	// invalid answer, then two silent validation attempts: no bonus ladder
	in := &scriptedInput{replies: []string{"1", "", ""}}
	out := &recordingOutput{}
	c := newTestController(in, out)

	_, ok := c.CollectField(context.Background(), NameField())
	if ok {
		t.Fatalf("expected failure")
	}
	if in.calls != 3 {
		t.Fatalf("expected 3 listen attempts, got %d", in.calls)
	}
	if !out.contains("I'm sorry, I couldn't hear your response.") {
		t.Fatalf("final silence message missing: %v", out.spoken)
	}
}

func TestCollectField_BackendErrorIsAbsence(t *testing.T) {
	in := &scriptedInput{replies: []string{"", "", "Jo"}, errOn: map[int]bool{0: true}}
	out := &recordingOutput{}
	c := newTestController(in, out)

	got, ok := c.CollectField(context.Background(), NameField())
	if !ok || got != "Jo" {
		t.Fatalf("backend error should retry like silence, got %q ok=%v", got, ok)
	}
}

func TestCollectConsent(t *testing.T) {
	cases := []struct {
		name    string
		replies []string
		want    bool
	}{
		{"plain yes", []string{"yes"}, true},
		{"embedded yes", []string{"yes absolutely"}, true},
		{"plain no", []string{"no"}, false},
		{"unclear then yes", []string{"maybe", "yeah ok"}, true},
		{"unclear exhausted", []string{"maybe", "dunno", "hmm"}, false},
		{"silence exhausted", []string{"", "", ""}, false},
		{"silence then no", []string{"", "nope"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := &scriptedInput{replies: tc.replies}
			out := &recordingOutput{}
			c := newTestController(in, out)
			if got := c.CollectConsent(context.Background()); got != tc.want {
				t.Fatalf("CollectConsent = %v, want %v; spoken: %v", got, tc.want, out.spoken)
			}
		})
	}
}
