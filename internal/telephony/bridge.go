package telephony

import (
	"context"
	"log"
	"sync"
)

// bridge adapts the webhook request/response cycle to the dialogue
// controller's blocking speak/listen contract. The controller runs in its own
// goroutine; Speak buffers prompt text, and Listen flushes everything
// buffered into one TwiML page, then blocks until Twilio posts the caller's
// reply. An empty SpeechResult is a gather timeout, i.e. capture absence.
type bridge struct {
	mu       sync.Mutex
	pending  []string
	finished bool

	speech chan string
	pages  chan string
}

func newBridge() *bridge {
	return &bridge{
		speech: make(chan string),
		pages:  make(chan string, 1),
	}
}

func (b *bridge) Speak(_ context.Context, text string) {
	b.mu.Lock()
	b.pending = append(b.pending, text)
	b.mu.Unlock()
}

func (b *bridge) Listen(ctx context.Context) (string, error) {
	page, err := gatherPage(b.flush())
	if err != nil {
		return "", err
	}
	select {
	case b.pages <- page:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case text := <-b.speech:
		return text, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (b *bridge) flush() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.pending
	b.pending = nil
	return p
}

// finish renders the closing page once the session goroutine returns. The
// send must not block: if the webhook side already gave up on the call there
// is nobody left to deliver the page to.
func (b *bridge) finish() {
	b.mu.Lock()
	b.finished = true
	b.mu.Unlock()

	page, err := hangupPage(b.flush())
	if err != nil {
		log.Printf("twiml render: %v", err)
		page = fallbackHangup
	}
	select {
	case b.pages <- page:
	default:
	}
}

func (b *bridge) done() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.finished
}
