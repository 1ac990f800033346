package speech

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	msginterfaces "github.com/deepgram/deepgram-go-sdk/pkg/api/speak/v1/websocket/interfaces"
	clientinterfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces/v1"
	"github.com/deepgram/deepgram-go-sdk/pkg/client/speak"
)

// Player consumes 48kHz mono s16le PCM and renders it audibly. Play returns
// once the channel is drained.
type Player interface {
	Play(ctx context.Context, pcm <-chan []byte) error
}

// Speaker renders prompts through Deepgram's websocket TTS. A fresh speak
// client is built for every utterance: each call is independent and
// side-effect-isolated from prior calls, which sidesteps engines that go
// silent after their first use when reused. Failures never propagate; the
// prompt text is always printed first so the screen is the fallback channel.
type Speaker struct {
	apiKey     string
	model      string
	sampleRate int
	encoding   string
	player     Player
}

func NewSpeaker(apiKey, model string, player Player) *Speaker {
	if model == "" {
		model = "aura-2-thalia-en"
	}
	if player == nil {
		player = nopPlayer{}
	}
	return &Speaker{apiKey: apiKey, model: model, sampleRate: 48000, encoding: "linear16", player: player}
}

// Speak blocks until the utterance has been rendered (or rendering failed).
func (s *Speaker) Speak(ctx context.Context, text string) {
	fmt.Printf("\nBot: %s\n", text)
	if s.apiKey == "" || strings.TrimSpace(text) == "" {
		return
	}
	if err := s.speakOnce(ctx, text); err != nil {
		log.Printf("TTS error: %v", err)
		fmt.Println("(Please read the text above)")
	}
	// small pause between utterances
	time.Sleep(300 * time.Millisecond)
}

func (s *Speaker) speakOnce(ctx context.Context, text string) error {
	pcmCh := make(chan []byte, 4096)
	streamErr := make(chan error, 1)

	go func() {
		defer close(pcmCh)
		streamErr <- s.stream(ctx, text, pcmCh)
	}()

	playErr := s.player.Play(ctx, pcmCh)
	if err := <-streamErr; err != nil {
		return err
	}
	return playErr
}

// stream drives one disposable Deepgram speak session, pushing PCM into out
// until the server goes idle or the deadline passes.
func (s *Speaker) stream(ctx context.Context, text string, out chan<- []byte) error {
	options := &clientinterfaces.WSSpeakOptions{
		Model:      s.model,
		Encoding:   s.encoding,
		SampleRate: s.sampleRate,
	}

	var lastRecvUnix int64
	var seenAudio int32

	cb := &speakCallback{onBinary: func(data []byte) error {
		if len(data) == 0 {
			return nil
		}
		atomic.StoreInt64(&lastRecvUnix, time.Now().UnixNano())
		atomic.StoreInt32(&seenAudio, 1)
		b := make([]byte, len(data))
		copy(b, data)
		select {
		case out <- b:
		default:
		}
		return nil
	}}

	dg, err := speak.NewWSUsingCallback(ctx, s.apiKey, &clientinterfaces.ClientOptions{}, options, cb)
	if err != nil {
		return fmt.Errorf("deepgram: create ws client: %w", err)
	}

	stopped := false
	stopClient := func() {
		if !stopped {
			stopped = true
			dg.Stop()
		}
	}
	defer stopClient()

	if ok := dg.Connect(); !ok {
		return fmt.Errorf("deepgram: connect failed")
	}

	if err := dg.SpeakWithText(text); err != nil {
		return fmt.Errorf("deepgram: speak text: %w", err)
	}
	if err := dg.Flush(); err != nil {
		log.Printf("deepgram: flush error: %v", err)
	}

	idleWindow := 400 * time.Millisecond
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.Now().Add(12 * time.Second)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if atomic.LoadInt32(&seenAudio) == 1 {
				last := time.Unix(0, atomic.LoadInt64(&lastRecvUnix))
				if !last.IsZero() && time.Since(last) > idleWindow {
					return nil
				}
			}
			if time.Now().After(deadline) {
				if atomic.LoadInt32(&seenAudio) == 0 {
					return fmt.Errorf("deepgram: no audio before deadline")
				}
				return nil
			}
		}
	}
}

type speakCallback struct{ onBinary func([]byte) error }

func (s *speakCallback) Open(*msginterfaces.OpenResponse) error         { return nil }
func (s *speakCallback) Metadata(*msginterfaces.MetadataResponse) error { return nil }
func (s *speakCallback) Flush(*msginterfaces.FlushedResponse) error     { return nil }
func (s *speakCallback) Clear(*msginterfaces.ClearedResponse) error     { return nil }
func (s *speakCallback) Close(*msginterfaces.CloseResponse) error       { return nil }
func (s *speakCallback) Warning(*msginterfaces.WarningResponse) error   { return nil }
func (s *speakCallback) Error(*msginterfaces.ErrorResponse) error       { return nil }
func (s *speakCallback) UnhandledEvent([]byte) error                    { return nil }
func (s *speakCallback) Binary(byMsg []byte) error {
	if s.onBinary != nil {
		return s.onBinary(byMsg)
	}
	return nil
}
