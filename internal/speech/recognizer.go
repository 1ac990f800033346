package speech

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// onsetTimeout is how long we wait for speech to begin before giving up
	// on the attempt.
	onsetTimeout = 10 * time.Second
	// phraseLimit caps a single utterance once speech has begun.
	phraseLimit = 10 * time.Second
	// silenceThreshold is the inactivity window that ends an utterance.
	// Keep conservative to avoid cutting the user mid-sentence.
	silenceThreshold = 700 * time.Millisecond
	// calibrationWindow of leading audio establishes the ambient noise floor.
	calibrationWindow = 500 * time.Millisecond
	// minVoiceRMS is the floor for the voice-energy threshold regardless of
	// how quiet the room is.
	minVoiceRMS = 250.0
)

// AssemblyAI streaming message types.
type beginMessage struct {
	Type      string `json:"type"`
	ID        string `json:"id"`
	ExpiresAt int64  `json:"expires_at"`
}

type turnMessage struct {
	Type          string `json:"type"`
	Transcript    string `json:"transcript"`
	TurnFormatted bool   `json:"turn_is_formatted"`
}

type errorMessage struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

// Recognizer performs one-shot speech recognition against the AssemblyAI
// realtime endpoint. Every Listen dials its own streaming session and
// recalibrates ambient noise, so no recognition state leaks between attempts.
type Recognizer struct {
	apiKey string
	source PCMSource
}

func NewRecognizer(apiKey string, source PCMSource) *Recognizer {
	return &Recognizer{apiKey: apiKey, source: source}
}

func dialStreaming(apiKey string) (*websocket.Conn, error) {
	params := url.Values{}
	params.Set("sample_rate", "16000")
	params.Set("format_turns", "false")
	params.Set("encoding", "pcm_s16le")
	wsURL := fmt.Sprintf("wss://streaming.assemblyai.com/v3/ws?%s", params.Encode())

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, resp, err := dialer.Dial(wsURL, map[string][]string{"Authorization": {apiKey}})
	if err != nil {
		if resp != nil {
			log.Printf("AssemblyAI connection failed with status: %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to connect to AssemblyAI: %w", err)
	}
	return conn, nil
}

// Listen captures one utterance and returns its transcript. Silence until the
// onset timeout, an unintelligible phrase, and a backend failure all resolve
// to an absent result; the dialogue layer treats them the same way.
func (r *Recognizer) Listen(ctx context.Context) (string, error) {
	if r.apiKey == "" {
		return "", fmt.Errorf("AssemblyAI API key is empty")
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	frames, err := r.source.Start(ctx)
	if err != nil {
		return "", fmt.Errorf("capture: %w", err)
	}
	defer r.source.Stop()

	conn, err := dialStreaming(r.apiKey)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = conn.WriteJSON(map[string]string{"type": "Terminate"})
		_ = conn.Close()
	}()

	fmt.Println("\n[LISTENING] (speak now)")

	transcripts := make(chan string, 16)
	readErrs := make(chan error, 1)
	go readTranscripts(conn, transcripts, readErrs)

	var (
		latest       string
		speechSeen   bool
		lastActivity = time.Now()
		threshold    = minVoiceRMS
		calRemaining = calibrationWindow
		calPeak      float64
	)
	onset := time.After(onsetTimeout)
	var phraseEnd <-chan time.Time
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()

	finish := func(fallback string) (string, error) {
		fmt.Println("Processing...")
		text := strings.TrimSpace(latest)
		if text == "" {
			fmt.Println(fallback)
			return "", nil
		}
		fmt.Printf("You: %s\n", text)
		return text, nil
	}

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case frame, ok := <-frames:
			if !ok {
				return finish("Microphone stream ended")
			}
			rms := frameRMS(frame)
			if calRemaining > 0 {
				// leading frames establish the noise floor
				calRemaining -= frameDuration(len(frame))
				if rms > calPeak {
					calPeak = rms
				}
				if calRemaining <= 0 {
					if t := calPeak * 1.5; t > threshold {
						threshold = t
					}
				}
			} else if rms >= threshold {
				lastActivity = time.Now()
				if !speechSeen {
					speechSeen = true
					phraseEnd = time.After(phraseLimit)
				}
			}
			if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				return "", fmt.Errorf("send audio: %w", err)
			}

		case t := <-transcripts:
			latest = t
			lastActivity = time.Now()
			if !speechSeen {
				speechSeen = true
				phraseEnd = time.After(phraseLimit)
			}

		case err := <-readErrs:
			if strings.TrimSpace(latest) != "" {
				return finish("")
			}
			if err != nil && err != io.EOF {
				return "", err
			}
			return finish("Could not understand audio")

		case <-onset:
			if !speechSeen {
				fmt.Println("No speech detected (timeout)")
				return "", nil
			}

		case <-phraseEnd:
			return finish("Could not understand audio")

		case <-tick.C:
			if speechSeen && time.Since(lastActivity) > silenceThreshold {
				return finish("Could not understand audio")
			}
		}
	}
}

// readTranscripts pumps streaming messages until the connection closes or the
// backend reports an error. Transcript sends never block so a finished Listen
// cannot strand this goroutine.
func readTranscripts(conn *websocket.Conn, transcripts chan<- string, errs chan<- error) {
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			errs <- err
			return
		}
		var base struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(message, &base); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}
		switch base.Type {
		case "Begin":
			var msg beginMessage
			if err := json.Unmarshal(message, &msg); err == nil {
				log.Printf("AssemblyAI session began: ID=%s", msg.ID)
			}
		case "Turn":
			var msg turnMessage
			if err := json.Unmarshal(message, &msg); err != nil {
				continue
			}
			if msg.Transcript != "" {
				select {
				case transcripts <- msg.Transcript:
				default:
				}
			}
		case "Termination":
			errs <- io.EOF
			return
		case "Error":
			var msg errorMessage
			if err := json.Unmarshal(message, &msg); err != nil {
				continue
			}
			errs <- fmt.Errorf("AssemblyAI error: %s", msg.Error)
			return
		}
	}
}

// frameRMS computes root-mean-square energy over an s16le PCM frame.
func frameRMS(pcm []byte) float64 {
	if len(pcm) < 2 {
		return 0
	}
	var sumSquares float64
	count := 0
	for i := 0; i+1 < len(pcm); i += 2 {
		v := int16(binary.LittleEndian.Uint16(pcm[i : i+2]))
		sumSquares += float64(v) * float64(v)
		count++
	}
	return math.Sqrt(sumSquares / float64(count))
}

// frameDuration converts an s16le 16kHz byte count into wall time.
func frameDuration(nbytes int) time.Duration {
	return time.Duration(nbytes/2) * time.Second / 16000
}
