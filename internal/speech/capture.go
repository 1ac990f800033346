package speech

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// frameBytes is 20ms of 16kHz mono s16le PCM.
const frameBytes = 640

// PCMSource yields 16kHz mono s16le PCM frames for the duration of one listen
// window. Start may be called again after Stop for the next window.
type PCMSource interface {
	Start(ctx context.Context) (<-chan []byte, error)
	Stop()
}

// MicSource captures microphone audio through a command-line recorder
// (arecord, falling back to sox). Frames flow until Stop kills the process or
// the context is cancelled.
type MicSource struct {
	mu  sync.Mutex
	cmd *exec.Cmd
}

func NewMicSource() *MicSource { return &MicSource{} }

func captureCommand() (string, []string) {
	if path, err := exec.LookPath("arecord"); err == nil {
		return path, []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "raw", "-"}
	}
	if path, err := exec.LookPath("sox"); err == nil {
		return path, []string{"-q", "-d", "-t", "raw", "-r", "16000", "-e", "signed", "-b", "16", "-c", "1", "-"}
	}
	return "", nil
}

func (m *MicSource) Start(ctx context.Context) (<-chan []byte, error) {
	bin, args := captureCommand()
	if bin == "" {
		return nil, fmt.Errorf("no audio capture tool found: install arecord or sox")
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("capture stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", bin, err)
	}

	m.mu.Lock()
	m.cmd = cmd
	m.mu.Unlock()

	frames := make(chan []byte, 64)
	go func() {
		defer close(frames)
		defer func() { _ = cmd.Wait() }()
		for {
			buf := make([]byte, frameBytes)
			n, err := io.ReadFull(stdout, buf)
			if n > 0 {
				select {
				case frames <- buf[:n]:
				case <-ctx.Done():
					return
				}
			}
			if err != nil {
				return
			}
		}
	}()
	return frames, nil
}

func (m *MicSource) Stop() {
	m.mu.Lock()
	cmd := m.cmd
	m.cmd = nil
	m.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		_ = cmd.Process.Kill()
	}
}
