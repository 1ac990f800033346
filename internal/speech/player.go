package speech

import (
	"context"
	"fmt"
	"os/exec"
)

// ExecPlayer pipes 48kHz mono s16le PCM into a command-line audio player
// (aplay, falling back to sox's play).
type ExecPlayer struct{}

func playbackCommand() (string, []string) {
	if path, err := exec.LookPath("aplay"); err == nil {
		return path, []string{"-q", "-f", "S16_LE", "-r", "48000", "-c", "1", "-t", "raw", "-"}
	}
	if path, err := exec.LookPath("play"); err == nil {
		return path, []string{"-q", "-t", "raw", "-r", "48000", "-e", "signed", "-b", "16", "-c", "1", "-"}
	}
	return "", nil
}

func (ExecPlayer) Play(ctx context.Context, pcm <-chan []byte) error {
	bin, args := playbackCommand()
	if bin == "" {
		drain(pcm)
		return fmt.Errorf("no audio playback tool found: install aplay or sox")
	}

	cmd := exec.CommandContext(ctx, bin, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		drain(pcm)
		return fmt.Errorf("playback stdin: %w", err)
	}
	if err := cmd.Start(); err != nil {
		drain(pcm)
		return fmt.Errorf("start %s: %w", bin, err)
	}

	var writeErr error
	for chunk := range pcm {
		if writeErr != nil {
			continue // keep draining so the producer can finish
		}
		if _, err := stdin.Write(chunk); err != nil {
			writeErr = fmt.Errorf("write audio: %w", err)
		}
	}
	_ = stdin.Close()
	if err := cmd.Wait(); err != nil && writeErr == nil {
		writeErr = fmt.Errorf("%s: %w", bin, err)
	}
	return writeErr
}

// nopPlayer discards audio; used when no player is wired.
type nopPlayer struct{}

func (nopPlayer) Play(_ context.Context, pcm <-chan []byte) error {
	drain(pcm)
	return nil
}

func drain(pcm <-chan []byte) {
	for range pcm {
	}
}
