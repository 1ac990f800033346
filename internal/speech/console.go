package speech

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// ConsoleInput reads one typed line per attempt. It stands in for the
// recognizer when no speech backend is configured; an empty line is a capture
// absence, same as silence on the microphone.
type ConsoleInput struct {
	r *bufio.Reader
}

func NewConsoleInput(r io.Reader) *ConsoleInput {
	if r == nil {
		r = os.Stdin
	}
	return &ConsoleInput{r: bufio.NewReader(r)}
}

func (c *ConsoleInput) Listen(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Println("\n[LISTENING] (type your answer)")
	line, err := c.r.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line != "" {
		fmt.Printf("You: %s\n", line)
	}
	return line, nil
}

// ConsoleOutput prints prompts without rendering audio.
type ConsoleOutput struct{}

func (ConsoleOutput) Speak(_ context.Context, text string) {
	fmt.Printf("\nBot: %s\n", text)
}
