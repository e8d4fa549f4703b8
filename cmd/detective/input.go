package main

import (
	"bufio"
	"context"
	"fmt"
	"github.com/chzyer/readline"
	"github.com/myrjola/detectivequest/internal/errors"
	"io"
	"os"
	"strings"
)

// lineSource reads the player's commands and the accusation one line at a time.
type lineSource interface {
	Next(ctx context.Context) (string, error)
	SetPrompt(prompt string)
	Close() error
}

const commandPrompt = "> "

// newLineSource uses readline when in is an interactive terminal and a plain line scanner otherwise, so that
// piped input and tests work without a TTY.
func newLineSource(in io.Reader, out io.Writer) (lineSource, error) {
	if f, ok := in.(*os.File); ok && readline.IsTerminal(int(f.Fd())) {
		rl, err := readline.NewEx(&readline.Config{ //nolint:exhaustruct // defaults are fine
			Prompt:          commandPrompt,
			Stdin:           f,
			Stdout:          out,
			HistoryLimit:    -1,
			InterruptPrompt: "^C",
			EOFPrompt:       "s",
		})
		if err != nil {
			return nil, errors.Wrap(err, "start readline")
		}
		return &terminalSource{rl: rl}, nil
	}
	return &scannerSource{scanner: bufio.NewScanner(in), out: out, prompt: commandPrompt}, nil
}

type terminalSource struct {
	rl *readline.Instance
}

func (s *terminalSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, "read line")
	}
	line, err := s.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		// Ctrl+C ends the exploration like Ctrl+D.
		return "", io.EOF
	}
	if err != nil {
		return "", err //nolint:wrapcheck // io.EOF must reach the caller unwrapped
	}
	return line, nil
}

func (s *terminalSource) SetPrompt(prompt string) {
	s.rl.SetPrompt(prompt)
}

func (s *terminalSource) Close() error {
	if err := s.rl.Close(); err != nil {
		return errors.Wrap(err, "close readline")
	}
	return nil
}

type scannerSource struct {
	scanner *bufio.Scanner
	out     io.Writer
	prompt  string
}

func (s *scannerSource) Next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", errors.Wrap(err, "read line")
	}
	_, _ = fmt.Fprint(s.out, s.prompt)
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", errors.Wrap(err, "scan line")
		}
		return "", io.EOF
	}
	return strings.TrimRight(s.scanner.Text(), "\r"), nil
}

func (s *scannerSource) SetPrompt(prompt string) {
	s.prompt = prompt
}

func (s *scannerSource) Close() error {
	return nil
}
