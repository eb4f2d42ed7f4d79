package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotInteractive is returned when a question needs an answer but stdin is not a terminal
var ErrNotInteractive = errors.New("stdin is not an interactive terminal")

// Terminal asks questions on a line-oriented terminal
type Terminal struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
}

// NewTerminal creates a prompter bound to the process stdin and stdout
func NewTerminal() *Terminal {
	return newTerminal(os.Stdin, os.Stdout, term.IsTerminal(int(os.Stdin.Fd())))
}

func newTerminal(in io.Reader, out io.Writer, interactive bool) *Terminal {
	return &Terminal{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
	}
}

// Confirm asks a yes/no question. Only "y" and "yes" (any case) count as yes.
func (t *Terminal) Confirm(message string) (bool, error) {
	answer, err := t.readLine(message + " [y/N] ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// Ask repeats message until a non-empty line is entered
func (t *Terminal) Ask(message string) (string, error) {
	for {
		answer, err := t.readLine(message + " ")
		if err != nil {
			return "", err
		}
		if answer != "" {
			return answer, nil
		}
	}
}

func (t *Terminal) readLine(message string) (string, error) {
	if !t.interactive {
		return "", ErrNotInteractive
	}
	if _, err := fmt.Fprint(t.out, message); err != nil {
		return "", err
	}

	line, err := t.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		if err == io.EOF {
			return "", fmt.Errorf("no answer: %w", io.ErrUnexpectedEOF)
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
