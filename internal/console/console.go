// Package console is the operator's side of the game: line prompts,
// hidden secret entry, and styled rendering of boards and results.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Console is everything the game asks of the operator.
type Console interface {
	// ReadLine shows prompt and returns the next line without its
	// line ending.
	ReadLine(prompt string) (string, error)
	// ReadSecret is ReadLine without echo when a terminal is attached.
	ReadSecret(prompt string) (string, error)
	// Confirm asks a yes/no question until it gets an answer.
	Confirm(prompt string) (bool, error)
	// Display prints text followed by a newline.
	Display(text string)
}

// Terminal implements [Console] over a reader and a writer.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int // stdin descriptor when it is a terminal, else -1

	styles styles
}

// NewTerminal returns a console reading from in and writing to out.
// When in is a terminal, secrets are read without echo; when out is
// not a terminal, rendering drops colour.
func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd = int(f.Fd())
	}
	return &Terminal{
		in:     bufio.NewReader(in),
		out:    out,
		fd:     fd,
		styles: newStyles(lipgloss.NewRenderer(out)),
	}
}

// ReadLine implements [Console].
func (t *Terminal) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprintln(t.out, t.styles.prompt.Render(prompt))
	}
	line, err := t.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// ReadSecret implements [Console].
func (t *Terminal) ReadSecret(prompt string) (string, error) {
	if t.fd < 0 {
		return t.ReadLine(prompt)
	}
	fmt.Fprintln(t.out, t.styles.prompt.Render(prompt))
	b, err := term.ReadPassword(t.fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return string(b), nil
}

// Confirm implements [Console].  It accepts y/yes and n/no in any case.
func (t *Terminal) Confirm(prompt string) (bool, error) {
	for {
		line, err := t.ReadLine(prompt)
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}

// Display implements [Console].
func (t *Terminal) Display(text string) {
	fmt.Fprintln(t.out, text)
}

// SecretPrompt adapts ReadSecret to the byte-slice prompt the SSH
// tunnel uses for passphrases and passwords.
func (t *Terminal) SecretPrompt(prompt string) ([]byte, error) {
	s, err := t.ReadSecret(prompt)
	return []byte(s), err
}
