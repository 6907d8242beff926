package client

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter reads answers from the user. Passwords are read without echo when
// the input is a terminal.
type Prompter struct {
	in     *bufio.Scanner
	out    io.Writer
	fd     int
	isTerm bool
}

// NewPrompter creates a Prompter over in and out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewScanner(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.isTerm = true
	}
	return p
}

// Line prints label and returns the next input line, trimmed.
// It returns io.EOF when the input is exhausted.
func (p *Prompter) Line(label string) (string, error) {
	if label != "" {
		fmt.Fprint(p.out, label)
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Password prints label and reads a password.
func (p *Prompter) Password(label string) (string, error) {
	if !p.isTerm {
		return p.Line(label)
	}
	fmt.Fprint(p.out, label)
	b, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
