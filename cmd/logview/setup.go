package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/mandalnilabja/logview/internal/storage"
)

var errPasswordMismatch = errors.New("passwords do not match")

// passwordReader reads secrets from a terminal without echo, or line by line
// when input is piped.
type passwordReader struct {
	in     *os.File
	out    io.Writer
	reader *bufio.Reader
}

func newPasswordReader(in *os.File, out io.Writer) *passwordReader {
	return &passwordReader{in: in, out: out, reader: bufio.NewReader(in)}
}

func (p *passwordReader) interactive() bool {
	return term.IsTerminal(int(p.in.Fd()))
}

func (p *passwordReader) read(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if p.interactive() {
		b, err := term.ReadPassword(int(p.in.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := p.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readNew prompts for a password and its confirmation.
func (p *passwordReader) readNew() (string, error) {
	password, err := p.read("Enter admin password (min 8 chars): ")
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	confirm, err := p.read("Confirm password: ")
	if err != nil {
		return "", fmt.Errorf("failed to read confirmation: %w", err)
	}
	if password != confirm {
		return "", errPasswordMismatch
	}
	return password, nil
}

// setPassword prompts until a valid password is stored. Non-interactive
// input gets a single attempt.
func setPassword(store storage.Storage, pr *passwordReader) error {
	for {
		password, err := pr.readNew()
		if err == nil {
			err = storage.SetAdminPassword(store, password)
			if err == nil {
				return nil
			}
		}
		if !pr.interactive() {
			return err
		}
		switch {
		case errors.Is(err, errPasswordMismatch):
			fmt.Fprintln(pr.out, "Passwords do not match. Please try again.")
		case errors.Is(err, storage.ErrInvalidInput):
			fmt.Fprintf(pr.out, "Password must be at least %d characters.\n", storage.MinPasswordLength)
		default:
			return err
		}
		fmt.Fprintln(pr.out)
	}
}

func ensureAdminPassword(store storage.Storage, pr *passwordReader) error {
	hasPassword, err := store.HasAdminPassword()
	if err != nil {
		return fmt.Errorf("failed to check admin password: %w", err)
	}
	if hasPassword {
		return nil
	}

	fmt.Fprintln(pr.out)
	fmt.Fprintln(pr.out, "╔════════════════════════════════════════════════════════════╗")
	fmt.Fprintln(pr.out, "║              FIRST-TIME SETUP REQUIRED                     ║")
	fmt.Fprintln(pr.out, "╚════════════════════════════════════════════════════════════╝")
	fmt.Fprintln(pr.out)
	fmt.Fprintln(pr.out, "No admin password configured. Please set one now.")
	fmt.Fprintln(pr.out, "Viewers send it as a Bearer token to read and prune logs.")
	fmt.Fprintln(pr.out)

	if err := setPassword(store, pr); err != nil {
		return err
	}
	fmt.Fprintln(pr.out, "Admin password saved.")
	fmt.Fprintln(pr.out)
	return nil
}
