// Package clipboard copies text to whichever clipboard the environment offers.
package clipboard

import (
	"errors"
	"io"
	"os"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrUnsupported is returned when no clipboard backend is usable.
var ErrUnsupported = errors.New("clipboard unsupported")

// Clipboard writes text to a clipboard.
type Clipboard interface {
	Copy(text string) error
}

// System uses the OS clipboard (pbcopy, xclip, wl-copy, Windows API).
type System struct{}

// Copy implements Clipboard.
func (System) Copy(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// OSC52 asks the terminal emulator to set the clipboard with an OSC 52
// escape sequence. It works over SSH, where no system clipboard exists.
type OSC52 struct {
	Out io.Writer
	// Tmux and Screen wrap the sequence for the respective multiplexers.
	Tmux   bool
	Screen bool
}

// NewOSC52 returns an OSC52 clipboard writing to stdout, with multiplexer
// wrapping detected from the environment.
func NewOSC52() *OSC52 {
	return &OSC52{
		Out:    os.Stdout,
		Tmux:   os.Getenv("TMUX") != "",
		Screen: os.Getenv("STY") != "",
	}
}

// Copy implements Clipboard.
func (o *OSC52) Copy(text string) error {
	if o.Out == nil {
		return ErrUnsupported
	}
	seq := osc52.New(text)
	switch {
	case o.Tmux:
		seq = seq.Tmux()
	case o.Screen:
		seq = seq.Screen()
	}
	_, err := seq.WriteTo(o.Out)
	return err
}

// Chain tries each clipboard in order and stops at the first success.
type Chain []Clipboard

// Copy implements Clipboard. It returns the joined errors when every
// backend fails.
func (c Chain) Copy(text string) error {
	if len(c) == 0 {
		return ErrUnsupported
	}
	var errs []error
	for _, cb := range c {
		err := cb.Copy(text)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Default prefers the system clipboard and falls back to OSC 52.
func Default() Clipboard {
	return Chain{System{}, NewOSC52()}
}
