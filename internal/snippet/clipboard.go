package snippet

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ErrClipboardUnavailable means the text could not be handed to a clipboard.
// Callers report it as a one-line message and carry on.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// MaxOSC52Payload is the largest base64 payload most terminals accept.
const MaxOSC52Payload = 100_000

// Clipboard accepts text to copy.
type Clipboard interface {
	Copy(text string) error
}

// OSC52 copies through the terminal with the OSC 52 escape sequence.
type OSC52 struct {
	w    io.Writer
	tty  bool
	tmux bool
}

// NewOSC52 writes to f when f is a terminal. Inside tmux the sequence is
// wrapped for passthrough.
func NewOSC52(f *os.File) *OSC52 {
	fd := f.Fd()
	return &OSC52{
		w:    f,
		tty:  isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
		tmux: os.Getenv("TMUX") != "",
	}
}

// Copy implements Clipboard.
func (c *OSC52) Copy(text string) error {
	if !c.tty {
		return fmt.Errorf("%w: output is not a terminal", ErrClipboardUnavailable)
	}

	payload := base64.StdEncoding.EncodeToString([]byte(text))
	if len(payload) > MaxOSC52Payload {
		return fmt.Errorf("%w: %d bytes exceeds the terminal limit", ErrClipboardUnavailable, len(payload))
	}

	seq := "\x1b]52;c;" + payload + "\a"
	if c.tmux {
		seq = "\x1bPtmux;" + strings.ReplaceAll(seq, "\x1b", "\x1b\x1b") + "\x1b\\"
	}
	if _, err := io.WriteString(c.w, seq); err != nil {
		return fmt.Errorf("%w: %w", ErrClipboardUnavailable, err)
	}
	return nil
}

// CopyMessage is the one-line user feedback for a Copy result.
func CopyMessage(err error) string {
	if err == nil {
		return "Copied snippet to clipboard."
	}
	return "Clipboard blocked; copy the snippet manually (" + err.Error() + ")."
}
