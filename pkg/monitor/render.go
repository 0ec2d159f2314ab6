package monitor

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/0xmhha/focustime/pkg/display"
)

// clearSequence moves the cursor home and clears the screen.
const clearSequence = "\033[H\033[2J"

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// Render writes every update to w until ctx is done or updates is closed.
//
// With clearScreen set, the screen is cleared before each frame so the view
// updates in place.
func Render(ctx context.Context, w io.Writer, updates <-chan Update, f display.Formatter, clearScreen bool) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case u, ok := <-updates:
			if !ok {
				return nil
			}
			if err := RenderFrame(w, u, f, clearScreen); err != nil {
				return err
			}
		}
	}
}

// RenderFrame writes a single update.
func RenderFrame(w io.Writer, u Update, f display.Formatter, clearScreen bool) error {
	if clearScreen {
		if _, err := io.WriteString(w, clearSequence); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(w, "focustime  %s  (%d running)\n",
		u.Timestamp.Format("2006-01-02 15:04:05"), u.Running); err != nil {
		return err
	}
	if err := f.FormatTasks(w, u.Tasks); err != nil {
		return err
	}
	return f.FormatSummary(w, u.Report)
}
