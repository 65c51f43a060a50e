// Package console is the terminal front end used with --headless.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"

	"focusring/internal/core/timekeeper"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// Controller is the part of the timer the console drives.
type Controller interface {
	Toggle()
	EndSession()
	ResetSessions()
	RequestSetDuration(raw string) error
	Snapshot() timekeeper.Snapshot
}

const (
	keyCtrlC     = 3
	keyBackspace = 8
	keyEnter     = '\r'
	keyNewline   = '\n'
	keyEscape    = 27
	keyDelete    = 127

	barWidth     = 20
	defaultWidth = 80
)

const helpLine = "space start/pause · e end · r reset · d set minutes · q quit"

// Console renders one status line and maps keys to timer intents.
type Console struct {
	controller Controller
	out        io.Writer
	width      func() int

	mu       sync.Mutex
	entering bool
	entry    []byte
	notice   string
}

// New creates a console writing to out.
func New(controller Controller, out io.Writer) *Console {
	return &Console{
		controller: controller,
		out:        out,
		width:      func() int { return defaultWidth },
	}
}

// Run puts in into raw mode when it is a terminal and serves keys and timer
// events until ctx is done, the user quits or input ends.
func (console *Console) Run(ctx context.Context, in *os.File, events <-chan timekeeper.Event) error {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return fmt.Errorf("enable raw mode: %w", err)
		}
		defer func() {
			_ = term.Restore(fd, oldState)
		}()
	}
	if file, ok := console.out.(*os.File); ok && term.IsTerminal(int(file.Fd())) {
		console.width = func() int {
			width, _, err := term.GetSize(int(file.Fd()))
			if err != nil || width <= 0 {
				return defaultWidth
			}
			return width
		}
	}

	keys := make(chan byte, 16)
	readErr := make(chan error, 1)
	go readKeys(in, keys, readErr)

	fmt.Fprint(console.out, helpLine+"\r\n")
	console.Draw()
	defer fmt.Fprint(console.out, "\r\n")

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			for len(keys) > 0 {
				if console.HandleKey(<-keys) {
					return nil
				}
			}
			console.Draw()
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		case key := <-keys:
			if console.HandleKey(key) {
				return nil
			}
			console.Draw()
		case _, ok := <-events:
			if !ok {
				return nil
			}
			console.Draw()
		}
	}
}

// HandleKey applies one key press and reports whether the user asked to quit.
func (console *Console) HandleKey(key byte) bool {
	console.mu.Lock()
	defer console.mu.Unlock()

	if key == keyCtrlC {
		return true
	}
	if console.entering {
		console.handleEntryKeyLocked(key)
		return false
	}

	console.notice = ""
	switch key {
	case ' ', 's':
		console.controller.Toggle()
	case 'e':
		console.controller.EndSession()
	case 'r':
		console.controller.ResetSessions()
	case 'd':
		console.entering = true
		console.entry = console.entry[:0]
	case 'q':
		return true
	}
	return false
}

func (console *Console) handleEntryKeyLocked(key byte) {
	switch {
	case key >= '0' && key <= '9':
		console.entry = append(console.entry, key)
	case key == keyBackspace || key == keyDelete:
		if len(console.entry) > 0 {
			console.entry = console.entry[:len(console.entry)-1]
		}
	case key == keyEscape:
		console.entering = false
		console.notice = ""
	case key == keyEnter || key == keyNewline:
		console.entering = false
		raw := string(console.entry)
		if err := console.controller.RequestSetDuration(raw); err != nil {
			console.notice = "rejected: " + rejectionText(err)
			return
		}
		console.notice = "session length set to " + raw + " min"
	}
}

// Draw rewrites the status line in place.
func (console *Console) Draw() {
	line := console.Line(console.controller.Snapshot())
	line = runewidth.Truncate(line, console.width()-1, "…")
	fmt.Fprint(console.out, "\r\x1b[2K"+line)
}

// Line formats the status line for snapshot.
func (console *Console) Line(snapshot timekeeper.Snapshot) string {
	console.mu.Lock()
	defer console.mu.Unlock()

	line := StatusLine(snapshot)
	switch {
	case console.entering:
		line += " │ minutes: " + string(console.entry) + "_"
	case console.notice != "":
		line += " │ " + console.notice
	}
	return line
}

// StatusLine renders remaining time, the ring as a bar, session dots and state.
func StatusLine(snapshot timekeeper.Snapshot) string {
	return fmt.Sprintf("%s %s %s %s",
		timekeeper.FormatClock(snapshot.Remaining),
		progressBar(snapshot.RemainingFraction(), barWidth),
		sessionDots(snapshot.CompletedSessions, snapshot.TotalSessions),
		snapshot.Status(),
	)
}

func progressBar(fraction float64, width int) string {
	filled := int(math.Round(fraction * float64(width)))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

func sessionDots(completed, total int) string {
	if completed > total {
		completed = total
	}
	return strings.Repeat("●", completed) + strings.Repeat("○", total-completed)
}

func rejectionText(err error) string {
	var validation *timekeeper.ValidationError
	if errors.As(err, &validation) {
		return validation.Reason
	}
	return err.Error()
}

func readKeys(in io.Reader, keys chan<- byte, readErr chan<- error) {
	buffer := make([]byte, 16)
	for {
		count, err := in.Read(buffer)
		for _, key := range buffer[:count] {
			keys <- key
		}
		if err != nil {
			readErr <- err
			return
		}
	}
}
