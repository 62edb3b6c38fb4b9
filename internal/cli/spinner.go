package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames is the braille animation cycle.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner is a terminal progress indicator that stops on demand or when
// its context is cancelled. Frames go to stderr so piped stdout stays
// clean.
type Spinner struct {
	message string
	ctx     context.Context
	quit    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// newSpinner creates a spinner bound to ctx with the given message.
func newSpinner(ctx context.Context, message string) *Spinner {
	return &Spinner{
		message: message,
		ctx:     ctx,
		quit:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
}

// Start begins the animation in a background goroutine.
func (s *Spinner) Start() {
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.quit:
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
			}
		}
	}()
}

// Stop ends the animation and clears the line. Safe to call more than
// once; the line is only cleared after the render goroutine has exited.
func (s *Spinner) Stop() {
	s.once.Do(func() { close(s.quit) })
	<-s.stopped
	s.clearLine()
}

// StopWithError stops the spinner and prints an error line.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

func (s *Spinner) clearLine() {
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
}
