package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const spinnerInterval = 80 * time.Millisecond

// Spinner animates a progress message on stderr. Off a terminal it prints
// each message once instead. A nil *Spinner is a no-op.
type Spinner struct {
	out         io.Writer
	interactive bool

	mu      sync.Mutex
	message string
	stop    chan struct{}
	stopped chan struct{}
}

func NewSpinner(message string) *Spinner {
	return &Spinner{
		out:         os.Stderr,
		interactive: isatty.IsTerminal(os.Stderr.Fd()),
		message:     message,
	}
}

func (s *Spinner) SetMessage(message string) {
	if s == nil {
		return
	}
	s.mu.Lock()
	changed := s.message != message
	s.message = message
	s.mu.Unlock()
	if changed && !s.interactive {
		fmt.Fprintf(s.out, "%s...\n", message)
	}
}

func (s *Spinner) Start() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.interactive {
		fmt.Fprintf(s.out, "%s...\n", s.message)
		return
	}
	if s.stop != nil {
		return
	}
	s.stop, s.stopped = make(chan struct{}), make(chan struct{})
	go s.run(s.stop, s.stopped)
}

func (s *Spinner) run(stop <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-stop:
			fmt.Fprint(s.out, "\r\033[K")
			return
		case <-ticker.C:
			s.mu.Lock()
			msg := s.message
			s.mu.Unlock()
			fmt.Fprintf(s.out, "\r\033[K%s %s", Bold.Render(spinnerFrames[frame%len(spinnerFrames)]), msg)
		}
	}
}

// Stop clears the spinner line and waits for the animation to end.
func (s *Spinner) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	stop, stopped := s.stop, s.stopped
	s.stop, s.stopped = nil, nil
	s.mu.Unlock()
	if stop == nil {
		return
	}
	close(stop)
	<-stopped
}
