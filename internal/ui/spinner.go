// Package ui provides the terminal progress indicator used by the
// CLI while suppliers are being queried.
package ui

import (
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var frames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// Spinner animates a progress line on stderr. It disables itself
// when stderr is not a terminal so piped output stays clean.
type Spinner struct {
	mu      sync.Mutex
	msg     string
	done    chan struct{}
	enabled bool
}

func NewSpinner() *Spinner {
	return &Spinner{enabled: term.IsTerminal(int(os.Stderr.Fd()))}
}

// Start begins the animation with the given message.
func (s *Spinner) Start(msg string) {
	if !s.enabled {
		return
	}
	s.mu.Lock()
	s.msg = msg
	s.done = make(chan struct{})
	s.mu.Unlock()
	go s.run()
}

// Update changes the message while the spinner is running.
func (s *Spinner) Update(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.halt()
	if s.enabled {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
}

// StopWith halts the animation and leaves a final line in its place.
func (s *Spinner) StopWith(msg string) {
	s.halt()
	if s.enabled {
		fmt.Fprintf(os.Stderr, "\r\033[K%s\n", msg)
	} else {
		fmt.Fprintln(os.Stderr, msg)
	}
}

func (s *Spinner) halt() {
	s.mu.Lock()
	if s.done != nil {
		close(s.done)
		s.done = nil
	}
	s.mu.Unlock()
}

func (s *Spinner) run() {
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	s.mu.Lock()
	done := s.done
	s.mu.Unlock()

	i := 0
	for {
		select {
		case <-done:
			return
		case <-tick.C:
			s.mu.Lock()
			msg := s.msg
			s.mu.Unlock()
			fmt.Fprintf(os.Stderr, "\r\033[K%c %s", frames[i%len(frames)], msg)
			i++
		}
	}
}
