package console

import (
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner wraps the terminal spinner with TTY detection: in pipes and CI
// it silently does nothing.
type Spinner struct {
	spinner *spinner.Spinner
	enabled bool
}

// NewSpinner creates a spinner with the given message, disabled when
// stdout is not a terminal.
func NewSpinner(message string) *Spinner {
	s := &Spinner{enabled: isatty.IsTerminal(1)}
	if s.enabled {
		s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.spinner.Suffix = " " + message
		_ = s.spinner.Color("cyan")
	}
	return s
}

// Start begins the animation.
func (s *Spinner) Start() {
	if s.enabled && s.spinner != nil {
		s.spinner.Start()
	}
}

// Stop stops the animation.
func (s *Spinner) Stop() {
	if s.enabled && s.spinner != nil {
		s.spinner.Stop()
	}
}

// UpdateMessage swaps the spinner message in place.
func (s *Spinner) UpdateMessage(message string) {
	if s.enabled && s.spinner != nil {
		s.spinner.Suffix = " " + message
	}
}
