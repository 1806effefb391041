// Package progress tracks and displays per-chart progress while a run is in
// flight: a live terminal area with spinners on a TTY, plain lines otherwise.
package progress

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"
)

// State tracks the progress of every chart in the current run.
type State struct {
	// Active maps chart names to their current stage
	Active map[string]string
	// Completed maps charts to the file they were written to
	Completed map[string]string
	// Failed maps chart names to failure reasons
	Failed map[string]string
	// Order preserves the sequence in which charts were started
	Order []string
	// Expected contains the charts planned for this run
	Expected map[string]struct{}
	mu       sync.Mutex
}

// NewState creates a State expecting the given charts.
func NewState(expected ...string) *State {
	s := &State{
		Active:    make(map[string]string),
		Completed: make(map[string]string),
		Failed:    make(map[string]string),
		Expected:  make(map[string]struct{}),
	}
	for _, name := range expected {
		s.Expected[name] = struct{}{}
	}
	return s
}

// Start marks a chart as active in stage. Unexpected charts are added.
func (s *State) Start(name, stage string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known(name) {
		s.Order = append(s.Order, name)
	}
	s.Active[name] = stage
	s.Expected[name] = struct{}{}
}

// Complete marks a chart as written to path.
func (s *State) Complete(name, path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known(name) {
		s.Order = append(s.Order, name)
	}
	delete(s.Active, name)
	s.Completed[name] = path
}

// Fail marks a chart as failed with a reason.
func (s *State) Fail(name, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.known(name) {
		s.Order = append(s.Order, name)
	}
	delete(s.Active, name)
	s.Failed[name] = reason
}

func (s *State) known(name string) bool {
	for _, n := range s.Order {
		if n == name {
			return true
		}
	}
	return false
}

// Counts returns the number of expected, completed and failed charts.
func (s *State) Counts() (expected, completed, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Expected), len(s.Completed), len(s.Failed)
}

// IsFullyCompleted returns true if all expected charts have been written.
func (s *State) IsFullyCompleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Expected) > 0 && len(s.Completed) == len(s.Expected)
}

// Lines returns one status line per chart in start order. frame selects the
// spinner glyph for active charts.
func (s *State) Lines(frame string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	lines := make([]string, 0, len(s.Order))
	for _, name := range s.Order {
		if stage, ok := s.Active[name]; ok {
			lines = append(lines, fmt.Sprintf("%s %s %s", frame, stage, name))
			continue
		}
		if _, ok := s.Completed[name]; ok {
			lines = append(lines, "✓ wrote "+name)
			continue
		}
		if _, ok := s.Failed[name]; ok {
			lines = append(lines, "✗ failed "+name)
		}
	}
	return lines
}

// RenderState holds the display state of the live area.
type RenderState struct {
	// FrameIdx is the current spinner frame index
	FrameIdx int
	// MaxLineLen tracks the longest line so far to prevent flickering
	MaxLineLen int
	// LastRendered caches the last area content to skip redundant updates
	LastRendered string
	mu           sync.Mutex
}

// NewRenderState creates a new RenderState with default values.
func NewRenderState() *RenderState {
	return &RenderState{}
}

// Next advances the spinner and returns the frame index to draw.
func (rs *RenderState) Next() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.FrameIdx++
	return rs.FrameIdx
}

// Compose pads lines to the widest line seen so far and joins them. It
// reports false when the result equals the last rendered content.
func (rs *RenderState) Compose(lines []string) (string, bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for _, l := range lines {
		if n := utf8.RuneCountInString(l); n > rs.MaxLineLen {
			rs.MaxLineLen = n
		}
	}
	padded := make([]string, len(lines))
	for i, l := range lines {
		padded[i] = l
		if pad := rs.MaxLineLen - utf8.RuneCountInString(l); pad > 0 {
			padded[i] += strings.Repeat(" ", pad)
		}
	}
	text := strings.Join(padded, "\n")
	if text == rs.LastRendered {
		return text, false
	}
	rs.LastRendered = text
	return text, true
}
