package tui

import (
	"strings"
	"sync"

	"spotpick/internal/core"
)

// MetadataPane collects rendered track metadata for the picker to show.
// Actions run off the UI goroutine, so access is locked.
type MetadataPane struct {
	mu      sync.Mutex
	text    string
	pending bool
}

var _ core.MetadataViewer = (*MetadataPane)(nil)

func (p *MetadataPane) ShowMetadata(track core.Track) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text = strings.TrimRight(string(core.RenderMetadata(track)), "\n")
	p.pending = true
	return nil
}

// Take returns the last rendered metadata once.
func (p *MetadataPane) Take() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.pending {
		return "", false
	}
	p.pending = false
	return p.text, true
}

// StatusLine holds the latest notice for the footer. It satisfies the
// platform notifier shape.
type StatusLine struct {
	mu      sync.Mutex
	message string
}

func (s *StatusLine) Notify(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Take returns and clears the pending notice.
func (s *StatusLine) Take() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.message
	s.message = ""
	return msg
}
