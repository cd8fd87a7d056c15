package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"spotpick/internal/core"
)

// debounceMsg fires once typing has paused. Only the tick matching the
// model's current seq starts a search.
type debounceMsg struct {
	seq int
}

type searchResultMsg struct {
	seq        int
	key        string
	candidates []core.Candidate
	err        error
}

type actionDoneMsg struct {
	description string
	err         error
}

func debounceCmd(seq int, delay time.Duration) tea.Cmd {
	if delay <= 0 {
		return func() tea.Msg { return debounceMsg{seq: seq} }
	}
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return debounceMsg{seq: seq}
	})
}

func searchCmd(ctx context.Context, finder Finder, seq int, key, term string) tea.Cmd {
	return func() tea.Msg {
		candidates, err := finder.SearchFormatted(ctx, term)
		if errors.Is(err, context.Canceled) {
			// Superseded by a newer query; the model drops it by seq anyway.
			err = nil
			candidates = nil
		}
		return searchResultMsg{seq: seq, key: key, candidates: candidates, err: err}
	}
}

func runActionCmd(action core.Action, track core.Track) tea.Cmd {
	return func() tea.Msg {
		err := action.Handler(context.Background(), track)
		return actionDoneMsg{description: action.Description, err: err}
	}
}
