// Package tui is the interactive search-as-you-type picker. It feeds queries
// to a Finder, lists the candidates, and runs the action the user picks on
// the selected track.
package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"spotpick/internal/core"
	"spotpick/pkg/fuzzy"
)

// Finder turns a query into display candidates.
type Finder interface {
	SearchFormatted(ctx context.Context, term string) ([]core.Candidate, error)
}

// Resolver lists the actions available for a track.
type Resolver interface {
	ActionsFor(track core.Track) []core.Action
}

// Options configures a Model.
type Options struct {
	Finder         Finder
	Resolver       Resolver
	MinQueryLength int
	Debounce       time.Duration
	CacheSize      int // 0 disables the result cache
	CacheTTL       time.Duration
	Metadata       *MetadataPane
	Status         *StatusLine
	Logger         *zap.Logger
}

type state int

const (
	stateSearch   state = iota // typing and browsing candidates
	stateActions               // choosing what to do with the selected track
	stateMetadata              // reading the selected track's record
)

// Model is the bubbletea model of the picker.
type Model struct {
	opts       Options
	normalizer *fuzzy.Normalizer
	cache      *expirable.LRU[string, []core.Candidate]

	input   textinput.Model
	spinner spinner.Model
	state   state

	// seq identifies the latest query. Ticks and results carrying an older
	// seq are dropped.
	seq     int
	cancel  context.CancelFunc
	loading bool

	candidates []core.Candidate
	cursor     int
	offset     int

	selected     core.Candidate
	actions      []core.Action
	actionCursor int
	metadata     string

	status string
	err    error

	width, height int
}

// New creates a picker model.
func New(opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Metadata == nil {
		opts.Metadata = &MetadataPane{}
	}
	if opts.Status == nil {
		opts.Status = &StatusLine{}
	}
	if opts.MinQueryLength < 1 {
		opts.MinQueryLength = 1
	}

	ti := textinput.New()
	ti.Placeholder = "Search tracks..."
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		opts:       opts,
		normalizer: fuzzy.NewNormalizer(),
		input:      ti,
		spinner:    sp,
	}
	if opts.CacheSize > 0 {
		m.cache = expirable.NewLRU[string, []core.Candidate](opts.CacheSize, nil, opts.CacheTTL)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-4)
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case debounceMsg:
		if msg.seq != m.seq {
			return m, nil
		}
		return m.startSearch()

	case searchResultMsg:
		return m.handleSearchResult(msg), nil

	case actionDoneMsg:
		return m.handleActionDone(msg), nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.cancelInflight()
			return m, tea.Quit
		}
		switch m.state {
		case stateActions:
			return m.updateActions(msg)
		case stateMetadata:
			return m.updateMetadata(msg), nil
		default:
			return m.updateSearch(msg)
		}
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.cancelInflight()
		return m, tea.Quit

	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
			m.adjustOffset()
		}
		return m, nil

	case "down", "ctrl+n":
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
			m.adjustOffset()
		}
		return m, nil

	case "enter":
		if m.cursor >= len(m.candidates) {
			return m, nil
		}
		m.selected = m.candidates[m.cursor]
		m.actions = m.opts.Resolver.ActionsFor(m.selected.Track)
		m.actionCursor = 0
		m.state = stateActions
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	return m, tea.Batch(cmd, m.queryChanged())
}

// queryChanged supersedes any earlier query and schedules a debounced search
// when the new query is long enough.
func (m *Model) queryChanged() tea.Cmd {
	m.seq++
	m.cancelInflight()
	m.loading = false
	m.err = nil

	if m.normalizer.QueryLength(m.input.Value()) < m.opts.MinQueryLength {
		m.candidates = nil
		m.cursor = 0
		m.offset = 0
		return nil
	}
	return debounceCmd(m.seq, m.opts.Debounce)
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	term := strings.TrimSpace(m.input.Value())
	if m.normalizer.QueryLength(term) < m.opts.MinQueryLength {
		return m, nil
	}

	key := m.normalizer.QueryKey(term)
	if m.cache != nil {
		if cached, ok := m.cache.Get(key); ok {
			m.setCandidates(cached)
			return m, nil
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.loading = true
	m.opts.Logger.Debug("Searching", zap.String("term", term), zap.Int("seq", m.seq))

	return m, tea.Batch(searchCmd(ctx, m.opts.Finder, m.seq, key, term), m.spinner.Tick)
}

func (m Model) handleSearchResult(msg searchResultMsg) Model {
	if msg.seq != m.seq {
		m.opts.Logger.Debug("Dropping stale search result",
			zap.Int("seq", msg.seq),
			zap.Int("latest", m.seq))
		return m
	}

	m.loading = false
	m.cancelInflight()
	if msg.err != nil {
		m.err = msg.err
		m.candidates = nil
		return m
	}

	m.err = nil
	if m.cache != nil {
		m.cache.Add(msg.key, msg.candidates)
	}
	m.setCandidates(msg.candidates)
	return m
}

func (m *Model) setCandidates(candidates []core.Candidate) {
	m.candidates = candidates
	m.cursor = 0
	m.offset = 0
}

func (m Model) updateActions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateSearch
		m.actions = nil
	case "up", "ctrl+p", "k":
		if m.actionCursor > 0 {
			m.actionCursor--
		}
	case "down", "ctrl+n", "j":
		if m.actionCursor < len(m.actions)-1 {
			m.actionCursor++
		}
	case "enter":
		if m.actionCursor < len(m.actions) {
			return m, runActionCmd(m.actions[m.actionCursor], m.selected.Track)
		}
	}
	return m, nil
}

func (m Model) handleActionDone(msg actionDoneMsg) Model {
	if msg.err != nil {
		m.err = msg.err
		return m
	}

	m.err = nil
	m.status = msg.description
	if notice := m.opts.Status.Take(); notice != "" {
		m.status = notice
	}
	if text, ok := m.opts.Metadata.Take(); ok {
		m.metadata = text
		m.state = stateMetadata
	}
	return m
}

func (m Model) updateMetadata(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc", "enter", "q":
		m.state = stateActions
		m.metadata = ""
	}
	return m
}

func (m *Model) cancelInflight() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) adjustOffset() {
	visible := m.visibleCandidates()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
}
