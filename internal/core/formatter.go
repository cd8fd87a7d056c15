package core

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Track Formatting
// Labels are a pure function of the track record: the same record always
// renders to the same label.

const artistSeparator = "/"

// FormatTrack renders a track as two lines:
//
//	<name> (<m>m<ss>s)
//	<artist>/<artist>/... - <album>
func FormatTrack(track Track) string {
	var b strings.Builder
	b.WriteString(track.Get("name").String())
	b.WriteString(" (")
	b.WriteString(formatDuration(track.Get("duration_ms").Int()))
	b.WriteString(")\n")
	b.WriteString(strings.Join(track.Get("artists").Strings("name"), artistSeparator))
	b.WriteString(" - ")
	b.WriteString(track.Get("album", "name").String())
	return b.String()
}

// formatDuration turns milliseconds into "<m>m<ss>s". Negative input is
// treated as zero.
func formatDuration(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	secs := ms / 1000
	mins := secs / 60
	rem := secs % 60

	s := strconv.FormatInt(mins, 10) + "m"
	if rem < 10 {
		s += "0"
	}
	return s + strconv.FormatInt(rem, 10) + "s"
}

// Finder turns a raw query into display candidates.
type Finder struct {
	searcher Searcher
	logger   *zap.Logger
}

func NewFinder(searcher Searcher, logger *zap.Logger) *Finder {
	return &Finder{searcher: searcher, logger: logger}
}

// SearchFormatted runs one search and returns one candidate per track, in the
// order the catalog returned them.
func (f *Finder) SearchFormatted(ctx context.Context, term string) ([]Candidate, error) {
	result, err := f.searcher.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, len(result))
	for i, track := range result {
		candidates[i] = Candidate{Label: FormatTrack(track), Track: track}
	}

	f.logger.Debug("Search formatted",
		zap.String("term", term),
		zap.Int("candidates", len(candidates)))

	return candidates, nil
}
