package core

import (
	"context"
	"time"

	"spotpick/internal/record"
)

// Track is one catalog track record. Fields are read through record lookups
// so partial records never break the pipeline.
type Track = record.Record

// SearchResult holds tracks in the order the catalog returned them.
type SearchResult []Track

// Candidate pairs a display label with the track it was derived from.
type Candidate struct {
	Label string
	Track Track
}

// Action is one thing the user can do with a selected track.
type Action struct {
	Description string
	Handler     func(ctx context.Context, track Track) error
}

// Searcher runs one catalog query.
type Searcher interface {
	Search(ctx context.Context, term string) (SearchResult, error)
}

// HrefPlayer starts playback of an opaque catalog href. It never fails; any
// problem is reported out of band.
type HrefPlayer interface {
	PlayHref(ctx context.Context, href string)
}

// MetadataViewer presents the full record of a track.
type MetadataViewer interface {
	ShowMetadata(track Track) error
}

// MetricsRecorder receives search and playback observations.
type MetricsRecorder interface {
	RecordSearch(status string, duration time.Duration)
	RecordDispatch(platform, status string)
	RecordCommandFailure(platform string)
}

// NopMetrics discards every observation.
type NopMetrics struct{}

func (NopMetrics) RecordSearch(string, time.Duration) {}

func (NopMetrics) RecordDispatch(string, string) {}

func (NopMetrics) RecordCommandFailure(string) {}

// Search outcome labels used with MetricsRecorder.RecordSearch.
const (
	SearchStatusOK        = "ok"
	SearchStatusNetwork   = "network_error"
	SearchStatusMalformed = "malformed"
)

// Dispatch outcome labels used with MetricsRecorder.RecordDispatch.
const (
	DispatchStatusSent        = "sent"
	DispatchStatusUnsupported = "unsupported"
)
