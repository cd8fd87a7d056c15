package core

import (
	"context"
	"fmt"
	"io"

	"github.com/tidwall/pretty"
)

const (
	playTrackPrefix    = "Play Track - "
	playAlbumPrefix    = "Play Album - "
	showMetadataAction = "Show Track Metadata"
)

// ActionResolver lists what can be done with a selected track.
type ActionResolver struct {
	playback *PlaybackController
	viewer   MetadataViewer
}

func NewActionResolver(playback *PlaybackController, viewer MetadataViewer) *ActionResolver {
	return &ActionResolver{playback: playback, viewer: viewer}
}

// ActionsFor returns play track, play album and show metadata, always in that
// order. Names are concatenated into the labels verbatim.
func (r *ActionResolver) ActionsFor(track Track) []Action {
	return []Action{
		{
			Description: playTrackPrefix + track.Get("name").String(),
			Handler: func(ctx context.Context, t Track) error {
				r.playback.PlayTrack(ctx, t)
				return nil
			},
		},
		{
			Description: playAlbumPrefix + track.Get("album", "name").String(),
			Handler: func(ctx context.Context, t Track) error {
				r.playback.PlayAlbum(ctx, t)
				return nil
			},
		},
		{
			Description: showMetadataAction,
			Handler: func(_ context.Context, t Track) error {
				return r.viewer.ShowMetadata(t)
			},
		},
	}
}

// WriterViewer prints the indented record to w.
type WriterViewer struct {
	w io.Writer
}

func NewWriterViewer(w io.Writer) *WriterViewer {
	return &WriterViewer{w: w}
}

func (v *WriterViewer) ShowMetadata(track Track) error {
	if _, err := v.w.Write(RenderMetadata(track)); err != nil {
		return fmt.Errorf("failed to write track metadata: %w", err)
	}
	return nil
}

// RenderMetadata returns the track record as indented JSON ending in a newline.
// A missing record renders as "{}".
func RenderMetadata(track Track) []byte {
	raw := track.Raw()
	if raw == "" {
		raw = "{}"
	}
	return pretty.Pretty([]byte(raw))
}
