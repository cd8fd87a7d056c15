package core

import (
	"context"

	"go.uber.org/zap"
)

// PlaybackController picks the href to play out of a track record and hands
// it to the platform player. It adds no validation of its own: an absent URI
// is forwarded as an empty href.
type PlaybackController struct {
	player HrefPlayer
	logger *zap.Logger
}

func NewPlaybackController(player HrefPlayer, logger *zap.Logger) *PlaybackController {
	return &PlaybackController{player: player, logger: logger}
}

// PlayTrack plays the track itself.
func (p *PlaybackController) PlayTrack(ctx context.Context, track Track) {
	href := track.Get("uri").String()
	p.logger.Info("Playing track",
		zap.String("name", track.Get("name").String()),
		zap.String("href", href))
	p.player.PlayHref(ctx, href)
}

// PlayAlbum plays the album the track belongs to.
func (p *PlaybackController) PlayAlbum(ctx context.Context, track Track) {
	href := track.Get("album", "uri").String()
	p.logger.Info("Playing album",
		zap.String("album", track.Get("album", "name").String()),
		zap.String("href", href))
	p.player.PlayHref(ctx, href)
}
