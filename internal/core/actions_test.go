package core

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.uber.org/zap"

	"spotpick/internal/record"
)

type recordingPlayer struct {
	hrefs []string
}

func (p *recordingPlayer) PlayHref(_ context.Context, href string) {
	p.hrefs = append(p.hrefs, href)
}

func newTestResolver(player HrefPlayer, out *bytes.Buffer) *ActionResolver {
	playback := NewPlaybackController(player, zap.NewNop())
	return NewActionResolver(playback, NewWriterViewer(out))
}

func TestActionsForOrderAndLabels(t *testing.T) {
	resolver := newTestResolver(&recordingPlayer{}, &bytes.Buffer{})

	actions := resolver.ActionsFor(record.MustParse(bowieTrack))
	if len(actions) != 3 {
		t.Fatalf("Expected 3 actions, got %d", len(actions))
	}

	expected := []string{
		"Play Track - Let's Dance",
		"Play Album - Let's Dance",
		"Show Track Metadata",
	}
	for i, want := range expected {
		if actions[i].Description != want {
			t.Errorf("Action %d = %q, expected %q", i, actions[i].Description, want)
		}
		if actions[i].Handler == nil {
			t.Errorf("Action %d has no handler", i)
		}
	}
}

func TestActionsForUnusualNames(t *testing.T) {
	resolver := newTestResolver(&recordingPlayer{}, &bytes.Buffer{})

	track := record.MustParse(`{"name":"%s{0}\\n","album":{}}`)
	actions := resolver.ActionsFor(track)

	if actions[0].Description != `Play Track - %s{0}\n` {
		t.Errorf("Track label = %q", actions[0].Description)
	}
	if actions[1].Description != "Play Album - " {
		t.Errorf("Album label = %q", actions[1].Description)
	}
	if len(actions) != 3 {
		t.Errorf("Expected 3 actions for partial record, got %d", len(actions))
	}
}

func TestActionHandlers(t *testing.T) {
	player := &recordingPlayer{}
	out := &bytes.Buffer{}
	resolver := newTestResolver(player, out)
	track := record.MustParse(bowieTrack)
	ctx := context.Background()

	actions := resolver.ActionsFor(track)
	for _, a := range actions {
		if err := a.Handler(ctx, track); err != nil {
			t.Fatalf("%s: unexpected error %v", a.Description, err)
		}
	}

	if len(player.hrefs) != 2 {
		t.Fatalf("Expected 2 playback calls, got %v", player.hrefs)
	}
	if player.hrefs[0] != "spotify:track:abc" {
		t.Errorf("Play Track sent %q", player.hrefs[0])
	}
	if player.hrefs[1] != "spotify:album:def" {
		t.Errorf("Play Album sent %q", player.hrefs[1])
	}

	if !strings.Contains(out.String(), `"uri": "spotify:track:abc"`) {
		t.Errorf("Metadata output missing uri:\n%s", out.String())
	}
}

func TestRenderMetadataEmptyTrack(t *testing.T) {
	got := string(RenderMetadata(Track{}))
	if strings.TrimSpace(got) != "{}" {
		t.Errorf("RenderMetadata(empty) = %q", got)
	}
}
