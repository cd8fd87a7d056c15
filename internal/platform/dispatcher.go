package platform

import (
	"context"
	"runtime"
	"strings"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"spotpick/internal/core"
)

// Command and bus constants
const (
	OsascriptCommand = "osascript"
	Rundll32Command  = "rundll32"
	URLHandlerEntry  = "url.dll,FileProtocolHandler"

	MPRISObjectPath      = dbus.ObjectPath("/org/mpris/MediaPlayer2")
	MPRISPlayerInterface = "org.mpris.MediaPlayer2.Player"
)

// Dispatcher plays hrefs on the current platform. The platform is looked up
// on every call and matched against a closed set of kinds; anything unknown
// gets a notice instead of a command.
type Dispatcher struct {
	config   *core.PlayerConfig
	detect   func() string
	runner   Runner
	bus      Bus
	notifier Notifier
	metrics  core.MetricsRecorder
	logger   *zap.Logger
}

var _ core.HrefPlayer = (*Dispatcher)(nil)

func NewDispatcher(config *core.PlayerConfig, notifier Notifier, metrics core.MetricsRecorder,
	logger *zap.Logger) *Dispatcher {
	if metrics == nil {
		metrics = core.NopMetrics{}
	}
	return &Dispatcher{
		config:   config,
		detect:   func() string { return runtime.GOOS },
		runner:   execRunner{},
		bus:      sessionBus{},
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// PlatformID returns the configured platform override or the detected one.
func (d *Dispatcher) PlatformID() string {
	if d.config.Platform != "" {
		return d.config.Platform
	}
	return d.detect()
}

// PlayHref starts playback of href without waiting for the result. Command
// failures are logged and counted, never returned.
func (d *Dispatcher) PlayHref(_ context.Context, href string) {
	id := d.PlatformID()
	kind := Classify(id)

	switch kind {
	case KindDarwin:
		d.start(kind, OsascriptCommand, appleScriptArgs(d.config.App, href)...)
	case KindLinux:
		// Opening a URI while the player is already playing can resume the old
		// track instead, so pause first.
		d.send(kind, "Pause")
		d.send(kind, "OpenUri", href)
	case KindWindows:
		d.start(kind, Rundll32Command, URLHandlerEntry, href)
	default:
		notice := (&core.UnsupportedPlatformError{Platform: id}).Error()
		d.logger.Warn("No playback mechanism for platform",
			zap.String("platform", id),
			zap.String("href", href))
		d.notifier.Notify(notice)
		d.metrics.RecordDispatch(id, core.DispatchStatusUnsupported)
		return
	}

	d.logger.Debug("Playback dispatched",
		zap.String("platform", kind.String()),
		zap.String("href", href))
	d.metrics.RecordDispatch(kind.String(), core.DispatchStatusSent)
}

func (d *Dispatcher) start(kind Kind, name string, args ...string) {
	wait, err := d.runner.Start(name, args...)
	if err != nil {
		d.commandFailed(kind, name, err)
		return
	}
	go func() {
		if waitErr := wait(); waitErr != nil {
			d.commandFailed(kind, name, waitErr)
		}
	}()
}

func (d *Dispatcher) send(kind Kind, method string, args ...any) {
	err := d.bus.Send(d.config.MPRISBusName, MPRISObjectPath, MPRISPlayerInterface+"."+method, args...)
	if err != nil {
		d.commandFailed(kind, method, err)
	}
}

func (d *Dispatcher) commandFailed(kind Kind, command string, err error) {
	d.logger.Warn("Playback command failed",
		zap.String("platform", kind.String()),
		zap.String("command", command),
		zap.Error(err))
	d.metrics.RecordCommandFailure(kind.String())
}

// appleScriptArgs builds osascript arguments. The href travels as a script
// argument so it is never parsed as AppleScript.
func appleScriptArgs(app, href string) []string {
	return []string{
		"-e", "on run argv",
		"-e", "tell application " + appleScriptString(app) + " to play track (item 1 of argv)",
		"-e", "end run",
		href,
	}
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
