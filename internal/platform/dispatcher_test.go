package platform

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"go.uber.org/zap"

	"spotpick/internal/core"
)

type startedCommand struct {
	name string
	args []string
}

type fakeRunner struct {
	mu       sync.Mutex
	started  []startedCommand
	startErr error
	waitErr  error
	waited   chan struct{}
}

func (f *fakeRunner) Start(name string, args ...string) (func() error, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, startedCommand{name: name, args: args})
	if f.startErr != nil {
		return nil, f.startErr
	}
	return func() error {
		if f.waited != nil {
			defer close(f.waited)
		}
		return f.waitErr
	}, nil
}

type busCall struct {
	dest   string
	path   dbus.ObjectPath
	method string
	args   []any
}

type fakeBus struct {
	calls []busCall
	err   error
}

func (f *fakeBus) Send(dest string, path dbus.ObjectPath, method string, args ...any) error {
	f.calls = append(f.calls, busCall{dest: dest, path: path, method: method, args: args})
	return f.err
}

type fakeMetrics struct {
	mu         sync.Mutex
	dispatches []string
	failures   []string
}

func (f *fakeMetrics) RecordSearch(string, time.Duration) {}

func (f *fakeMetrics) RecordDispatch(platform, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatches = append(f.dispatches, platform+":"+status)
}

func (f *fakeMetrics) RecordCommandFailure(platform string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures = append(f.failures, platform)
}

func (f *fakeMetrics) failureCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.failures)
}

type testDispatcher struct {
	*Dispatcher
	runner  *fakeRunner
	bus     *fakeBus
	notices []string
	metrics *fakeMetrics
}

func newTestDispatcher(goos string) *testDispatcher {
	td := &testDispatcher{
		runner:  &fakeRunner{},
		bus:     &fakeBus{},
		metrics: &fakeMetrics{},
	}
	config := &core.PlayerConfig{App: "Spotify", MPRISBusName: "org.mpris.MediaPlayer2.spotify"}
	notifier := NotifierFunc(func(msg string) { td.notices = append(td.notices, msg) })

	td.Dispatcher = NewDispatcher(config, notifier, td.metrics, zap.NewNop())
	td.detect = func() string { return goos }
	td.Dispatcher.runner = td.runner
	td.Dispatcher.bus = td.bus
	return td
}

func TestPlayHrefDarwin(t *testing.T) {
	d := newTestDispatcher("darwin")

	d.PlayHref(context.Background(), "spotify:track:abc")

	if len(d.runner.started) != 1 {
		t.Fatalf("Expected one command, got %d", len(d.runner.started))
	}
	cmd := d.runner.started[0]
	if cmd.name != OsascriptCommand {
		t.Errorf("Command = %q, expected osascript", cmd.name)
	}
	if cmd.args[len(cmd.args)-1] != "spotify:track:abc" {
		t.Errorf("href must be the last argument, got %v", cmd.args)
	}
	script := strings.Join(cmd.args[:len(cmd.args)-1], " ")
	if !strings.Contains(script, `tell application "Spotify" to play track (item 1 of argv)`) {
		t.Errorf("Unexpected script %q", script)
	}
	if strings.Contains(script, "spotify:track:abc") {
		t.Errorf("href must not be embedded in the script: %q", script)
	}
	if len(d.bus.calls) != 0 || len(d.notices) != 0 {
		t.Errorf("Unexpected bus calls %v or notices %v", d.bus.calls, d.notices)
	}
	if len(d.metrics.dispatches) != 1 || d.metrics.dispatches[0] != "darwin:sent" {
		t.Errorf("Dispatch metrics = %v", d.metrics.dispatches)
	}
}

func TestPlayHrefLinux(t *testing.T) {
	d := newTestDispatcher("linux")

	d.PlayHref(context.Background(), "spotify:album:def")

	if len(d.bus.calls) != 2 {
		t.Fatalf("Expected two bus calls, got %d", len(d.bus.calls))
	}

	pause, open := d.bus.calls[0], d.bus.calls[1]
	if pause.method != "org.mpris.MediaPlayer2.Player.Pause" || len(pause.args) != 0 {
		t.Errorf("First call = %s %v, expected Pause", pause.method, pause.args)
	}
	if open.method != "org.mpris.MediaPlayer2.Player.OpenUri" {
		t.Errorf("Second call = %s, expected OpenUri", open.method)
	}
	if len(open.args) != 1 {
		t.Fatalf("OpenUri args = %v", open.args)
	}
	if href, ok := open.args[0].(string); !ok || href != "spotify:album:def" {
		t.Errorf("OpenUri arg = %#v, expected string href", open.args[0])
	}
	for _, c := range d.bus.calls {
		if c.dest != "org.mpris.MediaPlayer2.spotify" || c.path != MPRISObjectPath {
			t.Errorf("Call sent to %s %s", c.dest, c.path)
		}
	}
	if len(d.runner.started) != 0 {
		t.Errorf("No commands expected on linux, got %v", d.runner.started)
	}
}

func TestPlayHrefLinuxBusFailureIsSwallowed(t *testing.T) {
	d := newTestDispatcher("freebsd")
	d.bus.err = errors.New("no session bus")

	d.PlayHref(context.Background(), "spotify:track:abc")

	if len(d.bus.calls) != 2 {
		t.Errorf("OpenUri must still be attempted after a failed Pause, got %d calls", len(d.bus.calls))
	}
	if d.metrics.failureCount() != 2 {
		t.Errorf("Expected 2 recorded failures, got %d", d.metrics.failureCount())
	}
	if len(d.notices) != 0 {
		t.Errorf("Bus failures must not produce notices: %v", d.notices)
	}
}

func TestPlayHrefWindows(t *testing.T) {
	d := newTestDispatcher("windows")

	d.PlayHref(context.Background(), "spotify:track:abc")

	if len(d.runner.started) != 1 {
		t.Fatalf("Expected one command, got %d", len(d.runner.started))
	}
	cmd := d.runner.started[0]
	if cmd.name != Rundll32Command {
		t.Errorf("Command = %q", cmd.name)
	}
	if len(cmd.args) != 2 || cmd.args[0] != URLHandlerEntry || cmd.args[1] != "spotify:track:abc" {
		t.Errorf("Args = %v", cmd.args)
	}
}

func TestPlayHrefUnsupportedPlatform(t *testing.T) {
	d := newTestDispatcher("plan9")

	d.PlayHref(context.Background(), "spotify:track:abc")

	if len(d.runner.started) != 0 || len(d.bus.calls) != 0 {
		t.Fatalf("No command may run on an unsupported platform: %v %v", d.runner.started, d.bus.calls)
	}
	if len(d.notices) != 1 {
		t.Fatalf("Expected one notice, got %v", d.notices)
	}
	if !strings.Contains(d.notices[0], "plan9") {
		t.Errorf("Notice %q does not name the platform", d.notices[0])
	}
	if len(d.metrics.dispatches) != 1 || d.metrics.dispatches[0] != "plan9:unsupported" {
		t.Errorf("Dispatch metrics = %v", d.metrics.dispatches)
	}
}

func TestPlayHrefEmptyHref(t *testing.T) {
	for _, goos := range []string{"darwin", "linux", "windows", "js"} {
		t.Run(goos, func(t *testing.T) {
			d := newTestDispatcher(goos)
			d.PlayHref(context.Background(), "")
		})
	}
}

func TestPlayHrefStartFailure(t *testing.T) {
	d := newTestDispatcher("windows")
	d.runner.startErr = errors.New("executable not found")

	d.PlayHref(context.Background(), "spotify:track:abc")

	if d.metrics.failureCount() != 1 {
		t.Errorf("Expected 1 recorded failure, got %d", d.metrics.failureCount())
	}
}

func TestPlayHrefExitFailureReportedAsync(t *testing.T) {
	d := newTestDispatcher("darwin")
	d.runner.waitErr = errors.New("exit status 1")
	d.runner.waited = make(chan struct{})

	d.PlayHref(context.Background(), "spotify:track:abc")

	select {
	case <-d.runner.waited:
	case <-time.After(time.Second):
		t.Fatal("command was never reaped")
	}

	deadline := time.Now().Add(time.Second)
	for d.metrics.failureCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if d.metrics.failureCount() != 1 {
		t.Errorf("Expected exit failure to be recorded, got %d", d.metrics.failureCount())
	}
}

func TestPlatformOverride(t *testing.T) {
	d := newTestDispatcher("darwin")
	d.config.Platform = "windows"

	if got := d.PlatformID(); got != "windows" {
		t.Errorf("PlatformID() = %q, expected override", got)
	}

	d.PlayHref(context.Background(), "spotify:track:abc")
	if len(d.runner.started) != 1 || d.runner.started[0].name != Rundll32Command {
		t.Errorf("Override not honored: %v", d.runner.started)
	}
}

func TestPlatformReadOnEveryCall(t *testing.T) {
	d := newTestDispatcher("darwin")
	current := "darwin"
	d.detect = func() string { return current }

	d.PlayHref(context.Background(), "a")
	current = "haiku"
	d.PlayHref(context.Background(), "b")

	if len(d.runner.started) != 1 {
		t.Errorf("Expected one osascript run, got %d", len(d.runner.started))
	}
	if len(d.notices) != 1 {
		t.Errorf("Expected the platform change to be honored, notices = %v", d.notices)
	}
}

func TestAppleScriptString(t *testing.T) {
	got := appleScriptString(`My "Player" \ 2`)
	expected := `"My \"Player\" \\ 2"`
	if got != expected {
		t.Errorf("appleScriptString() = %s, expected %s", got, expected)
	}
}
