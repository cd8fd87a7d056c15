// Package platform starts playback of catalog hrefs through whatever media
// control mechanism the running operating system offers.
package platform

import (
	"strings"
)

// Operating system identifiers, as reported by runtime.GOOS
const (
	OSDarwin    = "darwin"
	OSLinux     = "linux"
	OSWindows   = "windows"
	OSFreeBSD   = "freebsd"
	OSOpenBSD   = "openbsd"
	OSNetBSD    = "netbsd"
	OSDragonfly = "dragonfly"
)

// Kind is the playback mechanism family of a platform.
type Kind int

const (
	// KindOther has no playback mechanism
	KindOther Kind = iota
	// KindDarwin drives the player through the AppleScript bridge
	KindDarwin
	// KindLinux drives the player over the MPRIS session bus
	KindLinux
	// KindWindows hands hrefs to the default protocol handler
	KindWindows
)

func (k Kind) String() string {
	switch k {
	case KindDarwin:
		return "darwin"
	case KindLinux:
		return "linux"
	case KindWindows:
		return "windows"
	default:
		return "other"
	}
}

// Classify maps a platform identifier onto its Kind. Unknown identifiers are
// KindOther.
func Classify(id string) Kind {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case OSDarwin, "macos":
		return KindDarwin
	case OSLinux, OSFreeBSD, OSOpenBSD, OSNetBSD, OSDragonfly:
		return KindLinux
	case OSWindows:
		return KindWindows
	default:
		return KindOther
	}
}
