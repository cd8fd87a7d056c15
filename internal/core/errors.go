package core

import (
	"fmt"
)

// NetworkError reports a failed catalog round-trip: transport, DNS, timeout,
// an unreadable body or a non-success HTTP status.
type NetworkError struct {
	Op         string
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *NetworkError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: unexpected status %d", e.Op, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// MalformedResponseError reports a catalog response that does not have the
// expected shape.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed catalog response: %s: %v", e.Reason, e.Err)
	}
	return "malformed catalog response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// UnsupportedPlatformError names a platform with no playback mechanism. It is
// delivered as a notice, never returned from playback calls.
type UnsupportedPlatformError struct {
	Platform string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("playback is not supported on platform %q", e.Platform)
}
