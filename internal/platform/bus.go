package platform

import (
	"github.com/godbus/dbus/v5"
)

// Bus sends method calls on the session bus without waiting for replies.
type Bus interface {
	Send(dest string, path dbus.ObjectPath, method string, args ...any) error
}

// sessionBus uses the shared session bus connection. Calls are sent with
// FlagNoReplyExpected, so only send errors are reported.
type sessionBus struct{}

func (sessionBus) Send(dest string, path dbus.ObjectPath, method string, args ...any) error {
	conn, err := dbus.SessionBus()
	if err != nil {
		return err
	}
	call := conn.Object(dest, path).Go(method, dbus.FlagNoReplyExpected, nil, args...)
	return call.Err
}
