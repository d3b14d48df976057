// Package switchererr defines the closed set of error kinds produced
// by the discovery, remote and protocol packages.
package switchererr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotSwitcherOrigin is returned when a UDP datagram's magic
	// bytes or length do not match any known Switcher broadcast shape.
	ErrNotSwitcherOrigin = errors.New("datagram did not originate from a switcher device")

	// ErrUnknownModel is returned when a datagram's model code does
	// not resolve to any known device type.
	ErrUnknownModel = errors.New("unknown switcher device model")

	// ErrLoginFailed is returned when the login response is missing,
	// empty, or malformed.
	ErrLoginFailed = errors.New("login request was not successful")

	// ErrTimeout is returned when a connect or read exceeds its deadline.
	ErrTimeout = errors.New("switcher request timed out")

	// ErrUnknownRemote is returned by remote.Manager.GetRemote for an
	// unregistered remote_id.
	ErrUnknownRemote = errors.New("unknown breeze remote id")

	// ErrSwingNotApplicable's concrete form is SwingNotApplicableError;
	// kept here as a sentinel for errors.Is against the family.
	ErrSwingNotApplicable = errors.New("swing command does not apply to this remote")

	// ErrInvalidRemoteDefinition is returned when a remote database
	// entry cannot be parsed into a valid remote.Remote.
	ErrInvalidRemoteDefinition = errors.New("invalid remote definition")

	// ErrNotFound is returned when an explicit remote database path
	// does not exist.
	ErrNotFound = errors.New("remote database path not found")

	// ErrTransportClosed is returned when the peer closes the
	// connection mid-session (an empty read).
	ErrTransportClosed = errors.New("transport closed unexpectedly")

	// ErrAlreadyRunning is returned by Bridge.Start when called twice
	// without an intervening Stop.
	ErrAlreadyRunning = errors.New("bridge already running")
)

// RequestFailedError reports that the response to a specific TCP
// operation was missing or malformed.
type RequestFailedError struct {
	Op string
}

func (e *RequestFailedError) Error() string {
	return fmt.Sprintf("%s request was not successful", e.Op)
}

func (e *RequestFailedError) Is(target error) bool {
	return target == ErrTransportClosed
}

// InvalidArgumentError reports a caller-supplied value outside its
// valid domain (auto-shutdown duration, device name length, shutter
// position, schedule slot, ...).
type InvalidArgumentError struct {
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Reason)
}

// UnsupportedModeError reports that a requested thermostat mode is not
// in a remote's supported mode list.
type UnsupportedModeError struct {
	Mode      string
	Available []string
}

func (e *UnsupportedModeError) Error() string {
	return fmt.Sprintf("invalid mode %q, available modes for this device are: %s",
		e.Mode, strings.Join(e.Available, ", "))
}

// SwingNotApplicableError reports that a remote has no independent
// swing command.
type SwingNotApplicableError struct {
	RemoteID string
}

func (e *SwingNotApplicableError) Error() string {
	return fmt.Sprintf("swing special function doesn't apply on this remote %s", e.RemoteID)
}

func (e *SwingNotApplicableError) Is(target error) bool {
	return target == ErrSwingNotApplicable
}
