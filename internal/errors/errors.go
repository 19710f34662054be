// Package errors provides domain-specific error types for stickman.
//
// Network failures are classified into a small taxonomy (refused,
// timeout, disconnect) so callers can decide between retrying, asking
// the operator, or ending the match without string matching.
package errors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"syscall"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	// ErrConnectionRefused means the peer is not listening yet.
	ErrConnectionRefused = errors.New("connection refused")
	// ErrTimeout means no message arrived within the allotted window.
	ErrTimeout = errors.New("operation timed out")
	// ErrDisconnect means the peer went away in the middle of an exchange.
	ErrDisconnect = errors.New("peer disconnected")
	// ErrInvalidInput is a locally recoverable input problem (empty guess,
	// non-ASCII text).
	ErrInvalidInput = errors.New("invalid input")

	ErrHandshakeFailed = errors.New("handshake failed")
	ErrRoundOver       = errors.New("round is over")
	ErrNotConnected    = errors.New("not connected")
)

// ── Structured error types ───────────────────────────────────────────

// NetworkError represents a failure in a network operation.
type NetworkError struct {
	Op        string // "dial", "accept", "read", "write", "listen"
	Addr      string // network address involved
	Err       error  // underlying error
	Kind      error  // ErrConnectionRefused, ErrTimeout, ErrDisconnect or nil
	Retryable bool   // whether the caller should retry
}

func (e *NetworkError) Error() string {
	s := fmt.Sprintf("%s %s: %v", e.Op, e.Addr, e.Err)
	if e.Retryable {
		s += " (retryable)"
	}
	return s
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is matches the error's classified kind, so errors.Is(err, ErrTimeout)
// works regardless of how the stdlib reported the timeout.
func (e *NetworkError) Is(target error) bool {
	return e.Kind != nil && target == e.Kind
}

// SSHError represents an SSH-specific failure with host context.
type SSHError struct {
	Op   string // "handshake", "auth", "hostkey", "dial"
	Host string
	Port int
	Err  error
}

func (e *SSHError) Error() string {
	return fmt.Sprintf("ssh %s %s:%d: %v", e.Op, e.Host, e.Port, e.Err)
}

func (e *SSHError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // flag name
	Value   interface{} // the invalid value (nil if missing)
	Message string
	Hint    string // optional suggestion
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a NetworkError and classifies the underlying error.
func Wrap(op, addr string, err error) *NetworkError {
	kind := Classify(err)
	return &NetworkError{
		Op:        op,
		Addr:      addr,
		Err:       err,
		Kind:      kind,
		Retryable: kind == ErrConnectionRefused,
	}
}

// WrapSSH creates an SSHError.
func WrapSSH(op, host string, port int, err error) *SSHError {
	return &SSHError{Op: op, Host: host, Port: port, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// Classify maps a stdlib network error onto the taxonomy.  It returns
// nil when the error fits none of the kinds.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{ErrConnectionRefused, ErrTimeout, ErrDisconnect} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ErrConnectionRefused
	}
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, net.ErrClosed) {
		return ErrDisconnect
	}
	return nil
}

// IsRefused reports whether the peer refused the connection.
func IsRefused(err error) bool { return Classify(err) == ErrConnectionRefused }

// IsTimeout reports whether err is a timeout.
func IsTimeout(err error) bool { return Classify(err) == ErrTimeout }

// IsDisconnect reports whether the peer went away mid-exchange.
func IsDisconnect(err error) bool { return Classify(err) == ErrDisconnect }

// IsNetwork reports whether err belongs to any network kind.  These end
// a match in progress.
func IsNetwork(err error) bool { return Classify(err) != nil }

// IsRetryable reports whether err is worth retrying.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.Retryable
	}
	return Classify(err) == ErrConnectionRefused
}

// ── Re-exports for convenience ───────────────────────────────────────

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
