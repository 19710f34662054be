// Package util provides low-level helpers shared by all other packages.
package util

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// LogLevel is how much of the link's chatter reaches stderr.  It is
// the number of -v flags given.
type LogLevel int

const (
	LogQuiet   LogLevel = iota // errors only
	LogNormal                  // -v: warnings and notices
	LogVerbose                 // -vv: connection lifecycle
	LogDebug                   // -vvv: every message, with timestamps
)

// Logger writes levelled diagnostics.  Game text never goes through
// the logger; it is for the operator debugging a link.
type Logger struct {
	level      LogLevel
	out        io.Writer
	mu         *sync.Mutex // shared with Named children
	timestamps bool
	prefix     string
}

// NewLogger returns a stderr logger for the given verbosity.
// Timestamps are on from LogDebug.
func NewLogger(verbosity int) *Logger {
	lvl := LogLevel(verbosity)
	return &Logger{
		level:      lvl,
		out:        os.Stderr,
		mu:         new(sync.Mutex),
		timestamps: lvl >= LogDebug,
	}
}

// Named returns a child whose lines carry name, after any name the
// parent already has.  The child shares level, output and lock with
// its parent at the time of the call.
func (l *Logger) Named(name string) *Logger {
	child := *l
	if l.prefix != "" {
		child.prefix = l.prefix + "/" + name
	} else {
		child.prefix = name
	}
	return &child
}

// SetTimestamps turns the time prefix on or off.
func (l *Logger) SetTimestamps(on bool) { l.timestamps = on }

// SetOutput redirects the logger (default os.Stderr).
func (l *Logger) SetOutput(w io.Writer) { l.out = w }

// Error prints at every verbosity.
func (l *Logger) Error(format string, args ...interface{}) {
	l.logf(LogQuiet, "ERR", format, args...)
}

// Warn prints from LogNormal.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.logf(LogNormal, "WRN", format, args...)
}

// Info prints from LogNormal.
func (l *Logger) Info(format string, args ...interface{}) {
	l.logf(LogNormal, "INF", format, args...)
}

// Verbose prints from LogVerbose.
func (l *Logger) Verbose(format string, args ...interface{}) {
	l.logf(LogVerbose, "VRB", format, args...)
}

// Debug prints from LogDebug.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.logf(LogDebug, "DBG", format, args...)
}

func (l *Logger) logf(min LogLevel, tag, format string, args ...interface{}) {
	if l.level < min {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.prefix != "" {
		msg = l.prefix + ": " + msg
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.timestamps {
		fmt.Fprintf(l.out, "%s [%s] %s\n", time.Now().Format("15:04:05.000"), tag, msg)
		return
	}
	fmt.Fprintf(l.out, "[%s] %s\n", tag, msg)
}
