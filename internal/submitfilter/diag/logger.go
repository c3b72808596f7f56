// Package diag emits the filter's diagnostics.
//
// Errors are always emitted, prefixed with the component name, and are what the submitter
// gets to see. Debug messages are only emitted while the debug predicate is true.
package diag

import (
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Prefix is prepended to every error message.
const Prefix = "submitfilter: "

type Logger interface {
	Error(msg string)
	Debug(msg string)
}

// Debugf formats and emits a debug message.
func Debugf(l Logger, format string, args ...any) {
	l.Debug(fmt.Sprintf(format, args...))
}

// LogrusLogger writes diagnostics to a logrus entry.
type LogrusLogger struct {
	entry *log.Entry
	mu    sync.RWMutex
	debug func() bool
}

// NewLogrus returns a Logger writing to entry. A nil predicate falls back to the
// entry's own level.
func NewLogrus(entry *log.Entry, debugEnabled func() bool) *LogrusLogger {
	l := &LogrusLogger{entry: entry}
	l.SetDebugPredicate(debugEnabled)
	return l
}

// SetDebugPredicate replaces the check that decides whether debug messages are emitted.
func (l *LogrusLogger) SetDebugPredicate(debugEnabled func() bool) {
	if debugEnabled == nil {
		debugEnabled = func() bool { return l.entry.Logger.IsLevelEnabled(log.DebugLevel) }
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = debugEnabled
}

func (l *LogrusLogger) debugEnabled() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.debug()
}

func (l *LogrusLogger) Error(msg string) {
	l.entry.Error(Prefix + msg)
}

func (l *LogrusLogger) Debug(msg string) {
	if !l.debugEnabled() {
		return
	}
	l.entry.Debug(msg)
}
