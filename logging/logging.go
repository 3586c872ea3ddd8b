// Package logging provides the engine's single zerolog logger. The default
// level is disabled so that embedding an engine instance in an interactive
// tool produces no output unless a host opts in with SetLevel.
package logging

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu  sync.RWMutex
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger().
		Level(zerolog.Disabled)
)

// Logger returns the engine's shared logger.
func Logger() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// SetLevel changes the minimum level emitted by Logger. Hosts embedding the
// engine call this once at startup; library code never mutates it.
func SetLevel(level zerolog.Level) {
	mu.Lock()
	defer mu.Unlock()
	log = log.Level(level)
}
