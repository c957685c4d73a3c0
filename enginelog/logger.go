// Package enginelog exposes the process-wide structured logger used
// throughout the engine in place of ad hoc fmt.Printf trace lines.
package enginelog

import (
	"os"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
)

// Logger returns the currently configured logger. Safe for concurrent use.
func Logger() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return &logger
}

// SetLogger replaces the process-wide logger. Callers embedding the engine
// as a library component can point it at their own sink/level instead of
// the default console writer.
func SetLogger(l zerolog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}
