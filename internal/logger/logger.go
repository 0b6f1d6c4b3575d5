// Package logger is the process-wide verbose log for busrag.
// Nothing is written unless --verbose is set; output goes to stderr through a
// zerolog console writer so index builds, retrieval and generation can be traced
// without polluting command output.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu      sync.Mutex
	verbose bool
	log     = newLogger(os.Stderr)
)

func newLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    true,
		PartsOrder: []string{zerolog.LevelFieldName, zerolog.MessageFieldName},
		FormatLevel: func(i any) string {
			s, ok := i.(string)
			if !ok {
				return ""
			}
			return "[" + strings.ToUpper(s) + "]"
		},
		FormatMessage: func(i any) string {
			if i == nil {
				return ""
			}
			return fmt.Sprint(i)
		},
	})
}

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose logging is on.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput redirects verbose logs. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	log = newLogger(w)
}

func emit(event func(*zerolog.Logger) *zerolog.Event, msg string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		event(&log).Msg(msg)
	}
}

// Debug logs a formatted debug line.
func Debug(format string, args ...any) {
	emit((*zerolog.Logger).Debug, fmt.Sprintf(format, args...))
}

// Section logs a pipeline stage header.
func Section(name string) {
	emit((*zerolog.Logger).Log, "\n=== "+name+" ===")
}

// Info logs a formatted informational line.
func Info(format string, args ...any) {
	emit((*zerolog.Logger).Info, fmt.Sprintf(format, args...))
}

// Warn logs a formatted warning.
func Warn(format string, args ...any) {
	emit((*zerolog.Logger).Warn, fmt.Sprintf(format, args...))
}
