// ABOUTME: Leveled logging with verbosity control over the stdlib logger
// ABOUTME: Debug output is suppressed unless verbose mode is enabled

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"
)

var verbose atomic.Bool

// SetVerbose enables or disables DEBUG output.
func SetVerbose(v bool) {
	verbose.Store(v)
}

// SetOutput redirects all log output; nil restores stderr. The TUI uses this
// to keep log lines off the alternate screen.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	log.SetOutput(w)
}

// Debug logs at DEBUG level (only shown when verbose)
func Debug(format string, args ...any) {
	if verbose.Load() {
		log.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
	}
}

// Info logs at INFO level
func Info(format string, args ...any) {
	log.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs at WARN level
func Warn(format string, args ...any) {
	log.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs at ERROR level
func Error(format string, args ...any) {
	log.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// Fatal logs at ERROR level and exits.
func Fatal(format string, args ...any) {
	log.Printf("[FATAL] %s", fmt.Sprintf(format, args...))
	os.Exit(1)
}
