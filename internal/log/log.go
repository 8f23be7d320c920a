// Package log writes the diagnostics log. Every helper is a no-op until
// Init succeeds.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// EnvLogPath overrides the default log directory.
const EnvLogPath = "MORSESENDER_LOG_PATH"

const fileName = "diagnostics.log"

var (
	diagLog  zerolog.Logger
	diagFile *os.File
	logMu    sync.Mutex
	logReady bool
	dir      string
)

// ResolveDir picks the log directory: flag, then MORSESENDER_LOG_PATH, then
// the XDG state directory.
func ResolveDir(flagPath string) (string, error) {
	if flagPath != "" {
		return absolute(flagPath)
	}
	if envPath := os.Getenv(EnvLogPath); envPath != "" {
		return absolute(envPath)
	}
	return defaultDir(), nil
}

func absolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, path), nil
}

func defaultDir() string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return filepath.Join(v, "morsesender")
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(".", "morsesender-logs")
	}
	return filepath.Join(home, ".local", "state", "morsesender")
}

// SetDir sets the directory Init writes to.
func SetDir(d string) {
	dir = d
}

// Dir returns the configured directory.
func Dir() string {
	return dir
}

// Path returns the diagnostics file path.
func Path() string {
	return filepath.Join(dir, fileName)
}

// Init opens the diagnostics file in Dir.
func Init() error {
	logMu.Lock()
	defer logMu.Unlock()

	if dir == "" {
		return fmt.Errorf("log directory is not set")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(Path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	diagFile = f
	diagLog = newLogger(f)
	logReady = true
	return nil
}

// InitWriter logs to w instead of a file.
func InitWriter(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	diagLog = newLogger(w)
	logReady = true
}

func newLogger(w io.Writer) zerolog.Logger {
	consoleWriter := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05.000",
		NoColor:    true,
	}
	return zerolog.New(consoleWriter).With().Timestamp().Int("pid", os.Getpid()).Logger()
}

// Close flushes and closes the log file.
func Close() {
	logMu.Lock()
	defer logMu.Unlock()
	if diagFile != nil {
		if err := diagFile.Close(); err != nil {
			// Best-effort close of the diagnostics file.
			_ = err
		}
		diagFile = nil
	}
	logReady = false
}

func Info(msg string) {
	if logReady {
		diagLog.Info().Msg(msg)
	}
}

func Warn(msg string) {
	if logReady {
		diagLog.Warn().Msg(msg)
	}
}

func Warnf(format string, args ...any) {
	if logReady {
		diagLog.Warn().Msg(fmt.Sprintf(format, args...))
	}
}

func Errorf(format string, args ...any) {
	if logReady {
		diagLog.Error().Msg(fmt.Sprintf(format, args...))
	}
}

// SessionStart records the startup settings of a console run.
func SessionStart(version, driver, policy string, wpm int, calibration float64) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("version", version).
		Str("driver", driver).
		Str("policy", policy).
		Int("wpm", wpm).
		Float64("calibration", calibration).
		Msg("session_start")
}

// SessionEnd records how many messages were keyed.
func SessionEnd(count int) {
	if !logReady {
		return
	}
	diagLog.Info().Int("count", count).Msg("session_end")
}

// Transmission records one keyed message.
func Transmission(kind string, chars, wpm int, keyed, total time.Duration, completed bool) {
	if !logReady {
		return
	}
	diagLog.Info().
		Str("kind", kind).
		Int("chars", chars).
		Int("wpm", wpm).
		Dur("keyed", keyed).
		Dur("total", total).
		Bool("completed", completed).
		Msg("transmission")
}

// ModeStopped records the end of a calibration or tone mode.
func ModeStopped(mode string, ran time.Duration) {
	if !logReady {
		return
	}
	diagLog.Info().Str("mode", mode).Dur("ran", ran).Msg("mode_stopped")
}

// KeyState records a line transition of a driver.
func KeyState(driver string, active bool) {
	if !logReady {
		return
	}
	diagLog.Debug().Str("driver", driver).Bool("active", active).Msg("key")
}
