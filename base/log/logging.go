package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/tevino/abool"
)

// Severity describes a log level.
type Severity uint32

// Log Levels.
const (
	TraceLevel    Severity = 1
	DebugLevel    Severity = 2
	InfoLevel     Severity = 3
	WarningLevel  Severity = 4
	ErrorLevel    Severity = 5
	CriticalLevel Severity = 6
)

func (s Severity) toSLogLevel() slog.Level {
	// Convert to slog level.
	switch s {
	case TraceLevel:
		return slog.LevelDebug
	case DebugLevel:
		return slog.LevelDebug
	case InfoLevel:
		return slog.LevelInfo
	case WarningLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	case CriticalLevel:
		return slog.LevelError
	}
	// Failed to convert, return default log level
	return slog.LevelWarn
}

var (
	logLevelInt = uint32(WarningLevel)
	logLevel    = &logLevelInt

	logger atomic.Pointer[slog.Logger]

	started = abool.NewBool(false)
)

func init() {
	// Until Start is called, only warnings and above are written to stderr.
	logger.Store(slog.New(newHandler(os.Stderr)))
}

// GetLogLevel returns the current log level.
func GetLogLevel() Severity {
	return Severity(atomic.LoadUint32(logLevel))
}

// SetLogLevel sets a new log level.
func SetLogLevel(level Severity) {
	atomic.StoreUint32(logLevel, uint32(level))
}

// Name returns the name of the log level.
func (s Severity) Name() string {
	switch s {
	case TraceLevel:
		return "trace"
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarningLevel:
		return "warning"
	case ErrorLevel:
		return "error"
	case CriticalLevel:
		return "critical"
	default:
		return "none"
	}
}

// ParseLevel returns the level severity of a log level name.
func ParseLevel(level string) Severity {
	switch strings.ToLower(level) {
	case "trace":
		return 1
	case "debug":
		return 2
	case "info":
		return 3
	case "warning":
		return 4
	case "error":
		return 5
	case "critical":
		return 6
	}
	return 0
}

// Start starts the logging system with the given level, writing to w.
// If w is nil, logs are written to stderr. Only the first call has an effect.
func Start(level string, w io.Writer) error {
	if !started.SetToIf(false, true) {
		return nil
	}

	// Parse log level argument.
	initialLogLevel := InfoLevel
	if level != "" {
		initialLogLevel = ParseLevel(level)
		if initialLogLevel == 0 {
			fmt.Fprintf(os.Stderr, "log warning: invalid log level %q, falling back to level info\n", level)
			initialLogLevel = InfoLevel
		}
	}

	if w == nil {
		w = os.Stderr
	}
	logger.Store(slog.New(newHandler(w)))
	SetLogLevel(initialLogLevel)

	return nil
}

// IsStarted returns whether Start was called.
func IsStarted() bool {
	return started.IsSet()
}
