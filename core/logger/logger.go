package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorBlue   = "\033[34m"
	colorPurple = "\033[35m"
	colorGray   = "\033[90m"
	colorWhite  = "\033[37m"
)

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l LogLevel) color() string {
	switch l {
	case DEBUG:
		return colorGray
	case INFO:
		return colorBlue
	case WARN:
		return colorYellow
	case ERROR:
		return colorRed
	case FATAL:
		return colorPurple
	default:
		return colorWhite
	}
}

type leveledLogger struct {
	verbose bool
	mu      sync.RWMutex
	loggers map[LogLevel]*log.Logger
}

var global *leveledLogger

func init() {
	global = &leveledLogger{loggers: make(map[LogLevel]*log.Logger)}
	for level := DEBUG; level <= FATAL; level++ {
		global.loggers[level] = log.New(os.Stdout, "", 0)
	}
}

// SetVerbose enables or disables DEBUG output.
func SetVerbose(verbose bool) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.verbose = verbose
}

// IsVerbose reports whether DEBUG output is enabled.
func IsVerbose() bool {
	global.mu.RLock()
	defer global.mu.RUnlock()
	return global.verbose
}

// SetWriter redirects one level's output.
func SetWriter(level LogLevel, w io.Writer) {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.loggers[level] = log.New(w, "", 0)
}

// SetWriterForAll redirects every level's output, e.g. to a log file.
func SetWriterForAll(w io.Writer) {
	global.mu.Lock()
	defer global.mu.Unlock()
	for level := DEBUG; level <= FATAL; level++ {
		global.loggers[level] = log.New(w, "", 0)
	}
}

// SetErrorWriter routes ERROR and FATAL to stderr.
func SetErrorWriter() {
	SetWriter(ERROR, os.Stderr)
	SetWriter(FATAL, os.Stderr)
}

func (ll *leveledLogger) log(level LogLevel, format string, args ...interface{}) {
	ll.mu.RLock()
	if level == DEBUG && !ll.verbose {
		ll.mu.RUnlock()
		return
	}
	out := ll.loggers[level]
	ll.mu.RUnlock()

	timestamp := time.Now().Format("06-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)
	out.Printf("%s[%s]%s %s%-5s%s %s",
		colorGray, timestamp, colorReset,
		level.color(), level.String(), colorReset,
		message)

	if level == FATAL {
		os.Exit(1)
	}
}

func Debug(format string, args ...interface{}) {
	global.log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	global.log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	global.log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	global.log(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	global.log(FATAL, format, args...)
}
