package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	mu      sync.Mutex
	file    *os.File
	logger  *logrus.Logger
	enabled bool
)

// DefaultPath is where logs go when Enable is given an empty path
const DefaultPath = "~/.config/go-stepgrid/debug.log"

// Enable starts debug logging to path (truncated)
func Enable(path string) error {
	if path == "" {
		path = DefaultPath
	}
	path, err := homedir.Expand(path)
	if err != nil {
		return errors.Wrap(err, "expand log path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "create log dir")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrap(err, "open log")
	}

	mu.Lock()
	if file != nil {
		file.Close()
	}
	file = f
	mu.Unlock()

	EnableWriter(f)
	return nil
}

// EnableWriter starts debug logging to w
func EnableWriter(w io.Writer) {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    true,
		FullTimestamp:    true,
		TimestampFormat:  "15:04:05.000",
		PadLevelText:     true,
		QuoteEmptyFields: true,
	})

	mu.Lock()
	logger = l
	enabled = true
	mu.Unlock()

	Log("debug", "=== Debug logging started ===")
}

// Disable stops debug logging
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if file != nil {
		file.Close()
		file = nil
	}
	logger = nil
	enabled = false
}

// Enabled reports whether logging is on
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return enabled
}

// Log writes a message to the debug log
func Log(category, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logger == nil {
		return
	}
	logger.WithField("category", category).Debug(fmt.Sprintf(format, args...))
}

// Error logs err with its category at error level
func Error(category string, err error) {
	mu.Lock()
	defer mu.Unlock()

	if !enabled || logger == nil || err == nil {
		return
	}
	logger.WithField("category", category).WithError(err).Error(errors.Cause(err).Error())
}

// LogEvery logs only every N calls (use for high-frequency events)
var counters = make(map[string]int)

func LogEvery(n int, category, format string, args ...any) {
	mu.Lock()
	key := category + format
	counters[key]++
	count := counters[key]
	mu.Unlock()

	if n > 0 && count%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, count)...)
	}
}
