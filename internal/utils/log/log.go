// Package log builds the slog loggers used by kuzukago on top of
// charmbracelet/log.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/babarot/kuzukago/internal/config"
	charmlog "github.com/charmbracelet/log"
)

type (
	Level     = charmlog.Level
	Formatter = charmlog.Formatter
)

const (
	DebugLevel = charmlog.DebugLevel
	InfoLevel  = charmlog.InfoLevel
	WarnLevel  = charmlog.WarnLevel
	ErrorLevel = charmlog.ErrorLevel
	FatalLevel = charmlog.FatalLevel
)

const (
	TextFormatter   = charmlog.TextFormatter
	JSONFormatter   = charmlog.JSONFormatter
	LogfmtFormatter = charmlog.LogfmtFormatter
)

// ParseLevel converts a level name such as "debug" to a Level
var ParseLevel = charmlog.ParseLevel

type options struct {
	charmlog.Options
	w         io.Writer
	asDefault bool
}

type Option func(*options)

func UseLevel(l Level) Option            { return func(o *options) { o.Level = l } }
func UseOutput(w io.Writer) Option       { return func(o *options) { o.w = w } }
func UseFormatter(f Formatter) Option    { return func(o *options) { o.Formatter = f } }
func UsePrefix(prefix string) Option     { return func(o *options) { o.Prefix = prefix } }
func UseReportCaller(b bool) Option      { return func(o *options) { o.ReportCaller = b } }
func UseReportTimestamp(b bool) Option   { return func(o *options) { o.ReportTimestamp = b } }
func UseTimeFormat(layout string) Option { return func(o *options) { o.TimeFormat = layout } }

// AsDefault also installs the logger as the slog and charmbracelet default
func AsDefault() Option { return func(o *options) { o.asDefault = true } }

var (
	stylesOnce sync.Once
	styles     *charmlog.Styles
)

func levelStyles() *charmlog.Styles {
	stylesOnce.Do(func() {
		styles = newStyles()
	})
	return styles
}

// New returns a slog.Logger writing through a charmbracelet handler.
// The default output is stderr at info level.
func New(opts ...Option) *slog.Logger {
	o := options{
		Options: charmlog.Options{Level: InfoLevel},
		w:       os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}

	handler := charmlog.NewWithOptions(o.w, o.Options)
	handler.SetStyles(levelStyles())

	logger := slog.New(handler)
	if o.asDefault {
		charmlog.SetDefault(handler)
		slog.SetDefault(logger)
	}
	return logger
}

// Setup builds the process logger from cfg and installs it as the default.
// Logs go to a rotated file at path when logging is enabled and are discarded
// otherwise, so the terminal only shows command output. Every record carries
// runID. The returned func closes the log file.
func Setup(cfg config.LoggingConfig, path, runID string) (*slog.Logger, func()) {
	var (
		w       io.Writer = io.Discard
		closeFn           = func() {}
	)
	if cfg.Enabled {
		rw, err := NewRotateWriter(path, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "kuzukago: cannot open log file: %v\n", err)
		} else {
			w = rw
			closeFn = func() { rw.Close() }
		}
	}

	level := InfoLevel
	if l, err := ParseLevel(cfg.Level); err == nil {
		level = l
	}

	logger := New(
		UseOutput(w),
		UseLevel(level),
		UseReportCaller(true),
		UseReportTimestamp(true),
		UseTimeFormat(time.DateTime),
		UseFormatter(TextFormatter),
	).With("run_id", runID)
	slog.SetDefault(logger)

	return logger, closeFn
}
