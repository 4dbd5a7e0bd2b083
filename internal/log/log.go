package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a console logger writing to w.
//
// Verbose loggers emit debug events. Others start at info. Color is only
// used when w is a terminal file and NO_COLOR is unset.
func New(w io.Writer, verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	out := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !colorEnabled(w),
		TimeFormat: time.TimeOnly,
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// RestyLogger adapts a zerolog.Logger to resty's Logger interface.
//
// Resty's own error and warning chatter is demoted to debug: the HTTP
// client already returns those failures as errors.
type RestyLogger struct {
	Logger zerolog.Logger
}

// NewRestyLogger wraps logger for use as a resty logger.
func NewRestyLogger(logger zerolog.Logger) *RestyLogger {
	return &RestyLogger{Logger: logger.With().Str("component", "http").Logger()}
}

// Errorf implements resty.Logger.
func (l *RestyLogger) Errorf(format string, v ...any) {
	l.Logger.Debug().Str("resty_level", "error").Msg(trim(format, v...))
}

// Warnf implements resty.Logger.
func (l *RestyLogger) Warnf(format string, v ...any) {
	l.Logger.Debug().Str("resty_level", "warn").Msg(trim(format, v...))
}

// Debugf implements resty.Logger.
func (l *RestyLogger) Debugf(format string, v ...any) {
	l.Logger.Debug().Msg(trim(format, v...))
}

func trim(format string, v ...any) string {
	s := fmt.Sprintf(format, v...)
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
