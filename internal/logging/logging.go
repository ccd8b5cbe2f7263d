// Package logging installs the process-wide tint handler.
package logging

import (
	"fmt"
	"io"
	log "log/slog"
	"time"

	"github.com/lmittmann/tint"
)

var levels = map[string]log.Level{
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

func ParseLevel(s string) (log.Level, error) {
	l, ok := levels[s]
	if !ok {
		return log.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// Setup makes a tint logger writing to w the default one.
func Setup(w io.Writer, level log.Level) *log.Logger {
	l := log.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
	}))
	log.SetDefault(l)
	return l
}
