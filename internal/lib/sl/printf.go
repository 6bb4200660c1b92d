package sl

import (
	"fmt"
	"log/slog"
	"strings"
)

// Printf feeds printf-style library loggers, such as resty's, into slog.
type Printf struct {
	Log *slog.Logger
}

func (p Printf) Errorf(format string, v ...interface{}) {
	p.Log.Error(line(format, v))
}

func (p Printf) Warnf(format string, v ...interface{}) {
	p.Log.Warn(line(format, v))
}

func (p Printf) Debugf(format string, v ...interface{}) {
	p.Log.Debug(line(format, v))
}

func line(format string, v []interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, v...))
}
