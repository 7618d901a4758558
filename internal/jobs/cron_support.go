package jobs

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// every is a cron.Schedule firing at a constant interval from the moment it is consulted.
// Unlike cron.Every it keeps sub-second precision.
type every time.Duration

func (e every) Next(t time.Time) time.Time {
	return t.Add(time.Duration(e))
}

// cronLogger routes cron's own logging into slog. cron reports every wake-up at Info,
// which lands at Debug here.
type cronLogger struct {
	logger *slog.Logger
}

var _ cron.Logger = cronLogger{}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
