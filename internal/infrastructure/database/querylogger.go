package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appLogger "github.com/coachhub/coachhub/internal/shared/logger"
)

// queryLogger sends gorm output to slog: failed queries at error, slow
// queries at warn and everything else at debug. Record-not-found is a
// normal lookup miss and is not reported.
type queryLogger struct {
	slow  time.Duration
	level gormlogger.LogLevel
	log   func() *slog.Logger
}

func newQueryLogger(slow time.Duration) *queryLogger {
	return &queryLogger{slow: slow, level: gormlogger.Warn, log: appLogger.Get}
}

func (l *queryLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *queryLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.log().DebugContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.log().WarnContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.log().ErrorContext(ctx, fmt.Sprintf(msg, args...))
	}
}

func (l *queryLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		l.log().ErrorContext(ctx, "database error", "error", err, "elapsed", elapsed, "rows", rows, "sql", sql)
	case l.slow > 0 && elapsed > l.slow && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.log().WarnContext(ctx, "slow query", "elapsed", elapsed, "rows", rows, "sql", sql)
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.log().DebugContext(ctx, "database query", "elapsed", elapsed, "rows", rows, "sql", sql)
	}
}
