package database

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func capture(l *queryLogger) *bytes.Buffer {
	var buf bytes.Buffer
	out := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	l.log = func() *slog.Logger { return out }
	return &buf
}

func TestQueryLogger_Trace(t *testing.T) {
	sql := func() (string, int64) { return `SELECT * FROM "bookings"`, 3 }
	ctx := context.Background()

	t.Run("error", func(t *testing.T) {
		l := newQueryLogger(time.Second)
		buf := capture(l)
		l.Trace(ctx, time.Now(), sql, assert.AnError)
		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "bookings")
	})

	t.Run("record not found is quiet", func(t *testing.T) {
		l := newQueryLogger(time.Second)
		buf := capture(l)
		l.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
		assert.Empty(t, buf.String())
	})

	t.Run("slow query", func(t *testing.T) {
		l := newQueryLogger(time.Millisecond)
		buf := capture(l)
		l.Trace(ctx, time.Now().Add(-10*time.Millisecond), sql, nil)
		assert.Contains(t, buf.String(), "slow query")
	})

	t.Run("fast query only at info mode", func(t *testing.T) {
		l := newQueryLogger(time.Second)
		buf := capture(l)
		l.Trace(ctx, time.Now(), sql, nil)
		assert.Empty(t, buf.String())

		verbose := l.LogMode(gormlogger.Info).(*queryLogger)
		verbose.Trace(ctx, time.Now(), sql, nil)
		assert.Contains(t, buf.String(), "database query")
	})
}
