package database

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	applog "busly/pkg/logger"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func captureLogger(buf *bytes.Buffer) *applog.Logger {
	return applog.NewWithHandler(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func stmt() (string, int64) { return "SELECT 1", 1 }

func TestGormLoggerQuietInWarnMode(t *testing.T) {
	var buf bytes.Buffer
	l := newGormLogger(captureLogger(&buf), false, time.Second)

	l.Trace(context.Background(), time.Now(), stmt, nil)
	l.Trace(context.Background(), time.Now(), stmt, gorm.ErrRecordNotFound)

	assert.Empty(t, buf.String())
}

func TestGormLoggerReportsFailuresAndSlowQueries(t *testing.T) {
	var buf bytes.Buffer
	l := newGormLogger(captureLogger(&buf), false, 10*time.Millisecond)

	l.Trace(context.Background(), time.Now(), stmt, errors.New("deadlock detected"))
	assert.Contains(t, buf.String(), `"msg":"SQL failed"`)
	assert.Contains(t, buf.String(), "deadlock detected")

	buf.Reset()
	l.Trace(context.Background(), time.Now().Add(-time.Second), stmt, nil)
	assert.Contains(t, buf.String(), `"msg":"Slow SQL"`)
}

func TestGormLoggerVerboseAndSilent(t *testing.T) {
	var buf bytes.Buffer
	verbose := newGormLogger(captureLogger(&buf), true, 0)

	verbose.Trace(context.Background(), time.Now(), stmt, nil)
	assert.Contains(t, buf.String(), `"sql":"SELECT 1"`)

	buf.Reset()
	verbose.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), stmt, errors.New("boom"))
	assert.Empty(t, buf.String())
}
