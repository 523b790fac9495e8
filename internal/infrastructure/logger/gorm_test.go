package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level string) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level), recorded
}

func TestGormLogger_Trace_Query(t *testing.T) {
	gl, recorded := newObservedGormLogger("info")

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM invoices", 3
	}, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Query", logs[0].Message)
	assert.Equal(t, "SELECT * FROM invoices", logs[0].ContextMap()["sql"])
	assert.EqualValues(t, 3, logs[0].ContextMap()["rows"])
}

func TestGormLogger_Trace_Error(t *testing.T) {
	gl, recorded := newObservedGormLogger("error")

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "INSERT INTO invoices", 0
	}, errors.New("duplicate key"))

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "SQL Error", logs[0].Message)
}

func TestGormLogger_Trace_RecordNotFoundSkipped(t *testing.T) {
	gl, recorded := newObservedGormLogger("error")

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT * FROM invoices WHERE id = $1", 0
	}, gormlogger.ErrRecordNotFound)

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_SlowQuery(t *testing.T) {
	gl, recorded := newObservedGormLogger("warn")

	begin := time.Now().Add(-time.Second)
	gl.Trace(context.Background(), begin, func() (string, int64) {
		return "SELECT * FROM enrollments", 100
	}, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, zapcore.WarnLevel, logs[0].Level)
	assert.Contains(t, logs[0].Message, "SLOW SQL")
}

func TestGormLogger_Trace_Silent(t *testing.T) {
	gl, recorded := newObservedGormLogger("silent")

	gl.Trace(context.Background(), time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, errors.New("boom"))

	assert.Empty(t, recorded.All())
}

func TestGormLogger_Trace_RequestID(t *testing.T) {
	gl, recorded := newObservedGormLogger("info")

	ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-9")
	gl.Trace(ctx, time.Now(), func() (string, int64) {
		return "SELECT 1", 1
	}, nil)

	logs := recorded.All()
	require.Len(t, logs, 1)
	assert.Equal(t, "req-9", logs[0].ContextMap()["request_id"])
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGormLogger("info")

	clone := gl.LogMode(gormlogger.Silent)
	cloned, ok := clone.(*GormLogger)
	require.True(t, ok)
	assert.Equal(t, gormlogger.Silent, cloned.level)
	// Original is untouched.
	assert.Equal(t, gormlogger.Info, gl.level)
}

func TestMapGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, mapGormLevel("silent"))
	assert.Equal(t, gormlogger.Error, mapGormLevel("error"))
	assert.Equal(t, gormlogger.Warn, mapGormLevel("warn"))
	assert.Equal(t, gormlogger.Info, mapGormLevel("info"))
	assert.Equal(t, gormlogger.Info, mapGormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, mapGormLevel("other"))
}
