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

func newObservedGormLogger(level gormlogger.LogLevel) (*GormLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewGormLogger(zap.New(core), level), logs
}

func selectQuery() (string, int64) {
	return "SELECT * FROM rate_cards WHERE tenant_id = $1 AND status = 'active'", 1
}

func TestGormLoggerLogMode(t *testing.T) {
	l, _ := newObservedGormLogger(gormlogger.Warn)

	silenced := l.LogMode(gormlogger.Silent)

	// LogMode clones; the original keeps its level
	assert.Equal(t, gormlogger.Warn, l.logLevel)
	assert.Equal(t, gormlogger.Silent, silenced.(*GormLogger).logLevel)
}

func TestGormLoggerLevelGating(t *testing.T) {
	l, logs := newObservedGormLogger(gormlogger.Warn)

	l.Info(context.Background(), "migrating %s", "rate_cards")
	assert.Equal(t, 0, logs.Len(), "info suppressed at warn level")

	l.Warn(context.Background(), "replica lag %dms", 120)
	l.Error(context.Background(), "connect failed: %v", errors.New("refused"))
	assert.Equal(t, 2, logs.Len())
}

func TestGormLoggerTrace(t *testing.T) {
	t.Run("query error", func(t *testing.T) {
		l, logs := newObservedGormLogger(gormlogger.Error)

		l.Trace(context.Background(), time.Now(), selectQuery, errors.New("relation does not exist"))

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.ErrorLevel, entry.Level)
		assert.Equal(t, "SQL error", entry.Message)
		assert.Contains(t, entry.ContextMap()["sql"], "rate_cards")
	})

	t.Run("record not found is not an error", func(t *testing.T) {
		l, logs := newObservedGormLogger(gormlogger.Error)

		// GetActive misses resolve to domain errors upstream; logging them
		// as SQL errors would drown the log on tenants without cards
		l.Trace(context.Background(), time.Now(), selectQuery, gormlogger.ErrRecordNotFound)

		assert.Equal(t, 0, logs.Len())
	})

	t.Run("slow query", func(t *testing.T) {
		l, logs := newObservedGormLogger(gormlogger.Warn)

		begin := time.Now().Add(-2 * slowQueryThreshold)
		l.Trace(context.Background(), begin, selectQuery, nil)

		require.Equal(t, 1, logs.Len())
		entry := logs.All()[0]
		assert.Equal(t, zapcore.WarnLevel, entry.Level)
		assert.Contains(t, entry.Message, "Slow SQL")
	})

	t.Run("normal query at info level", func(t *testing.T) {
		l, logs := newObservedGormLogger(gormlogger.Info)

		l.Trace(context.Background(), time.Now(), selectQuery, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, zapcore.DebugLevel, logs.All()[0].Level)
	})

	t.Run("silent logs nothing", func(t *testing.T) {
		l, logs := newObservedGormLogger(gormlogger.Silent)

		l.Trace(context.Background(), time.Now(), selectQuery, errors.New("boom"))

		assert.Equal(t, 0, logs.Len())
	})

	t.Run("request id from context", func(t *testing.T) {
		l, logs := newObservedGormLogger(gormlogger.Info)

		ctx, _ := WithRequestID(context.Background(), zap.NewNop(), "req-9")
		l.Trace(ctx, time.Now(), selectQuery, nil)

		require.Equal(t, 1, logs.Len())
		assert.Equal(t, "req-9", logs.All()[0].ContextMap()["request_id"])
	})
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"", gormlogger.Warn},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MapGormLogLevel(tt.in), "level %q", tt.in)
	}
}

func TestGormLoggerImplementsInterface(t *testing.T) {
	var _ gormlogger.Interface = (*GormLogger)(nil)
}
