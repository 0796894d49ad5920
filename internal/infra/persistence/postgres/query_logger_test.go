package postgres

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"skillswap/config"
	deliverycontext "skillswap/internal/delivery/context"
	"skillswap/internal/errors"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestQueryLogger(debug bool) (*queryLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	base := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	cfg := &config.Config{}
	cfg.Env.Debug = debug
	cfg.Database.SlowQueryThreshold = 200 * time.Millisecond

	l := newQueryLogger(base, cfg)
	fixed := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	return l, buf
}

func statement() (string, int64) {
	return "SELECT * FROM bookings", 3
}

func TestQueryLogger_Trace(t *testing.T) {
	end := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		debug    bool
		elapsed  time.Duration
		err      error
		contains []string
		empty    bool
	}{
		{
			name:     "failure logged at error",
			elapsed:  time.Millisecond,
			err:      errors.New("relation does not exist"),
			contains: []string{"level=ERROR", "relation does not exist", "rows=3"},
		},
		{
			name:    "record not found is silent",
			elapsed: time.Millisecond,
			err:     gorm.ErrRecordNotFound,
			empty:   true,
		},
		{
			name:     "slow statement logged at warn",
			elapsed:  250 * time.Millisecond,
			contains: []string{"level=WARN", "Slow SQL statement", "threshold=200ms"},
		},
		{
			name:    "fast statement silent without debug",
			elapsed: 10 * time.Millisecond,
			empty:   true,
		},
		{
			name:     "fast statement logged at info in debug",
			debug:    true,
			elapsed:  10 * time.Millisecond,
			contains: []string{"level=INFO", "SQL statement", "SELECT * FROM bookings"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, buf := newTestQueryLogger(tt.debug)

			l.Trace(context.Background(), end.Add(-tt.elapsed), statement, tt.err)

			if tt.empty {
				assert.Empty(t, buf.String())

				return
			}
			for _, want := range tt.contains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

func TestQueryLogger_UsesRequestLogger(t *testing.T) {
	l, base := newTestQueryLogger(true)

	reqBuf := &bytes.Buffer{}
	reqLogger := slog.New(slog.NewTextHandler(reqBuf, nil)).With(slog.String("request_id", "req-7"))
	ctx := deliverycontext.WithLogger(context.Background(), reqLogger)

	l.Trace(ctx, l.now().Add(-time.Millisecond), statement, nil)

	assert.Empty(t, base.String())
	assert.Contains(t, reqBuf.String(), "request_id=req-7")
}

func TestQueryLogger_LogMode(t *testing.T) {
	l, buf := newTestQueryLogger(true)

	silent := l.LogMode(logger.Silent)
	silent.Trace(context.Background(), l.now(), statement, errors.New("boom"))
	silent.Error(context.Background(), "connection %s", "lost")
	assert.Empty(t, buf.String())

	l.Warn(context.Background(), "pool %d", 5)
	assert.Contains(t, buf.String(), "pool 5")
	assert.Equal(t, logger.Info, l.level, "LogMode returns a copy")
}
