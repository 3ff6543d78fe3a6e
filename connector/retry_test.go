package connector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/logging"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestRetryConnect(t *testing.T) {
	log, logs := logging.NewObserved(zapcore.DebugLevel)
	refused := errors.New("connection refused")

	tests := []struct {
		name      string
		cfg       *RetryConfig
		failures  int
		wantCalls int
		wantErr   bool
	}{
		{"no retry config", nil, 1, 1, true},
		{"succeeds first time", &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}, 0, 1, false},
		{"succeeds after retries", &RetryConfig{MaxRetries: 3, BaseDelay: time.Millisecond}, 2, 3, false},
		{"gives up", &RetryConfig{MaxRetries: 2, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}, 5, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := retryConnect(context.Background(), tt.cfg, log, func(context.Context) error {
				calls++
				if calls <= tt.failures {
					return refused
				}
				return nil
			})

			assert.Equal(t, tt.wantCalls, calls)
			if tt.wantErr {
				assert.ErrorIs(t, err, refused)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	assert.NotZero(t, logs.FilterMessage("connect failed, retrying").Len())
}

func TestRetryConnectStopsOnCancel(t *testing.T) {
	log, _ := logging.NewObserved(zapcore.InfoLevel)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := retryConnect(ctx, &RetryConfig{MaxRetries: 10, BaseDelay: time.Hour}, log, func(context.Context) error {
		calls++
		cancel()
		return errors.New("down")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
