package connector

import (
	"context"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseDelay = time.Second
	defaultBackoff   = 2.0
)

// retryConnect calls connectFn until it succeeds, the context ends or
// MaxRetries retries have failed. A nil config tries once.
func retryConnect(ctx context.Context, cfg *RetryConfig, log *zap.SugaredLogger, connectFn func(context.Context) error) error {
	if cfg == nil {
		return connectFn(ctx)
	}

	delay := cfg.BaseDelay
	if delay <= 0 {
		delay = defaultBaseDelay
	}
	backoff := cfg.Backoff
	if backoff < 1 {
		backoff = defaultBackoff
	}

	var err error
	for attempt := 0; ; attempt++ {
		if err = connectFn(ctx); err == nil {
			return nil
		}
		if attempt >= cfg.MaxRetries {
			return err
		}

		log.Warnw("connect failed, retrying",
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * backoff)
		if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
}
