package app

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dmitrijs2005/hydrokeeper/internal/common"
)

// Retry backoff bounds.
var (
	retryInitialInterval = 50 * time.Millisecond
	retryMaxInterval     = time.Second
)

// Do runs fn under the configured operation timeout. Failures marked
// common.ErrStorageUnavailable are retried up to Config.Retries times with
// exponential backoff; every other error is returned at once.
func (a *App) Do(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, a.Config.OperationTimeout)
	defer cancel()

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = retryInitialInterval
	exp.MaxInterval = retryMaxInterval
	exp.MaxElapsedTime = 0
	exp.Reset()

	attempt := 0
	return backoff.RetryNotify(func() error {
		attempt++
		err := fn(ctx)
		if err == nil || !errors.Is(err, common.ErrStorageUnavailable) {
			return backoff.Permanent(err)
		}
		return err
	},
		backoff.WithContext(backoff.WithMaxRetries(exp, uint64(max(a.Config.Retries, 0))), ctx),
		func(err error, wait time.Duration) {
			a.Logger.Warn(ctx, "storage failure, retrying", "op", op, "attempt", attempt, "wait", wait, "error", err)
		})
}
