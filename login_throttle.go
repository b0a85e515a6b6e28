package goGate

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goGate/internal/rate"
	"github.com/MrEthical07/goGate/session"
	"go.uber.org/zap"
)

// throttledDirectory rejects lookups for an email or IP that has spent its
// failure budget, and counts wrong-password results against it.
type throttledDirectory struct {
	next    session.Directory
	limiter *rate.Limiter
	metrics *Metrics
	logger  *zap.Logger
}

func (d *throttledDirectory) Lookup(ctx context.Context, email, password string) (session.UserRecord, error) {
	ip := clientIPFromContext(ctx)

	if err := d.limiter.Check(ctx, email, ip); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			d.metrics.Inc(MetricLoginThrottled)
			d.logger.Info("login throttled", zap.String("ip", ip))
			return session.UserRecord{}, ErrLoginThrottled
		}
		d.logger.Warn("login throttle unavailable", zap.Error(err))
		return session.UserRecord{}, fmt.Errorf("%w: %v", ErrLoginThrottled, err)
	}

	rec, err := d.next.Lookup(ctx, email, password)
	switch {
	case err == nil:
		if rerr := d.limiter.Reset(ctx, email); rerr != nil {
			d.logger.Warn("login throttle reset failed", zap.Error(rerr))
		}
	case errors.Is(err, session.ErrUserNotFound):
		if rerr := d.limiter.RecordFailure(ctx, email, ip); rerr != nil {
			d.logger.Warn("login throttle record failed", zap.Error(rerr))
		}
	}
	return rec, err
}
