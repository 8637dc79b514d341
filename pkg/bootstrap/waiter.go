package bootstrap

import (
	"context"
	"fmt"
	"time"

	retry "github.com/sethvargo/go-retry"

	"github.com/pg-sharding/mongoshard/pkg/admin"
	"github.com/pg-sharding/mongoshard/pkg/config"
	"github.com/pg-sharding/mongoshard/pkg/models/mserror"
	"github.com/pg-sharding/mongoshard/pkg/models/topology"
	"github.com/pg-sharding/mongoshard/pkg/mslog"
)

// Waiter decides when the sequence may move on after a replica set was
// initiated and before shards are registered with the router.
type Waiter interface {
	WaitReplicaSet(ctx context.Context, rs *topology.ReplicaSet) error
	WaitRouter(ctx context.Context) error
	fmt.Stringer
}

func NewWaiter(cfg config.WaitConfig, adm admin.Admin) Waiter {
	if cfg.Strategy == config.WaitStrategyDelay {
		return NewDelayWaiter(cfg.Delay)
	}
	return NewPollWaiter(adm, cfg.PollInterval, cfg.MaxWait)
}

// PollWaiter polls replSetGetStatus until the set reports a healthy primary.
type PollWaiter struct {
	adm      admin.Admin
	interval time.Duration
	maxWait  time.Duration
}

var _ Waiter = &PollWaiter{}

func NewPollWaiter(adm admin.Admin, interval, maxWait time.Duration) *PollWaiter {
	return &PollWaiter{
		adm:      adm,
		interval: interval,
		maxWait:  maxWait,
	}
}

func (w *PollWaiter) backoff() retry.Backoff {
	return retry.WithMaxDuration(w.maxWait, retry.NewConstant(w.interval))
}

func (w *PollWaiter) String() string {
	return fmt.Sprintf("poll every %s for up to %s", w.interval, w.maxWait)
}

func (w *PollWaiter) WaitReplicaSet(ctx context.Context, rs *topology.ReplicaSet) error {
	attempt := 0
	err := retry.Do(ctx, w.backoff(), func(ctx context.Context) error {
		attempt++
		status, err := w.adm.ReplicaSetStatus(ctx, rs)
		if err != nil {
			if admin.IsNotYetInitialized(err) {
				mslog.Zero.Debug().
					Str("replica set", rs.ID).
					Int("attempt", attempt).
					Msg("replica set config not received yet")
				return retry.RetryableError(err)
			}
			return err
		}

		primary := status.Primary()
		if primary == nil {
			mslog.Zero.Debug().
				Str("replica set", rs.ID).
				Int("attempt", attempt).
				Int("my state", status.MyState).
				Msg("no healthy primary yet")
			return retry.RetryableError(fmt.Errorf("no healthy primary"))
		}

		mslog.Zero.Info().
			Str("replica set", rs.ID).
			Str("primary", primary.Name).
			Int("attempt", attempt).
			Msg("replica set is ready")
		return nil
	})
	if err != nil {
		return mserror.Newf(mserror.MSH_NOT_READY, "replica set %s after %d attempts: %w", rs.ID, attempt, err)
	}
	return nil
}

// WaitRouter pings the router until it answers. Ping failures are all
// treated as transient since mongos refuses connections while starting.
func (w *PollWaiter) WaitRouter(ctx context.Context) error {
	attempt := 0
	err := retry.Do(ctx, w.backoff(), func(ctx context.Context) error {
		attempt++
		if err := w.adm.PingRouter(ctx); err != nil {
			mslog.Zero.Debug().
				Err(err).
				Int("attempt", attempt).
				Msg("router is not answering yet")
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return mserror.Newf(mserror.MSH_CONNECTION_ERROR, "router after %d attempts: %w", attempt, err)
	}
	return nil
}

// DelayWaiter sleeps a fixed duration and never looks at the cluster.
type DelayWaiter struct {
	delay time.Duration
}

var _ Waiter = &DelayWaiter{}

func NewDelayWaiter(delay time.Duration) *DelayWaiter {
	return &DelayWaiter{delay: delay}
}

func (w *DelayWaiter) String() string {
	return fmt.Sprintf("sleep %s", w.delay)
}

func (w *DelayWaiter) WaitReplicaSet(ctx context.Context, rs *topology.ReplicaSet) error {
	mslog.Zero.Debug().
		Str("replica set", rs.ID).
		Dur("delay", w.delay).
		Msg("waiting fixed delay")

	t := time.NewTimer(w.delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return mserror.Newf(mserror.MSH_NOT_READY, "replica set %s: %w", rs.ID, ctx.Err())
	case <-t.C:
		return nil
	}
}

func (w *DelayWaiter) WaitRouter(context.Context) error {
	return nil
}
