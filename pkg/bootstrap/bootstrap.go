package bootstrap

import (
	"context"
	"strings"

	"github.com/pg-sharding/mongoshard/pkg/admin"
	"github.com/pg-sharding/mongoshard/pkg/config"
	"github.com/pg-sharding/mongoshard/pkg/models/mserror"
	"github.com/pg-sharding/mongoshard/pkg/models/topology"
	"github.com/pg-sharding/mongoshard/pkg/mslog"
)

type Options struct {
	// SkipExisting accepts replica sets that are already initialized and
	// shards the router already knows instead of failing on them.
	SkipExisting     bool
	ShardedDatabases []string
	// Verify checks listShards after registration.
	Verify bool
}

// Bootstrapper runs the cluster bootstrap sequence: replica sets are
// initiated one by one in plan order, each followed by a wait, then every set
// is registered as a shard with the router in the same order.
type Bootstrapper struct {
	adm    admin.Admin
	waiter Waiter
	sets   []*topology.ReplicaSet
	opts   Options
}

func NewBootstrapper(adm admin.Admin, waiter Waiter, sets []*topology.ReplicaSet, opts Options) *Bootstrapper {
	return &Bootstrapper{
		adm:    adm,
		waiter: waiter,
		sets:   sets,
		opts:   opts,
	}
}

// NewFromConfig wires a Bootstrapper from the loaded config. Verification
// only runs with the poll strategy so that the delay strategy issues nothing
// beyond initiate and addShard calls.
func NewFromConfig(cfg *config.Bootstrap, adm admin.Admin) *Bootstrapper {
	return NewBootstrapper(adm, NewWaiter(cfg.Wait, adm), cfg.ReplicaSetModels(), Options{
		SkipExisting:     cfg.SkipExisting,
		ShardedDatabases: cfg.ShardedDatabases,
		Verify:           cfg.Wait.Strategy == config.WaitStrategyPoll,
	})
}

func (b *Bootstrapper) ReplicaSets() []*topology.ReplicaSet {
	return b.sets
}

func (b *Bootstrapper) Run(ctx context.Context) error {
	if err := b.InitiateAll(ctx); err != nil {
		return err
	}
	if err := b.AddShards(ctx); err != nil {
		return err
	}
	if err := b.EnableSharding(ctx); err != nil {
		return err
	}
	if b.opts.Verify {
		if err := b.Verify(ctx); err != nil {
			return err
		}
	}

	mslog.Zero.Info().
		Int("shards", len(b.sets)).
		Msg("cluster bootstrap finished")
	return nil
}

func (b *Bootstrapper) InitiateAll(ctx context.Context) error {
	for _, rs := range b.sets {
		if err := b.initiate(ctx, rs); err != nil {
			return err
		}
		if err := b.waiter.WaitReplicaSet(ctx, rs); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bootstrapper) initiate(ctx context.Context, rs *topology.ReplicaSet) error {
	mslog.Zero.Info().
		Str("replica set", rs.ID).
		Strs("members", rs.Hosts()).
		Msg("initiating replica set")

	err := b.adm.InitiateReplicaSet(ctx, rs)
	switch {
	case err == nil:
		return nil
	case b.opts.SkipExisting && admin.IsAlreadyInitialized(err):
		mslog.Zero.Warn().
			Str("replica set", rs.ID).
			Msg("replica set is already initialized, skipping")
		return nil
	default:
		return mserror.Newf(mserror.MSH_INITIATE_FAILED, "replica set %s: %w", rs.ID, err)
	}
}

func (b *Bootstrapper) AddShards(ctx context.Context) error {
	if err := b.waiter.WaitRouter(ctx); err != nil {
		return err
	}

	registered := map[string]struct{}{}
	if b.opts.SkipExisting {
		shards, err := b.adm.ListShards(ctx)
		if err != nil {
			return mserror.Newf(mserror.MSH_ADD_SHARD_FAILED, "list registered shards: %w", err)
		}
		for _, sh := range shards {
			registered[sh.ID] = struct{}{}
		}
	}

	for _, rs := range b.sets {
		connString := rs.ConnString()
		if _, ok := registered[rs.ID]; ok {
			mslog.Zero.Warn().
				Str("conn string", connString).
				Msg("shard is already registered, skipping")
			continue
		}

		mslog.Zero.Info().
			Str("conn string", connString).
			Msg("adding shard")
		if err := b.adm.AddShard(ctx, connString); err != nil {
			return mserror.Newf(mserror.MSH_ADD_SHARD_FAILED, "shard %s: %w", connString, err)
		}
	}
	return nil
}

func (b *Bootstrapper) EnableSharding(ctx context.Context) error {
	for _, db := range b.opts.ShardedDatabases {
		mslog.Zero.Info().
			Str("database", db).
			Msg("enabling sharding")
		if err := b.adm.EnableSharding(ctx, db); err != nil {
			return mserror.Newf(mserror.MSH_ENABLE_SHARDING, "database %s: %w", db, err)
		}
	}
	return nil
}

// Verify checks that the router lists every planned replica set as a shard.
func (b *Bootstrapper) Verify(ctx context.Context) error {
	shards, err := b.adm.ListShards(ctx)
	if err != nil {
		return mserror.Newf(mserror.MSH_VERIFICATION_FAIL, "list shards: %w", err)
	}

	listed := make(map[string]*topology.Shard, len(shards))
	for _, sh := range shards {
		listed[sh.ID] = sh
	}

	var missing []string
	for _, rs := range b.sets {
		sh, ok := listed[rs.ID]
		if !ok {
			missing = append(missing, rs.ID)
			continue
		}
		mslog.Zero.Debug().
			Str("shard", sh.ID).
			Str("host", sh.Host).
			Int("state", sh.State).
			Msg("shard is registered")
	}
	if len(missing) > 0 {
		return mserror.Newf(mserror.MSH_VERIFICATION_FAIL, "router does not list shards: %s", strings.Join(missing, ", "))
	}
	return nil
}
