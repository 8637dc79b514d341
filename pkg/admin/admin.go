package admin

//go:generate mockgen -source=admin.go -destination=mock/admin_mock.go -package=mock

import (
	"context"
	"errors"

	"github.com/pg-sharding/mongoshard/pkg/models/topology"
)

var (
	// ErrAlreadyInitialized is reported when replSetInitiate hits a member that already has a config.
	ErrAlreadyInitialized = errors.New("replica set already initialized")
	// ErrNotYetInitialized is reported by status calls before replSetInitiate took effect.
	ErrNotYetInitialized = errors.New("replica set not yet initialized")
)

// Admin is the cluster-administration surface the bootstrap sequence drives.
// Replica set calls go to the set's seed host, the rest to the router.
type Admin interface {
	InitiateReplicaSet(ctx context.Context, rs *topology.ReplicaSet) error
	ReplicaSetStatus(ctx context.Context, rs *topology.ReplicaSet) (*topology.ReplicaSetStatus, error)

	PingRouter(ctx context.Context) error
	AddShard(ctx context.Context, connString string) error
	ListShards(ctx context.Context) ([]*topology.Shard, error)
	EnableSharding(ctx context.Context, database string) error

	Close(ctx context.Context) error
}

func IsAlreadyInitialized(err error) bool {
	return errors.Is(err, ErrAlreadyInitialized)
}

func IsNotYetInitialized(err error) bool {
	return errors.Is(err, ErrNotYetInitialized)
}
