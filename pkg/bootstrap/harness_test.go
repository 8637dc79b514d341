package bootstrap_test

import (
	"context"
	"strings"
	"sync"

	"github.com/pg-sharding/mongoshard/pkg/admin"
	"github.com/pg-sharding/mongoshard/pkg/config"
	"github.com/pg-sharding/mongoshard/pkg/models/topology"
)

// defaultSets is the stock three-shard layout as models.
func defaultSets() []*topology.ReplicaSet {
	cfg := config.DefaultBootstrap()
	return cfg.ReplicaSetModels()
}

type call struct {
	method string
	arg    string
	hosts  []string
}

// stubCluster answers every admin call with success and records it.
type stubCluster struct {
	mu    sync.Mutex
	calls []call

	shards []*topology.Shard
}

var _ admin.Admin = &stubCluster{}

func (s *stubCluster) record(c call) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, c)
}

func (s *stubCluster) Calls() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.calls...)
}

func (s *stubCluster) InitiateReplicaSet(_ context.Context, rs *topology.ReplicaSet) error {
	s.record(call{method: "initiate", arg: rs.ID, hosts: rs.Hosts()})
	return nil
}

func (s *stubCluster) ReplicaSetStatus(_ context.Context, rs *topology.ReplicaSet) (*topology.ReplicaSetStatus, error) {
	s.record(call{method: "status", arg: rs.ID})
	return &topology.ReplicaSetStatus{
		Set:     rs.ID,
		MyState: topology.StatePrimary,
		Members: []*topology.MemberStatus{
			{ID: 0, Name: rs.SeedHost(), Health: 1, State: topology.StatePrimary, StateStr: "PRIMARY"},
		},
	}, nil
}

func (s *stubCluster) PingRouter(context.Context) error {
	s.record(call{method: "ping"})
	return nil
}

func (s *stubCluster) AddShard(_ context.Context, connString string) error {
	s.record(call{method: "addShard", arg: connString})

	s.mu.Lock()
	defer s.mu.Unlock()
	id, host, _ := strings.Cut(connString, "/")
	s.shards = append(s.shards, &topology.Shard{ID: id, Host: id + "/" + host, State: 1})
	return nil
}

func (s *stubCluster) ListShards(context.Context) ([]*topology.Shard, error) {
	s.record(call{method: "listShards"})

	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*topology.Shard(nil), s.shards...), nil
}

func (s *stubCluster) EnableSharding(_ context.Context, database string) error {
	s.record(call{method: "enableSharding", arg: database})
	return nil
}

func (s *stubCluster) Close(context.Context) error {
	return nil
}
