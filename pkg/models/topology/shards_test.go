package topology_test

import (
	"testing"

	"github.com/pg-sharding/mongoshard/pkg/models/topology"
	"github.com/stretchr/testify/assert"
)

func TestConnString(t *testing.T) {
	tests := []struct {
		name string
		rs   *topology.ReplicaSet
		want string
	}{
		{
			name: "single member",
			rs:   topology.NewReplicaSet("shard1ReplSet", "shard1:27020"),
			want: "shard1ReplSet/shard1:27020",
		},
		{
			name: "several members keep order",
			rs:   topology.NewReplicaSet("rs0", "a:1", "b:2", "c:3"),
			want: "rs0/a:1,b:2,c:3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rs.ConnString())
		})
	}
}

func TestNewReplicaSetNumbersMembers(t *testing.T) {
	assert := assert.New(t)

	rs := topology.NewReplicaSet("rs0", "a:1", "b:2")

	assert.Equal("a:1", rs.SeedHost())
	assert.Equal([]string{"a:1", "b:2"}, rs.Hosts())
	assert.Equal(0, rs.Members[0].ID)
	assert.Equal(1, rs.Members[1].ID)
}

func TestSeedHostEmpty(t *testing.T) {
	rs := &topology.ReplicaSet{ID: "rs0"}
	assert.Equal(t, "", rs.SeedHost())
}

func TestReplicaSetValidate(t *testing.T) {
	tests := []struct {
		name    string
		rs      *topology.ReplicaSet
		wantErr bool
	}{
		{
			name: "valid",
			rs:   topology.NewReplicaSet("shard2ReplSet", "shard2:27021"),
		},
		{
			name:    "empty id",
			rs:      topology.NewReplicaSet("", "shard2:27021"),
			wantErr: true,
		},
		{
			name:    "slash in id",
			rs:      topology.NewReplicaSet("a/b", "shard2:27021"),
			wantErr: true,
		},
		{
			name:    "no members",
			rs:      &topology.ReplicaSet{ID: "rs0"},
			wantErr: true,
		},
		{
			name:    "missing port",
			rs:      topology.NewReplicaSet("rs0", "shard2"),
			wantErr: true,
		},
		{
			name:    "non numeric port",
			rs:      topology.NewReplicaSet("rs0", "shard2:abc"),
			wantErr: true,
		},
		{
			name:    "port out of range",
			rs:      topology.NewReplicaSet("rs0", "shard2:70000"),
			wantErr: true,
		},
		{
			name:    "duplicate host",
			rs:      topology.NewReplicaSet("rs0", "a:1", "a:1"),
			wantErr: true,
		},
		{
			name: "duplicate member id",
			rs: &topology.ReplicaSet{
				ID: "rs0",
				Members: []*topology.Member{
					{ID: 0, Host: "a:1"},
					{ID: 0, Host: "b:1"},
				},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rs.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
