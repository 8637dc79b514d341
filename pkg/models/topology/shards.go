package topology

import (
	"fmt"
	"net"
	"strconv"
	"strings"
)

// Member is a single replica set member as passed to replSetInitiate.
type Member struct {
	ID   int    `bson:"_id"`
	Host string `bson:"host"`
}

type ReplicaSet struct {
	ID      string    `bson:"_id"`
	Members []*Member `bson:"members"`
}

func NewReplicaSet(id string, hosts ...string) *ReplicaSet {
	rs := &ReplicaSet{
		ID:      id,
		Members: make([]*Member, 0, len(hosts)),
	}
	for i, h := range hosts {
		rs.Members = append(rs.Members, &Member{ID: i, Host: h})
	}
	return rs
}

// SeedHost returns the host initiate and status commands are sent to.
func (rs *ReplicaSet) SeedHost() string {
	if len(rs.Members) == 0 {
		return ""
	}
	return rs.Members[0].Host
}

func (rs *ReplicaSet) Hosts() []string {
	hosts := make([]string, 0, len(rs.Members))
	for _, m := range rs.Members {
		hosts = append(hosts, m.Host)
	}
	return hosts
}

// ConnString returns the shard connection string in the form
// <replicaSetId>/<host:port>[,<host:port>...] accepted by addShard.
func (rs *ReplicaSet) ConnString() string {
	return rs.ID + "/" + strings.Join(rs.Hosts(), ",")
}

func (rs *ReplicaSet) Validate() error {
	if rs.ID == "" {
		return fmt.Errorf("replica set id is empty")
	}
	if strings.ContainsAny(rs.ID, "/, ") {
		return fmt.Errorf("replica set id %q contains forbidden characters", rs.ID)
	}
	if len(rs.Members) == 0 {
		return fmt.Errorf("replica set %s has no members", rs.ID)
	}

	ids := map[int]struct{}{}
	hosts := map[string]struct{}{}
	for _, m := range rs.Members {
		if _, ok := ids[m.ID]; ok {
			return fmt.Errorf("replica set %s: duplicate member id %d", rs.ID, m.ID)
		}
		ids[m.ID] = struct{}{}

		if err := validateHost(m.Host); err != nil {
			return fmt.Errorf("replica set %s: %w", rs.ID, err)
		}
		if _, ok := hosts[m.Host]; ok {
			return fmt.Errorf("replica set %s: duplicate member host %s", rs.ID, m.Host)
		}
		hosts[m.Host] = struct{}{}
	}
	return nil
}

func validateHost(host string) error {
	h, p, err := net.SplitHostPort(host)
	if err != nil {
		return fmt.Errorf("invalid member host %q: %w", host, err)
	}
	if h == "" {
		return fmt.Errorf("invalid member host %q: empty hostname", host)
	}
	port, err := strconv.Atoi(p)
	if err != nil || port <= 0 || port > 65535 {
		return fmt.Errorf("invalid member host %q: bad port", host)
	}
	return nil
}

// Shard is a shard as reported by the router.
type Shard struct {
	ID    string `bson:"_id" json:"id"`
	Host  string `bson:"host" json:"host"`
	State int    `bson:"state" json:"state"`
}

func NewShard(ID string, host string) *Shard {
	return &Shard{
		ID:   ID,
		Host: host,
	}
}
