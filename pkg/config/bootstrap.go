package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pg-sharding/mongoshard/pkg/models/topology"
)

const (
	WaitStrategyPoll  = "poll"
	WaitStrategyDelay = "delay"

	DefaultRouterURI      = "mongodb://localhost:27017"
	DefaultConnectTimeout = 10 * time.Second
	DefaultCommandTimeout = 30 * time.Second
	DefaultDelay          = 5 * time.Second
	DefaultPollInterval   = 500 * time.Millisecond
	DefaultMaxWait        = 2 * time.Minute
)

var cfgBootstrap Bootstrap

type Member struct {
	ID   int    `json:"id" toml:"id" yaml:"id"`
	Host string `json:"host" toml:"host" yaml:"host"`
}

type ReplicaSet struct {
	ID      string   `json:"id" toml:"id" yaml:"id"`
	Members []Member `json:"members" toml:"members" yaml:"members"`
}

type WaitConfig struct {
	Strategy     string        `json:"strategy" toml:"strategy" yaml:"strategy"`
	Delay        time.Duration `json:"delay" toml:"delay" yaml:"delay"`
	PollInterval time.Duration `json:"poll_interval" toml:"poll_interval" yaml:"poll_interval"`
	MaxWait      time.Duration `json:"max_wait" toml:"max_wait" yaml:"max_wait"`
}

type Bootstrap struct {
	LogLevel      string `json:"log_level" toml:"log_level" yaml:"log_level"`
	LogFile       string `json:"log_file" toml:"log_file" yaml:"log_file"`
	PrettyLogging bool   `json:"pretty_logging" toml:"pretty_logging" yaml:"pretty_logging"`

	RouterURI  string     `json:"router_uri" toml:"router_uri" yaml:"router_uri"`
	Username   string     `json:"username" toml:"username" yaml:"username"`
	Password   string     `json:"password" toml:"password" yaml:"password"`
	AuthSource string     `json:"auth_source" toml:"auth_source" yaml:"auth_source"`
	TLS        *TLSConfig `json:"tls" toml:"tls" yaml:"tls"`

	ConnectTimeout time.Duration `json:"connect_timeout" toml:"connect_timeout" yaml:"connect_timeout"`
	CommandTimeout time.Duration `json:"command_timeout" toml:"command_timeout" yaml:"command_timeout"`

	Wait WaitConfig `json:"wait" toml:"wait" yaml:"wait"`

	ReplicaSets      []ReplicaSet `json:"replica_sets" toml:"replica_sets" yaml:"replica_sets"`
	ShardedDatabases []string     `json:"sharded_databases" toml:"sharded_databases" yaml:"sharded_databases"`
	SkipExisting     bool         `json:"skip_existing" toml:"skip_existing" yaml:"skip_existing"`
}

// DefaultReplicaSets is the stock three-shard layout: shardN is served by
// shardNReplSet with a single member shardN:2702(N-1).
func DefaultReplicaSets() []ReplicaSet {
	sets := make([]ReplicaSet, 0, 3)
	for i := 1; i <= 3; i++ {
		sets = append(sets, ReplicaSet{
			ID: fmt.Sprintf("shard%dReplSet", i),
			Members: []Member{
				{ID: 0, Host: fmt.Sprintf("shard%d:%d", i, 27019+i)},
			},
		})
	}
	return sets
}

func DefaultBootstrap() Bootstrap {
	var b Bootstrap
	b.ApplyDefaults()
	return b
}

// ApplyDefaults fills every unset field.
func (b *Bootstrap) ApplyDefaults() {
	if b.LogLevel == "" {
		b.LogLevel = "info"
	}
	if b.RouterURI == "" {
		b.RouterURI = DefaultRouterURI
	}
	if b.AuthSource == "" && b.Username != "" {
		b.AuthSource = "admin"
	}
	if b.ConnectTimeout == 0 {
		b.ConnectTimeout = DefaultConnectTimeout
	}
	if b.CommandTimeout == 0 {
		b.CommandTimeout = DefaultCommandTimeout
	}
	if b.Wait.Strategy == "" {
		b.Wait.Strategy = WaitStrategyPoll
	}
	if b.Wait.Delay == 0 {
		b.Wait.Delay = DefaultDelay
	}
	if b.Wait.PollInterval == 0 {
		b.Wait.PollInterval = DefaultPollInterval
	}
	if b.Wait.MaxWait == 0 {
		b.Wait.MaxWait = DefaultMaxWait
	}
	if len(b.ReplicaSets) == 0 {
		b.ReplicaSets = DefaultReplicaSets()
	}
}

func (b *Bootstrap) Validate() error {
	switch b.Wait.Strategy {
	case WaitStrategyPoll, WaitStrategyDelay:
	default:
		return fmt.Errorf("unknown wait strategy %q, use %q or %q", b.Wait.Strategy, WaitStrategyPoll, WaitStrategyDelay)
	}
	if b.Wait.Delay < 0 || b.Wait.PollInterval < 0 || b.Wait.MaxWait < 0 {
		return fmt.Errorf("wait durations must not be negative")
	}
	if b.Wait.Strategy == WaitStrategyPoll && b.Wait.PollInterval > b.Wait.MaxWait {
		return fmt.Errorf("poll_interval %s exceeds max_wait %s", b.Wait.PollInterval, b.Wait.MaxWait)
	}
	if b.RouterURI == "" {
		return fmt.Errorf("router_uri is empty")
	}
	if b.Password != "" && b.Username == "" {
		return fmt.Errorf("password is set without username")
	}
	if err := b.TLS.Validate(); err != nil {
		return err
	}

	seen := map[string]struct{}{}
	for _, rs := range b.ReplicaSetModels() {
		if err := rs.Validate(); err != nil {
			return err
		}
		if _, ok := seen[rs.ID]; ok {
			return fmt.Errorf("duplicate replica set id %s", rs.ID)
		}
		seen[rs.ID] = struct{}{}
	}

	for _, db := range b.ShardedDatabases {
		if db == "" {
			return fmt.Errorf("sharded_databases contains an empty name")
		}
	}
	return nil
}

// ReplicaSetModels converts the configured replica sets, keeping plan order.
func (b *Bootstrap) ReplicaSetModels() []*topology.ReplicaSet {
	sets := make([]*topology.ReplicaSet, 0, len(b.ReplicaSets))
	for _, rs := range b.ReplicaSets {
		m := &topology.ReplicaSet{
			ID:      rs.ID,
			Members: make([]*topology.Member, 0, len(rs.Members)),
		}
		for _, member := range rs.Members {
			m.Members = append(m.Members, &topology.Member{ID: member.ID, Host: member.Host})
		}
		sets = append(sets, m)
	}
	return sets
}

// String returns the JSON form of the config with the password masked.
func (b Bootstrap) String() string {
	if b.Password != "" {
		b.Password = "********"
	}
	configBytes, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Sprintf("<unprintable config: %v>", err)
	}
	return string(configBytes)
}

// LoadBootstrapCfg loads the bootstrap configuration from the specified file path.
// An empty path yields the defaults.
//
// Parameters:
//   - cfgPath (string): The path of the configuration file.
//
// Returns:
//   - string: JSON-formatted config
//   - error: An error if any occurred during the loading process.
func LoadBootstrapCfg(cfgPath string) (string, error) {
	var bcfg Bootstrap
	if cfgPath != "" {
		file, err := os.Open(cfgPath)
		if err != nil {
			return "", err
		}
		defer func(file *os.File) {
			err := file.Close()
			if err != nil {
				log.Printf("failed to close config file: %v", err)
			}
		}(file)

		if err := initConfig(file, &bcfg); err != nil {
			return "", err
		}
	}

	bcfg.ApplyDefaults()
	if err := bcfg.Validate(); err != nil {
		return "", err
	}

	cfgBootstrap = bcfg
	return cfgBootstrap.String(), nil
}

// BootstrapConfig returns a pointer to the loaded Bootstrap configuration.
func BootstrapConfig() *Bootstrap {
	return &cfgBootstrap
}
