package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCfg(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))
	return path
}

func TestDefaultBootstrapMatchesStockLayout(t *testing.T) {
	assert := assert.New(t)

	b := DefaultBootstrap()
	sets := b.ReplicaSetModels()

	require.Len(t, sets, 3)
	for i, want := range []struct {
		id   string
		host string
		conn string
	}{
		{id: "shard1ReplSet", host: "shard1:27020", conn: "shard1ReplSet/shard1:27020"},
		{id: "shard2ReplSet", host: "shard2:27021", conn: "shard2ReplSet/shard2:27021"},
		{id: "shard3ReplSet", host: "shard3:27022", conn: "shard3ReplSet/shard3:27022"},
	} {
		assert.Equal(want.id, sets[i].ID)
		require.Len(t, sets[i].Members, 1)
		assert.Equal(0, sets[i].Members[0].ID)
		assert.Equal(want.host, sets[i].Members[0].Host)
		assert.Equal(want.conn, sets[i].ConnString())
	}

	assert.Equal(DefaultRouterURI, b.RouterURI)
	assert.Equal(WaitStrategyPoll, b.Wait.Strategy)
	assert.Equal(DefaultDelay, b.Wait.Delay)
	assert.NoError(b.Validate())
}

func TestLoadBootstrapCfgEmptyPathUsesDefaults(t *testing.T) {
	out, err := LoadBootstrapCfg("")
	require.NoError(t, err)

	assert.Contains(t, out, "shard3ReplSet")
	assert.Equal(t, DefaultRouterURI, BootstrapConfig().RouterURI)
}

func TestLoadBootstrapCfgYAML(t *testing.T) {
	assert := assert.New(t)

	path := writeCfg(t, "bootstrap.yaml", `
log_level: debug
router_uri: mongodb://mongos:27017
username: root
password: secret
wait:
  strategy: delay
  delay: 2s
replica_sets:
  - id: rsA
    members:
      - id: 0
        host: a1:27018
      - id: 1
        host: a2:27018
sharded_databases:
  - library_management
skip_existing: true
`)

	out, err := LoadBootstrapCfg(path)
	require.NoError(t, err)

	cfg := BootstrapConfig()
	assert.Equal("debug", cfg.LogLevel)
	assert.Equal("mongodb://mongos:27017", cfg.RouterURI)
	assert.Equal("admin", cfg.AuthSource)
	assert.Equal(WaitStrategyDelay, cfg.Wait.Strategy)
	assert.Equal(2*time.Second, cfg.Wait.Delay)
	assert.Equal(DefaultPollInterval, cfg.Wait.PollInterval)
	assert.True(cfg.SkipExisting)
	assert.Equal([]string{"library_management"}, cfg.ShardedDatabases)

	sets := cfg.ReplicaSetModels()
	require.Len(t, sets, 1)
	assert.Equal("rsA/a1:27018,a2:27018", sets[0].ConnString())

	assert.NotContains(out, "secret")
	assert.Contains(out, "********")
}

func TestLoadBootstrapCfgTOML(t *testing.T) {
	assert := assert.New(t)

	path := writeCfg(t, "bootstrap.toml", `
router_uri = "mongodb://mongos:27017"
command_timeout = "45s"

[wait]
strategy = "poll"
poll_interval = "250ms"
max_wait = "1m"

[[replica_sets]]
id = "shard1ReplSet"
  [[replica_sets.members]]
  id = 0
  host = "shard1:27020"
`)

	_, err := LoadBootstrapCfg(path)
	require.NoError(t, err)

	cfg := BootstrapConfig()
	assert.Equal(45*time.Second, cfg.CommandTimeout)
	assert.Equal(250*time.Millisecond, cfg.Wait.PollInterval)
	assert.Equal(time.Minute, cfg.Wait.MaxWait)
	require.Len(t, cfg.ReplicaSets, 1)
	assert.Equal("shard1:27020", cfg.ReplicaSets[0].Members[0].Host)
}

func TestLoadBootstrapCfgJSON(t *testing.T) {
	path := writeCfg(t, "bootstrap.json", `{
  "router_uri": "mongodb://mongos:27017",
  "replica_sets": [
    {"id": "rs0", "members": [{"id": 0, "host": "node:27017"}]}
  ]
}`)

	_, err := LoadBootstrapCfg(path)
	require.NoError(t, err)
	assert.Equal(t, "rs0/node:27017", BootstrapConfig().ReplicaSetModels()[0].ConnString())
}

func TestLoadBootstrapCfgJSONDurations(t *testing.T) {
	assert := assert.New(t)

	path := writeCfg(t, "bootstrap.json", `{
  "connect_timeout": "3s",
  "command_timeout": 15000000000,
  "wait": {"strategy": "delay", "delay": "2s", "max_wait": "90s"}
}`)

	out, err := LoadBootstrapCfg(path)
	require.NoError(t, err)

	cfg := BootstrapConfig()
	assert.Equal(3*time.Second, cfg.ConnectTimeout)
	assert.Equal(15*time.Second, cfg.CommandTimeout)
	assert.Equal(WaitStrategyDelay, cfg.Wait.Strategy)
	assert.Equal(2*time.Second, cfg.Wait.Delay)
	assert.Equal(DefaultPollInterval, cfg.Wait.PollInterval)
	assert.Equal(90*time.Second, cfg.Wait.MaxWait)

	assert.Contains(out, `"delay": "2s"`)
	assert.Contains(out, `"max_wait": "1m30s"`)
	assert.Contains(out, `"connect_timeout": "3s"`)
}

func TestBootstrapDumpRoundTrips(t *testing.T) {
	src := DefaultBootstrap()
	src.Wait.Delay = 1500 * time.Millisecond
	src.ShardedDatabases = []string{"library_management"}

	path := writeCfg(t, "dump.json", src.String())
	_, err := LoadBootstrapCfg(path)
	require.NoError(t, err)

	got := BootstrapConfig()
	assert.Equal(t, src.Wait, got.Wait)
	assert.Equal(t, src.ConnectTimeout, got.ConnectTimeout)
	assert.Equal(t, src.ReplicaSets, got.ReplicaSets)
	assert.Equal(t, src.ShardedDatabases, got.ShardedDatabases)
}

func TestLoadBootstrapCfgJSONBadDuration(t *testing.T) {
	path := writeCfg(t, "bootstrap.json", `{"wait": {"delay": "soon"}}`)

	_, err := LoadBootstrapCfg(path)
	assert.ErrorContains(t, err, "soon")
}

func TestLoadBootstrapCfgErrors(t *testing.T) {
	tests := []struct {
		name string
		file string
		body string
	}{
		{
			name: "unknown suffix",
			file: "bootstrap.ini",
			body: "router_uri=x",
		},
		{
			name: "bad strategy",
			file: "bootstrap.yaml",
			body: "wait:\n  strategy: sleep\n",
		},
		{
			name: "duplicate replica set",
			file: "bootstrap.yaml",
			body: `
replica_sets:
  - id: rs0
    members: [{id: 0, host: "a:1"}]
  - id: rs0
    members: [{id: 0, host: "b:1"}]
`,
		},
		{
			name: "member without port",
			file: "bootstrap.yaml",
			body: `
replica_sets:
  - id: rs0
    members: [{id: 0, host: "a"}]
`,
		},
		{
			name: "bad sslmode",
			file: "bootstrap.yaml",
			body: "tls:\n  sslmode: sometimes\n",
		},
		{
			name: "password without user",
			file: "bootstrap.yaml",
			body: "password: x\n",
		},
		{
			name: "poll interval above max wait",
			file: "bootstrap.yaml",
			body: "wait:\n  poll_interval: 10m\n  max_wait: 1m\n",
		},
		{
			name: "empty sharded database",
			file: "bootstrap.yaml",
			body: "sharded_databases: [\"\"]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadBootstrapCfg(writeCfg(t, tt.file, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadBootstrapCfgMissingFile(t *testing.T) {
	_, err := LoadBootstrapCfg(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
