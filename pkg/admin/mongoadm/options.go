package mongoadm

import (
	"crypto/tls"
	"time"

	"github.com/pg-sharding/mongoshard/pkg/config"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const appName = "mongoshard"

type Options struct {
	RouterURI  string
	Username   string
	Password   string
	AuthSource string
	TLS        *tls.Config

	ConnectTimeout time.Duration
	CommandTimeout time.Duration
}

func OptionsFromConfig(cfg *config.Bootstrap) (*Options, error) {
	tlsCfg, err := cfg.TLS.Init()
	if err != nil {
		return nil, err
	}
	return &Options{
		RouterURI:      cfg.RouterURI,
		Username:       cfg.Username,
		Password:       cfg.Password,
		AuthSource:     cfg.AuthSource,
		TLS:            tlsCfg,
		ConnectTimeout: cfg.ConnectTimeout,
		CommandTimeout: cfg.CommandTimeout,
	}, nil
}

func (o *Options) apply(co *options.ClientOptions) *options.ClientOptions {
	co.SetAppName(appName)
	if o.ConnectTimeout > 0 {
		co.SetConnectTimeout(o.ConnectTimeout)
		co.SetServerSelectionTimeout(o.ConnectTimeout)
	}
	if o.Username != "" {
		co.SetAuth(options.Credential{
			Username:   o.Username,
			Password:   o.Password,
			AuthSource: o.AuthSource,
		})
	}
	if o.TLS != nil {
		co.SetTLSConfig(o.TLS)
	}
	return co
}

// routerClientOptions targets the mongos named by RouterURI.
func (o *Options) routerClientOptions() *options.ClientOptions {
	return o.apply(options.Client().ApplyURI(o.RouterURI))
}

// memberClientOptions targets a single replica set member directly, which is
// the only way to reach it before the set has a config.
func (o *Options) memberClientOptions(host string) *options.ClientOptions {
	return o.apply(options.Client().SetHosts([]string{host}).SetDirect(true))
}
