package mongoadm

import (
	"context"
	"errors"
	"fmt"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"github.com/pg-sharding/mongoshard/pkg/admin"
	"github.com/pg-sharding/mongoshard/pkg/models/mserror"
	"github.com/pg-sharding/mongoshard/pkg/models/topology"
	"github.com/pg-sharding/mongoshard/pkg/mslog"
)

// Server error codes, see src/mongo/base/error_codes.yml.
const (
	codeAlreadyInitialized = 23
	codeNotYetInitialized  = 94
)

const adminDB = "admin"

type Adapter struct {
	opts *Options

	router *mongo.Client

	mu     sync.Mutex
	direct map[string]*mongo.Client

	commands atomic.Int64
}

var _ admin.Admin = &Adapter{}

// NewAdapter prepares the router client. The driver connects lazily, so no
// server is contacted until the first command.
func NewAdapter(opts *Options) (*Adapter, error) {
	router, err := mongo.Connect(opts.routerClientOptions())
	if err != nil {
		return nil, mserror.Newf(mserror.MSH_CONNECTION_ERROR, "router %s: %w", opts.RouterURI, err)
	}

	mslog.Zero.Debug().
		Str("uri", opts.RouterURI).
		Uint("client", mslog.GetPointer(router)).
		Msg("mongoadm: router client created")

	return &Adapter{
		opts:   opts,
		router: router,
		direct: map[string]*mongo.Client{},
	}, nil
}

func (a *Adapter) memberClient(host string) (*mongo.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if cl, ok := a.direct[host]; ok {
		return cl, nil
	}
	cl, err := mongo.Connect(a.opts.memberClientOptions(host))
	if err != nil {
		return nil, mserror.Newf(mserror.MSH_CONNECTION_ERROR, "member %s: %w", host, err)
	}
	a.direct[host] = cl

	mslog.Zero.Debug().
		Str("host", host).
		Uint("client", mslog.GetPointer(cl)).
		Msg("mongoadm: member client created")
	return cl, nil
}

func (a *Adapter) logCommand(name string) {
	seq := a.commands.Inc()
	mslog.Zero.Debug().
		Str("command", name).
		Int64("seq", seq).
		Msg("mongoadm: running command")
}

func (a *Adapter) run(ctx context.Context, cl *mongo.Client, cmd bson.D, result any) error {
	if a.opts.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.CommandTimeout)
		defer cancel()
	}
	a.logCommand(cmd[0].Key)

	res := cl.Database(adminDB).RunCommand(ctx, cmd)
	if err := res.Err(); err != nil {
		return classify(err)
	}
	if result == nil {
		return nil
	}
	return res.Decode(result)
}

// classify tags known server replies with the admin sentinels.
func classify(err error) error {
	var ce mongo.CommandError
	if !errors.As(err, &ce) {
		return err
	}
	switch ce.Code {
	case codeAlreadyInitialized:
		return fmt.Errorf("%w: %w", admin.ErrAlreadyInitialized, err)
	case codeNotYetInitialized:
		return fmt.Errorf("%w: %w", admin.ErrNotYetInitialized, err)
	default:
		return err
	}
}

func initiateCommand(rs *topology.ReplicaSet) bson.D {
	return bson.D{{Key: "replSetInitiate", Value: rs}}
}

func (a *Adapter) InitiateReplicaSet(ctx context.Context, rs *topology.ReplicaSet) error {
	host := rs.SeedHost()
	cl, err := a.memberClient(host)
	if err != nil {
		return err
	}
	if err := a.run(ctx, cl, initiateCommand(rs), nil); err != nil {
		return pkgerrors.Wrapf(err, "replSetInitiate %s on %s", rs.ID, host)
	}
	return nil
}

func (a *Adapter) ReplicaSetStatus(ctx context.Context, rs *topology.ReplicaSet) (*topology.ReplicaSetStatus, error) {
	host := rs.SeedHost()
	cl, err := a.memberClient(host)
	if err != nil {
		return nil, err
	}
	status := &topology.ReplicaSetStatus{}
	if err := a.run(ctx, cl, bson.D{{Key: "replSetGetStatus", Value: 1}}, status); err != nil {
		return nil, pkgerrors.Wrapf(err, "replSetGetStatus %s on %s", rs.ID, host)
	}
	return status, nil
}

func (a *Adapter) PingRouter(ctx context.Context) error {
	if a.opts.CommandTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.opts.CommandTimeout)
		defer cancel()
	}
	a.logCommand("ping")
	return pkgerrors.Wrap(a.router.Ping(ctx, readpref.Primary()), "ping router")
}

func (a *Adapter) AddShard(ctx context.Context, connString string) error {
	if err := a.run(ctx, a.router, bson.D{{Key: "addShard", Value: connString}}, nil); err != nil {
		return pkgerrors.Wrapf(err, "addShard %s", connString)
	}
	return nil
}

type listShardsReply struct {
	Shards []*topology.Shard `bson:"shards"`
}

func (a *Adapter) ListShards(ctx context.Context) ([]*topology.Shard, error) {
	var reply listShardsReply
	if err := a.run(ctx, a.router, bson.D{{Key: "listShards", Value: 1}}, &reply); err != nil {
		return nil, pkgerrors.Wrap(err, "listShards")
	}
	return reply.Shards, nil
}

func (a *Adapter) EnableSharding(ctx context.Context, database string) error {
	if err := a.run(ctx, a.router, bson.D{{Key: "enableSharding", Value: database}}, nil); err != nil {
		return pkgerrors.Wrapf(err, "enableSharding %s", database)
	}
	return nil
}

// Close disconnects every client concurrently and joins the failures.
func (a *Adapter) Close(ctx context.Context) error {
	a.mu.Lock()
	clients := make([]*mongo.Client, 0, len(a.direct)+1)
	clients = append(clients, a.router)
	for _, cl := range a.direct {
		clients = append(clients, cl)
	}
	a.direct = map[string]*mongo.Client{}
	a.mu.Unlock()

	errs := make([]error, len(clients))
	var g errgroup.Group
	for i, cl := range clients {
		g.Go(func() error {
			errs[i] = cl.Disconnect(ctx)
			return nil
		})
	}
	_ = g.Wait()

	mslog.Zero.Debug().
		Int64("commands", a.commands.Load()).
		Int("clients", len(clients)).
		Msg("mongoadm: closed")

	return errors.Join(errs...)
}
