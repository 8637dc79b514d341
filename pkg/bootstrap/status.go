package bootstrap

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pg-sharding/mongoshard/pkg/admin"
	"github.com/pg-sharding/mongoshard/pkg/models/topology"
)

const statusParallelism = 4

type SetReport struct {
	ReplicaSet *topology.ReplicaSet
	Status     *topology.ReplicaSetStatus
	Err        error
}

// StatusReport queries every replica set concurrently. Per-set failures land
// in the report; only cancellation of ctx fails the whole call.
func StatusReport(ctx context.Context, adm admin.Admin, sets []*topology.ReplicaSet) ([]*SetReport, error) {
	reports := make([]*SetReport, len(sets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusParallelism)
	for i, rs := range sets {
		g.Go(func() error {
			status, err := adm.ReplicaSetStatus(gctx, rs)
			reports[i] = &SetReport{
				ReplicaSet: rs,
				Status:     status,
				Err:        err,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return reports, nil
}
