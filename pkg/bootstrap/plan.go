package bootstrap

import (
	"fmt"
	"io"
)

type StepKind string

const (
	StepInitiate       = StepKind("initiate")
	StepWait           = StepKind("wait")
	StepWaitRouter     = StepKind("wait-router")
	StepAddShard       = StepKind("add-shard")
	StepEnableSharding = StepKind("enable-sharding")
	StepVerify         = StepKind("verify")
)

type Step struct {
	Kind   StepKind
	Target string
	Detail string
}

// Steps lists what Run would do, in order, without touching the cluster.
func (b *Bootstrapper) Steps() []Step {
	steps := make([]Step, 0, 2*len(b.sets)+len(b.sets)+len(b.opts.ShardedDatabases)+2)
	for _, rs := range b.sets {
		steps = append(steps,
			Step{Kind: StepInitiate, Target: rs.ID, Detail: fmt.Sprintf("members %v via %s", rs.Hosts(), rs.SeedHost())},
			Step{Kind: StepWait, Target: rs.ID, Detail: b.waiter.String()},
		)
	}
	if _, ok := b.waiter.(*PollWaiter); ok {
		steps = append(steps, Step{Kind: StepWaitRouter, Target: "router", Detail: b.waiter.String()})
	}
	for _, rs := range b.sets {
		detail := ""
		if b.opts.SkipExisting {
			detail = "skipped if already registered"
		}
		steps = append(steps, Step{Kind: StepAddShard, Target: rs.ConnString(), Detail: detail})
	}
	for _, db := range b.opts.ShardedDatabases {
		steps = append(steps, Step{Kind: StepEnableSharding, Target: db})
	}
	if b.opts.Verify {
		steps = append(steps, Step{Kind: StepVerify, Target: "router", Detail: "listShards contains every replica set"})
	}
	return steps
}

func (b *Bootstrapper) Plan(w io.Writer) error {
	for i, st := range b.Steps() {
		line := fmt.Sprintf("%2d. %-15s %s", i+1, st.Kind, st.Target)
		if st.Detail != "" {
			line += " (" + st.Detail + ")"
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
