package testutil

import (
	"context"
	"testing"

	"go.uber.org/mock/gomock"
)

type runIDKey struct{}

// runMatcher accepts any context derived from the one it was built for,
// including ones with deadlines layered on top.
type runMatcher struct {
	id string
}

func (m *runMatcher) Matches(x any) bool {
	ctx, ok := x.(context.Context)
	if !ok {
		return false
	}
	id, _ := ctx.Value(runIDKey{}).(string)
	return id == m.id
}

func (m *runMatcher) String() string {
	return "context of run " + m.id
}

// MatchContext tags ctx with a fresh run id and returns a gomock matcher
// that only accepts contexts carrying that id.
func MatchContext(t *testing.T, ctx context.Context) (context.Context, gomock.Matcher) {
	id := NewUUIDStr(t)
	return context.WithValue(ctx, runIDKey{}, id), &runMatcher{id: id}
}

