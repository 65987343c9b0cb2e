package testsupport

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ParticipantLoop is one participant's full advance-until-done routine. It
// receives a context so it can honor cancellation triggered by the other
// participant's failure.
type ParticipantLoop func(ctx context.Context) error

// RunParticipants runs two participant loops concurrently via
// errgroup.WithContext, so the first failure cancels the context passed to
// the other loop. It returns once both loops have returned; a loop blocked
// on a channel operation that is not bound to that context stays blocked.
func RunParticipants(ctx context.Context, first, second ParticipantLoop) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return first(gctx) })
	g.Go(func() error { return second(gctx) })
	return g.Wait()
}
