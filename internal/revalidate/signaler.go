package revalidate

import "context"

// Signaler notifies the external rendering layer that cached output for a
// path is stale. Implementations must treat the signal as best-effort —
// data operations never fail because a revalidation did not land.
type Signaler interface {
	Revalidate(ctx context.Context, path string) error
}
