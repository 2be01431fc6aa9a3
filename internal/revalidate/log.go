package revalidate

import (
	"context"
	"log"
)

// LogSignaler implements Signaler by logging the path. Used when no
// revalidation webhook is configured.
type LogSignaler struct{}

func NewLogSignaler() *LogSignaler {
	return &LogSignaler{}
}

func (s *LogSignaler) Revalidate(ctx context.Context, path string) error {
	log.Printf("🔄 [LogSignaler] Revalidate signal for path: %s", path)
	return nil
}
