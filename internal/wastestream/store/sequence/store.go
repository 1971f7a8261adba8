// Package sequence provides the per-processor monotonic counters behind waste
// stream number generation. The increment must be a single atomic operation:
// a read-then-write of "highest existing number" races under concurrent draft
// creation.
package sequence

import "context"

// Store hands out the next sequence value for a processor registry number.
// Values are strictly increasing per processor and never reused.
type Store interface {
	Next(ctx context.Context, processorNumber string) (int64, error)
}
