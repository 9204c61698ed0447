// Package workers
package workers

import "context"

// Worker is one periodic background task. Run errors are logged by the
// scheduler and never stop the loop; workers are self-healing by
// construction and simply retried on the next tick.
type Worker interface {
	Name() string
	Run(ctx context.Context) error
}
