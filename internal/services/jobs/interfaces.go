package jobs

import (
	"context"
	"time"
)

// JobFunc is one unit of work; ctx carries the job's deadline
type JobFunc func(ctx context.Context) error

// Queue accepts work for asynchronous execution. Callers observe no result;
// outcomes are logged and counted by the queue.
type Queue interface {
	// Enqueue waits for room while the queue is full
	Enqueue(name string, fn JobFunc, timeout time.Duration) error
	// TryEnqueue returns ErrQueueFull instead of waiting
	TryEnqueue(name string, fn JobFunc, timeout time.Duration) error
}

var _ Queue = (*Pool)(nil)
