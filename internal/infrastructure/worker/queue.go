package worker

import (
	"context"
	"fmt"

	"github.com/zephyrpay/remit/internal/domain/port"
)

// Compile-time interface check.
var _ port.TaskQueue = (*Queue)(nil)

// Queue is an in-process TaskQueue backed by a buffered channel. Enqueue
// never blocks on task execution; a full queue is reported to the caller,
// which treats it as a lost continuation to be re-armed by sync.
type Queue struct {
	tasks chan port.Task
}

func NewQueue(depth int) *Queue {
	if depth <= 0 {
		depth = 256
	}
	return &Queue{tasks: make(chan port.Task, depth)}
}

func (q *Queue) Enqueue(_ context.Context, task port.Task) error {
	select {
	case q.tasks <- task:
		return nil
	default:
		return fmt.Errorf("task queue full, dropping %s for %s", task.Kind, task.RemittanceID)
	}
}

// Tasks exposes the consume side for the worker pool.
func (q *Queue) Tasks() <-chan port.Task {
	return q.tasks
}
