package worker

import (
	"context"
	"log/slog"
	"sync"

	"github.com/zephyrpay/remit/internal/application/dto"
	"github.com/zephyrpay/remit/internal/application/usecase"
	"github.com/zephyrpay/remit/internal/domain/port"
)

// Pool consumes the task queue with a bounded set of workers and dispatches
// each continuation to its use case. Failures are logged and dropped; the
// status guards make a retried or lost task harmless, and batch sync re-arms
// lost payout continuations.
type Pool struct {
	queue       *Queue
	pay         *usecase.PayRemittance
	payout      *usecase.InitiatePayout
	concurrency int
	logger      *slog.Logger
}

func NewPool(queue *Queue, pay *usecase.PayRemittance, payout *usecase.InitiatePayout, concurrency int, logger *slog.Logger) *Pool {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Pool{
		queue:       queue,
		pay:         pay,
		payout:      payout,
		concurrency: concurrency,
		logger:      logger,
	}
}

// Run blocks until ctx is cancelled, then waits for in-flight tasks.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.work(ctx)
		}()
	}
	wg.Wait()
}

func (p *Pool) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-p.queue.Tasks():
			p.dispatch(ctx, task)
		}
	}
}

func (p *Pool) dispatch(ctx context.Context, task port.Task) {
	var err error
	switch task.Kind {
	case port.TaskPayRemittance:
		_, err = p.pay.Execute(ctx, dto.PayRemittanceRequest{RemittanceID: task.RemittanceID})
	case port.TaskInitiatePayout:
		_, err = p.payout.Execute(ctx, task.RemittanceID)
	default:
		p.logger.Error("unknown task kind", "kind", task.Kind, "remittance_id", task.RemittanceID)
		return
	}

	if err != nil {
		p.logger.Warn("task execution failed",
			"kind", task.Kind,
			"remittance_id", task.RemittanceID,
			"error", err)
	}
}
