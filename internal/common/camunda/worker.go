// internal/common/camunda/worker.go
package camunda

import (
	"fmt"
	"time"

	"site-functions/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

type WorkerOptions struct {
	TaskType      string
	MaxJobsActive int
	Timeout       time.Duration
	Handler       worker.JobHandler
	Logger        logger.Logger
}

// Worker is an open job worker for one task type.
type Worker struct {
	worker   worker.JobWorker
	logger   logger.Logger
	taskType string
}

// NewWorker opens a job worker on client. Closing the worker does not close
// the client.
func NewWorker(client zbc.Client, opts WorkerOptions) *Worker {
	builder := client.NewJobWorker().
		JobType(opts.TaskType).
		Handler(opts.Handler).
		MaxJobsActive(opts.MaxJobsActive).
		Name(fmt.Sprintf("%s-worker", opts.TaskType))

	if opts.Timeout > 0 {
		builder = builder.Timeout(opts.Timeout)
	}

	return &Worker{
		worker:   builder.Open(),
		logger:   opts.Logger,
		taskType: opts.TaskType,
	}
}

// Stop closes the worker and waits for in-flight jobs to be handed back.
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker", map[string]interface{}{
		"taskType": w.taskType,
	})
	w.worker.Close()
	w.worker.AwaitClose()
}
