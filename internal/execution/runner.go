package execution

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Runner performs a single deletion and logs it
type Runner struct {
	deleter Deleter
	logger  *zap.Logger
}

// NewRunner creates a new Runner
func NewRunner(deleter Deleter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{deleter: deleter, logger: logger}
}

// Run deletes one entity on behalf of a worker
func (r *Runner) Run(ctx context.Context, task DeleteTask, workerID int) DeleteResult {
	start := time.Now()
	err := r.deleter.Delete(ctx, task)

	fields := []zap.Field{
		zap.String("id", task.ID),
		zap.String("label", task.Label),
		zap.Int("worker", workerID),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		r.logger.Warn("delete failed", append(fields, zap.Error(err))...)
	} else {
		r.logger.Debug("deleted", fields...)
	}

	return DeleteResult{
		Task:     task,
		WorkerID: workerID,
		Err:      err,
	}
}
