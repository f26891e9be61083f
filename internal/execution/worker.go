package execution

import (
	"context"
	"sync"

	"qcr/internal/domain"
	"qcr/internal/ui"
)

// DeletePool manages a fixed pool of workers for parallel deletion.
// Workers share only the tallies, guarded by a mutex. A failed deletion is
// counted and never retried, and the pool always drains the whole queue.
type DeletePool struct {
	workers  int
	runner   *Runner
	progress *ui.ProgressBar
}

// NewDeletePool creates a new DeletePool
func NewDeletePool(workers int, runner *Runner) *DeletePool {
	if workers <= 0 {
		workers = 1
	}
	return &DeletePool{
		workers: workers,
		runner:  runner,
	}
}

// SetProgress sets the progress bar for the pool
func (p *DeletePool) SetProgress(progress *ui.ProgressBar) {
	p.progress = progress
}

// Execute deletes every task and returns the tally with per-task results
func (p *DeletePool) Execute(ctx context.Context, tasks []DeleteTask) (domain.DeleteStats, []DeleteResult) {
	stats := domain.DeleteStats{Total: len(tasks), Workers: p.workers}
	if len(tasks) == 0 {
		return stats, nil
	}

	queue := make(chan DeleteTask, len(tasks))
	results := make(chan DeleteResult, len(tasks))
	for _, task := range tasks {
		queue <- task
	}
	close(queue)

	workerCount := p.workers
	if workerCount > len(tasks) {
		workerCount = len(tasks)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 1; i <= workerCount; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for task := range queue {
				result := p.runner.Run(ctx, task, workerID)
				results <- result
				mu.Lock()
				if result.Err != nil {
					stats.Failed++
				} else {
					stats.Deleted++
				}
				if p.progress != nil {
					p.progress.Update(stats.Deleted+stats.Failed, stats.Deleted, stats.Failed)
				}
				mu.Unlock()
			}
		}(i)
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var all []DeleteResult
	for result := range results {
		all = append(all, result)
	}
	if p.progress != nil {
		p.progress.Finish()
	}
	return stats, all
}
