// Package execution runs independent deletions on a fixed pool of workers.
package execution

import (
	"context"

	"qcr/internal/domain"
)

// DeleteTask identifies one entity to delete
type DeleteTask struct {
	// ID is the identifier passed to the API (numeric id or hash)
	ID string
	// Label is what the user sees, e.g. the field title or file name
	Label string
}

// DeleteResult is the outcome of one deletion
type DeleteResult struct {
	Task     DeleteTask
	WorkerID int
	Err      error
}

// Deleter deletes a single entity
type Deleter interface {
	Delete(ctx context.Context, task DeleteTask) error
}

// DeleterFunc adapts a function to Deleter
type DeleterFunc func(ctx context.Context, task DeleteTask) error

// Delete calls f(ctx, task)
func (f DeleterFunc) Delete(ctx context.Context, task DeleteTask) error {
	return f(ctx, task)
}

// Executor deletes a set of entities and reports the tally
type Executor interface {
	Execute(ctx context.Context, tasks []DeleteTask) (domain.DeleteStats, []DeleteResult)
}
