package service

import (
	"context"
	"fmt"

	"github.com/onebytwo/account-eraser/internal/model"
)

// WriteGroupAccumulator queues operations into write groups of at most limit
// operations. A full group is committed before the next operation is queued.
type WriteGroupAccumulator struct {
	newGroup func() model.WriteGroup
	limit    int
	onCommit func(size int)

	pending model.WriteGroup
	commits int
	written int
}

// NewWriteGroupAccumulator creates an accumulator. Limits outside
// [1, model.MaxWriteGroupSize] fall back to model.MaxWriteGroupSize.
// onCommit may be nil.
func NewWriteGroupAccumulator(newGroup func() model.WriteGroup, limit int, onCommit func(size int)) *WriteGroupAccumulator {
	if limit <= 0 || limit > model.MaxWriteGroupSize {
		limit = model.MaxWriteGroupSize
	}
	return &WriteGroupAccumulator{
		newGroup: newGroup,
		limit:    limit,
		onCommit: onCommit,
	}
}

// Add queues op and commits the pending group once it reaches the limit.
func (a *WriteGroupAccumulator) Add(ctx context.Context, op model.Operation) error {
	if a.pending == nil {
		a.pending = a.newGroup()
	}

	a.pending.Queue(op)
	if a.pending.Len() >= a.limit {
		return a.commit(ctx)
	}

	return nil
}

// Flush commits the partially filled group, if any.
func (a *WriteGroupAccumulator) Flush(ctx context.Context) error {
	if a.pending == nil || a.pending.Len() == 0 {
		return nil
	}
	return a.commit(ctx)
}

// Commits returns the number of successfully committed groups.
func (a *WriteGroupAccumulator) Commits() int {
	return a.commits
}

// Written returns the number of operations in committed groups.
func (a *WriteGroupAccumulator) Written() int {
	return a.written
}

func (a *WriteGroupAccumulator) commit(ctx context.Context) error {
	size := a.pending.Len()
	if err := a.pending.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit write group of %d operations: %w", size, err)
	}

	a.pending = nil
	a.commits++
	a.written += size
	if a.onCommit != nil {
		a.onCommit(size)
	}

	return nil
}
