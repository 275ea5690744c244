package service

import (
	"context"

	"github.com/google/uuid"
)

// DefaultMaxHierarchyDepth bounds the parent walk when no depth is configured.
const DefaultMaxHierarchyDepth = 1000

// parentLookup returns the parent of a task, or nil for a root task.
type parentLookup func(ctx context.Context, id uuid.UUID) (*uuid.UUID, error)

// hasCycle walks the parent chain upward from start and reports whether
// linking target under start would close a loop. The walk also reports a
// cycle when it revisits a task or exceeds maxDepth steps, since either means
// the stored hierarchy is already corrupted.
func hasCycle(ctx context.Context, lookup parentLookup, target, start uuid.UUID, maxDepth int) (bool, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxHierarchyDepth
	}

	visited := make(map[uuid.UUID]struct{})
	current := &start
	for depth := 0; current != nil; depth++ {
		id := *current
		if id == target {
			return true, nil
		}
		if _, seen := visited[id]; seen {
			return true, nil
		}
		if depth >= maxDepth {
			return true, nil
		}
		visited[id] = struct{}{}

		if err := ctx.Err(); err != nil {
			return false, err
		}

		parent, err := lookup(ctx, id)
		if err != nil {
			return false, err
		}
		current = parent
	}
	return false, nil
}
