package gap

import (
	"context"

	"stockgap/internal/core/apperror"
	"stockgap/internal/core/id"
)

// ChildLister is the slice of the location catalog the resolver needs.
// Satisfied by location.Repository.
type ChildLister interface {
	Exists(ctx context.Context, locationID id.ID) (bool, error)
	ListActiveChildIDs(ctx context.Context, parentID id.ID) ([]id.ID, error)
}

// Resolver expands a warehouse's root stock location into the set of all
// locations contained in it.
type Resolver struct {
	locations ChildLister
}

// NewResolver creates a location resolver.
func NewResolver(locations ChildLister) *Resolver {
	return &Resolver{locations: locations}
}

// Resolve walks the containment tree from root and returns the set of
// reachable active locations, root included. The root is taken as-is even
// if flagged inactive: it is the warehouse's designated stock location.
//
// Traversal is an explicit worklist with a visited set. Containment is
// supposed to be a tree; a revisit means the catalog is misconfigured with
// a cycle and the run fails rather than looping.
func (r *Resolver) Resolve(ctx context.Context, root id.ID) (LocationSet, error) {
	exists, err := r.locations.Exists(ctx, root)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperror.NewNotFound("location", root.String())
	}

	set := NewLocationSet(root)
	worklist := []id.ID{root}

	for len(worklist) > 0 {
		current := worklist[0]
		worklist = worklist[1:]

		children, err := r.locations.ListActiveChildIDs(ctx, current)
		if err != nil {
			return nil, err
		}
		for _, child := range children {
			if set.Contains(child) {
				return nil, apperror.NewLocationCycle(child.String())
			}
			set.Add(child)
			worklist = append(worklist, child)
		}
	}

	return set, nil
}
