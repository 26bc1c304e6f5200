package gap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockgap/internal/core/apperror"
	"stockgap/internal/core/id"
)

// fakeLocationTree serves ListActiveChildIDs from an in-memory adjacency
// map, the same shape the SQL repo produces: inactive children are already
// filtered out.
type fakeLocationTree struct {
	children map[id.ID][]id.ID
	known    map[id.ID]bool
}

func newFakeLocationTree() *fakeLocationTree {
	return &fakeLocationTree{
		children: make(map[id.ID][]id.ID),
		known:    make(map[id.ID]bool),
	}
}

func (f *fakeLocationTree) add(parent, child id.ID) {
	f.children[parent] = append(f.children[parent], child)
	f.known[parent] = true
	f.known[child] = true
}

func (f *fakeLocationTree) Exists(_ context.Context, locationID id.ID) (bool, error) {
	return f.known[locationID], nil
}

func (f *fakeLocationTree) ListActiveChildIDs(_ context.Context, parentID id.ID) ([]id.ID, error) {
	return f.children[parentID], nil
}

func TestResolver_RootOnly(t *testing.T) {
	tree := newFakeLocationTree()
	root := id.New()
	tree.known[root] = true

	set, err := NewResolver(tree).Resolve(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, set, 1)
	assert.True(t, set.Contains(root))
}

func TestResolver_MultiLevel(t *testing.T) {
	tree := newFakeLocationTree()
	root := id.New()
	zoneA := id.New()
	shelfA1 := id.New()
	shelfA2 := id.New()
	zoneB := id.New()

	tree.add(root, zoneA)
	tree.add(root, zoneB)
	tree.add(zoneA, shelfA1)
	tree.add(zoneA, shelfA2)

	set, err := NewResolver(tree).Resolve(context.Background(), root)
	require.NoError(t, err)

	assert.Len(t, set, 5)
	for _, loc := range []id.ID{root, zoneA, zoneB, shelfA1, shelfA2} {
		assert.True(t, set.Contains(loc))
	}
}

func TestResolver_PrunedSubtree(t *testing.T) {
	// zoneB is inactive: the repo never lists it as a child of root, so
	// shelfB1 under it must stay unreachable even though shelfB1 itself
	// is active.
	tree := newFakeLocationTree()
	root := id.New()
	zoneA := id.New()
	zoneB := id.New()
	shelfB1 := id.New()

	tree.add(root, zoneA)
	tree.known[zoneB] = true
	tree.add(zoneB, shelfB1) // reachable only through the inactive zone

	set, err := NewResolver(tree).Resolve(context.Background(), root)
	require.NoError(t, err)

	assert.True(t, set.Contains(zoneA))
	assert.False(t, set.Contains(zoneB))
	assert.False(t, set.Contains(shelfB1))
}

func TestResolver_UnknownRoot(t *testing.T) {
	tree := newFakeLocationTree()

	_, err := NewResolver(tree).Resolve(context.Background(), id.New())
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestResolver_CycleFails(t *testing.T) {
	tree := newFakeLocationTree()
	a := id.New()
	b := id.New()
	tree.add(a, b)
	tree.add(b, a)

	_, err := NewResolver(tree).Resolve(context.Background(), a)
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeLocationCycle, appErr.Code)
}
