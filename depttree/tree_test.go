// api/depttree/tree_test.go
package depttree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/argus-admin/argus/api/depttree"
	argus_errors "github.com/argus-admin/argus/api/errors"
	"github.com/argus-admin/argus/api/model"
)

func fixtureDepartments() []model.Department {
	return []model.Department{
		{ID: 1, Name: "Headquarters", ParentID: 0},
		{ID: 2, Name: "Engineering", ParentID: 1},
		{ID: 3, Name: "Quality Assurance", ParentID: 1},
		{ID: 5, Name: "Frontend Group", ParentID: 2},
		{ID: 6, Name: "Backend Group", ParentID: 2},
		{ID: 7, Name: "Marketing", ParentID: 0},
	}
}

func TestBuildAndFlatten(t *testing.T) {
	forest := depttree.Build(fixtureDepartments())

	assert.Equal(t, 6, forest.Len())

	flat := forest.Flatten()
	ids := make([]int, 0, len(flat))
	for _, d := range flat {
		ids = append(ids, d.ID)
	}
	// Pre-order: parent immediately before descendants, siblings in input order.
	assert.Equal(t, []int{1, 2, 5, 6, 3, 7}, ids)
}

func TestRebuildFromFlattenIsStructurallyEqual(t *testing.T) {
	forest := depttree.Build(fixtureDepartments())
	rebuilt := depttree.Build(forest.Flatten())

	assert.Equal(t, forest.Len(), rebuilt.Len())
	assert.Equal(t, forest.Flatten(), rebuilt.Flatten())
}

func TestBuildDropsOrphans(t *testing.T) {
	depts := append(fixtureDepartments(),
		model.Department{ID: 20, Name: "Lost Team", ParentID: 99},
		// Child of the orphan must be dropped with it, not promoted.
		model.Department{ID: 21, Name: "Lost Subteam", ParentID: 20},
	)

	forest := depttree.Build(depts)

	assert.Equal(t, 6, forest.Len())
	_, ok := forest.Find(20)
	assert.False(t, ok)
	_, ok = forest.Find(21)
	assert.False(t, ok)
}

func TestBuildVisiblePromotesCutRoots(t *testing.T) {
	// A mid-tree slice, as produced by scope filtering: Engineering and its
	// groups without Headquarters.
	forest := depttree.BuildVisible([]model.Department{
		{ID: 2, Name: "Engineering", ParentID: 1},
		{ID: 5, Name: "Frontend Group", ParentID: 2},
		{ID: 6, Name: "Backend Group", ParentID: 2},
	})

	assert.Equal(t, 3, forest.Len())
	roots := forest.Roots()
	require.Len(t, roots, 1)
	assert.Equal(t, "Engineering", roots[0].Name)
	// The record keeps its real parent id even as a promoted root.
	assert.Equal(t, 1, roots[0].ParentID)
	assert.Len(t, roots[0].Children, 2)
}

func TestBuildIgnoresDuplicateIDs(t *testing.T) {
	depts := append(fixtureDepartments(),
		model.Department{ID: 2, Name: "Engineering Copy", ParentID: 7})

	forest := depttree.Build(depts)

	d, ok := forest.Find(2)
	require.True(t, ok)
	assert.Equal(t, "Engineering", d.Name)
	assert.Equal(t, 1, d.ParentID)
}

func TestFindAndHasChildren(t *testing.T) {
	forest := depttree.Build(fixtureDepartments())

	d, ok := forest.Find(5)
	require.True(t, ok)
	assert.Equal(t, "Frontend Group", d.Name)

	assert.True(t, forest.HasChildren(2))
	assert.False(t, forest.HasChildren(5))
	assert.False(t, forest.HasChildren(404))
}

func TestSubtree(t *testing.T) {
	forest := depttree.Build(fixtureDepartments())

	node, ok := forest.Subtree(2)
	require.True(t, ok)
	assert.Equal(t, "Engineering", node.Name)
	require.Len(t, node.Children, 2)
	assert.Equal(t, "Frontend Group", node.Children[0].Name)
	assert.Equal(t, "Backend Group", node.Children[1].Name)

	_, ok = forest.Subtree(404)
	assert.False(t, ok)
}

func TestDescendantIDs(t *testing.T) {
	forest := depttree.Build(fixtureDepartments())

	assert.Equal(t, []int{2, 5, 6}, forest.DescendantIDs(2))
	assert.Equal(t, []int{7}, forest.DescendantIDs(7))
	assert.Nil(t, forest.DescendantIDs(404))
}

func TestPathOf(t *testing.T) {
	forest := depttree.Build(fixtureDepartments())

	assert.Equal(t, []int{0, 1}, forest.PathOf(1))
	assert.Equal(t, []int{0, 1, 2, 5}, forest.PathOf(5))
	assert.Equal(t, []int{0, 7}, forest.PathOf(7))
	assert.Nil(t, forest.PathOf(404))
}

func TestInsert(t *testing.T) {
	forest := depttree.Build(fixtureDepartments())

	ok := forest.Insert(model.Department{ID: 10, Name: "Design", ParentID: 3})
	require.True(t, ok)
	assert.Equal(t, []int{0, 1, 3, 10}, forest.PathOf(10))

	// Missing parent leaves the forest untouched.
	assert.False(t, forest.Insert(model.Department{ID: 11, Name: "Ghost", ParentID: 99}))
	_, found := forest.Find(11)
	assert.False(t, found)

	// Duplicate id is rejected.
	assert.False(t, forest.Insert(model.Department{ID: 10, Name: "Design Again", ParentID: 3}))

	// ParentID 0 inserts a new root.
	require.True(t, forest.Insert(model.Department{ID: 12, Name: "Legal", ParentID: 0}))
	assert.Equal(t, []int{0, 12}, forest.PathOf(12))
}

func TestUpdate(t *testing.T) {
	forest := depttree.Build(fixtureDepartments())

	name := "Platform Engineering"
	status := model.StatusDisabled
	require.True(t, forest.Update(2, model.DepartmentPatch{Name: &name, Status: &status}))

	d, ok := forest.Find(2)
	require.True(t, ok)
	assert.Equal(t, "Platform Engineering", d.Name)
	assert.Equal(t, model.StatusDisabled, d.Status)
	// Parent is immutable through Update.
	assert.Equal(t, 1, d.ParentID)

	assert.False(t, forest.Update(404, model.DepartmentPatch{Name: &name}))
}

func TestRemove(t *testing.T) {
	forest := depttree.Build(fixtureDepartments())

	removed, err := forest.Remove(5)
	require.NoError(t, err)
	assert.Equal(t, "Frontend Group", removed.Name)
	assert.Equal(t, 5, forest.Len())
	assert.Equal(t, []int{2, 6}, forest.DescendantIDs(2))

	_, err = forest.Remove(2)
	assert.ErrorIs(t, err, argus_errors.ErrDepartmentHasChildren)
	_, ok := forest.Find(2)
	assert.True(t, ok)

	_, err = forest.Remove(404)
	assert.ErrorIs(t, err, argus_errors.ErrDepartmentNotFound)
}

func TestNextIDAndIDs(t *testing.T) {
	forest := depttree.Build(fixtureDepartments())

	assert.Equal(t, 8, forest.NextID())
	assert.Equal(t, []int{1, 2, 3, 5, 6, 7}, forest.IDs())
}

func TestCloneIsIndependent(t *testing.T) {
	forest := depttree.Build(fixtureDepartments())
	clone := forest.Clone()

	_, err := clone.Remove(5)
	require.NoError(t, err)

	_, ok := forest.Find(5)
	assert.True(t, ok)
	assert.Equal(t, 6, forest.Len())
	assert.Equal(t, 5, clone.Len())
}
