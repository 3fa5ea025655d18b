// api/depttree/tree.go
package depttree

import (
	"sort"

	argus_errors "github.com/argus-admin/argus/api/errors"
	"github.com/argus-admin/argus/api/model"
)

// Forest owns the department hierarchy as an arena keyed by department id,
// with parent/child links stored as id references. Nodes are never aliased
// between callers: query results are copies, so cascade operations stay
// atomic with respect to the arena.
type Forest struct {
	nodes map[int]*node
	roots []int
}

type node struct {
	dept     model.Department
	children []int
}

// Build groups a flat department list into a forest by ParentID. A record
// whose parent id matches no department in the list is an orphan and is
// silently dropped; orphans are not promoted to roots.
func Build(flat []model.Department) *Forest {
	f := &Forest{nodes: make(map[int]*node, len(flat))}

	for _, d := range flat {
		if _, dup := f.nodes[d.ID]; dup {
			continue
		}
		f.nodes[d.ID] = &node{dept: d}
	}

	// Attach in input order so sibling order is stable across rebuilds.
	for _, d := range flat {
		n, ok := f.nodes[d.ID]
		if !ok || n.dept != d {
			continue
		}
		if d.ParentID == 0 {
			f.roots = append(f.roots, d.ID)
			continue
		}
		parent, ok := f.nodes[d.ParentID]
		if !ok {
			delete(f.nodes, d.ID)
			continue
		}
		parent.children = append(parent.children, d.ID)
	}

	// A dropped orphan may itself have had children attached already.
	f.pruneUnreachable()
	return f
}

// BuildVisible groups a filtered slice of an existing tree into a forest.
// Unlike Build, a record whose parent is absent from the slice is promoted
// to a root instead of dropped: the caller already decided every record in
// the slice should be visible.
func BuildVisible(flat []model.Department) *Forest {
	f := &Forest{nodes: make(map[int]*node, len(flat))}

	for _, d := range flat {
		if _, dup := f.nodes[d.ID]; dup {
			continue
		}
		f.nodes[d.ID] = &node{dept: d}
	}

	for _, d := range flat {
		n, ok := f.nodes[d.ID]
		if !ok || n.dept != d {
			continue
		}
		parent, ok := f.nodes[d.ParentID]
		if d.ParentID == 0 || !ok {
			f.roots = append(f.roots, d.ID)
			continue
		}
		parent.children = append(parent.children, d.ID)
	}
	return f
}

func (f *Forest) pruneUnreachable() {
	reachable := make(map[int]struct{}, len(f.nodes))
	var mark func(id int)
	mark = func(id int) {
		if _, seen := reachable[id]; seen {
			return
		}
		reachable[id] = struct{}{}
		for _, c := range f.nodes[id].children {
			mark(c)
		}
	}
	for _, r := range f.roots {
		mark(r)
	}
	for id := range f.nodes {
		if _, ok := reachable[id]; !ok {
			delete(f.nodes, id)
		}
	}
}

// Flatten returns every department in deterministic pre-order: each parent
// immediately before its descendants, siblings in insertion order.
func (f *Forest) Flatten() []model.Department {
	out := make([]model.Department, 0, len(f.nodes))
	var walk func(id int)
	walk = func(id int) {
		n := f.nodes[id]
		out = append(out, n.dept)
		for _, c := range n.children {
			walk(c)
		}
	}
	for _, r := range f.roots {
		walk(r)
	}
	return out
}

// Len reports the number of departments in the forest.
func (f *Forest) Len() int {
	return len(f.nodes)
}

// Find returns the department with the given id.
func (f *Forest) Find(id int) (model.Department, bool) {
	n, ok := f.nodes[id]
	if !ok {
		return model.Department{}, false
	}
	return n.dept, true
}

// HasChildren reports whether the department has at least one child.
func (f *Forest) HasChildren(id int) bool {
	n, ok := f.nodes[id]
	return ok && len(n.children) > 0
}

// Subtree returns a deep copy of the node with the given id and its whole
// descendant closure, or false when the id is absent.
func (f *Forest) Subtree(id int) (*model.DepartmentNode, bool) {
	if _, ok := f.nodes[id]; !ok {
		return nil, false
	}
	return f.copyNode(id), true
}

func (f *Forest) copyNode(id int) *model.DepartmentNode {
	n := f.nodes[id]
	out := &model.DepartmentNode{Department: n.dept}
	for _, c := range n.children {
		out.Children = append(out.Children, f.copyNode(c))
	}
	return out
}

// Roots returns a deep copy of the whole forest as department nodes.
func (f *Forest) Roots() []*model.DepartmentNode {
	out := make([]*model.DepartmentNode, 0, len(f.roots))
	for _, r := range f.roots {
		out = append(out, f.copyNode(r))
	}
	return out
}

// DescendantIDs returns the id of the given department followed by the ids
// of every descendant in pre-order. Nil when the id is absent.
func (f *Forest) DescendantIDs(id int) []int {
	if _, ok := f.nodes[id]; !ok {
		return nil
	}
	var out []int
	var walk func(id int)
	walk = func(id int) {
		out = append(out, id)
		for _, c := range f.nodes[id].children {
			walk(c)
		}
	}
	walk(id)
	return out
}

// PathOf returns the root-to-node id sequence for the given department,
// starting with 0 for the virtual root, e.g. [0 1 3]. Nil when absent.
func (f *Forest) PathOf(id int) []int {
	n, ok := f.nodes[id]
	if !ok {
		return nil
	}
	var rev []int
	for {
		rev = append(rev, n.dept.ID)
		if n.dept.ParentID == 0 {
			break
		}
		parent, ok := f.nodes[n.dept.ParentID]
		if !ok {
			break
		}
		n = parent
	}
	path := make([]int, 0, len(rev)+1)
	path = append(path, 0)
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}

// Insert adds a department under its parent. It returns false and leaves
// the forest untouched when the parent is absent or the id already exists.
// ParentID 0 inserts a new root.
func (f *Forest) Insert(dept model.Department) bool {
	if dept.ID <= 0 {
		return false
	}
	if _, exists := f.nodes[dept.ID]; exists {
		return false
	}
	if dept.ParentID == 0 {
		f.nodes[dept.ID] = &node{dept: dept}
		f.roots = append(f.roots, dept.ID)
		return true
	}
	parent, ok := f.nodes[dept.ParentID]
	if !ok {
		return false
	}
	f.nodes[dept.ID] = &node{dept: dept}
	parent.children = append(parent.children, dept.ID)
	return true
}

// Update merges the patch into the department with the given id. It returns
// false when the id is absent. Id and parent are immutable.
func (f *Forest) Update(id int, patch model.DepartmentPatch) bool {
	n, ok := f.nodes[id]
	if !ok {
		return false
	}
	if patch.Name != nil {
		n.dept.Name = *patch.Name
	}
	if patch.OrderNum != nil {
		n.dept.OrderNum = *patch.OrderNum
	}
	if patch.Leader != nil {
		n.dept.Leader = *patch.Leader
	}
	if patch.Phone != nil {
		n.dept.Phone = *patch.Phone
	}
	if patch.Email != nil {
		n.dept.Email = *patch.Email
	}
	if patch.Status != nil {
		n.dept.Status = *patch.Status
	}
	return true
}

// Remove deletes a childless department and returns the removed record so
// the caller can run its cascades. A department with children cannot be
// removed; the forest is left unchanged.
func (f *Forest) Remove(id int) (model.Department, error) {
	n, ok := f.nodes[id]
	if !ok {
		return model.Department{}, argus_errors.ErrDepartmentNotFound
	}
	if len(n.children) > 0 {
		return model.Department{}, argus_errors.ErrDepartmentHasChildren
	}

	if n.dept.ParentID == 0 {
		f.roots = removeID(f.roots, id)
	} else if parent, ok := f.nodes[n.dept.ParentID]; ok {
		parent.children = removeID(parent.children, id)
	}
	delete(f.nodes, id)
	return n.dept, nil
}

// NextID returns the next available department id (max assigned id + 1).
func (f *Forest) NextID() int {
	max := 0
	for id := range f.nodes {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// IDs returns every department id in ascending order.
func (f *Forest) IDs() []int {
	ids := make([]int, 0, len(f.nodes))
	for id := range f.nodes {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Clone returns an independent copy of the forest.
func (f *Forest) Clone() *Forest {
	return Build(f.Flatten())
}

func removeID(ids []int, id int) []int {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
