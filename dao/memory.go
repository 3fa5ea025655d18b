// api/dao/memory.go
package dao

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	argus_errors "github.com/argus-admin/argus/api/errors"
	"github.com/argus-admin/argus/api/depttree"
	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/scope"
)

// MemoryStore keeps the whole directory in process memory behind a single
// mutex, which makes every cross-entity cascade naturally all-or-nothing.
// It implements UserDAO, RoleDAO and DepartmentDAO.
type MemoryStore struct {
	mu     sync.RWMutex
	forest *depttree.Forest
	users  map[int]*model.User
	roles  map[int]*model.Role
	menus  []model.Menu
}

var (
	_ UserDAO       = (*MemoryStore)(nil)
	_ RoleDAO       = (*MemoryStore)(nil)
	_ DepartmentDAO = (*MemoryStore)(nil)
)

// NewMemoryStore builds a store from flat fixture data. Department paths on
// users are recomputed from the forest so they can never drift from the
// tree.
func NewMemoryStore(depts []model.Department, users []model.User, roles []model.Role, menus []model.Menu) *MemoryStore {
	s := &MemoryStore{
		forest: depttree.Build(depts),
		users:  make(map[int]*model.User, len(users)),
		roles:  make(map[int]*model.Role, len(roles)),
		menus:  append([]model.Menu(nil), menus...),
	}
	for i := range roles {
		r := roles[i]
		s.roles[r.ID] = &r
	}
	for i := range users {
		u := users[i]
		u.DeptPath = scope.JoinPath(s.forest.PathOf(u.DeptID))
		if d, ok := s.forest.Find(u.DeptID); ok {
			u.DeptName = d.Name
		}
		s.users[u.ID] = &u
	}
	return s
}

// --- UserDAO ---

func (s *MemoryStore) GetUser(_ context.Context, id int) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, argus_errors.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (s *MemoryStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, argus_errors.ErrUserNotFound
}

func (s *MemoryStore) ListUsers(_ context.Context, criteria model.UserSearchCriteria, pageNum, pageSize int) (int, []model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.User, 0, len(s.users))
	for _, id := range s.userIDs() {
		u := s.users[id]
		if !matchUser(u, criteria) {
			continue
		}
		matched = append(matched, *u)
	}

	total := len(matched)
	return total, paginate(matched, pageNum, pageSize), nil
}

func matchUser(u *model.User, c model.UserSearchCriteria) bool {
	if c.Username != "" &&
		!strings.Contains(strings.ToLower(u.Username), strings.ToLower(c.Username)) &&
		!strings.Contains(strings.ToLower(u.Nickname), strings.ToLower(c.Username)) {
		return false
	}
	if c.Phone != "" && !strings.Contains(u.Phone, c.Phone) {
		return false
	}
	if c.Email != "" && !strings.Contains(strings.ToLower(u.Email), strings.ToLower(c.Email)) {
		return false
	}
	if c.Status != "" && u.Status != c.Status {
		return false
	}
	if c.DeptID != 0 && u.DeptID != c.DeptID {
		return false
	}
	return true
}

func (s *MemoryStore) CreateUser(_ context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return nil, argus_errors.ErrUserConflict
		}
	}

	user.ID = s.nextUserID()
	user.DeptPath = scope.JoinPath(s.forest.PathOf(user.DeptID))
	if d, ok := s.forest.Find(user.DeptID); ok {
		user.DeptName = d.Name
	}
	if user.CreateTime == "" {
		user.CreateTime = time.Now().Format(time.DateTime)
	}
	s.users[user.ID] = &user
	copied := user
	return &copied, nil
}

func (s *MemoryStore) UpdateUser(_ context.Context, user model.User) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.users[user.ID]
	if !ok {
		return nil, argus_errors.ErrUserNotFound
	}
	user.CreateTime = existing.CreateTime
	user.DeptPath = scope.JoinPath(s.forest.PathOf(user.DeptID))
	if d, found := s.forest.Find(user.DeptID); found {
		user.DeptName = d.Name
	}
	s.users[user.ID] = &user
	copied := user
	return &copied, nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return argus_errors.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) UsersByDepartment(_ context.Context, deptID int) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.User
	for _, id := range s.userIDs() {
		if s.users[id].DeptID == deptID {
			out = append(out, *s.users[id])
		}
	}
	return out, nil
}

func (s *MemoryStore) UsersByRole(_ context.Context, roleID int) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.User
	for _, id := range s.userIDs() {
		for _, rid := range s.users[id].RoleIDs {
			if rid == roleID {
				out = append(out, *s.users[id])
				break
			}
		}
	}
	return out, nil
}

// --- RoleDAO ---

func (s *MemoryStore) GetRole(_ context.Context, id int) (*model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.roles[id]
	if !ok {
		return nil, argus_errors.ErrRoleNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *MemoryStore) GetRoleByKey(_ context.Context, key string) (*model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.roles {
		if r.Key == key {
			copied := *r
			return &copied, nil
		}
	}
	return nil, argus_errors.ErrRoleNotFound
}

func (s *MemoryStore) ListRoles(_ context.Context, criteria model.RoleSearchCriteria, pageNum, pageSize int) (int, []model.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]model.Role, 0, len(s.roles))
	for _, id := range s.roleIDs() {
		r := s.roles[id]
		if criteria.Name != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(criteria.Name)) {
			continue
		}
		if criteria.Key != "" && !strings.Contains(strings.ToLower(r.Key), strings.ToLower(criteria.Key)) {
			continue
		}
		if criteria.Status != "" && r.Status != criteria.Status {
			continue
		}
		matched = append(matched, *r)
	}

	total := len(matched)
	return total, paginate(matched, pageNum, pageSize), nil
}

func (s *MemoryStore) CreateRole(_ context.Context, role model.Role) (*model.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.roles {
		if existing.Key == role.Key {
			return nil, argus_errors.ErrRoleConflict
		}
	}

	role.ID = s.nextRoleID()
	if role.Sort == 0 {
		role.Sort = role.ID
	}
	if role.Status == "" {
		role.Status = model.StatusActive
	}
	if role.CreateTime == "" {
		role.CreateTime = time.Now().Format(time.DateTime)
	}
	s.roles[role.ID] = &role
	copied := role
	return &copied, nil
}

func (s *MemoryStore) UpdateRole(_ context.Context, role model.Role) (*model.Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.roles[role.ID]
	if !ok {
		return nil, argus_errors.ErrRoleNotFound
	}
	// Role keys are immutable once assigned.
	role.Key = existing.Key
	role.CreateTime = existing.CreateTime
	s.roles[role.ID] = &role
	copied := role
	return &copied, nil
}

func (s *MemoryStore) DeleteRole(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.roles[id]; !ok {
		return argus_errors.ErrRoleNotFound
	}
	delete(s.roles, id)
	return nil
}

// SetRoleStatus flips the role's status and runs the user-side cascade
// under the same lock. Disabling moves the role id onto each holder's
// suspended list; enabling removes it. Assigned role lists are untouched.
func (s *MemoryStore) SetRoleStatus(_ context.Context, id int, status model.Status) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	role, ok := s.roles[id]
	if !ok {
		return 0, argus_errors.ErrRoleNotFound
	}
	role.Status = status

	affected := 0
	for _, u := range s.users {
		holds := false
		for _, rid := range u.RoleIDs {
			if rid == id {
				holds = true
				break
			}
		}
		if !holds {
			continue
		}
		if status == model.StatusDisabled {
			if !containsInt(u.DisabledRoleIDs, id) {
				u.DisabledRoleIDs = append(u.DisabledRoleIDs, id)
				affected++
			}
		} else {
			if containsInt(u.DisabledRoleIDs, id) {
				u.DisabledRoleIDs = removeInt(u.DisabledRoleIDs, id)
				affected++
			}
		}
	}
	return affected, nil
}

func (s *MemoryStore) ListMenus(_ context.Context) ([]model.Menu, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Menu(nil), s.menus...), nil
}

// --- DepartmentDAO ---

func (s *MemoryStore) Forest(_ context.Context) (*depttree.Forest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.forest.Clone(), nil
}

func (s *MemoryStore) GetDepartment(_ context.Context, id int) (*model.Department, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.forest.Find(id)
	if !ok {
		return nil, argus_errors.ErrDepartmentNotFound
	}
	return &d, nil
}

func (s *MemoryStore) CreateDepartment(_ context.Context, dept model.Department) (*model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dept.ID = s.forest.NextID()
	if dept.Status == "" {
		dept.Status = model.StatusActive
	}
	if dept.CreateTime == "" {
		dept.CreateTime = time.Now().Format(time.DateTime)
	}
	if !s.forest.Insert(dept) {
		return nil, argus_errors.ErrDepartmentNotFound
	}
	copied := dept
	return &copied, nil
}

func (s *MemoryStore) UpdateDepartment(_ context.Context, id int, patch model.DepartmentPatch) (*model.Department, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.forest.Update(id, patch) {
		return nil, argus_errors.ErrDepartmentNotFound
	}
	updated, _ := s.forest.Find(id)

	// A renamed department shows up on its members immediately.
	if patch.Name != nil {
		for _, u := range s.users {
			if u.DeptID == id {
				u.DeptName = *patch.Name
			}
		}
	}
	return &updated, nil
}

// DeleteDepartment removes a childless department and reassigns its users
// to the default department in the same mutation, pruning the removed id
// from custom data-scope sets. Nothing changes when the department has
// children or does not exist.
func (s *MemoryStore) DeleteDepartment(_ context.Context, id int, defaultDeptID int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.forest.Remove(id); err != nil {
		return 0, err
	}

	defaultPath := scope.JoinPath(s.forest.PathOf(defaultDeptID))
	defaultName := ""
	if d, ok := s.forest.Find(defaultDeptID); ok {
		defaultName = d.Name
	}

	reassigned := 0
	for _, u := range s.users {
		if u.DeptID == id {
			u.DeptID = defaultDeptID
			u.DeptName = defaultName
			u.DeptPath = defaultPath
			reassigned++
		}
		if u.DataScope == model.ScopeCustom && containsInt(u.CustomDeptIDs, id) {
			u.CustomDeptIDs = removeInt(u.CustomDeptIDs, id)
		}
	}
	return reassigned, nil
}

// SetDepartmentStatus flips the department status. Disabling also disables
// every previously-active user of that department, exactly once; already
// disabled users are left alone.
func (s *MemoryStore) SetDepartmentStatus(_ context.Context, id int, status model.Status) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := status
	if !s.forest.Update(id, model.DepartmentPatch{Status: &st}) {
		return 0, argus_errors.ErrDepartmentNotFound
	}

	disabled := 0
	if status == model.StatusDisabled {
		for _, u := range s.users {
			if u.DeptID == id && u.Status == model.StatusActive {
				u.Status = model.StatusDisabled
				disabled++
			}
		}
	}
	return disabled, nil
}

// --- helpers ---

func (s *MemoryStore) userIDs() []int {
	ids := make([]int, 0, len(s.users))
	for id := range s.users {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *MemoryStore) roleIDs() []int {
	ids := make([]int, 0, len(s.roles))
	for id := range s.roles {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (s *MemoryStore) nextUserID() int {
	max := 0
	for id := range s.users {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func (s *MemoryStore) nextRoleID() int {
	max := 0
	for id := range s.roles {
		if id > max {
			max = id
		}
	}
	return max + 1
}

func paginate[T any](items []T, pageNum, pageSize int) []T {
	if pageNum <= 0 || pageSize <= 0 {
		return items
	}
	start := (pageNum - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func containsInt(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeInt(ids []int, id int) []int {
	out := make([]int, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
