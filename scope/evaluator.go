// api/scope/evaluator.go

// Package scope decides record visibility for a principal under the
// five-tier data-scope policy. Every function here is pure: decisions
// depend only on the arguments, and every unknown input denies.
package scope

import (
	"strconv"
	"strings"

	"github.com/argus-admin/argus/api/model"
)

// Action is the operation being authorized against a record.
type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// Principal is the evaluator's view of the authenticated user.
type Principal struct {
	ID            int
	DeptID        int
	DeptPath      string
	RoleKeys      []string
	DataScope     model.DataScope
	CustomDeptIDs []int
}

// Record is the evaluator's view of the target row. OwnerID is the creator
// of the record, or the record's own user id when the record is a user.
type Record struct {
	OwnerID  int
	DeptID   int
	DeptPath string
}

// IsAdmin reports whether the principal holds the reserved admin role key.
func (p Principal) IsAdmin() bool {
	for _, key := range p.RoleKeys {
		if key == model.AdminRoleKey {
			return true
		}
	}
	return false
}

// CanAccess reports whether the principal may perform the action on the
// record. Admins always may; otherwise the principal's data scope decides.
// Unrecognized scopes deny.
func CanAccess(p Principal, r Record, _ Action) bool {
	if p.IsAdmin() {
		return true
	}

	switch p.DataScope {
	case model.ScopeAll:
		return true
	case model.ScopeSelf:
		return r.OwnerID != 0 && r.OwnerID == p.ID
	case model.ScopeDept:
		return r.DeptID != 0 && r.DeptID == p.DeptID
	case model.ScopeDeptAndChild:
		return isDescendantPath(p.DeptPath, r.DeptPath)
	case model.ScopeCustom:
		for _, id := range p.CustomDeptIDs {
			if id != 0 && id == r.DeptID {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// FilterByAccess returns the records the principal may act on, preserving
// order. The input slice is not modified.
func FilterByAccess(p Principal, records []Record, action Action) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if CanAccess(p, r, action) {
			out = append(out, r)
		}
	}
	return out
}

// isDescendantPath reports whether the record path lies at or below the
// principal path. Paths are id sequences like "0,1,2"; they are compared
// component by component, never as raw string prefixes, so department 12
// can never match a principal rooted at department 1.
func isDescendantPath(principalPath, recordPath string) bool {
	base, ok := ParsePath(principalPath)
	if !ok || len(base) == 0 {
		return false
	}
	target, ok := ParsePath(recordPath)
	if !ok || len(target) < len(base) {
		return false
	}
	for i, id := range base {
		if target[i] != id {
			return false
		}
	}
	return true
}

// ParsePath splits a comma-separated department path into its id
// components. It returns ok=false for empty or malformed paths.
func ParsePath(path string) ([]int, bool) {
	if path == "" {
		return nil, false
	}
	parts := strings.Split(path, ",")
	ids := make([]int, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

// JoinPath renders an id sequence as the canonical comma-separated path.
func JoinPath(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// PrincipalRecord views a user as a target record: a user record is owned
// by itself.
func PrincipalRecord(u model.User) Record {
	return Record{OwnerID: u.ID, DeptID: u.DeptID, DeptPath: u.DeptPath}
}
