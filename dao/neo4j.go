// api/dao/neo4j.go
package dao

import (
	"context"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/argus-admin/argus/api/depttree"
	argus_errors "github.com/argus-admin/argus/api/errors"
	logger "github.com/argus-admin/argus/api/logging"
	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/scope"
)

const (
	labelDepartment = "Department"
	labelRole       = "Role"
	labelUser       = "User"
	labelMenu       = "Menu"
)

// GraphStore is the Neo4j-backed directory. Each cascade runs inside a
// single write transaction so a partial cascade can never be observed.
type GraphStore struct {
	Driver neo4j.Driver
}

var (
	_ UserDAO       = (*GraphStore)(nil)
	_ RoleDAO       = (*GraphStore)(nil)
	_ DepartmentDAO = (*GraphStore)(nil)
)

func NewGraphStore(driver neo4j.Driver) (*GraphStore, error) {
	s := &GraphStore{Driver: driver}
	if err := s.ensureConstraints(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *GraphStore) ensureConstraints() error {
	session := s.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()

	_, err := session.WriteTransaction(func(tx neo4j.Transaction) (interface{}, error) {
		for _, label := range []string{labelDepartment, labelRole, labelUser, labelMenu} {
			query := `CREATE CONSTRAINT unique_` + strings.ToLower(label) + `_id IF NOT EXISTS
				FOR (n:` + label + `) REQUIRE n.id IS UNIQUE`
			if _, err := tx.Run(query, nil); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		logger.Error("Failed to ensure graph constraints", zap.Error(err))
	}
	return err
}

func (s *GraphStore) read(work func(tx neo4j.Transaction) (interface{}, error)) (interface{}, error) {
	session := s.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close()
	return session.ReadTransaction(work)
}

func (s *GraphStore) write(work func(tx neo4j.Transaction) (interface{}, error)) (interface{}, error) {
	session := s.Driver.NewSession(neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close()
	return session.WriteTransaction(work)
}

// --- department loading shared by user reads ---

func loadDepartmentsTx(tx neo4j.Transaction) ([]model.Department, error) {
	result, err := tx.Run(`MATCH (d:`+labelDepartment+`) RETURN d ORDER BY d.parentId, d.orderNum, d.id`, nil)
	if err != nil {
		return nil, err
	}
	var out []model.Department
	for result.Next() {
		node, ok := result.Record().Get("d")
		if !ok {
			continue
		}
		out = append(out, departmentFromProps(node.(neo4j.Node).Props))
	}
	return out, result.Err()
}

func departmentFromProps(props map[string]interface{}) model.Department {
	return model.Department{
		ID:         intProp(props, "id"),
		Name:       stringProp(props, "name"),
		ParentID:   intProp(props, "parentId"),
		OrderNum:   intProp(props, "orderNum"),
		Leader:     stringProp(props, "leader"),
		Phone:      stringProp(props, "phone"),
		Email:      stringProp(props, "email"),
		Status:     model.Status(stringProp(props, "status")),
		CreateTime: stringProp(props, "createTime"),
	}
}

func departmentProps(d model.Department) map[string]interface{} {
	return map[string]interface{}{
		"id":         d.ID,
		"name":       d.Name,
		"parentId":   d.ParentID,
		"orderNum":   d.OrderNum,
		"leader":     d.Leader,
		"phone":      d.Phone,
		"email":      d.Email,
		"status":     string(d.Status),
		"createTime": d.CreateTime,
	}
}

func userFromProps(props map[string]interface{}) model.User {
	return model.User{
		ID:              intProp(props, "id"),
		Username:        stringProp(props, "username"),
		Nickname:        stringProp(props, "nickname"),
		DeptID:          intProp(props, "deptId"),
		DeptName:        stringProp(props, "deptName"),
		DeptPath:        stringProp(props, "deptPath"),
		Phone:           stringProp(props, "phone"),
		Email:           stringProp(props, "email"),
		Avatar:          stringProp(props, "avatar"),
		Status:          model.Status(stringProp(props, "status")),
		RoleIDs:         intsProp(props, "roleIds"),
		RoleNames:       stringsProp(props, "roleNames"),
		DisabledRoleIDs: intsProp(props, "disabledRoleIds"),
		DataScope:       model.DataScope(stringProp(props, "dataScope")),
		CustomDeptIDs:   intsProp(props, "customDeptIds"),
		CreateTime:      stringProp(props, "createTime"),
	}
}

func userProps(u model.User) map[string]interface{} {
	return map[string]interface{}{
		"id":              u.ID,
		"username":        u.Username,
		"nickname":        u.Nickname,
		"deptId":          u.DeptID,
		"deptName":        u.DeptName,
		"deptPath":        u.DeptPath,
		"phone":           u.Phone,
		"email":           u.Email,
		"avatar":          u.Avatar,
		"status":          string(u.Status),
		"roleIds":         toInterfaceInts(u.RoleIDs),
		"roleNames":       toInterfaceStrings(u.RoleNames),
		"disabledRoleIds": toInterfaceInts(u.DisabledRoleIDs),
		"dataScope":       string(u.DataScope),
		"customDeptIds":   toInterfaceInts(u.CustomDeptIDs),
		"createTime":      u.CreateTime,
	}
}

func roleFromProps(props map[string]interface{}) model.Role {
	return model.Role{
		ID:          intProp(props, "id"),
		Name:        stringProp(props, "name"),
		Key:         stringProp(props, "key"),
		Sort:        intProp(props, "sort"),
		Status:      model.Status(stringProp(props, "status")),
		Remark:      stringProp(props, "remark"),
		MenuIDs:     intsProp(props, "menuIds"),
		Permissions: stringsProp(props, "permissions"),
		CreateTime:  stringProp(props, "createTime"),
	}
}

func roleProps(r model.Role) map[string]interface{} {
	return map[string]interface{}{
		"id":          r.ID,
		"name":        r.Name,
		"key":         r.Key,
		"sort":        r.Sort,
		"status":      string(r.Status),
		"remark":      r.Remark,
		"menuIds":     toInterfaceInts(r.MenuIDs),
		"permissions": toInterfaceStrings(r.Permissions),
		"createTime":  r.CreateTime,
	}
}

// --- UserDAO ---

func (s *GraphStore) GetUser(_ context.Context, id int) (*model.User, error) {
	res, err := s.read(func(tx neo4j.Transaction) (interface{}, error) {
		return findUserTx(tx, "id", id)
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, argus_errors.ErrUserNotFound
	}
	u := res.(model.User)
	return &u, nil
}

func (s *GraphStore) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	res, err := s.read(func(tx neo4j.Transaction) (interface{}, error) {
		return findUserTx(tx, "username", username)
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, argus_errors.ErrUserNotFound
	}
	u := res.(model.User)
	return &u, nil
}

func findUserTx(tx neo4j.Transaction, field string, value interface{}) (interface{}, error) {
	result, err := tx.Run(`MATCH (u:`+labelUser+` {`+field+`: $value}) RETURN u LIMIT 1`,
		map[string]interface{}{"value": value})
	if err != nil {
		return nil, err
	}
	if !result.Next() {
		return nil, result.Err()
	}
	node, _ := result.Record().Get("u")
	return userFromProps(node.(neo4j.Node).Props), nil
}

func (s *GraphStore) ListUsers(_ context.Context, criteria model.UserSearchCriteria, pageNum, pageSize int) (int, []model.User, error) {
	res, err := s.read(func(tx neo4j.Transaction) (interface{}, error) {
		result, err := tx.Run(`MATCH (u:`+labelUser+`) RETURN u ORDER BY u.id`, nil)
		if err != nil {
			return nil, err
		}
		var users []model.User
		for result.Next() {
			node, _ := result.Record().Get("u")
			users = append(users, userFromProps(node.(neo4j.Node).Props))
		}
		return users, result.Err()
	})
	if err != nil {
		return 0, nil, err
	}

	var matched []model.User
	for _, u := range res.([]model.User) {
		user := u
		if matchUser(&user, criteria) {
			matched = append(matched, user)
		}
	}
	return len(matched), paginate(matched, pageNum, pageSize), nil
}

func (s *GraphStore) CreateUser(_ context.Context, user model.User) (*model.User, error) {
	res, err := s.write(func(tx neo4j.Transaction) (interface{}, error) {
		existing, err := findUserTx(tx, "username", user.Username)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, argus_errors.ErrUserConflict
		}

		result, err := tx.Run(`MATCH (u:`+labelUser+`) RETURN coalesce(max(u.id), 0) + 1 AS next`, nil)
		if err != nil {
			return nil, err
		}
		if !result.Next() {
			return nil, result.Err()
		}
		next, _ := result.Record().Get("next")
		user.ID = int(next.(int64))

		depts, err := loadDepartmentsTx(tx)
		if err != nil {
			return nil, err
		}
		forest := depttree.Build(depts)
		user.DeptPath = scope.JoinPath(forest.PathOf(user.DeptID))
		if d, ok := forest.Find(user.DeptID); ok {
			user.DeptName = d.Name
		}

		_, err = tx.Run(`CREATE (u:`+labelUser+`) SET u = $props`,
			map[string]interface{}{"props": userProps(user)})
		return user, err
	})
	if err != nil {
		return nil, err
	}
	u := res.(model.User)
	return &u, nil
}

func (s *GraphStore) UpdateUser(_ context.Context, user model.User) (*model.User, error) {
	res, err := s.write(func(tx neo4j.Transaction) (interface{}, error) {
		existing, err := findUserTx(tx, "id", user.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, argus_errors.ErrUserNotFound
		}
		user.CreateTime = existing.(model.User).CreateTime

		depts, err := loadDepartmentsTx(tx)
		if err != nil {
			return nil, err
		}
		forest := depttree.Build(depts)
		user.DeptPath = scope.JoinPath(forest.PathOf(user.DeptID))
		if d, ok := forest.Find(user.DeptID); ok {
			user.DeptName = d.Name
		}

		_, err = tx.Run(`MATCH (u:`+labelUser+` {id: $id}) SET u = $props`,
			map[string]interface{}{"id": user.ID, "props": userProps(user)})
		return user, err
	})
	if err != nil {
		return nil, err
	}
	u := res.(model.User)
	return &u, nil
}

func (s *GraphStore) DeleteUser(_ context.Context, id int) error {
	_, err := s.write(func(tx neo4j.Transaction) (interface{}, error) {
		existing, err := findUserTx(tx, "id", id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, argus_errors.ErrUserNotFound
		}
		_, err = tx.Run(`MATCH (u:`+labelUser+` {id: $id}) DETACH DELETE u`,
			map[string]interface{}{"id": id})
		return nil, err
	})
	return err
}

func (s *GraphStore) UsersByDepartment(_ context.Context, deptID int) ([]model.User, error) {
	return s.usersWhere(`MATCH (u:`+labelUser+` {deptId: $value}) RETURN u ORDER BY u.id`, deptID)
}

func (s *GraphStore) UsersByRole(_ context.Context, roleID int) ([]model.User, error) {
	return s.usersWhere(`MATCH (u:`+labelUser+`) WHERE $value IN u.roleIds RETURN u ORDER BY u.id`, roleID)
}

func (s *GraphStore) usersWhere(query string, value interface{}) ([]model.User, error) {
	res, err := s.read(func(tx neo4j.Transaction) (interface{}, error) {
		result, err := tx.Run(query, map[string]interface{}{"value": value})
		if err != nil {
			return nil, err
		}
		var users []model.User
		for result.Next() {
			node, _ := result.Record().Get("u")
			users = append(users, userFromProps(node.(neo4j.Node).Props))
		}
		return users, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return res.([]model.User), nil
}

// --- RoleDAO ---

func (s *GraphStore) GetRole(_ context.Context, id int) (*model.Role, error) {
	return s.findRole("id", id)
}

func (s *GraphStore) GetRoleByKey(_ context.Context, key string) (*model.Role, error) {
	return s.findRole("key", key)
}

func (s *GraphStore) findRole(field string, value interface{}) (*model.Role, error) {
	res, err := s.read(func(tx neo4j.Transaction) (interface{}, error) {
		result, err := tx.Run(`MATCH (r:`+labelRole+` {`+field+`: $value}) RETURN r LIMIT 1`,
			map[string]interface{}{"value": value})
		if err != nil {
			return nil, err
		}
		if !result.Next() {
			return nil, result.Err()
		}
		node, _ := result.Record().Get("r")
		return roleFromProps(node.(neo4j.Node).Props), nil
	})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, argus_errors.ErrRoleNotFound
	}
	r := res.(model.Role)
	return &r, nil
}

func (s *GraphStore) ListRoles(_ context.Context, criteria model.RoleSearchCriteria, pageNum, pageSize int) (int, []model.Role, error) {
	res, err := s.read(func(tx neo4j.Transaction) (interface{}, error) {
		result, err := tx.Run(`MATCH (r:`+labelRole+`) RETURN r ORDER BY r.sort, r.id`, nil)
		if err != nil {
			return nil, err
		}
		var roles []model.Role
		for result.Next() {
			node, _ := result.Record().Get("r")
			roles = append(roles, roleFromProps(node.(neo4j.Node).Props))
		}
		return roles, result.Err()
	})
	if err != nil {
		return 0, nil, err
	}

	var matched []model.Role
	for _, r := range res.([]model.Role) {
		if criteria.Name != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(criteria.Name)) {
			continue
		}
		if criteria.Key != "" && !strings.Contains(strings.ToLower(r.Key), strings.ToLower(criteria.Key)) {
			continue
		}
		if criteria.Status != "" && r.Status != criteria.Status {
			continue
		}
		matched = append(matched, r)
	}
	return len(matched), paginate(matched, pageNum, pageSize), nil
}

func (s *GraphStore) CreateRole(_ context.Context, role model.Role) (*model.Role, error) {
	res, err := s.write(func(tx neo4j.Transaction) (interface{}, error) {
		dup, err := tx.Run(`MATCH (r:`+labelRole+` {key: $key}) RETURN r LIMIT 1`,
			map[string]interface{}{"key": role.Key})
		if err != nil {
			return nil, err
		}
		if dup.Next() {
			return nil, argus_errors.ErrRoleConflict
		}

		result, err := tx.Run(`MATCH (r:`+labelRole+`) RETURN coalesce(max(r.id), 0) + 1 AS next`, nil)
		if err != nil {
			return nil, err
		}
		if !result.Next() {
			return nil, result.Err()
		}
		next, _ := result.Record().Get("next")
		role.ID = int(next.(int64))
		if role.Sort == 0 {
			role.Sort = role.ID
		}
		if role.Status == "" {
			role.Status = model.StatusActive
		}

		_, err = tx.Run(`CREATE (r:`+labelRole+`) SET r = $props`,
			map[string]interface{}{"props": roleProps(role)})
		return role, err
	})
	if err != nil {
		return nil, err
	}
	r := res.(model.Role)
	return &r, nil
}

func (s *GraphStore) UpdateRole(_ context.Context, role model.Role) (*model.Role, error) {
	res, err := s.write(func(tx neo4j.Transaction) (interface{}, error) {
		existing, err := s.roleTx(tx, role.ID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, argus_errors.ErrRoleNotFound
		}
		role.Key = existing.Key
		role.CreateTime = existing.CreateTime

		_, err = tx.Run(`MATCH (r:`+labelRole+` {id: $id}) SET r = $props`,
			map[string]interface{}{"id": role.ID, "props": roleProps(role)})
		return role, err
	})
	if err != nil {
		return nil, err
	}
	r := res.(model.Role)
	return &r, nil
}

func (s *GraphStore) roleTx(tx neo4j.Transaction, id int) (*model.Role, error) {
	result, err := tx.Run(`MATCH (r:`+labelRole+` {id: $id}) RETURN r LIMIT 1`,
		map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	if !result.Next() {
		return nil, result.Err()
	}
	node, _ := result.Record().Get("r")
	r := roleFromProps(node.(neo4j.Node).Props)
	return &r, nil
}

func (s *GraphStore) DeleteRole(_ context.Context, id int) error {
	_, err := s.write(func(tx neo4j.Transaction) (interface{}, error) {
		existing, err := s.roleTx(tx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, argus_errors.ErrRoleNotFound
		}
		_, err = tx.Run(`MATCH (r:`+labelRole+` {id: $id}) DETACH DELETE r`,
			map[string]interface{}{"id": id})
		return nil, err
	})
	return err
}

func (s *GraphStore) SetRoleStatus(_ context.Context, id int, status model.Status) (int, error) {
	res, err := s.write(func(tx neo4j.Transaction) (interface{}, error) {
		existing, err := s.roleTx(tx, id)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, argus_errors.ErrRoleNotFound
		}

		if _, err := tx.Run(`MATCH (r:`+labelRole+` {id: $id}) SET r.status = $status`,
			map[string]interface{}{"id": id, "status": string(status)}); err != nil {
			return nil, err
		}

		var query string
		if status == model.StatusDisabled {
			query = `MATCH (u:` + labelUser + `)
				WHERE $id IN u.roleIds AND NOT $id IN coalesce(u.disabledRoleIds, [])
				SET u.disabledRoleIds = coalesce(u.disabledRoleIds, []) + $id
				RETURN count(u) AS affected`
		} else {
			query = `MATCH (u:` + labelUser + `)
				WHERE $id IN coalesce(u.disabledRoleIds, [])
				SET u.disabledRoleIds = [x IN u.disabledRoleIds WHERE x <> $id]
				RETURN count(u) AS affected`
		}
		result, err := tx.Run(query, map[string]interface{}{"id": id})
		if err != nil {
			return nil, err
		}
		if !result.Next() {
			return int64(0), result.Err()
		}
		affected, _ := result.Record().Get("affected")
		return affected, nil
	})
	if err != nil {
		return 0, err
	}
	return int(res.(int64)), nil
}

func (s *GraphStore) ListMenus(_ context.Context) ([]model.Menu, error) {
	res, err := s.read(func(tx neo4j.Transaction) (interface{}, error) {
		result, err := tx.Run(`MATCH (m:`+labelMenu+`) RETURN m ORDER BY m.id`, nil)
		if err != nil {
			return nil, err
		}
		var menus []model.Menu
		for result.Next() {
			node, _ := result.Record().Get("m")
			props := node.(neo4j.Node).Props
			menus = append(menus, model.Menu{
				ID:       intProp(props, "id"),
				Name:     stringProp(props, "name"),
				ParentID: intProp(props, "parentId"),
			})
		}
		return menus, result.Err()
	})
	if err != nil {
		return nil, err
	}
	return res.([]model.Menu), nil
}

// --- DepartmentDAO ---

func (s *GraphStore) Forest(_ context.Context) (*depttree.Forest, error) {
	res, err := s.read(func(tx neo4j.Transaction) (interface{}, error) {
		depts, err := loadDepartmentsTx(tx)
		if err != nil {
			return nil, err
		}
		return depttree.Build(depts), nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*depttree.Forest), nil
}

func (s *GraphStore) GetDepartment(ctx context.Context, id int) (*model.Department, error) {
	forest, err := s.Forest(ctx)
	if err != nil {
		return nil, err
	}
	d, ok := forest.Find(id)
	if !ok {
		return nil, argus_errors.ErrDepartmentNotFound
	}
	return &d, nil
}

func (s *GraphStore) CreateDepartment(_ context.Context, dept model.Department) (*model.Department, error) {
	res, err := s.write(func(tx neo4j.Transaction) (interface{}, error) {
		depts, err := loadDepartmentsTx(tx)
		if err != nil {
			return nil, err
		}
		forest := depttree.Build(depts)
		dept.ID = forest.NextID()
		if dept.Status == "" {
			dept.Status = model.StatusActive
		}
		if !forest.Insert(dept) {
			return nil, argus_errors.ErrDepartmentNotFound
		}
		_, err = tx.Run(`CREATE (d:`+labelDepartment+`) SET d = $props`,
			map[string]interface{}{"props": departmentProps(dept)})
		return dept, err
	})
	if err != nil {
		return nil, err
	}
	d := res.(model.Department)
	return &d, nil
}

func (s *GraphStore) UpdateDepartment(_ context.Context, id int, patch model.DepartmentPatch) (*model.Department, error) {
	res, err := s.write(func(tx neo4j.Transaction) (interface{}, error) {
		depts, err := loadDepartmentsTx(tx)
		if err != nil {
			return nil, err
		}
		forest := depttree.Build(depts)
		if !forest.Update(id, patch) {
			return nil, argus_errors.ErrDepartmentNotFound
		}
		updated, _ := forest.Find(id)

		if _, err := tx.Run(`MATCH (d:`+labelDepartment+` {id: $id}) SET d = $props`,
			map[string]interface{}{"id": id, "props": departmentProps(updated)}); err != nil {
			return nil, err
		}
		if patch.Name != nil {
			if _, err := tx.Run(`MATCH (u:`+labelUser+` {deptId: $id}) SET u.deptName = $name`,
				map[string]interface{}{"id": id, "name": *patch.Name}); err != nil {
				return nil, err
			}
		}
		return updated, nil
	})
	if err != nil {
		return nil, err
	}
	d := res.(model.Department)
	return &d, nil
}

func (s *GraphStore) DeleteDepartment(_ context.Context, id int, defaultDeptID int) (int, error) {
	res, err := s.write(func(tx neo4j.Transaction) (interface{}, error) {
		depts, err := loadDepartmentsTx(tx)
		if err != nil {
			return nil, err
		}
		forest := depttree.Build(depts)
		if _, err := forest.Remove(id); err != nil {
			return nil, err
		}

		defaultPath := scope.JoinPath(forest.PathOf(defaultDeptID))
		defaultName := ""
		if d, ok := forest.Find(defaultDeptID); ok {
			defaultName = d.Name
		}

		if _, err := tx.Run(`MATCH (d:`+labelDepartment+` {id: $id}) DETACH DELETE d`,
			map[string]interface{}{"id": id}); err != nil {
			return nil, err
		}
		result, err := tx.Run(`MATCH (u:`+labelUser+` {deptId: $id})
			SET u.deptId = $defaultId, u.deptName = $defaultName, u.deptPath = $defaultPath
			RETURN count(u) AS reassigned`,
			map[string]interface{}{
				"id": id, "defaultId": defaultDeptID,
				"defaultName": defaultName, "defaultPath": defaultPath,
			})
		if err != nil {
			return nil, err
		}
		if _, err := tx.Run(`MATCH (u:`+labelUser+`)
			WHERE $id IN coalesce(u.customDeptIds, [])
			SET u.customDeptIds = [x IN u.customDeptIds WHERE x <> $id]`,
			map[string]interface{}{"id": id}); err != nil {
			return nil, err
		}
		if !result.Next() {
			return int64(0), result.Err()
		}
		reassigned, _ := result.Record().Get("reassigned")
		return reassigned, nil
	})
	if err != nil {
		return 0, err
	}
	return int(res.(int64)), nil
}

func (s *GraphStore) SetDepartmentStatus(_ context.Context, id int, status model.Status) (int, error) {
	res, err := s.write(func(tx neo4j.Transaction) (interface{}, error) {
		existing, err := tx.Run(`MATCH (d:`+labelDepartment+` {id: $id}) RETURN d LIMIT 1`,
			map[string]interface{}{"id": id})
		if err != nil {
			return nil, err
		}
		if !existing.Next() {
			return nil, argus_errors.ErrDepartmentNotFound
		}

		if _, err := tx.Run(`MATCH (d:`+labelDepartment+` {id: $id}) SET d.status = $status`,
			map[string]interface{}{"id": id, "status": string(status)}); err != nil {
			return nil, err
		}

		if status != model.StatusDisabled {
			return int64(0), nil
		}
		result, err := tx.Run(`MATCH (u:`+labelUser+` {deptId: $id, status: $active})
			SET u.status = $disabled RETURN count(u) AS disabled`,
			map[string]interface{}{
				"id":       id,
				"active":   string(model.StatusActive),
				"disabled": string(model.StatusDisabled),
			})
		if err != nil {
			return nil, err
		}
		if !result.Next() {
			return int64(0), result.Err()
		}
		disabled, _ := result.Record().Get("disabled")
		return disabled, nil
	})
	if err != nil {
		return 0, err
	}
	return int(res.(int64)), nil
}

// --- property helpers ---

func intProp(props map[string]interface{}, key string) int {
	switch v := props[key].(type) {
	case int64:
		return int(v)
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

func stringProp(props map[string]interface{}, key string) string {
	if v, ok := props[key].(string); ok {
		return v
	}
	return ""
}

func intsProp(props map[string]interface{}, key string) []int {
	raw, ok := props[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, v := range raw {
		switch n := v.(type) {
		case int64:
			out = append(out, int(n))
		case int:
			out = append(out, n)
		}
	}
	return out
}

func stringsProp(props map[string]interface{}, key string) []string {
	raw, ok := props[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toInterfaceInts(ids []int) []interface{} {
	out := make([]interface{}, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return out
}

func toInterfaceStrings(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
