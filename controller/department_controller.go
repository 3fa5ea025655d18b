// api/controller/department_controller.go
package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	argus_errors "github.com/argus-admin/argus/api/errors"
	"github.com/argus-admin/argus/api/model"
	"github.com/argus-admin/argus/api/service"
	"github.com/argus-admin/argus/api/util"
)

type DepartmentController struct {
	departmentService service.IDepartmentService
}

func NewDepartmentController(departmentService service.IDepartmentService) *DepartmentController {
	return &DepartmentController{
		departmentService: departmentService,
	}
}

// RegisterRoutes registers the API routes
func (dc *DepartmentController) RegisterRoutes(r *gin.RouterGroup) {
	dept := r.Group("/dept")
	{
		dept.GET("/list", dc.ListDepartments)
		dept.GET("/selector", dc.SelectorTree)
		dept.GET("/:id", dc.GetDepartment)
		dept.GET("/:id/users", dc.ListDepartmentUsers)
		dept.POST("", dc.CreateDepartment)
		dept.PUT("/:id", dc.UpdateDepartment)
		dept.DELETE("/:id", dc.DeleteDepartment)
		dept.PATCH("/:id/status", dc.SetDepartmentStatus)
	}
}

// ListDepartments endpoint returns the department tree visible to the
// caller, filtered by the optional deptName and status query parameters.
func (dc *DepartmentController) ListDepartments(c *gin.Context) {
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	criteria := model.DepartmentSearchCriteria{
		Name:   c.Query("deptName"),
		Status: model.Status(c.Query("status")),
	}

	tree, err := dc.departmentService.ListTree(c, principal, criteria)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to list departments", err)
		return
	}

	util.RespondWithData(c, tree)
}

// SelectorTree endpoint
func (dc *DepartmentController) SelectorTree(c *gin.Context) {
	options, err := dc.departmentService.SelectorTree(c)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to load department selector", err)
		return
	}
	util.RespondWithData(c, options)
}

// GetDepartment endpoint
func (dc *DepartmentController) GetDepartment(c *gin.Context) {
	deptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid department ID", err)
		return
	}

	dept, err := dc.departmentService.GetDepartment(c, deptID)
	if err != nil {
		if errors.Is(err, argus_errors.ErrDepartmentNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Department not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve department", err)
		}
		return
	}

	util.RespondWithData(c, dept)
}

// ListDepartmentUsers endpoint
func (dc *DepartmentController) ListDepartmentUsers(c *gin.Context) {
	deptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid department ID", err)
		return
	}

	users, err := dc.departmentService.ListDepartmentUsers(c, deptID)
	if err != nil {
		if errors.Is(err, argus_errors.ErrDepartmentNotFound) {
			util.RespondWithError(c, http.StatusNotFound, "Department not found", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to list department users", err)
		}
		return
	}

	util.RespondWithData(c, users)
}

// CreateDepartment endpoint
func (dc *DepartmentController) CreateDepartment(c *gin.Context) {
	var dept model.Department
	if err := c.ShouldBindJSON(&dept); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid department data", argus_errors.ErrInvalidDepartmentData)
		return
	}
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	createdDept, err := dc.departmentService.CreateDepartment(c, dept, principal)
	if err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrInvalidDepartmentData):
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		case errors.Is(err, argus_errors.ErrDepartmentNotFound):
			util.RespondWithError(c, http.StatusBadRequest, "Parent department does not exist", err)
		case errors.Is(err, argus_errors.ErrDepartmentConflict):
			util.RespondWithError(c, http.StatusBadRequest, "Department already exists", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to create department", err)
		}
		return
	}

	util.RespondWithData(c, createdDept)
}

// UpdateDepartment endpoint
func (dc *DepartmentController) UpdateDepartment(c *gin.Context) {
	deptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid department ID", err)
		return
	}
	var patch model.DepartmentPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid department data", err)
		return
	}
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	updatedDept, err := dc.departmentService.UpdateDepartment(c, deptID, patch, principal)
	if err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrDepartmentNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Department not found", err)
		case errors.Is(err, argus_errors.ErrInvalidDepartmentData):
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update department", err)
		}
		return
	}

	util.RespondWithData(c, updatedDept)
}

// DeleteDepartment endpoint
func (dc *DepartmentController) DeleteDepartment(c *gin.Context) {
	deptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid department ID", err)
		return
	}
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	if err := dc.departmentService.DeleteDepartment(c, deptID, principal); err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrDepartmentNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Department not found", err)
		case errors.Is(err, argus_errors.ErrDepartmentHasChildren):
			util.RespondWithError(c, http.StatusForbidden, "Department has child departments", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to delete department", err)
		}
		return
	}

	util.RespondWithData(c, nil)
}

// SetDepartmentStatus endpoint
func (dc *DepartmentController) SetDepartmentStatus(c *gin.Context) {
	deptID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid department ID", err)
		return
	}
	var body struct {
		Status model.Status `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Invalid status data", err)
		return
	}
	principal, ok := util.GetPrincipalFromContext(c)
	if !ok {
		util.RespondWithError(c, http.StatusUnauthorized, "Unauthorized", argus_errors.ErrUnauthorized)
		return
	}

	disabled, err := dc.departmentService.SetDepartmentStatus(c, deptID, body.Status, principal)
	if err != nil {
		switch {
		case errors.Is(err, argus_errors.ErrDepartmentNotFound):
			util.RespondWithError(c, http.StatusNotFound, "Department not found", err)
		case errors.Is(err, argus_errors.ErrInvalidDepartmentData):
			util.RespondWithError(c, http.StatusBadRequest, err.Error(), err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to update department status", err)
		}
		return
	}

	util.RespondWithData(c, gin.H{"disabledUsers": disabled})
}
