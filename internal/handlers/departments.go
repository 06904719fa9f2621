package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"orghub-server/internal/models"
	"orghub-server/internal/utils"
)

// DepartmentHandler handles department related requests.
type DepartmentHandler struct {
	DB *gorm.DB
}

// NewDepartmentHandler creates a new DepartmentHandler.
func NewDepartmentHandler(db *gorm.DB) *DepartmentHandler {
	return &DepartmentHandler{DB: db}
}

// CreateDepartmentRequest represents the request body for creating a department.
type CreateDepartmentRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	HeadID      string `json:"headId"`
}

// CreateDepartment handles creating a new department. Admin only (route-gated).
func (h *DepartmentHandler) CreateDepartment(c *gin.Context) {
	var req CreateDepartmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existing models.Department
	if err := h.DB.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		utils.BadRequest(c, "Department with this name already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	dept := models.Department{
		Name:        req.Name,
		Description: req.Description,
	}
	if req.HeadID != "" {
		if !h.verifyHead(c, req.HeadID) {
			return
		}
		dept.HeadID = &req.HeadID
	}

	if err := h.DB.Create(&dept).Error; err != nil {
		utils.InternalServerError(c, "Failed to create department: "+err.Error())
		return
	}

	utils.Created(c, "Department created successfully", dept)
}

// GetDepartments handles fetching all departments. Any authenticated user.
func (h *DepartmentHandler) GetDepartments(c *gin.Context) {
	var departments []models.Department
	if err := h.DB.Preload("Head").Order("name asc").Find(&departments).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch departments: "+err.Error())
		return
	}
	utils.Success(c, "Departments fetched successfully", departments)
}

// GetDepartmentByID handles fetching a single department with its members.
func (h *DepartmentHandler) GetDepartmentByID(c *gin.Context) {
	deptID := c.Param("id")

	var dept models.Department
	if err := h.DB.Preload("Head").First(&dept, "id = ?", deptID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Department not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var members []models.User
	if err := h.DB.Where("department_id = ?", dept.ID).Find(&members).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch department members: "+err.Error())
		return
	}
	sanitized := make([]models.UserSanitized, len(members))
	for i, m := range members {
		sanitized[i] = m.Sanitize()
	}

	utils.Success(c, "Department fetched successfully", gin.H{
		"department": dept,
		"members":    sanitized,
	})
}

// UpdateDepartmentRequest represents the request body for updating a department.
type UpdateDepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HeadID      string `json:"headId"`
}

// UpdateDepartment handles updating a department by ID. Admin only (route-gated).
func (h *DepartmentHandler) UpdateDepartment(c *gin.Context) {
	deptID := c.Param("id")

	var req UpdateDepartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var dept models.Department
	if err := h.DB.First(&dept, "id = ?", deptID).Error; err != nil {
		utils.NotFound(c, "Department not found")
		return
	}

	if req.Name != "" && req.Name != dept.Name {
		var existing models.Department
		if err := h.DB.Where("name = ? AND id != ?", req.Name, dept.ID).First(&existing).Error; err == nil {
			utils.BadRequest(c, "Department name is already in use")
			return
		} else if err != gorm.ErrRecordNotFound {
			utils.InternalServerError(c, "Database error checking name: "+err.Error())
			return
		}
		dept.Name = req.Name
	}
	if req.Description != "" {
		dept.Description = req.Description
	}
	if req.HeadID != "" {
		if !h.verifyHead(c, req.HeadID) {
			return
		}
		dept.HeadID = &req.HeadID
	}

	if err := h.DB.Save(&dept).Error; err != nil {
		utils.InternalServerError(c, "Failed to update department: "+err.Error())
		return
	}

	utils.Success(c, "Department updated successfully", dept)
}

// DeleteDepartment handles deleting a department by ID. Members are
// detached, not deleted. Admin only (route-gated).
func (h *DepartmentHandler) DeleteDepartment(c *gin.Context) {
	deptID := c.Param("id")

	var dept models.Department
	if err := h.DB.First(&dept, "id = ?", deptID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Department not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).
			Where("department_id = ?", dept.ID).
			Update("department_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Department{}, "id = ?", dept.ID).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete department: "+err.Error())
		return
	}

	utils.Success(c, "Department deleted successfully", nil)
}

// AssignMembersRequest represents the request body for assigning users to a department.
type AssignMembersRequest struct {
	UserIDs []string `json:"userIds" binding:"required,min=1"`
}

// AssignMembers moves the given users into the department. Admin only (route-gated).
func (h *DepartmentHandler) AssignMembers(c *gin.Context) {
	deptID := c.Param("id")

	var req AssignMembersRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var dept models.Department
	if err := h.DB.First(&dept, "id = ?", deptID).Error; err != nil {
		utils.NotFound(c, "Department not found")
		return
	}

	result := h.DB.Model(&models.User{}).
		Where("id IN ?", req.UserIDs).
		Update("department_id", dept.ID)
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to assign members: "+result.Error.Error())
		return
	}

	utils.Success(c, "Members assigned successfully", gin.H{"assigned": result.RowsAffected})
}

// RemoveMember detaches a single user from the department. Admin only (route-gated).
func (h *DepartmentHandler) RemoveMember(c *gin.Context) {
	deptID := c.Param("id")
	userID := c.Param("userId")

	result := h.DB.Model(&models.User{}).
		Where("id = ? AND department_id = ?", userID, deptID).
		Update("department_id", nil)
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to remove member: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.NotFound(c, "User is not a member of this department")
		return
	}

	utils.Success(c, "Member removed successfully", nil)
}

// verifyHead checks the prospective head exists and is a manager or admin.
func (h *DepartmentHandler) verifyHead(c *gin.Context, headID string) bool {
	var head models.User
	if err := h.DB.First(&head, "id = ?", headID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.BadRequest(c, "Head user not found")
		} else {
			utils.InternalServerError(c, "Database error verifying head: "+err.Error())
		}
		return false
	}
	if head.Role != models.RoleManager && head.Role != models.RoleAdmin {
		utils.BadRequest(c, "Department head must be a manager or admin")
		return false
	}
	return true
}
