package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"orghub-server/internal/middleware"
	"orghub-server/internal/models"
	"orghub-server/internal/notify"
	"orghub-server/internal/policy"
	"orghub-server/internal/utils"
)

// AnnouncementHandler handles announcement related requests.
type AnnouncementHandler struct {
	DB       *gorm.DB
	Notifier *notify.Notifier
}

// NewAnnouncementHandler creates a new AnnouncementHandler.
func NewAnnouncementHandler(db *gorm.DB, notifier *notify.Notifier) *AnnouncementHandler {
	return &AnnouncementHandler{DB: db, Notifier: notifier}
}

// CreateAnnouncementRequest represents the request body for creating an announcement.
type CreateAnnouncementRequest struct {
	Title              string     `json:"title" binding:"required"`
	Body               string     `json:"body" binding:"required"`
	Audience           string     `json:"audience" binding:"required,oneof=all role department"`
	TargetRole         string     `json:"targetRole"`
	TargetDepartmentID string     `json:"targetDepartmentId"`
	ExpiresAt          *time.Time `json:"expiresAt"`
}

// CreateAnnouncement handles creating an announcement as an unpublished
// draft. Managers and admins only (route-gated).
func (h *AnnouncementHandler) CreateAnnouncement(c *gin.Context) {
	var req CreateAnnouncementRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	if !policy.CanCreateAnnouncements(caller) {
		utils.Forbidden(c, "You are not authorized to create announcements.")
		return
	}

	ann := models.Announcement{
		Title:       req.Title,
		Body:        req.Body,
		Audience:    models.AnnouncementAudience(req.Audience),
		ExpiresAt:   req.ExpiresAt,
		CreatedByID: caller.ID,
	}

	switch ann.Audience {
	case models.AudienceRole:
		role := models.Role(req.TargetRole)
		if role != models.RoleAdmin && role != models.RoleManager && role != models.RoleMember {
			utils.BadRequest(c, "Role-targeted announcements require a valid targetRole.")
			return
		}
		ann.TargetRole = &role
	case models.AudienceDepartment:
		if req.TargetDepartmentID == "" {
			utils.BadRequest(c, "Department-targeted announcements require targetDepartmentId.")
			return
		}
		var dept models.Department
		if err := h.DB.First(&dept, "id = ?", req.TargetDepartmentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.BadRequest(c, "Target department not found")
			} else {
				utils.InternalServerError(c, "Database error verifying department: "+err.Error())
			}
			return
		}
		ann.TargetDeptID = &req.TargetDepartmentID
	}

	if err := h.DB.Create(&ann).Error; err != nil {
		utils.InternalServerError(c, "Failed to create announcement: "+err.Error())
		return
	}

	utils.Created(c, "Announcement created successfully", ann)
}

// GetAnnouncements lists published, unexpired announcements visible to the
// caller: all-audience ones, ones targeting the caller's role, and ones
// targeting the caller's department.
func (h *AnnouncementHandler) GetAnnouncements(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var user models.User
	if err := h.DB.Select("department_id").First(&user, "id = ?", caller.ID).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	now := time.Now()
	query := h.DB.Where("is_published = ?", true).
		Where("expires_at IS NULL OR expires_at > ?", now)

	if user.DepartmentID != nil {
		query = query.Where(
			"audience = ? OR (audience = ? AND target_role = ?) OR (audience = ? AND target_dept_id = ?)",
			models.AudienceAll, models.AudienceRole, caller.Role, models.AudienceDepartment, *user.DepartmentID)
	} else {
		query = query.Where("audience = ? OR (audience = ? AND target_role = ?)",
			models.AudienceAll, models.AudienceRole, caller.Role)
	}

	var announcements []models.Announcement
	if err := query.Order("published_at desc").Find(&announcements).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch announcements: "+err.Error())
		return
	}

	utils.Success(c, "Announcements fetched successfully", announcements)
}

// GetOwnAnnouncements lists announcements the caller authored, drafts
// included. Managers and admins only (route-gated).
func (h *AnnouncementHandler) GetOwnAnnouncements(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	query := h.DB.Order("created_at desc")
	if caller.Role != models.RoleAdmin {
		query = query.Where("created_by_id = ?", caller.ID)
	}

	var announcements []models.Announcement
	if err := query.Find(&announcements).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch announcements: "+err.Error())
		return
	}

	utils.Success(c, "Announcements fetched successfully", announcements)
}

// UpdateAnnouncementRequest represents the request body for updating an announcement.
type UpdateAnnouncementRequest struct {
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

// UpdateAnnouncement handles editing an announcement's content.
func (h *AnnouncementHandler) UpdateAnnouncement(c *gin.Context) {
	ann, ok := h.loadForManagement(c)
	if !ok {
		return
	}

	var req UpdateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if req.Title != "" {
		ann.Title = req.Title
	}
	if req.Body != "" {
		ann.Body = req.Body
	}
	if req.ExpiresAt != nil {
		ann.ExpiresAt = req.ExpiresAt
	}

	if err := h.DB.Save(ann).Error; err != nil {
		utils.InternalServerError(c, "Failed to update announcement: "+err.Error())
		return
	}

	utils.Success(c, "Announcement updated successfully", ann)
}

// PublishAnnouncement marks an announcement published and broadcasts a
// notification event.
func (h *AnnouncementHandler) PublishAnnouncement(c *gin.Context) {
	ann, ok := h.loadForManagement(c)
	if !ok {
		return
	}

	if ann.IsPublished {
		utils.Success(c, "Announcement is already published", ann)
		return
	}

	now := time.Now()
	ann.IsPublished = true
	ann.PublishedAt = &now
	if err := h.DB.Save(ann).Error; err != nil {
		utils.InternalServerError(c, "Failed to publish announcement: "+err.Error())
		return
	}

	h.Notifier.Broadcast(c.Request.Context(), notify.Event{
		Type: "announcement.published",
		Payload: gin.H{
			"announcementId": ann.ID,
			"title":          ann.Title,
			"audience":       ann.Audience,
		},
	})

	utils.Success(c, "Announcement published successfully", ann)
}

// DeleteAnnouncement handles deleting an announcement.
func (h *AnnouncementHandler) DeleteAnnouncement(c *gin.Context) {
	ann, ok := h.loadForManagement(c)
	if !ok {
		return
	}

	if err := h.DB.Delete(&models.Announcement{}, "id = ?", ann.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete announcement: "+err.Error())
		return
	}

	utils.Success(c, "Announcement deleted successfully", nil)
}

// loadForManagement fetches the announcement in the route and authorizes
// the caller to manage it. Responds and returns ok=false on failure.
func (h *AnnouncementHandler) loadForManagement(c *gin.Context) (*models.Announcement, bool) {
	annID := c.Param("id")

	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}

	var ann models.Announcement
	if err := h.DB.First(&ann, "id = ?", annID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Announcement not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}

	if !policy.CanManageAnnouncement(caller, &ann) {
		utils.Forbidden(c, "You are not authorized to manage this announcement.")
		return nil, false
	}
	return &ann, true
}
