package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"orghub-server/internal/middleware"
	"orghub-server/internal/models"
	"orghub-server/internal/policy"
	"orghub-server/internal/utils"
)

// AttendanceHandler handles event attendance marking and queries.
type AttendanceHandler struct {
	DB *gorm.DB
}

// NewAttendanceHandler creates a new AttendanceHandler.
func NewAttendanceHandler(db *gorm.DB) *AttendanceHandler {
	return &AttendanceHandler{DB: db}
}

// MarkAttendanceRequest represents the request body for marking attendance
// for one or more users at an event.
type MarkAttendanceRequest struct {
	Records []AttendanceEntry `json:"records" binding:"required,min=1,dive"`
}

// AttendanceEntry is one user's attendance state within a marking request.
type AttendanceEntry struct {
	UserID string                  `json:"userId" binding:"required,uuid"`
	Status models.AttendanceStatus `json:"status" binding:"required,oneof=present absent late excused"`
	Note   string                  `json:"note"`
}

// MarkAttendance records attendance for an event in bulk. Marking the same
// user again overwrites the earlier record.
func (h *AttendanceHandler) MarkAttendance(c *gin.Context) {
	eventID := c.Param("id")

	var req MarkAttendanceRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var event models.Event
	if err := h.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Event not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var callerUser models.User
	if err := h.DB.Select("department_id").First(&callerUser, "id = ?", caller.ID).Error; err != nil {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}
	if !policy.CanMarkAttendance(caller, callerUser.DepartmentID, &event) {
		utils.Forbidden(c, "You are not authorized to mark attendance for this event.")
		return
	}

	now := time.Now()
	records := make([]models.AttendanceRecord, len(req.Records))
	for i, entry := range req.Records {
		records[i] = models.AttendanceRecord{
			EventID:    event.ID,
			UserID:     entry.UserID,
			Status:     entry.Status,
			Note:       entry.Note,
			MarkedByID: caller.ID,
			MarkedAt:   now,
		}
	}

	// Upsert on the (event, user) unique index so re-marking overwrites.
	err := h.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "note", "marked_by_id", "marked_at"}),
	}).Create(&records).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to record attendance: "+err.Error())
		return
	}

	utils.Success(c, "Attendance recorded successfully", gin.H{"recorded": len(records)})
}

// GetEventAttendance lists attendance records for an event, with a summary
// count per status.
func (h *AttendanceHandler) GetEventAttendance(c *gin.Context) {
	eventID := c.Param("id")

	var event models.Event
	if err := h.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Event not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	var records []models.AttendanceRecord
	if err := h.DB.Preload("User").Where("event_id = ?", event.ID).
		Order("marked_at asc").Find(&records).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch attendance: "+err.Error())
		return
	}

	summary := map[models.AttendanceStatus]int{}
	for _, r := range records {
		summary[r.Status]++
	}

	utils.Success(c, "Attendance fetched successfully", gin.H{
		"records": records,
		"summary": summary,
	})
}

// GetUserAttendance lists the authenticated caller's own attendance history.
func (h *AttendanceHandler) GetUserAttendance(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var records []models.AttendanceRecord
	if err := h.DB.Preload("Event").Where("user_id = ?", caller.ID).
		Order("marked_at desc").Find(&records).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch attendance history: "+err.Error())
		return
	}

	utils.Success(c, "Attendance history fetched successfully", records)
}
