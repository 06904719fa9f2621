package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"orghub-server/internal/middleware"
	"orghub-server/internal/models"
	"orghub-server/internal/policy"
	"orghub-server/internal/utils"
)

// EventHandler handles event related requests.
type EventHandler struct {
	DB *gorm.DB
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{DB: db}
}

// CreateEventRequest represents the request body for creating an event.
type CreateEventRequest struct {
	Title        string    `json:"title" binding:"required"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	StartTime    time.Time `json:"startTime" binding:"required"`
	EndTime      time.Time `json:"endTime" binding:"required"`
	DepartmentID string    `json:"departmentId"`
}

// CreateEvent handles creating a new event. Managers and admins only
// (route-gated); the creator is always the caller.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	caller, ok := middleware.GetCaller(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	if !policy.CanCreateEvents(caller) {
		utils.Forbidden(c, "You are not authorized to create events.")
		return
	}

	if !req.EndTime.After(req.StartTime) {
		utils.BadRequest(c, "Event end time must be after its start time.")
		return
	}
	if req.StartTime.Before(time.Now()) {
		utils.BadRequest(c, "Event start time must be in the future.")
		return
	}

	event := models.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Status:      models.EventStatusScheduled,
		CreatedByID: caller.ID,
	}
	if req.DepartmentID != "" {
		var dept models.Department
		if err := h.DB.First(&dept, "id = ?", req.DepartmentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.BadRequest(c, "Department not found")
			} else {
				utils.InternalServerError(c, "Database error verifying department: "+err.Error())
			}
			return
		}
		event.DepartmentID = &req.DepartmentID
	}

	if err := h.DB.Create(&event).Error; err != nil {
		utils.InternalServerError(c, "Failed to create event: "+err.Error())
		return
	}

	utils.Created(c, "Event created successfully", event)
}

// GetEvents handles fetching events, optionally filtered by department,
// status, or the "upcoming" flag. Any authenticated user.
func (h *EventHandler) GetEvents(c *gin.Context) {
	query := h.DB.Model(&models.Event{}).Order("start_time asc")

	if deptID := c.Query("departmentId"); deptID != "" {
		query = query.Where("department_id = ?", deptID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if c.Query("upcoming") == "true" {
		query = query.Where("start_time > ? AND status = ?", time.Now(), models.EventStatusScheduled)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch events: "+err.Error())
		return
	}

	utils.Success(c, "Events fetched successfully", events)
}

// GetEventByID handles fetching a single event by its ID.
func (h *EventHandler) GetEventByID(c *gin.Context) {
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

	utils.Success(c, "Event fetched successfully", event)
}

// UpdateEventRequest represents the request body for updating an event.
type UpdateEventRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	StartTime   *time.Time `json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
}

// UpdateEvent handles updating an event's details.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID := c.Param("id")

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	event, _, ok := h.loadEventForManagement(c, eventID)
	if !ok {
		return
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if req.Location != "" {
		event.Location = req.Location
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = *req.EndTime
	}
	if !event.EndTime.After(event.StartTime) {
		utils.BadRequest(c, "Event end time must be after its start time.")
		return
	}

	if err := h.DB.Save(event).Error; err != nil {
		utils.InternalServerError(c, "Failed to update event: "+err.Error())
		return
	}

	utils.Success(c, "Event updated successfully", event)
}

// UpdateEventStatusRequest represents the request body for updating an event's status.
type UpdateEventStatusRequest struct {
	Status models.EventStatus `json:"status" binding:"required,oneof=scheduled ongoing completed cancelled"`
}

// UpdateEventStatus handles moving an event through its lifecycle.
func (h *EventHandler) UpdateEventStatus(c *gin.Context) {
	eventID := c.Param("id")

	var req UpdateEventStatusRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	event, _, ok := h.loadEventForManagement(c, eventID)
	if !ok {
		return
	}

	// Completed and cancelled are terminal.
	if event.Status == models.EventStatusCompleted || event.Status == models.EventStatusCancelled {
		utils.BadRequest(c, "Event is already "+string(event.Status)+" and cannot change status.")
		return
	}

	event.Status = req.Status
	if err := h.DB.Save(event).Error; err != nil {
		utils.InternalServerError(c, "Failed to update event status: "+err.Error())
		return
	}

	utils.Success(c, "Event status updated successfully", event)
}

// DeleteEvent handles deleting an event and its attendance records.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	eventID := c.Param("id")

	event, _, ok := h.loadEventForManagement(c, eventID)
	if !ok {
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.AttendanceRecord{}, "event_id = ?", event.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Event{}, "id = ?", event.ID).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete event: "+err.Error())
		return
	}

	utils.Success(c, "Event deleted successfully", nil)
}

// loadEventForManagement fetches an event and authorizes the caller for
// management operations on it. Responds and returns ok=false on failure.
func (h *EventHandler) loadEventForManagement(c *gin.Context, eventID string) (*models.Event, policy.Caller, bool) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return nil, policy.Caller{}, false
	}

	var event models.Event
	if err := h.DB.First(&event, "id = ?", eventID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Event not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, policy.Caller{}, false
	}

	if !policy.CanManageEvent(caller, h.callerDepartment(caller), &event) {
		utils.Forbidden(c, "You are not authorized to manage this event.")
		return nil, policy.Caller{}, false
	}

	return &event, caller, true
}

// callerDepartment resolves the caller's department for policy checks.
func (h *EventHandler) callerDepartment(caller policy.Caller) *string {
	var user models.User
	if err := h.DB.Select("department_id").First(&user, "id = ?", caller.ID).Error; err != nil {
		return nil
	}
	return user.DepartmentID
}
