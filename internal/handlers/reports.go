package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"orghub-server/internal/middleware"
	"orghub-server/internal/models"
	"orghub-server/internal/policy"
	"orghub-server/internal/schedule"
	"orghub-server/internal/utils"
)

// ReportHandler handles scheduled report definitions.
type ReportHandler struct {
	DB *gorm.DB

	// Now is injectable so schedule computations are testable.
	Now func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db, Now: time.Now}
}

// CreateReportRequest represents the request body for creating a report.
type CreateReportRequest struct {
	Name         string `json:"name" binding:"required"`
	Kind         string `json:"kind" binding:"required"`
	Frequency    string `json:"frequency" binding:"required,oneof=daily weekly monthly custom"`
	DayOfWeek    *int   `json:"dayOfWeek"`
	DayOfMonth   *int   `json:"dayOfMonth"`
	TimeOfDay    string `json:"timeOfDay" binding:"required"`
	Timezone     string `json:"timezone"`
	DepartmentID string `json:"departmentId"`
}

// CreateReport handles creating a scheduled report. The next run time is
// computed on creation. Managers and admins only (route-gated).
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	if !policy.CanManageReports(caller) {
		utils.Forbidden(c, "You are not authorized to manage reports.")
		return
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	report := models.Report{
		Name:        req.Name,
		Kind:        req.Kind,
		Frequency:   models.ReportFrequency(req.Frequency),
		DayOfWeek:   req.DayOfWeek,
		DayOfMonth:  req.DayOfMonth,
		TimeOfDay:   req.TimeOfDay,
		Timezone:    timezone,
		IsActive:    true,
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
		report.DepartmentID = &req.DepartmentID
	}

	normalizeCompanionFields(&report)
	if !h.recomputeNextRun(c, &report) {
		return
	}

	if err := h.DB.Create(&report).Error; err != nil {
		utils.InternalServerError(c, "Failed to create report: "+err.Error())
		return
	}

	utils.Created(c, "Report created successfully", report)
}

// GetReports lists report definitions, optionally filtered by department
// or active state.
func (h *ReportHandler) GetReports(c *gin.Context) {
	query := h.DB.Model(&models.Report{}).Order("name asc")

	if deptID := c.Query("departmentId"); deptID != "" {
		query = query.Where("department_id = ?", deptID)
	}
	if active := c.Query("active"); active != "" {
		query = query.Where("is_active = ?", active == "true")
	}

	var reports []models.Report
	if err := query.Find(&reports).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch reports: "+err.Error())
		return
	}

	utils.Success(c, "Reports fetched successfully", reports)
}

// GetDueReports lists active reports whose next run time has arrived.
// Used by the worker that actually executes reports.
func (h *ReportHandler) GetDueReports(c *gin.Context) {
	var reports []models.Report
	if err := h.DB.Where("is_active = ? AND next_run IS NOT NULL AND next_run <= ?", true, h.Now()).
		Order("next_run asc").Find(&reports).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch due reports: "+err.Error())
		return
	}

	utils.Success(c, "Due reports fetched successfully", reports)
}

// GetReportByID handles fetching a single report by its ID.
func (h *ReportHandler) GetReportByID(c *gin.Context) {
	reportID := c.Param("id")

	var report models.Report
	if err := h.DB.First(&report, "id = ?", reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Report not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Report fetched successfully", report)
}

// UpdateReportRequest represents the request body for updating a report.
type UpdateReportRequest struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Frequency  string `json:"frequency,omitempty"`
	DayOfWeek  *int   `json:"dayOfWeek"`
	DayOfMonth *int   `json:"dayOfMonth"`
	TimeOfDay  string `json:"timeOfDay"`
	Timezone   string `json:"timezone"`
	IsActive   *bool  `json:"isActive"`
}

// UpdateReport handles updating a report definition. NextRun is recomputed
// whenever the frequency, day-of-week, day-of-month, or time-of-day
// changed; deactivating the report clears it.
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	reportID := c.Param("id")

	var req UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var report models.Report
	if err := h.DB.First(&report, "id = ?", reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Report not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	scheduleChanged := false
	if req.Name != "" {
		report.Name = req.Name
	}
	if req.Kind != "" {
		report.Kind = req.Kind
	}
	if req.Frequency != "" && models.ReportFrequency(req.Frequency) != report.Frequency {
		switch models.ReportFrequency(req.Frequency) {
		case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyCustom:
			report.Frequency = models.ReportFrequency(req.Frequency)
			scheduleChanged = true
		default:
			utils.BadRequest(c, "Invalid frequency: "+req.Frequency)
			return
		}
	}
	if req.DayOfWeek != nil {
		report.DayOfWeek = req.DayOfWeek
		scheduleChanged = true
	}
	if req.DayOfMonth != nil {
		report.DayOfMonth = req.DayOfMonth
		scheduleChanged = true
	}
	if req.TimeOfDay != "" && req.TimeOfDay != report.TimeOfDay {
		report.TimeOfDay = req.TimeOfDay
		scheduleChanged = true
	}
	if req.Timezone != "" {
		report.Timezone = req.Timezone
	}
	if req.IsActive != nil {
		report.IsActive = *req.IsActive
	}

	// A frequency switch must not leave the old frequency's day
	// selector behind on the stored record.
	normalizeCompanionFields(&report)

	if !report.IsActive {
		// Inactive schedules never run.
		report.NextRun = nil
	} else if scheduleChanged || report.NextRun == nil {
		if !h.recomputeNextRun(c, &report) {
			return
		}
	}

	if err := h.DB.Save(&report).Error; err != nil {
		utils.InternalServerError(c, "Failed to update report: "+err.Error())
		return
	}

	utils.Success(c, "Report updated successfully", report)
}

// MarkReportRun records a completed execution and schedules the next one.
func (h *ReportHandler) MarkReportRun(c *gin.Context) {
	reportID := c.Param("id")

	var report models.Report
	if err := h.DB.First(&report, "id = ?", reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Report not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	now := h.Now()
	report.LastRun = &now
	if report.IsActive {
		if !h.recomputeNextRun(c, &report) {
			return
		}
	}

	if err := h.DB.Save(&report).Error; err != nil {
		utils.InternalServerError(c, "Failed to record report run: "+err.Error())
		return
	}

	utils.Success(c, "Report run recorded successfully", report)
}

// DeleteReport handles deleting a report definition.
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	reportID := c.Param("id")

	var report models.Report
	if err := h.DB.First(&report, "id = ?", reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Report not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&models.Report{}, "id = ?", report.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete report: "+err.Error())
		return
	}

	utils.Success(c, "Report deleted successfully", nil)
}

// normalizeCompanionFields drops the day selector that does not apply to
// the report's frequency: dayOfWeek belongs to weekly schedules only,
// dayOfMonth to monthly only.
func normalizeCompanionFields(report *models.Report) {
	if report.Frequency != models.FrequencyWeekly {
		report.DayOfWeek = nil
	}
	if report.Frequency != models.FrequencyMonthly {
		report.DayOfMonth = nil
	}
}

// recomputeNextRun runs the schedule calculator for the report and stores
// the result. Responds and returns false on an invalid schedule.
func (h *ReportHandler) recomputeNextRun(c *gin.Context, report *models.Report) bool {
	next, err := schedule.NextRun(schedule.Spec{
		Frequency:  report.Frequency,
		DayOfWeek:  report.DayOfWeek,
		DayOfMonth: report.DayOfMonth,
		TimeOfDay:  report.TimeOfDay,
		Timezone:   report.Timezone,
	}, h.Now())
	if err != nil {
		var invalid *schedule.InvalidScheduleError
		if errors.As(err, &invalid) {
			utils.BadRequest(c, invalid.Error())
		} else {
			utils.InternalServerError(c, "Failed to compute next run: "+err.Error())
		}
		return false
	}
	report.NextRun = &next
	return true
}
