package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"orghub-server/internal/middleware"
	"orghub-server/internal/models"
	"orghub-server/internal/utils"
)

// FinanceHandler handles ledger entries and summaries.
type FinanceHandler struct {
	DB *gorm.DB
}

// NewFinanceHandler creates a new FinanceHandler.
func NewFinanceHandler(db *gorm.DB) *FinanceHandler {
	return &FinanceHandler{DB: db}
}

// CreateFinanceEntryRequest represents the request body for a ledger entry.
type CreateFinanceEntryRequest struct {
	Type         models.FinanceEntryType `json:"type" binding:"required,oneof=income expense"`
	AmountCents  int64                   `json:"amountCents" binding:"required,gt=0"`
	Category     string                  `json:"category" binding:"required"`
	Description  string                  `json:"description"`
	EntryDate    *time.Time              `json:"entryDate"`
	DepartmentID string                  `json:"departmentId"`
}

// CreateEntry appends a ledger entry. Managers and admins only (route-gated).
func (h *FinanceHandler) CreateEntry(c *gin.Context) {
	var req CreateFinanceEntryRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	entryDate := time.Now()
	if req.EntryDate != nil {
		entryDate = *req.EntryDate
	}

	entry := models.FinanceEntry{
		Type:         req.Type,
		AmountCents:  req.AmountCents,
		Category:     req.Category,
		Description:  req.Description,
		EntryDate:    entryDate,
		RecordedByID: caller.ID,
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
		entry.DepartmentID = &req.DepartmentID
	}

	if err := h.DB.Create(&entry).Error; err != nil {
		utils.InternalServerError(c, "Failed to record ledger entry: "+err.Error())
		return
	}

	utils.Created(c, "Ledger entry recorded successfully", entry)
}

// GetEntries lists ledger entries with optional filters: type, category,
// department, and an inclusive date range.
func (h *FinanceHandler) GetEntries(c *gin.Context) {
	query, ok := h.filteredQuery(c)
	if !ok {
		return
	}

	var entries []models.FinanceEntry
	if err := query.Order("entry_date desc").Find(&entries).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch ledger entries: "+err.Error())
		return
	}

	utils.Success(c, "Ledger entries fetched successfully", entries)
}

// FinanceSummary aggregates ledger totals over the filtered entries.
type FinanceSummary struct {
	IncomeCents  int64 `json:"incomeCents"`
	ExpenseCents int64 `json:"expenseCents"`
	BalanceCents int64 `json:"balanceCents"`
	EntryCount   int64 `json:"entryCount"`
}

// GetSummary computes income/expense totals and the resulting balance,
// honoring the same filters as GetEntries.
func (h *FinanceHandler) GetSummary(c *gin.Context) {
	baseQuery, ok := h.filteredQuery(c)
	if !ok {
		return
	}

	var rows []struct {
		Type  models.FinanceEntryType
		Total int64
		Count int64
	}
	if err := baseQuery.
		Select("type, COALESCE(SUM(amount_cents), 0) AS total, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error; err != nil {
		utils.InternalServerError(c, "Failed to compute summary: "+err.Error())
		return
	}

	var summary FinanceSummary
	for _, row := range rows {
		switch row.Type {
		case models.FinanceIncome:
			summary.IncomeCents = row.Total
		case models.FinanceExpense:
			summary.ExpenseCents = row.Total
		}
		summary.EntryCount += row.Count
	}
	summary.BalanceCents = summary.IncomeCents - summary.ExpenseCents

	utils.Success(c, "Summary computed successfully", summary)
}

// DeleteEntry removes a ledger entry. Admin only (route-gated).
func (h *FinanceHandler) DeleteEntry(c *gin.Context) {
	entryID := c.Param("id")

	var entry models.FinanceEntry
	if err := h.DB.First(&entry, "id = ?", entryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Ledger entry not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&models.FinanceEntry{}, "id = ?", entry.ID).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete ledger entry: "+err.Error())
		return
	}

	utils.Success(c, "Ledger entry deleted successfully", nil)
}

// filteredQuery builds the shared filter query from the request. Responds
// and returns ok=false for malformed date parameters.
func (h *FinanceHandler) filteredQuery(c *gin.Context) (*gorm.DB, bool) {
	query := h.DB.Model(&models.FinanceEntry{})

	if entryType := c.Query("type"); entryType != "" {
		query = query.Where("type = ?", entryType)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if deptID := c.Query("departmentId"); deptID != "" {
		query = query.Where("department_id = ?", deptID)
	}
	if from := c.Query("from"); from != "" {
		fromTime, err := time.Parse(time.RFC3339, from)
		if err != nil {
			utils.BadRequest(c, "Invalid 'from' timestamp. Use RFC3339 format.")
			return nil, false
		}
		query = query.Where("entry_date >= ?", fromTime)
	}
	if to := c.Query("to"); to != "" {
		toTime, err := time.Parse(time.RFC3339, to)
		if err != nil {
			utils.BadRequest(c, "Invalid 'to' timestamp. Use RFC3339 format.")
			return nil, false
		}
		query = query.Where("entry_date <= ?", toTime)
	}

	return query, true
}
