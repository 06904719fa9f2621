package models

import (
	"time"
)

// ReportFrequency represents how often a scheduled report recurs
type ReportFrequency string

const (
	FrequencyDaily   ReportFrequency = "daily"
	FrequencyWeekly  ReportFrequency = "weekly"
	FrequencyMonthly ReportFrequency = "monthly"
	FrequencyCustom  ReportFrequency = "custom"
)

// Report represents a scheduled report definition.
//
// DayOfWeek is set only for weekly reports (0=Sunday..6=Saturday) and
// DayOfMonth only for monthly ones (1-31, clamped at run-time to the last
// day of shorter months). NextRun is recomputed on every save where
// Frequency, DayOfWeek, DayOfMonth or TimeOfDay changed, and cleared while
// the report is inactive.
type Report struct {
	BaseModel
	Name         string          `gorm:"size:255;not null" json:"name"`
	Kind         string          `gorm:"size:100" json:"kind"`
	Frequency    ReportFrequency `gorm:"size:20;not null" json:"frequency"`
	DayOfWeek    *int            `json:"dayOfWeek,omitempty"`
	DayOfMonth   *int            `json:"dayOfMonth,omitempty"`
	TimeOfDay    string          `gorm:"size:5" json:"timeOfDay"`
	Timezone     string          `gorm:"size:64;default:'UTC'" json:"timezone"`
	IsActive     bool            `gorm:"default:true" json:"isActive"`
	NextRun      *time.Time      `gorm:"index" json:"nextRun,omitempty"`
	LastRun      *time.Time      `json:"lastRun,omitempty"`
	DepartmentID *string         `gorm:"size:36;index" json:"departmentId,omitempty"`
	CreatedByID  string          `gorm:"size:36;index" json:"createdById"`

	// Relations
	Department *Department `gorm:"foreignKey:DepartmentID" json:"-"`
	CreatedBy  User        `gorm:"foreignKey:CreatedByID" json:"-"`
}
