package models

import (
	"time"
)

// EventStatus represents the lifecycle state of an event
type EventStatus string

const (
	EventStatusScheduled EventStatus = "scheduled"
	EventStatusOngoing   EventStatus = "ongoing"
	EventStatusCompleted EventStatus = "completed"
	EventStatusCancelled EventStatus = "cancelled"
)

// Event represents a scheduled organization event
type Event struct {
	BaseModel
	Title        string      `gorm:"size:255;not null" json:"title"`
	Description  string      `gorm:"type:text" json:"description"`
	Location     string      `gorm:"size:255" json:"location"`
	StartTime    time.Time   `json:"startTime"`
	EndTime      time.Time   `json:"endTime"`
	Status       EventStatus `gorm:"size:20;default:'scheduled'" json:"status"`
	DepartmentID *string     `gorm:"size:36;index" json:"departmentId,omitempty"`
	CreatedByID  string      `gorm:"size:36;index" json:"createdById"`

	// Relations
	Department *Department        `gorm:"foreignKey:DepartmentID" json:"-"`
	CreatedBy  User               `gorm:"foreignKey:CreatedByID" json:"-"`
	Attendance []AttendanceRecord `gorm:"foreignKey:EventID" json:"-"`
}
