package models

import (
	"time"
)

// AttendanceStatus represents a user's attendance state for an event
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

// AttendanceRecord represents one user's attendance for one event.
// At most one record exists per (event, user) pair; marking again updates it.
type AttendanceRecord struct {
	BaseModel
	EventID    string           `gorm:"size:36;index:idx_event_user,unique" json:"eventId"`
	UserID     string           `gorm:"size:36;index:idx_event_user,unique" json:"userId"`
	Status     AttendanceStatus `gorm:"size:20;default:'absent'" json:"status"`
	MarkedByID string           `gorm:"size:36" json:"markedById"`
	MarkedAt   time.Time        `json:"markedAt"`
	Note       string           `gorm:"size:255" json:"note,omitempty"`

	// Relations
	Event    Event `gorm:"foreignKey:EventID" json:"-"`
	User     User  `gorm:"foreignKey:UserID" json:"-"`
	MarkedBy User  `gorm:"foreignKey:MarkedByID" json:"-"`
}
