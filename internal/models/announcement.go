package models

import (
	"time"
)

// AnnouncementAudience selects which users an announcement targets
type AnnouncementAudience string

const (
	AudienceAll        AnnouncementAudience = "all"
	AudienceRole       AnnouncementAudience = "role"
	AudienceDepartment AnnouncementAudience = "department"
)

// Announcement represents a broadcast notice targeted at an audience
type Announcement struct {
	BaseModel
	Title        string               `gorm:"size:255;not null" json:"title"`
	Body         string               `gorm:"type:text" json:"body"`
	Audience     AnnouncementAudience `gorm:"size:20;default:'all'" json:"audience"`
	TargetRole   *Role                `gorm:"size:20" json:"targetRole,omitempty"`
	TargetDeptID *string              `gorm:"size:36;index" json:"targetDepartmentId,omitempty"`
	IsPublished  bool                 `gorm:"default:false" json:"isPublished"`
	PublishedAt  *time.Time           `json:"publishedAt,omitempty"`
	ExpiresAt    *time.Time           `json:"expiresAt,omitempty"`
	CreatedByID  string               `gorm:"size:36;index" json:"createdById"`

	// Relations
	CreatedBy  User        `gorm:"foreignKey:CreatedByID" json:"-"`
	TargetDept *Department `gorm:"foreignKey:TargetDeptID" json:"-"`
}
