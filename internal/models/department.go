package models

// Department represents an organizational unit users belong to
type Department struct {
	BaseModel
	Name        string  `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string  `gorm:"type:text" json:"description"`
	HeadID      *string `gorm:"size:36;index" json:"headId,omitempty"`

	// Relations
	Head    *User  `gorm:"foreignKey:HeadID" json:"head,omitempty"`
	Members []User `gorm:"foreignKey:DepartmentID" json:"-"`
}
