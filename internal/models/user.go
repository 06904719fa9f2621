package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role enum
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleMember  Role = "member"
)

// User represents a user in the system
type User struct {
	BaseModel
	Email            string     `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Password         string     `gorm:"size:255;not null" json:"-"` // Never send password in JSON
	FirstName        string     `gorm:"size:100" json:"firstName"`
	LastName         string     `gorm:"size:100" json:"lastName"`
	Role             Role       `gorm:"size:20;default:'member'" json:"role"`
	DepartmentID     *string    `gorm:"size:36;index" json:"departmentId,omitempty"`
	PhoneNumber      string     `json:"phoneNumber,omitempty"`
	ProfileImage     string     `json:"profileImage,omitempty"`
	JoinedAt         *time.Time `json:"joinedAt,omitempty"`
	IsActive         bool       `gorm:"default:true" json:"isActive"`
	ResetToken       string     `gorm:"size:255" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	// Relations (not always preloaded)
	Department        *Department        `gorm:"foreignKey:DepartmentID" json:"-"`
	RefreshTokens     []RefreshToken     `gorm:"foreignKey:UserID" json:"-"`
	CreatedEvents     []Event            `gorm:"foreignKey:CreatedByID" json:"-"`
	AttendanceRecords []AttendanceRecord `gorm:"foreignKey:UserID" json:"-"`
	SentMessages      []Message          `gorm:"foreignKey:SenderID" json:"-"`
}

// UserSanitized represents the user data that is safe to send in API responses.
type UserSanitized struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Role         Role       `json:"role"`
	DepartmentID *string    `json:"departmentId,omitempty"`
	PhoneNumber  string     `json:"phoneNumber,omitempty"`
	ProfileImage string     `json:"profileImage,omitempty"`
	JoinedAt     *time.Time `json:"joinedAt,omitempty"`
	IsActive     bool       `json:"isActive"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// SetPassword hashes a password and sets it on the user
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a password with the user's hashed password
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Sanitize creates a UserSanitized struct from a User model, excluding sensitive data.
func (u *User) Sanitize() UserSanitized {
	return UserSanitized{
		ID:           u.ID,
		Email:        u.Email,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Role:         u.Role,
		DepartmentID: u.DepartmentID,
		PhoneNumber:  u.PhoneNumber,
		ProfileImage: u.ProfileImage,
		JoinedAt:     u.JoinedAt,
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
