package models

import (
	"time"
)

// RefreshToken is a rotated refresh credential. Redeeming a token
// revokes its row and issues a replacement, so each token is single-use.
type RefreshToken struct {
	BaseModel
	UserID    string    `gorm:"size:36;index" json:"userId"`
	Token     string    `gorm:"type:text;not null" json:"-"`
	ExpiresAt time.Time `json:"expiresAt"`
	IsRevoked bool      `gorm:"default:false" json:"isRevoked"`

	// Relations
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// Revoke marks the token unusable. Expiry is pulled in as well so the
// row is immediately eligible for cleanup.
func (t *RefreshToken) Revoke(now time.Time) {
	t.IsRevoked = true
	if t.ExpiresAt.After(now) {
		t.ExpiresAt = now
	}
}
