package models

import (
	"time"
)

// Message represents a message sent from one user to one or more recipients.
//
// Threading: a reply carries ParentMessageID. ThreadID always resolves to the
// identifier of the root message of the conversation, regardless of reply
// depth. IsThread is true only on a root that has at least one reply.
type Message struct {
	BaseModel
	SenderID        string  `gorm:"size:36;index" json:"senderId"`
	Subject         string  `gorm:"size:255" json:"subject"`
	Body            string  `gorm:"type:text" json:"body"`
	ParentMessageID *string `gorm:"size:36;index" json:"parentMessageId,omitempty"`
	ThreadID        *string `gorm:"size:36;index" json:"threadId,omitempty"`
	IsThread        bool    `gorm:"default:false" json:"isThread"`
	IsDraft         bool    `gorm:"default:false" json:"isDraft"`
	DeletedBySender bool    `gorm:"default:false" json:"-"`

	// Relations
	Sender     User               `gorm:"foreignKey:SenderID" json:"sender"`
	Recipients []MessageRecipient `gorm:"foreignKey:MessageID" json:"recipients"`
}

// MessageRecipient tracks one recipient's read/star/delete state for a
// message, independent of other recipients. Each entry is mutated only by
// that recipient, or cleared by a sender-initiated bulk delete.
type MessageRecipient struct {
	BaseModel
	MessageID string     `gorm:"size:36;index:idx_message_recipient,unique" json:"messageId"`
	UserID    string     `gorm:"size:36;index:idx_message_recipient,unique" json:"userId"`
	IsRead    bool       `gorm:"default:false" json:"isRead"`
	ReadAt    *time.Time `json:"readAt,omitempty"`
	IsStarred bool       `gorm:"default:false" json:"isStarred"`
	IsDeleted bool       `gorm:"default:false" json:"isDeleted"`

	// Relations
	Message Message `gorm:"foreignKey:MessageID" json:"-"`
	User    User    `gorm:"foreignKey:UserID" json:"-"`
}
