// Package messaging keeps the reply-chain bookkeeping for messages: every
// reply in a conversation resolves to the root message's identifier, and a
// root is flagged once it has replies.
package messaging

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"orghub-server/internal/models"
)

// ErrMessageNotFound is returned by a Store when no message exists for the
// given identifier.
var ErrMessageNotFound = errors.New("message not found")

// Store is the minimal message persistence surface the thread resolver
// needs: find by identifier and update fields by identifier.
type Store interface {
	FindByID(ctx context.Context, id string) (*models.Message, error)
	UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error
}

// ResolveThreadID determines the thread a message belongs to and sets
// msg.ThreadID accordingly. Call it before persisting the message.
//
// A reply adopts its parent's ThreadID when the parent is itself a reply,
// otherwise the parent's own identifier. Replies therefore converge on the
// original root's identifier regardless of reply depth. A missing parent is
// not an error: the message stays a standalone, unthreaded message.
//
// A message whose own IsThread flag is already true but whose ThreadID is
// unset (a just-created root with no prior replies) gets its own identifier
// as ThreadID, denormalizing lookup.
func ResolveThreadID(ctx context.Context, store Store, msg *models.Message) error {
	if msg.ThreadID == nil && msg.ParentMessageID != nil {
		parent, err := store.FindByID(ctx, *msg.ParentMessageID)
		if err != nil {
			if errors.Is(err, ErrMessageNotFound) {
				return nil
			}
			return err
		}
		if parent.ThreadID != nil {
			threadID := *parent.ThreadID
			msg.ThreadID = &threadID
		} else {
			threadID := parent.ID
			msg.ThreadID = &threadID
		}
		return nil
	}

	if msg.ThreadID == nil && msg.IsThread && msg.ID != "" {
		threadID := msg.ID
		msg.ThreadID = &threadID
	}
	return nil
}

// FlagParentAsThread marks the immediate parent of a persisted reply as a
// thread root. The update always writes true, so concurrent replies racing
// on the same parent cannot lose anything; repeating it is safe.
func FlagParentAsThread(ctx context.Context, store Store, msg *models.Message) error {
	if msg.ParentMessageID == nil {
		return nil
	}
	err := store.UpdateFields(ctx, *msg.ParentMessageID, map[string]interface{}{"is_thread": true})
	if errors.Is(err, ErrMessageNotFound) {
		return nil
	}
	return err
}

// GormStore implements Store on top of the messages table.
type GormStore struct {
	DB *gorm.DB
}

// NewGormStore creates a Store backed by the given database handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

func (s *GormStore) FindByID(ctx context.Context, id string) (*models.Message, error) {
	var msg models.Message
	if err := s.DB.WithContext(ctx).First(&msg, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return &msg, nil
}

func (s *GormStore) UpdateFields(ctx context.Context, id string, fields map[string]interface{}) error {
	result := s.DB.WithContext(ctx).Model(&models.Message{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}
