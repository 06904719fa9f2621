package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"orghub-server/internal/messaging"
	"orghub-server/internal/middleware"
	"orghub-server/internal/models"
	"orghub-server/internal/notify"
	"orghub-server/internal/policy"
	"orghub-server/internal/utils"
)

// MessageHandler handles messaging related requests.
type MessageHandler struct {
	DB       *gorm.DB
	Store    messaging.Store
	Notifier *notify.Notifier
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(db *gorm.DB, notifier *notify.Notifier) *MessageHandler {
	return &MessageHandler{DB: db, Store: messaging.NewGormStore(db), Notifier: notifier}
}

// SendMessageRequest represents the request body for sending a message.
type SendMessageRequest struct {
	RecipientIDs    []string `json:"recipientIds" binding:"required,min=1,dive,uuid"`
	Subject         string   `json:"subject"`
	Body            string   `json:"body" binding:"required"`
	ParentMessageID string   `json:"parentMessageId"`
	IsDraft         bool     `json:"isDraft"`
}

// SendMessage handles sending a new message (or saving it as a draft).
// Thread membership is resolved before the message is persisted; the
// parent's thread flag is updated after.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "Sender not found in token")
		return
	}

	recipients, ok := h.verifyRecipients(c, caller.ID, req.RecipientIDs)
	if !ok {
		return
	}

	message := models.Message{
		SenderID: caller.ID,
		Subject:  req.Subject,
		Body:     req.Body,
		IsDraft:  req.IsDraft,
	}
	if req.ParentMessageID != "" {
		parentID := req.ParentMessageID
		message.ParentMessageID = &parentID
	}

	// Drafts are not part of a thread until actually sent.
	if !message.IsDraft {
		if err := messaging.ResolveThreadID(c.Request.Context(), h.Store, &message); err != nil {
			utils.InternalServerError(c, "Failed to resolve thread: "+err.Error())
			return
		}
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		for _, userID := range recipients {
			entry := models.MessageRecipient{MessageID: message.ID, UserID: userID}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to send message: "+err.Error())
		return
	}

	if !message.IsDraft {
		if err := messaging.FlagParentAsThread(c.Request.Context(), h.Store, &message); err != nil {
			utils.InternalServerError(c, "Failed to update parent thread flag: "+err.Error())
			return
		}
		h.notifyRecipients(c, &message, recipients)
	}

	utils.Created(c, "Message sent successfully", message)
}

// SendDraft promotes a previously saved draft to a sent message, running
// the same thread resolution as a direct send.
func (h *MessageHandler) SendDraft(c *gin.Context) {
	messageID := c.Param("messageId")

	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var message models.Message
	if err := h.DB.Preload("Recipients").First(&message, "id = ?", messageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Message not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	if message.SenderID != caller.ID {
		utils.Forbidden(c, "Only the sender can send this draft.")
		return
	}
	if !message.IsDraft {
		utils.BadRequest(c, "Message has already been sent.")
		return
	}

	if err := messaging.ResolveThreadID(c.Request.Context(), h.Store, &message); err != nil {
		utils.InternalServerError(c, "Failed to resolve thread: "+err.Error())
		return
	}
	message.IsDraft = false
	if err := h.DB.Save(&message).Error; err != nil {
		utils.InternalServerError(c, "Failed to send draft: "+err.Error())
		return
	}
	if err := messaging.FlagParentAsThread(c.Request.Context(), h.Store, &message); err != nil {
		utils.InternalServerError(c, "Failed to update parent thread flag: "+err.Error())
		return
	}

	recipientIDs := make([]string, len(message.Recipients))
	for i, r := range message.Recipients {
		recipientIDs[i] = r.UserID
	}
	h.notifyRecipients(c, &message, recipientIDs)

	utils.Success(c, "Draft sent successfully", message)
}

// GetInbox lists messages addressed to the caller, excluding drafts and
// entries the caller has deleted.
func (h *MessageHandler) GetInbox(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var messages []models.Message
	err := h.DB.Preload("Sender").Preload("Recipients").
		Joins("JOIN message_recipients ON message_recipients.message_id = messages.id").
		Where("message_recipients.user_id = ? AND message_recipients.is_deleted = ? AND messages.is_draft = ?",
			caller.ID, false, false).
		Order("messages.created_at desc").
		Find(&messages).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch inbox: "+err.Error())
		return
	}

	utils.Success(c, "Inbox fetched successfully", messages)
}

// GetSent lists messages the caller has sent, excluding drafts and ones
// the caller has deleted.
func (h *MessageHandler) GetSent(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var messages []models.Message
	err := h.DB.Preload("Recipients").
		Where("sender_id = ? AND is_draft = ? AND deleted_by_sender = ?", caller.ID, false, false).
		Order("created_at desc").
		Find(&messages).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch sent messages: "+err.Error())
		return
	}

	utils.Success(c, "Sent messages fetched successfully", messages)
}

// GetDrafts lists the caller's unsent drafts.
func (h *MessageHandler) GetDrafts(c *gin.Context) {
	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var messages []models.Message
	err := h.DB.Preload("Recipients").
		Where("sender_id = ? AND is_draft = ?", caller.ID, true).
		Order("updated_at desc").
		Find(&messages).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch drafts: "+err.Error())
		return
	}

	utils.Success(c, "Drafts fetched successfully", messages)
}

// GetThread returns the whole conversation a message belongs to: the root
// first, then every reply in chronological order.
func (h *MessageHandler) GetThread(c *gin.Context) {
	messageID := c.Param("messageId")

	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var message models.Message
	if err := h.DB.Preload("Recipients").First(&message, "id = ?", messageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Message not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}
	if !policy.CanViewMessage(caller, &message) {
		utils.Forbidden(c, "You are not a participant of this conversation.")
		return
	}

	// Every reply carries the root's identifier, so the root is either
	// this message's ThreadID or the message itself.
	rootID := message.ID
	if message.ThreadID != nil {
		rootID = *message.ThreadID
	}

	var thread []models.Message
	err := h.DB.Preload("Sender").Preload("Recipients").
		Where("(id = ? OR thread_id = ?) AND is_draft = ?", rootID, rootID, false).
		Order("created_at asc").
		Find(&thread).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch thread: "+err.Error())
		return
	}

	utils.Success(c, "Thread fetched successfully", thread)
}

// MarkMessageAsRead marks the caller's recipient entry as read.
func (h *MessageHandler) MarkMessageAsRead(c *gin.Context) {
	entry, ok := h.loadRecipientEntry(c)
	if !ok {
		return
	}

	if entry.IsRead {
		utils.Success(c, "Message already marked as read", entry)
		return
	}

	now := time.Now()
	entry.IsRead = true
	entry.ReadAt = &now
	if err := h.DB.Save(entry).Error; err != nil {
		utils.InternalServerError(c, "Failed to update read state: "+err.Error())
		return
	}

	utils.Success(c, "Message marked as read successfully", entry)
}

// StarMessageRequest toggles the starred flag on the caller's entry.
type StarMessageRequest struct {
	Starred *bool `json:"starred" binding:"required"`
}

// StarMessage stars or unstars the message for the caller only.
func (h *MessageHandler) StarMessage(c *gin.Context) {
	var req StarMessageRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	entry, ok := h.loadRecipientEntry(c)
	if !ok {
		return
	}

	entry.IsStarred = *req.Starred
	if err := h.DB.Save(entry).Error; err != nil {
		utils.InternalServerError(c, "Failed to update starred state: "+err.Error())
		return
	}

	utils.Success(c, "Message starred state updated successfully", entry)
}

// DeleteMessage soft-deletes the message for the caller. A recipient only
// hides their own copy. The sender's delete hides the sent copy, and the
// message row is hard-deleted once the sender and every recipient have all
// deleted it.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	messageID := c.Param("messageId")

	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var message models.Message
	if err := h.DB.Preload("Recipients").First(&message, "id = ?", messageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Message not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if message.SenderID == caller.ID {
		// Drafts belong to the sender alone; remove them outright.
		if message.IsDraft {
			if err := h.hardDelete(&message); err != nil {
				utils.InternalServerError(c, "Failed to delete draft: "+err.Error())
				return
			}
			utils.Success(c, "Draft deleted successfully", nil)
			return
		}
		message.DeletedBySender = true
		if err := h.DB.Save(&message).Error; err != nil {
			utils.InternalServerError(c, "Failed to delete message: "+err.Error())
			return
		}
	} else {
		var entry models.MessageRecipient
		if err := h.DB.Where("message_id = ? AND user_id = ?", message.ID, caller.ID).
			First(&entry).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.Forbidden(c, "You are not a participant of this message.")
			} else {
				utils.InternalServerError(c, "Database error: "+err.Error())
			}
			return
		}
		if !policy.CanActOnRecipientEntry(caller, &entry) {
			utils.Forbidden(c, "You are not authorized to delete this message.")
			return
		}
		entry.IsDeleted = true
		if err := h.DB.Save(&entry).Error; err != nil {
			utils.InternalServerError(c, "Failed to delete message: "+err.Error())
			return
		}
	}

	if err := h.maybeHardDelete(message.ID); err != nil {
		utils.InternalServerError(c, "Failed to clean up message: "+err.Error())
		return
	}

	utils.Success(c, "Message deleted successfully", nil)
}

// loadRecipientEntry fetches the caller's recipient entry for the message
// in the route. Responds and returns ok=false on failure.
func (h *MessageHandler) loadRecipientEntry(c *gin.Context) (*models.MessageRecipient, bool) {
	messageID := c.Param("messageId")

	caller, exists := middleware.GetCaller(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return nil, false
	}

	var entry models.MessageRecipient
	if err := h.DB.Where("message_id = ? AND user_id = ?", messageID, caller.ID).
		First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Message not found for this recipient")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return nil, false
	}

	if !policy.CanActOnRecipientEntry(caller, &entry) {
		utils.Forbidden(c, "You are not authorized to modify this message.")
		return nil, false
	}
	return &entry, true
}

// maybeHardDelete removes the message row once the sender and every
// recipient have deleted their copies.
func (h *MessageHandler) maybeHardDelete(messageID string) error {
	var message models.Message
	if err := h.DB.Preload("Recipients").First(&message, "id = ?", messageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if !message.DeletedBySender {
		return nil
	}
	for _, r := range message.Recipients {
		if !r.IsDeleted {
			return nil
		}
	}
	return h.hardDelete(&message)
}

func (h *MessageHandler) hardDelete(message *models.Message) error {
	return h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.MessageRecipient{}, "message_id = ?", message.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, "id = ?", message.ID).Error
	})
}

// verifyRecipients checks that every recipient exists and is not the
// sender. Responds and returns ok=false on failure.
func (h *MessageHandler) verifyRecipients(c *gin.Context, senderID string, recipientIDs []string) ([]string, bool) {
	seen := make(map[string]bool, len(recipientIDs))
	unique := make([]string, 0, len(recipientIDs))
	for _, id := range recipientIDs {
		if id == senderID {
			utils.BadRequest(c, "Cannot send a message to yourself.")
			return nil, false
		}
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	var count int64
	if err := h.DB.Model(&models.User{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
		utils.InternalServerError(c, "Database error verifying recipients: "+err.Error())
		return nil, false
	}
	if count != int64(len(unique)) {
		utils.NotFound(c, "One or more recipients were not found.")
		return nil, false
	}
	return unique, true
}

func (h *MessageHandler) notifyRecipients(c *gin.Context, message *models.Message, recipientIDs []string) {
	for _, userID := range recipientIDs {
		h.Notifier.NotifyUser(c.Request.Context(), userID, notify.Event{
			Type: "message.received",
			Payload: gin.H{
				"messageId": message.ID,
				"senderId":  message.SenderID,
				"subject":   message.Subject,
				"threadId":  message.ThreadID,
			},
		})
	}
}
