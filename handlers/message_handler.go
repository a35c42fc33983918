package handlers

import (
	"net/http"

	"learnhub/services"
	"learnhub/storage"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService *services.MessageService
	hub            *services.Hub
	store          *storage.Store
}

func NewMessageHandler(messageService *services.MessageService, hub *services.Hub, store *storage.Store) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		hub:            hub,
		store:          store,
	}
}

// SendMessage persists the message, then pushes it to the receiver's open
// connections. Delivery is best effort; the database copy is the source of
// truth.
func (h *MessageHandler) SendMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req services.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.messageService.SendMessage(userID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if h.hub != nil {
		h.hub.SendToUser(req.ReceiverID, "new_message", message)
	}
	c.JSON(http.StatusCreated, message)
}

// UploadMedia stores a chat attachment and returns its URL for a follow-up
// SendMessage call.
func (h *MessageHandler) UploadMedia(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File required"})
		return
	}

	name, err := h.store.Save(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": "/uploads/" + name})
}

func (h *MessageHandler) GetConversation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	otherID, ok := paramID(c, "id")
	if !ok {
		return
	}

	messages, err := h.messageService.GetConversation(userID, otherID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) GetConversations(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	conversations, err := h.messageService.GetConversations(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, conversations)
}

func (h *MessageHandler) MarkAsRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	messageID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.messageService.MarkAsRead(messageID, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Marked as read"})
}

func (h *MessageHandler) MarkConversationRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	otherID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.messageService.MarkConversationRead(userID, otherID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Conversation marked as read"})
}

func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.messageService.UnreadCount(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	messageID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.messageService.DeleteMessage(messageID, userID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}
