package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"learnhub/events"
	"learnhub/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const unreadBadgeTTL = 24 * time.Hour

// MessageService persists direct messages. Real-time relay happens in the
// websocket hub; redis only caches the unread badge so polling clients do
// not hammer the messages table.
type MessageService struct {
	db     *gorm.DB
	redis  *redis.Client
	events *events.Publisher
}

func NewMessageService(db *gorm.DB, redisClient *redis.Client, publisher *events.Publisher) *MessageService {
	return &MessageService{db: db, redis: redisClient, events: publisher}
}

type SendMessageRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Text       string `json:"text"`
	MediaURL   string `json:"media_url"`
	MediaType  string `json:"media_type"`
	ReplyToID  *uint  `json:"reply_to_id"`
}

type Conversation struct {
	OtherUser   models.User    `json:"other_user"`
	LastMessage models.Message `json:"last_message"`
	UnreadCount int64          `json:"unread_count"`
}

func (s *MessageService) SendMessage(senderID uint, req *SendMessageRequest) (*models.Message, error) {
	var receiver models.User
	if err := s.db.First(&receiver, req.ReceiverID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	messageType := models.MessageText
	if req.MediaURL != "" {
		messageType = models.MessageMedia
	}
	message := models.Message{
		SenderID:    senderID,
		ReceiverID:  req.ReceiverID,
		Text:        req.Text,
		MediaURL:    req.MediaURL,
		MediaType:   req.MediaType,
		MessageType: messageType,
		ReplyToID:   req.ReplyToID,
	}
	if err := s.db.Create(&message).Error; err != nil {
		return nil, err
	}

	s.bumpUnreadBadge(req.ReceiverID)

	if s.events != nil {
		err := s.events.Publish(events.MessageSentKey, map[string]interface{}{
			"message_id":  message.ID,
			"sender_id":   senderID,
			"receiver_id": req.ReceiverID,
		})
		if err != nil {
			log.Printf("Failed to publish %s event: %v", events.MessageSentKey, err)
		}
	}

	err := s.db.Preload("Sender").Preload("Receiver").Preload("ReplyTo").
		First(&message, message.ID).Error
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// GetConversation returns the full history between two users, oldest first.
func (s *MessageService) GetConversation(userID, otherID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
			userID, otherID, otherID, userID).
		Preload("Sender").
		Preload("Receiver").
		Preload("ReplyTo").
		Order("created_at ASC").
		Find(&messages).Error
	return messages, err
}

// GetConversations lists the user's chat partners with the last message and
// unread count per partner, most recent conversation first.
func (s *MessageService) GetConversations(userID uint) ([]Conversation, error) {
	var messages []models.Message
	err := s.db.
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Preload("Sender").
		Preload("Receiver").
		Order("created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	conversations := []Conversation{}
	seen := make(map[uint]bool)
	for _, msg := range messages {
		otherID := msg.SenderID
		other := msg.Sender
		if msg.SenderID == userID {
			otherID = msg.ReceiverID
			other = msg.Receiver
		}
		if seen[otherID] {
			continue
		}
		seen[otherID] = true

		var unread int64
		err := s.db.Model(&models.Message{}).
			Where("sender_id = ? AND receiver_id = ? AND is_read = ?", otherID, userID, false).
			Count(&unread).Error
		if err != nil {
			return nil, err
		}

		conversations = append(conversations, Conversation{
			OtherUser:   other,
			LastMessage: msg,
			UnreadCount: unread,
		})
	}
	return conversations, nil
}

// MarkAsRead flags a single received message as read.
func (s *MessageService) MarkAsRead(messageID, userID uint) error {
	result := s.db.Model(&models.Message{}).
		Where("id = ? AND receiver_id = ?", messageID, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	s.refreshUnreadBadge(userID)
	return nil
}

// MarkConversationRead flags everything the other user sent as read.
func (s *MessageService) MarkConversationRead(userID, otherID uint) error {
	err := s.db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", otherID, userID, false).
		Update("is_read", true).Error
	if err != nil {
		return err
	}
	s.refreshUnreadBadge(userID)
	return nil
}

// UnreadCount serves the badge from redis when possible and falls back to
// the database.
func (s *MessageService) UnreadCount(userID uint) (int64, error) {
	if s.redis != nil {
		count, err := s.redis.Get(context.Background(), unreadBadgeKey(userID)).Int64()
		if err == nil {
			return count, nil
		}
		if err != redis.Nil {
			log.Printf("Redis error reading unread badge for user %d: %v", userID, err)
		}
	}

	var count int64
	err := s.db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	s.setUnreadBadge(userID, count)
	return count, nil
}

// DeleteMessage lets the sender remove their own message.
func (s *MessageService) DeleteMessage(messageID, userID uint) error {
	result := s.db.Where("id = ? AND sender_id = ?", messageID, userID).
		Delete(&models.Message{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

func unreadBadgeKey(userID uint) string {
	return fmt.Sprintf("unread:%d", userID)
}

func (s *MessageService) bumpUnreadBadge(userID uint) {
	if s.redis == nil {
		return
	}
	ctx := context.Background()
	if err := s.redis.Incr(ctx, unreadBadgeKey(userID)).Err(); err != nil {
		log.Printf("Redis error bumping unread badge for user %d: %v", userID, err)
		return
	}
	s.redis.Expire(ctx, unreadBadgeKey(userID), unreadBadgeTTL)
}

func (s *MessageService) refreshUnreadBadge(userID uint) {
	if s.redis == nil {
		return
	}
	var count int64
	err := s.db.Model(&models.Message{}).
		Where("receiver_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		log.Printf("Failed to recount unread messages for user %d: %v", userID, err)
		return
	}
	s.setUnreadBadge(userID, count)
}

func (s *MessageService) setUnreadBadge(userID uint, count int64) {
	if s.redis == nil {
		return
	}
	err := s.redis.Set(context.Background(), unreadBadgeKey(userID), count, unreadBadgeTTL).Err()
	if err != nil {
		log.Printf("Redis error storing unread badge for user %d: %v", userID, err)
	}
}
