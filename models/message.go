package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	MessageText  = "TEXT"
	MessageMedia = "MEDIA"
)

type Message struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	SenderID    uint           `json:"sender_id" gorm:"not null;index"`
	ReceiverID  uint           `json:"receiver_id" gorm:"not null;index"`
	Text        string         `json:"text"`
	MediaURL    string         `json:"media_url"`
	MediaType   string         `json:"media_type"`
	MessageType string         `json:"message_type" gorm:"not null;default:'TEXT'"`
	ReplyToID   *uint          `json:"reply_to_id"`
	IsRead      bool           `json:"is_read" gorm:"not null;default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Sender   User     `json:"sender,omitempty"`
	Receiver User     `json:"receiver,omitempty"`
	ReplyTo  *Message `json:"reply_to,omitempty" gorm:"foreignKey:ReplyToID"`
}
