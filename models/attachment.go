package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	AttachmentDocument = "DOCUMENT"
	AttachmentImage    = "IMAGE"
	AttachmentVideo    = "VIDEO"
)

type Attachment struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	LessonID  uint           `json:"lesson_id" gorm:"not null;index"`
	Name      string         `json:"name" gorm:"not null"`
	URL       string         `json:"url" gorm:"not null"`
	Type      string         `json:"type" gorm:"not null;default:'DOCUMENT'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Lesson Lesson `json:"lesson,omitempty"`
}
