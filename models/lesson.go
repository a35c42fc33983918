package models

import (
	"time"

	"gorm.io/gorm"
)

type Lesson struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	ChapterID   uint           `json:"chapter_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	Content     string         `json:"content"`
	VideoURL    string         `json:"video_url"`
	Position    int            `json:"position" gorm:"not null"` // contiguous per chapter, starting at 1
	IsPublished bool           `json:"is_published" gorm:"not null;default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Chapter     Chapter      `json:"chapter,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty" gorm:"foreignKey:LessonID"`
	Tests       []Test       `json:"tests,omitempty" gorm:"foreignKey:LessonID"`
}
