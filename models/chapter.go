package models

import (
	"time"

	"gorm.io/gorm"
)

type Chapter struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	CourseID    uint           `json:"course_id" gorm:"not null;index"`
	Title       string         `json:"title" gorm:"not null"`
	Description string         `json:"description"`
	CoverImage  string         `json:"cover_image"`
	Position    int            `json:"position" gorm:"not null"` // contiguous per course, starting at 1
	IsPublished bool           `json:"is_published" gorm:"not null;default:false"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Course  Course   `json:"course,omitempty"`
	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ChapterID"`
	Tests   []Test   `json:"tests,omitempty" gorm:"foreignKey:ChapterID"`
}
