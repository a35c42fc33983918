package models

import (
	"time"

	"gorm.io/gorm"
)

// Test attaches to exactly one of a course, a chapter, or a lesson.
type Test struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Title        string         `json:"title" gorm:"not null"`
	Description  string         `json:"description"`
	TimeLimit    *int           `json:"time_limit"` // minutes, nil means untimed
	PassingScore int            `json:"passing_score" gorm:"not null;default:70"`
	IsPublished  bool           `json:"is_published" gorm:"not null;default:false"`
	CourseID     *uint          `json:"course_id" gorm:"index"`
	ChapterID    *uint          `json:"chapter_id" gorm:"index"`
	LessonID     *uint          `json:"lesson_id" gorm:"index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Questions []Question    `json:"questions,omitempty" gorm:"foreignKey:TestID"`
	Attempts  []TestAttempt `json:"attempts,omitempty" gorm:"foreignKey:TestID"`
}
