package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Title        string         `json:"title" gorm:"not null"`
	Description  string         `json:"description"`
	CoverImage   string         `json:"cover_image"`
	InstructorID uint           `json:"instructor_id" gorm:"not null"`
	IsPublished  bool           `json:"is_published" gorm:"not null;default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Instructor User           `json:"instructor,omitempty"`
	Chapters   []Chapter      `json:"chapters,omitempty" gorm:"foreignKey:CourseID"`
	Tests      []Test         `json:"tests,omitempty" gorm:"foreignKey:CourseID"`
	Ratings    []CourseRating `json:"ratings,omitempty" gorm:"foreignKey:CourseID"`
}
