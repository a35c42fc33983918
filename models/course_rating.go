package models

import (
	"time"
)

type CourseRating struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_rating_user_course"`
	CourseID  uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_rating_user_course"`
	Rating    int       `json:"rating" gorm:"not null"` // 1-5
	Review    string    `json:"review"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User   User   `json:"user,omitempty"`
	Course Course `json:"course,omitempty"`
}
