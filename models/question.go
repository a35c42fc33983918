package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuestionSingleChoice   = "single_choice"
	QuestionMultipleChoice = "multiple_choice"
	QuestionTrueFalse      = "true_false"
)

type Question struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	TestID    uint           `json:"test_id" gorm:"not null;index"`
	Text      string         `json:"text" gorm:"not null"`
	Type      string         `json:"type" gorm:"not null"` // single_choice, multiple_choice, true_false
	Points    int            `json:"points" gorm:"not null;default:1"`
	Position  int            `json:"position" gorm:"not null"` // contiguous per test, starting at 0
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Test    Test     `json:"test,omitempty"`
	Options []Option `json:"options,omitempty" gorm:"foreignKey:QuestionID"`
}
