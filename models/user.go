package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleStudent    = "STUDENT"
	RoleInstructor = "INSTRUCTOR"
	RoleAdmin      = "ADMIN"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type User struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	Email        string         `json:"email" gorm:"uniqueIndex;not null"`
	Password     string         `json:"-" gorm:"not null"`
	FirstName    string         `json:"first_name" gorm:"not null"`
	LastName     string         `json:"last_name" gorm:"not null"`
	Role         string         `json:"role" gorm:"not null;default:'STUDENT'"` // STUDENT, INSTRUCTOR, ADMIN
	Status       string         `json:"status" gorm:"not null;default:'INACTIVE'"`
	ProfileImage string         `json:"profile_image"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relationships
	Courses     []Course      `json:"courses,omitempty" gorm:"foreignKey:InstructorID"`
	Enrollments []Enrollment  `json:"enrollments,omitempty" gorm:"foreignKey:UserID"`
	Attempts    []TestAttempt `json:"attempts,omitempty" gorm:"foreignKey:UserID"`
}
