package services

import (
	"learnhub/models"

	"gorm.io/gorm"
)

type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardStats struct {
	Students    int64 `json:"students"`
	Instructors int64 `json:"instructors"`
	Courses     int64 `json:"courses"`
	Chapters    int64 `json:"chapters"`
	Lessons     int64 `json:"lessons"`
	Tests       int64 `json:"tests"`
	Enrollments int64 `json:"enrollments"`
	Attempts    int64 `json:"attempts"`
}

// GetStats gathers the entity counts for the admin dashboard.
func (s *DashboardService) GetStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.Students, s.db.Model(&models.User{}).Where("role = ?", models.RoleStudent)},
		{&stats.Instructors, s.db.Model(&models.User{}).Where("role = ?", models.RoleInstructor)},
		{&stats.Courses, s.db.Model(&models.Course{})},
		{&stats.Chapters, s.db.Model(&models.Chapter{})},
		{&stats.Lessons, s.db.Model(&models.Lesson{})},
		{&stats.Tests, s.db.Model(&models.Test{})},
		{&stats.Enrollments, s.db.Model(&models.Enrollment{})},
		{&stats.Attempts, s.db.Model(&models.TestAttempt{})},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}
	return stats, nil
}
