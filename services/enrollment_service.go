package services

import (
	"errors"
	"log"

	"learnhub/events"
	"learnhub/models"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	db     *gorm.DB
	events *events.Publisher
}

func NewEnrollmentService(db *gorm.DB, publisher *events.Publisher) *EnrollmentService {
	return &EnrollmentService{db: db, events: publisher}
}

// Enroll creates the enrollment for a published course. Like test attempts,
// the (user_id, course_id) unique index is what actually prevents double
// enrollment under concurrency.
func (s *EnrollmentService) Enroll(userID, courseID uint) (*models.Enrollment, error) {
	var course models.Course
	err := s.db.Where("id = ? AND is_published = ?", courseID, true).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	var existing models.Enrollment
	err = s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyEnrolled
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   models.EnrollmentEnrolled,
		Progress: 0,
	}
	if err := s.db.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyEnrolled
		}
		return nil, err
	}

	if s.events != nil {
		err := s.events.Publish(events.CourseEnrolledKey, map[string]interface{}{
			"user_id":   userID,
			"course_id": courseID,
		})
		if err != nil {
			log.Printf("Failed to publish %s event: %v", events.CourseEnrolledKey, err)
		}
	}

	enrollment.Course = course
	return &enrollment, nil
}

func (s *EnrollmentService) GetUserEnrollments(userID uint) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.db.Where("user_id = ?", userID).
		Preload("Course").
		Preload("Course.Instructor").
		Order("created_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (s *EnrollmentService) UpdateStatus(userID, courseID uint, status string) (*models.Enrollment, error) {
	switch status {
	case models.EnrollmentEnrolled, models.EnrollmentCompleted, models.EnrollmentDropped:
	default:
		return nil, ErrInvalidStatus
	}

	var enrollment models.Enrollment
	err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}

	progress := enrollment.Progress
	if status == models.EnrollmentCompleted {
		progress = 100
	}
	err = s.db.Model(&enrollment).Updates(map[string]interface{}{
		"status":   status,
		"progress": progress,
	}).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (s *EnrollmentService) UpdateProgress(userID, courseID uint, progress int) (*models.Enrollment, error) {
	if progress < 0 || progress > 100 {
		return nil, ErrInvalidProgress
	}

	var enrollment models.Enrollment
	err := s.db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrEnrollmentNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(&enrollment).Update("progress", progress).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}
