package services

import (
	"errors"
	"math"

	"learnhub/models"

	"gorm.io/gorm"
)

type CourseService struct {
	db *gorm.DB
}

func NewCourseService(db *gorm.DB) *CourseService {
	return &CourseService{db: db}
}

type CreateCourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	IsPublished bool   `json:"is_published"`
}

type UpdateCourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
}

type CourseFilter struct {
	Search       string
	InstructorID uint
	IsPublished  *bool
	Page         int
	Limit        int
}

type Pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

// GetCourses lists courses with optional search/instructor/published
// filters and pagination metadata.
func (s *CourseService) GetCourses(filter CourseFilter) ([]models.Course, *Pagination, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	query := s.db.Model(&models.Course{})
	if filter.IsPublished != nil {
		query = query.Where("is_published = ?", *filter.IsPublished)
	}
	if len(filter.Search) > 2 {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if filter.InstructorID != 0 {
		query = query.Where("instructor_id = ?", filter.InstructorID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, nil, err
	}

	var courses []models.Course
	err := query.
		Preload("Instructor").
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("chapters.position")
		}).
		Preload("Chapters.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("lessons.position")
		}).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, nil, err
	}

	pagination := &Pagination{
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: int(math.Ceil(float64(total) / float64(limit))),
	}
	return courses, pagination, nil
}

func (s *CourseService) GetCourse(id uint) (*models.Course, error) {
	var course models.Course
	err := s.db.
		Preload("Instructor").
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("chapters.position")
		}).
		Preload("Chapters.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.position")
		}).
		Preload("Tests", "is_published = ?", true).
		First(&course, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) CreateCourse(instructorID uint, req *CreateCourseRequest) (*models.Course, error) {
	course := models.Course{
		Title:        req.Title,
		Description:  req.Description,
		CoverImage:   req.CoverImage,
		InstructorID: instructorID,
		IsPublished:  req.IsPublished,
	}
	if err := s.db.Create(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) UpdateCourse(id uint, req *UpdateCourseRequest) (*models.Course, error) {
	var course models.Course
	if err := s.db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if req.Title != "" {
		course.Title = req.Title
	}
	if req.Description != "" {
		course.Description = req.Description
	}
	if req.CoverImage != "" {
		course.CoverImage = req.CoverImage
	}
	if err := s.db.Save(&course).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

func (s *CourseService) TogglePublish(id uint) (*models.Course, error) {
	var course models.Course
	if err := s.db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	if err := s.db.Model(&course).Update("is_published", !course.IsPublished).Error; err != nil {
		return nil, err
	}
	return &course, nil
}

// DeleteCourse cascades through chapters, lessons, attachments, tests,
// enrollments and ratings.
func (s *CourseService) DeleteCourse(id uint) error {
	var course models.Course
	if err := s.db.First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var chapterIDs []uint
		if err := tx.Model(&models.Chapter{}).
			Where("course_id = ?", id).
			Pluck("id", &chapterIDs).Error; err != nil {
			return err
		}
		if err := deleteChapterContents(tx, chapterIDs); err != nil {
			return err
		}
		if len(chapterIDs) > 0 {
			if err := tx.Where("id IN ?", chapterIDs).Delete(&models.Chapter{}).Error; err != nil {
				return err
			}
		}

		var testIDs []uint
		if err := tx.Model(&models.Test{}).
			Where("course_id = ?", id).
			Pluck("id", &testIDs).Error; err != nil {
			return err
		}
		if err := deleteTestsByID(tx, testIDs); err != nil {
			return err
		}

		if err := tx.Where("course_id = ?", id).Delete(&models.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.CourseRating{}).Error; err != nil {
			return err
		}
		return tx.Delete(&course).Error
	})
}
