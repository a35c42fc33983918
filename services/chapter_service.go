package services

import (
	"errors"

	"learnhub/models"

	"gorm.io/gorm"
)

type ChapterService struct {
	db *gorm.DB
}

func NewChapterService(db *gorm.DB) *ChapterService {
	return &ChapterService{db: db}
}

type CreateChapterRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	IsPublished bool   `json:"is_published"`
}

type UpdateChapterRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
}

func (s *ChapterService) GetChapters(courseID uint, publishedOnly bool) ([]models.Chapter, error) {
	query := s.db.Where("course_id = ?", courseID).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("lessons.position")
		}).
		Order("position ASC")
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var chapters []models.Chapter
	err := query.Find(&chapters).Error
	return chapters, err
}

func (s *ChapterService) GetChapter(id uint) (*models.Chapter, error) {
	var chapter models.Chapter
	err := s.db.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_published = ?", true).Order("lessons.position")
		}).
		Preload("Lessons.Attachments").
		Preload("Tests", "is_published = ?", true).
		First(&chapter, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrChapterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

// CreateChapter appends at the end of the course's chapter list.
func (s *ChapterService) CreateChapter(courseID uint, req *CreateChapterRequest) (*models.Chapter, error) {
	var course models.Course
	if err := s.db.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	var chapter models.Chapter
	err := s.db.Transaction(func(tx *gorm.DB) error {
		position, err := chapterSeq.NextPosition(tx, courseID)
		if err != nil {
			return err
		}
		chapter = models.Chapter{
			CourseID:    courseID,
			Title:       req.Title,
			Description: req.Description,
			CoverImage:  req.CoverImage,
			Position:    position,
			IsPublished: req.IsPublished,
		}
		return tx.Create(&chapter).Error
	})
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (s *ChapterService) UpdateChapter(id uint, req *UpdateChapterRequest) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := s.db.First(&chapter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}

	if req.Title != "" {
		chapter.Title = req.Title
	}
	if req.Description != "" {
		chapter.Description = req.Description
	}
	if req.CoverImage != "" {
		chapter.CoverImage = req.CoverImage
	}
	if err := s.db.Save(&chapter).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

func (s *ChapterService) TogglePublish(id uint) (*models.Chapter, error) {
	var chapter models.Chapter
	if err := s.db.First(&chapter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}
	if err := s.db.Model(&chapter).Update("is_published", !chapter.IsPublished).Error; err != nil {
		return nil, err
	}
	return &chapter, nil
}

// DeleteChapter cascades to lessons, their attachments and the tests hanging
// off the chapter or its lessons, then compacts the remaining positions.
func (s *ChapterService) DeleteChapter(id uint) error {
	var chapter models.Chapter
	if err := s.db.First(&chapter, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChapterNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := deleteChapterContents(tx, []uint{id}); err != nil {
			return err
		}
		if err := tx.Delete(&chapter).Error; err != nil {
			return err
		}
		return chapterSeq.Compact(tx, chapter.CourseID, chapter.Position)
	})
}

// ReorderChapters assigns positions 1..n following the given complete list
// of chapter IDs.
func (s *ChapterService) ReorderChapters(courseID uint, chapterIDs []uint) ([]models.Chapter, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return chapterSeq.Reorder(tx, courseID, chapterIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.GetChapters(courseID, false)
}

// deleteChapterContents removes the lessons, attachments and tests under the
// given chapters. Shared with the course deletion cascade.
func deleteChapterContents(tx *gorm.DB, chapterIDs []uint) error {
	if len(chapterIDs) == 0 {
		return nil
	}
	var lessonIDs []uint
	if err := tx.Model(&models.Lesson{}).
		Where("chapter_id IN ?", chapterIDs).
		Pluck("id", &lessonIDs).Error; err != nil {
		return err
	}

	var testIDs []uint
	query := tx.Model(&models.Test{}).Where("chapter_id IN ?", chapterIDs)
	if len(lessonIDs) > 0 {
		query = query.Or("lesson_id IN ?", lessonIDs)
	}
	if err := query.Pluck("id", &testIDs).Error; err != nil {
		return err
	}
	if err := deleteTestsByID(tx, testIDs); err != nil {
		return err
	}

	if len(lessonIDs) > 0 {
		if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", lessonIDs).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}
	}
	return nil
}
