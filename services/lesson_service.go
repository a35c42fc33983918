package services

import (
	"errors"

	"learnhub/models"

	"gorm.io/gorm"
)

type LessonService struct {
	db *gorm.DB
}

func NewLessonService(db *gorm.DB) *LessonService {
	return &LessonService{db: db}
}

type CreateLessonRequest struct {
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content"`
	VideoURL    string `json:"video_url"`
	IsPublished bool   `json:"is_published"`
}

type UpdateLessonRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	VideoURL string `json:"video_url"`
}

type AddAttachmentRequest struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required"`
	Type string `json:"type" binding:"omitempty,oneof=DOCUMENT IMAGE VIDEO"`
}

func (s *LessonService) GetLessons(chapterID uint, publishedOnly bool) ([]models.Lesson, error) {
	query := s.db.Where("chapter_id = ?", chapterID).
		Preload("Attachments").
		Order("position ASC")
	if publishedOnly {
		query = query.Where("is_published = ?", true)
	}
	var lessons []models.Lesson
	err := query.Find(&lessons).Error
	return lessons, err
}

func (s *LessonService) GetLesson(id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	err := s.db.
		Preload("Attachments").
		Preload("Tests", "is_published = ?", true).
		First(&lesson, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// CreateLesson appends at the end of the chapter's lesson list.
func (s *LessonService) CreateLesson(chapterID uint, req *CreateLessonRequest) (*models.Lesson, error) {
	var chapter models.Chapter
	if err := s.db.First(&chapter, chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChapterNotFound
		}
		return nil, err
	}

	var lesson models.Lesson
	err := s.db.Transaction(func(tx *gorm.DB) error {
		position, err := lessonSeq.NextPosition(tx, chapterID)
		if err != nil {
			return err
		}
		lesson = models.Lesson{
			ChapterID:   chapterID,
			Title:       req.Title,
			Content:     req.Content,
			VideoURL:    req.VideoURL,
			Position:    position,
			IsPublished: req.IsPublished,
		}
		return tx.Create(&lesson).Error
	})
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (s *LessonService) UpdateLesson(id uint, req *UpdateLessonRequest) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.db.First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	if req.Title != "" {
		lesson.Title = req.Title
	}
	if req.Content != "" {
		lesson.Content = req.Content
	}
	if req.VideoURL != "" {
		lesson.VideoURL = req.VideoURL
	}
	if err := s.db.Save(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (s *LessonService) TogglePublish(id uint) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.db.First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}
	if err := s.db.Model(&lesson).Update("is_published", !lesson.IsPublished).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

// DeleteLesson cascades to attachments and lesson-level tests, then compacts
// the remaining positions in the chapter.
func (s *LessonService) DeleteLesson(id uint) error {
	var lesson models.Lesson
	if err := s.db.First(&lesson, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLessonNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var testIDs []uint
		if err := tx.Model(&models.Test{}).
			Where("lesson_id = ?", id).
			Pluck("id", &testIDs).Error; err != nil {
			return err
		}
		if err := deleteTestsByID(tx, testIDs); err != nil {
			return err
		}
		if err := tx.Where("lesson_id = ?", id).Delete(&models.Attachment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&lesson).Error; err != nil {
			return err
		}
		return lessonSeq.Compact(tx, lesson.ChapterID, lesson.Position)
	})
}

// ReorderLessons assigns positions 1..n following the given complete list of
// lesson IDs.
func (s *LessonService) ReorderLessons(chapterID uint, lessonIDs []uint) ([]models.Lesson, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return lessonSeq.Reorder(tx, chapterID, lessonIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.GetLessons(chapterID, false)
}

func (s *LessonService) AddAttachment(lessonID uint, req *AddAttachmentRequest) (*models.Attachment, error) {
	var lesson models.Lesson
	if err := s.db.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	attachmentType := req.Type
	if attachmentType == "" {
		attachmentType = models.AttachmentDocument
	}
	attachment := models.Attachment{
		LessonID: lessonID,
		Name:     req.Name,
		URL:      req.URL,
		Type:     attachmentType,
	}
	if err := s.db.Create(&attachment).Error; err != nil {
		return nil, err
	}
	return &attachment, nil
}
