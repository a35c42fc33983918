package services

import (
	"errors"
	"fmt"

	"learnhub/models"

	"gorm.io/gorm"
)

type TestService struct {
	db *gorm.DB
}

func NewTestService(db *gorm.DB) *TestService {
	return &TestService{db: db}
}

// TestScope names the single owner of a test. Exactly one field must be set.
type TestScope struct {
	CourseID  *uint
	ChapterID *uint
	LessonID  *uint
}

func (sc TestScope) validate() error {
	set := 0
	if sc.CourseID != nil {
		set++
	}
	if sc.ChapterID != nil {
		set++
	}
	if sc.LessonID != nil {
		set++
	}
	if set != 1 {
		return ErrInvalidTestScope
	}
	return nil
}

type CreateTestRequest struct {
	Title        string                  `json:"title" binding:"required"`
	Description  string                  `json:"description"`
	TimeLimit    *int                    `json:"time_limit"`
	PassingScore *int                    `json:"passing_score"`
	IsPublished  bool                    `json:"is_published"`
	Questions    []CreateQuestionRequest `json:"questions" binding:"required,min=1"`
}

type CreateQuestionRequest struct {
	Text     string                `json:"text" binding:"required"`
	Type     string                `json:"type" binding:"required,oneof=single_choice multiple_choice true_false"`
	Points   int                   `json:"points"`
	Position *int                  `json:"position"`
	Options  []CreateOptionRequest `json:"options" binding:"required,min=2,max=6"`
}

type CreateOptionRequest struct {
	Content   string `json:"content" binding:"required"`
	IsCorrect bool   `json:"is_correct"`
	Image     string `json:"image"`
}

type UpdateTestRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	TimeLimit    *int   `json:"time_limit"`
	PassingScore *int   `json:"passing_score"`
}

// CreateTest creates a test with its full question/option payload in one
// transaction. Question positions follow the payload order, starting at 0.
func (s *TestService) CreateTest(scope TestScope, req *CreateTestRequest) (*models.Test, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	if err := s.verifyScope(scope); err != nil {
		return nil, err
	}

	passingScore := 70
	if req.PassingScore != nil {
		passingScore = *req.PassingScore
	}

	test := models.Test{
		Title:        req.Title,
		Description:  req.Description,
		TimeLimit:    req.TimeLimit,
		PassingScore: passingScore,
		IsPublished:  req.IsPublished,
		CourseID:     scope.CourseID,
		ChapterID:    scope.ChapterID,
		LessonID:     scope.LessonID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&test).Error; err != nil {
			return err
		}
		for i, qReq := range req.Questions {
			if err := validateOptionSet(qReq.Type, qReq.Options); err != nil {
				return err
			}
			question := models.Question{
				TestID:   test.ID,
				Text:     qReq.Text,
				Type:     qReq.Type,
				Points:   pointsOrDefault(qReq.Points),
				Position: i,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			for _, optReq := range qReq.Options {
				option := models.Option{
					QuestionID: question.ID,
					Content:    optReq.Content,
					IsCorrect:  optReq.IsCorrect,
					Image:      optReq.Image,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetTest(test.ID)
}

func (s *TestService) GetTest(id uint) (*models.Test, error) {
	var test models.Test
	err := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		First(&test, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &test, nil
}

// GetTests lists the tests attached to one owner scope, newest first.
func (s *TestService) GetTests(scope TestScope) ([]models.Test, error) {
	if err := scope.validate(); err != nil {
		return nil, err
	}
	query := s.db.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.position")
		}).
		Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		Order("created_at DESC")
	switch {
	case scope.CourseID != nil:
		query = query.Where("course_id = ?", *scope.CourseID)
	case scope.ChapterID != nil:
		query = query.Where("chapter_id = ?", *scope.ChapterID)
	case scope.LessonID != nil:
		query = query.Where("lesson_id = ?", *scope.LessonID)
	}
	var tests []models.Test
	err := query.Find(&tests).Error
	return tests, err
}

// UpdateTest changes test metadata only; question edits go through the
// question operations so positions stay maintained.
func (s *TestService) UpdateTest(id uint, req *UpdateTestRequest) (*models.Test, error) {
	var test models.Test
	if err := s.db.First(&test, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}

	if req.Title != "" {
		test.Title = req.Title
	}
	if req.Description != "" {
		test.Description = req.Description
	}
	if req.TimeLimit != nil {
		test.TimeLimit = req.TimeLimit
	}
	if req.PassingScore != nil {
		test.PassingScore = *req.PassingScore
	}

	if err := s.db.Save(&test).Error; err != nil {
		return nil, err
	}
	return s.GetTest(id)
}

func (s *TestService) TogglePublish(id uint) (*models.Test, error) {
	var test models.Test
	if err := s.db.First(&test, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	if err := s.db.Model(&test).Update("is_published", !test.IsPublished).Error; err != nil {
		return nil, err
	}
	return s.GetTest(id)
}

// DeleteTest cascades to questions, options and attempts.
func (s *TestService) DeleteTest(id uint) error {
	var test models.Test
	if err := s.db.First(&test, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTestNotFound
		}
		return err
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		return deleteTestsByID(tx, []uint{id})
	})
}

func (s *TestService) verifyScope(scope TestScope) error {
	switch {
	case scope.CourseID != nil:
		var course models.Course
		if err := s.db.First(&course, *scope.CourseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
	case scope.ChapterID != nil:
		var chapter models.Chapter
		if err := s.db.First(&chapter, *scope.ChapterID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrChapterNotFound
			}
			return err
		}
	case scope.LessonID != nil:
		var lesson models.Lesson
		if err := s.db.First(&lesson, *scope.LessonID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLessonNotFound
			}
			return err
		}
	}
	return nil
}

// deleteTestsByID removes tests together with their questions, options and
// attempts. Used by the cascades of course, chapter and lesson deletion too.
func deleteTestsByID(tx *gorm.DB, testIDs []uint) error {
	if len(testIDs) == 0 {
		return nil
	}
	var questionIDs []uint
	if err := tx.Model(&models.Question{}).
		Where("test_id IN ?", testIDs).
		Pluck("id", &questionIDs).Error; err != nil {
		return err
	}
	if len(questionIDs) > 0 {
		if err := tx.Where("question_id IN ?", questionIDs).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", questionIDs).Delete(&models.Question{}).Error; err != nil {
			return err
		}
	}
	if err := tx.Where("test_id IN ?", testIDs).Delete(&models.TestAttempt{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", testIDs).Delete(&models.Test{}).Error
}

func validateOptionSet(questionType string, options []CreateOptionRequest) error {
	correct := 0
	for _, opt := range options {
		if opt.IsCorrect {
			correct++
		}
	}
	if correct == 0 {
		return fmt.Errorf("%w: at least one option must be correct", ErrInvalidOptions)
	}
	if (questionType == models.QuestionSingleChoice || questionType == models.QuestionTrueFalse) && correct != 1 {
		return fmt.Errorf("%w: %s questions need exactly one correct option", ErrInvalidOptions, questionType)
	}
	return nil
}

func pointsOrDefault(points int) int {
	if points <= 0 {
		return 1
	}
	return points
}
