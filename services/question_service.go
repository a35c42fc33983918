package services

import (
	"errors"

	"learnhub/models"

	"gorm.io/gorm"
)

type UpdateQuestionRequest struct {
	Text     string                `json:"text"`
	Type     string                `json:"type" binding:"omitempty,oneof=single_choice multiple_choice true_false"`
	Points   int                   `json:"points"`
	Position *int                  `json:"position"`
	Options  []CreateOptionRequest `json:"options"`
}

func (s *TestService) GetQuestions(testID uint) ([]models.Question, error) {
	var questions []models.Question
	err := s.db.Where("test_id = ?", testID).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		Order("position ASC").
		Find(&questions).Error
	return questions, err
}

func (s *TestService) GetQuestion(id uint) (*models.Question, error) {
	var question models.Question
	err := s.db.
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Order("options.id")
		}).
		First(&question, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// CreateQuestion appends by default; an explicit position shifts the
// questions at and above that slot up by one first.
func (s *TestService) CreateQuestion(testID uint, req *CreateQuestionRequest) (*models.Question, error) {
	var test models.Test
	if err := s.db.First(&test, testID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTestNotFound
		}
		return nil, err
	}
	if err := validateOptionSet(req.Type, req.Options); err != nil {
		return nil, err
	}

	var question models.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var position int
		if req.Position != nil {
			if err := questionSeq.MakeRoom(tx, testID, *req.Position); err != nil {
				return err
			}
			position = *req.Position
		} else {
			next, err := questionSeq.NextPosition(tx, testID)
			if err != nil {
				return err
			}
			position = next
		}

		question = models.Question{
			TestID:   testID,
			Text:     req.Text,
			Type:     req.Type,
			Points:   pointsOrDefault(req.Points),
			Position: position,
		}
		if err := tx.Create(&question).Error; err != nil {
			return err
		}
		for _, optReq := range req.Options {
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
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuestion(question.ID)
}

// UpdateQuestion rewrites the question in place. A new position runs the
// closed-range shift; a non-empty option list replaces the old set.
func (s *TestService) UpdateQuestion(id uint, req *UpdateQuestionRequest) (*models.Question, error) {
	var question models.Question
	if err := s.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, err
	}

	if len(req.Options) > 0 {
		questionType := question.Type
		if req.Type != "" {
			questionType = req.Type
		}
		if err := validateOptionSet(questionType, req.Options); err != nil {
			return nil, err
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.Position != nil && *req.Position != question.Position {
			if err := questionSeq.Move(tx, question.TestID, question.Position, *req.Position); err != nil {
				return err
			}
			question.Position = *req.Position
		}

		if req.Text != "" {
			question.Text = req.Text
		}
		if req.Type != "" {
			question.Type = req.Type
		}
		if req.Points > 0 {
			question.Points = req.Points
		}
		if err := tx.Save(&question).Error; err != nil {
			return err
		}

		if len(req.Options) > 0 {
			if err := tx.Where("question_id = ?", id).Delete(&models.Option{}).Error; err != nil {
				return err
			}
			for _, optReq := range req.Options {
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
	return s.GetQuestion(id)
}

// ReorderQuestions overwrites positions from an explicit complete ordering
// of the test's questions.
func (s *TestService) ReorderQuestions(testID uint, questionIDs []uint) ([]models.Question, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		return questionSeq.Reorder(tx, testID, questionIDs)
	})
	if err != nil {
		return nil, err
	}
	return s.GetQuestions(testID)
}

// DeleteQuestion removes the question and closes the position hole.
func (s *TestService) DeleteQuestion(id uint) error {
	var question models.Question
	if err := s.db.First(&question, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuestionNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&models.Option{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&question).Error; err != nil {
			return err
		}
		return questionSeq.Compact(tx, question.TestID, question.Position)
	})
}
