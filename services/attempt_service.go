package services

import (
	"errors"
	"log"
	"time"

	"learnhub/events"
	"learnhub/models"

	"gorm.io/gorm"
)

// AttemptService owns the attempt lifecycle for a (user, test) pair:
// NotStarted -> InProgress (start) -> Completed (submit). Completed is
// terminal; there is no retake and no resubmission.
type AttemptService struct {
	db     *gorm.DB
	events *events.Publisher
}

func NewAttemptService(db *gorm.DB, publisher *events.Publisher) *AttemptService {
	return &AttemptService{db: db, events: publisher}
}

// SanitizedTest is the start-response payload. Options carry only id and
// content here; the correctness flag must never appear before submission.
type SanitizedTest struct {
	ID           uint                `json:"id"`
	Title        string              `json:"title"`
	Description  string              `json:"description"`
	TimeLimit    *int                `json:"time_limit,omitempty"`
	PassingScore int                 `json:"passing_score"`
	Questions    []SanitizedQuestion `json:"questions"`
}

type SanitizedQuestion struct {
	ID       uint              `json:"id"`
	Text     string            `json:"text"`
	Type     string            `json:"type"`
	Points   int               `json:"points"`
	Position int               `json:"position"`
	Options  []SanitizedOption `json:"options"`
}

type SanitizedOption struct {
	ID      uint   `json:"id"`
	Content string `json:"content"`
	// IsCorrect is intentionally omitted until the attempt is submitted
}

type StartTestResult struct {
	AttemptID uint          `json:"attempt_id"`
	Test      SanitizedTest `json:"test"`
}

type SubmitTestResult struct {
	Score  float64 `json:"score"`
	Passed bool    `json:"passed"`
}

// TestReport is the post-submission view: the only place correctness data
// leaves the service.
type TestReport struct {
	TestID      uint             `json:"test_id"`
	Title       string           `json:"title"`
	Score       float64          `json:"score"`
	Passed      bool             `json:"passed"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt *time.Time       `json:"completed_at"`
	Questions   []QuestionReport `json:"questions"`
}

type QuestionReport struct {
	QuestionID        uint           `json:"question_id"`
	Text              string         `json:"text"`
	Points            int            `json:"points"`
	Correct           bool           `json:"correct"`
	SelectedOptionIDs []uint         `json:"selected_option_ids"`
	CorrectOptionIDs  []uint         `json:"correct_option_ids"`
	SelectedContents  []string       `json:"selected_contents"`
	CorrectContents   []string       `json:"correct_contents"`
	Options           []OptionReport `json:"options"`
}

type OptionReport struct {
	ID         uint   `json:"id"`
	Content    string `json:"content"`
	IsCorrect  bool   `json:"is_correct"`
	IsSelected bool   `json:"is_selected"`
}

// StartTest creates the attempt row and hands back the test with the answer
// key stripped. The unique (user_id, test_id) index is the race-breaker for
// the one-attempt rule; the lookup below is just a friendlier early exit.
func (s *AttemptService) StartTest(testID, userID uint) (*StartTestResult, error) {
	test, err := s.loadTest(testID)
	if err != nil {
		return nil, err
	}

	var existing models.TestAttempt
	err = s.db.Where("user_id = ? AND test_id = ?", userID, testID).First(&existing).Error
	if err == nil {
		return nil, ErrAlreadyAttempted
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	attempt := models.TestAttempt{
		UserID:    userID,
		TestID:    testID,
		Score:     0,
		Answers:   models.AnswerMap{},
		StartedAt: time.Now(),
	}
	if err := s.db.Create(&attempt).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyAttempted
		}
		return nil, err
	}

	return &StartTestResult{
		AttemptID: attempt.ID,
		Test:      sanitizeTest(test),
	}, nil
}

// SubmitTest grades the submitted answers against the stored answer key and
// closes the attempt. Resubmission after completion is rejected.
func (s *AttemptService) SubmitTest(testID, userID uint, answers models.AnswerMap) (*SubmitTestResult, error) {
	var attempt models.TestAttempt
	err := s.db.Where("user_id = ? AND test_id = ?", userID, testID).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	if attempt.CompletedAt != nil {
		return nil, ErrAlreadySubmitted
	}

	test, err := s.loadTest(testID)
	if err != nil {
		return nil, err
	}

	if answers == nil {
		answers = models.AnswerMap{}
	}
	earned, total := scoreAnswers(test.Questions, answers)
	score := finalScore(earned, total)

	now := time.Now()
	err = s.db.Model(&attempt).Updates(map[string]interface{}{
		"answers":      answers,
		"score":        score,
		"completed_at": now,
	}).Error
	if err != nil {
		return nil, err
	}

	s.publish(events.TestSubmittedKey, map[string]interface{}{
		"user_id": userID,
		"test_id": testID,
		"score":   score,
	})

	return &SubmitTestResult{
		Score:  score,
		Passed: score >= float64(test.PassingScore),
	}, nil
}

// GetTestReport reconstructs the per-question detail for a completed
// attempt. An attempt that was started but never submitted stays redacted.
func (s *AttemptService) GetTestReport(testID, userID uint) (*TestReport, error) {
	var attempt models.TestAttempt
	err := s.db.Where("user_id = ? AND test_id = ?", userID, testID).First(&attempt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, err
	}
	if attempt.CompletedAt == nil {
		return nil, ErrAttemptNotCompleted
	}

	test, err := s.loadTest(testID)
	if err != nil {
		return nil, err
	}

	report := buildReport(test, &attempt)
	return &report, nil
}

// GetUserTests returns a report for every completed attempt of the user,
// most recent start first.
func (s *AttemptService) GetUserTests(userID uint) ([]TestReport, error) {
	var attempts []models.TestAttempt
	err := s.db.Where("user_id = ? AND completed_at IS NOT NULL", userID).
		Order("started_at DESC").
		Find(&attempts).Error
	if err != nil {
		return nil, err
	}

	reports := []TestReport{}
	for i := range attempts {
		test, err := s.loadTest(attempts[i].TestID)
		if errors.Is(err, ErrTestNotFound) {
			continue // test was deleted after the attempt
		}
		if err != nil {
			return nil, err
		}
		reports = append(reports, buildReport(test, &attempts[i]))
	}
	return reports, nil
}

func (s *AttemptService) loadTest(id uint) (*models.Test, error) {
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

func (s *AttemptService) publish(key string, payload interface{}) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(key, payload); err != nil {
		log.Printf("Failed to publish %s event: %v", key, err)
	}
}

func sanitizeTest(test *models.Test) SanitizedTest {
	out := SanitizedTest{
		ID:           test.ID,
		Title:        test.Title,
		Description:  test.Description,
		TimeLimit:    test.TimeLimit,
		PassingScore: test.PassingScore,
		Questions:    make([]SanitizedQuestion, len(test.Questions)),
	}
	for i, q := range test.Questions {
		sq := SanitizedQuestion{
			ID:       q.ID,
			Text:     q.Text,
			Type:     q.Type,
			Points:   q.Points,
			Position: q.Position,
			Options:  make([]SanitizedOption, len(q.Options)),
		}
		for j, o := range q.Options {
			sq.Options[j] = SanitizedOption{ID: o.ID, Content: o.Content}
		}
		out.Questions[i] = sq
	}
	return out
}

// scoreAnswers walks every question of the test, answered or not, so
// unanswered questions still count toward the denominator.
func scoreAnswers(questions []models.Question, answers models.AnswerMap) (earned, total int) {
	for _, q := range questions {
		total += q.Points
		if answerKeyMatched(q.Options, answers[q.ID]) {
			earned += q.Points
		}
	}
	return earned, total
}

// answerKeyMatched reports whether the selected option set is exactly the
// correct option set. Full credit or none; the rule is identical for
// single-choice, multiple-choice and true/false questions.
func answerKeyMatched(options []models.Option, selected []uint) bool {
	correct := make(map[uint]bool)
	for _, o := range options {
		if o.IsCorrect {
			correct[o.ID] = true
		}
	}
	picked := make(map[uint]bool, len(selected))
	for _, id := range selected {
		picked[id] = true
	}
	if len(picked) != len(correct) {
		return false
	}
	for id := range picked {
		if !correct[id] {
			return false
		}
	}
	return true
}

// finalScore resolves a zero-point test to 0 instead of dividing by zero.
func finalScore(earned, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(earned) / float64(total) * 100
}

func buildReport(test *models.Test, attempt *models.TestAttempt) TestReport {
	report := TestReport{
		TestID:      test.ID,
		Title:       test.Title,
		Score:       attempt.Score,
		Passed:      attempt.Score >= float64(test.PassingScore),
		StartedAt:   attempt.StartedAt,
		CompletedAt: attempt.CompletedAt,
		Questions:   make([]QuestionReport, len(test.Questions)),
	}
	for i, q := range test.Questions {
		selected := attempt.Answers[q.ID]
		picked := make(map[uint]bool, len(selected))
		for _, id := range selected {
			picked[id] = true
		}

		qr := QuestionReport{
			QuestionID:        q.ID,
			Text:              q.Text,
			Points:            q.Points,
			Correct:           answerKeyMatched(q.Options, selected),
			SelectedOptionIDs: []uint{},
			CorrectOptionIDs:  []uint{},
			SelectedContents:  []string{},
			CorrectContents:   []string{},
			Options:           make([]OptionReport, len(q.Options)),
		}
		for j, o := range q.Options {
			isSelected := picked[o.ID]
			if isSelected {
				qr.SelectedOptionIDs = append(qr.SelectedOptionIDs, o.ID)
				qr.SelectedContents = append(qr.SelectedContents, o.Content)
			}
			if o.IsCorrect {
				qr.CorrectOptionIDs = append(qr.CorrectOptionIDs, o.ID)
				qr.CorrectContents = append(qr.CorrectContents, o.Content)
			}
			qr.Options[j] = OptionReport{
				ID:         o.ID,
				Content:    o.Content,
				IsCorrect:  o.IsCorrect,
				IsSelected: isSelected,
			}
		}
		report.Questions[i] = qr
	}
	return report
}
