package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"learnhub/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBCounter atomic.Int64

// newTestDB opens a fresh in-memory database per test. The shared-cache DSN
// keeps the database alive across the connections gorm pools.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:svc_test_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Chapter{},
		&models.Lesson{},
		&models.Attachment{},
		&models.Test{},
		&models.Question{},
		&models.Option{},
		&models.TestAttempt{},
		&models.Enrollment{},
		&models.CourseRating{},
		&models.Message{},
	)
	require.NoError(t, err)
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{
		Email:     email,
		Password:  "hashed",
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
		Status:    models.StatusActive,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, instructorID uint, published bool) models.Course {
	t.Helper()
	course := models.Course{
		Title:        "Intro to Databases",
		Description:  "Indexes, transactions, normalization",
		InstructorID: instructorID,
		IsPublished:  published,
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

// seedScoredTest builds the canonical two-question fixture used across the
// attempt tests: a 2-point single-choice and a 3-point multiple-choice with
// two correct options.
func seedScoredTest(t *testing.T, db *gorm.DB, courseID uint) *models.Test {
	t.Helper()
	svc := NewTestService(db)
	test, err := svc.CreateTest(TestScope{CourseID: &courseID}, &CreateTestRequest{
		Title:       "Checkpoint",
		IsPublished: true,
		Questions: []CreateQuestionRequest{
			{
				Text:   "Which statement acquires a row lock?",
				Type:   models.QuestionSingleChoice,
				Points: 2,
				Options: []CreateOptionRequest{
					{Content: "SELECT ... FOR UPDATE", IsCorrect: true},
					{Content: "EXPLAIN ANALYZE"},
				},
			},
			{
				Text:   "Which properties are part of ACID?",
				Type:   models.QuestionMultipleChoice,
				Points: 3,
				Options: []CreateOptionRequest{
					{Content: "Atomicity", IsCorrect: true},
					{Content: "Durability", IsCorrect: true},
					{Content: "Elasticity"},
				},
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, test.Questions, 2)
	return test
}

// correctOptionIDs returns the IDs of the correct options of a question in
// stored order.
func correctOptionIDs(q models.Question) []uint {
	var ids []uint
	for _, o := range q.Options {
		if o.IsCorrect {
			ids = append(ids, o.ID)
		}
	}
	return ids
}
