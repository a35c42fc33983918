package services

import (
	"fmt"
	"testing"

	"learnhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func enrollStudent(t *testing.T, db *gorm.DB, studentID, courseID uint) {
	t.Helper()
	_, err := NewEnrollmentService(db, nil).Enroll(studentID, courseID)
	require.NoError(t, err)
}

func TestRateCourseValidation(t *testing.T) {
	db := newTestDB(t)
	instructor := seedUser(t, db, "teach@example.com", models.RoleInstructor)
	student := seedUser(t, db, "student@example.com", models.RoleStudent)
	course := seedCourse(t, db, instructor.ID, true)
	enrollStudent(t, db, student.ID, course.ID)

	svc := NewRatingService(db)
	for _, bad := range []int{0, 6, -1} {
		_, err := svc.RateCourse(student.ID, course.ID, bad, "")
		assert.ErrorIs(t, err, ErrInvalidRating, "rating %d", bad)
	}
}

func TestRateCourseRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	instructor := seedUser(t, db, "teach@example.com", models.RoleInstructor)
	student := seedUser(t, db, "student@example.com", models.RoleStudent)
	course := seedCourse(t, db, instructor.ID, true)

	svc := NewRatingService(db)
	_, err := svc.RateCourse(student.ID, course.ID, 4, "")
	assert.ErrorIs(t, err, ErrNotEnrolled)
}

func TestRateCourseUpserts(t *testing.T) {
	db := newTestDB(t)
	instructor := seedUser(t, db, "teach@example.com", models.RoleInstructor)
	student := seedUser(t, db, "student@example.com", models.RoleStudent)
	course := seedCourse(t, db, instructor.ID, true)
	enrollStudent(t, db, student.ID, course.ID)

	svc := NewRatingService(db)
	_, err := svc.RateCourse(student.ID, course.ID, 3, "fine")
	require.NoError(t, err)
	_, err = svc.RateCourse(student.ID, course.ID, 5, "grew on me")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.CourseRating{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	var stored models.CourseRating
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, course.ID).First(&stored).Error)
	assert.Equal(t, 5, stored.Rating)
	assert.Equal(t, "grew on me", stored.Review)
}

func TestGetCourseRatingsSummary(t *testing.T) {
	db := newTestDB(t)
	instructor := seedUser(t, db, "teach@example.com", models.RoleInstructor)
	course := seedCourse(t, db, instructor.ID, true)

	svc := NewRatingService(db)
	stars := []int{5, 5, 4, 2}
	for i, star := range stars {
		student := seedUser(t, db, fmt.Sprintf("student%d@example.com", i), models.RoleStudent)
		enrollStudent(t, db, student.ID, course.ID)
		_, err := svc.RateCourse(student.ID, course.ID, star, "")
		require.NoError(t, err)
	}

	summary, err := svc.GetCourseRatings(course.ID, 1, 10)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, summary.Average, 0.001)
	assert.EqualValues(t, 4, summary.Pagination.Total)
	assert.Len(t, summary.Ratings, 4)

	require.Len(t, summary.Distribution, 5)
	assert.Equal(t, StarCount{Star: 5, Count: 2}, summary.Distribution[0])
	assert.Equal(t, StarCount{Star: 4, Count: 1}, summary.Distribution[1])
	assert.Equal(t, StarCount{Star: 3, Count: 0}, summary.Distribution[2])
	assert.Equal(t, StarCount{Star: 2, Count: 1}, summary.Distribution[3])
	assert.Equal(t, StarCount{Star: 1, Count: 0}, summary.Distribution[4])
}

func TestGetCourseRatingsEmpty(t *testing.T) {
	db := newTestDB(t)
	instructor := seedUser(t, db, "teach@example.com", models.RoleInstructor)
	course := seedCourse(t, db, instructor.ID, true)

	summary, err := NewRatingService(db).GetCourseRatings(course.ID, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, summary.Average)
	assert.Empty(t, summary.Ratings)
	assert.Len(t, summary.Distribution, 5)
}
