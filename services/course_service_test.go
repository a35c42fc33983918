package services

import (
	"fmt"
	"testing"

	"learnhub/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCoursesFiltersAndPaginates(t *testing.T) {
	db := newTestDB(t)
	instructor := seedUser(t, db, "teach@example.com", models.RoleInstructor)
	other := seedUser(t, db, "other@example.com", models.RoleInstructor)

	svc := NewCourseService(db)
	for i := 0; i < 12; i++ {
		_, err := svc.CreateCourse(instructor.ID, &CreateCourseRequest{
			Title:       fmt.Sprintf("Go Fundamentals %d", i),
			IsPublished: true,
		})
		require.NoError(t, err)
	}
	_, err := svc.CreateCourse(other.ID, &CreateCourseRequest{
		Title:       "Rust for Gophers",
		IsPublished: false,
	})
	require.NoError(t, err)

	published := true
	courses, pagination, err := svc.GetCourses(CourseFilter{IsPublished: &published, Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, courses, 10)
	assert.EqualValues(t, 12, pagination.Total)
	assert.Equal(t, 2, pagination.Pages)

	courses, _, err = svc.GetCourses(CourseFilter{IsPublished: &published, Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	courses, _, err = svc.GetCourses(CourseFilter{InstructorID: other.ID})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Rust for Gophers", courses[0].Title)
}

func TestGetCoursesSearchNeedsThreeCharacters(t *testing.T) {
	db := newTestDB(t)
	instructor := seedUser(t, db, "teach@example.com", models.RoleInstructor)
	svc := NewCourseService(db)

	_, err := svc.CreateCourse(instructor.ID, &CreateCourseRequest{Title: "Distributed Systems"})
	require.NoError(t, err)
	_, err = svc.CreateCourse(instructor.ID, &CreateCourseRequest{Title: "Compilers"})
	require.NoError(t, err)

	// Two characters: the filter is skipped, everything comes back.
	courses, _, err := svc.GetCourses(CourseFilter{Search: "Di"})
	require.NoError(t, err)
	assert.Len(t, courses, 2)

	courses, _, err = svc.GetCourses(CourseFilter{Search: "Distributed"})
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Distributed Systems", courses[0].Title)
}

func TestUpdateCoursePartialFields(t *testing.T) {
	db := newTestDB(t)
	instructor := seedUser(t, db, "teach@example.com", models.RoleInstructor)
	svc := NewCourseService(db)

	course, err := svc.CreateCourse(instructor.ID, &CreateCourseRequest{
		Title:       "Original",
		Description: "keep me",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCourse(course.ID, &UpdateCourseRequest{Title: "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)
	assert.Equal(t, "keep me", updated.Description)

	_, err = svc.UpdateCourse(999, &UpdateCourseRequest{Title: "nope"})
	assert.ErrorIs(t, err, ErrCourseNotFound)
}

func TestDeleteCourseCascades(t *testing.T) {
	db := newTestDB(t)
	instructor := seedUser(t, db, "teach@example.com", models.RoleInstructor)
	student := seedUser(t, db, "student@example.com", models.RoleStudent)
	course := seedCourse(t, db, instructor.ID, true)

	chapterSvc := NewChapterService(db)
	chapter, err := chapterSvc.CreateChapter(course.ID, &CreateChapterRequest{Title: "Ch 1"})
	require.NoError(t, err)

	lessonSvc := NewLessonService(db)
	lesson, err := lessonSvc.CreateLesson(chapter.ID, &CreateLessonRequest{Title: "L 1"})
	require.NoError(t, err)

	seedScoredTest(t, db, course.ID)
	enrollStudent(t, db, student.ID, course.ID)
	_, err = NewRatingService(db).RateCourse(student.ID, course.ID, 4, "")
	require.NoError(t, err)

	svc := NewCourseService(db)
	require.NoError(t, svc.DeleteCourse(course.ID))

	_, err = svc.GetCourse(course.ID)
	assert.ErrorIs(t, err, ErrCourseNotFound)
	_, err = chapterSvc.GetChapter(chapter.ID)
	assert.ErrorIs(t, err, ErrChapterNotFound)
	_, err = lessonSvc.GetLesson(lesson.ID)
	assert.ErrorIs(t, err, ErrLessonNotFound)

	var enrollments, ratings, tests int64
	require.NoError(t, db.Model(&models.Enrollment{}).Where("course_id = ?", course.ID).Count(&enrollments).Error)
	require.NoError(t, db.Model(&models.CourseRating{}).Where("course_id = ?", course.ID).Count(&ratings).Error)
	require.NoError(t, db.Model(&models.Test{}).Where("course_id = ?", course.ID).Count(&tests).Error)
	assert.Zero(t, enrollments)
	assert.Zero(t, ratings)
	assert.Zero(t, tests)
}

func TestDeleteChapterRemovesLessonTests(t *testing.T) {
	db := newTestDB(t)
	instructor := seedUser(t, db, "teach@example.com", models.RoleInstructor)
	course := seedCourse(t, db, instructor.ID, true)

	chapterSvc := NewChapterService(db)
	chapter, err := chapterSvc.CreateChapter(course.ID, &CreateChapterRequest{Title: "Ch 1"})
	require.NoError(t, err)

	lessonSvc := NewLessonService(db)
	lesson, err := lessonSvc.CreateLesson(chapter.ID, &CreateLessonRequest{Title: "L 1"})
	require.NoError(t, err)

	testSvc := NewTestService(db)
	lessonTest, err := testSvc.CreateTest(TestScope{LessonID: &lesson.ID}, &CreateTestRequest{
		Title: "Lesson quiz",
		Questions: []CreateQuestionRequest{
			{
				Text: "Q",
				Type: models.QuestionSingleChoice,
				Options: []CreateOptionRequest{
					{Content: "yes", IsCorrect: true},
					{Content: "no"},
				},
			},
		},
	})
	require.NoError(t, err)

	require.NoError(t, chapterSvc.DeleteChapter(chapter.ID))

	_, err = testSvc.GetTest(lessonTest.ID)
	assert.ErrorIs(t, err, ErrTestNotFound)
	_, err = lessonSvc.GetLesson(lesson.ID)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}
