package services

import "errors"

// Domain failures returned by the services. Handlers translate these into
// HTTP statuses; anything else is treated as an infrastructure error.
var (
	ErrAlreadyAttempted    = errors.New("test has already been attempted")
	ErrAttemptNotFound     = errors.New("test attempt not found")
	ErrAlreadySubmitted    = errors.New("test has already been submitted")
	ErrAttemptNotCompleted = errors.New("test has not been submitted yet")

	ErrTestNotFound     = errors.New("test not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrCourseNotFound   = errors.New("course not found")
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrMessageNotFound  = errors.New("message not found")
	ErrUserNotFound     = errors.New("user not found")

	ErrInvalidPosition  = errors.New("position out of range")
	ErrInvalidReorder   = errors.New("reorder list does not match the sibling set")
	ErrInvalidOptions   = errors.New("invalid option set")
	ErrInvalidTestScope = errors.New("test must attach to exactly one of course, chapter or lesson")

	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrNotEnrolled        = errors.New("must be enrolled in the course")
	ErrInvalidStatus      = errors.New("invalid enrollment status")
	ErrInvalidProgress    = errors.New("progress must be between 0 and 100")
	ErrInvalidRating      = errors.New("rating must be between 1 and 5")

	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user is not active")
	ErrInvalidOTP         = errors.New("invalid or expired verification code")
)
