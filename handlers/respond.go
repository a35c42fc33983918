package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"learnhub/services"

	"github.com/gin-gonic/gin"
)

// handleServiceError maps domain errors onto HTTP statuses. Anything not
// recognized is a 500 with a generic body so internals never leak.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTestNotFound),
		errors.Is(err, services.ErrQuestionNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrChapterNotFound),
		errors.Is(err, services.ErrLessonNotFound),
		errors.Is(err, services.ErrMessageNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAttemptNotFound),
		errors.Is(err, services.ErrEnrollmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrAlreadyAttempted),
		errors.Is(err, services.ErrAlreadySubmitted),
		errors.Is(err, services.ErrAlreadyEnrolled),
		errors.Is(err, services.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidOTP):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrUserInactive),
		errors.Is(err, services.ErrNotEnrolled):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})

	case errors.Is(err, services.ErrAttemptNotCompleted),
		errors.Is(err, services.ErrInvalidPosition),
		errors.Is(err, services.ErrInvalidReorder),
		errors.Is(err, services.ErrInvalidOptions),
		errors.Is(err, services.ErrInvalidTestScope),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidProgress),
		errors.Is(err, services.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return 0, false
	}
	return userID.(uint), true
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return 0, false
	}
	return uint(id), true
}
