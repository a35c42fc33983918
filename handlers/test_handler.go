package handlers

import (
	"net/http"

	"learnhub/services"

	"github.com/gin-gonic/gin"
)

type TestHandler struct {
	testService *services.TestService
}

func NewTestHandler(testService *services.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// Test owner scopes, one per nested route group.
const (
	ScopeCourse  = "course"
	ScopeChapter = "chapter"
	ScopeLesson  = "lesson"
)

func scopeFromRoute(c *gin.Context, kind string) (services.TestScope, bool) {
	id, ok := paramID(c, "id")
	if !ok {
		return services.TestScope{}, false
	}

	var scope services.TestScope
	switch kind {
	case ScopeCourse:
		scope.CourseID = &id
	case ScopeChapter:
		scope.ChapterID = &id
	case ScopeLesson:
		scope.LessonID = &id
	}
	return scope, true
}

// CreateTest returns the handler for the given owner scope; the routes wire
// one instance per nested group.
func (h *TestHandler) CreateTest(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFromRoute(c, kind)
		if !ok {
			return
		}

		var req services.CreateTestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		test, err := h.testService.CreateTest(scope, &req)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusCreated, test)
	}
}

func (h *TestHandler) GetTests(kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := scopeFromRoute(c, kind)
		if !ok {
			return
		}

		tests, err := h.testService.GetTests(scope)
		if err != nil {
			handleServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, tests)
	}
}

func (h *TestHandler) GetTest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	test, err := h.testService.GetTest(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

func (h *TestHandler) UpdateTest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateTestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	test, err := h.testService.UpdateTest(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

func (h *TestHandler) TogglePublish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	test, err := h.testService.TogglePublish(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

func (h *TestHandler) DeleteTest(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.testService.DeleteTest(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Test deleted"})
}

func (h *TestHandler) GetQuestions(c *gin.Context) {
	testID, ok := paramID(c, "id")
	if !ok {
		return
	}

	questions, err := h.testService.GetQuestions(testID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *TestHandler) CreateQuestion(c *gin.Context) {
	testID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.testService.CreateQuestion(testID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *TestHandler) UpdateQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	question, err := h.testService.UpdateQuestion(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *TestHandler) ReorderQuestions(c *gin.Context) {
	testID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		QuestionIDs []uint `json:"question_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	questions, err := h.testService.ReorderQuestions(testID, req.QuestionIDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *TestHandler) DeleteQuestion(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.testService.DeleteQuestion(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}
