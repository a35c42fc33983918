package handlers

import (
	"net/http"

	"learnhub/models"
	"learnhub/services"
	"learnhub/storage"

	"github.com/gin-gonic/gin"
)

type LessonHandler struct {
	lessonService *services.LessonService
	store         *storage.Store
}

func NewLessonHandler(lessonService *services.LessonService, store *storage.Store) *LessonHandler {
	return &LessonHandler{lessonService: lessonService, store: store}
}

func (h *LessonHandler) GetLessons(c *gin.Context) {
	chapterID, ok := paramID(c, "id")
	if !ok {
		return
	}

	publishedOnly := c.GetString("role") == models.RoleStudent
	lessons, err := h.lessonService.GetLessons(chapterID, publishedOnly)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

func (h *LessonHandler) GetLesson(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	lesson, err := h.lessonService.GetLesson(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *LessonHandler) CreateLesson(c *gin.Context) {
	chapterID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.CreateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.lessonService.CreateLesson(chapterID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

func (h *LessonHandler) UpdateLesson(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson, err := h.lessonService.UpdateLesson(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *LessonHandler) TogglePublish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	lesson, err := h.lessonService.TogglePublish(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lesson)
}

func (h *LessonHandler) DeleteLesson(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.lessonService.DeleteLesson(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lesson deleted"})
}

func (h *LessonHandler) ReorderLessons(c *gin.Context) {
	chapterID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		LessonIDs []uint `json:"lesson_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lessons, err := h.lessonService.ReorderLessons(chapterID, req.LessonIDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// UploadAttachment stores the file on disk and records it against the
// lesson. The attachment type comes from the form, not the file extension.
func (h *LessonHandler) UploadAttachment(c *gin.Context) {
	lessonID, ok := paramID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File required"})
		return
	}

	name, err := h.store.Save(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	attachmentType := c.DefaultPostForm("type", models.AttachmentDocument)
	attachment, err := h.lessonService.AddAttachment(lessonID, &services.AddAttachmentRequest{
		Name: c.DefaultPostForm("name", file.Filename),
		URL:  "/uploads/" + name,
		Type: attachmentType,
	})
	if err != nil {
		h.store.Remove(name)
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, attachment)
}
