package handlers

import (
	"net/http"

	"learnhub/models"
	"learnhub/services"

	"github.com/gin-gonic/gin"
)

type ChapterHandler struct {
	chapterService *services.ChapterService
}

func NewChapterHandler(chapterService *services.ChapterService) *ChapterHandler {
	return &ChapterHandler{chapterService: chapterService}
}

func (h *ChapterHandler) GetChapters(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	publishedOnly := c.GetString("role") == models.RoleStudent
	chapters, err := h.chapterService.GetChapters(courseID, publishedOnly)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapters)
}

func (h *ChapterHandler) GetChapter(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	chapter, err := h.chapterService.GetChapter(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *ChapterHandler) CreateChapter(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.CreateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.chapterService.CreateChapter(courseID, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

func (h *ChapterHandler) UpdateChapter(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req services.UpdateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter, err := h.chapterService.UpdateChapter(id, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *ChapterHandler) TogglePublish(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	chapter, err := h.chapterService.TogglePublish(id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapter)
}

func (h *ChapterHandler) DeleteChapter(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.chapterService.DeleteChapter(id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chapter deleted"})
}

func (h *ChapterHandler) ReorderChapters(c *gin.Context) {
	courseID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req struct {
		ChapterIDs []uint `json:"chapter_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapters, err := h.chapterService.ReorderChapters(courseID, req.ChapterIDs)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, chapters)
}
