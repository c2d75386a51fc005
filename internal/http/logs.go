package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foliosite/folio/internal/models"
	"github.com/foliosite/folio/internal/pagination"
)

type listLogsQuery struct {
	listQuery
	Category  string `form:"category"`
	Published string `form:"published" binding:"omitempty,oneof=all published"`
}

type createLogInput struct {
	Title    string `json:"title" binding:"required,min=1"`
	Content  string `json:"content" binding:"required,min=1"`
	Category string `json:"category" binding:"required,min=1"`
}

// ListLogs pages through log entries, filtered by category and publish state.
// Unless published=all is requested, drafts stay hidden.
func (e *Env) ListLogs(c *gin.Context) {
	var query listLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	q := e.DB.Model(&models.Log{})
	if query.Category != "" && query.Category != "all" {
		q = q.Where("category = ?", query.Category)
	}
	if query.Published != "all" {
		q = q.Where("is_published = ?", true)
	}

	page, err := pagination.List[models.Log](q, query.params(defaultLogLimit, false))
	if err != nil {
		log.Printf("Error listing logs: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (e *Env) CreateLog(c *gin.Context) {
	var input createLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	entry := models.Log{
		Title:       input.Title,
		Content:     input.Content,
		Category:    input.Category,
		IsPublished: true,
	}
	if err := e.DB.Create(&entry).Error; err != nil {
		log.Printf("Error creating log: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create log"})
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (e *Env) UpdateLog(c *gin.Context) {
	var input createLogInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var entry models.Log
	if err := e.DB.First(&entry, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Log not found"})
			return
		}
		log.Printf("Error fetching log: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update log"})
		return
	}

	if err := e.DB.Model(&entry).Updates(map[string]interface{}{
		"title":    input.Title,
		"content":  input.Content,
		"category": input.Category,
	}).Error; err != nil {
		log.Printf("Error updating log: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update log"})
		return
	}
	c.JSON(http.StatusOK, entry)
}

func (e *Env) DeleteLog(c *gin.Context) {
	res := e.DB.Delete(&models.Log{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		log.Printf("Error deleting log: %v", res.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete log"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Log not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
