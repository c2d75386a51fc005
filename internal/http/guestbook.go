package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/foliosite/folio/internal/auth"
	"github.com/foliosite/folio/internal/models"
	"github.com/foliosite/folio/internal/pagination"
)

type commentInput struct {
	Content string `json:"content" binding:"required,min=1"`
}

type commentPage struct {
	Items      []models.CommentWithAuthor `json:"items"`
	NextCursor *string                    `json:"nextCursor,omitempty"`
}

func commentWithAuthor(comment models.Comment) models.CommentWithAuthor {
	return models.CommentWithAuthor{
		ID:        comment.ID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		User: models.CommentAuthor{
			ID:    comment.User.ID,
			Name:  comment.User.Name,
			Image: comment.User.Image,
		},
	}
}

// ListComments pages through the guestbook, newest first, with each entry's
// author attached.
func (e *Env) ListComments(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	q := e.DB.Model(&models.Comment{}).Preload("User")
	page, err := pagination.List[models.Comment](q, query.params(defaultListLimit, false))
	if err != nil {
		log.Printf("Error listing comments: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch comments"})
		return
	}

	items := make([]models.CommentWithAuthor, 0, len(page.Items))
	for _, comment := range page.Items {
		items = append(items, commentWithAuthor(comment))
	}
	c.JSON(http.StatusOK, commentPage{Items: items, NextCursor: page.NextCursor})
}

// blockProfanity runs the external classifier and writes the response itself
// when the content is rejected or the classifier is unreachable. It returns
// true when the caller should stop.
func (e *Env) blockProfanity(c *gin.Context, content string) bool {
	result, err := e.Profanity.Check(c.Request.Context(), content)
	if err != nil {
		log.Printf("Error checking profanity: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify message"})
		return true
	}
	if result.IsProfanity {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message contains profanity!"})
		return true
	}
	return false
}

func (e *Env) CreateComment(c *gin.Context) {
	identity, _ := auth.FromContext(c)

	var input commentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if e.blockProfanity(c, input.Content) {
		return
	}

	comment := models.Comment{
		UserID:  identity.UserID,
		Content: input.Content,
	}
	if err := e.DB.Create(&comment).Error; err != nil {
		log.Printf("Error creating comment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create comment"})
		return
	}
	if err := e.DB.Preload("User").First(&comment, "id = ?", comment.ID).Error; err != nil {
		log.Printf("Error loading comment author: %v", err)
	}

	withAuthor := commentWithAuthor(comment)
	e.broadcastMessage(WsMessage{Type: "new_comment", Data: withAuthor})
	c.JSON(http.StatusCreated, withAuthor)
}

func (e *Env) UpdateComment(c *gin.Context) {
	identity, _ := auth.FromContext(c)

	var input commentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}
	if e.blockProfanity(c, input.Content) {
		return
	}

	var comment models.Comment
	if err := e.DB.Preload("User").First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		log.Printf("Error fetching comment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}
	if comment.UserID != identity.UserID && !identity.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your comment"})
		return
	}

	if err := e.DB.Model(&comment).Update("content", input.Content).Error; err != nil {
		log.Printf("Error updating comment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update comment"})
		return
	}

	withAuthor := commentWithAuthor(comment)
	e.broadcastMessage(WsMessage{Type: "update_comment", Data: withAuthor})
	c.JSON(http.StatusOK, withAuthor)
}

func (e *Env) DeleteComment(c *gin.Context) {
	identity, _ := auth.FromContext(c)

	var comment models.Comment
	if err := e.DB.First(&comment, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		log.Printf("Error fetching comment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}
	if comment.UserID != identity.UserID && !identity.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your comment"})
		return
	}

	if err := e.DB.Delete(&comment).Error; err != nil {
		log.Printf("Error deleting comment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete comment"})
		return
	}

	e.broadcastMessage(WsMessage{Type: "delete_comment", Data: gin.H{"id": comment.ID}})
	c.JSON(http.StatusOK, gin.H{"success": true})
}
