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

type createPostInput struct {
	Title   string `json:"title" binding:"required,min=1"`
	Content string `json:"content" binding:"required,min=1"`
}

// ListPosts returns one page of posts, pinned first.
func (e *Env) ListPosts(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	page, err := pagination.List[models.Post](e.DB.Model(&models.Post{}), query.params(defaultListLimit, true))
	if err != nil {
		log.Printf("Error listing posts: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (e *Env) GetPost(c *gin.Context) {
	var post models.Post
	if err := e.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("Error fetching post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (e *Env) CreatePost(c *gin.Context) {
	var input createPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	post := models.Post{
		Title:       input.Title,
		Content:     input.Content,
		IsPublished: true,
	}
	if err := e.DB.Create(&post).Error; err != nil {
		log.Printf("Error creating post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (e *Env) UpdatePost(c *gin.Context) {
	var input createPostInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var post models.Post
	if err := e.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("Error fetching post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}

	if err := e.DB.Model(&post).Updates(map[string]interface{}{
		"title":   input.Title,
		"content": input.Content,
	}).Error; err != nil {
		log.Printf("Error updating post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update post"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (e *Env) DeletePost(c *gin.Context) {
	res := e.DB.Delete(&models.Post{}, "id = ?", c.Param("id"))
	if res.Error != nil {
		log.Printf("Error deleting post: %v", res.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete post"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// TogglePinPost flips a post's pin flag. Calling it twice restores the
// original state.
func (e *Env) TogglePinPost(c *gin.Context) {
	var post models.Post
	if err := e.DB.First(&post, "id = ?", c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		log.Printf("Error fetching post: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle pin"})
		return
	}

	if err := e.DB.Model(&post).Update("is_pinned", !post.IsPinned).Error; err != nil {
		log.Printf("Error toggling pin: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to toggle pin"})
		return
	}
	c.JSON(http.StatusOK, post)
}
