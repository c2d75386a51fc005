package http

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type uploadImageInput struct {
	Image  string `json:"image" binding:"required"`
	Folder string `json:"folder" binding:"required"`
}

type deleteImageInput struct {
	PublicID string `json:"publicId" binding:"required"`
}

// UploadImage forwards a signed upload to the image host and returns the
// hosted URL and public id.
func (e *Env) UploadImage(c *gin.Context) {
	var input uploadImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	result, err := e.Images.Upload(c.Request.Context(), input.Image, input.Folder)
	if err != nil {
		log.Printf("Error uploading image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upload image to Cloudinary"})
		return
	}
	c.JSON(http.StatusOK, result)
}

// DeleteImage issues a signed destroy against the image host.
func (e *Env) DeleteImage(c *gin.Context) {
	var input deleteImageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if err := e.Images.Destroy(c.Request.Context(), input.PublicID); err != nil {
		log.Printf("Error deleting image: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete image from Cloudinary"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
